// Package errors provides an API for errors across the application.
package errors

// RequestError carries the HTTP status code an error should be reported
// with. Services wrap their domain errors in it so handlers can map every
// failure through a single code path.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
