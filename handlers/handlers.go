// Package handlers provides HTTP handlers for different services across
// the application.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/hereafter-labs/will-registry-api/errors"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var (
	EmptyBodyError = &apperrors.RequestError{
		StatusCode: http.StatusBadRequest, Err: errors.New("empty body"),
	}
	InvalidBodyError = &apperrors.RequestError{
		StatusCode: http.StatusBadRequest, Err: errors.New("invalid body"),
	}
	InvalidWillIDError = &apperrors.RequestError{
		StatusCode: http.StatusBadRequest, Err: errors.New("invalid will id"),
	}
	MissingListFilterError = &apperrors.RequestError{
		StatusCode: http.StatusBadRequest, Err: errors.New("owner or beneficiary parameter required"),
	}
)

// handleError is a helper function for unified HTTP error handling.
func handleError(rw http.ResponseWriter, r *http.Request, err error) {
	log.WithFields(log.Fields{
		"error":  err,
		"method": r.Method,
		"path":   r.URL.Path,
	}).Warn("Request error")

	// Check if the error was an errors.RequestError
	var reqErr *apperrors.RequestError
	if errors.As(err, &reqErr) {
		// Send error message to client
		http.Error(rw, reqErr.Error(), reqErr.StatusCode)
		return
	}

	// Otherwise do not send data regarding the error
	http.Error(rw, "Error", http.StatusInternalServerError)
}

// handleJsonResponse is a helper function for unified JSON response handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Error while encoding response")
	}
}

func checkNonEmptyBody(r *http.Request) error {
	if r.Body == nil || r.ContentLength == 0 {
		return EmptyBodyError
	}
	return nil
}

func parseWillID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["willId"], 10, 64)
	if err != nil {
		return 0, InvalidWillIDError
	}
	return id, nil
}

func parseListParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.FormValue("limit"))
	offset, _ = strconv.Atoi(r.FormValue("offset"))
	return
}
