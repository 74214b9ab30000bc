package wills

import (
	"errors"
	"net/http"

	apperrors "github.com/hereafter-labs/will-registry-api/errors"
)

var (
	// Validation errors, checked before any state mutation.
	ErrInvalidOwner             = errors.New("invalid owner address")
	ErrNoAllocationsOrValue     = errors.New("will needs allocations or a native deposit")
	ErrGracePeriodInvalid       = errors.New("grace period out of range")
	ErrActivityThresholdInvalid = errors.New("activity threshold out of range")
	ErrThresholdNotAboveGrace   = errors.New("activity threshold must be longer than the grace period")
	ErrInvalidAssetKind         = errors.New("invalid asset kind")
	ErrInvalidBeneficiary       = errors.New("invalid beneficiary address")
	ErrBeneficiaryExists        = errors.New("beneficiary already registered")
	ErrWillIDInvalid            = errors.New("will id is invalid")

	// Authorization errors.
	ErrNotWillOwner   = errors.New("caller is not the will owner")
	ErrNotBeneficiary = errors.New("caller is not a beneficiary of this will")

	// State errors.
	ErrWillNotFound        = errors.New("will not found")
	ErrWillInactive        = errors.New("will is not active")
	ErrBeneficiaryNotFound = errors.New("beneficiary not registered")

	// ErrSwitchAlreadyTriggered signals "nothing to do" rather than a
	// fault; monitoring backends poll and treat it as terminal for the
	// will, while ErrThresholdNotReached invites a later retry.
	ErrSwitchAlreadyTriggered = errors.New("dead man's switch already triggered")
	ErrThresholdNotReached    = errors.New("activity threshold not yet exceeded")
	ErrSwitchNotTriggered     = errors.New("dead man's switch not triggered")
	ErrGracePeriodNotEnded    = errors.New("grace period has not ended")
	ErrAlreadyClaimed         = errors.New("inheritance already claimed")
	ErrOperationInProgress    = errors.New("operation already in progress for this will")
)

func validationError(err error) error {
	return &apperrors.RequestError{StatusCode: http.StatusBadRequest, Err: err}
}

func authorizationError(err error) error {
	return &apperrors.RequestError{StatusCode: http.StatusForbidden, Err: err}
}

func notFoundError(err error) error {
	return &apperrors.RequestError{StatusCode: http.StatusNotFound, Err: err}
}

func stateError(err error) error {
	return &apperrors.RequestError{StatusCode: http.StatusConflict, Err: err}
}

func transferFailedError(err error) error {
	return &apperrors.RequestError{StatusCode: http.StatusBadGateway, Err: err}
}
