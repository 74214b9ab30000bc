package activity

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/hereafter-labs/will-registry-api/errors"
	"github.com/hereafter-labs/will-registry-api/wills"
)

var ErrUnauthorizedBackend = errors.New("caller is not an authorized backend")

// Service gates the dead man's switch trigger behind the backend
// allow-list and evaluates an owner's wills against their thresholds.
type Service struct {
	store Store
	wills *wills.Service
}

func NewService(store Store, ws *wills.Service) *Service {
	return &Service{store, ws}
}

func (s *Service) SetAuthorizedBackend(address string, enabled bool) error {
	if address == "" {
		return &apperrors.RequestError{StatusCode: http.StatusBadRequest, Err: errors.New("backend address is empty")}
	}
	return s.store.SetAuthorizedBackend(address, enabled)
}

func (s *Service) AuthorizedBackends() ([]AuthorizedBackend, error) {
	return s.store.AuthorizedBackends()
}

// CheckAndTriggerDeadManSwitch evaluates every active will of the owner
// and fires the switch where the activity threshold has been exceeded.
// Distinct failures keep their meaning for polling backends: a will
// whose threshold has not passed yet is worth retrying, an already
// triggered one is not.
func (s *Service) CheckAndTriggerDeadManSwitch(ctx context.Context, backend, owner string) ([]wills.Will, error) {
	authorized, err := s.store.IsAuthorizedBackend(backend)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, &apperrors.RequestError{StatusCode: http.StatusForbidden, Err: ErrUnauthorizedBackend}
	}

	ww, err := s.wills.ListByOwner(owner, 0, 0)
	if err != nil {
		return nil, err
	}

	var active []wills.Will
	for _, w := range ww {
		if w.IsActive {
			active = append(active, w)
		}
	}
	if len(active) == 0 {
		return nil, &apperrors.RequestError{StatusCode: http.StatusNotFound, Err: wills.ErrWillInactive}
	}

	var triggered []wills.Will
	sawUntriggered := false

	for _, w := range active {
		if w.SwitchTriggered {
			continue
		}
		sawUntriggered = true

		res, err := s.wills.TriggerDeadManSwitch(ctx, w.ID)
		if err != nil {
			if errors.Is(err, wills.ErrThresholdNotReached) {
				continue
			}
			return nil, err
		}
		triggered = append(triggered, *res)
	}

	if len(triggered) > 0 {
		return triggered, nil
	}
	if !sawUntriggered {
		return nil, &apperrors.RequestError{StatusCode: http.StatusConflict, Err: wills.ErrSwitchAlreadyTriggered}
	}
	return nil, &apperrors.RequestError{StatusCode: http.StatusConflict, Err: wills.ErrThresholdNotReached}
}
