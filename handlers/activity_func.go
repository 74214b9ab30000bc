package handlers

import (
	"encoding/json"
	"net/http"
)

type checkAndTriggerRequest struct {
	Backend string `json:"backend"`
	Owner   string `json:"owner"`
}

func (s *Activity) CheckAndTriggerFunc(rw http.ResponseWriter, r *http.Request) {
	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req checkAndTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	res, err := s.service.CheckAndTriggerDeadManSwitch(r.Context(), req.Backend, req.Owner)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

type setBackendRequest struct {
	Address string `json:"address"`
	Enabled bool   `json:"enabled"`
}

func (s *Activity) SetBackendFunc(rw http.ResponseWriter, r *http.Request) {
	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req setBackendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	if err := s.service.SetAuthorizedBackend(req.Address, req.Enabled); err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, req)
}

func (s *Activity) ListBackendsFunc(rw http.ResponseWriter, r *http.Request) {
	res, err := s.service.AuthorizedBackends()
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}
