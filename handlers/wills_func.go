package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hereafter-labs/will-registry-api/wills"
	"github.com/gorilla/mux"
)

func (s *Wills) CreateFunc(rw http.ResponseWriter, r *http.Request) {
	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req wills.CreateWillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	res, err := s.service.CreateWill(r.Context(), req)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

// ListFunc lists wills by owner or by beneficiary, depending on which
// query parameter is present.
func (s *Wills) ListFunc(rw http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r)

	var (
		res []wills.Will
		err error
	)

	switch {
	case r.FormValue("owner") != "":
		res, err = s.service.ListByOwner(r.FormValue("owner"), limit, offset)
	case r.FormValue("beneficiary") != "":
		res, err = s.service.ListByBeneficiary(r.FormValue("beneficiary"), limit, offset)
	default:
		handleError(rw, r, MissingListFilterError)
		return
	}

	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func (s *Wills) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Details(id)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func (s *Wills) AddBeneficiaryFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req wills.AddBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	// Decode always overrides ID in the request
	req.WillID = id

	if err := s.service.AddBeneficiaryWithAllocation(r.Context(), req); err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Details(id)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

type removeBeneficiaryRequest struct {
	Caller string `json:"caller"`
}

func (s *Wills) RemoveBeneficiaryFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req removeBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	if err := s.service.RemoveBeneficiary(r.Context(), id, req.Caller, mux.Vars(r)["address"]); err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Details(id)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

type updateTimeframesRequest struct {
	Caller            string `json:"caller"`
	GracePeriod       uint64 `json:"gracePeriod"`
	ActivityThreshold uint64 `json:"activityThreshold"`
}

func (s *Wills) UpdateTimeframesFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req updateTimeframesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	res, err := s.service.UpdateTimeframes(r.Context(), id, req.Caller, req.GracePeriod, req.ActivityThreshold)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

type claimRequest struct {
	Beneficiary string `json:"beneficiary"`
}

func (s *Wills) ClaimFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	res, err := s.service.ClaimInheritance(r.Context(), id, req.Beneficiary)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func (s *Wills) ListAllocationsFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Allocations(id, mux.Vars(r)["address"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func (s *Wills) RemainingGracePeriodFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	remaining, err := s.service.RemainingGracePeriod(id)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, map[string]uint64{
		"remainingGracePeriod": uint64(remaining.Seconds()),
	})
}

func (s *Wills) TimeUntilSwitchFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	remaining, err := s.service.TimeUntilSwitch(id)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, map[string]uint64{
		"timeUntilSwitch": uint64(remaining.Seconds()),
	})
}
