package handlers

import (
	"net/http"

	"github.com/hereafter-labs/will-registry-api/wills"
)

// Wills is a HTTP server for wills.
// It provides will lifecycle, beneficiary and claim APIs.
// It uses wills.Service for interfacing with data.
type Wills struct {
	service *wills.Service
}

func NewWills(service *wills.Service) *Wills {
	return &Wills{service}
}

func (s *Wills) Create() http.Handler {
	return UseJson(http.HandlerFunc(s.CreateFunc))
}

func (s *Wills) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Wills) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *Wills) AddBeneficiary() http.Handler {
	return UseJson(http.HandlerFunc(s.AddBeneficiaryFunc))
}

func (s *Wills) RemoveBeneficiary() http.Handler {
	return UseJson(http.HandlerFunc(s.RemoveBeneficiaryFunc))
}

func (s *Wills) UpdateTimeframes() http.Handler {
	return UseJson(http.HandlerFunc(s.UpdateTimeframesFunc))
}

func (s *Wills) Claim() http.Handler {
	return UseJson(http.HandlerFunc(s.ClaimFunc))
}

func (s *Wills) ListAllocations() http.Handler {
	return http.HandlerFunc(s.ListAllocationsFunc)
}

func (s *Wills) RemainingGracePeriod() http.Handler {
	return http.HandlerFunc(s.RemainingGracePeriodFunc)
}

func (s *Wills) TimeUntilSwitch() http.Handler {
	return http.HandlerFunc(s.TimeUntilSwitchFunc)
}
