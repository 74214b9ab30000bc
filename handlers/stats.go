package handlers

import (
	"net/http"

	"github.com/hereafter-labs/will-registry-api/wills"
)

// Stats serves registry-wide counters.
type Stats struct {
	service *wills.Service
}

func NewStats(service *wills.Service) *Stats {
	return &Stats{service}
}

func (s *Stats) Get() http.Handler {
	return http.HandlerFunc(s.GetFunc)
}

func (s *Stats) GetFunc(rw http.ResponseWriter, r *http.Request) {
	res, err := s.service.Stats()
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}
