package handlers

import (
	"net/http"

	"github.com/hereafter-labs/will-registry-api/datastore"
	"github.com/hereafter-labs/will-registry-api/events"
)

// Events is a HTTP server for the will event history.
type Events struct {
	store events.Store
}

func NewEvents(store events.Store) *Events {
	return &Events{store}
}

func (s *Events) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Events) ListFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseWillID(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	limit, offset := parseListParams(r)

	res, err := s.store.Events(id, datastore.ParseListOptions(limit, offset))
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}
