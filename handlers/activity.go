package handlers

import (
	"net/http"

	"github.com/hereafter-labs/will-registry-api/activity"
)

// Activity is a HTTP server for dead man's switch checks and the
// authorized backend allow-list.
type Activity struct {
	service *activity.Service
}

func NewActivity(service *activity.Service) *Activity {
	return &Activity{service}
}

func (s *Activity) CheckAndTrigger() http.Handler {
	return UseJson(http.HandlerFunc(s.CheckAndTriggerFunc))
}

func (s *Activity) SetBackend() http.Handler {
	return UseJson(http.HandlerFunc(s.SetBackendFunc))
}

func (s *Activity) ListBackends() http.Handler {
	return http.HandlerFunc(s.ListBackendsFunc)
}
