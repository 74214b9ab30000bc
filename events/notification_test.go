package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWebhookNotifierDelivery(t *testing.T) {
	received := make(chan Event, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		var e Event
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			t.Errorf("invalid webhook body: %v", err)
		}
		received <- e
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	n.Start()
	defer n.Stop()

	event := Event{ID: uuid.New(), Type: GracePeriodStarted, WillID: 3, Actor: "monitor-1"}
	n.Handle(event)

	select {
	case got := <-received:
		if got.ID != event.ID || got.Type != event.Type {
			t.Errorf("unexpected delivered event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhookNotifierRetries(t *testing.T) {
	var calls int32
	received := make(chan struct{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			rw.WriteHeader(http.StatusInternalServerError)
			return
		}
		received <- struct{}{}
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	n.Start()
	defer n.Stop()

	n.Handle(Event{ID: uuid.New(), Type: WillClaimed, WillID: 3})

	select {
	case <-received:
		if got := atomic.LoadInt32(&calls); got < 2 {
			t.Errorf("expected at least 2 delivery attempts, got %d", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not retried")
	}
}

func TestWebhookNotifierRejectsInvalidURL(t *testing.T) {
	if _, err := NewWebhookNotifier("not a url", time.Second); err == nil {
		t.Error("expected an error for an invalid url")
	}
}
