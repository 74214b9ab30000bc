package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	log "github.com/sirupsen/logrus"
)

const notifierQueueCapacity = 1000
const notifierMaxAttempts = 5

// WebhookNotifier is an event handler that POSTs each event to a
// configured endpoint, retrying with backoff on failure.
type WebhookNotifier struct {
	url     *url.URL
	timeout time.Duration
	queue   chan Event
	done    chan struct{}
}

func NewWebhookNotifier(rawURL string, timeout time.Duration) (*WebhookNotifier, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid event webhook url: %w", err)
	}

	return &WebhookNotifier{
		url:     u,
		timeout: timeout,
		queue:   make(chan Event, notifierQueueCapacity),
		done:    make(chan struct{}),
	}, nil
}

// Handle queues an event for delivery. Implements Handler.
func (n *WebhookNotifier) Handle(event Event) {
	select {
	case n.queue <- event:
	default:
		log.
			WithFields(log.Fields{"eventId": event.ID, "type": event.Type}).
			Warn("Event webhook queue full, dropping event")
	}
}

func (n *WebhookNotifier) Start() {
	go func() {
		for {
			select {
			case <-n.done:
				return
			case event := <-n.queue:
				n.deliver(event)
			}
		}
	}()
}

func (n *WebhookNotifier) Stop() {
	close(n.done)
}

func (n *WebhookNotifier) deliver(event Event) {
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    time.Minute,
		Factor: 5,
		Jitter: true,
	}

	for attempt := 1; ; attempt++ {
		err := n.send(event)
		if err == nil {
			return
		}

		if attempt >= notifierMaxAttempts {
			log.
				WithFields(log.Fields{"error": err, "eventId": event.ID}).
				Warn("Giving up on event webhook delivery")
			return
		}

		log.
			WithFields(log.Fields{"error": err, "eventId": event.ID, "attempt": attempt}).
			Debug("Event webhook delivery failed, retrying")

		time.Sleep(b.Duration())
	}
}

func (n *WebhookNotifier) send(event Event) error {
	content, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error while encoding webhook content: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url.String(), bytes.NewBuffer(content))
	if err != nil {
		return fmt.Errorf("error while creating webhook request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")

	client := http.Client{Timeout: n.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error while sending webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook endpoint responded with an unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
