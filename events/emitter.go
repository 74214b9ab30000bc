package events

import (
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler receives emitted events. Handlers run on their own goroutines
// and must not call back into the lifecycle service.
type Handler interface {
	Handle(Event)
}

// Emitter persists events and fans them out to registered handlers.
type Emitter struct {
	store Store

	mu       sync.RWMutex
	handlers []Handler
}

func NewEmitter(store Store) *Emitter {
	return &Emitter{store: store}
}

// Register adds an event handler for all emitted events.
func (e *Emitter) Register(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// Emit records one event and triggers the registered handlers. The record
// write is the authoritative part; handler fan-out is asynchronous.
func (e *Emitter) Emit(eventType Type, willID uint64, actor string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error while encoding event payload: %w", err)
	}

	event := Event{
		Type:    eventType,
		WillID:  willID,
		Actor:   actor,
		Payload: body,
	}

	if err := e.store.InsertEvent(&event); err != nil {
		return fmt.Errorf("error while storing event: %w", err)
	}

	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()

	for _, handler := range handlers {
		go handler.Handle(event)
	}

	return nil
}

// EmitOrLog is Emit for callers past the point of no return: the state
// transition has already settled, so a failed audit write is logged
// instead of failing the operation.
func (e *Emitter) EmitOrLog(eventType Type, willID uint64, actor string, payload interface{}) {
	if err := e.Emit(eventType, willID, actor, payload); err != nil {
		log.
			WithFields(log.Fields{"error": err, "type": eventType, "willId": willID}).
			Warn("Error while emitting event")
	}
}
