package event_bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

const (
	ClientSavedType    EventType = "client.saved"
	PaymentCreatedType EventType = "payment.created"
)

// Event carries a payload together with the context of the request that produced it.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{ctx: ctx, Type: eventType, Timestamp: time.Now(), Data: data}
}

func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is the typed view of an Event handed to SubscribeTyped handlers.
type EventT[T any] struct {
	Event
	Data T
}

type subscriber struct {
	id uint64
	h  func(Event) error
}

// EventBus dispatches events synchronously, in subscription order, on the publishing goroutine.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[uint64]func(Event) error
	nextID      uint64
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[EventType]map[uint64]func(Event) error)}
}

func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextID++
	id := eb.nextID
	if eb.subscribers[eventType] == nil {
		eb.subscribers[eventType] = make(map[uint64]func(Event) error)
	}
	eb.subscribers[eventType][id] = h
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		delete(eb.subscribers[eventType], id)
		if len(eb.subscribers[eventType]) == 0 {
			delete(eb.subscribers, eventType)
		}
	}
}

// SubscribeTyped registers h for events whose payload is a T. Events carrying another payload
// type are ignored.
func SubscribeTyped[T any](eb *EventBus, eventType EventType, h func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("event %s: expected payload %T, got %T, skipping", eventType, *new(T), e.Data)
			return nil
		}
		return h(EventT[T]{Event: e, Data: payload})
	})
}

// Publish runs every handler of e.Type. A failing or panicking handler does not stop the others;
// all failures are joined into the returned error.
func (eb *EventBus) Publish(e Event) error {
	if err := e.Context().Err(); err != nil {
		return fmt.Errorf("event %s: context cancelled before publish: %w", e.Type, err)
	}

	eb.mu.RLock()
	handlers := make([]subscriber, 0, len(eb.subscribers[e.Type]))
	for id, h := range eb.subscribers[e.Type] {
		handlers = append(handlers, subscriber{id: id, h: h})
	}
	eb.mu.RUnlock()
	sort.Slice(handlers, func(i, j int) bool { return handlers[i].id < handlers[j].id })

	var errs []error
	for _, s := range handlers {
		if err := e.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("context cancelled during event processing: %w", err))
			break
		}
		if err := invoke(s, e); err != nil {
			log.Errorf("handler %d failed for event %s: %v", s.id, e.Type, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

func invoke(s subscriber, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %d panicked on event %s: %v", s.id, e.Type, r)
		}
	}()
	return s.h(e)
}
