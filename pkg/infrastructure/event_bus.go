package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/railbook/railbook/pkg/application"
	"github.com/railbook/railbook/pkg/domain"
)

// simpleEventBus fans each event out to its handlers on goroutines and
// waits for all of them before returning.
type simpleEventBus[E domain.Event[T], T any] struct {
	handlers map[string][]application.EventHandler[E, T]
	mu       sync.RWMutex
	logger   application.AppLogger
}

func NewSimpleEventBus[E domain.Event[T], T any](logger application.AppLogger) application.EventBus[E, T] {
	return &simpleEventBus[E, T]{
		handlers: make(map[string][]application.EventHandler[E, T]),
		logger:   logger,
	}
}

func (bus *simpleEventBus[E, T]) RegisterHandler(eventName string, handler application.EventHandler[E, T]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
}

// Publish delivers the event to every handler registered under its
// name. An event nobody listens to is a silent success.
func (bus *simpleEventBus[E, T]) Publish(ctx context.Context, event E) error {
	bus.mu.RLock()
	handlers, found := bus.handlers[event.EventName()]
	bus.mu.RUnlock()

	if !found {
		bus.logger.Debug(ctx, "no handler registered for event", map[string]interface{}{
			"event_name": event.EventName(),
		})
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(handlers))
	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(errChan)
		close(done)
	}()

	for _, handler := range handlers {
		wg.Add(1)
		go func(h application.EventHandler[E, T]) {
			defer wg.Done()
			if err := h.Handle(ctx, event); err != nil {
				select {
				case errChan <- err:
				case <-ctx.Done():
				}
			}
		}(handler)
	}

	select {
	case <-ctx.Done():
		bus.logger.Error(ctx, "event delivery interrupted", map[string]interface{}{
			"event_name": event.EventName(),
			"error":      ctx.Err(),
		})
		return ctx.Err()
	case <-done:
		return bus.collectErrors(ctx, event.EventName(), errChan)
	}
}

func (bus *simpleEventBus[E, T]) collectErrors(ctx context.Context, eventName string, errChan <-chan error) error {
	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		bus.logger.Error(ctx, "event handlers failed", map[string]interface{}{
			"event_name": eventName,
			"errors":     errs,
		})
		return fmt.Errorf("event handlers failed: %v", errs)
	}
	return nil
}
