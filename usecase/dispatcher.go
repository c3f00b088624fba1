package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/domain"
)

// EventHandler reacts to one domain event.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventPublisher is the port use cases publish released events through.
type EventPublisher interface {
	Dispatch(ctx context.Context, events ...domain.Event) error
}

// EventDispatcher delivers events synchronously to the handlers subscribed
// to their name, in subscription order.
type EventDispatcher struct {
	handlers map[string][]EventHandler
	catchAll []EventHandler
	logger   *zap.Logger
	mu       sync.RWMutex
}

func NewEventDispatcher(logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

func (d *EventDispatcher) Subscribe(name string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// SubscribeAll registers a handler for every event.
func (d *EventDispatcher) SubscribeAll(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.catchAll = append(d.catchAll, handler)
}

// Dispatch runs every matching handler. A failing handler does not stop the
// others; all failures are returned joined.
func (d *EventDispatcher) Dispatch(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, event := range events {
		d.mu.RLock()
		handlers := append(append([]EventHandler{}, d.catchAll...), d.handlers[event.EventName()]...)
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				d.logger.Error("event handler failed", zap.String("event", event.EventName()), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", event.EventName(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// LogEvents returns a handler that writes every event to the logger.
func LogEvents(logger *zap.Logger) EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(_ context.Context, event domain.Event) error {
		logger.Info("domain event", zap.String("event", event.EventName()), zap.Any("payload", event))
		return nil
	}
}

var _ EventPublisher = (*EventDispatcher)(nil)
