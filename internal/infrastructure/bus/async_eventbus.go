package bus

import (
	"context"
	"errors"
	"sync"

	"wishlist-service/internal/domain/event"
	"wishlist-service/pkg/logger"
)

// ErrBusStopped is returned by Publish after Stop.
var ErrBusStopped = errors.New("event bus stopped")

// AsyncEventBus implements EventBus with asynchronous publishing
type AsyncEventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
	errorCh  chan error
	stopped  bool
	cancel   context.CancelFunc
}

// NewAsyncEventBus creates a new async event bus
func NewAsyncEventBus() *AsyncEventBus {
	return &AsyncEventBus{
		handlers: make(map[string][]EventHandler),
		errorCh:  make(chan error, 100),
	}
}

// Subscribe registers a handler for a specific event type
func (b *AsyncEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Start launches the error monitor
func (b *AsyncEventBus) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	go b.monitorErrors(ctx)
	return nil
}

// Stop rejects new events and waits for in-flight handlers to finish
func (b *AsyncEventBus) Stop() error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	cancel := b.cancel
	b.mu.Unlock()

	b.wg.Wait()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Publish hands evt to every subscribed handler on its own goroutine.
// Handlers run detached from the caller's cancellation so that a finished
// HTTP request does not abort delivery.
func (b *AsyncEventBus) Publish(ctx context.Context, evt event.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stopped {
		return ErrBusStopped
	}

	handlers := b.handlers[evt.EventType()]
	if len(handlers) == 0 {
		return nil
	}

	detached := context.WithoutCancel(ctx)
	b.wg.Add(len(handlers))
	for _, handler := range handlers {
		go b.publishToHandler(detached, handler, evt)
	}
	return nil
}

// PublishBatch publishes multiple events asynchronously
func (b *AsyncEventBus) PublishBatch(ctx context.Context, events []event.DomainEvent) error {
	for _, evt := range events {
		if err := b.Publish(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// Wait waits for all async event handlers to complete
func (b *AsyncEventBus) Wait() {
	b.wg.Wait()
}

// Errors exposes handler failures that were not consumed by the monitor.
func (b *AsyncEventBus) Errors() <-chan error {
	return b.errorCh
}

func (b *AsyncEventBus) publishToHandler(ctx context.Context, handler EventHandler, evt event.DomainEvent) {
	defer b.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx).
				Interface("panic", rec).
				Str("event_type", evt.EventType()).
				Msg("event handler panicked")
		}
	}()

	if err := handler.Handle(ctx, evt); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_type", evt.EventType()).
			Str("aggregate_id", evt.AggregateID()).
			Msg("error handling event")

		select {
		case b.errorCh <- err:
		default:
			logger.Warn(ctx).Err(err).Msg("event error channel full, dropping error")
		}
	}
}

func (b *AsyncEventBus) monitorErrors(ctx context.Context) {
	for {
		select {
		case err := <-b.errorCh:
			logger.Debug(ctx).Err(err).Msg("async event handler error drained")
		case <-ctx.Done():
			return
		}
	}
}
