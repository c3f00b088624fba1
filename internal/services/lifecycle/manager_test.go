package lifecycle

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestShutdownOrderAndErrors(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	failure := errors.New("close failed")

	m.Register("postgres", func(context.Context) error {
		order = append(order, "postgres")
		return nil
	})
	m.Register("buffer", func(context.Context) error {
		order = append(order, "buffer")
		return failure
	})
	m.Register("http_server", func(context.Context) error {
		order = append(order, "http_server")
		return nil
	})
	m.Register("ignored", nil)

	err := m.Shutdown(context.Background())
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined hook error, got %v", err)
	}
	if want := []string{"http_server", "buffer", "postgres"}; !slices.Equal(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestShutdownCancelsJobsFirst(t *testing.T) {
	m := New(time.Second, nil)
	var events []string
	started := make(chan struct{})

	m.Go("warm", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		events = append(events, "job stopped")
		return ctx.Err()
	})
	m.Register("redis", func(context.Context) error {
		events = append(events, "redis closed")
		return nil
	})

	<-started
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if want := []string{"job stopped", "redis closed"}; !slices.Equal(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}
