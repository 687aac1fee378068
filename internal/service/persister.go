package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// run is the single writer. Each wake-up drains the pending slot until it
// is empty; since enqueue overwrites the slot, a burst of mutations
// collapses into one write of the newest cart.
func (s *CartStore) run() {
	defer close(s.done)
	for range s.wake {
		s.drain()
	}
}

func (s *CartStore) drain() {
	for {
		s.mu.Lock()
		snap := s.pending
		s.pending = nil
		s.mu.Unlock()

		if snap == nil {
			return
		}

		err := s.write(snap)

		s.mu.Lock()
		s.attempted = snap.version
		s.lastErr = err
		close(s.progress)
		s.progress = make(chan struct{})
		s.mu.Unlock()
	}
}

func (s *CartStore) write(snap *snapshot) error {
	ctx := context.Background()
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "CartStore.persist")
	span.SetAttributes(
		attribute.Int64("cart.version", int64(snap.version)),
		attribute.Int("cart.lines", snap.cart.Len()),
		attribute.Bool("cart.clear", snap.clear),
	)
	defer span.End()

	start := time.Now()
	var err error
	if snap.clear {
		err = s.repo.Clear(ctx)
	} else {
		err = s.repo.Save(ctx, snap.cart)
	}
	s.metrics.ObservePersist(err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		// the in-memory cart stays as the user left it; the next mutation retries
		s.log.Errorf("Failed to persist cart version %d: %v", snap.version, err)
		return err
	}
	s.log.Debugf("Persisted cart version %d (%d lines)", snap.version, snap.cart.Len())
	return nil
}
