package sweeper

import (
	"context"
	"log"
	"time"

	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/observability"
)

// Sweeper periodically fails messages stuck in the generating state longer
// than the configured bound.
type Sweeper struct {
	eng      engine.Engine
	interval time.Duration
	maxAge   time.Duration
}

// New builds a Sweeper.
func New(eng engine.Engine, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{eng: eng, interval: interval, maxAge: maxAge}
}

// Run sweeps on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single pass and returns the number of messages failed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	before := time.Now().Add(-s.maxAge).UnixMilli()
	n, err := s.eng.MarkStaleGenerating(ctx, before)
	if err != nil {
		log.Printf("sweeper: mark stale generating: %v", err)
		return 0
	}
	if n > 0 {
		observability.AddStaleGenerationsSwept(n)
		log.Printf("sweeper: failed %d stale generating messages", n)
	}
	return n
}
