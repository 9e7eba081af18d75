package replay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/hseal/pkg/logger"
)

// Memory keeps consumed ids in process memory. It only protects a single
// instance; use a shared backend when several verifiers run side by side.
type Memory struct {
	mu       sync.Mutex
	consumed map[string]time.Time

	opts      options
	stopSweep chan struct{}
	closeOnce sync.Once
}

// NewMemory creates an in-memory guard and starts its sweep goroutine unless
// the sweep interval is zero. Call Close to stop it.
func NewMemory(opts ...Option) *Memory {
	g := &Memory{
		consumed:  make(map[string]time.Time),
		opts:      newOptions(opts),
		stopSweep: make(chan struct{}),
	}

	if g.opts.sweepInterval > 0 {
		go g.sweep()
	}

	return g
}

func (g *Memory) TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return false, ErrEmptyID
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	select {
	case <-g.stopSweep:
		return false, ErrClosed
	default:
	}

	now := g.opts.now()
	if expiresAt, ok := g.consumed[jti]; ok && now.Before(expiresAt) {
		return false, nil
	}
	g.consumed[jti] = now.Add(g.opts.ttl(ttl))
	return true, nil
}

// Len returns the number of retained ids, expired ones included until the next sweep.
func (g *Memory) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.consumed)
}

// Sweep drops expired ids and returns how many were removed.
func (g *Memory) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.opts.now()
	removed := 0
	for jti, expiresAt := range g.consumed {
		if !now.Before(expiresAt) {
			delete(g.consumed, jti)
			removed++
		}
	}
	return removed
}

func (g *Memory) sweep() {
	ticker := time.NewTicker(g.opts.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := g.Sweep(); n > 0 {
				g.opts.log.Debug("swept consumed token ids", logger.Component("replay"), logger.Backend(BackendMemory), slog.Int("removed", n))
			}
		case <-g.stopSweep:
			return
		}
	}
}

// Close stops the sweep goroutine. Further TryConsume calls fail with ErrClosed.
// Safe to call multiple times.
func (g *Memory) Close() error {
	g.closeOnce.Do(func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		close(g.stopSweep)
	})
	return nil
}
