package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory. Buckets idle for an hour are
// swept.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	now     func() time.Time

	interval  time.Duration
	stop      chan struct{}
	closeOnce sync.Once
}

type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the sweep period; 0 disables sweeping.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.interval = d }
}

func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets:  make(map[string]*bucketState),
		now:      time.Now,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval > 0 {
		go s.sweepLoop()
	}
	return s
}

func (s *MemoryStore) ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, lastRefill: now}
		s.buckets[key] = b
	}

	// Cap the interval count so long idle periods cannot overflow.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	if elapsed := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals)); elapsed > 0 {
		b.tokens = min(b.tokens+elapsed*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}

	// Denied requests do not drain the bucket further.
	remaining := b.tokens - n
	if remaining >= 0 {
		b.tokens = remaining
	}
	b.lastAccess = now
	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
	return nil
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Sweep drops buckets idle for more than an hour and returns how many went.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-time.Hour)
	n := 0
	for key, b := range s.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(s.buckets, key)
			n++
		}
	}
	return n
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	return nil
}
