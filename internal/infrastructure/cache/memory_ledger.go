package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storeadmin/backend/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// MemoryLedger keeps processed webhook event IDs in a process-local map.
// Replicas do not share it, so it only suits single-instance deployments and tests.
type MemoryLedger struct {
	mu      sync.RWMutex
	expires map[string]time.Time
	now     func() time.Time

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryLedger creates a MemoryLedger that sweeps expired IDs every interval.
// A non-positive interval uses five minutes.
func NewMemoryLedger(interval time.Duration) *MemoryLedger {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	l := &MemoryLedger{
		expires: make(map[string]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	l.wg.Add(1)
	go l.sweepLoop(interval)

	return l
}

// MarkProcessed records eventID until ttl elapses. It returns false while a
// live record already exists.
func (l *MemoryLedger) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.expires[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	l.expires[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live record exists for eventID
func (l *MemoryLedger) IsProcessed(_ context.Context, eventID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	exp, ok := l.expires[eventID]
	return ok && l.now().Before(exp), nil
}

// Close stops the sweeper. Safe to call more than once.
func (l *MemoryLedger) Close() error {
	l.closeOnce.Do(func() {
		close(l.stop)
		l.wg.Wait()
	})
	return nil
}

// Len returns the number of records, expired ones included until the next sweep
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.expires)
}

func (l *MemoryLedger) sweepLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops expired records
func (l *MemoryLedger) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, exp := range l.expires {
		if !now.Before(exp) {
			delete(l.expires, id)
		}
	}
}

var _ shared.IdempotencyStore = (*MemoryLedger)(nil)
