// Package initiation guards against duplicate BankID initiations for the
// same personal number. The identity provider rejects or misbehaves when two
// orders are started simultaneously for one person, so the orchestrator
// registers every attempt here first.
//
// This is a best-effort, single-process guard, not a distributed lock: the
// provider remains the source of truth for authentication.
package initiation

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyInProgress is returned by Begin when a live initiation already
// exists for the personal number.
var ErrAlreadyInProgress = errors.New("authentication already in progress")

const (
	// StalenessThreshold is the age beyond which an ongoing record is
	// treated as abandoned even if it has not been swept yet.
	StalenessThreshold = 30 * time.Second

	// Records older than sweepCutoff are removed by the periodic sweep. The
	// sweep is a safety net; explicit Clear on cancel/completion is the
	// primary removal path.
	sweepCutoff   = 5 * time.Minute
	sweepInterval = 5 * time.Minute
)

// Tracker holds one ongoing-initiation record per personal number. All
// operations are safe for concurrent use; Begin is an atomic
// insert-if-absent, so two near-simultaneous starts for the same person
// cannot both pass the duplicate check.
type Tracker struct {
	mu      sync.Mutex
	ongoing map[string]time.Time
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Tracker instance.
type Option func(*Tracker)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(t *Tracker) {
		t.nowTime = nowFunc
	}
}

// New creates an empty Tracker.
func New(options ...Option) *Tracker {
	tracker := &Tracker{
		ongoing: make(map[string]time.Time),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(tracker)
	}
	return tracker
}

// Begin registers an initiation for the personal number. It fails with
// ErrAlreadyInProgress if a record younger than StalenessThreshold exists;
// a stale record is overwritten.
func (t *Tracker) Begin(personalNumber string) error {
	if personalNumber == "" {
		return errors.New("personalNumber is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowTime()
	if startedAt, ok := t.ongoing[personalNumber]; ok && now.Sub(startedAt) < StalenessThreshold {
		return ErrAlreadyInProgress
	}
	t.ongoing[personalNumber] = now
	return nil
}

// HasOngoing reports whether a live initiation exists for the personal
// number. A stale record is deleted as a side effect of the check.
func (t *Tracker) HasOngoing(personalNumber string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	startedAt, ok := t.ongoing[personalNumber]
	if !ok {
		return false
	}
	if t.nowTime().Sub(startedAt) >= StalenessThreshold {
		delete(t.ongoing, personalNumber)
		return false
	}
	return true
}

// Clear removes the record unconditionally. Clearing an absent record is a
// no-op.
func (t *Tracker) Clear(personalNumber string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ongoing, personalNumber)
}

// SweepStale removes every record older than the sweep cutoff.
func (t *Tracker) SweepStale() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.nowTime().Add(-sweepCutoff)
	for personalNumber, startedAt := range t.ongoing {
		if startedAt.Before(cutoff) {
			delete(t.ongoing, personalNumber)
		}
	}
}

// Run sweeps on a fixed interval until the context is cancelled. Intended to
// be started once by the process owning the tracker.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.SweepStale()
		}
	}
}

// Len returns the number of records currently held, stale or not.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ongoing)
}
