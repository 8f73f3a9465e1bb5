// Package scheduler runs synchronization passes over all configured sources, once or periodically.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/indexer"
)

//go:generate moq -out mocks/syncer.go -pkg mocks -skip-ensure -fmt goimports . Syncer

// ErrPassInProgress is returned by TriggerNow when a pass is already running
var ErrPassInProgress = errors.New("synchronization pass in progress")

// Syncer synchronizes a single source
type Syncer interface {
	SyncSource(ctx context.Context, src indexer.Source) (domain.BatchResult, error)
}

// Config holds scheduler configuration
type Config struct {
	Interval time.Duration // 0 means a single pass
	Sources  []indexer.Source
}

// Status is a snapshot of scheduler state
type Status struct {
	Passes       int            `json:"passes"`
	Running      bool           `json:"running"`
	LastStarted  time.Time      `json:"last_started"`
	LastDuration time.Duration  `json:"last_duration"`
	Sources      []SourceStatus `json:"sources"`
}

// SourceStatus is the outcome of the last synchronization of a source
type SourceStatus struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode"`
	SyncedAt  time.Time `json:"synced_at"`
	Succeeded int       `json:"succeeded"`
	Failed    []string  `json:"failed,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Scheduler runs synchronization passes. Passes never overlap, sources of a pass are
// processed one by one in configuration order.
type Scheduler struct {
	syncer   Syncer
	sources  []indexer.Source
	interval time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	passMu sync.Mutex // held for the duration of a pass

	mu     sync.RWMutex
	status Status
}

// NewScheduler creates a new scheduler instance
func NewScheduler(syncer Syncer, cfg Config) *Scheduler {
	return &Scheduler{syncer: syncer, sources: cfg.Sources, interval: cfg.Interval}
}

// Start runs the first pass right away and then one pass every interval until ctx is canceled or
// Stop is called. With zero interval only the first pass runs.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	ctx = s.ctx
	s.mu.Unlock()

	s.wg.Add(1)
	go s.worker(ctx)

	lgr.Printf("[INFO] scheduler started with %d sources, interval %v", len(s.sources), s.interval)
}

// Wait blocks until the scheduler worker is done
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	s.mu.RLock()
	cancel := s.cancel
	s.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	if err := s.RunOnce(ctx); err != nil {
		lgr.Printf("[WARN] %v", err)
	}
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				lgr.Printf("[WARN] %v", err)
			}
		}
	}
}

// RunOnce runs a single pass over all sources. A failing source doesn't stop the pass,
// the returned error reports how many sources failed.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	return s.pass(ctx)
}

// TriggerNow starts a pass in background unless one is already running. The pass is bound to
// the scheduler lifetime, not to the caller.
func (s *Scheduler) TriggerNow() error {
	if !s.passMu.TryLock() {
		return ErrPassInProgress
	}
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.passMu.Unlock()
		if err := s.pass(ctx); err != nil {
			lgr.Printf("[WARN] %v", err)
		}
	}()
	return nil
}

// Status returns a copy of the current state
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := s.status
	res.Sources = append([]SourceStatus(nil), s.status.Sources...)
	return res
}

// pass synchronizes every source, caller holds passMu
func (s *Scheduler) pass(ctx context.Context) error {
	started := time.Now()
	s.mu.Lock()
	s.status.Running = true
	s.status.LastStarted = started
	s.mu.Unlock()

	results := make([]SourceStatus, 0, len(s.sources))
	failed := 0
	for _, src := range s.sources {
		if ctx.Err() != nil {
			break
		}
		st := SourceStatus{Name: src.Name, Kind: string(src.Kind), Mode: src.Mode.String(), SyncedAt: time.Now()}
		res, err := s.syncer.SyncSource(ctx, src)
		if err != nil {
			lgr.Printf("[ERROR] failed to synchronize %s %q: %v", src.Kind, src.Name, err)
			st.Error = err.Error()
			failed++
		}
		st.Succeeded, st.Failed = len(res.Succeeded), res.Failed
		results = append(results, st)
	}

	s.mu.Lock()
	s.status.Running = false
	s.status.Passes++
	s.status.LastDuration = time.Since(started)
	s.status.Sources = results
	s.mu.Unlock()

	lgr.Printf("[INFO] synchronization pass completed in %v, %d sources, %d failed",
		time.Since(started).Round(time.Millisecond), len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(s.sources))
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("synchronization pass interrupted: %w", err)
	}
	return nil
}
