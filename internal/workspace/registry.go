package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	jobmetrics "github.com/shopdesk/shopdesk/internal/jobs"
)

// sweepJob names the janitor in job metrics.
const sweepJob = "workspace.sweep"

// Observer receives the live workspace count.
type Observer interface {
	SetWorkspaces(n int)
}

// Registry maps session ids to workspaces and evicts idle ones.
type Registry struct {
	cfg      Config
	ttl      time.Duration
	logger   *slog.Logger
	observer Observer
	jobs     *jobmetrics.Metrics
	now      func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry builds a Registry. ttl <= 0 disables eviction.
func NewRegistry(cfg Config, ttl time.Duration, logger *slog.Logger, observer Observer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:        cfg,
		ttl:        ttl,
		logger:     logger,
		observer:   observer,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating it on first use.
func (r *Registry) Get(id string) *Workspace {
	now := r.now()
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	if !ok {
		ws = newWorkspace(id, r.cfg, r.logger, now)
		r.workspaces[id] = ws
		r.logger.Debug("workspace created", slog.String("workspace", id))
	}
	count := len(r.workspaces)
	r.mu.Unlock()

	if ok {
		ws.touch(now)
	} else {
		r.report(count)
	}
	return ws
}

// Drop discards the workspace for id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.workspaces, id)
	count := len(r.workspaces)
	r.mu.Unlock()
	r.report(count)
}

// Len reports the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep evicts workspaces idle for longer than the ttl and returns how many
// went.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	evicted := 0
	for id, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			evicted++
		}
	}
	count := len(r.workspaces)
	r.mu.Unlock()
	if evicted > 0 {
		r.logger.Info("workspaces evicted", slog.Int("evicted", evicted), slog.Int("remaining", count))
		r.report(count)
	}
	return evicted
}

// InstrumentJobs times janitor sweeps with m.
func (r *Registry) InstrumentJobs(m *jobmetrics.Metrics) {
	r.jobs = m
}

// Run sweeps on every tick until ctx ends.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tracker := r.jobs.Track(sweepJob)
			r.jobs.AddEvicted(r.Sweep())
			_ = tracker.End(nil)
		}
	}
}

func (r *Registry) report(count int) {
	if r.observer != nil {
		r.observer.SetWorkspaces(count)
	}
}
