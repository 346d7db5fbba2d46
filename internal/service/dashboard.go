package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clinicdesk/ui-gateway/internal/fetch"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

// ErrRefreshSuperseded reports that a refresh lost to a newer one before any
// snapshot was committed for the session. The caller should retry; the newer
// refresh owns the current generation.
var ErrRefreshSuperseded = errors.New("dashboard refresh superseded by a newer request")

// DashboardAPI is the slice of the admin upstream surface the dashboard reads.
type DashboardAPI interface {
	Reports(ctx context.Context, sid string, page, size int) (upstream.List[upstream.Report], error)
	Payments(ctx context.Context, sid string) (upstream.List[upstream.Payment], error)
	ListAppointments(ctx context.Context, sid string) (upstream.List[upstream.Appointment], error)
}

// Snapshot is one consistent dashboard view: all three aggregates fetched
// under the same refresh generation.
type Snapshot struct {
	Reports      upstream.List[upstream.Report]      `json:"reports"`
	Payments     upstream.List[upstream.Payment]     `json:"payments"`
	Appointments upstream.List[upstream.Appointment] `json:"appointments"`
	RefreshedAt  time.Time                           `json:"refreshed_at"`
}

const dashboardReportPageSize = 10

// DashboardService aggregates the admin dashboard data. Refreshes are
// guarded per session: when two refreshes race, only the newest generation
// may commit, so a slow superseded fetch can never clobber newer state.
type DashboardService struct {
	api    DashboardAPI
	logger *slog.Logger

	mu     sync.Mutex
	guards map[string]*fetch.Latest
	snaps  map[string]*Snapshot
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(api DashboardAPI, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		api:    api,
		logger: logger,
		guards: make(map[string]*fetch.Latest),
		snaps:  make(map[string]*Snapshot),
	}
}

func (s *DashboardService) guard(sid string) *fetch.Latest {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[sid]
	if !ok {
		g = &fetch.Latest{}
		s.guards[sid] = g
	}
	return g
}

// Refresh fetches all dashboard aggregates concurrently and commits the
// result if no newer refresh began meanwhile. When the result arrives stale,
// the previously committed snapshot is returned instead of the superseded
// data; if nothing was ever committed, Refresh fails with
// ErrRefreshSuperseded rather than hand back stale data.
func (s *DashboardService) Refresh(ctx context.Context, sid string) (*Snapshot, error) {
	guard := s.guard(sid)
	gen := guard.Begin()

	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reports, err := s.api.Reports(ctx, sid, 1, dashboardReportPageSize)
		if err != nil {
			return err
		}
		snap.Reports = reports
		return nil
	})
	g.Go(func() error {
		payments, err := s.api.Payments(ctx, sid)
		if err != nil {
			return err
		}
		snap.Payments = payments
		return nil
	})
	g.Go(func() error {
		appointments, err := s.api.ListAppointments(ctx, sid)
		if err != nil {
			return err
		}
		snap.Appointments = appointments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.RefreshedAt = time.Now()

	committed := guard.Commit(gen, func() {
		s.mu.Lock()
		s.snaps[sid] = snap
		s.mu.Unlock()
	})
	if !committed {
		s.logger.InfoContext(ctx, "discarded superseded dashboard refresh")
		if current, ok := s.Current(sid); ok {
			return current, nil
		}
		return nil, ErrRefreshSuperseded
	}
	return snap, nil
}

// Current returns the last committed snapshot for sid, if any.
func (s *DashboardService) Current(sid string) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[sid]
	return snap, ok
}

// Forget drops the per-session dashboard state, e.g. after logout.
func (s *DashboardService) Forget(sid string) {
	s.mu.Lock()
	delete(s.guards, sid)
	delete(s.snaps, sid)
	s.mu.Unlock()
}
