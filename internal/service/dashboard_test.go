package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

type fakeDashboardAPI struct {
	reportsFunc      func(ctx context.Context, sid string, page, size int) (upstream.List[upstream.Report], error)
	paymentsFunc     func(ctx context.Context, sid string) (upstream.List[upstream.Payment], error)
	appointmentsFunc func(ctx context.Context, sid string) (upstream.List[upstream.Appointment], error)
}

func (f *fakeDashboardAPI) Reports(ctx context.Context, sid string, page, size int) (upstream.List[upstream.Report], error) {
	if f.reportsFunc == nil {
		return upstream.List[upstream.Report]{}, nil
	}
	return f.reportsFunc(ctx, sid, page, size)
}

func (f *fakeDashboardAPI) Payments(ctx context.Context, sid string) (upstream.List[upstream.Payment], error) {
	if f.paymentsFunc == nil {
		return upstream.List[upstream.Payment]{}, nil
	}
	return f.paymentsFunc(ctx, sid)
}

func (f *fakeDashboardAPI) ListAppointments(ctx context.Context, sid string) (upstream.List[upstream.Appointment], error) {
	if f.appointmentsFunc == nil {
		return upstream.List[upstream.Appointment]{}, nil
	}
	return f.appointmentsFunc(ctx, sid)
}

func TestDashboardService_RefreshAggregatesAllSections(t *testing.T) {
	api := &fakeDashboardAPI{
		reportsFunc: func(ctx context.Context, sid string, page, size int) (upstream.List[upstream.Report], error) {
			assert.Equal(t, 1, page)
			return upstream.List[upstream.Report]{Items: make([]upstream.Report, 3), Total: 3}, nil
		},
		paymentsFunc: func(ctx context.Context, sid string) (upstream.List[upstream.Payment], error) {
			return upstream.List[upstream.Payment]{Items: make([]upstream.Payment, 2), Total: 2}, nil
		},
		appointmentsFunc: func(ctx context.Context, sid string) (upstream.List[upstream.Appointment], error) {
			return upstream.List[upstream.Appointment]{Items: make([]upstream.Appointment, 5), Total: 5}, nil
		},
	}
	svc := NewDashboardService(api, slog.New(slog.DiscardHandler))

	snap, err := svc.Refresh(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Len(t, snap.Reports.Items, 3)
	assert.Len(t, snap.Payments.Items, 2)
	assert.Len(t, snap.Appointments.Items, 5)
	assert.False(t, snap.RefreshedAt.IsZero())

	current, ok := svc.Current("sid-1")
	require.True(t, ok)
	assert.Equal(t, snap, current)
}

func TestDashboardService_RefreshFailsWhenAnySectionFails(t *testing.T) {
	api := &fakeDashboardAPI{
		paymentsFunc: func(ctx context.Context, sid string) (upstream.List[upstream.Payment], error) {
			return upstream.List[upstream.Payment]{}, apperrors.Upstream("payments unavailable")
		},
	}
	svc := NewDashboardService(api, slog.New(slog.DiscardHandler))

	_, err := svc.Refresh(context.Background(), "sid-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))

	_, ok := svc.Current("sid-1")
	assert.False(t, ok)
}

func TestDashboardService_SlowStaleRefreshCannotClobberNewer(t *testing.T) {
	// The first refresh stalls inside its payments fetch until the second
	// refresh has fully committed. Its late result must be discarded and the
	// committed snapshot from the newer refresh returned instead.
	var mu sync.Mutex
	calls := 0
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	api := &fakeDashboardAPI{
		paymentsFunc: func(ctx context.Context, sid string) (upstream.List[upstream.Payment], error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(firstStarted)
				<-release
				return upstream.List[upstream.Payment]{Total: 1}, nil
			}
			return upstream.List[upstream.Payment]{Total: 2}, nil
		},
	}
	svc := NewDashboardService(api, slog.New(slog.DiscardHandler))

	type result struct {
		snap *Snapshot
		err  error
	}
	firstDone := make(chan result, 1)
	go func() {
		snap, err := svc.Refresh(context.Background(), "sid-1")
		firstDone <- result{snap, err}
	}()
	<-firstStarted

	second, err := svc.Refresh(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Payments.Total)

	close(release)
	first := <-firstDone
	require.NoError(t, first.err)

	// The stale refresh hands back the committed newer snapshot.
	assert.Equal(t, 2, first.snap.Payments.Total)

	current, ok := svc.Current("sid-1")
	require.True(t, ok)
	assert.Equal(t, 2, current.Payments.Total)
}

func TestDashboardService_SupersededRefreshWithoutSnapshotFails(t *testing.T) {
	// The first refresh stalls until a second one has begun and failed, so
	// nothing is ever committed. The stale first refresh has no newer snapshot
	// to fall back on and must report being superseded instead of handing
	// back its own stale data.
	var mu sync.Mutex
	calls := 0
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	api := &fakeDashboardAPI{
		paymentsFunc: func(ctx context.Context, sid string) (upstream.List[upstream.Payment], error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(firstStarted)
				<-release
				return upstream.List[upstream.Payment]{Total: 1}, nil
			}
			return upstream.List[upstream.Payment]{}, apperrors.Upstream("payments unavailable")
		},
	}
	svc := NewDashboardService(api, slog.New(slog.DiscardHandler))

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background(), "sid-1")
		firstDone <- err
	}()
	<-firstStarted

	_, err := svc.Refresh(context.Background(), "sid-1")
	require.Error(t, err)

	close(release)
	require.ErrorIs(t, <-firstDone, ErrRefreshSuperseded)

	_, ok := svc.Current("sid-1")
	assert.False(t, ok)
}

func TestDashboardService_GuardsAreScopedPerSession(t *testing.T) {
	api := &fakeDashboardAPI{
		paymentsFunc: func(ctx context.Context, sid string) (upstream.List[upstream.Payment], error) {
			total := 1
			if sid == "sid-b" {
				total = 2
			}
			return upstream.List[upstream.Payment]{Total: total}, nil
		},
	}
	svc := NewDashboardService(api, slog.New(slog.DiscardHandler))

	_, err := svc.Refresh(context.Background(), "sid-a")
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), "sid-b")
	require.NoError(t, err)

	a, ok := svc.Current("sid-a")
	require.True(t, ok)
	b, ok := svc.Current("sid-b")
	require.True(t, ok)
	assert.Equal(t, 1, a.Payments.Total)
	assert.Equal(t, 2, b.Payments.Total)
}

func TestDashboardService_ForgetDropsState(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardAPI{}, slog.New(slog.DiscardHandler))

	_, err := svc.Refresh(context.Background(), "sid-1")
	require.NoError(t, err)
	_, ok := svc.Current("sid-1")
	require.True(t, ok)

	svc.Forget("sid-1")
	_, ok = svc.Current("sid-1")
	assert.False(t, ok)
}
