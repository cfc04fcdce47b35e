package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/service/security"
	"github.com/upstic/admin-console/pkg/logger"
)

// SecuritySnapshot is a point-in-time copy of the security view state.
type SecuritySnapshot struct {
	Dashboard   *model.SecurityDashboard
	System      *model.SecuritySystem
	LastUpdated time.Time
	Err         error
}

// Security coordinates the security monitoring view. Reads never fail (the
// service degrades to fallback data), so the snapshot is always renderable;
// Err reflects the most recent write failure.
type Security struct {
	svc    *security.Service
	logger *logger.Logger

	mu          sync.Mutex
	dashboard   *model.SecurityDashboard
	system      *model.SecuritySystem
	lastUpdated time.Time
	lastErr     error
}

func NewSecurity(svc *security.Service, log *logger.Logger) *Security {
	return &Security{
		svc:    svc,
		logger: log.WithComponent("orchestrator.security"),
	}
}

// Snapshot returns a copy of the current state.
func (o *Security) Snapshot() SecuritySnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	var dash *model.SecurityDashboard
	if o.dashboard != nil {
		d := *o.dashboard
		dash = &d
	}
	var sys *model.SecuritySystem
	if o.system != nil {
		s := *o.system
		sys = &s
	}

	return SecuritySnapshot{
		Dashboard:   dash,
		System:      sys,
		LastUpdated: o.lastUpdated,
		Err:         o.lastErr,
	}
}

// Refresh reloads the dashboard and system policy.
func (o *Security) Refresh(ctx context.Context) {
	dash := o.svc.Dashboard(ctx)
	sys := o.svc.System(ctx)

	o.mu.Lock()
	o.dashboard = dash
	o.system = sys
	o.lastUpdated = time.Now()
	o.mu.Unlock()
}

// RecordEvent appends a manual security event and refreshes the dashboard.
func (o *Security) RecordEvent(ctx context.Context, req model.CreateSecurityEventRequest) error {
	if _, err := o.svc.CreateEvent(ctx, req); err != nil {
		o.setErr(err)
		return err
	}
	o.Refresh(ctx)
	return nil
}

// ResolveEvent marks an event resolved and refreshes the dashboard.
func (o *Security) ResolveEvent(ctx context.Context, id string) error {
	if err := o.svc.ResolveEvent(ctx, id); err != nil {
		o.setErr(err)
		return err
	}
	o.Refresh(ctx)
	return nil
}

// RecalculateScore asks the server to recompute the posture score and
// refreshes the dashboard with the result.
func (o *Security) RecalculateScore(ctx context.Context) (*model.SecurityScore, error) {
	score, err := o.svc.CalculateScore(ctx)
	if err != nil {
		o.setErr(err)
		return nil, err
	}
	o.Refresh(ctx)
	return score, nil
}

// UpdateSystem replaces the platform security policy.
func (o *Security) UpdateSystem(ctx context.Context, sys model.SecuritySystem) error {
	updated, err := o.svc.UpdateSystem(ctx, sys)
	if err != nil {
		o.setErr(err)
		return err
	}

	o.mu.Lock()
	o.system = updated
	o.lastErr = nil
	o.mu.Unlock()
	return nil
}

func (o *Security) setErr(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = err
}
