package security

import (
	"context"
	"net/url"
	"strconv"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	"github.com/upstic/admin-console/pkg/fallback"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// Service wraps the security monitoring endpoints. The read endpoints that
// back the security dashboard degrade to representative fallback data when
// the backend is unreachable; writes always hit the server and surface
// their errors.
type Service struct {
	client *httpclient.Client
	logger *logger.Logger

	dashboard *fallback.Reader[*model.SecurityDashboard]
	events    *fallback.Reader[[]model.SecurityEvent]
	score     *fallback.Reader[*model.SecurityScore]
	system    *fallback.Reader[*model.SecuritySystem]
}

func NewService(client *httpclient.Client, log *logger.Logger, m *metrics.Metrics) *Service {
	log = log.WithComponent("security")
	return &Service{
		client:    client,
		logger:    log,
		dashboard: fallback.NewReader("security_dashboard", log, m, mockDashboard),
		events:    fallback.NewReader("security_events", log, m, mockEvents),
		score:     fallback.NewReader("security_score", log, m, mockScore),
		system:    fallback.NewReader("security_system", log, m, mockSystem),
	}
}

// SetMockMode forces every read to serve its fallback payload without
// touching the network.
func (s *Service) SetMockMode(on bool) {
	s.dashboard.Force(on)
	s.events.Force(on)
	s.score.Force(on)
	s.system.Force(on)
}

// Dashboard fetches the security posture snapshot. Never fails; serves
// fallback data when the backend is down.
func (s *Service) Dashboard(ctx context.Context) *model.SecurityDashboard {
	return s.dashboard.Fetch(func() (*model.SecurityDashboard, error) {
		resp, err := s.client.Get(ctx, "/admin/security/dashboard")
		if err != nil {
			return nil, err
		}
		var dash model.SecurityDashboard
		if err := resp.Decode(&dash); err != nil {
			return nil, err
		}
		return &dash, nil
	})
}

type eventsWire struct {
	Events []model.SecurityEvent `json:"events"`
	Total  int                   `json:"total"`
}

// Events fetches recent security events, optionally filtered by severity.
// Never fails; serves fallback data when the backend is down.
func (s *Service) Events(ctx context.Context, severity string, limit int) []model.SecurityEvent {
	return s.events.Fetch(func() ([]model.SecurityEvent, error) {
		params := url.Values{}
		if severity != "" {
			params.Set("severity", severity)
		}
		if limit > 0 {
			params.Set("limit", strconv.Itoa(limit))
		}
		path := "/admin/security/events"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}

		resp, err := s.client.Get(ctx, path)
		if err != nil {
			return nil, err
		}
		var wire eventsWire
		if err := resp.Decode(&wire); err != nil {
			return nil, err
		}
		return wire.Events, nil
	})
}

// Score fetches the current security score breakdown. Never fails; serves
// fallback data when the backend is down.
func (s *Service) Score(ctx context.Context) *model.SecurityScore {
	return s.score.Fetch(func() (*model.SecurityScore, error) {
		resp, err := s.client.Get(ctx, "/admin/security/score")
		if err != nil {
			return nil, err
		}
		var score model.SecurityScore
		if err := resp.Decode(&score); err != nil {
			return nil, err
		}
		return &score, nil
	})
}

// System fetches the editable platform security policy. Never fails; serves
// fallback data when the backend is down.
func (s *Service) System(ctx context.Context) *model.SecuritySystem {
	return s.system.Fetch(func() (*model.SecuritySystem, error) {
		resp, err := s.client.Get(ctx, "/admin/security/system")
		if err != nil {
			return nil, err
		}
		var sys model.SecuritySystem
		if err := resp.Decode(&sys); err != nil {
			return nil, err
		}
		return &sys, nil
	})
}

// CreateEvent records a manual security event. Writes never substitute
// fallback data.
func (s *Service) CreateEvent(ctx context.Context, req model.CreateSecurityEventRequest) (*model.SecurityEvent, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, "/admin/security/events", req)
	if err != nil {
		return nil, err
	}

	var event model.SecurityEvent
	if err := resp.Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Event fetches a single security event by id. Unlike the list read this
// has no fallback: a missing event is a real error.
func (s *Service) Event(ctx context.Context, id string) (*model.SecurityEvent, error) {
	resp, err := s.client.Get(ctx, "/admin/security/events/"+id)
	if err != nil {
		return nil, err
	}

	var event model.SecurityEvent
	if err := resp.Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ResolveEvent marks a security event as resolved. Only the status field is
// sent so concurrent edits to the event are left alone.
func (s *Service) ResolveEvent(ctx context.Context, id string) error {
	_, err := s.client.Put(ctx, "/admin/security/events/"+id, map[string]string{"status": "resolved"})
	return err
}

// DeleteEvent removes a security event.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/admin/security/events/"+id)
	return err
}

// CalculateScore asks the server to recompute the security score.
func (s *Service) CalculateScore(ctx context.Context) (*model.SecurityScore, error) {
	resp, err := s.client.Post(ctx, "/admin/security/score/calculate", nil)
	if err != nil {
		return nil, err
	}

	var score model.SecurityScore
	if err := resp.Decode(&score); err != nil {
		return nil, err
	}
	return &score, nil
}

// UpdateSystem replaces the platform security policy.
func (s *Service) UpdateSystem(ctx context.Context, sys model.SecuritySystem) (*model.SecuritySystem, error) {
	resp, err := s.client.Put(ctx, "/admin/security/system", sys)
	if err != nil {
		return nil, err
	}

	var updated model.SecuritySystem
	if err := resp.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
