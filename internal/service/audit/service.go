package audit

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
)

const defaultPageSize = 20

// Service wraps the audit trail endpoints. Logs are immutable: the only
// write is appending a manual entry.
type Service struct {
	client *httpclient.Client
	logger *logger.Logger
}

func NewService(client *httpclient.Client, log *logger.Logger) *Service {
	return &Service{client: client, logger: log.WithComponent("audit")}
}

type listWire struct {
	Logs  []model.AuditLog `json:"logs"`
	Total int              `json:"total"`
}

// List fetches one page of audit logs matching the filters.
func (s *Service) List(ctx context.Context, filters model.AuditLogFilters) (*model.AuditLogPage, error) {
	resp, err := s.client.Get(ctx, "/audit-logs"+encodeFilters(filters))
	if err != nil {
		return nil, err
	}

	var wire listWire
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}

	page := filters.Page
	if page <= 0 {
		page = 1
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	pages := 1
	if wire.Total > 0 {
		pages = (wire.Total + limit - 1) / limit
	}

	return &model.AuditLogPage{
		Logs: wire.Logs,
		Meta: model.PageMeta{
			CurrentPage:  page,
			TotalPages:   pages,
			TotalItems:   wire.Total,
			ItemsPerPage: limit,
		},
	}, nil
}

// Stats fetches aggregate distributions over the filtered window.
func (s *Service) Stats(ctx context.Context, filters model.AuditLogFilters) (*model.AuditLogStats, error) {
	resp, err := s.client.Get(ctx, "/audit-logs/stats"+encodeFilters(filters))
	if err != nil {
		return nil, err
	}

	var stats model.AuditLogStats
	if err := resp.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UserLogs fetches the recent activity of a single user.
func (s *Service) UserLogs(ctx context.Context, userID string, limit int) ([]model.AuditLog, error) {
	path := "/audit-logs/users/" + userID
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var wire listWire
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}
	return wire.Logs, nil
}

// Create appends a manual audit entry.
func (s *Service) Create(ctx context.Context, req model.CreateAuditLogRequest) (*model.AuditLog, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, "/audit-logs", req)
	if err != nil {
		return nil, err
	}

	var log model.AuditLog
	if err := resp.Decode(&log); err != nil {
		return nil, err
	}
	return &log, nil
}

// ActionTypes fetches the selectable action types for filter menus. On
// failure it returns a builtin catalog so the menus never render empty.
func (s *Service) ActionTypes(ctx context.Context) []model.AuditCatalogEntry {
	if entries, err := s.catalog(ctx, "/audit-logs/actions"); err == nil {
		return entries
	}
	return []model.AuditCatalogEntry{
		{Value: model.AuditActionCreate, Label: "Create", Description: "Resource created"},
		{Value: model.AuditActionUpdate, Label: "Update", Description: "Resource updated"},
		{Value: model.AuditActionDelete, Label: "Delete", Description: "Resource deleted"},
		{Value: model.AuditActionSuspend, Label: "Suspend", Description: "Agency suspended"},
		{Value: model.AuditActionActivate, Label: "Activate", Description: "Agency activated"},
		{Value: model.AuditActionLogin, Label: "Login", Description: "Admin signed in"},
		{Value: model.AuditActionLogout, Label: "Logout", Description: "Admin signed out"},
	}
}

// EntityTypes fetches the selectable entity types for filter menus.
func (s *Service) EntityTypes(ctx context.Context) []model.AuditCatalogEntry {
	if entries, err := s.catalog(ctx, "/audit-logs/entities"); err == nil {
		return entries
	}
	return []model.AuditCatalogEntry{
		{Value: model.AuditEntityAgency, Label: "Agency"},
		{Value: model.AuditEntityUser, Label: "User"},
		{Value: model.AuditEntityFeature, Label: "Feature"},
		{Value: model.AuditEntitySecurity, Label: "Security"},
	}
}

func (s *Service) catalog(ctx context.Context, path string) ([]model.AuditCatalogEntry, error) {
	resp, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var entries []model.AuditCatalogEntry
	if err := resp.Decode(&entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errEmptyCatalog
	}
	return entries, nil
}

var errEmptyCatalog = errors.New("catalog endpoint returned no entries")

func encodeFilters(f model.AuditLogFilters) string {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("user_id", f.UserID)
	set("user_email", f.UserEmail)
	set("action_type", f.ActionType)
	set("entity_type", f.EntityType)
	set("entity_id", f.EntityID)
	set("start_date", f.StartDate)
	set("end_date", f.EndDate)
	set("search", f.Search)
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}
