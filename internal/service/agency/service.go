package agency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	apierrors "github.com/upstic/admin-console/pkg/errors"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
)

const (
	defaultPageSize = 10
	statsCacheKey   = "agency_stats"
	statsCacheTTL   = 30 * time.Second
)

// Service wraps the agency endpoints: URL construction, wire-to-client shape
// translation, and client-side write validation. Status transitions are sent
// as minimal bodies so concurrent edits to unrelated fields are not
// clobbered.
type Service struct {
	client       *httpclient.Client
	logger       *logger.Logger
	domainSuffix string
	stats        *gocache.Cache
}

func NewService(client *httpclient.Client, log *logger.Logger, domainSuffix string) *Service {
	return &Service{
		client:       client,
		logger:       log.WithComponent("agency"),
		domainSuffix: domainSuffix,
		stats:        gocache.New(statsCacheTTL, time.Minute),
	}
}

// listWire is the raw list payload shape.
type listWire struct {
	Agencies []json.RawMessage `json:"agencies"`
	Total    int               `json:"total"`
}

// List fetches one page of agencies. Only non-empty filter fields are
// serialized into the query string.
func (s *Service) List(ctx context.Context, filters model.AgencyFilters) (*model.AgencyPage, error) {
	resp, err := s.client.Get(ctx, "/admin/agencies"+encodeFilters(filters))
	if err != nil {
		return nil, err
	}

	var wire listWire
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}

	agencies := make([]model.Agency, 0, len(wire.Agencies))
	for _, raw := range wire.Agencies {
		agency, err := decodeAgency(raw)
		if err != nil {
			return nil, err
		}
		agencies = append(agencies, *agency)
	}

	page := filters.Page
	if page <= 0 {
		page = 1
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	return &model.AgencyPage{
		Agencies: agencies,
		Meta: model.PageMeta{
			CurrentPage:  page,
			TotalPages:   totalPages(wire.Total, limit),
			TotalItems:   wire.Total,
			ItemsPerPage: limit,
		},
	}, nil
}

// statsWire is the server's camelCase stats shape.
type statsWire struct {
	TotalAgencies     int            `json:"totalAgencies"`
	ActiveAgencies    int            `json:"activeAgencies"`
	PendingAgencies   int            `json:"pendingAgencies"`
	SuspendedAgencies int            `json:"suspendedAgencies"`
	TotalRevenue      float64        `json:"totalRevenue"`
	RevenueGrowth     float64        `json:"revenueGrowth"`
	ByIndustry        map[string]int `json:"byIndustry"`
	BySize            map[string]int `json:"bySize"`
}

// Stats fetches aggregate agency counters, cached briefly so repeated
// renders don't refetch.
func (s *Service) Stats(ctx context.Context) (*model.AgencyStats, error) {
	if cached, ok := s.stats.Get(statsCacheKey); ok {
		return cached.(*model.AgencyStats), nil
	}

	resp, err := s.client.Get(ctx, "/admin/agencies/stats")
	if err != nil {
		return nil, err
	}

	var wire statsWire
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}

	stats := &model.AgencyStats{
		TotalAgencies:     wire.TotalAgencies,
		ActiveAgencies:    wire.ActiveAgencies,
		PendingAgencies:   wire.PendingAgencies,
		SuspendedAgencies: wire.SuspendedAgencies,
		TotalRevenue:      wire.TotalRevenue,
		RevenueGrowth:     wire.RevenueGrowth,
		ByIndustry:        wire.ByIndustry,
		BySize:            wire.BySize,
	}
	s.stats.Set(statsCacheKey, stats, gocache.DefaultExpiration)
	return stats, nil
}

// InvalidateStats drops the cached counters after a state-changing write.
func (s *Service) InvalidateStats() {
	s.stats.Delete(statsCacheKey)
}

// Get fetches a single agency by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Agency, error) {
	resp, err := s.client.Get(ctx, "/admin/agencies/"+id)
	if err != nil {
		return nil, err
	}
	return decodeAgency(resp.Data)
}

// Create validates the request, expands the website slug into a full URL,
// and creates the agency.
func (s *Service) Create(ctx context.Context, req model.CreateAgencyRequest) (*model.Agency, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	// transmit the slug as a full URL under the platform domain
	req.Website = fmt.Sprintf("https://%s.%s", req.Website, s.domainSuffix)

	resp, err := s.client.Post(ctx, "/admin/agencies", req)
	if err != nil {
		return nil, err
	}
	s.InvalidateStats()
	return decodeAgency(resp.Data)
}

// Update replaces the provided fields of an agency.
func (s *Service) Update(ctx context.Context, id string, req model.UpdateAgencyRequest) (*model.Agency, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Put(ctx, "/admin/agencies/"+id, req)
	if err != nil {
		return nil, err
	}
	s.InvalidateStats()
	return decodeAgency(resp.Data)
}

// Delete removes an agency.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Delete(ctx, "/admin/agencies/"+id); err != nil {
		return err
	}
	s.InvalidateStats()
	return nil
}

// Suspend requests a transition to suspended. The new status is reconciled
// from the response; it is never computed locally.
func (s *Service) Suspend(ctx context.Context, id, reason string) (*model.Agency, error) {
	body := map[string]string{"status": model.AgencyStatusSuspended}
	if reason != "" {
		body["suspension_reason"] = reason
	}

	resp, err := s.client.Put(ctx, "/admin/agencies/"+id, body)
	if err != nil {
		return nil, err
	}
	s.InvalidateStats()
	return decodeAgency(resp.Data)
}

// Activate requests a transition to active.
func (s *Service) Activate(ctx context.Context, id string) (*model.Agency, error) {
	resp, err := s.client.Put(ctx, "/admin/agencies/"+id, map[string]string{
		"status": model.AgencyStatusActive,
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateStats()
	return decodeAgency(resp.Data)
}

// Verify marks an agency as verified.
func (s *Service) Verify(ctx context.Context, id string) (*model.Agency, error) {
	resp, err := s.client.Post(ctx, "/admin/agencies/"+id+"/verify", nil)
	if err != nil {
		return nil, err
	}
	return decodeAgency(resp.Data)
}

// BulkUpdate applies the same partial update to several agencies.
func (s *Service) BulkUpdate(ctx context.Context, ids []string, req model.UpdateAgencyRequest) error {
	if len(ids) == 0 {
		return apierrors.NewValidation("no agencies selected")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	_, err := s.client.Post(ctx, "/admin/agencies/bulk-update", map[string]interface{}{
		"agency_ids":  ids,
		"update_data": req,
	})
	if err != nil {
		return err
	}
	s.InvalidateStats()
	return nil
}

// Users lists the members of one agency.
func (s *Service) Users(ctx context.Context, id string) ([]model.AgencyUser, error) {
	resp, err := s.client.Get(ctx, "/admin/agencies/"+id+"/users")
	if err != nil {
		return nil, err
	}

	var users []model.AgencyUser
	if err := decodeWrapped(resp.Data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateBranding pushes white-label settings for one agency.
func (s *Service) UpdateBranding(ctx context.Context, id string, branding model.AgencyBranding) (*model.Agency, error) {
	resp, err := s.client.Put(ctx, "/admin/agencies/"+id+"/branding", branding)
	if err != nil {
		return nil, err
	}
	return decodeAgency(resp.Data)
}

// ToggleFeature enables or disables a single feature for one agency.
func (s *Service) ToggleFeature(ctx context.Context, id, feature string, enabled bool) (*model.Agency, error) {
	resp, err := s.client.Put(ctx, "/admin/agencies/"+id+"/features", map[string]interface{}{
		"feature": feature,
		"enabled": enabled,
	})
	if err != nil {
		return nil, err
	}
	return decodeAgency(resp.Data)
}

// revenueWire is the server's per-agency revenue shape.
type revenueWire struct {
	AgencyID       string  `json:"agencyId"`
	AgencyName     string  `json:"agencyName"`
	Status         string  `json:"status"`
	AnnualRevenue  float64 `json:"annualRevenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
}

// Revenue fetches revenue data for one agency over the given period
// (month, quarter, or year).
func (s *Service) Revenue(ctx context.Context, id, period string) (*model.AgencyRevenue, error) {
	resp, err := s.client.Get(ctx, "/admin/agencies/"+id+"/revenue?period="+url.QueryEscape(period))
	if err != nil {
		return nil, err
	}

	var wire revenueWire
	if err := decodeWrapped(resp.Data, &wire); err != nil {
		return nil, err
	}
	return mapRevenue(wire), nil
}

// Export fetches the server-rendered export for the given filters.
func (s *Service) Export(ctx context.Context, filters model.AgencyFilters, format string) ([]byte, error) {
	query := encodeFilters(filters)
	if query == "" {
		query = "?format=" + url.QueryEscape(format)
	} else {
		query += "&format=" + url.QueryEscape(format)
	}

	resp, err := s.client.Get(ctx, "/admin/agencies/export"+query)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func mapRevenue(wire revenueWire) *model.AgencyRevenue {
	status := wire.Status
	if status == "" {
		status = model.AgencyStatusActive
	}
	return &model.AgencyRevenue{
		AgencyID:       wire.AgencyID,
		AgencyName:     wire.AgencyName,
		Status:         status,
		TotalRevenue:   wire.AnnualRevenue,
		MonthlyRevenue: wire.MonthlyRevenue,
		RevenueHistory: []model.MonthlyRevenue{},
	}
}

// addressWire carries the server's snake_case address fields.
type addressWire struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// agencyWire mirrors model.Agency with the wire-only field spellings.
type agencyWire struct {
	ID              string               `json:"_id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Industry        string               `json:"industry"`
	Size            string               `json:"size"`
	Status          string               `json:"status"`
	ContactEmail    string               `json:"contactEmail"`
	ContactPhone    string               `json:"contactPhone"`
	Website         string               `json:"website"`
	Specializations []string             `json:"specializations"`
	Locations       []string             `json:"locations"`
	Address         addressWire          `json:"address"`
	PrimaryContact  model.AgencyContact  `json:"primaryContact"`
	Metrics         model.AgencyMetrics  `json:"metrics"`
	Billing         model.AgencyBilling  `json:"billing"`
	Features        model.AgencyFeatures `json:"features"`
	Trial           model.AgencyTrial    `json:"trial"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// decodeAgency parses a single agency payload, tolerating both the bare
// object and the {data: {...}} envelope, and fails loudly on malformed
// shapes instead of yielding zero-value fields.
func decodeAgency(raw json.RawMessage) (*model.Agency, error) {
	var wire agencyWire
	if err := decodeWrapped(raw, &wire); err != nil {
		return nil, err
	}
	if wire.ID == "" {
		return nil, apierrors.NewDecode(fmt.Errorf("agency payload missing _id"))
	}

	return &model.Agency{
		ID:              wire.ID,
		Name:            wire.Name,
		Description:     wire.Description,
		Industry:        wire.Industry,
		Size:            wire.Size,
		Status:          wire.Status,
		ContactEmail:    wire.ContactEmail,
		ContactPhone:    wire.ContactPhone,
		Website:         wire.Website,
		Specializations: wire.Specializations,
		Locations:       wire.Locations,
		Address: model.AgencyAddress{
			Street:     wire.Address.Street,
			City:       wire.Address.City,
			State:      wire.Address.State,
			PostalCode: wire.Address.PostalCode,
			Country:    wire.Address.Country,
		},
		PrimaryContact: wire.PrimaryContact,
		Metrics:        wire.Metrics,
		Billing:        wire.Billing,
		Features:       wire.Features,
		Trial:          wire.Trial,
		CreatedAt:      wire.CreatedAt,
		UpdatedAt:      wire.UpdatedAt,
	}, nil
}

// decodeWrapped unmarshals raw into v, unwrapping a {data: ...} envelope
// when one is present.
func decodeWrapped(raw json.RawMessage, v interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apierrors.NewDecode(err)
	}
	return nil
}

// encodeFilters serializes only the defined, non-empty filter fields.
func encodeFilters(f model.AgencyFilters) string {
	params := url.Values{}
	setNonEmpty(params, "search", f.Search)
	setNonEmpty(params, "status", f.Status)
	setNonEmpty(params, "industry", f.Industry)
	setNonEmpty(params, "specialization", f.Specialization)
	setNonEmpty(params, "size", f.Size)
	setNonEmpty(params, "plan", f.Plan)
	setNonEmpty(params, "sort_by", f.SortBy)
	setNonEmpty(params, "sort_order", f.SortOrder)
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

func setNonEmpty(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func totalPages(total, limit int) int {
	if total <= 0 {
		return 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}
