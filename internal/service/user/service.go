package user

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	apierrors "github.com/upstic/admin-console/pkg/errors"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
)

const defaultPageSize = 10

// Service wraps the cross-tenant user endpoints.
type Service struct {
	client *httpclient.Client
	logger *logger.Logger
}

func NewService(client *httpclient.Client, log *logger.Logger) *Service {
	return &Service{client: client, logger: log.WithComponent("user")}
}

type listWire struct {
	Users []model.AgencyUser `json:"users"`
	Total int                `json:"total"`
}

// List fetches one page of users across all agencies.
func (s *Service) List(ctx context.Context, filters model.UserFilters) (*model.UserPage, error) {
	params := url.Values{}
	if filters.Search != "" {
		params.Set("search", filters.Search)
	}
	if filters.Role != "" {
		params.Set("role", filters.Role)
	}
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}
	if filters.Page > 0 {
		params.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.Limit > 0 {
		params.Set("limit", strconv.Itoa(filters.Limit))
	}

	path := "/admin/users"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := s.client.Get(ctx, path)
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

	return &model.UserPage{
		Users: wire.Users,
		Meta: model.PageMeta{
			CurrentPage:  page,
			TotalPages:   totalPages(wire.Total, limit),
			TotalItems:   wire.Total,
			ItemsPerPage: limit,
		},
	}, nil
}

// Get fetches a single user by id.
func (s *Service) Get(ctx context.Context, id string) (*model.AgencyUser, error) {
	resp, err := s.client.Get(ctx, "/admin/users/"+id)
	if err != nil {
		return nil, err
	}

	var user model.AgencyUser
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, apierrors.NewDecode(errMissingID)
	}
	return &user, nil
}

// Create validates and creates a user within an agency.
func (s *Service) Create(ctx context.Context, req model.CreateUserRequest) (*model.AgencyUser, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, "/admin/users", req)
	if err != nil {
		return nil, err
	}

	var user model.AgencyUser
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces the provided fields of a user.
func (s *Service) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.AgencyUser, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Put(ctx, "/admin/users/"+id, req)
	if err != nil {
		return nil, err
	}

	var user model.AgencyUser
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/admin/users/"+id)
	return err
}

// UpdateStatus transitions a user's status with a minimal body.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*model.AgencyUser, error) {
	resp, err := s.client.Patch(ctx, "/admin/users/"+id+"/status", map[string]string{"status": status})
	if err != nil {
		return nil, err
	}

	var user model.AgencyUser
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword triggers a password reset email for a user.
func (s *Service) ResetPassword(ctx context.Context, id string) error {
	_, err := s.client.Post(ctx, "/admin/users/"+id+"/reset-password", nil)
	return err
}

var errMissingID = errors.New("user payload missing _id")

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
