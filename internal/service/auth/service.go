package auth

import (
	"context"
	"fmt"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	apierrors "github.com/upstic/admin-console/pkg/errors"
	"github.com/upstic/admin-console/pkg/httpclient"
)

// Service wraps the auth endpoints. Token persistence is the session
// manager's concern; this service only translates requests and responses.
type Service struct {
	client *httpclient.Client
}

func NewService(client *httpclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error) {
	resp, err := s.client.Post(ctx, "/auth/login", creds)
	if err != nil {
		return nil, err
	}

	var tokens model.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, apierrors.NewDecode(fmt.Errorf("no access_token in login response"))
	}
	return &tokens, nil
}

func (s *Service) Logout(ctx context.Context) error {
	_, err := s.client.Post(ctx, "/auth/logout", nil)
	return err
}

func (s *Service) Me(ctx context.Context) (*model.User, error) {
	resp, err := s.client.Get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	resp, err := s.client.Post(ctx, "/auth/refresh-token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}

	var tokens model.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, apierrors.NewDecode(fmt.Errorf("no access_token in refresh response"))
	}
	return &tokens, nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if err := validate.Struct(struct {
		Email string `validate:"required,email"`
	}{email}); err != nil {
		return err
	}
	_, err := s.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email})
	return err
}

func (s *Service) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	_, err := s.client.Post(ctx, "/auth/reset-password", req)
	return err
}
