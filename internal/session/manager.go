package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// Session lifecycle states
const (
	StateUnauthenticated = "unauthenticated"
	StateAuthenticating  = "authenticating"
	StateAuthenticated   = "authenticated"
)

const (
	// refresh when the token expires within this window
	refreshWindow = 5 * time.Minute
	// conservative estimate used when the token carries no exp claim
	fallbackTokenTTL = 15 * time.Minute

	userCacheKey = "current_user"
	userCacheTTL = 2 * time.Minute
)

// AuthAPI is the slice of the auth service the manager depends on.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

// Manager owns the authenticated-session lifecycle: login, logout, token
// refresh, expiry tracking, and current-user caching. It is the only
// component that reads or writes the session store.
type Manager struct {
	mu      sync.RWMutex
	state   string
	store   Store
	authSvc AuthAPI
	logger  *logger.Logger
	metrics *metrics.Metrics
	users   *gocache.Cache
	refresh singleflight.Group
}

// NewManager creates a session manager. The auth service is attached
// separately because it needs the client, which needs this manager as its
// token source.
func NewManager(store Store, log *logger.Logger, m *metrics.Metrics) *Manager {
	mgr := &Manager{
		state:   StateUnauthenticated,
		store:   store,
		logger:  log.WithComponent("session"),
		metrics: m,
		users:   gocache.New(userCacheTTL, 5*time.Minute),
	}
	if sess, _ := store.Load(); sess != nil && sess.AccessToken != "" {
		mgr.state = StateAuthenticated
	}
	return mgr
}

// SetAuthService attaches the auth service after construction.
func (m *Manager) SetAuthService(svc AuthAPI) {
	m.authSvc = svc
}

// Token implements httpclient.TokenSource.
func (m *Manager) Token() string {
	sess, err := m.store.Load()
	if err != nil || sess == nil {
		return ""
	}
	return sess.AccessToken
}

// State returns the current lifecycle state.
func (m *Manager) State() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Login authenticates and persists the session. On failure the manager
// stays unauthenticated.
func (m *Manager) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}

	m.setState(StateAuthenticating)

	tokens, err := m.authSvc.Login(ctx, creds)
	if err != nil {
		m.setState(StateUnauthenticated)
		return nil, err
	}

	sess := &model.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenExpiry:  tokenExpiry(tokens.AccessToken, time.Now()),
		User:         tokens.User,
	}
	if err := m.store.Save(sess); err != nil {
		m.setState(StateUnauthenticated)
		return nil, err
	}

	if tokens.User != nil {
		m.users.Set(userCacheKey, tokens.User, gocache.DefaultExpiration)
	}
	m.setState(StateAuthenticated)
	m.logger.Info("session established", "email", creds.Email)

	return tokens.User, nil
}

// Logout clears the session regardless of whether the server-side call
// succeeds.
func (m *Manager) Logout(ctx context.Context) {
	if m.authSvc != nil {
		if err := m.authSvc.Logout(ctx); err != nil {
			m.logger.Debug("server logout failed", "error", err.Error())
		}
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Error(err, "failed to clear session store")
	}
	m.users.Delete(userCacheKey)
	m.setState(StateUnauthenticated)
}

// IsAuthenticated reports whether a token is present and the locally
// computed expiry has not passed. This is a client-side heuristic, not a
// cryptographic verification.
func (m *Manager) IsAuthenticated() bool {
	sess, err := m.store.Load()
	if err != nil || sess == nil || sess.AccessToken == "" {
		return false
	}
	return time.Now().Before(sess.TokenExpiry)
}

// CurrentUser returns the cached user when fresh, falling back to the stored
// session copy, then to a /auth/me round-trip.
func (m *Manager) CurrentUser(ctx context.Context) (*model.User, error) {
	if cached, ok := m.users.Get(userCacheKey); ok {
		return cached.(*model.User), nil
	}

	user, err := m.authSvc.Me(ctx)
	if err != nil {
		if sess, _ := m.store.Load(); sess != nil && sess.User != nil {
			return sess.User, nil
		}
		return nil, err
	}

	m.users.Set(userCacheKey, user, gocache.DefaultExpiration)
	if sess, _ := m.store.Load(); sess != nil {
		sess.User = user
		if err := m.store.Save(sess); err != nil {
			m.logger.Debug("failed to persist refreshed user", "error", err.Error())
		}
	}
	return user, nil
}

// CheckAndRefreshToken refreshes the token when it expires within the
// refresh window. Concurrent callers are collapsed into one upstream
// refresh. A failed refresh forces logout and returns false.
func (m *Manager) CheckAndRefreshToken(ctx context.Context) bool {
	sess, err := m.store.Load()
	if err != nil || sess == nil || sess.AccessToken == "" {
		return false
	}

	ttl := time.Until(sess.TokenExpiry)
	if ttl >= refreshWindow || ttl <= 0 {
		return ttl > 0
	}

	_, err, _ = m.refresh.Do("refresh", func() (interface{}, error) {
		return nil, m.doRefresh(ctx, sess.RefreshToken)
	})
	if err != nil {
		m.metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		m.logger.Warn("token refresh failed, forcing logout", "error", err.Error())
		m.Logout(ctx)
		return false
	}

	m.metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return true
}

func (m *Manager) doRefresh(ctx context.Context, refreshToken string) error {
	tokens, err := m.authSvc.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	sess, loadErr := m.store.Load()
	if loadErr != nil || sess == nil {
		sess = &model.Session{}
	}
	sess.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		sess.RefreshToken = tokens.RefreshToken
	}
	sess.TokenExpiry = tokenExpiry(tokens.AccessToken, time.Now())
	return m.store.Save(sess)
}

func (m *Manager) setState(state string) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// tokenExpiry prefers the token's own exp claim, decoded without
// verification. Opaque tokens or tokens without exp fall back to a fixed
// conservative estimate.
func tokenExpiry(accessToken string, now time.Time) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.After(now) {
			return exp.Time
		}
	}
	return now.Add(fallbackTokenTTL)
}
