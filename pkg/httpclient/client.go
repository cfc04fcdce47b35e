package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	apierrors "github.com/upstic/admin-console/pkg/errors"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

const (
	HeaderXRequestID = "X-Request-ID"

	defaultTimeout = 10 * time.Second
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
// The session manager is the only implementation; services and orchestrators
// never touch token storage directly.
type TokenSource interface {
	Token() string
}

// Response is the normalized success envelope for every outbound call.
type Response struct {
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"status"`
	Success bool            `json:"success"`
}

// Decode unmarshals the response payload into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return apierrors.NewDecode(err)
	}
	return nil
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	// QuietPaths are high-frequency polling paths whose request logs are
	// rate-limited to avoid flooding.
	QuietPaths []string
}

// Client is the single choke point for outbound API calls. It attaches the
// bearer token, normalizes success and error responses, and centralizes
// request logging. Calls are single-attempt with a fixed timeout; there is
// no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     *logger.Logger
	metrics    *metrics.Metrics
	quietPaths []string
	quietLimit *rate.Limiter
}

// New creates an API client.
func New(cfg Config, tokens TokenSource, log *logger.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     tokens,
		logger:     log.WithComponent("httpclient"),
		metrics:    m,
		quietPaths: cfg.QuietPaths,
		// one log line per 30s window for quiet paths
		quietLimit: rate.NewLimiter(rate.Every(30*time.Second), 1),
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apierrors.NewValidation(fmt.Sprintf("failed to encode request body: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, apierrors.NewNetwork(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderXRequestID, uuid.New().String())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	resource := resourceFromPath(path)

	if err != nil {
		apiErr := classifyTransport(err)
		if apiErr.Code == apierrors.ErrTimeout {
			c.metrics.APITimeouts.Inc()
		}
		c.metrics.APIRequests.WithLabelValues(method, resource, "error").Inc()
		// transport failures are expected during backend outages
		c.logger.Debug("request failed",
			"method", method, "url", url, "error", apiErr.Error())
		return nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(method, resource, "error").Inc()
		return nil, apierrors.NewNetwork(err)
	}

	c.metrics.APIRequests.WithLabelValues(method, resource, statusClass(resp.StatusCode)).Inc()
	c.metrics.APILatency.WithLabelValues(method, resource).Observe(elapsed.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apierrors.NewHTTP(resp.StatusCode, serverMessage(raw), json.RawMessage(raw))
		c.logger.Warn("non-2xx response",
			"method", method, "url", url, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	c.logRequest(method, url, path, resp.StatusCode, elapsed)

	return &Response{
		Data:    json.RawMessage(raw),
		Status:  resp.StatusCode,
		Success: true,
	}, nil
}

// logRequest suppresses high-frequency polling paths behind a rate limiter.
func (c *Client) logRequest(method, url, path string, status int, elapsed time.Duration) {
	for _, quiet := range c.quietPaths {
		if strings.HasPrefix(path, quiet) {
			if !c.quietLimit.Allow() {
				return
			}
			break
		}
	}
	c.logger.Debug("request ok",
		"method", method, "url", url, "status", status, "duration", elapsed.String())
}

func classifyTransport(err error) *apierrors.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeout(err)
	}
	return apierrors.NewNetwork(err)
}

// serverMessage extracts a server-provided error message when present.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return ""
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// resourceFromPath derives a coarse metric label from a request path, e.g.
// "/admin/agencies/42" -> "admin_agencies".
func resourceFromPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}
	if parts[0] == "admin" && len(parts) > 1 {
		return "admin_" + parts[1]
	}
	return parts[0]
}
