// Package api is the client of the reservations REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"eadmin/internal/apierr"
	"eadmin/internal/config"
	"eadmin/internal/domain"
	"eadmin/internal/metrics"
	"eadmin/internal/querycache"
	"eadmin/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client calls the reservations API on behalf of the signed-in user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     domain.TokenStore
	cache      *querycache.Cache
	limiter    *rateLimiter
	retry      RetryPolicy
	validate   *validator.Validate
	logger     *zerolog.Logger

	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore attaches the session token to every request and clears it
// when the API answers 401.
func WithTokenStore(tokens domain.TokenStore) Option {
	return func(c *Client) { c.tokens = tokens }
}

// WithCache caches successful GET results.
func WithCache(cache *querycache.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = newRateLimiter(rps, burst) }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUnauthorizedHandler runs fn after a 401 cleared the session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient constructs a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	nop := zerolog.Nop()
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      DefaultRetryPolicy,
		validate:   validation.New(),
		logger:     &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig applies the api section of the configuration.
func NewClientFromConfig(cfg config.APIConfig, opts ...Option) *Client {
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
		WithRetryPolicy(RetryPolicy{
			MaxAttempts:   cfg.Retry.MaxAttempts,
			InitialDelay:  time.Duration(cfg.Retry.InitialDelayMs) * time.Millisecond,
			MaxDelay:      time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
			BackoffFactor: cfg.Retry.BackoffFactor,
		}),
		WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
	return NewClient(cfg.BaseURL, append(base, opts...)...)
}

// call describes one API request. endpoint is the path template used for
// metrics and throttling, path the concrete one.
type call struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	body     any
	cacheKey string
	public   bool // no bearer token, 401 is an ordinary error
}

func (c *Client) checkRequest(v any) error {
	if v == nil {
		return nil
	}
	if err := validation.Struct(c.validate, v, nil); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func (c *Client) checkID(field, id string) error {
	if err := c.validate.Var(id, "required,uuid"); err != nil {
		return fmt.Errorf("invalid request: %w", validation.FieldErrors{{Field: field, Message: "Identificador inválido"}})
	}
	return nil
}

func (c *Client) requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid request: %w", validation.FieldErrors{{Field: field, Message: "Campo obrigatório"}})
	}
	return nil
}

// checkResponse validates a decoded body against its validate tags.
func (c *Client) checkResponse(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	var err error
	switch v.Kind() {
	case reflect.Struct:
		err = c.validate.Struct(v.Interface())
	case reflect.Slice:
		err = c.validate.Var(v.Interface(), "dive")
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrSchemaMismatch, validation.Fields(err, nil))
	}
	return nil
}

// query runs a read-only request with caching and bounded retries.
func (c *Client) query(ctx context.Context, cl call, out any) error {
	cl.method = http.MethodGet

	if c.cache != nil && cl.cacheKey != "" {
		ok, err := c.cache.Get(ctx, cl.cacheKey, out)
		if err != nil {
			c.logger.Warn().Err(err).Str("key", cl.cacheKey).Msg("Cache read failed")
		}
		metrics.IncCache(ok)
		if ok {
			return nil
		}
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = c.do(ctx, cl, out)
		if err == nil || attempt >= c.retry.attempts() || !retryable(ctx, err) {
			break
		}

		delay := c.retry.NextDelay(attempt)
		c.logger.Warn().Err(err).Str("endpoint", cl.endpoint).Int("attempt", attempt).Dur("delay", delay).Msg("Query failed, retrying")
		metrics.IncRetry(cl.endpoint)
		if waitErr := sleepCtx(ctx, delay); waitErr != nil {
			return waitErr
		}
	}
	if err != nil {
		return err
	}

	if c.cache != nil && cl.cacheKey != "" {
		if err := c.cache.Set(ctx, cl.cacheKey, out); err != nil {
			c.logger.Warn().Err(err).Str("key", cl.cacheKey).Msg("Cache write failed")
		}
	}
	return nil
}

// mutate runs a write request exactly once.
func (c *Client) mutate(ctx context.Context, cl call, out any) error {
	return c.do(ctx, cl, out)
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.limiter.wait(ctx, cl.endpoint); err != nil {
		return err
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return err
	}
	if err := c.addHeaders(ctx, req, cl.public); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveRequest(cl.method, cl.endpoint, 0, elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s %s: %w", cl.method, cl.endpoint, err)
	}
	defer resp.Body.Close()

	metrics.ObserveRequest(cl.method, cl.endpoint, resp.StatusCode, elapsed)
	c.logger.Debug().
		Str("method", cl.method).
		Str("endpoint", cl.endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("API request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !cl.public {
		c.handleUnauthorized(ctx)
		return fmt.Errorf("%s %s: %w", cl.method, cl.endpoint, apierr.ErrUnauthorized)
	}
	if resp.StatusCode >= 300 {
		if len(raw) > 0 && !json.Valid(raw) {
			c.logger.Debug().Str("endpoint", cl.endpoint).Int("status", resp.StatusCode).Msg("Error body is not JSON")
		}
		return apierr.FromResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", apierr.ErrSchemaMismatch, cl.method, cl.endpoint, err)
	}
	return c.checkResponse(out)
}

func (c *Client) addHeaders(ctx context.Context, req *http.Request, public bool) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if public || c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	c.logger.Warn().Msg("API rejected the session, signing out")
	if c.tokens != nil {
		if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
			c.logger.Error().Err(err).Msg("Failed to clear session token")
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// IsSchemaMismatch reports whether err means the API answered with an
// unexpected shape.
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, apierr.ErrSchemaMismatch)
}
