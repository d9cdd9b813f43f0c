// Package client is the request-level API over the fetch adapter: it merges a
// Client's defaults with per-request config, runs the transform pipeline and
// dispatches through the adapter.
package client

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvcrn/go-fetch-adapter/internal/adapter"
	"github.com/dvcrn/go-fetch-adapter/internal/logger"
)

var absoluteURL = regexp.MustCompile(`(?i)^([a-z][a-z\d+\-.]*:)?//`)

// Config describes one request. Unset fields fall back to the Client's defaults.
type Config struct {
	URL              string
	BaseURL          string
	Method           string
	Params           url.Values
	ParamsSerializer adapter.ParamsSerializer
	Data             any
	Headers          map[string]string
	WithCredentials  *bool
	XSRFCookieName   string
	XSRFHeaderName   string
	Auth             *adapter.Auth
	Timeout          time.Duration
	ResponseType     adapter.ResponseType
	CancelToken      *adapter.CancelToken
	ValidateStatus   func(status int) bool

	TransformRequest  []TransformRequestFunc
	TransformResponse []TransformResponseFunc
}

// Bool returns a pointer to b, for Config.WithCredentials.
func Bool(b bool) *bool {
	return &b
}

// Client sends requests through an adapter using its own defaults.
type Client struct {
	adapter  *adapter.Adapter
	defaults Defaults
	logger   *zerolog.Logger
}

// New creates a client. defaults is copied; later changes to it have no effect.
func New(a *adapter.Adapter, defaults Defaults) *Client {
	return &Client{
		adapter:  a,
		defaults: defaults.clone(),
		logger:   logger.Get(),
	}
}

// WithLogger returns a copy of c that logs to l.
func (c *Client) WithLogger(l *zerolog.Logger) *Client {
	out := *c
	out.logger = l
	return &out
}

// Defaults returns a copy of the client's defaults.
func (c *Client) Defaults() Defaults {
	return c.defaults.clone()
}

// Extend returns a new client whose defaults are c's overlaid with overrides.
func (c *Client) Extend(overrides Defaults) *Client {
	out := *c
	out.defaults = c.defaults.merge(overrides)
	return &out
}

// Request sends one request. Status validation failures and network errors are
// returned as *adapter.Error; transform errors are returned unchanged.
func (c *Client) Request(ctx context.Context, cfg Config) (*adapter.Response, error) {
	if cfg.CancelToken != nil {
		if reason := cfg.CancelToken.Reason(); reason != nil {
			e := adapter.NewError(reason.Error(), nil, adapter.ErrCodeCanceled, nil, nil)
			e.Err = reason
			return nil, e
		}
	}

	rc, transforms := c.merge(cfg)

	data, err := transformRequest(transforms.request, rc.Data, rc.Headers)
	if err != nil {
		return nil, err
	}
	rc.Data = data

	ctx, log := logger.WithRequestID(ctx, c.logger, uuid.New().String())
	start := time.Now()

	log.Info().
		Str("method", strings.ToUpper(rc.Method)).
		Str("url", rc.URL).
		Msg("Sending request")

	resp, err := c.adapter.Do(ctx, rc)
	if err != nil {
		if e, ok := adapter.AsError(err); ok && e.Response != nil && rc.ResponseType != adapter.ResponseTypeStream {
			if transformed, terr := transformResponse(transforms.response, e.Response.Data); terr == nil {
				r := *e.Response
				r.Data = transformed
				e.Response = &r
			}
		}
		log.Warn().Err(err).
			Str("method", strings.ToUpper(rc.Method)).
			Str("url", rc.URL).
			Dur("duration", time.Since(start)).
			Msg("Request failed")
		return nil, err
	}

	out := *resp
	if rc.ResponseType != adapter.ResponseTypeStream {
		if out.Data, err = transformResponse(transforms.response, resp.Data); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("status", out.Status).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	return &out, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodGet, rawURL, nil))
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodDelete, rawURL, nil))
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, rawURL string, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodHead, rawURL, nil))
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, rawURL string, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodOptions, rawURL, nil))
}

// Post sends a POST request with data as the body.
func (c *Client) Post(ctx context.Context, rawURL string, data any, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodPost, rawURL, data))
}

// Put sends a PUT request with data as the body.
func (c *Client) Put(ctx context.Context, rawURL string, data any, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodPut, rawURL, data))
}

// Patch sends a PATCH request with data as the body.
func (c *Client) Patch(ctx context.Context, rawURL string, data any, cfg *Config) (*adapter.Response, error) {
	return c.Request(ctx, withMethod(cfg, http.MethodPatch, rawURL, data))
}

func withMethod(cfg *Config, method, rawURL string, data any) Config {
	var out Config
	if cfg != nil {
		out = *cfg
	}
	out.Method = method
	out.URL = rawURL
	if data != nil {
		out.Data = data
	}
	return out
}

type transformers struct {
	request  []TransformRequestFunc
	response []TransformResponseFunc
}

// merge flattens defaults and cfg into the adapter's RequestConfig.
func (c *Client) merge(cfg Config) (*adapter.RequestConfig, transformers) {
	d := c.defaults
	method := strings.ToLower(cfg.Method)
	if method == "" {
		method = "get"
	}

	baseURL := d.BaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	rc := &adapter.RequestConfig{
		URL:              combineURL(baseURL, cfg.URL),
		Params:           cfg.Params,
		ParamsSerializer: d.ParamsSerializer,
		Method:           method,
		Data:             cfg.Data,
		Headers:          mergeHeaders(d.Headers.Common, d.Headers.PerMethod[method], cfg.Headers),
		WithCredentials:  d.WithCredentials != nil && *d.WithCredentials,
		XSRFCookieName:   d.XSRFCookieName,
		XSRFHeaderName:   d.XSRFHeaderName,
		Auth:             d.Auth,
		Timeout:          d.Timeout,
		ResponseType:     d.ResponseType,
		CancelToken:      cfg.CancelToken,
		ValidateStatus:   d.ValidateStatus,
	}

	if cfg.ParamsSerializer != nil {
		rc.ParamsSerializer = cfg.ParamsSerializer
	}
	if cfg.WithCredentials != nil {
		rc.WithCredentials = *cfg.WithCredentials
	}
	if cfg.XSRFCookieName != "" {
		rc.XSRFCookieName = cfg.XSRFCookieName
	}
	if cfg.XSRFHeaderName != "" {
		rc.XSRFHeaderName = cfg.XSRFHeaderName
	}
	if cfg.Auth != nil {
		rc.Auth = cfg.Auth
	}
	if cfg.Timeout > 0 {
		rc.Timeout = cfg.Timeout
	}
	if cfg.ResponseType != "" {
		rc.ResponseType = cfg.ResponseType
	}
	if cfg.ValidateStatus != nil {
		rc.ValidateStatus = cfg.ValidateStatus
	}

	t := transformers{request: d.TransformRequest, response: d.TransformResponse}
	if cfg.TransformRequest != nil {
		t.request = cfg.TransformRequest
	}
	if cfg.TransformResponse != nil {
		t.response = cfg.TransformResponse
	}

	return rc, t
}

// combineURL joins baseURL and a relative URL; absolute URLs are kept as-is.
func combineURL(baseURL, rawURL string) string {
	if baseURL == "" || absoluteURL.MatchString(rawURL) {
		return rawURL
	}
	if rawURL == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(rawURL, "/")
}
