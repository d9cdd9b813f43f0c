// Package adapter translates a RequestConfig into one native fetch call and the
// native response back into a normalized Response.
package adapter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	nativehttp "github.com/dvcrn/go-fetch-adapter/internal/http"
	"github.com/dvcrn/go-fetch-adapter/internal/logger"
	"github.com/dvcrn/go-fetch-adapter/internal/platform"
)

const contentTypeHeader = "Content-Type"

// CookieReader looks up a cookie visible to the current page.
type CookieReader func(name string) (string, bool)

// Adapter dispatches requests to a native Fetcher. The remaining fields are the
// collaborators it consults; New fills them with platform defaults and any of
// them may be replaced afterwards.
type Adapter struct {
	Fetcher              nativehttp.Fetcher
	BuildURL             URLBuilder
	ReadCookie           CookieReader
	IsSameOrigin         func(rawURL string) bool
	IsStandardBrowserEnv func() bool
	Encode               Encoder
	Settle               SettleFunc
	Logger               *zerolog.Logger
}

// New creates an Adapter over fetcher using the current platform's capabilities.
func New(fetcher nativehttp.Fetcher) *Adapter {
	return &Adapter{
		Fetcher:              fetcher,
		BuildURL:             BuildURL,
		ReadCookie:           platform.ReadCookie,
		IsSameOrigin:         platform.SameOrigin(platform.Origin()),
		IsStandardBrowserEnv: platform.IsStandardBrowserEnv,
		Encode:               EncodeBase64,
		Settle:               Settle,
		Logger:               logger.Get(),
	}
}

// resolved returns a copy with unset collaborators replaced by defaults.
func (a *Adapter) resolved() *Adapter {
	r := *a
	if r.Fetcher == nil {
		r.Fetcher = nativehttp.NewFetcher()
	}
	if r.BuildURL == nil {
		r.BuildURL = BuildURL
	}
	if r.ReadCookie == nil {
		r.ReadCookie = platform.ReadCookie
	}
	if r.IsSameOrigin == nil {
		r.IsSameOrigin = platform.SameOrigin(platform.Origin())
	}
	if r.IsStandardBrowserEnv == nil {
		r.IsStandardBrowserEnv = platform.IsStandardBrowserEnv
	}
	if r.Encode == nil {
		r.Encode = EncodeBase64
	}
	if r.Settle == nil {
		r.Settle = Settle
	}
	return &r
}

// Do performs the request described by cfg and blocks until it settles.
//
// Transport failures, including aborts triggered by ctx, cfg.Timeout or
// cfg.CancelToken, return an *Error with code ERR_NETWORK. Errors from URL
// parsing, body decoding and Settle are returned unchanged. A stream body
// stays readable after Do returns; closing it releases the request. When
// Settle rejects a stream response the body is closed before Do returns.
func (a *Adapter) Do(ctx context.Context, cfg *RequestConfig) (*Response, error) {
	a = a.resolved()
	log := logger.FromContext(ctx, a.Logger)

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}

	target := cfg.URL
	inline := ""
	if parsed.User != nil {
		inline = parsed.User.Username()
		if password, ok := parsed.User.Password(); ok {
			inline += ":" + password
		}
		stripped := *parsed
		stripped.User = nil
		target = stripped.String()
	}

	body, formContentType, err := encodeBody(cfg.Data)
	if err != nil {
		return nil, err
	}

	ctx, abort := context.WithCancel(ctx)
	streaming := false
	defer func() {
		if !streaming {
			abort()
		}
	}()

	req, err := a.newRequest(ctx, cfg, target, body)
	if err != nil {
		return nil, err
	}

	if header, ok := BuildAuthHeader(cfg.Auth, inline, a.Encode); ok {
		req.Header.Set("Authorization", header)
	}

	if a.IsStandardBrowserEnv() &&
		(cfg.WithCredentials || a.IsSameOrigin(cfg.URL)) &&
		cfg.XSRFCookieName != "" && cfg.XSRFHeaderName != "" {
		if value, ok := a.ReadCookie(cfg.XSRFCookieName); ok && value != "" {
			req.Header.Set(cfg.XSRFHeaderName, value)
		}
	}

	_, isForm := cfg.Data.(*FormData)
	req.Header.Del(contentTypeHeader)
	for key, value := range cfg.Headers {
		if strings.EqualFold(key, contentTypeHeader) && (cfg.Data == nil || isForm) {
			continue
		}
		req.Header.Add(key, value)
	}

	if cfg.Data != nil && req.Header.Get(contentTypeHeader) == "" {
		if isForm {
			req.Header.Set(contentTypeHeader, formContentType)
		} else {
			req.Header.Set(contentTypeHeader, "application/json")
		}
	}

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Dur("timeout", cfg.Timeout).
		Msg("Dispatching fetch")

	release := armCancellation(cfg, abort)
	start := time.Now()
	resp, err := a.Fetcher.Fetch(req)
	release()

	if err != nil {
		log.Debug().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Dur("duration", time.Since(start)).
			Msg("Fetch failed")
		return nil, newNetworkError(cfg, req, err)
	}

	if cfg.ResponseType == ResponseTypeStream {
		streaming = true
		resp.Body = &abortOnClose{ReadCloser: resp.Body, abort: abort}
	}

	result, err := normalize(cfg, req, resp)
	if err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("Failed to normalize response")
		return nil, err
	}

	if err := a.Settle(result); err != nil {
		if streaming {
			resp.Body.Close()
		}
		log.Debug().Err(err).Int("status", result.Status).Msg("Response rejected")
		return nil, err
	}

	log.Debug().
		Int("status", result.Status).
		Dur("duration", time.Since(start)).
		Msg("Fetch completed")

	return result, nil
}

func (a *Adapter) newRequest(ctx context.Context, cfg *RequestConfig, target string, body io.Reader) (*nativehttp.Request, error) {
	method := strings.ToUpper(cfg.Method)
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, a.BuildURL(target, cfg.Params, cfg.ParamsSerializer), body)
	if err != nil {
		return nil, err
	}

	credentials := nativehttp.CredentialsOmit
	if cfg.WithCredentials {
		credentials = nativehttp.CredentialsInclude
	}

	return &nativehttp.Request{
		Request:     httpReq,
		Redirect:    nativehttp.RedirectManual,
		Credentials: credentials,
	}, nil
}

// armCancellation feeds the timeout and the cancel token into abort. The
// returned function detaches both and must be called once the fetch settles.
func armCancellation(cfg *RequestConfig, abort context.CancelFunc) (release func()) {
	var timer *time.Timer
	if cfg.Timeout > 0 {
		timer = time.AfterFunc(cfg.Timeout, abort)
	}

	var stop func() bool
	if cfg.CancelToken != nil {
		if cfg.CancelToken.Reason() != nil {
			abort()
		}
		stop = cfg.CancelToken.onCancel(abort)
	}

	return func() {
		if timer != nil {
			timer.Stop()
		}
		if stop != nil {
			stop()
		}
	}
}

// abortOnClose ends the request context when a streamed body is closed.
type abortOnClose struct {
	io.ReadCloser
	abort context.CancelFunc
}

func (b *abortOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.abort()
	return err
}
