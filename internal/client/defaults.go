package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/dvcrn/go-fetch-adapter/internal/adapter"
	"github.com/dvcrn/go-fetch-adapter/internal/env"
)

// HeaderDefaults are headers applied to every request (Common) and to
// requests of one method (PerMethod, keyed by lowercase method).
type HeaderDefaults struct {
	Common    map[string]string
	PerMethod map[string]map[string]string
}

// Defaults is the configuration a Client applies beneath every request. It is
// a plain value: Clients copy it on construction and hand out copies.
type Defaults struct {
	BaseURL           string
	Headers           HeaderDefaults
	Timeout           time.Duration
	// WithCredentials is tri-state so Extend can turn it off; nil means false.
	WithCredentials   *bool
	XSRFCookieName    string
	XSRFHeaderName    string
	Auth              *adapter.Auth
	ResponseType      adapter.ResponseType
	ValidateStatus    func(status int) bool
	ParamsSerializer  adapter.ParamsSerializer
	TransformRequest  []TransformRequestFunc
	TransformResponse []TransformResponseFunc
}

// NewDefaults returns the library defaults.
func NewDefaults() Defaults {
	return Defaults{
		Headers: HeaderDefaults{
			Common: map[string]string{
				"Accept": "application/json, text/plain, */*",
			},
			PerMethod: map[string]map[string]string{},
		},
		XSRFCookieName:    "XSRF-TOKEN",
		XSRFHeaderName:    "X-XSRF-TOKEN",
		ValidateStatus:    adapter.DefaultValidateStatus,
		TransformRequest:  []TransformRequestFunc{TransformRequestJSON},
		TransformResponse: []TransformResponseFunc{TransformResponseJSON},
	}
}

// DefaultsFromEnv returns NewDefaults adjusted by FETCH_BASE_URL, FETCH_TIMEOUT,
// FETCH_WITH_CREDENTIALS, FETCH_XSRF_COOKIE_NAME and FETCH_XSRF_HEADER_NAME.
func DefaultsFromEnv() Defaults {
	d := NewDefaults()
	d.BaseURL = env.GetOrDefault("FETCH_BASE_URL", d.BaseURL)
	d.Timeout, _ = env.GetDuration("FETCH_TIMEOUT", d.Timeout)
	if _, ok := env.Get("FETCH_WITH_CREDENTIALS"); ok {
		d.WithCredentials = Bool(env.GetBool("FETCH_WITH_CREDENTIALS", false))
	}
	d.XSRFCookieName = env.GetOrDefault("FETCH_XSRF_COOKIE_NAME", d.XSRFCookieName)
	d.XSRFHeaderName = env.GetOrDefault("FETCH_XSRF_HEADER_NAME", d.XSRFHeaderName)
	return d
}

// clone deep-copies the maps and slices so the copy shares nothing mutable.
func (d Defaults) clone() Defaults {
	out := d
	out.Headers.Common = copyHeaders(d.Headers.Common)
	out.Headers.PerMethod = make(map[string]map[string]string, len(d.Headers.PerMethod))
	for method, headers := range d.Headers.PerMethod {
		out.Headers.PerMethod[strings.ToLower(method)] = copyHeaders(headers)
	}
	if d.Auth != nil {
		auth := *d.Auth
		out.Auth = &auth
	}
	if d.WithCredentials != nil {
		out.WithCredentials = Bool(*d.WithCredentials)
	}
	out.TransformRequest = append([]TransformRequestFunc(nil), d.TransformRequest...)
	out.TransformResponse = append([]TransformResponseFunc(nil), d.TransformResponse...)
	return out
}

// merge layers overrides on top of d. Set fields win; header maps are merged.
func (d Defaults) merge(overrides Defaults) Defaults {
	out := d.clone()
	o := overrides.clone()

	if o.BaseURL != "" {
		out.BaseURL = o.BaseURL
	}
	out.Headers.Common = mergeHeaders(out.Headers.Common, o.Headers.Common)
	for method, headers := range o.Headers.PerMethod {
		out.Headers.PerMethod[method] = mergeHeaders(out.Headers.PerMethod[method], headers)
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.WithCredentials != nil {
		out.WithCredentials = o.WithCredentials
	}
	if o.XSRFCookieName != "" {
		out.XSRFCookieName = o.XSRFCookieName
	}
	if o.XSRFHeaderName != "" {
		out.XSRFHeaderName = o.XSRFHeaderName
	}
	if o.Auth != nil {
		out.Auth = o.Auth
	}
	if o.ResponseType != "" {
		out.ResponseType = o.ResponseType
	}
	if o.ValidateStatus != nil {
		out.ValidateStatus = o.ValidateStatus
	}
	if o.ParamsSerializer != nil {
		out.ParamsSerializer = o.ParamsSerializer
	}
	if o.TransformRequest != nil {
		out.TransformRequest = o.TransformRequest
	}
	if o.TransformResponse != nil {
		out.TransformResponse = o.TransformResponse
	}
	return out
}

func copyHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}

// mergeHeaders returns base overlaid with each layer, matching names
// case-insensitively.
func mergeHeaders(base map[string]string, layers ...map[string]string) map[string]string {
	out := copyHeaders(base)
	for _, layer := range layers {
		for k, v := range layer {
			out[http.CanonicalHeaderKey(k)] = v
		}
	}
	return out
}
