package adapter

import (
	"net/http"
	"net/url"
	"time"

	nativehttp "github.com/dvcrn/go-fetch-adapter/internal/http"
)

// ResponseType selects how the response body is read.
type ResponseType string

const (
	ResponseTypeArrayBuffer ResponseType = "arraybuffer"
	ResponseTypeBlob        ResponseType = "blob"
	ResponseTypeDocument    ResponseType = "document"
	ResponseTypeJSON        ResponseType = "json"
	ResponseTypeStream      ResponseType = "stream"
	ResponseTypeText        ResponseType = "text"
)

// Auth holds HTTP Basic credentials.
type Auth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ParamsSerializer turns query parameters into a query string (without "?").
type ParamsSerializer func(params url.Values) string

// RequestConfig is everything the adapter needs for one request. The adapter
// never modifies it.
type RequestConfig struct {
	URL              string
	Params           url.Values
	ParamsSerializer ParamsSerializer
	Method           string

	// Data is the request body. Strings, byte slices, readers, url.Values and
	// *FormData are sent as-is; anything else is JSON encoded.
	Data any

	// Headers are matched case-insensitively.
	Headers map[string]string

	WithCredentials bool
	XSRFCookieName  string
	XSRFHeaderName  string
	Auth            *Auth
	Timeout         time.Duration
	ResponseType    ResponseType
	CancelToken     *CancelToken

	// ValidateStatus decides which statuses resolve. Nil means 2xx only.
	ValidateStatus func(status int) bool
}

// Response is the normalized result of a completed request.
type Response struct {
	// Data depends on the ResponseType: []byte, *Blob, a decoded JSON value,
	// an io.ReadCloser the caller must close, or a string.
	Data       any
	Status     int
	StatusText string
	// Headers have lowercase names; repeated values are joined with ", ".
	Headers map[string]string
	Config  *RequestConfig
	Request *nativehttp.Request
}

// Blob is an opaque binary body together with its media type.
type Blob struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// Size returns the number of bytes in the blob.
func (b *Blob) Size() int {
	return len(b.Data)
}

// DefaultValidateStatus accepts 2xx statuses.
func DefaultValidateStatus(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
