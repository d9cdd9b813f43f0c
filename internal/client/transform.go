package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dvcrn/go-fetch-adapter/internal/adapter"
)

// TransformRequestFunc rewrites request data before it is sent. It may
// modify headers in place.
type TransformRequestFunc func(data any, headers map[string]string) (any, error)

// TransformResponseFunc rewrites response data before it is returned.
type TransformResponseFunc func(data any) (any, error)

// TransformRequestJSON JSON-encodes structured data and url-encodes url.Values,
// setting a matching content-type when none is present. Raw bodies pass through.
func TransformRequestJSON(data any, headers map[string]string) (any, error) {
	switch v := data.(type) {
	case nil, string, []byte, *adapter.FormData, io.Reader:
		return data, nil
	case url.Values:
		setContentTypeIfUnset(headers, "application/x-www-form-urlencoded;charset=utf-8")
		return v.Encode(), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request data: %w", err)
		}
		setContentTypeIfUnset(headers, "application/json;charset=utf-8")
		return string(b), nil
	}
}

// TransformResponseJSON parses string data as JSON, keeping the string when it
// is not valid JSON.
func TransformResponseJSON(data any) (any, error) {
	s, ok := data.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return data, nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return data, nil
	}
	return v, nil
}

func setContentTypeIfUnset(headers map[string]string, value string) {
	if headers == nil {
		return
	}
	for k := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return
		}
	}
	headers[http.CanonicalHeaderKey("Content-Type")] = value
}

func transformRequest(fns []TransformRequestFunc, data any, headers map[string]string) (any, error) {
	var err error
	for _, fn := range fns {
		if data, err = fn(data, headers); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func transformResponse(fns []TransformResponseFunc, data any) (any, error) {
	var err error
	for _, fn := range fns {
		if data, err = fn(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
