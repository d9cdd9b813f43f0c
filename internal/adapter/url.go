package adapter

import (
	"net/url"
	"strings"
)

// URLBuilder produces the final request URL from the configured URL and params.
type URLBuilder func(rawURL string, params url.Values, serializer ParamsSerializer) string

// BuildURL appends serialized params to rawURL, dropping any fragment. Without
// a serializer params are encoded with url.Values.Encode.
func BuildURL(rawURL string, params url.Values, serializer ParamsSerializer) string {
	if len(params) == 0 {
		return rawURL
	}

	var serialized string
	if serializer != nil {
		serialized = serializer(params)
	} else {
		serialized = params.Encode()
	}
	if serialized == "" {
		return rawURL
	}

	if i := strings.IndexByte(rawURL, '#'); i != -1 {
		rawURL = rawURL[:i]
	}

	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + serialized
	}
	return rawURL + "?" + serialized
}
