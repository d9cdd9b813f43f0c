package adapter

import "encoding/base64"

// Encoder is the base64 encoder used for Basic credentials.
type Encoder func(s string) string

// EncodeBase64 is the btoa equivalent: standard, padded base64.
func EncodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// BuildAuthHeader returns the Authorization value for an explicit credential
// pair or, failing that, an inline "user:pass" credential taken from the URL.
// It reports false when neither is present.
func BuildAuthHeader(auth *Auth, inline string, encode Encoder) (string, bool) {
	if encode == nil {
		encode = EncodeBase64
	}

	if auth != nil {
		return basicAuth(auth.Username+":"+auth.Password, encode), true
	}

	if inline != "" {
		return basicAuth(inline, encode), true
	}

	return "", false
}

func basicAuth(credential string, encode Encoder) string {
	return "Basic " + encode(credential)
}
