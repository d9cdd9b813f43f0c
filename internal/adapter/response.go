package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	nativehttp "github.com/dvcrn/go-fetch-adapter/internal/http"
)

// bodyReader extracts the body of resp in one representation.
type bodyReader func(resp *http.Response) (any, error)

var bodyReaders = map[ResponseType]bodyReader{
	ResponseTypeArrayBuffer: readArrayBuffer,
	ResponseTypeBlob:        readBlob,
	ResponseTypeJSON:        readJSON,
	ResponseTypeStream:      readStream,
}

// reader returns the handler for t. Text, document and unknown types read text.
func (t ResponseType) reader() bodyReader {
	if r, ok := bodyReaders[t]; ok {
		return r
	}
	return readText
}

// normalize reads the body as cfg.ResponseType asks and assembles the Response.
// The status code is not inspected.
func normalize(cfg *RequestConfig, req *nativehttp.Request, resp *http.Response) (*Response, error) {
	data, err := cfg.ResponseType.reader()(resp)
	if err != nil {
		return nil, err
	}

	return &Response{
		Data:       data,
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    flattenHeaders(resp.Header),
		Config:     cfg,
		Request:    req,
	}, nil
}

func readAll(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return b, nil
}

func readArrayBuffer(resp *http.Response) (any, error) {
	return readAll(resp)
}

func readBlob(resp *http.Response) (any, error) {
	b, err := readAll(resp)
	if err != nil {
		return nil, err
	}
	return &Blob{Type: strings.ToLower(resp.Header.Get("Content-Type")), Data: b}, nil
}

func readJSON(resp *http.Response) (any, error) {
	b, err := readAll(resp)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to parse response body as JSON: %w", err)
	}
	return v, nil
}

func readStream(resp *http.Response) (any, error) {
	return resp.Body, nil
}

func readText(resp *http.Response) (any, error) {
	b, err := readAll(resp)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// statusText extracts the reason phrase from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for key, values := range h {
		headers[strings.ToLower(key)] = strings.Join(values, ", ")
	}
	return headers
}
