package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dvcrn/go-fetch-adapter/internal/adapter"
	"github.com/dvcrn/go-fetch-adapter/internal/client"
	nativehttp "github.com/dvcrn/go-fetch-adapter/internal/http"
	"github.com/dvcrn/go-fetch-adapter/internal/logger"
)

// Server exposes a Client over HTTP.
type Server struct {
	client *client.Client
	mux    *http.ServeMux
}

// FetchRequest is the body of POST /v1/fetch.
type FetchRequest struct {
	URL             string               `json:"url"`
	Method          string               `json:"method,omitempty"`
	Params          url.Values           `json:"params,omitempty"`
	Headers         map[string]string    `json:"headers,omitempty"`
	Data            json.RawMessage      `json:"data,omitempty"`
	Timeout         int64                `json:"timeout,omitempty"`
	ResponseType    adapter.ResponseType `json:"response_type,omitempty"`
	Auth            *adapter.Auth        `json:"auth,omitempty"`
	WithCredentials *bool                `json:"with_credentials,omitempty"`
}

// FetchResponse is the normalized upstream response. Error and Code are set
// when the upstream status failed validation.
type FetchResponse struct {
	Status     int               `json:"status"`
	StatusText string            `json:"status_text"`
	Headers    map[string]string `json:"headers"`
	Data       any               `json:"data"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewServer creates a gateway that sends every request through c.
func NewServer(c *client.Client) *Server {
	s := &Server{
		client: c,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()

	return s
}

// NewGateway creates a gateway with defaults from the environment. Its fetcher
// keeps no cookies, so credentialed requests from one caller never see
// cookies set for another.
func NewGateway() *Server {
	a := adapter.New(nativehttp.NewStatelessFetcher())
	return NewServer(client.New(a, client.DefaultsFromEnv()))
}

// Start listens on addr and serves the gateway.
func (s *Server) Start(addr string) error {
	logger.Get().Info().Msgf("Starting fetch gateway on %s", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/healthz", s.healthHandler)
	s.mux.HandleFunc("/v1/fetch", s.apiKeyMiddleware(s.fetchHandler))
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	loggingMiddleware(s.mux).ServeHTTP(w, r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// fetchHandler handles POST /v1/fetch
func (s *Server) fetchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	log := logger.FromContext(r.Context(), nil)

	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Failed to decode fetch request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url is required"})
		return
	}

	cfg, err := req.config()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp, err := s.client.Request(r.Context(), cfg)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}

	if body, ok := resp.Data.(io.ReadCloser); ok {
		defer body.Close()
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.Status)
		if _, err := io.Copy(w, body); err != nil {
			log.Warn().Err(err).Msg("Failed to stream upstream body")
		}
		return
	}

	writeJSON(w, http.StatusOK, newFetchResponse(resp))
}

func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	var e *adapter.Error
	if !errors.As(err, &e) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if e.Response != nil {
		out := newFetchResponse(e.Response)
		if body, ok := out.Data.(io.ReadCloser); ok {
			body.Close()
			out.Data = nil
		}
		out.Error = e.Message
		out.Code = e.Code
		writeJSON(w, http.StatusOK, out)
		return
	}

	writeJSON(w, http.StatusBadGateway, errorResponse{Error: e.Error(), Code: e.Code})
}

func (r FetchRequest) config() (client.Config, error) {
	cfg := client.Config{
		URL:             r.URL,
		Method:          r.Method,
		Params:          r.Params,
		Headers:         r.Headers,
		Timeout:         time.Duration(r.Timeout) * time.Millisecond,
		ResponseType:    r.ResponseType,
		Auth:            r.Auth,
		WithCredentials: r.WithCredentials,
	}

	if len(r.Data) > 0 && string(r.Data) != "null" {
		var data any
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return client.Config{}, err
		}
		cfg.Data = data
	}

	return cfg, nil
}

func newFetchResponse(resp *adapter.Response) FetchResponse {
	return FetchResponse{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Headers:    resp.Headers,
		Data:       resp.Data,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
