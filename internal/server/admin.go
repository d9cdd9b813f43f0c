package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dvcrn/go-fetch-adapter/internal/env"
	"github.com/dvcrn/go-fetch-adapter/internal/logger"
)

// apiKeyMiddleware checks for the GATEWAY_API_KEY from either
// 'Authorization: Bearer <key>' or 'X-API-Key: <key>' headers. When the
// variable is unset the gateway is open.
func (s *Server) apiKeyMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context(), nil)

		apiKey, ok := env.Get("GATEWAY_API_KEY")
		if !ok || apiKey == "" {
			next(w, r)
			return
		}

		var providedToken string
		authHeader := r.Header.Get("Authorization")
		xAPIKeyHeader := r.Header.Get("X-API-Key")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn().
					Str("method", r.Method).
					Str("remote_addr", r.RemoteAddr).
					Msg("Invalid Authorization header format")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid Authorization header format"})
				return
			}
			providedToken = parts[1]
		} else if xAPIKeyHeader != "" {
			providedToken = xAPIKeyHeader
		} else {
			log.Warn().
				Str("method", r.Method).
				Str("remote_addr", r.RemoteAddr).
				Msg("Missing Authorization or X-API-Key header")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedToken), []byte(apiKey)) != 1 {
			log.Warn().
				Str("method", r.Method).
				Str("remote_addr", r.RemoteAddr).
				Msg("Invalid API key provided")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}

		next(w, r)
	}
}
