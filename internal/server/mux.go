// Package server provides HTTP server construction for the MCP endpoint.
package server

import (
	"log/slog"
	"net/http"
)

// MuxConfig holds dependencies for building the HTTP mux.
type MuxConfig struct {
	APIKeyHashes []string
	MCPHandler   http.Handler
	Logger       *slog.Logger
}

// NewMux builds the HTTP mux with a health endpoint and the MCP endpoint.
// The MCP endpoint is protected by the API key middleware.
func NewMux(cfg MuxConfig) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	authMiddleware := APIKeyMiddleware(NewKeyVerifier(cfg.APIKeyHashes), cfg.Logger)
	mux.Handle("/mcp", authMiddleware(cfg.MCPHandler))

	return mux
}
