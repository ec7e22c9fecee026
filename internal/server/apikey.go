package server

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type contextKey int

const ctxRemoteIP contextKey = iota

// RequestRemoteIP returns the client IP from the context, or "".
func RequestRemoteIP(ctx context.Context) string {
	v, _ := ctx.Value(ctxRemoteIP).(string)
	return v
}

// KeyVerifier checks API keys against bcrypt hashes. Keys that verified
// once are remembered by digest so later requests skip the bcrypt cost.
type KeyVerifier struct {
	hashes [][]byte

	mu       sync.Mutex
	verified map[[sha256.Size]byte]struct{}
}

// NewKeyVerifier creates a verifier for the given bcrypt hashes.
func NewKeyVerifier(hashes []string) *KeyVerifier {
	v := &KeyVerifier{verified: make(map[[sha256.Size]byte]struct{})}
	for _, h := range hashes {
		if h = strings.TrimSpace(h); h != "" {
			v.hashes = append(v.hashes, []byte(h))
		}
	}

	return v
}

// Verify reports whether key matches one of the hashes.
func (v *KeyVerifier) Verify(key string) bool {
	if key == "" {
		return false
	}

	sum := sha256.Sum256([]byte(key))

	v.mu.Lock()
	_, ok := v.verified[sum]
	v.mu.Unlock()

	if ok {
		return true
	}

	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			v.mu.Lock()
			v.verified[sum] = struct{}{}
			v.mu.Unlock()

			return true
		}
	}

	return false
}

// APIKeyMiddleware returns HTTP middleware that requires a valid API key
// as a Bearer token.
func APIKeyMiddleware(verifier *KeyVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Debug("middleware: no bearer token",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="inventory-sync"`)
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			if !verifier.Verify(strings.TrimPrefix(authHeader, "Bearer ")) {
				logger.Warn("middleware: invalid API key",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="inventory-sync", error="invalid_token"`)
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(r.Context(), ctxRemoteIP, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
