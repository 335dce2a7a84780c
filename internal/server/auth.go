package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const sessionTTL = 24 * time.Hour

// sessionRegistry holds tokens issued by login. Tokens live in memory
// only; a server restart invalidates them.
type sessionRegistry struct {
	mu     sync.Mutex
	tokens map[string]session
}

type session struct {
	username  string
	expiresAt time.Time
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{tokens: map[string]session{}}
}

func (r *sessionRegistry) issue(username string, now time.Time) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()
	for existing, sess := range r.tokens {
		if now.After(sess.expiresAt) {
			delete(r.tokens, existing)
		}
	}
	r.tokens[token] = session{username: username, expiresAt: now.Add(sessionTTL)}
	return token, nil
}

func (r *sessionRegistry) valid(token string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.tokens[token]
	if !ok {
		return false
	}
	if now.After(sess.expiresAt) {
		delete(r.tokens, token)
		return false
	}
	return true
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// withAuth enforces bearer auth when an API token is configured.
// Health stays open so probes work unauthenticated; login is open so
// users can obtain a session token.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" || openPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("missing bearer token")))
			return
		}
		if tokensEqual(token, s.apiToken) || s.sessions.valid(token, time.Now().UTC()) {
			next.ServeHTTP(w, r)
			return
		}
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid token")))
	})
}

// requireAdmin gates an admin handler behind the admin token header.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			s.writeErrorReq(w, r, http.StatusForbidden, makeAPIError(
				http.StatusForbidden, "forbidden", ErrCodeForbidden,
				fmt.Errorf("admin endpoints require %s to be set", adminTokenEnvKey)))
			return
		}
		if !tokensEqual(strings.TrimSpace(r.Header.Get("X-Admin-Token")), s.adminToken) {
			s.writeErrorReq(w, r, http.StatusForbidden, makeAPIError(
				http.StatusForbidden, "forbidden", ErrCodeForbidden,
				fmt.Errorf("invalid admin token")))
			return
		}
		next(w, r)
	}
}

func openPath(path string) bool {
	switch path {
	case "/health", "/v1/auth/login":
		return true
	default:
		return false
	}
}
