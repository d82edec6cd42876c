package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

var errBadToken = errors.New("invalid session token")

// tokens signs and verifies HS256 session tokens. A token carries the
// session ID in "sid" and lets its holder act on that session only.
type tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokens) sign(sessionID string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// verify returns the session ID carried by a valid token.
func (t *tokens) verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		return "", errBadToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errBadToken
	}
	return sid, nil
}

// requireSessionToken enforces a bearer token whose "sid" matches {id}.
func (s *Server) requireSessionToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sid, err := s.tokens.verify(raw)
		if err != nil || sid != chi.URLParam(r, "id") {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearer extracts a token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
