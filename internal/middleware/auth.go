// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// MasterKey is the context key marking a request from the blog master.
	MasterKey contextKey = "master"
)

// Master marks requests carrying "Authorization: Bearer <token>" as coming
// from the blog master. It does not reject anything; requests without a
// valid token continue as anonymous readers. An empty token disables the
// master role entirely.
func Master(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(want) > 0 {
				if got, ok := bearerToken(r); ok && subtle.ConstantTimeCompare([]byte(got), want) == 1 {
					r = r.WithContext(context.WithValue(r.Context(), MasterKey, true))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMaster answers 401 for requests that Master did not mark.
// Must be applied after Master in the middleware chain.
func RequireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsMaster(r.Context()) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="nextblog"`)
			writeError(w, http.StatusUnauthorized, "master token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsMaster reports whether the request context belongs to the blog master.
func IsMaster(ctx context.Context) bool {
	ok, _ := ctx.Value(MasterKey).(bool)
	return ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
