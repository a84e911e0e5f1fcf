// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIHeaders(t *testing.T) {
	handler := APIHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous read is cacheable", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

		if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options: got %q, want nosniff", got)
		}
		if got := rr.Header().Get("Cache-Control"); got != "" {
			t.Errorf("Cache-Control: got %q, want empty", got)
		}
	})

	for _, header := range []string{"Authorization", PostPasswordHeader} {
		t.Run(header+" disables caching", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/posts/x", nil)
			req.Header.Set(header, "value")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if got := rr.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control: got %q, want no-store", got)
			}
		})
	}
}
