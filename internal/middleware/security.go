// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// PostPasswordHeader carries the password that unlocks a protected post.
const PostPasswordHeader = "X-Post-Password"

// APIHeaders sets response headers for the JSON API. Responses to the
// master or to a password unlock are personal and must not be stored by
// shared caches.
func APIHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Frame-Options", "DENY")

		if r.Header.Get("Authorization") != "" || r.Header.Get(PostPasswordHeader) != "" {
			h.Set("Cache-Control", "no-store")
			h.Add("Vary", "Authorization")
		}

		next.ServeHTTP(w, r)
	})
}
