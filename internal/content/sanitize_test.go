// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello", "Hello"},
		{"  padded  ", "padded"},
		{"<b>Bold</b> move", "Bold move"},
		{"Q&A", "Q&A"},
		{"<script>alert(1)</script>", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := plainText(tt.in); got != tt.want {
			t.Errorf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainTags(t *testing.T) {
	if got := plainTags(nil); got != nil {
		t.Errorf("plainTags(nil) = %v, want nil", got)
	}
	got := plainTags([]string{"go", "<i>web</i>", "<br>"})
	if len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("plainTags = %v, want [go web]", got)
	}
}
