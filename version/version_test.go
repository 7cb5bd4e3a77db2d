// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"strings"
	"testing"
)

func TestNormalizeVerString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"rc1", "rc1"},
		{"beta.2", "beta.2"},
		{"a b_c+d", "abcd"},
		{"üñí", ""},
	}
	for _, test := range tests {
		if got := normalizeVerString(test.in); got != test.want {
			t.Errorf("normalizeVerString(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestStringPrefix(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "0.3.0") {
		t.Fatalf("unexpected version %q", s)
	}
	if PreRelease != "" && !strings.Contains(s, "-"+PreRelease) {
		t.Fatalf("version %q missing prerelease %q", s, PreRelease)
	}
}
