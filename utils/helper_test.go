package utils

import (
	"strings"
	"testing"
)

func TestCountWords(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced   out\twords\nhere ", 4},
	}
	for _, tc := range cases {
		if got := CountWords(tc.input); got != tc.want {
			t.Errorf("CountWords(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.org"}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	invalid := []string{"", "plainstring", "@nouser.com", "user@"}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestGenerateUniqueFilename(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := GenerateUniqueFilename()
		if name == "" || strings.ContainsAny(name, "/\\ ") {
			t.Fatalf("unusable filename %q", name)
		}
		if seen[name] {
			t.Fatalf("duplicate filename %q", name)
		}
		seen[name] = true
	}
}

func TestUniqueSlicePreservesOrder(t *testing.T) {
	got := UniqueSlice([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNilIfEmpty(t *testing.T) {
	if NilIfEmpty("") != nil {
		t.Error("empty string should map to nil")
	}
	if p := NilIfEmpty("x"); p == nil || *p != "x" {
		t.Error("non-empty string should round-trip")
	}
	if NilIfEmpty(0) != nil {
		t.Error("zero int should map to nil")
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 7
	if got := DereferencePtr(&v); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
	if got := DereferencePtr[int](nil, 3); got != 3 {
		t.Errorf("got %d, want fallback 3", got)
	}
	if got := DereferencePtr[string](nil); got != "" {
		t.Errorf("got %q, want zero value", got)
	}
}
