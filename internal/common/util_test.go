package common

import (
	"errors"
	"fmt"
	"testing"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("expected length %d, got %d", n, len(buf))
	}
}

// ---------- identifiers ----------

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Admin@Example.COM ", "admin@example.com"},
		{"x@y.z", "x@y.z"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeIdentifier(tt.in); got != tt.want {
			t.Fatalf("NormalizeIdentifier(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"admin@example.com", true},
		{"a@b.c", true},
		{"no-at-sign.com", false},
		{"a@nodot", false},
		{"a b@c.d", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeEmail(tt.in); got != tt.want {
			t.Fatalf("LooksLikeEmail(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

// ---------- InputError ----------

func TestInputError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewInputError("email", "invalid email"))

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected errors.Is(err, ErrInvalidInput)")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("must not match unrelated sentinel")
	}

	var ie *InputError
	if !errors.As(err, &ie) || ie.Field != "email" {
		t.Fatalf("expected *InputError with field email, got %v", err)
	}
	if ie.Error() != "email: invalid email" {
		t.Fatalf("unexpected message %q", ie.Error())
	}
	if NewInputError("", "missing token").Error() != "missing token" {
		t.Fatalf("field-less message must be the reason only")
	}
}
