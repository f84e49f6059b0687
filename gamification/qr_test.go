package gamification

import "testing"

func TestNormalizeQRPayload(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"abc123", "abc123"},
		{"evt-42:abc123", "abc123"},
		{"a:b:abc123", "abc123"},
		{":abc123", "abc123"},
		{"abc123:", ""},
	}
	for _, c := range cases {
		if got := NormalizeQRPayload(c.raw); got != c.want {
			t.Errorf("NormalizeQRPayload(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestVerifyQRCode(t *testing.T) {
	secret := "abc123"

	if !VerifyQRCode(secret, "abc123") {
		t.Error("bare code should match")
	}
	if !VerifyQRCode(secret, "event-1:abc123") {
		t.Error("prefixed code should match")
	}
	if VerifyQRCode(secret, "xyz") {
		t.Error("wrong code should be rejected")
	}
	if VerifyQRCode(secret, "ABC123") {
		t.Error("comparison must be case-sensitive")
	}
	if VerifyQRCode(secret, "") {
		t.Error("empty payload should be rejected")
	}
}
