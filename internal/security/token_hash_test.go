package security

import "testing"

func TestHashSessionToken(t *testing.T) {
	h1 := HashSessionToken("token-a")
	h2 := HashSessionToken("token-a")
	h3 := HashSessionToken("token-b")

	if h1 != h2 {
		t.Error("hashing the same token twice should be deterministic")
	}
	if h1 == h3 {
		t.Error("different tokens should not collide")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
	if h1 == "token-a" {
		t.Error("hash must not equal the raw token")
	}
}
