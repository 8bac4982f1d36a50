package auth

import (
	"net/http"
	"testing"
	"time"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.Generate("u1", "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("subject = %q, want u1", claims.Subject)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want alice", claims.Username)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.Generate("u1", "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := mgr.Verify(token); err == nil {
		t.Error("expired token verified successfully")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate("u1", "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("token signed with another secret verified successfully")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")

	token, err := ExtractTokenFromHeader(r)
	if err != nil {
		t.Fatalf("ExtractTokenFromHeader: %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want abc123", token)
	}

	r.Header.Set("Authorization", "abc123")
	if _, err := ExtractTokenFromHeader(r); err == nil {
		t.Error("malformed header accepted")
	}
}
