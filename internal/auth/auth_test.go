package auth_test

import (
	"testing"
	"time"

	"github.com/memodeck/backend/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewService("test-secret-test-secret", time.Hour)

	token, err := svc.IssueToken("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-42" {
		t.Errorf("expected user-42, got %s", userID)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := auth.NewService("test-secret-test-secret", time.Hour)

	if _, err := svc.VerifyToken("not.a.token"); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := auth.NewService("secret-one-secret-one", time.Hour)
	verifier := auth.NewService("secret-two-secret-two", time.Hour)

	token, err := issuer.IssueToken("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	svc := auth.NewService("test-secret-test-secret", -time.Minute)

	token, err := svc.IssueToken("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.VerifyToken(token); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for an expired token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	svc := auth.NewService("test-secret-test-secret", time.Hour)

	hash, err := svc.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Error("hash must not equal the plain password")
	}

	if !svc.CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if svc.CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
