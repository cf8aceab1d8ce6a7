package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safepay-connect/safepay/internal/config"
	"github.com/safepay-connect/safepay/internal/identity"
)

func testService(t *testing.T) (*Service, identity.User) {
	t.Helper()
	cfg := config.Config{TokenSecret: "test-secret", TokenTTL: time.Hour}
	ids := identity.NewMemoryRepository()
	svc := NewService(cfg, ids, NewMemoryRepository())

	ctx := context.Background()
	user, err := identity.NewService(ids).Register(ctx, identity.Profile{
		Username: "alice", Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SetPassword(ctx, user.ID, "correct horse"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	return svc, user
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, user := testService(t)

	got, token, err := svc.Login(context.Background(), "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}

	sub, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, sub)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := testService(t)
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := testService(t)
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected identity.ErrNotFound, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := testService(t)
	_, token, err := svc.Login(context.Background(), "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Verify(token + "x"); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}
