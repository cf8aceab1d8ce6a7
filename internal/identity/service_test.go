package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAssignsIDAndPersists(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Profile{
		Name:        "Alice",
		Surname:     "Dlamini",
		Username:    "alice",
		PhoneNumber: "+27820000001",
		Email:       "alice@example.com",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected a generated user id")
	}

	byName, err := svc.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byName.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, byName.ID)
	}

	byEmail, err := svc.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, byEmail.ID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Profile{Username: "bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name    string
		profile Profile
	}{
		{"duplicate username", Profile{Username: "bob", Email: "other@example.com"}},
		{"duplicate email", Profile{Username: "robert", Email: "bob@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.profile); !errors.Is(err, ErrConflict) {
				t.Fatalf("expected ErrConflict, got %v", err)
			}
		})
	}
}

func TestFindByIDUnknown(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
