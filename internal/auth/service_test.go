package auth

import (
	"context"
	"errors"
	"testing"
)

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo, nil)

	password := "Password@123"

	_, err := service.Register(context.Background(), RegisterInput{
		FullName:   "Test User",
		Email:      "test@example.com",
		Password:   password,
		SchoolCode: "SCH-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := repo.users["test@example.com"]
	if user == nil {
		t.Fatalf("user not found")
	}

	if user.Password == password {
		t.Fatalf("password was stored in plain text")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	service := NewService(NewInMemoryUserRepository(), nil)

	_, err := service.Login(context.Background(), "nobody@example.com", "x")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
