package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestJWTFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")

	in := Claims{
		UserID:     uuid.New().String(),
		Email:      "test@example.com",
		Role:       RoleKitchen,
		SchoolCode: "SCH-17",
	}

	token, err := GenerateToken(in)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	out, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if out != in {
		t.Fatalf("Expected claims %+v, got %+v", in, out)
	}
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first")
	token, err := GenerateToken(Claims{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "second")
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	if _, err := GenerateToken(Claims{}); err == nil {
		t.Fatal("expected error for empty userID")
	}
}
