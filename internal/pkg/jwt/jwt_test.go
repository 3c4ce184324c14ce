package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Generate(userID, "seller", "active")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != "seller" {
		t.Errorf("role = %q, want seller", claims.Role)
	}
	if claims.AccountStatus != "active" {
		t.Errorf("account status = %q, want active", claims.AccountStatus)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).Generate(uuid.New(), "buyer", "active")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewService("secret-b", time.Hour).Validate(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.Generate(uuid.New(), "buyer", "active")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.Validate(token); err != ErrExpiredToken {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	if _, err := svc.Validate("not.a.token"); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
