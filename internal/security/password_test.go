package security_test

import (
	"errors"
	"testing"

	"github.com/Rrens/room-designer/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := security.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("expected password to match: %v", err)
	}

	if err := security.CheckPassword(hash, "wrong"); !errors.Is(err, security.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	if err := security.CheckPassword("", "anything"); !errors.Is(err, security.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := security.HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}
