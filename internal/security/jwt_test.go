package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/room-designer/internal/security"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	token, err := manager.GenerateAccessToken("admin", security.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if token == "" {
		t.Error("access token is empty")
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("failed to validate access token: %v", err)
	}

	if claims.Username != "admin" {
		t.Errorf("username mismatch: got %v, want admin", claims.Username)
	}

	if claims.Role != security.RoleAdmin {
		t.Errorf("role mismatch: got %v, want %v", claims.Role, security.RoleAdmin)
	}

	if claims.ID == "" {
		t.Error("token id is empty")
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	_, err := manager.ValidateAccessToken("invalid-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager1 := security.NewJWTManager("secret-key-1-with-32-characters!", 15*time.Minute)
	manager2 := security.NewJWTManager("secret-key-2-with-32-characters!", 15*time.Minute)

	token, _ := manager1.GenerateAccessToken("admin", security.RoleAdmin)

	_, err := manager2.ValidateAccessToken(token)
	if err == nil {
		t.Error("expected error when validating with wrong secret")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", time.Nanosecond)

	token, err := manager.GenerateAccessToken("admin", security.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTManager_EmptySecret(t *testing.T) {
	manager := security.NewJWTManager("", time.Minute)

	if _, err := manager.GenerateAccessToken("admin", security.RoleAdmin); err == nil {
		t.Error("expected error when secret is empty")
	}
}
