package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(expiry time.Duration) *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  expiry,
		BcryptCost: bcrypt.MinCost,
	}
	return NewAuthService(cfg, nil)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := newAuthFixture(time.Hour)

	hash, err := svc.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("password stored in plaintext")
	}
	if err := svc.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("check with correct password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newAuthFixture(time.Hour)
	user := &model.User{ID: uuid.New(), Role: model.RoleTeacher}

	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != model.RoleTeacher {
		t.Fatalf("expected teacher role, got %s", claims.Role)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newAuthFixture(time.Hour)
	verifier := NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}, nil)

	token, err := issuer.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatalf("token signed with another secret must not validate")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newAuthFixture(-time.Minute)

	token, err := svc.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatalf("expired token must not validate")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(time.Hour)
	if _, err := svc.ValidateToken("not-a-jwt"); err == nil {
		t.Fatalf("malformed token must not validate")
	}
}
