package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenroots/greenroots-backend/config"
)

func newTestService(t *testing.T) *service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("plant-more-trees"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	svc := NewService(&config.Config{
		AdminEmail:        "Admin@GreenRoots.org",
		AdminPasswordHash: string(hash),
		JWTAccessSecret:   "test-secret",
		JWTAccessTTLHours: 1,
	}).(*service)
	return svc
}

func TestLoginAndParseToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Login(LoginInput{Email: " admin@greenroots.org ", Password: "plant-more-trees"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	email, err := svc.ParseToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if email != "admin@greenroots.org" {
		t.Errorf("email = %q", email)
	}
}

func TestLoginRejects(t *testing.T) {
	svc := newTestService(t)
	tests := []struct {
		name string
		in   LoginInput
	}{
		{"wrong password", LoginInput{Email: "admin@greenroots.org", Password: "nope"}},
		{"wrong email", LoginInput{Email: "someone@greenroots.org", Password: "plant-more-trees"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(tt.in); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestLoginDisabledWithoutConfig(t *testing.T) {
	svc := NewService(&config.Config{})
	if _, err := svc.Login(LoginInput{Email: "a@b.c", Password: "x"}); !errors.Is(err, ErrAdminDisabled) {
		t.Errorf("err = %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.Login(LoginInput{Email: "admin@greenroots.org", Password: "plant-more-trees"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ParseToken(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	svc := newTestService(t)
	token, _ := svc.Login(LoginInput{Email: "admin@greenroots.org", Password: "plant-more-trees"})

	other := newTestService(t)
	other.accessSecret = []byte("another-secret")
	if _, err := other.ParseToken(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v", err)
	}
}
