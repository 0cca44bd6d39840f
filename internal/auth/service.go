package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenroots/greenroots-backend/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin login is not configured")
	ErrInvalidToken       = errors.New("invalid token")
)

// Token is what a successful login returns.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type LoginInput struct {
	Email    string
	Password string
}

// Service guards the admin endpoints with a single configured admin
// account.
type Service interface {
	Login(input LoginInput) (*Token, error)
	// ParseToken returns the admin email a valid access token was issued to.
	ParseToken(tokenStr string) (string, error)
}

type service struct {
	email        string
	passwordHash []byte
	accessSecret []byte
	accessTTL    time.Duration
	now          func() time.Time
}

func NewService(cfg *config.Config) Service {
	return &service{
		email:        strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.AdminPasswordHash),
		accessSecret: []byte(cfg.JWTAccessSecret),
		accessTTL:    time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		now:          time.Now,
	}
}

// =============================
// Login
// =============================

func (s *service) Login(in LoginInput) (*Token, error) {
	if s.email == "" || len(s.passwordHash) == 0 || len(s.accessSecret) == 0 {
		return nil, ErrAdminDisabled
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	// The hash is always checked so an unknown email costs the same.
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(in.Password)); err != nil || !emailOK {
		return nil, ErrInvalidCredentials
	}

	expires := s.now().Add(s.accessTTL)
	claims := jwt.MapClaims{
		"sub":  s.email,
		"role": "admin",
		"iat":  s.now().Unix(),
		"exp":  expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, ExpiresAt: expires}, nil
}

// =============================
// Token check
// =============================

func (s *service) ParseToken(tokenStr string) (string, error) {
	if len(s.accessSecret) == 0 {
		return "", ErrAdminDisabled
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub != s.email {
		return "", ErrInvalidToken
	}
	return sub, nil
}
