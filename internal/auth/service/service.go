// Package service implements admin authentication. There is a single admin
// account configured through the environment; no user table exists.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"webexpress_backend/platform/apperr"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
)

const invalidCredentialsMessage = "correo o contraseña incorrectos"

// Service issues access tokens for the admin panel.
type Service struct {
	cfg config.AuthConfig
	log *logger.Logger
	now func() time.Time
}

// New creates a new auth service.
func New(cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log, now: time.Now}
}

// TokenResult is an issued access token with its expiry.
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Login verifies the admin credentials and issues an access token. The bcrypt
// comparison runs even for unknown emails to keep timing uniform.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (TokenResult, error) {
	emailAddr = strings.TrimSpace(strings.ToLower(emailAddr))
	hash := s.cfg.GetAdminPasswordHash()

	matches := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	if emailAddr != strings.ToLower(s.cfg.GetAdminEmail()) || !matches {
		s.log.Warn("admin login rejected", "email", emailAddr)
		return TokenResult{}, apperr.Unauthorized(invalidCredentialsMessage)
	}

	expiresAt := s.now().Add(s.cfg.GetAccessTokenTTL())
	claims := jwt.MapClaims{
		"sub":  emailAddr,
		"type": "access",
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return TokenResult{}, apperr.Wrap(apperr.KindInternal, "token signing failed", err)
	}

	s.log.Info("admin logged in", "email", emailAddr)
	return TokenResult{AccessToken: token, ExpiresAt: expiresAt}, nil
}
