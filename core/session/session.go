package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// CookieName is the HTTP-only session cookie set on login.
	CookieName = "drv_session"
	// TTL is the fixed credential lifetime from issuance.
	TTL = 12 * time.Hour
	// RoleDriver is the only role claim issued today.
	RoleDriver = "driver"
)

// ErrUnauthorized is returned for every verification failure: missing,
// malformed, expired or tampered tokens all collapse to it so callers
// learn nothing about which check failed.
var ErrUnauthorized = errors.New("unauthorized")

// Service issues and verifies signed session tokens. Tokens are a
// base64url payload of "role|expiryUnix" with an HMAC-SHA256 signature
// appended, verified against the shared secret and the supplied instant.
type Service struct {
	secret []byte
}

// New builds a Service. An empty secret is a configuration error, never
// a silent insecure default.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &Service{secret: []byte(secret)}, nil
}

// Issue returns a token carrying the role claim, expiring TTL after now.
func (s *Service) Issue(role string, now time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s|%d", role, now.Add(TTL).Unix())))
	return payload + "." + s.sign(payload)
}

// Verify checks the token signature and expiry against now and returns
// the embedded role claim. Any failure yields ErrUnauthorized.
func (s *Service) Verify(token string, now time.Time) (string, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrUnauthorized
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(payload))) {
		return "", ErrUnauthorized
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrUnauthorized
	}
	role, expStr, ok := strings.Cut(string(raw), "|")
	if !ok {
		return "", ErrUnauthorized
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil || !now.Before(time.Unix(exp, 0)) {
		return "", ErrUnauthorized
	}
	return role, nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
