package auth

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminDisabled = errors.New("admin api disabled")
	ErrMissingKey    = errors.New("missing admin key")
	ErrInvalidKey    = errors.New("invalid admin key")
	ErrKeyTooShort   = errors.New("admin key must be at least 12 characters")
)

const minAdminKeyLen = 12

// AdminVerifier checks bearer keys against a bcrypt hash. A verifier with no
// hash rejects every request with ErrAdminDisabled.
type AdminVerifier struct {
	hash []byte
}

func NewAdminVerifier(hash string) *AdminVerifier {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return &AdminVerifier{}
	}
	return &AdminVerifier{hash: []byte(hash)}
}

func (v *AdminVerifier) Enabled() bool {
	return v != nil && len(v.hash) > 0
}

// Verify reports whether key matches the configured hash.
func (v *AdminVerifier) Verify(key string) error {
	if !v.Enabled() {
		return ErrAdminDisabled
	}
	if key == "" {
		return ErrMissingKey
	}
	if bcrypt.CompareHashAndPassword(v.hash, []byte(key)) != nil {
		return ErrInvalidKey
	}
	return nil
}

// Authorize verifies the request's bearer key.
func (v *AdminVerifier) Authorize(r *http.Request) error {
	return v.Verify(BearerToken(r.Header.Get("Authorization")))
}

// HashKey returns the bcrypt hash to put in CATALOG_ADMIN_KEY_HASH.
func HashKey(key string) (string, error) {
	if len(key) < minAdminKeyLen {
		return "", ErrKeyTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func BearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}
