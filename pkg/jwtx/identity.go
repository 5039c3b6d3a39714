package jwtx

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// IdentityClaims are the profile claims an external identity provider puts
// in its ID token (Google sign-in style).
type IdentityClaims struct {
	jwt.RegisteredClaims

	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// DecodeUnverified extracts the claims of a compact three-part token. Only
// the payload segment is read; the header and signature may be anything.
//
// Nothing is verified: not the signature, issuer, audience or expiry. The
// result is only as trustworthy as whoever handed over the token, so this
// must never sit on a security boundary.
func DecodeUnverified(token string) (IdentityClaims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return IdentityClaims{}, ErrMalformed
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return IdentityClaims{}, errors.Join(ErrMalformed, err)
	}

	var claims IdentityClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return IdentityClaims{}, errors.Join(ErrMalformed, err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return IdentityClaims{}, ErrInvalidClaim
	}

	return claims, nil
}
