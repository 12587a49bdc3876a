// Package authn builds Authorization header values for callers constructing
// outbound subscribe requests. Nothing here touches the streaming core; the
// helpers exist so GenRequest implementations do not hand-roll credentials.
package authn

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Basic returns an HTTP Basic Authorization header value for the given
// principal and secret.
func Basic(principal, secret string) string {
	cred := base64.StdEncoding.EncodeToString([]byte(principal + ":" + secret))
	return "Basic " + cred
}

// TokenSigner mints DC/OS-style "token=<jwt>" Authorization values: a JWT
// with a uid claim and an expiry, signed with a shared secret (HS256) or a
// service account private key (RS256).
type TokenSigner struct {
	uid    string
	method jwt.SigningMethod
	key    any
	ttl    time.Duration
}

// NewHS256Signer signs tokens for uid with a shared secret.
func NewHS256Signer(uid string, secret []byte, ttl time.Duration) (*TokenSigner, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("secret is required")
	}
	return &TokenSigner{uid: uid, method: jwt.SigningMethodHS256, key: secret, ttl: ttl}, nil
}

// NewRS256Signer signs tokens for uid with a service account private key.
func NewRS256Signer(uid string, key *rsa.PrivateKey, ttl time.Duration) (*TokenSigner, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	if key == nil {
		return nil, errors.New("private key is required")
	}
	return &TokenSigner{uid: uid, method: jwt.SigningMethodRS256, key: key, ttl: ttl}, nil
}

// Authorization mints a fresh token and returns the full header value.
func (s *TokenSigner) Authorization() (string, error) {
	ttl := s.ttl
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := time.Now()
	tok := jwt.NewWithClaims(s.method, jwt.MapClaims{
		"uid": s.uid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return "token=" + signed, nil
}
