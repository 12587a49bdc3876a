package authn

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestBasic(t *testing.T) {
	if got := Basic("marathon", "s3cret"); got != "Basic bWFyYXRob246czNjcmV0" {
		t.Errorf("Basic = %q", got)
	}
}

func TestHS256SignerRoundTrip(t *testing.T) {
	secret := []byte("shared-secret")
	s, err := NewHS256Signer("svc-scheduler", secret, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	val, err := s.Authorization()
	if err != nil {
		t.Fatal(err)
	}
	raw, ok := strings.CutPrefix(val, "token=")
	if !ok {
		t.Fatalf("value %q lacks token= prefix", val)
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["uid"] != "svc-scheduler" {
		t.Errorf("uid claim = %v", claims["uid"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("missing exp claim")
	}
}

func TestSignerValidation(t *testing.T) {
	if _, err := NewHS256Signer("", []byte("x"), 0); err == nil {
		t.Error("empty uid accepted")
	}
	if _, err := NewHS256Signer("u", nil, 0); err == nil {
		t.Error("empty secret accepted")
	}
	if _, err := NewRS256Signer("u", nil, 0); err == nil {
		t.Error("nil key accepted")
	}
}
