// Package token inspects bearer tokens for liveness.
//
// The inspection is claims-only: the signature is never verified here because
// verification belongs to the token's issuer. A positive answer is a liveness
// heuristic, not a trust decision.
package token

import (
	"time"

	"github.com/go-playground/errors/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Valid reports whether tok decodes to a claim set whose expiration is still
// in the future. It fails closed: malformed tokens, undecodable claims, and
// tokens without a finite expiration are all reported as invalid.
func Valid(tok string) bool {
	exp, err := ExpiresAt(tok)
	if err != nil {
		return false
	}

	return time.Now().Before(exp)
}

// ExpiresAt returns the expiration claim embedded in tok.
func ExpiresAt(tok string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "jwt.Parser.ParseUnverified()")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "jwt.MapClaims.GetExpirationTime()")
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no expiration claim")
	}

	return exp.Time, nil
}
