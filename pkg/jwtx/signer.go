package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum HMAC secret size in bytes. HS256 secrets
// shorter than the hash output weaken the MAC.
const MinSecretLength = 32

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrWeakSecret  = errors.New("jwtx: secret too short")
)

// Signer signs and verifies HS256 access tokens with a single process-wide
// symmetric secret. It carries no mutable state and is safe for concurrent use.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates an HS256 signer. The secret is injected by the caller
// (loaded from configuration at startup) and must be at least MinSecretLength
// bytes.
func NewSigner(secret []byte, issuer string) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrWeakSecret, len(secret), MinSecretLength)
	}
	return &Signer{secret: secret, issuer: issuer}, nil
}

// Issuer returns the configured issuer claim value.
func (s *Signer) Issuer() string { return s.issuer }

// Sign issues an access token for the given identity with the given lifetime.
func (s *Signer) Sign(username, role string, ttl time.Duration) (string, error) {
	claims := NewAccessClaims(username, role, s.issuer, ttl, time.Now())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates the signature, algorithm, and registered claims (including
// expiry) and returns the claims on success.
func (s *Signer) Verify(token string) (Claims, error) {
	return s.parse(token, false)
}

// ParseExpired validates the signature and algorithm but deliberately accepts
// an expired token. The refresh flow uses it to recover the identity from an
// access token that has already run out.
func (s *Signer) ParseExpired(token string) (Claims, error) {
	return s.parse(token, true)
}

func (s *Signer) parse(token string, ignoreExpiry bool) (Claims, error) {
	var opts []jwt.ParserOption
	if ignoreExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		// Pin the algorithm before handing out the secret. Anything other
		// than HS256 (RS256, none, even HS384) is an alg-confusion attempt.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	return claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
