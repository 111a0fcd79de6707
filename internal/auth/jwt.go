// Package auth provides token issuance, password hashing, and the HTTP
// middleware that guards the API.
//
// AUTHENTICATION FLOW:
//  1. POST /api/auth/register stores a bcrypt hash of the password
//  2. POST /api/auth/login verifies credentials and issues a signed JWT
//     (subject = user id, 2-day expiry), set as an HttpOnly cookie and
//     returned in the JSON body
//  3. On every other /api request, RequireAuth validates the token and puts
//     the user id in the request context
//
// The token is stateless — the server stores no session data, and logout is
// purely client-side cookie deletion. A token stays verifiable until it
// expires; there is no revocation list. That is an accepted property of this
// design, not an oversight: single-instance deployments rotate the signing
// key on restart anyway (see config.Load).
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// TokenTTL is how long an issued token remains valid. The SPA stores no
// refresh token, so this is the maximum session length before re-login.
// The session cookie's MaxAge matches it.
const TokenTTL = 48 * time.Hour

// TokenService signs and verifies the JWTs used as session tokens.
// HS256 (HMAC-SHA256) — symmetric, one key for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given signing key.
// The key should be at least 32 bytes of randomness in production
// (JWT_SECRET=$(openssl rand -hex 32)).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. Only registered claims are used: the user id
// travels in "sub", and "jti" carries an xid so every token is distinct even
// when two logins happen within the same second.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry.
// Exported for tests that need already-expired or long-lived tokens.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "summaize",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the user id from
// its subject claim.
//
// The jwt library checks signature, expiry, and issuer. Restricting the
// accepted algorithms to HS256 blocks algorithm-confusion attacks (a token
// claiming alg=none or an RSA variant is rejected before verification).
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("summaize"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: token subject is not a user id")
	}

	return userID, nil
}
