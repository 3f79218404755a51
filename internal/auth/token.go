package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "sheepbooru-catalog"

// TokenService signs and validates session tokens.
//
// The token is an HS256 JWT whose ID claim ("jti") is the server-side
// session ID and whose Subject is the user ID. The signature lets the
// middleware reject garbage cookies without touching the session store;
// the store remains the source of truth, so deleting a session revokes
// the token no matter how long the JWT itself would stay valid.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given HMAC secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Generate signs a token binding sessionID to userID for the given
// lifetime. The lifetime should match the session store's TTL.
func (s *TokenService) Generate(sessionID, userID string, lifetime time.Duration) (string, error) {
	now := time.Now()

	c := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token, returning the session ID and
// user ID it carries. Algorithm and issuer are pinned.
func (s *TokenService) Validate(tokenStr string) (sessionID, userID string, err error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", fmt.Errorf("auth: token expired")
		}
		return "", "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("auth: invalid token claims")
	}
	if c.ID == "" || c.Subject == "" {
		return "", "", fmt.Errorf("auth: token missing session or subject")
	}

	return c.ID, c.Subject, nil
}
