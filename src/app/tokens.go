package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and verifies the two bearer token kinds. Access
// tokens expire after the configured TTL; refresh tokens carry no expiry
// and stay valid while present in the user's stored set.
type TokenService struct {
	secret        []byte
	refreshSecret []byte
	expiration    time.Duration
}

func NewTokenService(secret, refreshSecret string, expiration time.Duration) *TokenService {
	return &TokenService{
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		expiration:    expiration,
	}
}

// IssueTokens signs a fresh access/refresh pair for the user id.
func (s *TokenService) IssueTokens(userID string) (accessToken, refreshToken string, err error) {
	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	})
	accessToken, err = access.SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	// a random id keeps tokens minted within the same second distinct,
	// otherwise revoking one would revoke its twins
	tokenID, err := randomID()
	if err != nil {
		return "", "", fmt.Errorf("generate token id: %w", err)
	}
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:       tokenID,
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	})
	refreshToken, err = refresh.SignedString(s.refreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// ParseAccess returns the subject user id of a valid access token.
// Expired tokens fail with an error matching jwt.ErrTokenExpired.
func (s *TokenService) ParseAccess(token string) (string, error) {
	return s.parse(token, s.secret)
}

// ParseRefresh returns the subject user id of a valid refresh token.
func (s *TokenService) ParseRefresh(token string) (string, error) {
	return s.parse(token, s.refreshSecret)
}

func (s *TokenService) parse(token string, secret []byte) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func randomID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsExpired reports whether a parse failure was caused by token expiry,
// which callers map to a different status than other verification errors.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
