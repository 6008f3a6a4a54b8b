package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"devconnect/errs"
)

const (
	// TokenTypeAccess marks short-lived tokens used to authenticate api requests.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived tokens that can only be exchanged
	// for a new pair, never used to authenticate a request directly.
	TokenTypeRefresh = "refresh"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the jwt claims carried by both token types.
type Claims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the response body of token issuing endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenManager issues and verifies jwt access/refresh token pairs.
type TokenManager struct {
	secret []byte
}

// NewTokenManager returns a TokenManager signing with the given secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
	}
}

// NewPair issues a fresh access/refresh token pair for the given user.
func (tm *TokenManager) NewPair(userID int) (*TokenPair, error) {
	access, err := tm.sign(userID, TokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := tm.sign(userID, TokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Parse verifies a token string and returns its claims. The caller decides
// which token type it will accept.
func (tm *TokenManager) Parse(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Unexpected token signing method.")
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired token.")
	}
	return &claims, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (tm *TokenManager) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := tm.Parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Token is not a refresh token.")
	}
	return tm.NewPair(claims.UserID)
}

// sign builds and signs a single token of the given type.
func (tm *TokenManager) sign(userID int, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}
