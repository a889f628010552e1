package auth

import (
	"fmt"
	"time"

	"github.com/companyportal/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:             secret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

func (tm *TokenManager) generateToken(tokenType, userID, email string, expiry time.Duration) (string, error) {
	claims := &models.TokenClaims{
		Type:   tokenType,
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// GenerateAccessToken creates a short-lived access token with JTI
func (tm *TokenManager) GenerateAccessToken(userID, email string) (string, error) {
	return tm.generateToken(models.TokenTypeAccess, userID, email, tm.accessTokenExpiry)
}

// GenerateRefreshToken creates a long-lived refresh token with JTI
func (tm *TokenManager) GenerateRefreshToken(userID, email string) (string, error) {
	return tm.generateToken(models.TokenTypeRefresh, userID, email, tm.refreshTokenExpiry)
}

// GenerateTokenPair issues the access/refresh pair for a session
func (tm *TokenManager) GenerateTokenPair(userID, email string) (*models.TokenPair, error) {
	accessToken, err := tm.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tm.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateToken verifies a token and returns its claims
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	// Validate token type
	if claims.Type == "" {
		return nil, fmt.Errorf("invalid token: missing type")
	}

	return claims, nil
}
