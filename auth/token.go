package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued token stays valid (~30.44 days). Expiry is
// the only invalidation path; there is no revocation.
const TokenTTL = 2629744 * time.Second

// ErrInvalidToken is returned by Parse for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the identity claims embedded in an issued token.
type Claims struct {
	ID       string
	Username string
	Email    string
}

// TokenService issues and verifies HS256-signed bearer tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a time-limited token carrying the given identity claims.
func (s *TokenService) Issue(claims Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       claims.ID,
		"username": claims.Username,
		"email":    claims.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
		"jti":      generateJTI(),
	})
	return token.SignedString(s.secret)
}

// Parse verifies a signed token and extracts its identity claims.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, ok := mapClaims["id"].(string)
	if !ok || id == "" {
		return nil, ErrInvalidToken
	}
	username, _ := mapClaims["username"].(string)
	email, _ := mapClaims["email"].(string)

	return &Claims{ID: id, Username: username, Email: email}, nil
}

// generateJTI creates a unique token ID to make every issued token distinct.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
