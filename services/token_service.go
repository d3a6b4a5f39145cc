package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/DavCode46/wander-whiskers-server/models"
)

type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// GenerateToken issues a session token with the user's id and username.
func (s *TokenService) GenerateToken(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken parses and validates a session token and returns its claims.
func (s *TokenService) ParseToken(tokenStr string) (jwt.MapClaims, error) {
	return parseHMAC(tokenStr, s.secret)
}

// GenerateResetToken issues a password-reset token signed with the secret
// concatenated with the user's current password hash. Changing the password
// invalidates the token, which makes it single-use.
func (s *TokenService) GenerateResetToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID.Hex(),
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.resetSecret(user))
}

// ParseResetToken validates a password-reset token for the given user.
func (s *TokenService) ParseResetToken(user *models.User, tokenStr string) (jwt.MapClaims, error) {
	return parseHMAC(tokenStr, s.resetSecret(user))
}

func (s *TokenService) resetSecret(user *models.User) []byte {
	return append(append([]byte{}, s.secret...), []byte(user.Password)...)
}

func parseHMAC(tokenStr string, key []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
