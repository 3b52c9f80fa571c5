package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the backend's access-token payload. The edge never issues
// tokens; it only parses them for role-gated route guards.
type Claims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
