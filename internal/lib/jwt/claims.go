package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "moment-a"

// ContextClaims данные, хранящиеся в токене контекста.
type ContextClaims struct {
	ContextID string `json:"ctx"`
	jwt.RegisteredClaims
}

// GenerateToken создаёт токен для контекста contextID, подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(contextID string) (string, error) {
	const op = "jwt.GenerateToken"
	if contextID == "" {
		return "", fmt.Errorf("%s: empty context id", op)
	}
	now := time.Now()
	claims := ContextClaims{
		ContextID: contextID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken проверяет подпись, срок жизни и издателя токена и возвращает его claims.
func (j *MakerImpl) ParseToken(tokenStr string) (*ContextClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &ContextClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*ContextClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.ContextID == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("token has no context id"))
	}
	return claims, nil
}
