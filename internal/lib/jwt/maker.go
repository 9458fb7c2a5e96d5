// Package jwt выпускает и проверяет токены браузерных контекстов.
//
// Учётные записи, сессия и подписки браузерного контекста хранятся в его
// разделе хранилища. Токен подписан секретом сервиса.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора токенов контекста.
type Maker interface {
	GenerateToken(contextID string) (string, error)
	ParseToken(tokenStr string) (*ContextClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

var _ Maker = (*MakerImpl)(nil)

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
