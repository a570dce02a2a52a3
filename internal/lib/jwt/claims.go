// Package jwt выпускает и проверяет подписанные токены ссылок на примерку.
//
// Токен содержит идентификатор товара и, если задан TTL, срок действия. Подпись HS256
// позволяет отбросить подделанную ссылку ещё до обращения к базе.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для повреждённого, чужого или просроченного токена.
var ErrInvalidToken = errors.New("invalid try-on link token")

// Maker описывает интерфейс для выпуска и разбора токенов ссылок на примерку.
type Maker interface {
	GenerateToken(productID string) (string, error)
	ParseToken(tokenStr string) (*LinkClaims, error)
}

// LinkClaims данные, хранящиеся в токене ссылки.
type LinkClaims struct {
	ProductID string `json:"pid"`
	jwt.RegisteredClaims
}

// MakerImpl реализует Maker с использованием секретного ключа и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration // 0: бессрочная ссылка
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
