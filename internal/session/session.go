// Package session хранит серверные сессии в Redis. Токен сессии непрозрачен и попадает
// к клиенту только в cookie, срок жизни абсолютный и задаётся TTL ключа.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "session:"
	tokenBytes = 32
)

// ErrNotFound сессии нет, она истекла или удалена.
var ErrNotFound = errors.New("session not found")

// Session запись в хранилище.
type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store сессии в Redis с TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewStore создаёт хранилище сессий с абсолютным сроком жизни ttl.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl, now: time.Now}
}

// TTL срок жизни сессии.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func key(token string) string {
	return keyPrefix + token
}

// NewToken возвращает 32 случайных байта в base64url.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create заводит сессию для userID и возвращает её токен.
func (s *Store) Create(ctx context.Context, userID string) (string, *Session, error) {
	const op = "session.Create"

	token, err := NewToken()
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now().UTC()
	sess := &Session{UserID: userID, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}

	raw, err := json.Marshal(sess)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	ok, err := s.client.SetNX(ctx, key(token), raw, s.ttl).Result()
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", nil, fmt.Errorf("%s: token collision", op)
	}
	return token, sess, nil
}

// Get возвращает сессию по токену или ErrNotFound.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	const op = "session.Get"

	if token == "" {
		return nil, ErrNotFound
	}
	raw, err := s.client.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Delete удаляет сессию. Удаление отсутствующей сессии не ошибка.
func (s *Store) Delete(ctx context.Context, token string) error {
	const op = "session.Delete"

	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
