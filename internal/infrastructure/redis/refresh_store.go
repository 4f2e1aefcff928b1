package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cafeto/storefront-api/internal/application/auth"
)

var _ auth.RefreshStore = (*RefreshStore)(nil)

// RefreshStore guarda refresh tokens opacos: clave = token, valor = userID.
// La revocación es un DEL; la expiración la maneja Redis con el TTL.
type RefreshStore struct {
	client *redis.Client
}

// NewRefreshStore construye el almacén de refresh tokens.
func NewRefreshStore(client *redis.Client) *RefreshStore {
	return &RefreshStore{client: client}
}

func refreshKey(token string) string {
	return "auth:refresh:" + token
}

// Save asocia el token al usuario con TTL.
func (s *RefreshStore) Save(token, userID string, ttl time.Duration) error {
	if err := s.client.Set(context.Background(), refreshKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// UserID devuelve el dueño del token, o "" si no existe o fue revocado.
func (s *RefreshStore) UserID(token string) (string, error) {
	userID, err := s.client.Get(context.Background(), refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return userID, nil
}

// Revoke invalida el token.
func (s *RefreshStore) Revoke(token string) error {
	if err := s.client.Del(context.Background(), refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
