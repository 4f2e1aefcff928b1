package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cafeto/storefront-api/internal/application/checkout"
	"github.com/cafeto/storefront-api/internal/application/dto"
)

var _ checkout.Staging = (*CheckoutStaging)(nil)

// CheckoutStaging escritura transitoria del checkout: último OrderIntent y
// última dirección elegida por usuario, con TTL. Cada checkout sobreescribe
// el anterior.
type CheckoutStaging struct {
	client *redis.Client
}

// NewCheckoutStaging construye el staging de checkout.
func NewCheckoutStaging(client *redis.Client) *CheckoutStaging {
	return &CheckoutStaging{client: client}
}

// StageIntent guarda el OrderIntent del usuario.
func (s *CheckoutStaging) StageIntent(userID string, intent dto.OrderIntent, ttl time.Duration) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal order intent: %w", err)
	}
	if err := s.client.Set(context.Background(), "checkout:intent:"+userID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("stage intent: %w", err)
	}
	return nil
}

// StageAddress guarda la dirección elegida por el usuario.
func (s *CheckoutStaging) StageAddress(userID, addressID string, ttl time.Duration) error {
	if err := s.client.Set(context.Background(), "checkout:address:"+userID, addressID, ttl).Err(); err != nil {
		return fmt.Errorf("stage address: %w", err)
	}
	return nil
}
