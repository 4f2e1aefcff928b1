package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cafeto/storefront-api/internal/application/auth"
)

var _ auth.OTPStore = (*OTPStore)(nil)

// OTPStore guarda el código de verificación y el registro pendiente bajo una
// misma clave con TTL: si el código expira, el registro pendiente cae con él.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore construye el almacén de códigos OTP.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

type otpRecord struct {
	Code string                   `json:"code"`
	Reg  auth.PendingRegistration `json:"reg"`
}

func otpKey(email string) string {
	return "auth:otp:" + email
}

// SavePending guarda código + registro pendiente con TTL; sobreescribe el
// código anterior si el usuario pide reenvío.
func (s *OTPStore) SavePending(email, code string, reg auth.PendingRegistration, ttl time.Duration) error {
	payload, err := json.Marshal(otpRecord{Code: code, Reg: reg})
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	if err := s.client.Set(context.Background(), otpKey(email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// GetPending devuelve el código vigente y el registro, o nil si expiró.
func (s *OTPStore) GetPending(email string) (string, *auth.PendingRegistration, error) {
	raw, err := s.client.Get(context.Background(), otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("get otp: %w", err)
	}
	var rec otpRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", nil, fmt.Errorf("unmarshal otp record: %w", err)
	}
	return rec.Code, &rec.Reg, nil
}

// DeletePending borra el código (tras una verificación exitosa).
func (s *OTPStore) DeletePending(email string) error {
	if err := s.client.Del(context.Background(), otpKey(email)).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
