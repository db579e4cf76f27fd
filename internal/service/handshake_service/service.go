package handshake_service

import (
	"context"
	"math"
	"time"

	"github.com/silsin/VPN-Backend/internal/domain"
)

// окно свежести timestamp для обеих фаз
const timestampWindow = 5000 * time.Millisecond

// время жизни сессии, фиксируется при создании, без скользящего продления
const sessionTTL = 24 * time.Hour

// SessionStore — хранилище сессий устройств.
// Swap*-методы обязаны быть атомарными (compare-and-swap на уровне БД):
// обновление проходит только если новый nonce отличается от сохранённого,
// иначе это replay.
type SessionStore interface {
	Create(ctx context.Context, session *domain.DeviceSession) error
	FindByToken(ctx context.Context, apiAuthToken string) (domain.DeviceSession, error)
	SwapHeaderNonce(ctx context.Context, apiAuthToken, nonce string) error
	SwapBodyNonce(ctx context.Context, apiAuthToken, nonce string) error
}

type service struct {
	crypto   *Crypto
	sessions SessionStore
}

func NewService(crypto *Crypto, sessions SessionStore) *service {
	return &service{
		crypto:   crypto,
		sessions: sessions,
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// validateTimestamp проверяет, что значение из расшифрованного JSON — конечное
// число в пределах ±5с от серверного времени. Тип проверяется динамически:
// клиент присылает произвольный JSON.
func validateTimestamp(v any) error {
	ts, ok := v.(float64)
	if !ok || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return ErrInvalidTimestamp
	}
	diff := float64(nowMillis()) - ts
	if math.Abs(diff) > float64(timestampWindow.Milliseconds()) {
		return ErrStaleTimestamp
	}
	return nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
