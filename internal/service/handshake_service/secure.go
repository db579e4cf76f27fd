package handshake_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/repository/session_store"
	"github.com/sirupsen/logrus"
)

// Authenticate — первая половина Phase 2: расшифровывает Layer-1 токен из
// заголовка, находит сессию, проверяет срок жизни и header-nonce.
func (s *service) Authenticate(ctx context.Context, xAuth string) (domain.DeviceSession, error) {
	const op = "location internal.service.handshake_service.Authenticate"

	auth, err := s.crypto.DecryptFirst(xAuth)
	if err != nil {
		return domain.DeviceSession{}, ErrInvalidAuth
	}

	apiAuthToken := stringField(auth, "apiAuthToken", "token")
	if apiAuthToken == "" {
		return domain.DeviceSession{}, ErrInvalidAuth
	}

	if err := validateTimestamp(auth["timestamp"]); err != nil {
		return domain.DeviceSession{}, err
	}

	session, err := s.sessions.FindByToken(ctx, apiAuthToken)
	if err != nil {
		if errors.Is(err, session_store.ErrSessionNotFound) {
			return domain.DeviceSession{}, ErrInvalidSession
		}
		logrus.Errorf("%s: %v", op, err)
		return domain.DeviceSession{}, err
	}

	if session.Expired(time.Now()) {
		return domain.DeviceSession{}, ErrSessionExpired
	}

	// header-nonce — отдельный replay-трек, не связанный с nonce в теле
	if nonce, ok := nonceField(auth); ok {
		if err := s.swapNonce(ctx, s.sessions.SwapHeaderNonce, apiAuthToken, nonce); err != nil {
			return domain.DeviceSession{}, err
		}
	}

	return session, nil
}

// DecryptBody — вторая половина Phase 2: снимает Layer-2 с тела, проверяет
// свежесть и body-nonce, возвращает открытый JSON для бизнес-хендлера.
func (s *service) DecryptBody(ctx context.Context, session domain.DeviceSession, payloadB64 string) (map[string]any, error) {
	const op = "location internal.service.handshake_service.DecryptBody"

	aes2Key, aes2Iv, xor3Key, err := session.Keys()
	if err != nil {
		logrus.Errorf("%s: corrupt session key material: %v", op, err)
		return nil, ErrInvalidPayload
	}

	body, err := s.crypto.DecryptSecond(payloadB64, aes2Key, aes2Iv, xor3Key)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	if err := validateTimestamp(body["timestamp"]); err != nil {
		return nil, err
	}

	if nonce, ok := nonceField(body); ok {
		if err := s.swapNonce(ctx, s.sessions.SwapBodyNonce, session.ApiAuthToken, nonce); err != nil {
			return nil, err
		}
	}

	return body, nil
}

// EncryptResponse запечатывает ответ хендлера теми же сессионными ключами.
func (s *service) EncryptResponse(session domain.DeviceSession, result any) (dto.Envelope, error) {
	aes2Key, aes2Iv, xor3Key, err := session.Keys()
	if err != nil {
		return dto.Envelope{}, ErrInvalidPayload
	}

	ts := nowMillis()
	data, err := s.crypto.EncryptSecond(dto.Envelope{OK: true, Data: result, Timestamp: ts}, aes2Key, aes2Iv, xor3Key)
	if err != nil {
		return dto.Envelope{}, err
	}
	return dto.Envelope{OK: true, Data: data, Timestamp: ts}, nil
}

// nonceField достаёт nonce из расшифрованного JSON. Пустые значения (null,
// "", 0, false) считаются отсутствием nonce: клиент без nonce не расходует
// replay-трек.
func nonceField(m map[string]any) (string, bool) {
	v, ok := m["nonce"]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		if t == 0 {
			return "", false
		}
	case bool:
		if !t {
			return "", false
		}
	}
	return fmt.Sprintf("%v", v), true
}

func (s *service) swapNonce(ctx context.Context, swap func(context.Context, string, string) error, apiAuthToken, nonce string) error {
	const op = "location internal.service.handshake_service.swapNonce"

	err := swap(ctx, apiAuthToken, nonce)
	if err == nil {
		return nil
	}
	if errors.Is(err, session_store.ErrNonceReused) {
		return ErrReplayDetected
	}
	logrus.Errorf("%s: %v", op, err)
	return err
}
