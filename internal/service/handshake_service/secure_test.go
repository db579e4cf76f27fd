package handshake_service_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/service/handshake_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSession кладёт в фейковое хранилище готовую сессию с валидным ключевым
// материалом и возвращает её.
func seedSession(t *testing.T, store *fakeSessionStore, expiresAt time.Time) domain.DeviceSession {
	t.Helper()

	aes2Key, aes2Iv, xor3Key := sessionMaterial(t)
	session := &domain.DeviceSession{
		DeviceID:     "abc123",
		ApiAuthToken: uuid.NewString(),
		Aes2KeyB64:   base64.StdEncoding.EncodeToString(aes2Key),
		Aes2IvB64:    base64.StdEncoding.EncodeToString(aes2Iv),
		Xor3KeyB64:   base64.StdEncoding.EncodeToString(xor3Key),
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, store.Create(context.Background(), session))
	return *session
}

func authHeader(t *testing.T, crypto *handshake_service.Crypto, token map[string]any) string {
	t.Helper()

	header, err := crypto.EncryptFirst(token)
	require.NoError(t, err)
	return header
}

func TestAuthenticate_Success(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	header := authHeader(t, crypto, map[string]any{
		"apiAuthToken": seeded.ApiAuthToken,
		"timestamp":    time.Now().UnixMilli(),
		"nonce":        "n1",
	})

	session, err := svc.Authenticate(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, seeded.ApiAuthToken, session.ApiAuthToken)
	assert.Equal(t, "abc123", session.DeviceID)
}

func TestAuthenticate_GarbageHeader(t *testing.T) {
	crypto := testCrypto(t)
	svc := handshake_service.NewService(crypto, newFakeSessionStore())

	_, err := svc.Authenticate(context.Background(), "мусор вместо токена")
	assert.ErrorIs(t, err, handshake_service.ErrInvalidAuth)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	crypto := testCrypto(t)
	svc := handshake_service.NewService(crypto, newFakeSessionStore())

	header := authHeader(t, crypto, map[string]any{"timestamp": time.Now().UnixMilli()})
	_, err := svc.Authenticate(context.Background(), header)
	assert.ErrorIs(t, err, handshake_service.ErrInvalidAuth)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	crypto := testCrypto(t)
	svc := handshake_service.NewService(crypto, newFakeSessionStore())

	header := authHeader(t, crypto, map[string]any{
		"apiAuthToken": uuid.NewString(),
		"timestamp":    time.Now().UnixMilli(),
	})
	_, err := svc.Authenticate(context.Background(), header)
	assert.ErrorIs(t, err, handshake_service.ErrInvalidSession)
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(-time.Minute))

	header := authHeader(t, crypto, map[string]any{
		"apiAuthToken": seeded.ApiAuthToken,
		"timestamp":    time.Now().UnixMilli(),
	})
	_, err := svc.Authenticate(context.Background(), header)
	assert.ErrorIs(t, err, handshake_service.ErrSessionExpired)
}

func TestAuthenticate_StaleTimestamp(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	header := authHeader(t, crypto, map[string]any{
		"apiAuthToken": seeded.ApiAuthToken,
		"timestamp":    time.Now().Add(-10 * time.Second).UnixMilli(),
	})
	_, err := svc.Authenticate(context.Background(), header)
	assert.ErrorIs(t, err, handshake_service.ErrStaleTimestamp)
}

func TestAuthenticate_HeaderNonceReplay(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	makeHeader := func() string {
		return authHeader(t, crypto, map[string]any{
			"apiAuthToken": seeded.ApiAuthToken,
			"timestamp":    time.Now().UnixMilli(),
			"nonce":        "n1",
		})
	}

	_, err := svc.Authenticate(context.Background(), makeHeader())
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), makeHeader())
	assert.ErrorIs(t, err, handshake_service.ErrReplayDetected)
}

func TestAuthenticate_NoNonceIsAllowed(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	// nonce в заголовке опционален: без него replay-трек не трогается
	for i := 0; i < 2; i++ {
		header := authHeader(t, crypto, map[string]any{
			"apiAuthToken": seeded.ApiAuthToken,
			"timestamp":    time.Now().UnixMilli(),
		})
		_, err := svc.Authenticate(context.Background(), header)
		require.NoError(t, err)
	}
}

func TestAuthenticate_EmptyNonceSkipsReplayTrack(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	// пустые значения nonce ("", 0, false) равносильны его отсутствию:
	// replay-трек не расходуется и повторные запросы проходят
	for _, nonce := range []any{"", float64(0), false} {
		for i := 0; i < 2; i++ {
			header := authHeader(t, crypto, map[string]any{
				"apiAuthToken": seeded.ApiAuthToken,
				"timestamp":    time.Now().UnixMilli(),
				"nonce":        nonce,
			})
			_, err := svc.Authenticate(context.Background(), header)
			require.NoError(t, err)
		}
	}

	// трек остался нетронутым, настоящий nonce работает как первый
	header := authHeader(t, crypto, map[string]any{
		"apiAuthToken": seeded.ApiAuthToken,
		"timestamp":    time.Now().UnixMilli(),
		"nonce":        "n1",
	})
	_, err := svc.Authenticate(context.Background(), header)
	require.NoError(t, err)
	assert.False(t, store.sessions[seeded.ApiAuthToken].LastBodyNonce.Valid)
	assert.Equal(t, "n1", store.sessions[seeded.ApiAuthToken].LastNonce.String)
}

func TestDecryptBody_EmptyNonceSkipsReplayTrack(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	aes2Key, aes2Iv, xor3Key, err := seeded.Keys()
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		payload, perr := crypto.EncryptSecond(map[string]any{
			"timestamp": time.Now().UnixMilli(),
			"nonce":     "",
		}, aes2Key, aes2Iv, xor3Key)
		require.NoError(t, perr)

		_, err = svc.DecryptBody(context.Background(), seeded, payload)
		require.NoError(t, err)
	}

	assert.False(t, store.sessions[seeded.ApiAuthToken].LastBodyNonce.Valid)
}

func TestDecryptBody_Success(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	aes2Key, aes2Iv, xor3Key, err := seeded.Keys()
	require.NoError(t, err)

	payload, err := crypto.EncryptSecond(map[string]any{
		"message":   "echo me",
		"timestamp": time.Now().UnixMilli(),
		"nonce":     "b1",
	}, aes2Key, aes2Iv, xor3Key)
	require.NoError(t, err)

	body, err := svc.DecryptBody(context.Background(), seeded, payload)
	require.NoError(t, err)
	assert.Equal(t, "echo me", body["message"])
}

func TestDecryptBody_BodyNonceReplay(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	aes2Key, aes2Iv, xor3Key, err := seeded.Keys()
	require.NoError(t, err)

	makePayload := func() string {
		payload, perr := crypto.EncryptSecond(map[string]any{
			"timestamp": time.Now().UnixMilli(),
			"nonce":     "b1",
		}, aes2Key, aes2Iv, xor3Key)
		require.NoError(t, perr)
		return payload
	}

	_, err = svc.DecryptBody(context.Background(), seeded, makePayload())
	require.NoError(t, err)

	_, err = svc.DecryptBody(context.Background(), seeded, makePayload())
	assert.ErrorIs(t, err, handshake_service.ErrReplayDetected)
}

func TestNonceTracks_AreIndependent(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	// одно и то же значение nonce в заголовке и в теле - не replay:
	// у каждого трека своя история
	header := authHeader(t, crypto, map[string]any{
		"apiAuthToken": seeded.ApiAuthToken,
		"timestamp":    time.Now().UnixMilli(),
		"nonce":        "same",
	})
	_, err := svc.Authenticate(context.Background(), header)
	require.NoError(t, err)

	aes2Key, aes2Iv, xor3Key, err := seeded.Keys()
	require.NoError(t, err)
	payload, err := crypto.EncryptSecond(map[string]any{
		"timestamp": time.Now().UnixMilli(),
		"nonce":     "same",
	}, aes2Key, aes2Iv, xor3Key)
	require.NoError(t, err)

	_, err = svc.DecryptBody(context.Background(), seeded, payload)
	require.NoError(t, err)
}

func TestDecryptBody_WrongSession(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	first := seedSession(t, store, time.Now().Add(time.Hour))
	second := seedSession(t, store, time.Now().Add(time.Hour))

	aes2Key, aes2Iv, xor3Key, err := first.Keys()
	require.NoError(t, err)
	payload, err := crypto.EncryptSecond(map[string]any{
		"timestamp": time.Now().UnixMilli(),
	}, aes2Key, aes2Iv, xor3Key)
	require.NoError(t, err)

	// тело, запечатанное ключами одной сессии, не читается ключами другой
	_, err = svc.DecryptBody(context.Background(), second, payload)
	assert.ErrorIs(t, err, handshake_service.ErrInvalidPayload)
}

func TestEncryptResponse_RoundTrip(t *testing.T) {
	crypto := testCrypto(t)
	store := newFakeSessionStore()
	svc := handshake_service.NewService(crypto, store)
	seeded := seedSession(t, store, time.Now().Add(time.Hour))

	env, err := svc.EncryptResponse(seeded, map[string]any{"message": "pong"})
	require.NoError(t, err)
	assert.True(t, env.OK)

	data, ok := env.Data.(string)
	require.True(t, ok)

	aes2Key, aes2Iv, xor3Key, err := seeded.Keys()
	require.NoError(t, err)
	inner, err := crypto.DecryptSecond(data, aes2Key, aes2Iv, xor3Key)
	require.NoError(t, err)

	assert.Equal(t, true, inner["ok"])
	payload, ok := inner["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pong", payload["message"])
}
