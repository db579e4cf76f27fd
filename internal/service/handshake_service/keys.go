package handshake_service

import (
	"encoding/base64"
	"fmt"

	"github.com/silsin/VPN-Backend/config"
)

// StaticKeys — статический ключевой материал Layer-1, общий на весь процесс.
// Заполняется один раз при старте и больше не меняется.
type StaticKeys struct {
	aes1Key      []byte // 32 байта, AES-256-ECB
	xor1Key      []byte // 32 байта
	xor2Key      []byte // 32 байта
	appAuthToken string // статический секрет приложения для Phase 1
}

func decodeKeyB64(name, raw string, expectedBytes int) ([]byte, error) {
	if raw == "" {
		return nil, fmt.Errorf("missing key %s", name)
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: bad base64: %w", name, err)
	}
	if len(b) != expectedBytes {
		return nil, fmt.Errorf("invalid %s: expected %d bytes (base64), got %d", name, expectedBytes, len(b))
	}
	return b, nil
}

// LoadStaticKeys валидирует и декодирует ключи из конфига.
// Ошибка здесь фатальна: без корректных ключей процесс подниматься не должен.
func LoadStaticKeys(cfg config.HandshakeKeys) (*StaticKeys, error) {
	aes1, err := decodeKeyB64("HANDSHAKE_AES1_KEY_B64", cfg.Aes1KeyB64, 32)
	if err != nil {
		return nil, err
	}
	xor1, err := decodeKeyB64("HANDSHAKE_XOR1_KEY_B64", cfg.Xor1KeyB64, 32)
	if err != nil {
		return nil, err
	}
	xor2, err := decodeKeyB64("HANDSHAKE_XOR2_KEY_B64", cfg.Xor2KeyB64, 32)
	if err != nil {
		return nil, err
	}
	if cfg.AppAuthToken == "" {
		return nil, fmt.Errorf("missing key HANDSHAKE_APP_AUTH_TOKEN")
	}

	return &StaticKeys{
		aes1Key:      aes1,
		xor1Key:      xor1,
		xor2Key:      xor2,
		appAuthToken: cfg.AppAuthToken,
	}, nil
}
