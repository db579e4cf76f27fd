package domain

import (
	"database/sql"
	"encoding/base64"
	"time"
)

// DeviceSession — сессия устройства, создаётся при успешном Phase-1 handshake.
// Ключевой материал (aes2Key/aes2Iv/xor3Key) хранится в base64 и живёт ровно
// столько, сколько сама запись: 24 часа от момента создания, без продления.
type DeviceSession struct {
	ID            string
	DeviceID      string
	ApiAuthToken  string
	Aes2KeyB64    string
	Aes2IvB64     string
	Xor3KeyB64    string
	LastNonce     sql.NullString
	LastBodyNonce sql.NullString
	LastSeenAt    sql.NullTime
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Keys декодирует сессионный ключевой материал из base64.
func (s *DeviceSession) Keys() (aes2Key, aes2Iv, xor3Key []byte, err error) {
	aes2Key, err = base64.StdEncoding.DecodeString(s.Aes2KeyB64)
	if err != nil {
		return nil, nil, nil, err
	}
	aes2Iv, err = base64.StdEncoding.DecodeString(s.Aes2IvB64)
	if err != nil {
		return nil, nil, nil, err
	}
	xor3Key, err = base64.StdEncoding.DecodeString(s.Xor3KeyB64)
	if err != nil {
		return nil, nil, nil, err
	}
	return aes2Key, aes2Iv, xor3Key, nil
}

// Expired сообщает, истекла ли сессия на момент now.
func (s *DeviceSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
