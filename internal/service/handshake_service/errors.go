package handshake_service

import "errors"

// Ошибки протокола. Наружу уходит только класс ошибки (bad request /
// unauthorized), никаких деталей о том, на каком шаге шифрования всё упало.
var (
	ErrInvalidPayload   = errors.New("invalid encrypted payload")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrStaleTimestamp   = errors.New("timestamp expired")
	ErrInvalidAuth      = errors.New("invalid auth")
	ErrInvalidSession   = errors.New("invalid session")
	ErrSessionExpired   = errors.New("session expired")
	ErrReplayDetected   = errors.New("replay detected")
	ErrMissingPayload   = errors.New("missing payload")
)
