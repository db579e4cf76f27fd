package session_store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/silsin/VPN-Backend/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTokenExists     = errors.New("api auth token already exists")
	// ErrNonceReused — CAS-обновление не прошло: присланный nonce совпал с сохранённым
	ErrNonceReused = errors.New("nonce reused")
)

type postgresSessionStore struct {
	db *sql.DB
}

func NewPostgresSessionStore(db *sql.DB) *postgresSessionStore {
	return &postgresSessionStore{db: db}
}

// Create вставляет полностью укомплектованную сессию: все ключевые поля
// записываются одной операцией, частично заполненная сессия в БД не попадает.
func (p *postgresSessionStore) Create(ctx context.Context, s *domain.DeviceSession) error {
	const op = "storage.session_store.Create"

	query := `
        INSERT INTO device_sessions (device_id, api_auth_token, aes2_key_b64, aes2_iv_b64, xor3_key_b64, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `

	err := p.db.QueryRowContext(ctx, query,
		s.DeviceID, s.ApiAuthToken, s.Aes2KeyB64, s.Aes2IvB64, s.Xor3KeyB64, s.ExpiresAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		// уникальность api_auth_token
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("location %s: %w", op, ErrTokenExists)
		}
		return fmt.Errorf("location %s: %w", op, err)
	}

	return nil
}

func (p *postgresSessionStore) FindByToken(ctx context.Context, apiAuthToken string) (domain.DeviceSession, error) {
	const op = "storage.session_store.FindByToken"

	query := `
        SELECT id, device_id, api_auth_token, aes2_key_b64, aes2_iv_b64, xor3_key_b64,
               last_nonce, last_body_nonce, last_seen_at, expires_at, created_at, updated_at
        FROM device_sessions
        WHERE api_auth_token = $1
    `

	var s domain.DeviceSession
	err := p.db.QueryRowContext(ctx, query, apiAuthToken).Scan(
		&s.ID, &s.DeviceID, &s.ApiAuthToken, &s.Aes2KeyB64, &s.Aes2IvB64, &s.Xor3KeyB64,
		&s.LastNonce, &s.LastBodyNonce, &s.LastSeenAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeviceSession{}, fmt.Errorf("location %s: %w", op, ErrSessionNotFound)
	} else if err != nil {
		return domain.DeviceSession{}, fmt.Errorf("location %s: %w", op, err)
	}

	return s, nil
}

// SwapHeaderNonce атомарно заменяет last_nonce: апдейт проходит только если
// новый nonce отличается от сохранённого. Две конкурирующие попытки с одним
// и тем же nonce не могут пройти обе — вторая получает ErrNonceReused.
func (p *postgresSessionStore) SwapHeaderNonce(ctx context.Context, apiAuthToken, nonce string) error {
	const op = "storage.session_store.SwapHeaderNonce"
	return p.swapNonce(ctx, op, "last_nonce", apiAuthToken, nonce)
}

// SwapBodyNonce — то же самое для независимого трека last_body_nonce.
func (p *postgresSessionStore) SwapBodyNonce(ctx context.Context, apiAuthToken, nonce string) error {
	const op = "storage.session_store.SwapBodyNonce"
	return p.swapNonce(ctx, op, "last_body_nonce", apiAuthToken, nonce)
}

func (p *postgresSessionStore) swapNonce(ctx context.Context, op, column, apiAuthToken, nonce string) error {
	query := fmt.Sprintf(`
        UPDATE device_sessions
        SET %s = $2, last_seen_at = NOW(), updated_at = NOW()
        WHERE api_auth_token = $1 AND (%s IS NULL OR %s <> $2)
    `, column, column, column)

	res, err := p.db.ExecContext(ctx, query, apiAuthToken, nonce)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location %s: %w", op, ErrNonceReused)
	}

	return nil
}
