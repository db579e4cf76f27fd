package session_store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/repository/session_store"
	"github.com/stretchr/testify/assert"
)

func TestCreate_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow("session-id-1", now, now)

	mock.ExpectQuery("INSERT INTO device_sessions").
		WithArgs("abc123", "token-1", "aes2-b64", "iv-b64", "xor3-b64", sqlmock.AnyArg()).
		WillReturnRows(rows)

	s := session_store.NewPostgresSessionStore(db)
	session := &domain.DeviceSession{
		DeviceID:     "abc123",
		ApiAuthToken: "token-1",
		Aes2KeyB64:   "aes2-b64",
		Aes2IvB64:    "iv-b64",
		Xor3KeyB64:   "xor3-b64",
		ExpiresAt:    now.Add(24 * time.Hour),
	}

	err = s.Create(context.Background(), session)
	assert.NoError(t, err)
	assert.Equal(t, "session-id-1", session.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO device_sessions").
		WillReturnError(&pq.Error{Code: "23505"})

	s := session_store.NewPostgresSessionStore(db)
	err = s.Create(context.Background(), &domain.DeviceSession{ApiAuthToken: "token-1"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, session_store.ErrTokenExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByToken_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	cols := []string{
		"id", "device_id", "api_auth_token", "aes2_key_b64", "aes2_iv_b64", "xor3_key_b64",
		"last_nonce", "last_body_nonce", "last_seen_at", "expires_at", "created_at", "updated_at",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		"session-id-1", "abc123", "token-1", "aes2-b64", "iv-b64", "xor3-b64",
		nil, nil, nil, now.Add(24*time.Hour), now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM device_sessions").
		WithArgs("token-1").
		WillReturnRows(rows)

	s := session_store.NewPostgresSessionStore(db)
	session, err := s.FindByToken(context.Background(), "token-1")

	assert.NoError(t, err)
	assert.Equal(t, "abc123", session.DeviceID)
	assert.Equal(t, "token-1", session.ApiAuthToken)
	assert.False(t, session.LastNonce.Valid)
	assert.False(t, session.LastBodyNonce.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByToken_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM device_sessions").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := session_store.NewPostgresSessionStore(db)
	session, err := s.FindByToken(context.Background(), "unknown")

	assert.Error(t, err)
	assert.ErrorIs(t, err, session_store.ErrSessionNotFound)
	assert.Equal(t, domain.DeviceSession{}, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapHeaderNonce_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE device_sessions").
		WithArgs("token-1", "n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := session_store.NewPostgresSessionStore(db)
	err = s.SwapHeaderNonce(context.Background(), "token-1", "n1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapHeaderNonce_Replay(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// CAS не прошёл: nonce совпал с сохранённым, строка не обновилась
	mock.ExpectExec("UPDATE device_sessions").
		WithArgs("token-1", "n1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := session_store.NewPostgresSessionStore(db)
	err = s.SwapHeaderNonce(context.Background(), "token-1", "n1")

	assert.Error(t, err)
	assert.ErrorIs(t, err, session_store.ErrNonceReused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapBodyNonce_Replay(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE device_sessions").
		WithArgs("token-1", "b1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := session_store.NewPostgresSessionStore(db)
	err = s.SwapBodyNonce(context.Background(), "token-1", "b1")

	assert.Error(t, err)
	assert.ErrorIs(t, err, session_store.ErrNonceReused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapNonce_ErrorDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbErr := errors.New("db error")
	mock.ExpectExec("UPDATE device_sessions").
		WithArgs("token-1", "n1").
		WillReturnError(dbErr)

	s := session_store.NewPostgresSessionStore(db)
	err = s.SwapHeaderNonce(context.Background(), "token-1", "n1")

	assert.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
