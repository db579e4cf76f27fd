package connection_store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/silsin/VPN-Backend/internal/domain"
)

var ErrConnectionNotFound = errors.New("connection not found")

type postgresConnectionStore struct {
	db *sql.DB
}

func NewPostgresConnectionStore(db *sql.DB) *postgresConnectionStore {
	return &postgresConnectionStore{db: db}
}

// Connect создаёт запись подключения и в той же транзакции инкрементирует
// счётчик нагрузки сервера в каталоге.
func (p *postgresConnectionStore) Connect(ctx context.Context, deviceID, serverID, clientIP string) (domain.Connection, error) {
	const op = "storage.connection_store.Connect"

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("location %s: %w", op, err)
	}
	defer tx.Rollback()

	var conn domain.Connection
	err = tx.QueryRowContext(ctx, `
        INSERT INTO connections (device_id, server_id, client_ip, status)
        VALUES ($1, $2, $3, 'connected')
        RETURNING id, device_id, server_id, client_ip, status, connected_at
    `, deviceID, serverID, clientIP).Scan(
		&conn.ID, &conn.DeviceID, &conn.ServerID, &conn.ClientIP, &conn.Status, &conn.ConnectedAt,
	)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("location %s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE vpn_servers
        SET current_connections = current_connections + 1, updated_at = NOW()
        WHERE id = $1
    `, serverID)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("location %s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Connection{}, fmt.Errorf("location %s: %w", op, err)
	}

	return conn, nil
}

// Disconnect закрывает подключение. deviceID обязателен: чужую запись
// закрыть нельзя.
func (p *postgresConnectionStore) Disconnect(ctx context.Context, connectionID, deviceID string) error {
	const op = "storage.connection_store.Disconnect"

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}
	defer tx.Rollback()

	var serverID string
	err = tx.QueryRowContext(ctx, `
        UPDATE connections
        SET status = 'disconnected', disconnected_at = NOW()
        WHERE id = $1 AND device_id = $2 AND status = 'connected'
        RETURNING server_id
    `, connectionID, deviceID).Scan(&serverID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("location %s: %w", op, ErrConnectionNotFound)
	} else if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE vpn_servers
        SET current_connections = GREATEST(current_connections - 1, 0), updated_at = NOW()
        WHERE id = $1
    `, serverID)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	return tx.Commit()
}
