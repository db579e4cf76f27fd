package catalog_store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
)

var (
	ErrServerNotFound = errors.New("server not found")
	ErrServerExists   = errors.New("server already exists")
)

const serverColumns = `id, name, hostname, ip_address, port, location, status, protocol,
       current_connections, max_connections, config, created_at, updated_at`

type postgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(db *sql.DB) *postgresCatalogStore {
	return &postgresCatalogStore{db: db}
}

func scanServer(row interface{ Scan(...any) error }) (domain.VpnServer, error) {
	var s domain.VpnServer
	err := row.Scan(
		&s.ID, &s.Name, &s.Hostname, &s.IPAddress, &s.Port, &s.Location, &s.Status,
		&s.Protocol, &s.CurrentConnections, &s.MaxConnections, &s.Config, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (p *postgresCatalogStore) Create(ctx context.Context, s *domain.VpnServer) error {
	const op = "storage.catalog_store.Create"

	query := `
        INSERT INTO vpn_servers (name, hostname, ip_address, port, location, status, protocol, max_connections, config)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `

	err := p.db.QueryRowContext(ctx, query,
		s.Name, s.Hostname, s.IPAddress, s.Port, s.Location, s.Status, s.Protocol, s.MaxConnections, s.Config,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("location %s: %w", op, ErrServerExists)
		}
		return fmt.Errorf("location %s: %w", op, err)
	}

	return nil
}

func (p *postgresCatalogStore) List(ctx context.Context, location string) ([]domain.VpnServer, error) {
	const op = "storage.catalog_store.List"

	query := "SELECT " + serverColumns + " FROM vpn_servers"
	args := []any{}
	if location != "" {
		query += " WHERE location = $1"
		args = append(args, location)
	}
	query += " ORDER BY name"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}
	defer rows.Close()

	return collectServers(rows, op)
}

// FindAvailable отдаёт online-серверы со свободной ёмкостью, наименее
// загруженные первыми.
func (p *postgresCatalogStore) FindAvailable(ctx context.Context) ([]domain.VpnServer, error) {
	const op = "storage.catalog_store.FindAvailable"

	query := "SELECT " + serverColumns + ` FROM vpn_servers
        WHERE status = 'online' AND current_connections < max_connections
        ORDER BY current_connections ASC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}
	defer rows.Close()

	return collectServers(rows, op)
}

func collectServers(rows *sql.Rows, op string) ([]domain.VpnServer, error) {
	servers := []domain.VpnServer{}
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", op, err)
		}
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}
	return servers, nil
}

func (p *postgresCatalogStore) Update(ctx context.Context, id string, upd dto.UpdateServerReq) (domain.VpnServer, error) {
	const op = "storage.catalog_store.Update"

	query := `
        UPDATE vpn_servers
        SET status          = COALESCE($2, status),
            max_connections = COALESCE($3, max_connections),
            config          = COALESCE($4, config),
            updated_at      = NOW()
        WHERE id = $1
        RETURNING ` + serverColumns

	s, err := scanServer(p.db.QueryRowContext(ctx, query, id, upd.Status, upd.MaxConnections, upd.Config))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VpnServer{}, fmt.Errorf("location %s: %w", op, ErrServerNotFound)
	} else if err != nil {
		return domain.VpnServer{}, fmt.Errorf("location %s: %w", op, err)
	}

	return s, nil
}

func (p *postgresCatalogStore) Delete(ctx context.Context, id string) error {
	const op = "storage.catalog_store.Delete"

	res, err := p.db.ExecContext(ctx, "DELETE FROM vpn_servers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location %s: %w", op, ErrServerNotFound)
	}

	return nil
}
