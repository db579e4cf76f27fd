package ad_store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/silsin/VPN-Backend/internal/domain"
)

type postgresAdStore struct {
	db *sql.DB
}

func NewPostgresAdStore(db *sql.DB) *postgresAdStore {
	return &postgresAdStore{db: db}
}

func (p *postgresAdStore) CreateAd(ctx context.Context, a *domain.Ad) error {
	const op = "storage.ad_store.CreateAd"

	err := p.db.QueryRowContext(ctx, `
        INSERT INTO ads (title, type, status, ad_unit_id, ad_network, image_url, target_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `, a.Title, a.Type, a.Status, a.AdUnitID, a.AdNetwork, a.ImageURL, a.TargetURL).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	return nil
}

func (p *postgresAdStore) FindActive(ctx context.Context, adType string) ([]domain.Ad, error) {
	const op = "storage.ad_store.FindActive"

	query := `
        SELECT id, title, type, status, ad_unit_id, ad_network, image_url, target_url, created_at, updated_at
        FROM ads
        WHERE status = 'active'
    `
	args := []any{}
	if adType != "" {
		query += " AND type = $1"
		args = append(args, adType)
	}
	query += " ORDER BY created_at DESC"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}
	defer rows.Close()

	ads := []domain.Ad{}
	for rows.Next() {
		var a domain.Ad
		if err := rows.Scan(&a.ID, &a.Title, &a.Type, &a.Status, &a.AdUnitID, &a.AdNetwork, &a.ImageURL, &a.TargetURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("location %s: %w", op, err)
		}
		ads = append(ads, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}

	return ads, nil
}
