package dialog_store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/silsin/VPN-Backend/internal/domain"
)

var ErrDialogNotFound = errors.New("dialog not found")

type postgresDialogStore struct {
	db *sql.DB
}

func NewPostgresDialogStore(db *sql.DB) *postgresDialogStore {
	return &postgresDialogStore{db: db}
}

func (p *postgresDialogStore) CreateDialog(ctx context.Context, d *domain.Dialog) error {
	const op = "storage.dialog_store.CreateDialog"

	err := p.db.QueryRowContext(ctx, `
        INSERT INTO dialogs (title, message, target, status, button_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `, d.Title, d.Message, d.Target, d.Status, d.ButtonURL).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	return nil
}

// FindActive отдаёт диалоги для показа на мобильном: со статусом scheduled
// и подходящим таргетом платформы.
func (p *postgresDialogStore) FindActive(ctx context.Context, platform string) ([]domain.Dialog, error) {
	const op = "storage.dialog_store.FindActive"

	query := `
        SELECT id, title, message, target, status, button_url, clicks, created_at, updated_at
        FROM dialogs
        WHERE status = 'scheduled'
    `
	args := []any{}
	if platform != "" {
		query += " AND (target = 'all' OR target = $1)"
		args = append(args, platform)
	}
	query += " ORDER BY created_at DESC"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}
	defer rows.Close()

	dialogs := []domain.Dialog{}
	for rows.Next() {
		var d domain.Dialog
		if err := rows.Scan(&d.ID, &d.Title, &d.Message, &d.Target, &d.Status, &d.ButtonURL, &d.Clicks, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("location %s: %w", op, err)
		}
		dialogs = append(dialogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("location %s: %w", op, err)
	}

	return dialogs, nil
}

func (p *postgresDialogStore) TrackClick(ctx context.Context, dialogID string) error {
	const op = "storage.dialog_store.TrackClick"

	res, err := p.db.ExecContext(ctx, `
        UPDATE dialogs SET clicks = clicks + 1, updated_at = NOW() WHERE id = $1
    `, dialogID)
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("location %s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location %s: %w", op, ErrDialogNotFound)
	}

	return nil
}
