package admin

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines admin log and settings data access
type Repository interface {
	InsertLog(ctx context.Context, adminID uuid.UUID, action string, details map[string]interface{}) error
	ListLogs(ctx context.Context, limit, offset int) ([]*Log, int, error)
	GetSettings(ctx context.Context) ([]*Setting, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates admin repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertLog(ctx context.Context, adminID uuid.UUID, action string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	query := `INSERT INTO admin_logs (id, admin_id, action, details) VALUES ($1, $2, $3, $4)`
	_, err = r.db.ExecContext(ctx, query, uuid.New(), adminID, action, payload)
	return err
}

func (r *repository) ListLogs(ctx context.Context, limit, offset int) ([]*Log, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM admin_logs`); err != nil {
		return nil, 0, err
	}

	var items []*Log
	query := `SELECT * FROM admin_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &items, query, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) GetSettings(ctx context.Context) ([]*Setting, error) {
	var items []*Setting
	err := r.db.SelectContext(ctx, &items, `SELECT * FROM platform_settings ORDER BY key`)
	return items, err
}

func (r *repository) UpsertSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO platform_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	return err
}
