package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"confshare/internal/core/domain"
)

// ConfigurationRepository implements domain.ConfigurationRepository for PostgreSQL.
type ConfigurationRepository struct {
	db *sqlx.DB
}

func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// GetByID fetches a single stored configuration.
func (r *ConfigurationRepository) GetByID(ctx context.Context, id string) (*domain.Configuration, error) {
	var cfg domain.Configuration
	query := `SELECT id, configuration FROM configurations WHERE id = $1`

	err := r.db.GetContext(ctx, &cfg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound // Return a domain-specific error, not a SQL error
		}
		return nil, err
	}
	return &cfg, nil
}

// List returns every stored configuration.
func (r *ConfigurationRepository) List(ctx context.Context) ([]domain.Configuration, error) {
	var configs []domain.Configuration
	query := `SELECT id, configuration FROM configurations ORDER BY id`

	err := r.db.SelectContext(ctx, &configs, query)
	return configs, err
}

// Save inserts a new row; the id is the caller-chosen storage key.
func (r *ConfigurationRepository) Save(ctx context.Context, cfg *domain.Configuration) error {
	query := `
		INSERT INTO configurations (id, configuration)
		VALUES (:id, :configuration)
	`

	_, err := r.db.NamedExecContext(ctx, query, cfg)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// Update replaces the stored value for an existing id.
func (r *ConfigurationRepository) Update(ctx context.Context, cfg *domain.Configuration) error {
	query := `UPDATE configurations SET configuration = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, cfg.Configuration, cfg.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a stored configuration.
func (r *ConfigurationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM configurations WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists reports whether a configuration id is taken.
func (r *ConfigurationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM configurations WHERE id = $1)`

	err := r.db.GetContext(ctx, &exists, query, id)
	return exists, err
}
