package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// ConfigRepo implements ports.ConfigSource on the station_codes and
// origin_calling_points tables.
type ConfigRepo struct {
	db *DB
}

func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

func (r *ConfigRepo) OriginsAndCallingPoints(ctx context.Context) ([]domain.OriginAndCallingPoints, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT origin_name, array_agg(calling_point_name ORDER BY position, calling_point_name)
		FROM origin_calling_points
		GROUP BY origin_name
		ORDER BY origin_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var origins []domain.OriginAndCallingPoints
	for rows.Next() {
		var o domain.OriginAndCallingPoints
		if err := rows.Scan(&o.OriginName, &o.CallingPointNames); err != nil {
			return nil, err
		}
		origins = append(origins, o)
	}
	return origins, rows.Err()
}

func (r *ConfigRepo) StationCodes(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name, crs FROM station_codes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make(map[string]string)
	for rows.Next() {
		var name, crs string
		if err := rows.Scan(&name, &crs); err != nil {
			return nil, err
		}
		codes[name] = crs
	}
	return codes, rows.Err()
}

// UpsertStation stores the CRS code for a station name.
func (r *ConfigRepo) UpsertStation(ctx context.Context, name, crs string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO station_codes (name, crs)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET crs = EXCLUDED.crs, updated_at = now()
	`, name, crs)
	return err
}

// ReplaceOrigin replaces the calling points of an origin in one transaction.
// List order is kept through the position column.
func (r *ConfigRepo) ReplaceOrigin(ctx context.Context, origin domain.OriginAndCallingPoints) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM origin_calling_points WHERE origin_name = $1`, origin.OriginName); err != nil {
		return fmt.Errorf("clear %q: %w", origin.OriginName, err)
	}

	batch := &pgx.Batch{}
	for i, name := range origin.CallingPointNames {
		batch.Queue(`
			INSERT INTO origin_calling_points (origin_name, calling_point_name, position)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, origin.OriginName, name, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert calling points for %q: %w", origin.OriginName, err)
	}
	return tx.Commit(ctx)
}
