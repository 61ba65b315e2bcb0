package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// CompletionRepo persists per-module material completion sets.
type CompletionRepo interface {
	CompletedMaterials(ctx context.Context, key string) ([]string, error)
	MarkMaterialComplete(ctx context.Context, key, materialID string) error
}

type completionRepo struct {
	db *sql.DB
}

func (r *completionRepo) CompletedMaterials(ctx context.Context, key string) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("material_id").
		From(entsql.Table("material_completions")).
		Where(entsql.EQ("set_key", key)).
		OrderBy("completed_at", "material_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkMaterialComplete adds a material to a set. Marking twice is a no-op.
func (r *completionRepo) MarkMaterialComplete(ctx context.Context, key, materialID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("material_completions").
		Columns("set_key", "material_id", "completed_at").
		Values(key, materialID, time.Now().UTC().UnixMilli()).
		OnConflict(entsql.ConflictColumns("set_key", "material_id"), entsql.DoNothing()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}
