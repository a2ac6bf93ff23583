package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// SequenceRepository implements port.SequenceRepository over SQLite. Each
// named counter is a row in the sequences table, seeded by the migrations.
type SequenceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSequenceRepository creates a new sequence repository.
func NewSequenceRepository(db *database.DB, logger *zap.Logger) port.SequenceRepository {
	return &SequenceRepository{db: db, logger: logger}
}

// Next increments the named counter and returns the new value. The increment
// and read are one RETURNING statement, so concurrent callers never observe
// the same value even on the bare pool. Inside a caller's transaction a
// rollback restores the counter and no value is burned.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		`UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("sequence %s: %w", name, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to increment sequence", zap.String("name", name), zap.Error(err))
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	return value, nil
}

var _ port.SequenceRepository = (*SequenceRepository)(nil)
