package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// AuditRepository implements port.AuditRepository over SQLite. Records are
// append-only; there is no update or delete path.
type AuditRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *database.DB, logger *zap.Logger) port.AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

// Record appends an audit record.
func (r *AuditRepository) Record(ctx context.Context, rec *entity.AuditRecord) error {
	query := `
		INSERT INTO audit_records (
			id, action, actor_id, actor_role, entity_type, entity_id,
			from_status, to_status, description, outcome, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.ID, rec.Action, rec.ActorID, rec.ActorRole, rec.EntityType,
		rec.EntityID, rec.FromStatus, rec.ToStatus, rec.Description,
		rec.Outcome, rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record audit entry",
			zap.String("entity_type", rec.EntityType),
			zap.String("entity_id", rec.EntityID), zap.Error(err))
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListByEntity lists the audit trail of one entity, oldest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditRecord, error) {
	query := `
		SELECT id, action, actor_id, actor_role, entity_type, entity_id,
			from_status, to_status, description, outcome, created_at
		FROM audit_records
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var records []*entity.AuditRecord
	for rows.Next() {
		var rec entity.AuditRecord
		err := rows.Scan(
			&rec.ID, &rec.Action, &rec.ActorID, &rec.ActorRole,
			&rec.EntityType, &rec.EntityID, &rec.FromStatus, &rec.ToStatus,
			&rec.Description, &rec.Outcome, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

var _ port.AuditRepository = (*AuditRepository)(nil)
