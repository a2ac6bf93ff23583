package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// PolicyRepository implements port.PolicyRepository over SQLite. Policies
// live in a root table whose version/document columns mirror the single
// Current row of the policy_versions ledger.
type PolicyRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPolicyRepository creates a new policy repository.
func NewPolicyRepository(db *database.DB, logger *zap.Logger) port.PolicyRepository {
	return &PolicyRepository{db: db, logger: logger}
}

const policyColumns = `
	id, title, category, description, version, document_url, document_name,
	status, created_by, approved_by, approved_at, created_at, updated_at
`

const policyVersionColumns = `
	id, policy_id, version, document_url, document_name, status, author,
	changes, uploaded_at
`

// Create inserts a new policy.
func (r *PolicyRepository) Create(ctx context.Context, p *entity.Policy) error {
	query := `
		INSERT INTO policies (
			id, title, category, description, version, document_url,
			document_name, status, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		p.ID, p.Title, p.Category, p.Description, p.Version, p.DocumentURL,
		p.DocumentName, p.Status, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create policy", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to create policy: %w", err)
	}
	return nil
}

// GetByID retrieves a policy with its full version history, oldest entry
// first.
func (r *PolicyRepository) GetByID(ctx context.Context, id string) (*entity.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = ?`
	p, err := scanPolicy(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get policy", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	history, err := r.listVersions(ctx, id)
	if err != nil {
		return nil, err
	}
	p.VersionHistory = history
	return p, nil
}

// List lists policies, newest first. Empty status lists all. Version
// histories are not loaded.
func (r *PolicyRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []*entity.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// SetStatus flips the status, conditional on the expected prior status.
func (r *PolicyRepository) SetStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
	query := `UPDATE policies SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query, toStatus, at, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to set policy status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set policy status: %w", err)
	}
	return requireRowMatch(result)
}

// SetApproved flips the status and stamps the approver, conditional on the
// expected prior status.
func (r *PolicyRepository) SetApproved(ctx context.Context, id, fromStatus, toStatus, approvedBy string, at time.Time) error {
	query := `
		UPDATE policies
		SET status = ?, approved_by = ?, approved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, approvedBy, at, at, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to approve policy", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to approve policy: %w", err)
	}
	return requireRowMatch(result)
}

// GetVersion retrieves one version entry of a policy.
func (r *PolicyRepository) GetVersion(ctx context.Context, policyID, version string) (*entity.PolicyVersion, error) {
	query := `SELECT ` + policyVersionColumns + ` FROM policy_versions WHERE policy_id = ? AND version = ?`
	v, err := scanPolicyVersion(r.db.Executor(ctx).QueryRowContext(ctx, query, policyID, version))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy version: %w", err)
	}
	return v, nil
}

// ArchiveVersions marks every version entry of the policy Archived.
func (r *PolicyRepository) ArchiveVersions(ctx context.Context, policyID string) error {
	query := `UPDATE policy_versions SET status = ? WHERE policy_id = ?`
	_, err := r.db.Executor(ctx).ExecContext(ctx, query, entity.PolicyVersionArchived, policyID)
	if err != nil {
		r.logger.Error("Failed to archive policy versions", zap.String("policy_id", policyID), zap.Error(err))
		return fmt.Errorf("failed to archive policy versions: %w", err)
	}
	return nil
}

// InsertVersion appends a version entry to the ledger.
func (r *PolicyRepository) InsertVersion(ctx context.Context, v *entity.PolicyVersion) error {
	query := `
		INSERT INTO policy_versions (
			policy_id, version, document_url, document_name, status, author,
			changes, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		v.PolicyID, v.Version, v.DocumentURL, v.DocumentName, v.Status,
		v.Author, v.Changes, v.UploadedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert policy version", zap.String("policy_id", v.PolicyID), zap.Error(err))
		return fmt.Errorf("failed to insert policy version: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		v.ID = id
	}
	return nil
}

// UpdateDocumentPointer syncs the policy root row to the given version and
// document, conditional on the version the caller read before rotating. A
// concurrent rotation that already moved the pointer leaves zero matching
// rows and the write fails with ErrConflict.
func (r *PolicyRepository) UpdateDocumentPointer(ctx context.Context, policyID, fromVersion, toVersion, documentURL, documentName string, at time.Time) error {
	query := `
		UPDATE policies
		SET version = ?, document_url = ?, document_name = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toVersion, documentURL, documentName, at, policyID, fromVersion)
	if err != nil {
		r.logger.Error("Failed to update policy document pointer", zap.String("id", policyID), zap.Error(err))
		return fmt.Errorf("failed to update policy document pointer: %w", err)
	}
	return requireRowMatch(result)
}

func (r *PolicyRepository) listVersions(ctx context.Context, policyID string) ([]entity.PolicyVersion, error) {
	query := `SELECT ` + policyVersionColumns + ` FROM policy_versions WHERE policy_id = ? ORDER BY id ASC`
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list policy versions: %w", err)
	}
	defer rows.Close()

	var versions []entity.PolicyVersion
	for rows.Next() {
		v, err := scanPolicyVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy version: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

func scanPolicy(row rowScanner) (*entity.Policy, error) {
	var p entity.Policy
	var category, description, createdBy, approvedBy sql.NullString
	var approvedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Title, &category, &description, &p.Version, &p.DocumentURL,
		&p.DocumentName, &p.Status, &createdBy, &approvedBy, &approvedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Category = category.String
	p.Description = description.String
	p.CreatedBy = createdBy.String
	p.ApprovedBy = approvedBy.String
	p.ApprovedAt = nullableTime(approvedAt)
	return &p, nil
}

func scanPolicyVersion(row rowScanner) (*entity.PolicyVersion, error) {
	var v entity.PolicyVersion
	var author, changes sql.NullString

	err := row.Scan(
		&v.ID, &v.PolicyID, &v.Version, &v.DocumentURL, &v.DocumentName,
		&v.Status, &author, &changes, &v.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Author = author.String
	v.Changes = changes.String
	return &v, nil
}

var _ port.PolicyRepository = (*PolicyRepository)(nil)
