package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// CreatePolicyInput carries the fields for a new policy document.
type CreatePolicyInput struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	DocumentURL  string `json:"documentUrl"`
	DocumentName string `json:"documentName"`
}

// PolicyDocumentInput carries a replacement document upload.
type PolicyDocumentInput struct {
	DocumentURL  string `json:"documentUrl"`
	DocumentName string `json:"documentName"`
	Author       string `json:"author"`
	Changes      string `json:"changes"`
}

// PolicyService drives the policy publishing workflow and the append-only
// version ledger. Every version-incrementing operation archives all prior
// entries and appends exactly one new Current entry, keeping the root
// document pointers in lockstep.
type PolicyService struct {
	policies port.PolicyRepository
	rules    *workflow.Ruleset
	hooks    *Hooks
	tx       port.TransactionManager
	logger   *zap.Logger
}

// NewPolicyService creates the policy workflow service.
func NewPolicyService(policies port.PolicyRepository, hooks *Hooks, tx port.TransactionManager, logger *zap.Logger) *PolicyService {
	return &PolicyService{
		policies: policies,
		rules:    workflow.PolicyRules(),
		hooks:    hooks,
		tx:       tx,
		logger:   logger,
	}
}

// Create stores a new Draft policy at v1.0 with its initial Current entry.
func (s *PolicyService) Create(ctx context.Context, in CreatePolicyInput, actor entity.Actor) (*entity.Policy, error) {
	if in.Title == "" {
		return nil, validationf("title is required")
	}
	if in.DocumentURL == "" {
		return nil, validationf("documentUrl is required")
	}

	now := time.Now()
	p := &entity.Policy{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Category:     in.Category,
		Description:  in.Description,
		Version:      "v1.0",
		DocumentURL:  in.DocumentURL,
		DocumentName: in.DocumentName,
		Status:       entity.PolicyStatusDraft,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.policies.Create(txCtx, p); err != nil {
			return fmt.Errorf("create policy: %w", err)
		}
		v := &entity.PolicyVersion{
			PolicyID:     p.ID,
			Version:      p.Version,
			DocumentURL:  p.DocumentURL,
			DocumentName: p.DocumentName,
			Status:       entity.PolicyVersionCurrent,
			Author:       actor.ID,
			Changes:      "Initial version",
			UploadedAt:   now,
		}
		if err := s.policies.InsertVersion(txCtx, v); err != nil {
			return fmt.Errorf("insert initial version: %w", err)
		}
		return s.hooks.RecordCreation(txCtx, entity.EntityTypePolicy, p.ID, p.Status, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Policy created", zap.String("id", p.ID), zap.String("title", p.Title))
	return s.Get(ctx, p.ID)
}

// Get returns a policy with its version history.
func (s *PolicyService) Get(ctx context.Context, id string) (*entity.Policy, error) {
	p, err := s.policies.GetByID(ctx, id)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: policy %s", ErrNotFound, id)
	}
	return p, err
}

// List returns policies, optionally filtered by status.
func (s *PolicyService) List(ctx context.Context, status string, limit, offset int) ([]*entity.Policy, error) {
	return s.policies.List(ctx, status, limit, offset)
}

// Submit moves a Draft policy to Pending Approval.
func (s *PolicyService) Submit(ctx context.Context, id string, actor entity.Actor) (*entity.Policy, error) {
	return s.transition(ctx, id, actor, workflow.ActionSubmit, "", "submitted for approval")
}

// Approve publishes a pending policy, stamping who approved it.
func (s *PolicyService) Approve(ctx context.Context, id string, actor entity.Actor, approvedBy string) (*entity.Policy, error) {
	if approvedBy == "" {
		approvedBy = actor.ID
	}
	return s.transition(ctx, id, actor, workflow.ActionApprove, approvedBy, "policy published")
}

// Reject returns a pending policy to Draft.
func (s *PolicyService) Reject(ctx context.Context, id string, actor entity.Actor) (*entity.Policy, error) {
	return s.transition(ctx, id, actor, workflow.ActionReject, "", "returned to draft")
}

func (s *PolicyService) transition(ctx context.Context, id string, actor entity.Actor, action domainwf.Trigger, approvedBy, description string) (*entity.Policy, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := s.rules.Apply(domainwf.State(p.Status), action, actor.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if approvedBy != "" {
			err = s.policies.SetApproved(txCtx, id, tr.From.String(), tr.To.String(), approvedBy, now)
		} else {
			err = s.policies.SetStatus(txCtx, id, tr.From.String(), tr.To.String(), now)
		}
		if err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, id, description)
	})
	if err != nil {
		return nil, err
	}

	if hasEffect(tr.Effects, workflow.EffectNotify) {
		s.hooks.NotifyEmployee(ctx, p.CreatedBy,
			fmt.Sprintf("Policy %s", strings.ToLower(tr.To.String())),
			fmt.Sprintf("Policy %q is now %s.", p.Title, tr.To))
	}

	return s.Get(ctx, id)
}

// UpdateDocument uploads a new document revision: the version is bumped by
// 0.1, every prior history entry is archived, and the new entry becomes
// Current with the root pointers following it.
func (s *PolicyService) UpdateDocument(ctx context.Context, id string, in PolicyDocumentInput, actor entity.Actor) (*entity.Policy, error) {
	if in.DocumentURL == "" {
		return nil, validationf("documentUrl is required")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := nextVersion(p.Version)
	if err != nil {
		return nil, err
	}

	v := &entity.PolicyVersion{
		PolicyID:     id,
		Version:      next,
		DocumentURL:  in.DocumentURL,
		DocumentName: in.DocumentName,
		Status:       entity.PolicyVersionCurrent,
		Author:       in.Author,
		Changes:      in.Changes,
		UploadedAt:   time.Now(),
	}
	if err := s.appendVersion(ctx, id, p.Version, v, actor, "document updated to "+next); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// RestoreVersion re-publishes a historical version's content as a new
// Current entry. The version counter still moves forward; history is never
// rewritten.
func (s *PolicyService) RestoreVersion(ctx context.Context, id, version, author string, actor entity.Actor) (*entity.Policy, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	src, err := s.policies.GetVersion(ctx, id, version)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: policy %s has no version %s", ErrVersionNotFound, id, version)
	}
	if err != nil {
		return nil, err
	}

	next, err := nextVersion(p.Version)
	if err != nil {
		return nil, err
	}

	v := &entity.PolicyVersion{
		PolicyID:     id,
		Version:      next,
		DocumentURL:  src.DocumentURL,
		DocumentName: src.DocumentName,
		Status:       entity.PolicyVersionCurrent,
		Author:       author,
		Changes:      "Restored from " + version,
		UploadedAt:   time.Now(),
	}
	if err := s.appendVersion(ctx, id, p.Version, v, actor, "restored version "+version+" as "+next); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// appendVersion performs the single-Current rotation atomically. The pointer
// write is conditional on fromVersion, the root version the caller computed
// the bump from: if a concurrent rotation minted the same bump first, the
// write matches zero rows and the whole rotation rolls back instead of
// duplicating a history entry.
func (s *PolicyService) appendVersion(ctx context.Context, id, fromVersion string, v *entity.PolicyVersion, actor entity.Actor, description string) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.policies.ArchiveVersions(txCtx, id); err != nil {
			return fmt.Errorf("archive versions: %w", err)
		}
		if err := s.policies.InsertVersion(txCtx, v); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
		if err := s.policies.UpdateDocumentPointer(txCtx, id, fromVersion, v.Version, v.DocumentURL, v.DocumentName, v.UploadedAt); err != nil {
			if errors.Is(err, port.ErrConflict) {
				return fmt.Errorf("%w: policy %s moved past version %s", domainwf.ErrInvalidTransition, id, fromVersion)
			}
			return fmt.Errorf("update document pointer: %w", err)
		}
		return s.hooks.RecordCreation(txCtx, entity.EntityTypePolicy, id, "version "+v.Version, actor)
	})
}

// nextVersion bumps a vM.m version string by 0.1 (v1.9 rolls to v2.0).
func nextVersion(current string) (string, error) {
	raw := strings.TrimPrefix(current, "v")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", validationf("unparseable policy version %q", current)
	}
	return fmt.Sprintf("v%.1f", f+0.1), nil
}
