package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
)

// Service records administrator actions. Recording is best effort: a failed
// write must never fail the operation that triggered it, so Record logs the
// error and returns nothing.
type Service interface {
	Record(ctx context.Context, input RecordInput)
	ListRecent(ctx context.Context, limit int) ([]models.AdminAction, error)
}

// RecordInput captures one state-changing admin operation.
type RecordInput struct {
	Type           enums.AdminActionType
	Description    string
	CollectionName string
	AdminUID       uuid.UUID
	AdminEmail     string
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires an audit log service with the provided repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auditlog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) {
	if !input.Type.IsValid() {
		s.logg.Warn(ctx, fmt.Sprintf("audit log skipped: invalid action type %q", input.Type))
		return
	}
	if input.AdminUID == uuid.Nil {
		s.logg.Warn(ctx, "audit log skipped: missing admin uid")
		return
	}

	action := &models.AdminAction{
		Type:           input.Type,
		Description:    input.Description,
		CollectionName: input.CollectionName,
		AdminUID:       input.AdminUID,
		AdminEmail:     input.AdminEmail,
	}

	if err := s.repo.Create(ctx, action); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"action_type": input.Type,
			"admin_uid":   input.AdminUID.String(),
		})
		s.logg.Error(logCtx, "audit log write failed", err)
	}
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]models.AdminAction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
