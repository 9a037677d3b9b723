package registrations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/internal/auditlog"
	"github.com/mijnfegon/mijnfegon-backend/pkg/compenda"
	dbpkg "github.com/mijnfegon/mijnfegon-backend/pkg/db"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/mailer"
	"github.com/mijnfegon/mijnfegon-backend/pkg/metrics"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox/payloads"
	"github.com/mijnfegon/mijnfegon-backend/pkg/pagination"
)

// CompendaGateway is the CRM call the approval flow depends on.
type CompendaGateway interface {
	ApproveRegistration(ctx context.Context, registrationID uuid.UUID) (*compenda.ApproveResult, error)
}

// Mailer sends transactional mail. Usage is fire-and-forget.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// OutboxEmitter queues domain events inside the caller's transaction.
type OutboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AdminActor identifies the administrator driving a state change.
type AdminActor struct {
	UID   uuid.UUID
	Email string
}

func (a AdminActor) ref() *outbox.ActorRef {
	return &outbox.ActorRef{UserID: a.UID, Email: a.Email, Role: string(enums.UserRoleAdmin)}
}

// ServiceParams wires the registration service dependencies.
type ServiceParams struct {
	Transactor Transactor
	Repo       Repository
	Compenda   CompendaGateway
	Mailer     Mailer
	Audit      auditlog.Service
	Outbox     OutboxEmitter
	Watcher    *Watcher
	Metrics    *metrics.ApprovalMetrics
	Logger     *logger.Logger
}

// Service owns the registration lifecycle: submission, the approval state
// machine, manual status edits, linking and deletion.
type Service struct {
	tx       Transactor
	repo     Repository
	compenda CompendaGateway
	mailer   Mailer
	audit    auditlog.Service
	outbox   OutboxEmitter
	watcher  *Watcher
	metrics  *metrics.ApprovalMetrics
	logg     *logger.Logger

	// inFlight guards each registration against concurrent approvals
	// (double-clicked approve buttons). Markers have no timeout: they live
	// exactly as long as the CRM call.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewService validates and wires the registration service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Transactor == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("registrations repository required")
	}
	if params.Compenda == nil {
		return nil, fmt.Errorf("compenda gateway required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit log service required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &Service{
		tx:       params.Transactor,
		repo:     params.Repo,
		compenda: params.Compenda,
		mailer:   params.Mailer,
		audit:    params.Audit,
		outbox:   params.Outbox,
		watcher:  params.Watcher,
		metrics:  params.Metrics,
		logg:     params.Logger,
		inFlight: make(map[uuid.UUID]struct{}),
	}, nil
}

// Submit stores a new pending registration and queues the created event in
// the same transaction.
func (s *Service) Submit(ctx context.Context, dto CreateRegistrationDTO) (*RegistrationDTO, error) {
	if dto.InstallerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "installer email is required")
	}
	if dto.ProductSerialNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "serial number is required")
	}

	reg := dto.ToModel()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, reg); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRegistrationCreated,
			AggregateType: enums.AggregateRegistration,
			AggregateID:   reg.ID,
			Version:       1,
			Data: payloads.RegistrationCreatedEvent{
				RegistrationID: reg.ID,
				InstallerUID:   reg.InstallerUID,
				SerialNumber:   reg.ProductSerialNumber,
				Source:         string(reg.Source),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyWatcher(ctx)
	return FromModel(reg), nil
}

// Get loads one registration with its recomputed analysis.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RegistrationDTO, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return nil, err
	}
	return FromModel(reg), nil
}

// ListPage returns one admin page with per-row analysis.
func (s *Service) ListPage(ctx context.Context, filter ListFilter, params pagination.Params) ([]RegistrationDTO, string, error) {
	rows, next, err := s.repo.ListPage(ctx, filter, params)
	if err != nil {
		return nil, "", err
	}
	dtos := make([]RegistrationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, next, nil
}

// ListMine returns the registrations linked to an installer.
func (s *Service) ListMine(ctx context.Context, installerUID uuid.UUID) ([]RegistrationDTO, error) {
	rows, err := s.repo.ListByInstaller(ctx, installerUID)
	if err != nil {
		return nil, err
	}
	dtos := make([]RegistrationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// Approve pushes a pending or rejected registration to the CRM. The local row is not
// touched here: the CRM outcome is authoritative and lands asynchronously
// through the approved event, so a failed remote call leaves no trace.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor AdminActor) (*compenda.ApproveResult, error) {
	if !s.markInFlight(id) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "approval already in progress")
	}
	defer s.clearInFlight(id)

	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return nil, err
	}
	if reg.Status == enums.RegistrationStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "registration is already approved")
	}

	start := time.Now()
	result, err := s.compenda.ApproveRegistration(ctx, id)
	s.metrics.ObserveSyncDuration(time.Since(start))
	if err != nil {
		s.metrics.IncOutcome("failure")
		return nil, err
	}
	s.metrics.IncOutcome("success")

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRegistrationApproved,
			AggregateType: enums.AggregateRegistration,
			AggregateID:   id,
			Actor:         actor.ref(),
			Version:       1,
			Data: payloads.RegistrationApprovedEvent{
				RegistrationID:      id,
				InstallerUID:        reg.InstallerUID,
				CompendaID:          result.CompendaID,
				PointsAwarded:       result.Points,
				IsFirstRegistration: result.IsFirstRegistration,
				ApprovedAt:          time.Now(),
			},
		})
	}); err != nil {
		// The CRM accepted the approval; the event write failed. Log loudly,
		// the reconciliation path picks the row up from the CRM side.
		s.logg.Error(s.logg.WithRegistrationID(ctx, id.String()), "approved event write failed", err)
	}

	go s.sendApprovalEmail(reg, result)

	s.audit.Record(ctx, auditlog.RecordInput{
		Type:           enums.AdminActionRegistrationApprove,
		Description:    fmt.Sprintf("registratie %s goedgekeurd (%d drops)", id, result.Points),
		CollectionName: "registrations",
		AdminUID:       actor.UID,
		AdminEmail:     actor.Email,
	})

	return result, nil
}

// SetStatus is the manual admin override. Unlike Approve it writes the
// local row directly and synchronously.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus, actor AdminActor) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}

	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return err
	}
	if reg.Status == status {
		return nil
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRegistrationStatusChanged,
			AggregateType: enums.AggregateRegistration,
			AggregateID:   id,
			Actor:         actor.ref(),
			Version:       1,
			Data: payloads.RegistrationStatusChangedEvent{
				RegistrationID: id,
				From:           reg.Status,
				To:             status,
			},
		})
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.RecordInput{
		Type:           enums.AdminActionRegistrationStatus,
		Description:    fmt.Sprintf("registratie %s status %s → %s", id, reg.Status, status),
		CollectionName: "registrations",
		AdminUID:       actor.UID,
		AdminEmail:     actor.Email,
	})

	s.notifyWatcher(ctx)
	return nil
}

// Delete removes a registration permanently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor AdminActor) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if dbpkg.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRegistrationDeleted,
			AggregateType: enums.AggregateRegistration,
			AggregateID:   id,
			Actor:         actor.ref(),
			Version:       1,
			Data: payloads.RegistrationDeletedEvent{
				RegistrationID: id,
				DeletedAt:      time.Now(),
			},
		})
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.RecordInput{
		Type:           enums.AdminActionRegistrationDelete,
		Description:    fmt.Sprintf("registratie %s verwijderd", id),
		CollectionName: "registrations",
		AdminUID:       actor.UID,
		AdminEmail:     actor.Email,
	})

	s.notifyWatcher(ctx)
	return nil
}

// LinkInstaller claims an unlinked (imported) registration for a profile.
func (s *Service) LinkInstaller(ctx context.Context, id uuid.UUID, installerUID uuid.UUID, actor AdminActor) error {
	if installerUID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "installer uid is required")
	}

	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return err
	}
	if reg.InstallerUID != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "registration is already linked to an installer")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).LinkInstaller(ctx, id, installerUID); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRegistrationLinked,
			AggregateType: enums.AggregateRegistration,
			AggregateID:   id,
			Actor:         actor.ref(),
			Version:       1,
			Data: payloads.RegistrationLinkedEvent{
				RegistrationID: id,
				InstallerUID:   installerUID,
			},
		})
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.RecordInput{
		Type:           enums.AdminActionRegistrationLink,
		Description:    fmt.Sprintf("registratie %s gekoppeld aan monteur %s", id, installerUID),
		CollectionName: "registrations",
		AdminUID:       actor.UID,
		AdminEmail:     actor.Email,
	})

	s.notifyWatcher(ctx)
	return nil
}

// Snapshot returns the full set for the dashboard metrics fold.
func (s *Service) Snapshot(ctx context.Context) ([]models.Registration, error) {
	return s.repo.Snapshot(ctx)
}

func (s *Service) markInFlight(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) clearInFlight(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func (s *Service) notifyWatcher(ctx context.Context) {
	if s.watcher == nil {
		return
	}
	s.watcher.Refresh(ctx)
}

func (s *Service) sendApprovalEmail(reg *models.Registration, result *compenda.ApproveResult) {
	if s.mailer == nil || reg.InstallerEmail == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	msg := approvalMessage(reg, result)
	if err := s.mailer.Send(ctx, msg); err != nil {
		logCtx := s.logg.WithRegistrationID(ctx, reg.ID.String())
		s.logg.Error(logCtx, "approval email failed", err)
	}
}
