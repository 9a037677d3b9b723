package registrations

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/internal/points"
	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	dbpkg "github.com/mijnfegon/mijnfegon-backend/pkg/db"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox/payloads"
)

// Applier consumes confirmed approval events and lands their local effects:
// the status flip, the CRM relation number and the Drops credit. Running it
// in the worker keeps the API's Approve call free of local writes.
type Applier struct {
	tx      Transactor
	repo    Repository
	points  points.Service
	watcher *Watcher
	cfg     config.PointsConfig
	logg    *logger.Logger
}

// NewApplier wires the approval applier.
func NewApplier(tx Transactor, repo Repository, pointsSvc points.Service, watcher *Watcher, cfg config.PointsConfig, logg *logger.Logger) (*Applier, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("registrations repository required")
	}
	if pointsSvc == nil {
		return nil, fmt.Errorf("points service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Applier{tx: tx, repo: repo, points: pointsSvc, watcher: watcher, cfg: cfg, logg: logg}, nil
}

// ApplyApproval is idempotent: redelivered events find the row already
// approved and the credit already booked, and change nothing.
func (a *Applier) ApplyApproval(ctx context.Context, event payloads.RegistrationApprovedEvent) error {
	reg, err := a.repo.FindByID(ctx, event.RegistrationID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			// Deleted between approval and delivery; nothing to land.
			a.logg.Warn(a.logg.WithRegistrationID(ctx, event.RegistrationID.String()),
				"approved event for missing registration")
			return nil
		}
		return err
	}

	awarded := event.PointsAwarded
	if awarded <= 0 {
		awarded = a.cfg.DefaultAward
		if event.IsFirstRegistration {
			awarded = a.cfg.FirstBonusAward
		}
	}

	approvedAt := event.ApprovedAt
	if approvedAt.IsZero() {
		approvedAt = time.Now()
	}

	err = a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := a.repo.WithTx(tx).MarkApproved(ctx, event.RegistrationID, event.CompendaID, awarded, approvedAt); err != nil {
			return err
		}

		if reg.InstallerUID == nil {
			// Unlinked import rows carry no profile to credit.
			return nil
		}

		regID := event.RegistrationID
		_, err := a.points.Credit(ctx, tx, points.CreditInput{
			UserID:         *reg.InstallerUID,
			Amount:         awarded,
			Description:    fmt.Sprintf("registratie %s goedgekeurd", event.RegistrationID),
			RegistrationID: &regID,
		})
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeConflict {
			// Already credited on a previous delivery.
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}

	if a.watcher != nil {
		a.watcher.Refresh(ctx)
	}
	return nil
}
