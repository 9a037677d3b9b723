package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/api/middleware"
	"github.com/mijnfegon/mijnfegon-backend/api/responses"
	"github.com/mijnfegon/mijnfegon-backend/api/validators"
	"github.com/mijnfegon/mijnfegon-backend/internal/auditlog"
	"github.com/mijnfegon/mijnfegon-backend/internal/points"
	"github.com/mijnfegon/mijnfegon-backend/internal/users"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
)

// pointsTransactor runs the adjustment inside a database transaction.
type pointsTransactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type updateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

type adjustPointsRequest struct {
	Delta       int    `json:"delta" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Me returns the authenticated user's profile.
func Me(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found"))
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}

// UpdateMyProfile patches the caller's editable profile fields.
func UpdateMyProfile(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.UpdateProfile(r.Context(), userID, users.UpdateProfileDTO{
			Name:        body.Name,
			CompanyName: body.CompanyName,
			Phone:       body.Phone,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile"))
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload profile"))
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}

// MyPointsHistory lists the caller's Drops ledger, newest first.
func MyPointsHistory(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.History(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// AdminListUsers pages through installer accounts.
func AdminListUsers(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.List(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users"))
			return
		}

		dtos := make([]*users.UserDTO, 0, len(list))
		for i := range list {
			dtos = append(dtos, users.FromModel(&list[i]))
		}
		responses.WriteSuccess(w, map[string]any{"items": dtos})
	}
}

// AdminAdjustPoints applies a manual Drops correction with an audit record.
func AdminAdjustPoints(tx pointsTransactor, pointsSvc points.Service, repo *users.Repository, audit auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetUID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustPointsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adminUID := middleware.UserUUIDFromContext(r.Context())
		if adminUID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		err = tx.WithTx(r.Context(), func(dbTx *gorm.DB) error {
			_, err := pointsSvc.Adjust(r.Context(), dbTx, points.AdjustInput{
				UserID:      targetUID,
				Delta:       body.Delta,
				Description: body.Description,
				ActorUID:    adminUID,
			})
			return err
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if audit != nil {
			adminEmail := ""
			if admin, lookupErr := repo.FindByID(r.Context(), adminUID); lookupErr == nil {
				adminEmail = admin.Email
			}
			audit.Record(r.Context(), auditlog.RecordInput{
				Type:           enums.AdminActionPointsAdjust,
				Description:    fmt.Sprintf("drops aangepast met %+d voor %s", body.Delta, targetUID),
				CollectionName: "points_transactions",
				AdminUID:       adminUID,
				AdminEmail:     adminEmail,
			})
		}

		user, err := repo.FindByID(r.Context(), targetUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user"))
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}
