package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/api/middleware"
	"github.com/mijnfegon/mijnfegon-backend/api/responses"
	"github.com/mijnfegon/mijnfegon-backend/api/validators"
	"github.com/mijnfegon/mijnfegon-backend/internal/auditlog"
	"github.com/mijnfegon/mijnfegon-backend/internal/registrations"
	"github.com/mijnfegon/mijnfegon-backend/internal/users"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/metrics"
)

// AdminDashboardMetrics folds the full registration snapshot into the
// dashboard counters. The "new since login" count keys off the admin's
// previous last_login_at stamp.
func AdminDashboardMetrics(svc *registrations.Service, userRepo *users.Repository, approvalMetrics *metrics.ApprovalMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var lastLogin *time.Time
		if adminUID := middleware.UserUUIDFromContext(r.Context()); adminUID != uuid.Nil && userRepo != nil {
			if admin, err := userRepo.FindByID(r.Context(), adminUID); err == nil {
				lastLogin = admin.LastLoginAt
			}
		}

		result := registrations.ComputeDashboardMetrics(snapshot, lastLogin, time.Now())
		approvalMetrics.SetWarningCount(result.Warnings)

		responses.WriteSuccess(w, result)
	}
}

// AdminAuditTrail lists the most recent admin actions.
func AdminAuditTrail(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
