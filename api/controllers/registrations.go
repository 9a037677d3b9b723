package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/api/middleware"
	"github.com/mijnfegon/mijnfegon-backend/api/responses"
	"github.com/mijnfegon/mijnfegon-backend/api/validators"
	"github.com/mijnfegon/mijnfegon-backend/internal/registrations"
	"github.com/mijnfegon/mijnfegon-backend/internal/users"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/pagination"
)

// SubmitRegistrationRequest is the installer-facing submission body.
type SubmitRegistrationRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required"`
	CustomerAddress string  `json:"customer_address" validate:"required"`
	CustomerCity    *string `json:"customer_city,omitempty"`
	CustomerZipcode *string `json:"customer_zipcode,omitempty"`
	CustomerEmail   *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone   *string `json:"customer_phone,omitempty"`

	ProductBrand            string     `json:"product_brand" validate:"required"`
	ProductModel            string     `json:"product_model" validate:"required"`
	ProductSerialNumber     string     `json:"product_serial_number" validate:"required"`
	ProductInstallationDate *time.Time `json:"product_installation_date,omitempty"`

	ConsentWarranty  bool `json:"consent_warranty"`
	ConsentMarketing bool `json:"consent_marketing"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type linkInstallerRequest struct {
	InstallerUID string `json:"installer_uid" validate:"required,uuid"`
}

// SubmitRegistration records a new installation for the authenticated installer.
func SubmitRegistration(svc *registrations.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body SubmitRegistrationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		installerUID := middleware.UserUUIDFromContext(r.Context())
		if installerUID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		installer, err := userRepo.FindByID(r.Context(), installerUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unknown installer"))
			return
		}

		dto := registrations.CreateRegistrationDTO{
			InstallerUID:     &installer.ID,
			InstallerEmail:   installer.Email,
			InstallerName:    installer.Name,
			InstallerCompany: installer.CompanyName,

			CustomerName:    body.CustomerName,
			CustomerAddress: body.CustomerAddress,
			CustomerCity:    body.CustomerCity,
			CustomerZipcode: body.CustomerZipcode,
			CustomerEmail:   body.CustomerEmail,
			CustomerPhone:   body.CustomerPhone,

			ProductBrand:            body.ProductBrand,
			ProductModel:            body.ProductModel,
			ProductSerialNumber:     body.ProductSerialNumber,
			ProductInstallationDate: body.ProductInstallationDate,

			ConsentWarranty:  body.ConsentWarranty,
			ConsentMarketing: body.ConsentMarketing,
		}

		result, err := svc.Submit(r.Context(), dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MyRegistrations lists the authenticated installer's own submissions.
func MyRegistrations(svc *registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		installerUID := middleware.UserUUIDFromContext(r.Context())
		if installerUID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		items, err := svc.ListMine(r.Context(), installerUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// RegistrationDetail returns one registration with its full analysis. Admins
// see everything, installers only their own rows.
func RegistrationDetail(svc *registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "registrationId"), "registrationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reg, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) {
			caller := middleware.UserUUIDFromContext(r.Context())
			if reg.InstallerUID == nil || *reg.InstallerUID != caller {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found"))
				return
			}
		}

		responses.WriteSuccess(w, reg)
	}
}

// AdminListRegistrations serves the cursor-paginated admin queue.
func AdminListRegistrations(svc *registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := registrations.ListFilter{}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseRegistrationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("installer_uid"); raw != "" {
			installerUID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid installer filter"))
				return
			}
			filter.InstallerUID = &installerUID
		}

		items, nextCursor, err := svc.ListPage(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":       items,
			"next_cursor": nextCursor,
		})
	}
}

// AdminApproveRegistration pushes a pending registration to Compenda. The
// local row is not touched here; the approval lands through the event worker.
func AdminApproveRegistration(svc *registrations.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "registrationId"), "registrationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor, err := adminActor(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Approve(r.Context(), id, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminSetRegistrationStatus applies a manual status override.
func AdminSetRegistrationStatus(svc *registrations.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "registrationId"), "registrationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseRegistrationStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		actor, err := adminActor(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetStatus(r.Context(), id, status, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}

// AdminDeleteRegistration removes a registration permanently.
func AdminDeleteRegistration(svc *registrations.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "registrationId"), "registrationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor, err := adminActor(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminLinkInstaller claims an imported registration for an installer account.
func AdminLinkInstaller(svc *registrations.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "registrationId"), "registrationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body linkInstallerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		installerUID, err := uuid.Parse(body.InstallerUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "installer_uid must be a uuid"))
			return
		}

		actor, err := adminActor(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.LinkInstaller(r.Context(), id, installerUID, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "linked"})
	}
}

// AdminImportRegistrations ingests a CSV export as unlinked registrations.
// Row failures are reported in the summary, they do not fail the upload.
func AdminImportRegistrations(importer *registrations.Importer, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv upload under field 'file' is required"))
			return
		}
		defer file.Close()

		rows, err := registrations.ParseCSV(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor, err := adminActor(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, importErr := importer.Import(r.Context(), rows, actor)
		if importErr != nil && logg != nil {
			logg.Error(r.Context(), "import finished with row failures", importErr)
		}
		responses.WriteSuccess(w, summary)
	}
}

func adminActor(ctx context.Context, userRepo *users.Repository) (registrations.AdminActor, error) {
	adminUID := middleware.UserUUIDFromContext(ctx)
	if adminUID == uuid.Nil {
		return registrations.AdminActor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	actor := registrations.AdminActor{UID: adminUID}
	if userRepo != nil {
		if admin, err := userRepo.FindByID(ctx, adminUID); err == nil {
			actor.Email = admin.Email
		}
	}
	return actor, nil
}
