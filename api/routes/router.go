package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mijnfegon/mijnfegon-backend/api/controllers"
	"github.com/mijnfegon/mijnfegon-backend/api/middleware"
	"github.com/mijnfegon/mijnfegon-backend/internal/auditlog"
	"github.com/mijnfegon/mijnfegon-backend/internal/auth"
	"github.com/mijnfegon/mijnfegon-backend/internal/points"
	"github.com/mijnfegon/mijnfegon-backend/internal/registrations"
	"github.com/mijnfegon/mijnfegon-backend/internal/shop"
	"github.com/mijnfegon/mijnfegon-backend/internal/users"
	"github.com/mijnfegon/mijnfegon-backend/pkg/auth/session"
	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/metrics"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *db.Client
	Redis   controllers.Pinger
	Session session.AccessSessionChecker

	AuthService     auth.Service
	Registrations   *registrations.Service
	Importer        *registrations.Importer
	UserRepo        *users.Repository
	PointsService   points.Service
	AuditService    auditlog.Service
	ShopService     shop.Service
	ShopRepo        shop.Repository
	ApprovalMetrics *metrics.ApprovalMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	pingers := map[string]controllers.Pinger{
		"redis": deps.Redis,
	}
	if deps.DB != nil {
		pingers["postgres"] = deps.DB
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))

		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", controllers.SubmitRegistration(deps.Registrations, deps.UserRepo, logg))
			r.Get("/mine", controllers.MyRegistrations(deps.Registrations, logg))
			r.Get("/{registrationId}", controllers.RegistrationDetail(deps.Registrations, logg))
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.Me(deps.UserRepo, logg))
			r.Put("/", controllers.UpdateMyProfile(deps.UserRepo, logg))
			r.Get("/points", controllers.MyPointsHistory(deps.PointsService, logg))
			r.Get("/orders", controllers.MyOrders(deps.ShopService, logg))
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/products", controllers.ShopCatalog(deps.ShopService, logg))
			r.Get("/products/{productId}", controllers.ShopProductDetail(deps.ShopService, logg))
			r.Post("/redeem", controllers.ShopRedeem(deps.ShopService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/registrations", func(r chi.Router) {
			r.Get("/", controllers.AdminListRegistrations(deps.Registrations, logg))
			r.Get("/{registrationId}", controllers.RegistrationDetail(deps.Registrations, logg))
			r.Post("/{registrationId}/approve", controllers.AdminApproveRegistration(deps.Registrations, deps.UserRepo, logg))
			r.Post("/{registrationId}/status", controllers.AdminSetRegistrationStatus(deps.Registrations, deps.UserRepo, logg))
			r.Delete("/{registrationId}", controllers.AdminDeleteRegistration(deps.Registrations, deps.UserRepo, logg))
			r.Post("/{registrationId}/link-installer", controllers.AdminLinkInstaller(deps.Registrations, deps.UserRepo, logg))
			r.Post("/import", controllers.AdminImportRegistrations(deps.Importer, deps.UserRepo, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/metrics", controllers.AdminDashboardMetrics(deps.Registrations, deps.UserRepo, deps.ApprovalMetrics, logg))
			r.Get("/audit", controllers.AdminAuditTrail(deps.AuditService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.UserRepo, logg))
			r.Post("/{userId}/points", controllers.AdminAdjustPoints(deps.DB, deps.PointsService, deps.UserRepo, deps.AuditService, logg))
		})

		r.Route("/shop", func(r chi.Router) {
			r.Post("/products", controllers.AdminCreateProduct(deps.ShopRepo, logg))
			r.Patch("/products/{productId}", controllers.AdminUpdateProduct(deps.ShopService, deps.ShopRepo, logg))
			r.Post("/orders/{orderId}/ship", controllers.AdminShipOrder(deps.ShopService, logg))
		})
	})

	return r
}
