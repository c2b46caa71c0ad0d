package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	TimeOff  TimeOffHandler
	Employee EmployeeHandler
	Period   PeriodHandler
	Event    EventHandler
}

func NewRouter(logger *slog.Logger, JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Authenticated by the short-lived token in the query string
		r.Get("/events", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireTenant)

			r.Post("/events/token", h.Event.GetSSEToken)

			r.Route("/time-off", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionTimeOffCreate)).Post("/", h.TimeOff.CreateRequest)
					r.With(middleware.RequirePermission(user.PermissionTimeOffViewOwn)).Get("/my", h.TimeOff.GetMyRequests)
					r.Get("/{id}", h.TimeOff.GetRequest)
					r.Post("/{id}/cancel", h.TimeOff.CancelRequest)
					r.With(middleware.RequirePermission(user.PermissionTimeOffManage)).Delete("/{id}", h.TimeOff.DeleteRequest)
				})

				r.Route("/approvals", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeOffApprove))
					r.Get("/pending", h.TimeOff.ListPendingApprovals)
					r.Get("/{id}", h.TimeOff.GetApproval)
					r.Post("/{id}/approve", h.TimeOff.ApproveRequest)
					r.Post("/{id}/reject", h.TimeOff.RejectRequest)
				})

				r.Route("/types", func(r chi.Router) {
					r.Get("/", h.TimeOff.ListTypes)
					r.Get("/{id}", h.TimeOff.GetType)

					// Type administration
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionTimeOffManageTypes))
						r.Post("/", h.TimeOff.CreateType)
						r.Put("/{id}", h.TimeOff.UpdateType)
						r.Delete("/{id}", h.TimeOff.DeleteType)
					})
				})
			})

			r.Route("/periods", func(r chi.Router) {
				r.Get("/", h.Period.List)
				r.Get("/current", h.Period.Current)
			})

			r.Route("/employees/me", func(r chi.Router) {
				r.Get("/", h.Employee.GetMe)
				r.With(middleware.RequirePermission(user.PermissionEmployeeTeam)).Get("/direct-reports", h.Employee.ListMyDirectReports)
			})
		})
	})

	return r
}
