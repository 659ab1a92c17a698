package api

import (
	"log/slog"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter mounts every route of the API under common.APIPrefix.
// requestLogger receives one ECS record per request.
func NewRouter(h *Handler, secretKey []byte, allowedOrigins []string, requestLogger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(requestLogger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route(common.APIPrefix, func(r chi.Router) {
		r.Get("/ping", h.Ping)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(AuthRequired(secretKey))

			r.Route("/tenants/{tenantID}", func(r chi.Router) {
				r.Use(TenantAccess)

				r.Post("/time-entries", h.SaveTimeEntry)
				r.Post("/time-adjustments", h.CreateTimeAdjustment)
				r.Post("/leave-requests", h.CreateLeaveRequest)
				r.Put("/leave-requests/{id}", h.UpdateLeaveRequest)
				r.Post("/expense-claims", h.CreateExpenseClaim)
				r.Put("/expense-claims/{id}", h.UpdateExpenseClaim)
				r.Post("/uploads", h.CreateUpload)

				r.Route("/users/{userID}", func(r chi.Router) {
					r.Use(TenantAccess)

					r.Get("/time-entries", h.ListTimeEntries)
					r.Get("/time-adjustments", h.ListTimeAdjustments)
					r.Get("/leave-requests", h.ListLeaveRequests)
					r.Get("/leave-balances", h.LeaveBalances)
					r.Get("/expense-claims", h.ListExpenseClaims)
				})
			})
		})
	})

	return r
}

// ECSHandlerOptions formats slog attributes the way httplog's ECS schema expects.
func ECSHandlerOptions(level slog.Level) *slog.HandlerOptions {
	logFormat := httplog.SchemaECS.Concise(false)
	return &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	}
}
