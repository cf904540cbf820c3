package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
)

type RouterConfig struct {
	Service      *appointment.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
	CORSOrigins  []string
	RateLimitRPS int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", headerRequestID, headerUserID, headerUserRole},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	}))

	if cfg.RateLimitRPS > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitRPS, time.Second))
	}

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	svc := cfg.Service
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(IdentityMiddleware)

		r.Get("/doctors", listDoctorsHandler(svc))
		r.Get("/specialties", listSpecialtiesHandler(svc))
		r.Get("/doctors/{doctorID}/slots", slotsHandler(svc))

		r.Route("/appointments", func(r chi.Router) {
			r.With(RequireRole(appointment.RolePatient)).Post("/", createAppointmentHandler(svc))
			r.Get("/", listAppointmentsHandler(svc))
			r.Get("/stats", statsHandler(svc))
			r.Get("/{id}", getAppointmentHandler(svc))
			r.Get("/{id}/history", appointmentHistoryHandler(svc))
			r.Post("/{id}/cancel", cancelAppointmentHandler(svc))
			r.With(RequireRole(appointment.RoleDoctor)).Patch("/{id}/status", updateStatusHandler(svc))
		})

		r.Route("/doctor", func(r chi.Router) {
			r.Use(RequireRole(appointment.RoleDoctor))

			r.Get("/schedule", listScheduleHandler(svc))
			r.Post("/schedule", createScheduleHandler(svc))
			r.Patch("/schedule/{id}", updateScheduleHandler(svc))
			r.Delete("/schedule/{id}", deleteScheduleHandler(svc))

			r.Get("/blackouts", listBlackoutsHandler(svc))
			r.Post("/blackouts", createBlackoutHandler(svc))
			r.Post("/blackouts/check", checkBlackoutHandler(svc))
			r.Delete("/blackouts/{id}", deleteBlackoutHandler(svc))
		})
	})

	return r
}
