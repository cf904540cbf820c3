package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-appointment-scheduling/internal/api"
	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
	"github.com/hackgods/clinic-appointment-scheduling/internal/db"
	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
	redisclient "github.com/hackgods/clinic-appointment-scheduling/internal/redis"
	"github.com/hackgods/clinic-appointment-scheduling/internal/seed"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	observability.InitLogger("api-server", cfg.Env, cfg.LogLevel)
	log.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("store", cfg.StoreDriver).
		Str("timezone", cfg.Timezone).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo   appointment.Repository
		pgPool *pgxpool.Pool
	)

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN, "clinic-api")
		cancelPg()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection error")
		}
		defer pgPool.Close()
		log.Info().Msg("connected to Postgres")

		if cfg.AutoMigrate {
			n, err := db.Migrate(pgPool)
			if err != nil {
				log.Fatal().Err(err).Msg("migration error")
			}
			log.Info().Int("applied", n).Msg("schema migrations applied")
		}
		repo = appointment.NewPgRepository(pgPool)

	case config.StoreDriverMemory:
		repo = appointment.NewMemoryRepository()
		log.Warn().Msg("using in-memory store; data is lost on restart")
	}

	var (
		rdb    *redis.Client
		locker redisclient.Locker
	)
	if cfg.RedisAddr != "" {
		rdb, err = redisclient.NewRedisClient(rootCtx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing redis")
			}
		}()
		locker = redisclient.NewRedisDayLocker(rdb, cfg.LockTTL)
		log.Info().Dur("lock_ttl", cfg.LockTTL).Msg("connected to Redis")
	} else {
		log.Info().Msg("REDIS_ADDR not set; relying on store locks only")
	}

	svc := appointment.NewService(repo, locker, cfg)

	if mem, ok := repo.(*appointment.MemoryRepository); ok {
		seedMemoryStore(rootCtx, mem, svc)
	}

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterConfig{
			Service:      svc,
			PgPool:       pgPool,
			Redis:        rdb,
			Env:          cfg.Env,
			Version:      version,
			CORSOrigins:  cfg.CORSOrigins,
			RateLimitRPS: cfg.RateLimitRPS,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-rootCtx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedMemoryStore gives a fresh in-memory store a small directory so the API
// is usable without Postgres.
func seedMemoryStore(ctx context.Context, repo *appointment.MemoryRepository, svc *appointment.Service) {
	dir := seed.Generate(seed.Options{Doctors: 3, Patients: 10})
	if err := seed.Load(ctx, repo, svc, dir); err != nil {
		log.Fatal().Err(err).Msg("seed memory store")
	}
	for _, d := range dir.Doctors {
		log.Info().Str("doctor_id", d.ID.String()).Str("name", d.Name).Msg("demo doctor")
	}
	for _, p := range dir.Patients[:3] {
		log.Info().Str("patient_id", p.ID.String()).Str("name", p.Name).Msg("demo patient")
	}
}
