package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
	"github.com/hackgods/clinic-appointment-scheduling/internal/db"
	"github.com/hackgods/clinic-appointment-scheduling/internal/observability"
	"github.com/hackgods/clinic-appointment-scheduling/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	observability.InitLogger("seed", cfg.Env, cfg.LogLevel)

	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatal().Str("store", cfg.StoreDriver).Msg("seed writes to Postgres; set STORE_DRIVER=postgres")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SEED_DOCTORS", 100)
	v.SetDefault("SEED_PATIENTS", 9000)
	v.SetDefault("SEED_RANDOM_SEED", 0)

	opts := seed.Options{
		Doctors:  v.GetInt("SEED_DOCTORS"),
		Patients: v.GetInt("SEED_PATIENTS"),
		Seed:     v.GetUint64("SEED_RANDOM_SEED"),
	}
	log.Info().Int("doctors", opts.Doctors).Int("patients", opts.Patients).Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, "clinic-seed")
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	n, err := db.Migrate(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	log.Info().Int("applied", n).Msg("schema migrations applied")

	repo := appointment.NewPgRepository(pool)
	svc := appointment.NewService(repo, nil, cfg)

	start := time.Now()
	if err := seed.Load(ctx, repo, svc, seed.Generate(opts)); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	log.Info().Dur("took", time.Since(start)).Msg("seed complete")
}
