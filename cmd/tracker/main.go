package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cruisewatch/internal/adapters/observability"
	"cruisewatch/internal/adapters/pocruises"
	"cruisewatch/internal/adapters/princess"
	redisad "cruisewatch/internal/adapters/redis"
	"cruisewatch/internal/app"
	"cruisewatch/internal/shared"
	"cruisewatch/internal/storage/configfile"
	mysqlrepo "cruisewatch/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv).With().
		Str("run_id", uuid.NewString()).Logger()

	observability.Serve(observability.InitRegistry())

	runDate := time.Now().UTC()
	log.Info().
		Str("date", runDate.Format("2006-01-02")).
		Float64("usd_to_gbp", cfg.USDToGBP).
		Str("usd_rate_as_of", cfg.USDRateAsOf).
		Msg("tracker starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema creation failed")
	}
	log.Info().Msg("db ready")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	store := configfile.New(cfg.DataDir)
	svc := app.NewRunService(repo, cache)

	removals, err := store.LoadRemovals()
	if err != nil {
		log.Fatal().Err(err).Msg("load removal log failed")
	}

	adapters := []app.Adapter{
		app.NewPOAdapter(pocruises.New(cfg.POBase, cfg.RequestTimeout, cfg.RequestsPerSecond)),
		app.NewPrincessAdapter(princess.New(cfg.PrincessBase, cfg.PrincessClientID, cfg.RequestTimeout, cfg.RequestsPerSecond), cfg.USDToGBP),
	}

	for _, ad := range adapters {
		provider := ad.Tag()
		pcfg, err := store.LoadProvider(provider)
		if err != nil {
			log.Error().Err(err).Str("provider", string(provider)).Msg("config load failed, provider skipped")
			continue
		}

		result, err := svc.RunProvider(ctx, ad, pcfg, runDate)
		if err != nil {
			// Persistence failures abort before any config rewrite so no
			// cruise is dropped while its data is unsaved.
			log.Fatal().Err(err).Str("provider", string(provider)).Msg("run aborted")
		}

		pcfg.Retain(result.Tracked)
		removals = append(removals, result.Removals...)
		// Removal log and config are committed per provider, log first, so a
		// crash before the second provider cannot leave a pruned config with
		// no matching removal records.
		if err := store.CommitRun(provider, pcfg, removals); err != nil {
			log.Fatal().Err(err).Str("provider", string(provider)).Msg("config write failed")
		}

		log.Info().
			Str("provider", string(provider)).
			Int("tracked", len(result.Tracked)).
			Int("removed", len(result.Removals)).
			Int("rows", result.Rows).
			Msg("provider run complete")
	}

	log.Info().Msg("tracker finished")
}
