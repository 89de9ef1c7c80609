package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "idx_pro/internal/adapters/http_server"
	"idx_pro/internal/adapters/observability"
	redisad "idx_pro/internal/adapters/redis"
	"idx_pro/internal/adapters/repliers"
	"idx_pro/internal/app"
	"idx_pro/internal/domain"
	"idx_pro/internal/shared"
	mysqlrepo "idx_pro/internal/storage/mysql"
	"idx_pro/internal/storage/sample"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// startup check, not a module-load side effect: a missing key just means
	// every query serves sample data
	if !cfg.KeyConfigured() {
		log.Warn().Msg("REPLIERS_API_KEY is empty, serving sample data fallback")
	}

	observability.Serve()

	// lead persistence is optional; the contact flow acks without it
	var leadRepo domain.LeadRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("lead database connection ok")
		leadRepo = mysqlrepo.New(db)
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	// deps
	provider := repliers.New(cfg.RepliersBase, cfg.RepliersKey, 5)
	samples := sample.NewStore()
	listings := app.NewListingService(provider, samples, cache, cfg.CacheTTL, cfg.CDNBase, cfg.KeyConfigured())
	leads := app.NewLeadService(provider, leadRepo, cfg.ForwardWorkers)
	defer leads.Drain()

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Listings: listings, Samples: samples, Leads: leads})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
