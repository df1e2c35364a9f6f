package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dropDatabas3/smartbin/internal/audit"
	"github.com/dropDatabas3/smartbin/internal/cache"
	"github.com/dropDatabas3/smartbin/internal/config"
	"github.com/dropDatabas3/smartbin/internal/dualwrite"
	"github.com/dropDatabas3/smartbin/internal/email"
	"github.com/dropDatabas3/smartbin/internal/http/router"
	"github.com/dropDatabas3/smartbin/internal/ident"
	"github.com/dropDatabas3/smartbin/internal/metrics"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
	"github.com/dropDatabas3/smartbin/internal/rate"
	"github.com/dropDatabas3/smartbin/internal/store/hybrid"
	"github.com/dropDatabas3/smartbin/internal/store/mongo"
	"github.com/dropDatabas3/smartbin/internal/store/pg"
)

var version = "dev" // seteada en build con -ldflags

func main() {
	// .env opcional; las variables del sistema tienen prioridad
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "ruta al config.yaml")
	migrationsDir := flag.String("migrations", "migrations", "directorio de migraciones SQL")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		// todavía no hay logger configurado
		panic(err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "smartbin",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Stores ──
	pgStore, err := pg.New(ctx, pg.Config{
		DSN:             cfg.Storage.Postgres.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal("postgres init failed", logger.Err(err))
	}
	defer pgStore.Close()

	mongoStore, err := mongo.New(ctx, cfg.Storage.Mongo.URI, cfg.Storage.Mongo.Database)
	if err != nil {
		log.Fatal("mongo init failed", logger.Err(err))
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoStore.Close(cctx)
	}()

	if cfg.Flags.Migrate {
		if err := pgStore.RunMigrations(ctx, *migrationsDir); err != nil {
			log.Fatal("migrations failed", logger.Err(err))
		}
		log.Info("migrations applied")
	}
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		// índices faltantes degradan performance pero no bloquean el arranque
		log.Warn("mongo indexes", logger.Err(err))
	}
	seedSequences(ctx, log, pgStore, mongoStore)

	// ── Cache + coordinador ──
	memTTL, _ := time.ParseDuration(cfg.Cache.Memory.DefaultTTL)
	cacheCli, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: memTTL,
	})
	if err != nil {
		log.Fatal("cache init failed", logger.Err(err))
	}
	defer func() { _ = cacheCli.Close() }()

	if err := metrics.RegisterDualWrite(nil); err != nil {
		log.Fatal("metrics register failed", logger.Err(err))
	}
	if err := metrics.RegisterHTTP(nil); err != nil {
		log.Fatal("metrics register failed", logger.Err(err))
	}

	pending := dualwrite.NewPendingStore(cacheCli, cfg.PendingTTL())
	coord := dualwrite.New(mongoStore, pending, cfg.DualWrite.IDRetries)

	var alerter *email.Alerter
	if cfg.Email.Enabled && len(cfg.Email.AlertRecipients) > 0 {
		sender := email.NewSMTPSender(cfg.Email.Host, cfg.Email.Port, cfg.Email.From, cfg.Email.User, cfg.Email.Pass)
		if cfg.Email.TLSMode != "" {
			sender.TLSMode = cfg.Email.TLSMode
		}
		alerter = email.NewAlerter(sender, cfg.Email.AlertRecipients)
	}

	var ingestLimiter rate.Limiter
	if cfg.RateLimit.Enabled {
		window, _ := time.ParseDuration(cfg.RateLimit.Window)
		ingestLimiter, err = rate.New(rate.Config{
			Kind:   cfg.Cache.Kind,
			Addr:   cfg.Cache.Redis.Addr,
			DB:     cfg.Cache.Redis.DB,
			Prefix: cfg.Cache.Redis.Prefix + "rl:",
			Max:    cfg.RateLimit.Max,
			Window: window,
		})
		if err != nil {
			log.Fatal("rate limiter init failed", logger.Err(err))
		}
	}

	// ── Repositorios + router ──
	companies := hybrid.NewCompanyRepo(pgStore, mongoStore, coord)
	users := hybrid.NewUserRepo(pgStore, mongoStore, coord)
	containers := hybrid.NewContainerRepo(mongoStore, pgStore, pgStore)
	incidents := hybrid.NewIncidentRepo(mongoStore, pgStore, pgStore)
	sensors := hybrid.NewSensorReadingRepo(mongoStore)

	handler := router.New(router.Deps{
		Companies:          companies,
		Users:              users,
		Containers:         containers,
		Incidents:          incidents,
		Sensors:            sensors,
		Auditor:            audit.New(companies, users),
		Coordinator:        coord,
		IngestLimiter:      ingestLimiter,
		Alerter:            alerter,
		PostgresPinger:     pgStore,
		MongoPinger:        mongoStore,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Version:            version,
	})

	readTimeout, _ := time.ParseDuration(cfg.Server.ReadTimeout)
	writeTimeout, _ := time.ParseDuration(cfg.Server.WriteTimeout)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		log.Info("listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", logger.Err(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", logger.Err(err))
	}
}

// seedSequences alinea external_id_seq con el máximo ya observado por
// prefijo, para no reemitir ids usados tras restauraciones o cargas
// manuales. Best-effort: un fallo acá no bloquea el arranque porque la
// constraint de unicidad más el retry del coordinador cubren el hueco.
func seedSequences(ctx context.Context, log *zap.Logger, pgStore *pg.Store, mongoStore *mongo.Store) {
	seed := func(prefix string, max int64, err error) {
		if err != nil {
			log.Warn("sequence scan failed", logger.String("prefix", prefix), logger.Err(err))
			return
		}
		if max == 0 {
			return
		}
		if err := pgStore.EnsureSeqAtLeast(ctx, prefix, max); err != nil {
			log.Warn("sequence seed failed", logger.String("prefix", prefix), logger.Err(err))
		}
	}

	max, err := pgStore.MaxCompanySeq(ctx)
	seed(ident.PrefixCompany, max, err)
	max, err = mongoStore.MaxContainerSeq(ctx)
	seed(ident.PrefixContainer, max, err)
	max, err = mongoStore.MaxIncidentSeq(ctx)
	seed(ident.PrefixIncident, max, err)
}
