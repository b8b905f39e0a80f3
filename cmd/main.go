package main

import (
	"context"
	"crypto/rand"
	"errors"
	"eventdesk/cmd/buildCFG"
	"eventdesk/cmd/middleware"
	"eventdesk/internal/api/api"
	"eventdesk/internal/config"
	rabbitReader "eventdesk/internal/consumerWorker"
	"eventdesk/internal/form"
	"eventdesk/internal/gateway"
	"eventdesk/internal/legacy"
	"eventdesk/internal/mailer"
	"eventdesk/internal/rabbit"
	"eventdesk/internal/render"
	"eventdesk/internal/scanner"
	"eventdesk/internal/service"
	"eventdesk/internal/store"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	loader := config.NewLoader()
	if err := loader.DefineFlags(); err != nil {
		log.Fatal().Err(err).Msg("failed to define flags")
	}
	loader.ParseFlags()

	cfg, err := loader.Load(loader.ConfigPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := zlog.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping default")
	}
	log.Info().Str("env", cfg.App.Environment).Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	migrateDown := cfg.Legacy.Postgres.MigrateDown
	legacyStore, closeLegacy := openLegacy(ctx, cfg, &log, migrateDown)
	defer closeLegacy()
	if migrateDown {
		return
	}

	gw, err := gateway.New(buildCFG.BuildGatewayConfig(cfg), &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build gateway client")
	}

	st := store.New(gw, &log)
	if err := st.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial refresh incomplete")
	}
	if err := st.LoadProfile(ctx); err != nil {
		log.Info().Err(err).Msg("no profile loaded, registration forms start empty")
	}
	if err := st.RefreshMine(ctx); err != nil {
		log.Info().Err(err).Msg("own registrations not loaded")
	}

	var notifier form.Notifier
	var reader *rabbitReader.Reader
	if rabbitCfg := buildCFG.BuildRabbitConfig(cfg); rabbitCfg != nil {
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()
		notifier = rmq
		reader = rabbitReader.NewReader(rmq, st, rmq.Origin(), &log)
		reader.Start(ctx)
	} else {
		log.Info().Msg("rabbit url not set, change notices disabled")
	}

	var mail form.Mailer
	if mailCfg := buildCFG.BuildMailerConfig(cfg); mailCfg != nil {
		mail = mailer.New(*mailCfg, &log)
	}

	var widget scanner.Widget
	var remote *scanner.RemoteWidget
	switch cfg.Console.Scanner {
	case "stdin":
		lw := scanner.NewLineWidget(os.Stdin)
		go func() {
			select {
			case <-lw.Done():
				log.Warn().Msg("stdin closed, scanner input ended")
			case <-ctx.Done():
			}
		}()
		widget = lw
	default:
		remote = scanner.NewRemoteWidget()
		widget = remote
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	svc := service.NewService(ctx, service.Deps{
		Store:        st,
		Events:       form.NewEventModal(gw, st, notifier, &log),
		Registration: form.NewRegistrationModal(gw, st, mail, notifier, &log),
		Scanner:      scanner.New(widget, st, &log),
		Remote:       remote,
		Legacy:       legacyStore,
		Fallback:     cfg.Legacy.Fallback,
		Renderer:     renderer,
		RecentLimit:  cfg.Console.RecentLimit,
		Log:          &log,
	})

	routers := &api.Routers{Service: svc, Log: &log, Mode: cfg.Server.Mode}
	if key := csrfKey(cfg, &log); key != nil {
		routers.CSRF = middleware.CSRF(key, cfg.Console.SecureCookie, &log)
	}
	app := api.NewRouters(routers)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Str("signal", sig.String()).Msg("initiating shutdown")
	case err := <-serverErrChan:
		log.Error().Err(err).Msg("server error")
	}

	cancel()
	if reader != nil {
		reader.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}
	log.Info().Msg("shutdown complete")
}

// openLegacy connects the superseded key-value store when it is enabled.
// The returned func releases whatever was opened.
func openLegacy(ctx context.Context, cfg *config.Config, log *zerolog.Logger, migrateDown bool) (*legacy.Store, func()) {
	noop := func() {}
	if !cfg.Legacy.Enabled {
		if migrateDown {
			log.Fatal().Msg("--migrate-down needs legacy.enabled")
		}
		return nil, noop
	}

	var kv legacy.KV
	closeFn := noop
	switch cfg.Legacy.Backend {
	case "postgres":
		masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build DB config")
		}
		db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to DB")
		}
		pg, err := legacy.NewPostgresKV(db, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize legacy postgres store")
		}
		closeFn = func() { _ = db.Master.Close() }

		dir := cfg.Legacy.Postgres.MigrationsDir
		if !filepath.IsAbs(dir) {
			cwd, err := os.Getwd()
			if err != nil {
				log.Fatal().Err(err).Msg("cannot get working directory")
			}
			dir = filepath.Join(cwd, dir)
		}
		if migrateDown {
			if err := pg.MigrateDown(ctx, dir); err != nil {
				log.Fatal().Err(err).Msg("failed to roll back migrations")
			}
			log.Info().Msg("migrations rolled back")
			return nil, closeFn
		}
		if err := pg.MigrateUp(ctx, dir); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations applied")
		kv = pg
	default:
		if migrateDown {
			log.Fatal().Msg("--migrate-down needs the postgres backend")
		}
		opts, err := buildCFG.BuildRedisOptions(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid legacy redis url")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		closeFn = func() { _ = client.Close() }
		kv = legacy.NewRedisKV(client, cfg.Legacy.Redis.Prefix)
	}

	ls := legacy.New(kv, log)
	if cfg.Legacy.Seed {
		seeded, err := ls.SeedDefaultEvents(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to seed legacy events")
		} else if seeded {
			log.Info().Msg("legacy store seeded with default events")
		}
	}
	return ls, closeFn
}

// csrfKey returns nil when protection is off. A configured key keeps tokens
// valid across restarts; "random" mints one per process.
func csrfKey(cfg *config.Config, log *zerolog.Logger) []byte {
	switch cfg.Console.CSRFKey {
	case "":
		return nil
	case "random":
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatal().Err(err).Msg("failed to generate csrf key")
		}
		log.Warn().Msg("using a per-process csrf key, open forms break on restart")
		return key
	default:
		return []byte(cfg.Console.CSRFKey)
	}
}
