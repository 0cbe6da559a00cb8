package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laikavet/internal/adapters/notify/kafka"
	"laikavet/internal/adapters/notify/rabbitmq"
	"laikavet/internal/adapters/payments/httpgateway"
	"laikavet/internal/adapters/payments/simulated"
	pg "laikavet/internal/adapters/storage/postgres"
	"laikavet/internal/adapters/storage/seed"
	"laikavet/internal/config"
	"laikavet/internal/jobs/reminders"
	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/notify"
	"laikavet/internal/ports/payments"
	"laikavet/internal/router"

	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var rdb *goredis.Client
	if cfg.Sessions.Backend == "redis" {
		rdb = goredis.NewClient(&goredis.Options{Addr: cfg.Sessions.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	notifier, closeNotifier, err := openNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	gateway, err := newGateway(cfg, log)
	if err != nil {
		return err
	}

	app, err := router.New(router.Options{
		DB:                db,
		Redis:             rdb,
		Notifier:          notifier,
		Gateway:           gateway,
		Logger:            log,
		JWTSecret:         cfg.Sessions.JWTSecret,
		SessionTTL:        cfg.Sessions.TTL,
		AuthDelay:         cfg.Auth.Latency,
		CacheSize:         cfg.Cache.Size,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		AllowDebugHeaders: cfg.IsLocal(),
	})
	if err != nil {
		return err
	}

	c := cron.New()
	if _, err := reminders.Schedule(c, cfg.Jobs.ReminderCron, reminders.New(app.Appointments, log)); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           app,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"env":      string(cfg.App.Env),
			"postgres": db != nil,
			"sessions": cfg.Sessions.Backend,
			"notifier": cfg.Notify.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openDB devuelve nil sin DB_DSN (modo in-memory). Con una base vacía carga
// los datos demo.
func openDB(ctx context.Context, cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		return nil, nil
	}

	db, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := pg.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	empty, err := pg.IsEmpty(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if empty {
		err := seed.Load(ctx, seed.Targets{
			Users:        pg.NewUsersRepo(db),
			Patients:     pg.NewPatientsRepo(db),
			Products:     pg.NewProductsRepo(db),
			Appointments: pg.NewAppointmentsRepo(db),
			Orders:       pg.NewOrdersRepo(db),
			Sales:        pg.NewSalesRepo(db),
		}, time.Now())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		log.Info("database seeded", nil)
	}
	return db, nil
}

func openNotifier(cfg *config.Config) (notify.Notifier, func(), error) {
	switch cfg.Notify.Backend {
	case "kafka":
		n := kafka.NewNotifier(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		return n, func() { _ = n.Close() }, nil
	case "rabbitmq":
		n, err := rabbitmq.Dial(cfg.Notify.RabbitMQURL, cfg.Notify.RabbitMQQueue)
		if err != nil {
			return nil, nil, err
		}
		return n, func() { _ = n.Close() }, nil
	case "", "log":
		// router usa el notifier de log por defecto
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifier %q", cfg.Notify.Backend)
	}
}

func newGateway(cfg *config.Config, log logger.Logger) (payments.Gateway, error) {
	if cfg.Payments.GatewayURL != "" {
		return httpgateway.New(cfg.Payments.GatewayURL, 0, log)
	}
	return simulated.New(cfg.Payments.Latency, nil), nil
}
