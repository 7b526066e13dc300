// Command server runs the activity log API: the append endpoint used by
// backend reporters, the history endpoints used by the admin panel, and the
// operational surface (health, metrics). Business logic lives in internal
// packages; main only wires dependencies and owns the process lifecycle.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"bitacora/internal/activity/handler"
	activitymetrics "bitacora/internal/activity/metrics"
	"bitacora/internal/activity/mirror"
	"bitacora/internal/activity/service"
	"bitacora/internal/activity/store"
	"bitacora/internal/activity/store/memory"
	storepostgres "bitacora/internal/activity/store/postgres"
	"bitacora/internal/actors"
	httpapi "bitacora/internal/http"
	jwttoken "bitacora/internal/jwt_token"
	"bitacora/internal/platform/config"
	"bitacora/internal/platform/httpserver"
	"bitacora/internal/platform/logger"
	platformredis "bitacora/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := activitymetrics.New()

	// Storage: Postgres when configured, in-memory otherwise (dev mode).
	var (
		activityStore store.Store
		directory     actors.Directory
		db            *sql.DB
	)
	if cfg.Database.URL != "" {
		var err error
		db, err = openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		pgStore := storepostgres.New(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure activity schema: %w", err)
		}
		actorStore := actors.NewPostgres(db)
		if err := actorStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure actors schema: %w", err)
		}
		activityStore = pgStore
		directory = actorStore
		log.Info("using postgres storage")
	} else {
		activityStore = memory.NewInMemory()
		directory = actors.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Actor display names are hot on every feed render; cache them when
	// redis is configured.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		directory = actors.NewCachedDirectory(directory, redisClient.Client,
			actors.WithTTL(config.ActorCacheTTL))
		log.Info("actor directory cache enabled")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// Kafka mirror for downstream consumers, only when brokers are set.
	var recordSink service.RecordSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Kafka.Brokers...),
			kgo.DefaultProduceTopic(cfg.Kafka.Topic),
		)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafkaClient.Close()

		activityMirror := mirror.New(kafkaClient, cfg.Kafka.Topic,
			mirror.WithLogger(log),
			mirror.WithMetrics(metrics),
		)
		recordSink = activityMirror
		group.Go(func() error {
			if err := activityMirror.Run(groupCtx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("activity mirror enabled", "topic", cfg.Kafka.Topic)
	}

	recorderOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
	}
	if recordSink != nil {
		recorderOpts = append(recorderOpts, service.WithMirror(recordSink))
	}
	recorder := service.NewRecorder(activityStore, recorderOpts...)
	query := service.NewQuery(activityStore,
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithDirectory(directory),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	activityHandler := handler.New(recorder, query, log, jwtService, cfg.APIKeyHash)

	checks := map[string]httpapi.HealthChecker{}
	if db != nil {
		checks["database"] = databaseCheck{db: db}
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Activity: activityHandler,
		Checks:   checks,
	})
	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("starting activity server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

type databaseCheck struct {
	db *sql.DB
}

func (c databaseCheck) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
