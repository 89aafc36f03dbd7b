// Command api runs the users HTTP API.
//
// @title                       Users API
// @version                     1.0
// @description                 User signup/login with JWT, per-request audit log and a date difference calculator.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/api"
	"github.com/99minutos/users-api/internal/core/ports"
	"github.com/99minutos/users-api/internal/core/service"
	"github.com/99minutos/users-api/internal/infrastructure/config"
	mongostore "github.com/99minutos/users-api/internal/infrastructure/db/mongo"
	rediscache "github.com/99minutos/users-api/internal/infrastructure/db/redis"
	"github.com/99minutos/users-api/internal/infrastructure/db/sqlstore"
	"github.com/99minutos/users-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/users-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// stores bundles the repositories of the selected adapter with their
// readiness checks and a release function.
type stores struct {
	users  ports.UserRepository
	logs   ports.RequestLogRepository
	checks map[string]handlers.Check
	close  func()
}

func main() {
	os.Exit(serve())
}

// serve returns the process exit code so deferred cleanup runs before exit.
func serve() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "users-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	var cache service.UserCache
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		cache = rediscache.NewUserCache(rdb, cfg.Redis.UserTTL)
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("identity cache enabled")
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	authService := service.NewAuthService(st.users, tokens, cache, log)
	auditService := service.NewAuditService(st.logs, log)

	e := api.NewRouter(authService, auditService, st.checks, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("db_adapter", cfg.Database.Adapter).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Database.Adapter {
	case config.AdapterMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewUserRepository(db)
		logs := mongostore.NewRequestLogRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, logs); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &stores{
			users: users,
			logs:  logs,
			checks: map[string]handlers.Check{
				"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		dialect, dsn := sqlstore.DialectSQLite, cfg.Database.SQLitePath
		if cfg.Database.Adapter == config.AdapterPostgres {
			dialect, dsn = sqlstore.DialectPostgres, cfg.Database.PostgresDSN
		}
		db, err := sqlstore.Open(ctx, sqlstore.Config{
			Dialect: dialect,
			DSN:     dsn,
			Migrate: cfg.Database.AutoMigrate,
			Log:     log,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("dialect", dialect).Msg("connected to database")
		return &stores{
			users: sqlstore.NewUserRepository(db),
			logs:  sqlstore.NewRequestLogRepository(db),
			checks: map[string]handlers.Check{
				dialect: func(ctx context.Context) error { return sqlstore.Ping(ctx, db) },
			},
			close: func() { _ = sqlstore.Close(db) },
		}, nil
	}
}
