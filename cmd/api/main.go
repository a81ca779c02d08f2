package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/unique-fitness/gym-admin-api/internal/adapters/httpapi"
	memannouncementrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/announcementrepo"
	memdietplanrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/dietplanrepo"
	memidempotency "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/memberrepo"
	memplanrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/planrepo"
	memvideorepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/videorepo"
	postgres "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres"
	pgannouncementrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres/announcementrepo"
	pgdietplanrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres/dietplanrepo"
	pgidempotency "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres/memberrepo"
	pgplanrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres/planrepo"
	redisadapter "github.com/unique-fitness/gym-admin-api/internal/adapters/redis"
	redisvideorepo "github.com/unique-fitness/gym-admin-api/internal/adapters/redis/videorepo"
	"github.com/unique-fitness/gym-admin-api/internal/app/announcements"
	"github.com/unique-fitness/gym-admin-api/internal/app/dashboard"
	"github.com/unique-fitness/gym-admin-api/internal/app/dietplans"
	"github.com/unique-fitness/gym-admin-api/internal/app/members"
	"github.com/unique-fitness/gym-admin-api/internal/app/plans"
	"github.com/unique-fitness/gym-admin-api/internal/app/workouts"
	"github.com/unique-fitness/gym-admin-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/unique-fitness/gym-admin-api/internal/platform/clock"
	"github.com/unique-fitness/gym-admin-api/internal/platform/config"
	announcementrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/announcementrepo"
	dietplanrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/dietplanrepo"
	idempotencyport "github.com/unique-fitness/gym-admin-api/internal/ports/out/idempotency"
	memberrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
	planrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/planrepo"
	videorepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/videorepo"
)

const serviceName = "gym-admin-api"

type repositories struct {
	members       memberrepoport.Repository
	plans         planrepoport.Repository
	announcements announcementrepoport.Repository
	dietPlans     dietplanrepoport.Repository
	videos        videorepoport.Repository
	idem          idempotencyport.Store
}

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := platformclock.NewSystemClock(loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case config.AuthDev:
		logger.Warn("dev auth enabled; X-Debug-Subject is trusted", "default_subject", cfg.DevSubject)
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
	default:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(cfg.JWT))
	}

	memberSvc := members.NewService(repos.members, repos.plans, clk)
	memberSvc.BcryptCost = cfg.BcryptCost

	api := &httpapi.Server{
		Members:       memberSvc,
		Dashboard:     dashboard.NewService(repos.members, clk),
		Plans:         plans.NewService(repos.plans, repos.members, clk),
		Announcements: announcements.NewService(repos.announcements, clk),
		DietPlans:     dietplans.NewService(repos.dietPlans),
		Workouts:      workouts.NewService(repos.videos),
		Idem:          repos.idem,
	}

	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		RateLimit:      httpapi.RateLimitOptions{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening",
			"addr", srv.Addr,
			"storage_backend", cfg.StorageBackend,
			"video_backend", cfg.VideoBackend,
			"auth_mode", cfg.AuthMode,
			"timezone", loc.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	var (
		repos   repositories
		closers []func()
		cleanup = func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	)

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return repositories{}, func() {}, err
		}
		closers = append(closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			cleanup()
			return repositories{}, func() {}, err
		}
		logger.Info("postgres ready", "max_conns", cfg.DBMaxConns)

		repos.members = pgmemberrepo.NewRepo(pool)
		repos.plans = pgplanrepo.NewRepo(pool)
		repos.announcements = pgannouncementrepo.NewRepo(pool)
		repos.dietPlans = pgdietplanrepo.NewRepo(pool)
		repos.idem = pgidempotency.NewStore(pool)
	default:
		repos.members = memmemberrepo.NewRepo()
		repos.plans = memplanrepo.NewRepo()
		repos.announcements = memannouncementrepo.NewRepo()
		repos.dietPlans = memdietplanrepo.NewRepo()
		repos.idem = memidempotency.NewStore()
	}

	switch cfg.VideoBackend {
	case config.VideoRedis:
		client, err := redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			cleanup()
			return repositories{}, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })
		logger.Info("redis ready")
		repos.videos = redisvideorepo.NewRepo(client, redisvideorepo.DefaultKeyPrefix)
	default:
		repos.videos = memvideorepo.NewRepo()
	}

	return repos, cleanup, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})).With("service", serviceName)
}
