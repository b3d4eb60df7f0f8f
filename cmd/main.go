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

	"github.com/MicahParks/keyfunc/v2"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"schoolerp/internal/auth"
	"schoolerp/internal/config"
	"schoolerp/internal/handlers"
	"schoolerp/internal/jobs"
	"schoolerp/internal/jobs/background"
	"schoolerp/internal/logger"
	"schoolerp/internal/models"
	"schoolerp/internal/repositories"
	"schoolerp/internal/services"
	"schoolerp/internal/sessions"
	"schoolerp/internal/storage"
	"schoolerp/internal/tenancy"
	"schoolerp/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "schoolerp",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode(log, run(cfg, log)))
}

// exitCode logs a failed run and flushes log.
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	redisOpts, err := sessions.RedisOptions(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	redisClient, err := sessions.NewRedisClient(ctx, redisOpts)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	revoked := sessions.NewRedisRevocationStore(redisClient)

	objects, err := storage.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		return err
	}
	if err := objects.EnsureBucket(ctx, cfg.Minio.BrandingBucket); err != nil {
		return err
	}

	var jwks *keyfunc.JWKS
	if cfg.JWT.JWKSURL != "" {
		jwks, err = keyfunc.Get(cfg.JWT.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Warn("jwks refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return err
		}
		defer jwks.EndBackground()
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:      redisOpts.Addr,
		Username:  redisOpts.Username,
		Password:  redisOpts.Password,
		DB:        redisOpts.DB,
		TLSConfig: redisOpts.TLSConfig,
	}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()

	worker := jobs.NewWorker(redisOpt, objects, log)
	if err := worker.Start(); err != nil {
		return err
	}
	defer worker.Shutdown()

	router := buildRouter(cfg, log, pool, revoked, objects, jobs.NewObjectCleaner(queue), jwks, map[string]handlers.Check{
		"database": pool.Ping,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})

	scheduler, err := background.NewJobScheduler(repositories.NewEnquiryStatsRepo(pool), cfg.Jobs.MetricsInterval, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("version", cfg.Server.Version))
		if err := router.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}

func buildRouter(cfg *config.Config, log *zap.Logger, pool *pgxpool.Pool, revoked sessions.RevocationStore,
	objects storage.ObjectStore, stale services.ObjectRemover, jwks *keyfunc.JWKS, checks map[string]handlers.Check) *echo.Echo {
	policy := tenancy.DefaultPolicy()
	guard := tenancy.NewGuard(log)

	users := repositories.NewUserRepo(pool)
	enquiries := repositories.NewRepository[models.Enquiry](pool, repositories.EnquiryTable)
	visitors := repositories.NewRepository[models.Visitor](pool, repositories.VisitorTable)
	postal := repositories.NewRepository[models.PostalExchange](pool, repositories.PostalExchangeTable)
	vehicles := repositories.NewRepository[models.Vehicle](pool, repositories.VehicleTable)
	drivers := repositories.NewRepository[models.Driver](pool, repositories.DriverTable)
	settings := repositories.NewRepository[models.GeneralSetting](pool, repositories.GeneralSettingTable)
	plans := repositories.NewRepository[models.SubscriptionPlan](pool, repositories.SubscriptionPlanTable)
	schools := repositories.NewRepository[models.School](pool, repositories.SchoolTable)

	issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	resolver := auth.NewResolver(cfg.JWT.Secret, jwks, revoked, users)

	settingService := services.NewResourceService(services.GeneralSettingKind, settings, policy, guard)
	schoolService := services.NewResourceService(services.SchoolKind, schools, policy, guard)

	return handlers.NewRouter(handlers.Router{
		Resolver:        resolver,
		Health:          handlers.NewHealthHandlers(cfg.Server.Version, checks),
		Auth:            handlers.NewAuthHandlers(services.NewAuthService(users, issuer, revoked)),
		Enquiries:       handlers.NewResourceHandlers(services.NewResourceService(services.EnquiryKind, enquiries, policy, guard)),
		Visitors:        handlers.NewResourceHandlers(services.NewResourceService(services.VisitorKind, visitors, policy, guard)),
		PostalExchanges: handlers.NewResourceHandlers(services.NewResourceService(services.PostalExchangeKind, postal, policy, guard)),
		Vehicles:        handlers.NewResourceHandlers(services.NewResourceService(services.NewVehicleKind(drivers.Find), vehicles, policy, guard)),
		Drivers:         handlers.NewResourceHandlers(services.NewResourceService(services.DriverKind, drivers, policy, guard)),
		Settings:        handlers.NewResourceHandlers(settingService),
		Plans:           handlers.NewResourceHandlers(services.NewResourceService(services.SubscriptionPlanKind, plans, policy, guard)),
		Schools: handlers.NewSchoolHandlers(schoolService,
			services.NewSchoolService(pool, schools, settings, users, policy)),
		Users: handlers.NewUserHandlers(services.NewUserService(users, policy, guard)),
		Branding: handlers.NewBrandingHandlers(
			services.NewBrandingService(settings, objects, stale, cfg.Minio.BrandingBucket, policy, guard)),
	})
}
