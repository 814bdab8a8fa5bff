package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medisched/medisched/internal/config"
	"github.com/medisched/medisched/internal/domain/availability"
	"github.com/medisched/medisched/internal/domain/booking"
	"github.com/medisched/medisched/internal/domain/identity"
	"github.com/medisched/medisched/internal/domain/medicalrecord"
	"github.com/medisched/medisched/internal/domain/patient"
	"github.com/medisched/medisched/internal/domain/staff"
	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
	"github.com/medisched/medisched/internal/platform/db"
	"github.com/medisched/medisched/internal/platform/middleware"
)

var migrationsDir string

func main() {
	rootCmd := &cobra.Command{
		Use:   "medisched-server",
		Short: "Clinic scheduling API server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "migrations directory")

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
				count, err := m.Up(ctx)
				if err != nil {
					return err
				}
				logger.Info().Int("applied", count).Msg("migrations complete")
				return nil
			})
		},
	}

	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied " + s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
				}
				return nil
			})
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMigrate(fn func(context.Context, *db.Migrator, zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns,
		time.Duration(cfg.DBConnMaxIdleMinutes)*time.Minute,
		time.Duration(cfg.DBConnMaxLifetimeMinutes)*time.Minute)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, db.NewMigrator(pool, migrationsDir), logger)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns,
		time.Duration(cfg.DBConnMaxIdleMinutes)*time.Minute,
		time.Duration(cfg.DBConnMaxLifetimeMinutes)*time.Minute)
	cancel()
	if err != nil {
		return err
	}
	defer pool.Close()

	jwtCfg := auth.JWTConfig{
		SigningKey: []byte(cfg.JWTSecret),
		TTL:        time.Duration(cfg.TokenTTLMinutes) * time.Minute,
	}
	txRunner := db.NewTxRunner(pool)

	patientRepo := patient.NewRepoPG(pool)
	staffRepo := staff.NewRepoPG(pool)
	availRepo := availability.NewRepoPG(pool)
	bookingRepo := booking.NewRepoPG(pool)
	recordRepo := medicalrecord.NewRepoPG(pool)
	identityRepo := identity.NewRepoPG(pool)

	patientSvc := patient.NewService(patientRepo, logger)
	availSvc := availability.NewService(availRepo, staffRepo, txRunner, cfg.StrictNotFound, logger)
	staffSvc := staff.NewService(staffRepo, availSvc, txRunner, cfg.StrictNotFound, logger)
	bookingSvc := booking.NewService(bookingRepo, availRepo, cfg.StrictNotFound, logger)
	recordSvc := medicalrecord.NewService(recordRepo, patientRepo, cfg.StrictNotFound, logger)
	identitySvc := identity.NewService(identityRepo, jwtCfg, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	identity.NewHandler(identitySvc).RegisterRoutes(e)

	api := e.Group("", auth.JWTMiddleware(jwtCfg))
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	staff.NewHandler(staffSvc).RegisterRoutes(api)
	availability.NewHandler(availSvc).RegisterRoutes(api)
	booking.NewHandler(bookingSvc).RegisterRoutes(api)
	medicalrecord.NewHandler(recordSvc).RegisterRoutes(api)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		errCh <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
