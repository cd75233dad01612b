package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/schedify-backend-go/internal/config"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	appHTTP "github.com/cmlabs-hris/schedify-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/schedify-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/schedify-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/schedify-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/schedify-backend-go/internal/service/employee"
	scheduleService "github.com/cmlabs-hris/schedify-backend-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "schedify"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		employeeRepo employee.EmployeeRepository
		scheduleRepo schedule.ScheduleRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if cfg.Storage.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			logger.Info("Database schema migrated")
		}
		employeeRepo = postgresql.NewEmployeeRepository(db)
		scheduleRepo = postgresql.NewScheduleRepository(db)
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		employeeRepo = memory.NewEmployeeRepository()
		scheduleRepo = memory.NewScheduleRepository()
	default:
		return fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}

	hub := sse.NewHub()
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, logger)
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo, employeeRepo, hub, logger)

	scheduler := cron.NewScheduler(logger)
	if cfg.Jobs.EnsureCurrentWeek {
		cron.NewScheduleJobs(scheduleSvc).RegisterJobs(scheduler, cfg.Jobs.EnsureCurrentWeekInterval)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		logger,
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewScheduleHandler(scheduleSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
		// Cancelled on signal so open SSE streams end before Shutdown waits on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", fmt.Sprintf("http://localhost%s", srv.Addr), "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
