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
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/employee"
	periodService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/period"
	timeOffService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/timeoff"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-timeoff"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger, level); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, level slog.Level) error {
	dsn := cfg.DatabaseURL()

	if cfg.Migrations.RunOnStart {
		if err := database.Migrate(dsn, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	timeOffTypeRepo := postgresql.NewTimeOffTypeRepository(db)
	timeOffRequestRepo := postgresql.NewTimeOffRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	requestService := timeOffService.NewRequestService(transactor, timeOffTypeRepo, timeOffRequestRepo, employeeRepo, periodRepo, logger)
	queryService := timeOffService.NewQueryService(employeeRepo, timeOffRequestRepo)
	typeService := timeOffService.NewTypeService(timeOffTypeRepo, logger)
	timeOffSvc := timeOffService.NewTimeOffService(
		requestService,
		queryService,
		typeService,
		employeeRepo,
		timeOffRequestRepo,
		hub,
		logger,
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	periodSvc := periodService.NewPeriodService(periodRepo)

	router := appHTTP.NewRouter(logger, JWTService, appHTTP.Handlers{
		TimeOff:  appHTTP.NewTimeOffHandler(timeOffSvc),
		Employee: appHTTP.NewEmployeeHandler(employeeSvc),
		Period:   appHTTP.NewPeriodHandler(periodSvc),
		Event:    appHTTP.NewEventHandler(hub, JWTService),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       level,
	})

	server := newHTTPServer(fmt.Sprintf(":%d", cfg.App.Port), router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newHTTPServer builds the API server. Request contexts derive from a base
// context that is cancelled when Shutdown starts, so open event streams
// return instead of holding the shutdown until their clients disconnect.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	server.RegisterOnShutdown(cancel)
	return server
}
