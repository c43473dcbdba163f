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

	"github.com/cmlabs-hris/teamops-backend-go/internal/config"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/teammember"
	appHTTP "github.com/cmlabs-hris/teamops-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/teamops-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/teamops-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/teamops-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/teamops-backend-go/internal/service/file"
	reportService "github.com/cmlabs-hris/teamops-backend-go/internal/service/report"
	teamMemberService "github.com/cmlabs-hris/teamops-backend-go/internal/service/teammember"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "teamops"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		attendanceRepo attendance.AttendanceRepository
		teamMemberRepo teammember.TeamMemberRepository
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer db.Close()
		attendanceRepo = postgresql.NewAttendanceRepository(db)
		teamMemberRepo = postgresql.NewTeamMemberRepository(db)
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer db.Close()
		if err := sqlite.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
		attendanceRepo = sqlite.NewAttendanceRepository(db)
		teamMemberRepo = sqlite.NewTeamMemberRepository(db)
	}
	slog.Info("Database ready", "driver", cfg.Database.Driver)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}

	locale, err := period.LocaleByName(cfg.Report.Locale)
	if err != nil {
		return err
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fileService := file.NewFileService(fileStorage)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, teamMemberRepo)
	teamMemberSvc := teamMemberService.NewTeamMemberService(teamMemberRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, fileService, locale)

	scheduler := cron.NewScheduler()
	cron.NewReportJobs(fileService, cfg.Report.ArchiveRetention, cfg.Report.PruneInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
			FilesDir:       fileStorage.BasePath(),
		},
		logger,
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewTeamMemberHandler(teamMemberSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "locale", locale.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
