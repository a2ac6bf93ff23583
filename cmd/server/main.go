package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/ledger"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
	"github.com/EmmaDeil/steps-ops-backend/internal/config"
	httpiface "github.com/EmmaDeil/steps-ops-backend/internal/interfaces/http"
	"github.com/EmmaDeil/steps-ops-backend/internal/lark"
	"github.com/EmmaDeil/steps-ops-backend/internal/notification"
	"github.com/EmmaDeil/steps-ops-backend/internal/report"
	"github.com/EmmaDeil/steps-ops-backend/internal/worker"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
	"github.com/EmmaDeil/steps-ops-backend/pkg/utils"

	"github.com/EmmaDeil/steps-ops-backend/internal/infrastructure/persistence/repository"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting operations backend",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("strict_ledger", cfg.Leave.StrictLedger))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create database directory", zap.Error(err))
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	leaveRepo := repository.NewLeaveRequestRepository(db, logger)
	travelRepo := repository.NewTravelRequestRepository(db, logger)
	materialRepo := repository.NewMaterialRequestRepository(db, logger)
	poRepo := repository.NewPurchaseOrderRepository(db, logger)
	policyRepo := repository.NewPolicyRepository(db, logger)
	allocationRepo := repository.NewLeaveAllocationRepository(db, logger)
	sequenceRepo := repository.NewSequenceRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)
	employeeRepo := repository.NewEmployeeRepository(db, logger)

	// Notifier: Lark delivery when configured, log-only otherwise
	var notifier port.Notifier
	if cfg.Notifications.Enabled && cfg.Lark.Enabled {
		larkClient := lark.NewClient(lark.Config{
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
		}, logger)
		notifier = lark.NewMessenger(larkClient, logger)
	} else {
		notifier = notification.NewLogNotifier(logger)
	}

	// Application services
	hooks := service.NewHooks(auditRepo, employeeRepo, notifier, logger)
	ldg := ledger.New(allocationRepo, logger)
	leaveService := service.NewLeaveService(leaveRepo, ldg, hooks, db, cfg.Leave.StrictLedger, logger)
	travelService := service.NewTravelService(travelRepo, hooks, db, logger)
	procurementService := service.NewProcurementService(materialRepo, poRepo, sequenceRepo, hooks, db, logger)
	policyService := service.NewPolicyService(policyRepo, hooks, db, logger)

	exporter, err := report.NewExporter(cfg.Report.OutputDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize report exporter", zap.Error(err))
	}

	// Pending-approval reminder
	var reminder *worker.Reminder
	if cfg.Reminder.Enabled {
		reminder = worker.NewReminder(cfg.Reminder.Schedule,
			leaveRepo, travelRepo, materialRepo, poRepo, employeeRepo, notifier, logger)
		if err := reminder.Start(); err != nil {
			logger.Fatal("Failed to start reminder worker", zap.Error(err))
		}
	}

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, leaveService, travelService, procurementService, policyService,
		ldg, auditRepo, exporter, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if reminder != nil {
		reminder.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
