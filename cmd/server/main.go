package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harryfittheorem/CKOWebsite/internal/config"
	"github.com/harryfittheorem/CKOWebsite/internal/infrastructure/database"
	grpcServer "github.com/harryfittheorem/CKOWebsite/internal/infrastructure/grpc"
	httpServer "github.com/harryfittheorem/CKOWebsite/internal/infrastructure/http"
	"github.com/harryfittheorem/CKOWebsite/internal/infrastructure/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zapLogger = zapLogger.With(
		zap.String("service", cfg.Service.Name),
		zap.String("environment", cfg.Service.Environment))
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Outbound ClubReady client and credential source
	providers := provider.NewFactory(cfg, zapLogger)
	crm := providers.CRMClient()
	configProvider, err := providers.ConfigProvider(repos.ClubReadyConfig)
	if err != nil {
		zapLogger.Fatal("Failed to initialize ClubReady configuration", zap.Error(err))
	}

	// Usecases
	audit := usecase.NewAuditLogger(repos.PaymentLog, zapLogger.Named("audit"))
	resolver := usecase.NewIdentityResolver(crm, repos.Prospect, audit, zapLogger)
	ledger := usecase.NewTransactionLedger(repos.Transaction, repos.Package, repos.Prospect, zapLogger)
	checkout := usecase.NewCheckoutUsecase(
		configProvider,
		resolver,
		ledger,
		crm,
		repos.Prospect,
		audit,
		usecase.NewInputValidator(),
		zapLogger,
	)
	admin := usecase.NewAdminUsecase(repos.Transaction, repos.PaymentLog, zapLogger)

	// Initialize servers
	grpcSrv := grpcServer.NewServer(cfg, zapLogger, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})
	httpSrv := httpServer.NewServer(cfg, zapLogger, httpServer.Usecases{
		Checkout: checkout,
		Admin:    admin,
	})

	// Start servers
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	// In-flight charges finish before the process exits
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
