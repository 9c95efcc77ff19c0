package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/harryfittheorem/CKOWebsite/internal/config"
	"github.com/harryfittheorem/CKOWebsite/internal/infrastructure/database"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"go.uber.org/zap"
)

// sync-packages loads package reference data from YAML into the packages
// table. The file comes from the first argument or clubready.packages_file.
func main() {
	if err := run(); err != nil {
		log.Fatalf("sync-packages: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer zapLogger.Sync()

	path := cfg.ClubReady.PackagesFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		return fmt.Errorf("no packages file: pass a path or set clubready.packages_file")
	}

	packages, err := usecase.LoadPackagesFromYAML(path)
	if err != nil {
		return err
	}

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	repos := database.NewRepositories(db, zapLogger)
	packageSync := usecase.NewPackageSyncService(repos.Package, zapLogger)

	zapLogger.Info("Syncing packages from YAML",
		zap.String("path", path),
		zap.Int("packages", len(packages)))

	synced, err := packageSync.Sync(context.Background(), packages)
	if err != nil {
		return err
	}

	zapLogger.Info("Package sync completed", zap.Int("packages_synced", synced))
	return nil
}
