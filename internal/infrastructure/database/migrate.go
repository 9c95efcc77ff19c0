package database

import (
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Create extensions first
	logger.Info("Creating PostgreSQL extensions...")
	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	// Auto-migrate all models
	logger.Info("Running GORM auto-migrations...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}
	logger.Info("GORM auto-migrations completed successfully")

	// Create custom indexes and constraints
	logger.Info("Creating custom indexes and constraints...")
	if err := createConstraints(db); err != nil {
		logger.Error("Failed to create constraints", zap.Error(err))
		return err
	}

	logger.Info("Creating database functions...")
	if err := createDatabaseFunctions(db, logger); err != nil {
		logger.Error("Failed to create database functions", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// createConstraints adds what GORM tags cannot express
func createConstraints(db *gorm.DB) error {
	statements := []string{
		// Only the single configuration row may exist
		`DO $$ BEGIN
			ALTER TABLE clubready_config ADD CONSTRAINT clubready_config_single_row CHECK (id = 1);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
			ALTER TABLE transactions ADD CONSTRAINT transactions_status_check
				CHECK (status IN ('pending', 'completed', 'failed'));
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		// Support queries for stuck charges
		`CREATE INDEX IF NOT EXISTS idx_transactions_pending ON transactions (created_at) WHERE status = 'pending'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// createDatabaseFunctions installs the triggers that keep the ledger and
// the audit trail honest even for writes that bypass this service
func createDatabaseFunctions(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Creating append-only trigger for payment_logs...")
	appendOnlySQL := `
CREATE OR REPLACE FUNCTION payment_logs_append_only() RETURNS TRIGGER AS $$
BEGIN
    RAISE EXCEPTION 'payment_logs is append-only';
END;
$$ LANGUAGE plpgsql;`
	if err := db.Exec(appendOnlySQL).Error; err != nil {
		return err
	}
	if err := db.Exec(`DROP TRIGGER IF EXISTS payment_logs_append_only ON payment_logs`).Error; err != nil {
		logger.Warn("Failed to drop existing trigger", zap.String("table", "payment_logs"), zap.Error(err))
	}
	if err := db.Exec(`
CREATE TRIGGER payment_logs_append_only
    BEFORE UPDATE OR DELETE ON payment_logs
    FOR EACH ROW EXECUTE FUNCTION payment_logs_append_only();`).Error; err != nil {
		return err
	}

	logger.Info("Creating status transition trigger for transactions...")
	monotoneSQL := `
CREATE OR REPLACE FUNCTION transactions_status_monotone() RETURNS TRIGGER AS $$
BEGIN
    IF OLD.status <> 'pending' AND NEW.status IS DISTINCT FROM OLD.status THEN
        RAISE EXCEPTION 'transaction % is already %', OLD.id, OLD.status;
    END IF;
    IF NEW.amount IS DISTINCT FROM OLD.amount THEN
        RAISE EXCEPTION 'transaction % amount is immutable', OLD.id;
    END IF;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;`
	if err := db.Exec(monotoneSQL).Error; err != nil {
		return err
	}
	if err := db.Exec(`DROP TRIGGER IF EXISTS transactions_status_monotone ON transactions`).Error; err != nil {
		logger.Warn("Failed to drop existing trigger", zap.String("table", "transactions"), zap.Error(err))
	}
	return db.Exec(`
CREATE TRIGGER transactions_status_monotone
    BEFORE UPDATE ON transactions
    FOR EACH ROW EXECUTE FUNCTION transactions_status_monotone();`).Error
}
