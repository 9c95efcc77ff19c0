package database

import (
	"github.com/harryfittheorem/CKOWebsite/internal/adapter/repository"
	domainRepo "github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Prospect        domainRepo.ProspectRepository
	Package         domainRepo.PackageRepository
	Transaction     domainRepo.TransactionRepository
	PaymentLog      domainRepo.PaymentLogRepository
	ClubReadyConfig domainRepo.ClubReadyConfigRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Prospect:        repository.NewProspectRepository(db, logger),
		Package:         repository.NewPackageRepository(db, logger),
		Transaction:     repository.NewTransactionRepository(db, logger),
		PaymentLog:      repository.NewPaymentLogRepository(db),
		ClubReadyConfig: repository.NewClubReadyConfigRepository(db),
	}
}
