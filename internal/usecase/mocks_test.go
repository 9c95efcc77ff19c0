package usecase_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/stretchr/testify/mock"
)

// MockPackageRepository is a mock implementation of PackageRepository
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) GetByClubReadyPackageID(ctx context.Context, clubReadyPackageID string) (*model.Package, error) {
	args := m.Called(ctx, clubReadyPackageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Package), args.Error(1)
}

func (m *MockPackageRepository) Upsert(ctx context.Context, pkg *model.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

// MockProspectRepository is a mock implementation of ProspectRepository
type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) Create(ctx context.Context, prospect *model.Prospect) error {
	args := m.Called(ctx, prospect)
	return args.Error(0)
}

func (m *MockProspectRepository) UpsertByClubReadyUserID(ctx context.Context, prospect *model.Prospect) (*model.Prospect, error) {
	args := m.Called(ctx, prospect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prospect), args.Error(1)
}

func (m *MockProspectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Prospect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prospect), args.Error(1)
}

func (m *MockProspectRepository) GetByClubReadyUserID(ctx context.Context, clubReadyUserID string) (*model.Prospect, error) {
	args := m.Called(ctx, clubReadyUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prospect), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Complete(ctx context.Context, id uuid.UUID, completion repository.TransactionCompletion) (bool, error) {
	args := m.Called(ctx, id, completion)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) Fail(ctx context.Context, id uuid.UUID, failure repository.TransactionFailure) (bool, error) {
	args := m.Called(ctx, id, failure)
	return args.Bool(0), args.Error(1)
}

// MockPaymentLogRepository is a mock implementation of PaymentLogRepository
type MockPaymentLogRepository struct {
	mock.Mock
}

func (m *MockPaymentLogRepository) Create(ctx context.Context, log *model.PaymentLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockPaymentLogRepository) ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*model.PaymentLog, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PaymentLog), args.Error(1)
}

// MockClubReadyConfigRepository is a mock implementation of
// ClubReadyConfigRepository
type MockClubReadyConfigRepository struct {
	mock.Mock
}

func (m *MockClubReadyConfigRepository) Get(ctx context.Context) (*model.ClubReadyConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClubReadyConfig), args.Error(1)
}

// MockCRMClient is a mock implementation of provider.CRMClient
type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) FindProspect(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*provider.ProspectRecord, *provider.CallResult, error) {
	args := m.Called(ctx, creds, contact)
	return prospectRecordArg(args, 0), callResultArg(args, 1), args.Error(2)
}

func (m *MockCRMClient) CreateProspect(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*provider.ProspectRecord, *provider.CallResult, error) {
	args := m.Called(ctx, creds, contact)
	return prospectRecordArg(args, 0), callResultArg(args, 1), args.Error(2)
}

func (m *MockCRMClient) MakePayment(ctx context.Context, creds entity.ClubReadyCredentials, req *provider.PaymentRequest) (*provider.PaymentResult, *provider.CallResult, error) {
	args := m.Called(ctx, creds, req)
	var result *provider.PaymentResult
	if args.Get(0) != nil {
		result = args.Get(0).(*provider.PaymentResult)
	}
	return result, callResultArg(args, 1), args.Error(2)
}

func prospectRecordArg(args mock.Arguments, i int) *provider.ProspectRecord {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*provider.ProspectRecord)
}

func callResultArg(args mock.Arguments, i int) *provider.CallResult {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*provider.CallResult)
}

// MockAuditLogger collects audit entries in memory
type MockAuditLogger struct {
	entries []usecase.AuditEntry
}

func (m *MockAuditLogger) Record(ctx context.Context, entry usecase.AuditEntry) {
	m.entries = append(m.entries, entry)
}
