package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type configFunc func(ctx context.Context) (entity.ClubReadyCredentials, error)

func (f configFunc) GetConfig(ctx context.Context) (entity.ClubReadyCredentials, error) {
	return f(ctx)
}

type staticResolver struct {
	prospect *model.Prospect
}

func (r staticResolver) Resolve(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error) {
	return r.prospect, nil
}

func (r staticResolver) Find(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error) {
	return r.prospect, nil
}

type checkoutFixture struct {
	checkout     usecase.CheckoutUsecase
	audit        *MockAuditLogger
	transactions *MockTransactionRepository
	crm          *MockCRMClient
	logs         *observer.ObservedLogs
	txID         uuid.UUID
}

func newCheckoutFixture(t *testing.T, config usecase.ConfigProvider) *checkoutFixture {
	t.Helper()
	prospect := &model.Prospect{ID: uuid.New(), ClubReadyUserID: "42"}
	pkg := &model.Package{ID: uuid.New(), ClubReadyPackageID: testPackageID, Name: "Monthly", Price: decimal.RequireFromString("49.99")}

	f := &checkoutFixture{
		audit:        &MockAuditLogger{},
		transactions: new(MockTransactionRepository),
		crm:          new(MockCRMClient),
		txID:         uuid.New(),
	}
	packages := new(MockPackageRepository)
	packages.On("GetByClubReadyPackageID", mock.Anything, testPackageID).Return(pkg, nil).Maybe()
	prospects := new(MockProspectRepository)
	prospects.On("GetByID", mock.Anything, prospect.ID).Return(prospect, nil).Maybe()
	f.transactions.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Transaction).ID = f.txID
	}).Return(nil).Maybe()

	core, logs := observer.New(zapcore.ErrorLevel)
	f.logs = logs
	log := zap.New(core)

	f.checkout = usecase.NewCheckoutUsecase(
		config,
		staticResolver{prospect: prospect},
		usecase.NewTransactionLedger(f.transactions, packages, prospects, log),
		f.crm,
		prospects,
		f.audit,
		usecase.NewInputValidator(),
		log,
	)
	return f
}

func TestCheckout_PanicIsAudited(t *testing.T) {
	ctx := context.Background()
	creds := entity.ClubReadyCredentials{APIKey: testAPIKey, StoreID: "1", ChainID: "2", BaseURL: "https://crm.example.com"}
	staticConfig := configFunc(func(context.Context) (entity.ClubReadyCredentials, error) {
		return creds, nil
	})
	brokenConfig := configFunc(func(context.Context) (entity.ClubReadyCredentials, error) {
		panic("config cache corrupted")
	})

	t.Run("before the transaction is opened", func(t *testing.T) {
		f := newCheckoutFixture(t, brokenConfig)

		receipt, err := f.checkout.Charge(ctx, validChargeInput())

		assert.Nil(t, receipt)
		assert.Equal(t, pkgerrors.ErrInternal, pkgerrors.CodeOf(err))
		assert.Equal(t, "Internal server error", pkgerrors.MessageOf(err))
		require.Len(t, f.audit.entries, 1)
		entry := f.audit.entries[0]
		assert.Equal(t, usecase.OperationCharge, entry.Endpoint)
		assert.Equal(t, usecase.StepLoadConfig, entry.Step)
		assert.Nil(t, entry.TransactionID)
		assert.ErrorContains(t, entry.Err, "config cache corrupted")
		assert.Equal(t, 1, f.logs.FilterMessage("Checkout request panicked").Len())
		f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("during the charge the transaction stays pending", func(t *testing.T) {
		f := newCheckoutFixture(t, staticConfig)
		f.crm.On("MakePayment", mock.Anything, creds, mock.Anything).Run(func(mock.Arguments) {
			panic("nil map write")
		}).Once()

		receipt, err := f.checkout.Charge(ctx, validChargeInput())

		assert.Nil(t, receipt)
		assert.Equal(t, pkgerrors.ErrInternal, pkgerrors.CodeOf(err))
		require.Len(t, f.audit.entries, 1)
		entry := f.audit.entries[0]
		assert.Equal(t, provider.StepProcessPayment, entry.Step)
		require.NotNil(t, entry.TransactionID)
		assert.Equal(t, f.txID, *entry.TransactionID)
		f.transactions.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		f.transactions.AssertNotCalled(t, "Fail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("customer lookup", func(t *testing.T) {
		f := newCheckoutFixture(t, brokenConfig)

		prospect, err := f.checkout.ResolveCustomer(ctx, &usecase.CustomerInput{ContactInput: usecase.ContactInput{
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
		}})

		assert.Nil(t, prospect)
		assert.Equal(t, pkgerrors.ErrInternal, pkgerrors.CodeOf(err))
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, usecase.OperationResolveCustomer, f.audit.entries[0].Endpoint)
		assert.Equal(t, usecase.StepLoadConfig, f.audit.entries[0].Step)
	})
}

func TestCheckout_CloseFailureAfterDecline(t *testing.T) {
	ctx := context.Background()
	creds := entity.ClubReadyCredentials{APIKey: testAPIKey, StoreID: "1", ChainID: "2", BaseURL: "https://crm.example.com"}
	f := newCheckoutFixture(t, configFunc(func(context.Context) (entity.ClubReadyCredentials, error) {
		return creds, nil
	}))
	call := &provider.CallResult{
		Endpoint:     "/sales/member/42/payment/makepayment",
		Step:         provider.StepProcessPayment,
		HTTPStatus:   http.StatusPaymentRequired,
		ResponseBody: map[string]interface{}{"Message": "Card declined"},
	}
	f.crm.On("MakePayment", mock.Anything, creds, mock.Anything).
		Return(nil, call, domainErrors.NewGatewayRejectedError("Card declined")).Once()
	f.transactions.On("Fail", mock.Anything, f.txID, mock.Anything).Return(false, errors.New("deadlock")).Once()

	_, err := f.checkout.Charge(ctx, validChargeInput())

	assert.Equal(t, pkgerrors.ErrGatewayRejected, pkgerrors.CodeOf(err))
	assert.Equal(t, "Card declined", pkgerrors.MessageOf(err))
	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, provider.StepProcessPayment, f.audit.entries[0].Step)
	closeEntry := f.audit.entries[1]
	assert.Equal(t, usecase.StepCloseTransaction, closeEntry.Step)
	assert.True(t, pkgerrors.HasCode(closeEntry.Err, pkgerrors.ErrPersistence))
	require.NotNil(t, closeEntry.TransactionID)
	assert.Equal(t, f.txID, *closeEntry.TransactionID)
}
