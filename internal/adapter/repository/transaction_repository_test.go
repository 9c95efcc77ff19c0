package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openPendingTransaction(t *testing.T, repo repository.TransactionRepository, prospect *model.Prospect, pkg *model.Package) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{
		ProspectID:    prospect.ID,
		PackageID:     pkg.ID,
		Amount:        pkg.Price,
		Status:        model.TransactionStatusPending,
		PaymentMethod: model.PaymentMethodCreditCard,
	}
	require.NoError(t, repo.Create(context.Background(), tx))
	return tx
}

func TestTransactionRepository_Complete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db, zap.NewNop())
	ctx := context.Background()
	tx := openPendingTransaction(t, repo, seedProspect(t, db, "555"), seedPackage(t, db, "PKG-1", "49.99"))

	completedAt := time.Now().UTC().Truncate(time.Second)
	updated, err := repo.Complete(ctx, tx.ID, repository.TransactionCompletion{
		ClubReadyTransactionID: "987654",
		LastFour:               "1111",
		Metadata:               model.JSONB{"clubready_payment_id": "987654", "package_name": "Monthly Unlimited"},
		CompletedAt:            completedAt,
	})
	require.NoError(t, err)
	assert.True(t, updated)

	stored, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.TransactionStatusCompleted, stored.Status)
	require.NotNil(t, stored.ClubReadyTransactionID)
	assert.Equal(t, "987654", *stored.ClubReadyTransactionID)
	require.NotNil(t, stored.LastFour)
	assert.Equal(t, "1111", *stored.LastFour)
	assert.Equal(t, "Monthly Unlimited", stored.Metadata["package_name"])
	require.NotNil(t, stored.CompletedAt)
	require.NotNil(t, stored.Package)
	assert.Equal(t, "PKG-1", stored.Package.ClubReadyPackageID)
	require.NotNil(t, stored.Prospect)
	assert.Equal(t, "555", stored.Prospect.ClubReadyUserID)

	t.Run("closed transaction is never rewritten", func(t *testing.T) {
		updated, err := repo.Fail(ctx, tx.ID, repository.TransactionFailure{ErrorMessage: "late failure"})
		require.NoError(t, err)
		assert.False(t, updated)

		updated, err = repo.Complete(ctx, tx.ID, repository.TransactionCompletion{ClubReadyTransactionID: "other", CompletedAt: time.Now()})
		require.NoError(t, err)
		assert.False(t, updated)

		stored, err := repo.GetByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusCompleted, stored.Status)
		assert.Equal(t, "987654", *stored.ClubReadyTransactionID)
		assert.Nil(t, stored.ErrorMessage)
	})
}

func TestTransactionRepository_Fail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db, zap.NewNop())
	ctx := context.Background()
	tx := openPendingTransaction(t, repo, seedProspect(t, db, "555"), seedPackage(t, db, "PKG-1", "49.99"))

	updated, err := repo.Fail(ctx, tx.ID, repository.TransactionFailure{
		ErrorMessage: "Card declined",
		Metadata:     model.JSONB{"clubready_response": map[string]interface{}{"Message": "Card declined"}},
	})
	require.NoError(t, err)
	assert.True(t, updated)

	stored, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "Card declined", *stored.ErrorMessage)
	assert.Equal(t, map[string]interface{}{"Message": "Card declined"}, stored.Metadata["clubready_response"])
	assert.Nil(t, stored.CompletedAt)
	assert.True(t, stored.Amount.Equal(tx.Amount))

	updated, err = repo.Complete(ctx, tx.ID, repository.TransactionCompletion{ClubReadyTransactionID: "1", CompletedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestTransactionRepository_UnknownID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db, zap.NewNop())
	ctx := context.Background()

	updated, err := repo.Fail(ctx, uuid.New(), repository.TransactionFailure{ErrorMessage: "x"})
	assert.NoError(t, err)
	assert.False(t, updated)

	tx, err := repo.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, tx)
}
