package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type resolverMocks struct {
	crm       *MockCRMClient
	prospects *MockProspectRepository
	audit     *MockAuditLogger
}

func newResolver() (usecase.IdentityResolver, *resolverMocks) {
	m := &resolverMocks{
		crm:       new(MockCRMClient),
		prospects: new(MockProspectRepository),
		audit:     &MockAuditLogger{},
	}
	return usecase.NewIdentityResolver(m.crm, m.prospects, m.audit, zap.NewNop()), m
}

func TestIdentityResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	creds := entity.ClubReadyCredentials{APIKey: "key-123456", StoreID: "1", ChainID: "2", BaseURL: "https://crm.example.com"}
	contact := entity.Contact{Email: "jane@example.com", Phone: "555-0100", FirstName: "Jane", LastName: "Doe"}
	searchCall := &provider.CallResult{Step: provider.StepSearchProspect, URL: "https://crm.example.com/users/prospects/search"}
	createCall := &provider.CallResult{Step: provider.StepCreateProspect, URL: "https://crm.example.com/users/prospects"}

	t.Run("found customer is mirrored, not created", func(t *testing.T) {
		resolver, m := newResolver()
		m.crm.On("FindProspect", ctx, creds, contact).
			Return(&provider.ProspectRecord{UserID: "42", Email: "jane@crm.example.com"}, searchCall, nil).Once()
		stored := &model.Prospect{ID: uuid.New(), ClubReadyUserID: "42"}
		m.prospects.On("UpsertByClubReadyUserID", ctx, mock.MatchedBy(func(p *model.Prospect) bool {
			return p.ClubReadyUserID == "42" &&
				p.Email == "jane@crm.example.com" &&
				p.FirstName == "Jane" &&
				p.Phone != nil && *p.Phone == "555-0100"
		})).Return(stored, nil).Once()

		prospect, err := resolver.Resolve(ctx, creds, contact)

		require.NoError(t, err)
		assert.Same(t, stored, prospect)
		m.crm.AssertNotCalled(t, "CreateProspect", mock.Anything, mock.Anything, mock.Anything)
		require.Len(t, m.audit.entries, 1)
		assert.Equal(t, provider.StepSearchProspect, m.audit.entries[0].Step)
	})

	t.Run("unknown customer is created", func(t *testing.T) {
		resolver, m := newResolver()
		m.crm.On("FindProspect", ctx, creds, contact).Return(nil, searchCall, nil).Once()
		m.crm.On("CreateProspect", ctx, creds, contact).
			Return(&provider.ProspectRecord{UserID: "555"}, createCall, nil).Once()
		m.prospects.On("Create", ctx, mock.MatchedBy(func(p *model.Prospect) bool {
			return p.ClubReadyUserID == "555" && p.Email == contact.Email
		})).Return(nil).Once()

		prospect, err := resolver.Resolve(ctx, creds, contact)

		require.NoError(t, err)
		assert.Equal(t, "555", prospect.ClubReadyUserID)
		require.Len(t, m.audit.entries, 2)
		assert.Equal(t, provider.StepCreateProspect, m.audit.entries[1].Step)
	})

	t.Run("create requires names and email", func(t *testing.T) {
		resolver, m := newResolver()
		phoneOnly := entity.Contact{Phone: "555-0100"}
		m.crm.On("FindProspect", ctx, creds, phoneOnly).Return(nil, searchCall, nil).Once()

		_, err := resolver.Resolve(ctx, creds, phoneOnly)

		assert.True(t, pkgerrors.HasCode(err, pkgerrors.ErrInvalidInput))
		assert.Equal(t, "First name, last name, and email are required", pkgerrors.MessageOf(err))
		m.crm.AssertNotCalled(t, "CreateProspect", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CRM rejection is audited once and marked", func(t *testing.T) {
		resolver, m := newResolver()
		m.crm.On("FindProspect", ctx, creds, contact).Return(nil, searchCall, nil).Once()
		m.crm.On("CreateProspect", ctx, creds, contact).
			Return(nil, createCall, domainErrors.NewCrmRejectedError("Email already in use")).Once()

		_, err := resolver.Resolve(ctx, creds, contact)

		assert.True(t, pkgerrors.HasCode(err, pkgerrors.ErrCrmRejected))
		assert.Equal(t, "Email already in use", pkgerrors.MessageOf(err))
		assert.True(t, domainErrors.IsAudited(err))
		require.Len(t, m.audit.entries, 2)
		assert.Equal(t, err.Error(), m.audit.entries[1].Err.Error())
	})
}

func TestIdentityResolver_Find(t *testing.T) {
	ctx := context.Background()
	creds := entity.ClubReadyCredentials{APIKey: "key-123456", StoreID: "1", ChainID: "2", BaseURL: "https://crm.example.com"}

	t.Run("needs email or phone", func(t *testing.T) {
		resolver, m := newResolver()

		_, err := resolver.Find(ctx, creds, entity.Contact{FirstName: "Jane"})

		assert.Equal(t, "Email or phone is required", pkgerrors.MessageOf(err))
		assert.Empty(t, m.audit.entries)
	})

	t.Run("no match", func(t *testing.T) {
		resolver, m := newResolver()
		contact := entity.Contact{Email: "nobody@example.com"}
		m.crm.On("FindProspect", ctx, creds, contact).Return(nil, &provider.CallResult{}, nil).Once()

		prospect, err := resolver.Find(ctx, creds, contact)

		require.NoError(t, err)
		assert.Nil(t, prospect)
		m.prospects.AssertNotCalled(t, "UpsertByClubReadyUserID", mock.Anything, mock.Anything)
	})

	t.Run("CRM outage", func(t *testing.T) {
		resolver, m := newResolver()
		contact := entity.Contact{Email: "jane@example.com"}
		m.crm.On("FindProspect", ctx, creds, contact).
			Return(nil, &provider.CallResult{}, domainErrors.NewCrmUnavailableError(nil)).Once()

		_, err := resolver.Find(ctx, creds, contact)

		assert.True(t, pkgerrors.HasCode(err, pkgerrors.ErrCrmUnavailable))
		assert.Len(t, m.audit.entries, 1)
	})
}
