package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"go.uber.org/zap"
)

// IdentityResolver maps browser contact details to a ClubReady user and
// its local prospect row. Find always runs before create, so a returning
// customer never gets a second CRM record.
type IdentityResolver interface {
	// Resolve finds the customer or creates them
	Resolve(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error)
	// Find only searches; it returns nil when nobody matched
	Find(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error)
}

type identityResolver struct {
	crm       provider.CRMClient
	prospects repository.ProspectRepository
	audit     AuditLogger
	logger    *zap.Logger
	now       func() time.Time
}

// NewIdentityResolver creates an identity resolver
func NewIdentityResolver(
	crm provider.CRMClient,
	prospects repository.ProspectRepository,
	audit AuditLogger,
	logger *zap.Logger,
) IdentityResolver {
	return &identityResolver{
		crm:       crm,
		prospects: prospects,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *identityResolver) Resolve(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error) {
	prospect, err := r.Find(ctx, creds, contact)
	if err != nil || prospect != nil {
		return prospect, err
	}

	if strings.TrimSpace(contact.FirstName) == "" || strings.TrimSpace(contact.LastName) == "" || strings.TrimSpace(contact.Email) == "" {
		return nil, domainErrors.NewInvalidInputError("First name, last name, and email are required")
	}

	record, call, err := r.crm.CreateProspect(ctx, creds, contact)
	r.audit.Record(ctx, EntryFromCall(call, err, nil))
	if err != nil {
		r.logger.Warn("ClubReady prospect creation failed",
			zap.String("email", contact.Email),
			zap.Error(err))
		return nil, domainErrors.MarkAudited(err)
	}

	prospect = r.prospectFrom(record, contact)
	prospect.DateOfBirth = contact.DateOfBirth
	if err := r.prospects.Create(ctx, prospect); err != nil {
		return nil, domainErrors.NewPersistenceError("Failed to save prospect", err)
	}

	r.logger.Info("Prospect created",
		zap.String("prospect_id", prospect.ID.String()),
		zap.String("clubready_user_id", prospect.ClubReadyUserID))

	return prospect, nil
}

func (r *identityResolver) Find(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error) {
	if !contact.HasLookupKey() {
		return nil, domainErrors.NewInvalidInputError("Email or phone is required")
	}

	record, call, err := r.crm.FindProspect(ctx, creds, contact)
	r.audit.Record(ctx, EntryFromCall(call, err, nil))
	if err != nil {
		return nil, domainErrors.MarkAudited(err)
	}
	if record == nil {
		return nil, nil
	}

	prospect, err := r.prospects.UpsertByClubReadyUserID(ctx, r.prospectFrom(record, contact))
	if err != nil {
		return nil, domainErrors.NewPersistenceError("Failed to save prospect", err)
	}

	r.logger.Info("Prospect found",
		zap.String("prospect_id", prospect.ID.String()),
		zap.String("clubready_user_id", prospect.ClubReadyUserID))

	return prospect, nil
}

// prospectFrom prefers what the CRM returned and falls back to what the
// browser sent
func (r *identityResolver) prospectFrom(record *provider.ProspectRecord, contact entity.Contact) *model.Prospect {
	prospect := &model.Prospect{
		ClubReadyUserID: record.UserID,
		Email:           firstNonEmpty(record.Email, contact.Email),
		FirstName:       firstNonEmpty(record.FirstName, contact.FirstName),
		LastName:        firstNonEmpty(record.LastName, contact.LastName),
		LastSyncedAt:    r.now(),
	}
	if phone := firstNonEmpty(record.Phone, contact.Phone); phone != "" {
		prospect.Phone = &phone
	}
	return prospect
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
