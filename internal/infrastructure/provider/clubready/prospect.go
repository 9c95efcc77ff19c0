package clubready

import (
	"context"
	"net/http"
	"strings"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	searchProspectEndpoint = "/users/prospects/search"
	createProspectEndpoint = "/users/prospects"

	dateOfBirthLayout = "2006-01-02"
)

// FindProspect searches for a prospect by email and/or phone
// GET /users/prospects/search
func (c *Client) FindProspect(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*provider.ProspectRecord, *provider.CallResult, error) {
	query := credentialFields(creds)
	sanitized := map[string]interface{}{
		"storeId": creds.StoreID,
		"chainId": creds.ChainID,
	}
	if email := strings.TrimSpace(contact.Email); email != "" {
		query.Set("email", email)
		sanitized["email"] = email
	}
	if phone := strings.TrimSpace(contact.Phone); phone != "" {
		query.Set("phone", phone)
		sanitized["phone"] = phone
	}

	result, err := c.do(ctx, creds, outboundCall{
		step:      provider.StepSearchProspect,
		method:    http.MethodGet,
		endpoint:  searchProspectEndpoint,
		query:     query,
		sanitized: sanitized,
	})
	if err != nil {
		return nil, result, domainErrors.NewCrmUnavailableError(err)
	}

	if result.HTTPStatus == http.StatusNotFound {
		return nil, result, nil
	}
	if !isSuccess(result.HTTPStatus) {
		return nil, result, domainErrors.NewCrmRejectedError(messageOf(result.ResponseBody, "Failed to search prospect"))
	}

	payload, found := recordPayload(result.ResponseBody)
	if !found {
		return nil, result, nil
	}

	userID := extract(payload, userIDExtractors)
	if userID == "" {
		// A bare top-level object with no identifier is a "no match" reply
		if !isWrapped(result.ResponseBody) {
			return nil, result, nil
		}
		return nil, result, domainErrors.NewUnexpectedResponseShapeError("ClubReady search response has no user id")
	}

	record := &provider.ProspectRecord{
		UserID:    userID,
		Email:     extract(payload, []extractor{field("email"), field("Email")}),
		Phone:     extract(payload, []extractor{field("phone"), field("Phone")}),
		FirstName: extract(payload, []extractor{field("firstName"), field("FirstName")}),
		LastName:  extract(payload, []extractor{field("lastName"), field("LastName")}),
		Raw:       payload,
	}

	c.logger.Info("ClubReadyClient: Prospect found",
		zap.String("clubready_user_id", record.UserID))

	return record, result, nil
}

// CreateProspect creates a new prospect
// POST /users/prospects
func (c *Client) CreateProspect(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*provider.ProspectRecord, *provider.CallResult, error) {
	form := credentialFields(creds)
	form.Set("FirstName", contact.FirstName)
	form.Set("LastName", contact.LastName)
	form.Set("Email", contact.Email)
	form.Set("Phone", contact.Phone)

	var dateOfBirth interface{}
	if contact.DateOfBirth != nil {
		dob := contact.DateOfBirth.Format(dateOfBirthLayout)
		form.Set("DateOfBirth", dob)
		dateOfBirth = dob
	}

	result, err := c.do(ctx, creds, outboundCall{
		step:     provider.StepCreateProspect,
		method:   http.MethodPost,
		endpoint: createProspectEndpoint,
		form:     form,
		sanitized: map[string]interface{}{
			"storeId":     creds.StoreID,
			"chainId":     creds.ChainID,
			"firstName":   contact.FirstName,
			"lastName":    contact.LastName,
			"email":       contact.Email,
			"phone":       contact.Phone,
			"dateOfBirth": dateOfBirth,
		},
	})
	if err != nil {
		return nil, result, domainErrors.NewCrmUnavailableError(err)
	}

	if !isSuccess(result.HTTPStatus) || explicitlyUnsuccessful(result.ResponseBody) {
		return nil, result, domainErrors.NewCrmRejectedError(messageOf(result.ResponseBody, "Failed to create prospect"))
	}

	payload, _ := recordPayload(result.ResponseBody)
	userID := extract(payload, userIDExtractors)
	if userID == "" {
		userID = extract(asObject(result.ResponseBody), userIDExtractors)
	}
	if userID == "" {
		return nil, result, domainErrors.NewUnexpectedResponseShapeError("ClubReady create response has no user id")
	}

	c.logger.Info("ClubReadyClient: Prospect created",
		zap.String("clubready_user_id", userID))

	return &provider.ProspectRecord{
		UserID:    userID,
		Email:     contact.Email,
		Phone:     contact.Phone,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Raw:       payload,
	}, result, nil
}
