package clubready

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"go.uber.org/zap"
)

// MakePayment charges a card against a member account
// POST /sales/member/{userId}/payment/makepayment
func (c *Client) MakePayment(ctx context.Context, creds entity.ClubReadyCredentials, req *provider.PaymentRequest) (*provider.PaymentResult, *provider.CallResult, error) {
	card := req.Card
	amount := req.Amount.StringFixed(2)

	form := credentialFields(creds)
	form.Set("Amount", amount)
	form.Set("AcctToken", card.Number)
	form.Set("Last4", card.LastFour())
	form.Set("ExpMonth", card.ExpMonth)
	form.Set("ExpYear", card.ExpYear)
	form.Set("CVV", card.CVV)
	form.Set("PostalCode", card.BillingZip)
	if card.HolderName != "" {
		form.Set("NameOnCard", card.HolderName)
	}

	c.logger.Info("ClubReadyClient: Processing payment",
		zap.String("clubready_user_id", req.UserID),
		zap.String("amount", amount),
		zap.String("card", card.Masked()))

	result, err := c.do(ctx, creds, outboundCall{
		step:     provider.StepProcessPayment,
		method:   http.MethodPost,
		endpoint: fmt.Sprintf("/sales/member/%s/payment/makepayment", url.PathEscape(req.UserID)),
		form:     form,
		sanitized: map[string]interface{}{
			"storeId":    creds.StoreID,
			"chainId":    creds.ChainID,
			"userId":     req.UserID,
			"amount":     amount,
			"cardNumber": card.Masked(),
			"expMonth":   card.ExpMonth,
			"expYear":    card.ExpYear,
			"cvv":        "***",
			"postalCode": card.BillingZip,
		},
		secrets: []string{card.Number},
	})
	if err != nil {
		return nil, result, domainErrors.NewGatewayUnavailableError(err)
	}

	if !isSuccess(result.HTTPStatus) || explicitlyUnsuccessful(result.ResponseBody) {
		message := messageOf(result.ResponseBody, "Payment processing failed")
		c.logger.Warn("ClubReadyClient: Payment rejected",
			zap.String("clubready_user_id", req.UserID),
			zap.Int("status_code", result.HTTPStatus),
			zap.String("message", message))
		return nil, result, domainErrors.NewGatewayRejectedError(message)
	}

	paymentID := extract(asObject(result.ResponseBody), paymentIDExtractors)
	if paymentID == "" {
		payload, _ := recordPayload(result.ResponseBody)
		paymentID = extract(payload, paymentIDExtractors)
	}
	if paymentID == "" {
		return nil, result, domainErrors.NewUnexpectedResponseShapeError("ClubReady payment response has no payment id")
	}

	c.logger.Info("ClubReadyClient: Payment successful",
		zap.String("clubready_user_id", req.UserID),
		zap.String("clubready_payment_id", paymentID))

	return &provider.PaymentResult{
		PaymentID: paymentID,
		Raw:       result.ResponseBody,
	}, result, nil
}
