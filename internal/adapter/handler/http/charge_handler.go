package http

import (
	"encoding/json"
	"net/http"

	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ChargeResponse is returned after a completed charge. Success,
// ClubReadyPaymentID and PackageName are the names the existing checkout
// page reads.
type ChargeResponse struct {
	TransactionID      string      `json:"transactionId"`
	ExternalPaymentID  string      `json:"externalPaymentId"`
	Amount             json.Number `json:"amount"`
	OfferingName       string      `json:"offeringName"`
	Success            bool        `json:"success"`
	ClubReadyPaymentID string      `json:"clubreadyPaymentId"`
	PackageName        string      `json:"packageName"`
}

type ChargeHandler struct {
	usecase usecase.CheckoutUsecase
	logger  *zap.Logger
}

func NewChargeHandler(usecase usecase.CheckoutUsecase, logger *zap.Logger) *ChargeHandler {
	return &ChargeHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Charge runs one checkout
// POST /api/v1/payments/charge
func (h *ChargeHandler) Charge(c echo.Context) error {
	var in usecase.ChargeInput
	if err := c.Bind(&in); err != nil {
		h.logger.Warn("Invalid charge request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}

	receipt, err := h.usecase.Charge(c.Request().Context(), &in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ChargeResponse{
		TransactionID:      receipt.TransactionID.String(),
		ExternalPaymentID:  receipt.ExternalPaymentID,
		Amount:             money(receipt.Amount),
		OfferingName:       receipt.OfferingName,
		Success:            true,
		ClubReadyPaymentID: receipt.ExternalPaymentID,
		PackageName:        receipt.OfferingName,
	})
}
