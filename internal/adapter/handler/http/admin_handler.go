package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/middleware/auth"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TransactionLogsResponse lists the audit records of one transaction
type TransactionLogsResponse struct {
	TransactionID string              `json:"transaction_id"`
	Logs          []*model.PaymentLog `json:"logs"`
}

type AdminHandler struct {
	usecase usecase.AdminUsecase
	logger  *zap.Logger
}

func NewAdminHandler(usecase usecase.AdminUsecase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetTransaction returns one ledger row with its prospect and package
// GET /api/v1/admin/transactions/:id
func (h *AdminHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction id"})
	}

	h.logAccess(c, id)

	tx, err := h.usecase.GetTransaction(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, tx)
}

// ListTransactionLogs returns the audit trail of one transaction
// GET /api/v1/admin/transactions/:id/logs
func (h *AdminHandler) ListTransactionLogs(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction id"})
	}

	h.logAccess(c, id)

	logs, err := h.usecase.ListTransactionLogs(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, TransactionLogsResponse{
		TransactionID: id.String(),
		Logs:          logs,
	})
}

func (h *AdminHandler) logAccess(c echo.Context, id uuid.UUID) {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return
	}
	h.logger.Info("Admin transaction lookup",
		zap.String("user_id", user.UserID),
		zap.String("transaction_id", id.String()),
		zap.String("path", c.Path()))
}
