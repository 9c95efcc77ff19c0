package http

import (
	"net/http"

	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ResolveCustomerResponse is returned by the resolve endpoint. Success and
// Prospect repeat the customer for the existing checkout page.
type ResolveCustomerResponse struct {
	CustomerID string        `json:"customerId"`
	ExternalID string        `json:"externalId"`
	Email      string        `json:"email"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Success    bool          `json:"success"`
	Prospect   *ProspectView `json:"prospect"`
}

// SearchCustomerResponse is returned by the search endpoint
type SearchCustomerResponse struct {
	Found    bool          `json:"found"`
	Prospect *ProspectView `json:"prospect"`
}

type CustomerHandler struct {
	usecase usecase.CheckoutUsecase
	logger  *zap.Logger
}

func NewCustomerHandler(usecase usecase.CheckoutUsecase, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Resolve finds or creates the customer
// POST /api/v1/customers/resolve
func (h *CustomerHandler) Resolve(c echo.Context) error {
	var in usecase.CustomerInput
	if err := c.Bind(&in); err != nil {
		h.logger.Warn("Invalid resolve request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}

	prospect, err := h.usecase.ResolveCustomer(c.Request().Context(), &in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ResolveCustomerResponse{
		CustomerID: prospect.ID.String(),
		ExternalID: prospect.ClubReadyUserID,
		Email:      prospect.Email,
		FirstName:  prospect.FirstName,
		LastName:   prospect.LastName,
		Success:    true,
		Prospect:   newProspectView(prospect),
	})
}

// Search looks the customer up without creating one
// POST /api/v1/customers/search
func (h *CustomerHandler) Search(c echo.Context) error {
	var in usecase.CustomerInput
	if err := c.Bind(&in); err != nil {
		h.logger.Warn("Invalid search request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}

	prospect, err := h.usecase.SearchCustomer(c.Request().Context(), &in)
	if err != nil {
		return writeError(c, err)
	}

	if prospect == nil {
		return c.JSON(http.StatusOK, SearchCustomerResponse{Found: false})
	}
	return c.JSON(http.StatusOK, SearchCustomerResponse{
		Found:    true,
		Prospect: newProspectView(prospect),
	})
}
