package http

import (
	"encoding/json"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const msgInvalidBody = "Invalid request body"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError answers with {error} and the status of err's code. Only
// INVALID_INPUT maps to 400; every other checkout failure is a 500.
func writeError(c echo.Context, err error) error {
	return c.JSON(pkgerrors.StatusOf(err), ErrorResponse{Error: pkgerrors.MessageOf(err)})
}

// money renders an amount as a JSON number with two decimals
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// ProspectView is the prospect shape the checkout page reads
type ProspectView struct {
	ID              string `json:"id"`
	ClubReadyUserID string `json:"clubreadyUserId"`
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

func newProspectView(p *model.Prospect) *ProspectView {
	return &ProspectView{
		ID:              p.ID.String(),
		ClubReadyUserID: p.ClubReadyUserID,
		UserID:          p.ClubReadyUserID,
		Email:           p.Email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
	}
}
