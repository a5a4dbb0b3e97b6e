package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer owes the business the amount in Balance.
type Customer struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Supplier is owed by the business the amount in Balance.
type Supplier struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// PartyInput holds the editable contact fields of a customer or supplier.
// Balance is never accepted from callers.
type PartyInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"max=20"`
	Address string `json:"address"`
	Email   string `json:"email" validate:"omitempty,email,max=100"`
}
