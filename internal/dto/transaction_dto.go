package dto

import (
	"time"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// TransactionRequest is a manual ledger entry. Items are taken as given;
// the catalog is not consulted.
type TransactionRequest struct {
	ID            string              `json:"id"            validate:"max=64"`
	Date          *time.Time          `json:"date"`
	Total         int64               `json:"total"         validate:"min=0"`
	Items         []model.CartItem    `json:"items"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH QRIS"`
	CustomerName  string              `json:"customerName"  validate:"max=120"`
	CustomerPhone string              `json:"customerPhone" validate:"max=32"`
	AmountGiven   int64               `json:"amountGiven"   validate:"min=0"`
	Change        int64               `json:"change"        validate:"min=0"`
}

type VoidTransactionRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type TransactionFilter struct {
	Search string `form:"q"`
}
