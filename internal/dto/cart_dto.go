package dto

import "github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type BeginCheckoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH QRIS"`
}

// ConfirmPaymentRequest: AmountGiven is ignored for QRIS.
// CustomerEmail, when set, gets the receipt PDF by mail.
type ConfirmPaymentRequest struct {
	CustomerName  string `json:"customerName"  validate:"max=120"`
	CustomerPhone string `json:"customerPhone" validate:"max=32"`
	AmountGiven   int64  `json:"amountGiven"   validate:"min=0"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartResponse struct {
	model.Cart
	ItemCount int   `json:"itemCount"`
	Subtotal  int64 `json:"subtotal"`
	Tax       int64 `json:"tax"`
	Total     int64 `json:"total"`
}

type CheckoutResponse struct {
	Transaction   model.Transaction `json:"transaction"`
	Change        int64             `json:"change"`
	ReceiptQueued bool              `json:"receiptQueued"`
	Cart          CartResponse      `json:"cart"`
}
