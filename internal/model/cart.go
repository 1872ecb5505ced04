package model

import "time"

// CheckoutState tracks a cart through payment.
// Idle → AwaitingPayment → (commit) Idle with an empty cart, or (cancel) Idle untouched.
type CheckoutState string

const (
	CheckoutIdle            CheckoutState = "idle"
	CheckoutAwaitingPayment CheckoutState = "awaiting_payment"
)

// TaxRate is fixed at zero; the tax field stays in cart and receipt summaries.
const TaxRate = 0

// Cart is one in-progress sale. Carts live only in memory.
type Cart struct {
	ID                string        `json:"id"`
	Items             []CartItem    `json:"items"`
	State             CheckoutState `json:"state"`
	PaymentMethod     PaymentMethod `json:"paymentMethod,omitempty"`
	Processing        bool          `json:"processing"`
	LastTransactionID string        `json:"lastTransactionId,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// Subtotal sums price × quantity over the cart lines.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, item := range c.Items {
		sum += item.LineTotal()
	}
	return sum
}

// Tax is always zero while TaxRate is zero.
func (c *Cart) Tax() int64 {
	return c.Subtotal() * TaxRate / 100
}

func (c *Cart) Total() int64 {
	return c.Subtotal() + c.Tax()
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
