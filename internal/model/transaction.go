package model

import "time"

// PaymentMethod: "CASH" | "QRIS"
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentQRIS PaymentMethod = "QRIS"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQRIS
}

// DefaultCustomerName is used when a sale is recorded without a customer name.
const DefaultCustomerName = "Umum"

// Transaction is a committed sale or a manual ledger entry.
// Items are immutable snapshots taken at commit time.
type Transaction struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Total         int64         `json:"total"`
	Items         []CartItem    `json:"items"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	AmountGiven   int64         `json:"amountGiven"` // uang yang diterima
	Change        int64         `json:"change"`      // kembalian, 0 for QRIS
}

// Cost sums cost price × quantity over all line items.
func (t Transaction) Cost() int64 {
	var sum int64
	for _, item := range t.Items {
		sum += item.LineCost()
	}
	return sum
}

// Clone returns a copy that shares no slices with t.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Items != nil {
		c.Items = append([]CartItem(nil), t.Items...)
	}
	return c
}

// VoidRecord keeps a deleted transaction for audit purposes.
// Voided transactions are absent from the ledger and from every report.
type VoidRecord struct {
	Transaction Transaction `json:"transaction"`
	Reason      string      `json:"reason"`
	VoidedAt    time.Time   `json:"voidedAt"`
}
