package model

// Product is a sellable catalog entry. Prices are whole rupiah.
// Barcode is optional and not unique; ID is the only identity.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Price     int64  `json:"price"`     // harga jual
	CostPrice int64  `json:"costPrice"` // harga modal (HPP)
	Category  string `json:"category"`
	Image     string `json:"image"`
	Stock     int    `json:"stock"`
}

// StockValue is the cost valuation of the units on hand.
func (p Product) StockValue() int64 {
	return p.CostPrice * int64(p.Stock)
}

// CartItem is a denormalized product snapshot plus the quantity sold.
// Transactions keep these snapshots so later catalog edits never rewrite history.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price × quantity at the snapshotted price.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// LineCost is cost price × quantity at the snapshotted cost.
func (i CartItem) LineCost() int64 {
	return i.CostPrice * int64(i.Quantity)
}
