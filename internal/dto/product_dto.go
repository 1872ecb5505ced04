package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductRequest carries every editable product field. Update is a full replace.
type ProductRequest struct {
	Name      string `json:"name"      validate:"required,max=120"`
	Barcode   string `json:"barcode"   validate:"max=64"`
	Price     int64  `json:"price"     validate:"min=0"`
	CostPrice int64  `json:"costPrice" validate:"min=0"`
	Category  string `json:"category"  validate:"required,max=60"`
	Image     string `json:"image"`
	Stock     int    `json:"stock"     validate:"min=0"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type StockInRequest struct {
	Barcode  string `json:"barcode"  validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// ProductFilter is bound from the query string. Category "Semua" means all.
type ProductFilter struct {
	Search   string `form:"q"`
	Category string `form:"category"`
}
