package dto

import "github.com/shopspring/decimal"

// SalesPoint is one local calendar day of the trailing sales series.
type SalesPoint struct {
	Date  string `json:"date"`  // YYYY-MM-DD
	Label string `json:"label"` // "2 Jan"
	Sales int64  `json:"sales"`
}

type ReportSummary struct {
	TotalRevenue     int64           `json:"totalRevenue"`
	TransactionCount int             `json:"transactionCount"`
	AverageBasket    decimal.Decimal `json:"averageBasket"`
	TotalCOGS        int64           `json:"totalCogs"`
	GrossProfit      int64           `json:"grossProfit"`
	GrossMargin      decimal.Decimal `json:"grossMargin"` // percent
	CashRevenue      int64           `json:"cashRevenue"`
	QRISRevenue      int64           `json:"qrisRevenue"`
	Last7Days        []SalesPoint    `json:"last7Days"`
}
