package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

func saleAt(id string, date time.Time, method model.PaymentMethod, price, cost int64, qty int) model.Transaction {
	item := model.CartItem{Product: model.Product{ID: "p-" + id, Name: id, Price: price, CostPrice: cost}, Quantity: qty}
	return model.Transaction{
		ID:            id,
		Date:          date,
		Total:         item.LineTotal(),
		Items:         []model.CartItem{item},
		PaymentMethod: method,
		CustomerName:  model.DefaultCustomerName,
	}
}

func TestSummarize_Figures(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, jakarta)
	txs := []model.Transaction{
		saleAt("TX-3", now.Add(-time.Hour), model.PaymentCash, 10000, 6000, 2),
		saleAt("TX-2", now.AddDate(0, 0, -1), model.PaymentQRIS, 15000, 11000, 1),
		saleAt("TX-1", now.AddDate(0, 0, -3), model.PaymentCash, 5000, 2000, 3),
	}

	sum := Summarize(txs, now, jakarta)
	assert.Equal(t, int64(50000), sum.TotalRevenue)
	assert.Equal(t, 3, sum.TransactionCount)
	assert.True(t, decimal.RequireFromString("16666.67").Equal(sum.AverageBasket), sum.AverageBasket.String())
	assert.Equal(t, int64(29000), sum.TotalCOGS)
	assert.Equal(t, int64(21000), sum.GrossProfit)
	assert.True(t, decimal.RequireFromString("42").Equal(sum.GrossMargin), sum.GrossMargin.String())
	assert.Equal(t, int64(35000), sum.CashRevenue)
	assert.Equal(t, int64(15000), sum.QRISRevenue)
}

func TestSummarize_UnknownMethodCountsAsCash(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		saleAt("TX-3", now, model.PaymentQRIS, 15000, 0, 1),
		saleAt("TX-2", now, model.PaymentMethod("DEBIT"), 8000, 0, 1),
		saleAt("TX-1", now, model.PaymentCash, 2000, 0, 1),
	}

	sum := Summarize(txs, now, time.UTC)
	assert.Equal(t, int64(25000), sum.TotalRevenue)
	assert.Equal(t, int64(15000), sum.QRISRevenue)
	assert.Equal(t, int64(10000), sum.CashRevenue)
	assert.Equal(t, sum.TotalRevenue, sum.CashRevenue+sum.QRISRevenue)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil, time.Now(), time.UTC)
	assert.Equal(t, int64(0), sum.TotalRevenue)
	assert.True(t, sum.AverageBasket.IsZero())
	assert.True(t, sum.GrossMargin.IsZero())
	require.Len(t, sum.Last7Days, SeriesDays)
	for _, p := range sum.Last7Days {
		assert.Equal(t, int64(0), p.Sales)
	}
}

func TestDailySeries_ZeroFilledAscending(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, jakarta)
	txs := []model.Transaction{
		saleAt("today", now, model.PaymentCash, 20000, 0, 1),
		// 23:30 UTC on the 13th is already the 14th in Jakarta
		saleAt("late", time.Date(2024, 3, 13, 23, 30, 0, 0, time.UTC), model.PaymentQRIS, 7000, 0, 1),
		saleAt("oldest", time.Date(2024, 3, 9, 1, 0, 0, 0, jakarta), model.PaymentCash, 3000, 0, 1),
		saleAt("outside", time.Date(2024, 3, 8, 23, 0, 0, 0, jakarta), model.PaymentCash, 99000, 0, 1),
	}

	series := DailySeries(txs, now, jakarta, SeriesDays)
	require.Len(t, series, 7)
	assert.Equal(t, "2024-03-09", series[0].Date)
	assert.Equal(t, "9 Mar", series[0].Label)
	assert.Equal(t, "2024-03-15", series[6].Date)
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Date, series[i].Date)
	}

	byDate := map[string]int64{}
	var total int64
	for _, p := range series {
		byDate[p.Date] = p.Sales
		total += p.Sales
	}
	assert.Equal(t, int64(20000), byDate["2024-03-15"])
	assert.Equal(t, int64(7000), byDate["2024-03-14"])
	assert.Equal(t, int64(0), byDate["2024-03-13"])
	assert.Equal(t, int64(3000), byDate["2024-03-09"])
	assert.Equal(t, int64(30000), total, "sum equals the sales inside the window")
}

func TestDayLabel_IndonesianMonths(t *testing.T) {
	assert.Equal(t, "2 Jan", dayLabel(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "17 Agu", dayLabel(time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "25 Des", dayLabel(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)))
}
