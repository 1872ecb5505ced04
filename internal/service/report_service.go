package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// SeriesDays is the length of the trailing daily sales series.
const SeriesDays = 7

var shortMonthsID = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

type ReportService interface {
	Summary(ctx context.Context) dto.ReportSummary
	// Location is the zone calendar days are counted in.
	Location() *time.Location
}

type reportService struct {
	state *State
	loc   *time.Location
	now   func() time.Time
}

func NewReportService(state *State, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{state: state, loc: loc, now: time.Now}
}

func (s *reportService) Location() *time.Location { return s.loc }

func (s *reportService) Summary(_ context.Context) dto.ReportSummary {
	var out dto.ReportSummary
	s.state.read(func(snap *repository.Snapshot) {
		out = Summarize(snap.Transactions, s.now(), s.loc)
	})
	return out
}

// Summarize derives the dashboard figures from the ledger. It is pure:
// the same transactions, clock and zone always give the same result.
func Summarize(txs []model.Transaction, now time.Time, loc *time.Location) dto.ReportSummary {
	var sum dto.ReportSummary
	for _, tx := range txs {
		sum.TotalRevenue += tx.Total
		sum.TotalCOGS += tx.Cost()
		if tx.PaymentMethod == model.PaymentQRIS {
			sum.QRISRevenue += tx.Total
		}
	}
	// anything not QRIS counts as cash, including methods only an imported
	// backup can carry
	sum.CashRevenue = sum.TotalRevenue - sum.QRISRevenue
	sum.TransactionCount = len(txs)
	sum.GrossProfit = sum.TotalRevenue - sum.TotalCOGS

	sum.AverageBasket = decimal.Zero
	if sum.TransactionCount > 0 {
		sum.AverageBasket = decimal.NewFromInt(sum.TotalRevenue).
			Div(decimal.NewFromInt(int64(sum.TransactionCount))).
			Round(2)
	}
	sum.GrossMargin = decimal.Zero
	if sum.TotalRevenue > 0 {
		sum.GrossMargin = decimal.NewFromInt(sum.GrossProfit).
			Div(decimal.NewFromInt(sum.TotalRevenue)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	sum.Last7Days = DailySeries(txs, now, loc, SeriesDays)
	return sum
}

// DailySeries buckets sales by local calendar date over the trailing days
// ending today, oldest first, zero-filled.
func DailySeries(txs []model.Transaction, now time.Time, loc *time.Location, days int) []dto.SalesPoint {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc)
	points := make([]dto.SalesPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := time.Date(today.Year(), today.Month(), today.Day()-(days-1-i), 0, 0, 0, 0, loc)
		key := day.Format("2006-01-02")
		points[i] = dto.SalesPoint{Date: key, Label: dayLabel(day)}
		index[key] = i
	}
	for _, tx := range txs {
		if i, ok := index[tx.Date.In(loc).Format("2006-01-02")]; ok {
			points[i].Sales += tx.Total
		}
	}
	return points
}

// dayLabel renders "2 Jan" with Indonesian month abbreviations.
func dayLabel(day time.Time) string {
	return fmt.Sprintf("%d %s", day.Day(), shortMonthsID[day.Month()-1])
}
