package commission

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Range string

const (
	Range3Months Range = "3months"
	Range6Months Range = "6months"
	Range1Year   Range = "1year"

	DefaultRange = Range6Months
	topEarners   = 5
)

func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "":
		return DefaultRange, nil
	case Range3Months, Range6Months, Range1Year:
		return Range(s), nil
	}
	return "", fmt.Errorf("invalid range %q", s)
}

func (r Range) months() int {
	switch r {
	case Range3Months:
		return 3
	case Range1Year:
		return 12
	}
	return 6
}

// Start is the first day of the earliest month the range covers,
// counting the current month.
func (r Range) Start(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(r.months() - 1), 0)
}

// End is the exclusive upper bound shared by every range: the first day
// of the month after now.
func End(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// Line is one approved invoice as the report sees it.
type Line struct {
	UserID           int64
	Amount           decimal.Decimal
	CommissionAmount decimal.Decimal
	InvoiceDate      time.Time
}

type Month struct {
	Month        string          `json:"month"`
	Amount       decimal.Decimal `json:"amount"`
	Commission   decimal.Decimal `json:"commission"`
	InvoiceCount int             `json:"invoice_count"`
}

type Earner struct {
	UserID          int64           `json:"user_id"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	InvoiceCount    int             `json:"invoice_count"`
}

type Report struct {
	Range             Range           `json:"range"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	InvoiceCount      int             `json:"invoice_count"`
	AvgCommissionRate decimal.Decimal `json:"avg_commission_rate"`
	Monthly           []Month         `json:"monthly"`
	TopEarners        []Earner        `json:"top_earners,omitempty"`
}

// Aggregate folds lines into a report. Every month of the range gets a
// bucket, empty or not.
func Aggregate(r Range, now time.Time, lines []Line, withEarners bool) *Report {
	report := &Report{
		Range:             r,
		TotalCommission:   decimal.Zero,
		TotalAmount:       decimal.Zero,
		AvgCommissionRate: decimal.Zero,
	}

	start := r.Start(now)
	index := make(map[string]int, r.months())
	for i := 0; i < r.months(); i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		index[key] = i
		report.Monthly = append(report.Monthly, Month{Month: key, Amount: decimal.Zero, Commission: decimal.Zero})
	}

	earners := map[int64]*Earner{}
	for _, l := range lines {
		report.TotalAmount = report.TotalAmount.Add(l.Amount)
		report.TotalCommission = report.TotalCommission.Add(l.CommissionAmount)
		report.InvoiceCount++

		if i, ok := index[l.InvoiceDate.UTC().Format("2006-01")]; ok {
			m := &report.Monthly[i]
			m.Amount = m.Amount.Add(l.Amount)
			m.Commission = m.Commission.Add(l.CommissionAmount)
			m.InvoiceCount++
		}

		if withEarners {
			e, ok := earners[l.UserID]
			if !ok {
				e = &Earner{UserID: l.UserID, TotalCommission: decimal.Zero}
				earners[l.UserID] = e
			}
			e.TotalCommission = e.TotalCommission.Add(l.CommissionAmount)
			e.InvoiceCount++
		}
	}

	if report.TotalAmount.IsPositive() {
		report.AvgCommissionRate = report.TotalCommission.Div(report.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	if withEarners {
		report.TopEarners = rank(earners)
	}
	return report
}

func rank(earners map[int64]*Earner) []Earner {
	out := make([]Earner, 0, len(earners))
	for _, e := range earners {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalCommission.Cmp(out[j].TotalCommission); c != 0 {
			return c > 0
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > topEarners {
		out = out[:topEarners]
	}
	return out
}
