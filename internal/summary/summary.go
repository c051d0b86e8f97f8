package summary

import "github.com/shopspring/decimal"

// Total is one department/category bucket of the transactions feed.
type Total struct {
	Department string          `json:"department"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
}
