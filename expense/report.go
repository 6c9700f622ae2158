package expense

import (
	"github.com/shopspring/decimal"
)

var Categories = []string{
	"Food & Vegetables",
	"Electronics",
	"Transportation",
	"Shopping",
	"Bills & Utilities",
	"Medical",
	"Other",
}

type Line struct {
	Item     string  `json:"item"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// Report is the structured extraction result for one recording.
//
// TotalAmount is always recomputed locally; see Normalize.
type Report struct {
	Transcription string  `json:"transcription"`
	Translation   string  `json:"translation"`
	Expenses      []Line  `json:"expenses"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
}

// Sum adds the amounts of lines in decimal arithmetic.
func Sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Amount))
	}
	return total
}

// Normalize overwrites the reported total with the sum of the line amounts.
func (r *Report) Normalize() {
	if r.Expenses == nil {
		r.Expenses = []Line{}
	}
	r.TotalAmount = Sum(r.Expenses).InexactFloat64()
}

func KnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
