package expense

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Run("Overrides reported total", func(t *testing.T) {
		r := Report{
			Expenses:    []Line{{Item: "laptop", Amount: 50000, Category: "Electronics"}},
			TotalAmount: 49000,
		}
		r.Normalize()
		if r.TotalAmount != 50000 {
			t.Errorf("TotalAmount = %v, want 50000", r.TotalAmount)
		}
	})

	t.Run("Decimal amounts", func(t *testing.T) {
		r := Report{Expenses: []Line{{Amount: 0.1}, {Amount: 0.2}}}
		r.Normalize()
		if r.TotalAmount != 0.3 {
			t.Errorf("TotalAmount = %v, want 0.3", r.TotalAmount)
		}
	})

	t.Run("Nil expenses", func(t *testing.T) {
		r := Report{TotalAmount: 12}
		r.Normalize()
		if r.TotalAmount != 0 || r.Expenses == nil {
			t.Errorf("Normalize() = %+v", r)
		}
	})
}

func TestMoney(t *testing.T) {
	tests := []struct {
		currency string
		amount   float64
		expected string
	}{
		{"INR", 150000, "₹150,000"},
		{"USD", 12.5, "$12.5"},
		{"", 200, "$200"},
	}
	for _, tt := range tests {
		if got := Money(tt.currency, tt.amount); got != tt.expected {
			t.Errorf("Money(%q, %v) = %q, want %q", tt.currency, tt.amount, got, tt.expected)
		}
	}
}

func TestKnownCategory(t *testing.T) {
	if !KnownCategory("Medical") {
		t.Error("Medical should be a known category")
	}
	if KnownCategory("Groceries") {
		t.Error("Groceries should not be a known category")
	}
}

// Totals are decimal sums of the line amounts, not float64 accumulation.
func TestFractionalTotal(t *testing.T) {
	lines := []Line{
		{Item: "chai", Amount: 0.1},
		{Item: "samosa", Amount: 0.2},
		{Item: "paan", Amount: 10.15},
	}
	r := Report{Expenses: lines, TotalAmount: 999}
	r.Normalize()

	if got := Sum(lines).String(); got != "10.45" {
		t.Errorf("Sum() = %s, want 10.45", got)
	}
	if r.TotalAmount != 10.45 {
		t.Errorf("TotalAmount = %v, want 10.45", r.TotalAmount)
	}
	if r.TotalAmount != Sum(r.Expenses).InexactFloat64() {
		t.Errorf("TotalAmount %v differs from Sum %v", r.TotalAmount, Sum(r.Expenses))
	}

	// 0.1 + 0.2 accumulated in float64 is 0.30000000000000004.
	pair := Report{Expenses: lines[:2]}
	pair.Normalize()
	if pair.TotalAmount != 0.3 {
		t.Errorf("TotalAmount = %v, want 0.3", pair.TotalAmount)
	}
}
