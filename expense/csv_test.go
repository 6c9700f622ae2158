package expense

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		report   Report
		expected string
	}{
		{
			name: "Two items",
			report: Report{
				Expenses: []Line{
					{Item: "aaloo", Amount: 200, Category: "Food & Vegetables"},
					{Item: "petrol", Amount: 500, Category: "Transportation"},
				},
				TotalAmount: 1,
			},
			expected: "Item,Category,Amount\n" +
				"aaloo,Food & Vegetables,200\n" +
				"petrol,Transportation,500\n" +
				"TOTAL,,700\n",
		},
		{
			name:     "No items",
			report:   Report{},
			expected: "Item,Category,Amount\nTOTAL,,0\n",
		},
		{
			name: "Fractional amounts",
			report: Report{
				Expenses: []Line{
					{Item: "chai", Amount: 0.1, Category: "Food & Vegetables"},
					{Item: "samosa", Amount: 0.2, Category: "Food & Vegetables"},
				},
			},
			expected: "Item,Category,Amount\n" +
				"chai,Food & Vegetables,0.1\n" +
				"samosa,Food & Vegetables,0.2\n" +
				"TOTAL,,0.3\n",
		},
		{
			name: "Quoted item",
			report: Report{
				Expenses: []Line{
					{Item: "milk, bread", Amount: 12.5, Category: "Food & Vegetables"},
				},
			},
			expected: "Item,Category,Amount\n" +
				"\"milk, bread\",Food & Vegetables,12.5\n" +
				"TOTAL,,12.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := CSV(tt.report)
			if err != nil {
				t.Fatalf("CSV() error = %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("CSV() = %q, want %q", string(data), tt.expected)
			}
		})
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	path, err := Export(dir, Report{Expenses: []Line{{Item: "tea", Amount: 20, Category: "Other"}}}, now)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filepath.Base(path) != "expenses_2024-03-09.csv" {
		t.Errorf("Export() path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Item,Category,Amount\ntea,Other,20\nTOTAL,,20\n" {
		t.Errorf("exported content = %q", string(data))
	}
}
