package expense

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{"Item", "Category", "Amount"}

// WriteCSV writes the report as Item,Category,Amount rows followed by a
// TOTAL,,<sum> row.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, line := range r.Expenses {
		record := []string{line.Item, line.Category, FormatAmount(line.Amount)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := cw.Write([]string{"TOTAL", "", Sum(r.Expenses).String()}); err != nil {
		return fmt.Errorf("write csv total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func CSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFileName(t time.Time) string {
	return fmt.Sprintf("expenses_%s.csv", t.Format("2006-01-02"))
}

// Export writes the CSV into dir and returns the path of the new file.
func Export(dir string, r Report, now time.Time) (string, error) {
	data, err := CSV(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// FormatAmount prints an amount in its shortest decimal form (200, 12.5).
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}
