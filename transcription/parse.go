package transcription

import (
	"encoding/json"
	"fmt"
	"strings"

	"voicetracker/expense"
)

type wireLine struct {
	Item     *string  `json:"item"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
}

type wireReport struct {
	Transcription *string     `json:"transcription"`
	Translation   *string     `json:"translation"`
	Expenses      *[]wireLine `json:"expenses"`
	TotalAmount   *float64    `json:"totalAmount"`
	Currency      *string     `json:"currency"`
}

// ParseReport validates a model reply against the report schema. All
// fields are required; the reported total is replaced by the line sum.
func ParseReport(reply string) (expense.Report, error) {
	body := stripFence(strings.TrimSpace(reply))
	if body == "" {
		return expense.Report{}, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	var wire wireReport
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return expense.Report{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case wire.Transcription == nil:
		return expense.Report{}, missing("transcription")
	case wire.Translation == nil:
		return expense.Report{}, missing("translation")
	case wire.Expenses == nil:
		return expense.Report{}, missing("expenses")
	case wire.TotalAmount == nil:
		return expense.Report{}, missing("totalAmount")
	case wire.Currency == nil:
		return expense.Report{}, missing("currency")
	}

	report := expense.Report{
		Transcription: *wire.Transcription,
		Translation:   *wire.Translation,
		Expenses:      make([]expense.Line, 0, len(*wire.Expenses)),
		TotalAmount:   *wire.TotalAmount,
		Currency:      *wire.Currency,
	}
	for i, line := range *wire.Expenses {
		switch {
		case line.Item == nil:
			return expense.Report{}, missing(fmt.Sprintf("expenses[%d].item", i))
		case line.Amount == nil:
			return expense.Report{}, missing(fmt.Sprintf("expenses[%d].amount", i))
		case line.Category == nil:
			return expense.Report{}, missing(fmt.Sprintf("expenses[%d].category", i))
		case *line.Amount < 0:
			return expense.Report{}, fmt.Errorf("%w: expenses[%d].amount is negative", ErrMalformedResponse, i)
		}
		report.Expenses = append(report.Expenses, expense.Line{
			Item:     *line.Item,
			Amount:   *line.Amount,
			Category: *line.Category,
		})
	}

	report.Normalize()
	return report, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedResponse, field)
}

// stripFence removes a surrounding markdown code fence, which unconstrained
// replies sometimes carry.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
