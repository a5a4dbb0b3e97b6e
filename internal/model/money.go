package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for amounts and balances.
const AmountScale = 2

// AmountDigits is the number of integer digits an amount or balance column
// holds. Values at or above MaxAmount are rejected.
const AmountDigits = 18

const DateLayout = "2006-01-02"

var MaxAmount = decimal.New(1, AmountDigits)

// NumericString carries a user supplied amount. It accepts both JSON numbers
// and JSON strings so "500", 500 and 500.25 decode the same way.
type NumericString string

func (n *NumericString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = NumericString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = NumericString(num.String())
	return nil
}

const amountTooLarge = "must have at most 18 integer digits"

// InRange reports whether a balance fits the stored column.
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxAmount)
}

// ParseAmount parses a strictly positive amount rounded to AmountScale.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewValidationError("amount", "must be a valid number")
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, NewValidationError("amount", amountTooLarge)
	}
	d = d.Round(AmountScale)
	if !d.IsPositive() {
		return decimal.Zero, NewValidationError("amount", "must be greater than zero")
	}
	if d.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, NewValidationError("amount", amountTooLarge)
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD calendar date. time.Parse rejects impossible
// days such as 2024-02-30.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, NewValidationError(field, "must be a valid date (YYYY-MM-DD)")
	}
	return t, nil
}

// Date is a calendar date rendered as YYYY-MM-DD in JSON.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
