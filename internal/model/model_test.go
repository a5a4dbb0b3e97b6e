package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "500", want: "500"},
		{in: " 12.345 ", want: "12.35"},
		{in: "0.005", want: "0.01"},
		{in: "0", wantErr: true},
		{in: "0.004", wantErr: true},
		{in: "-10", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "999999999999999999.99", want: "999999999999999999.99"},
		{in: "1000000000000000000", wantErr: true},
		{in: "999999999999999999.995", wantErr: true},
		{in: "1e300", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("invoice_date", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	_, err = ParseDate("invoice_date", "2023-02-29")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invoice_date", verr.Field)

	_, err = ParseDate("invoice_date", "29/02/2024")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNumericString_UnmarshalJSON(t *testing.T) {
	var in SalesInvoiceInput
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 500.25}`), &in))
	assert.Equal(t, NumericString("500.25"), in.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "12"}`), &in))
	assert.Equal(t, NumericString("12"), in.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": null}`), &in))
	assert.Equal(t, NumericString(""), in.Amount)
}

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("date", "2024-05-01")
	require.NoError(t, err)

	b, err := json.Marshal(NewDate(d))
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d))
}

func TestValidate(t *testing.T) {
	valid := SalesInvoiceInput{
		InvoiceNumber: "INV-1",
		CustomerID:    1,
		Amount:        "500",
		InvoiceDate:   "2024-01-15",
	}
	assert.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(in *SalesInvoiceInput)
		field  string
	}{
		{"missing number", func(in *SalesInvoiceInput) { in.InvoiceNumber = "" }, "invoice_number"},
		{"missing owner", func(in *SalesInvoiceInput) { in.CustomerID = 0 }, "customer_id"},
		{"non numeric amount", func(in *SalesInvoiceInput) { in.Amount = "abc" }, "amount"},
		{"negative amount", func(in *SalesInvoiceInput) { in.Amount = "-1" }, "amount"},
		{"amount past 18 digits", func(in *SalesInvoiceInput) { in.Amount = "1000000000000000000" }, "amount"},
		{"bad date", func(in *SalesInvoiceInput) { in.InvoiceDate = "2024-13-01" }, "invoice_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := Validate(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidate_PartyInput(t *testing.T) {
	assert.NoError(t, Validate(PartyInput{Name: "Ahmed"}))
	assert.ErrorIs(t, Validate(PartyInput{}), ErrValidation)
	assert.ErrorIs(t, Validate(PartyInput{Name: "Ahmed", Email: "nope"}), ErrValidation)
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("disk full")
	serr := NewStorageError("create sales invoice", cause)
	assert.ErrorIs(t, serr, ErrStorage)
	assert.ErrorIs(t, serr, cause)
	assert.NotErrorIs(t, serr, ErrValidation)

	nerr := NewNotFoundError("customer", 7)
	assert.ErrorIs(t, nerr, ErrNotFound)
	assert.Equal(t, "customer 7 not found", nerr.Error())

	assert.Equal(t, "amount must be a positive number", NewValidationError("amount", "must be a positive number").Error())
}
