// Package export renders customer and supplier reports as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	CustomerSheet = "Customer Reports"
	SupplierSheet = "Supplier Reports"
)

var (
	customerHeaders = []string{"ID", "Customer Name", "Phone", "Email", "Balance", "Total Invoices", "Total Collections", "Created"}
	supplierHeaders = []string{"ID", "Supplier Name", "Phone", "Email", "Balance", "Total Invoices", "Total Payments", "Created"}
)

func CustomerReport(rows []*model.PartyReportRow) ([]byte, error) {
	return partyReport(CustomerSheet, customerHeaders, rows)
}

func SupplierReport(rows []*model.PartyReportRow) ([]byte, error) {
	return partyReport(SupplierSheet, supplierHeaders, rows)
}

// Filename builds a dated attachment name such as customer_reports_20240115.xlsx.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func partyReport(sheet string, headers []string, rows []*model.PartyReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rows {
		row := i + 2
		values := []interface{}{
			r.ID,
			r.Name,
			orDash(r.Phone),
			orDash(r.Email),
			r.Balance.InexactFloat64(),
			r.TotalInvoices.InexactFloat64(),
			r.TotalCash.InexactFloat64(),
			r.CreatedAt.Format(model.DateLayout),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, err
		}
		from, _ := excelize.CoordinatesToCellName(5, row)
		to, _ := excelize.CoordinatesToCellName(7, row)
		if err := f.SetCellStyle(sheet, from, to, amountStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
