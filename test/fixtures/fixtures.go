package fixtures

import (
	"github.com/nimasrn/trade-ledger/internal/model"
)

const TestDate = "2024-01-15"

var (
	Ahmed = model.PartyInput{
		Name:    "Ahmed",
		Phone:   "0100000000",
		Address: "Cairo",
		Email:   "ahmed@example.com",
	}

	Acme = model.PartyInput{
		Name:  "Acme",
		Phone: "0200000000",
		Email: "billing@acme.example",
	}
)

func SalesInvoice(number string, customerID int64, amount string) model.SalesInvoiceInput {
	return model.SalesInvoiceInput{
		InvoiceNumber: number,
		CustomerID:    customerID,
		Amount:        model.NumericString(amount),
		InvoiceDate:   TestDate,
	}
}

func PurchaseInvoice(number string, supplierID int64, amount string) model.PurchaseInvoiceInput {
	return model.PurchaseInvoiceInput{
		InvoiceNumber: number,
		SupplierID:    supplierID,
		Amount:        model.NumericString(amount),
		InvoiceDate:   TestDate,
	}
}

func Collection(customerID int64, amount string) model.CollectionInput {
	return model.CollectionInput{
		CustomerID:     customerID,
		Amount:         model.NumericString(amount),
		CollectionDate: TestDate,
	}
}

func Payment(supplierID int64, amount string) model.PaymentInput {
	return model.PaymentInput{
		SupplierID:  supplierID,
		Amount:      model.NumericString(amount),
		PaymentDate: TestDate,
	}
}
