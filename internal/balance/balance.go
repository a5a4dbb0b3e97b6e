// Package balance holds the rules that move a customer or supplier balance
// when a financial-effect record is created, edited or deleted.
//
//	record            create        edit (d = new-old)   delete
//	sales invoice     customer +a   customer +d          customer -a
//	purchase invoice  supplier +a   supplier +d          supplier -a
//	collection        customer -a   customer -d          customer +a
//	payment           supplier -a   supplier -d          supplier +a
package balance

import (
	"sort"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	SalesInvoice    Kind = "sales_invoice"
	PurchaseInvoice Kind = "purchase_invoice"
	Collection      Kind = "collection"
	Payment         Kind = "payment"
)

var Kinds = []Kind{SalesInvoice, PurchaseInvoice, Collection, Payment}

// Owner is the party whose balance the record moves.
func (k Kind) Owner() model.OwnerType {
	switch k {
	case SalesInvoice, Collection:
		return model.OwnerCustomer
	default:
		return model.OwnerSupplier
	}
}

// Sign is +1 for invoices and -1 for cash movements.
func (k Kind) Sign() decimal.Decimal {
	switch k {
	case Collection, Payment:
		return decimal.NewFromInt(-1)
	default:
		return decimal.NewFromInt(1)
	}
}

func (k Kind) String() string {
	return string(k)
}

// Adjustment is a signed change to apply to one owner balance.
type Adjustment struct {
	Owner   model.OwnerType
	OwnerID int64
	Delta   decimal.Decimal
}

func Create(kind Kind, ownerID int64, amount decimal.Decimal) []Adjustment {
	return compact(Adjustment{Owner: kind.Owner(), OwnerID: ownerID, Delta: kind.Sign().Mul(amount)})
}

// Delete reverses the effect of the record as currently stored. Earlier edits
// already moved the balance to match the stored amount and owner.
func Delete(kind Kind, ownerID int64, amount decimal.Decimal) []Adjustment {
	return compact(Adjustment{Owner: kind.Owner(), OwnerID: ownerID, Delta: kind.Sign().Mul(amount).Neg()})
}

// Edit computes the adjustments for changing a record from (oldOwner,
// oldAmount) to (newOwner, newAmount). When the owner is unchanged a single
// delta of sign*(new-old) is produced. When it changes, the full old amount is
// reversed on the old owner and the full new amount is applied to the new one.
func Edit(kind Kind, oldOwnerID int64, oldAmount decimal.Decimal, newOwnerID int64, newAmount decimal.Decimal) []Adjustment {
	if oldOwnerID == newOwnerID {
		return compact(Adjustment{
			Owner:   kind.Owner(),
			OwnerID: newOwnerID,
			Delta:   kind.Sign().Mul(newAmount.Sub(oldAmount)),
		})
	}
	return compact(
		Adjustment{Owner: kind.Owner(), OwnerID: oldOwnerID, Delta: kind.Sign().Mul(oldAmount).Neg()},
		Adjustment{Owner: kind.Owner(), OwnerID: newOwnerID, Delta: kind.Sign().Mul(newAmount)},
	)
}

// Sum folds adjustments into the net delta per owner id. Used by tests and
// reconciliation to reason about the combined effect of many operations.
func Sum(adjs ...[]Adjustment) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal)
	for _, list := range adjs {
		for _, a := range list {
			out[a.OwnerID] = out[a.OwnerID].Add(a.Delta)
		}
	}
	return out
}

// LockOrder sorts adjustments by owner id so that row locks are always taken
// in the same order.
func LockOrder(adjs []Adjustment) []Adjustment {
	sorted := make([]Adjustment, len(adjs))
	copy(sorted, adjs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OwnerID < sorted[j].OwnerID
	})
	return sorted
}

func compact(adjs ...Adjustment) []Adjustment {
	out := make([]Adjustment, 0, len(adjs))
	for _, a := range adjs {
		if !a.Delta.IsZero() {
			out = append(out, a)
		}
	}
	return out
}
