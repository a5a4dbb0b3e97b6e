package balance

import (
	"testing"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestKind_OwnerAndSign(t *testing.T) {
	tests := []struct {
		kind  Kind
		owner model.OwnerType
		sign  int64
	}{
		{SalesInvoice, model.OwnerCustomer, 1},
		{PurchaseInvoice, model.OwnerSupplier, 1},
		{Collection, model.OwnerCustomer, -1},
		{Payment, model.OwnerSupplier, -1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.owner, tt.kind.Owner())
			assert.True(t, decimal.NewFromInt(tt.sign).Equal(tt.kind.Sign()))
		})
	}
}

func TestCreateAndDelete(t *testing.T) {
	tests := []struct {
		kind        Kind
		createDelta string
	}{
		{SalesInvoice, "500"},
		{PurchaseInvoice, "500"},
		{Collection, "-500"},
		{Payment, "-500"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			created := Create(tt.kind, 1, d("500"))
			require.Len(t, created, 1)
			assert.Equal(t, tt.kind.Owner(), created[0].Owner)
			assert.Equal(t, int64(1), created[0].OwnerID)
			assert.True(t, d(tt.createDelta).Equal(created[0].Delta))

			deleted := Delete(tt.kind, 1, d("500"))
			require.Len(t, deleted, 1)
			assert.True(t, created[0].Delta.Neg().Equal(deleted[0].Delta))

			net := Sum(created, deleted)
			assert.True(t, net[1].IsZero(), "create then delete leaves no residue")
		})
	}
}

func TestEdit_SameOwner(t *testing.T) {
	tests := []struct {
		kind     Kind
		old, new string
		want     string
	}{
		{SalesInvoice, "500", "650", "150"},
		{SalesInvoice, "500", "100", "-400"},
		{PurchaseInvoice, "1000", "1200.50", "200.50"},
		{Collection, "200", "350", "-150"},
		{Payment, "400", "100", "300"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+" "+tt.old+"->"+tt.new, func(t *testing.T) {
			adjs := Edit(tt.kind, 3, d(tt.old), 3, d(tt.new))
			require.Len(t, adjs, 1)
			assert.Equal(t, int64(3), adjs[0].OwnerID)
			assert.True(t, d(tt.want).Equal(adjs[0].Delta), "got %s", adjs[0].Delta)
		})
	}
}

func TestEdit_UnchangedAmountIsNoop(t *testing.T) {
	assert.Empty(t, Edit(Collection, 1, d("200"), 1, d("200.00")))
}

func TestEdit_OwnerReassignment(t *testing.T) {
	adjs := Edit(SalesInvoice, 1, d("500"), 2, d("700"))
	require.Len(t, adjs, 2)

	net := Sum(adjs)
	assert.True(t, d("-500").Equal(net[1]), "old owner loses the full old amount")
	assert.True(t, d("700").Equal(net[2]), "new owner gains the full new amount")

	adjs = Edit(Payment, 4, d("400"), 5, d("400"))
	net = Sum(adjs)
	assert.True(t, d("400").Equal(net[4]))
	assert.True(t, d("-400").Equal(net[5]))
}

func TestEdit_MatchesDeleteThenCreate(t *testing.T) {
	for _, kind := range Kinds {
		edit := Sum(Edit(kind, 1, d("120.10"), 2, d("80.05")))
		replay := Sum(Delete(kind, 1, d("120.10")), Create(kind, 2, d("80.05")))
		assert.Equal(t, len(replay), len(edit))
		for id, delta := range replay {
			assert.True(t, delta.Equal(edit[id]), "%s owner %d", kind, id)
		}
	}
}

func TestScenarioSequence(t *testing.T) {
	// Ahmed: invoice 500, collection 200 edited to 350, invoice deleted.
	var all [][]Adjustment
	all = append(all, Create(SalesInvoice, 1, d("500")))
	all = append(all, Create(Collection, 1, d("200")))
	all = append(all, Edit(Collection, 1, d("200"), 1, d("350")))
	assert.True(t, d("150").Equal(Sum(all...)[1]))

	all = append(all, Delete(SalesInvoice, 1, d("500")))
	assert.True(t, d("-350").Equal(Sum(all...)[1]))
}

func TestLockOrder(t *testing.T) {
	adjs := []Adjustment{
		{OwnerID: 9, Delta: d("1")},
		{OwnerID: 2, Delta: d("2")},
	}
	sorted := LockOrder(adjs)
	assert.Equal(t, int64(2), sorted[0].OwnerID)
	assert.Equal(t, int64(9), sorted[1].OwnerID)
	assert.Equal(t, int64(9), adjs[0].OwnerID, "input is not mutated")
}
