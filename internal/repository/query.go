package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyFilter adds the owner filter, ordering and limit of f. Ties are broken
// by id so records created in the same second keep a stable order.
func applyFilter(q *gorm.DB, ownerColumn, dateColumn string, f model.RecordFilter) *gorm.DB {
	if f.OwnerID > 0 {
		q = q.Where(ownerColumn+" = ?", f.OwnerID)
	}
	column := "created_at"
	if f.OrderBy == model.OrderByDate {
		column = dateColumn
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: !f.Asc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: !f.Asc})
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}

var ErrBalanceOutOfRange = errors.New("balance out of range")

type ownerAmount struct {
	OwnerID int64
	Amount  Money
}

// sumByOwner totals the amount column of table grouped by ownerColumn.
func sumByOwner(ctx context.Context, db *sqldb.DB, table, ownerColumn string) (map[int64]decimal.Decimal, error) {
	var rows []ownerAmount
	err := db.Read(ctx).WithContext(ctx).
		Table(table).
		Select(ownerColumn + " AS owner_id, amount").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]decimal.Decimal)
	for _, r := range rows {
		totals[r.OwnerID] = totals[r.OwnerID].Add(r.Amount.Decimal)
	}
	for id, total := range totals {
		totals[id] = total.Round(model.AmountScale)
	}
	return totals, nil
}

func sumForOwner(ctx context.Context, db *sqldb.DB, table, ownerColumn string, ownerID int64) (decimal.Decimal, error) {
	var amounts []Money
	err := db.Read(ctx).WithContext(ctx).
		Table(table).
		Where(ownerColumn+" = ?", ownerID).
		Pluck("amount", &amounts).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	return sumMoney(amounts), nil
}

func sumMoney(values []Money) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.Decimal)
	}
	return total.Round(model.AmountScale)
}

func countRows(ctx context.Context, db *sqldb.DB, table string) (int64, error) {
	var n int64
	err := db.Read(ctx).WithContext(ctx).Table(table).Count(&n).Error
	return n, err
}

// balanceStore reads and writes the balance column of the customer or
// supplier table.
type balanceStore struct {
	db       *sqldb.DB
	table    string
	notFound error
}

type balanceRow struct {
	ID      int64
	Balance decimal.Decimal
}

// lock takes a row lock on the owner and returns its cached balance. The
// lock is held until the surrounding transaction ends.
func (s balanceStore) lock(ctx context.Context, id int64) (decimal.Decimal, error) {
	var row balanceRow
	err := s.db.Write(ctx).WithContext(ctx).
		Table(s.table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "balance").
		Where("id = ?", id).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, s.notFound
		}
		return decimal.Zero, err
	}
	return row.Balance.Round(model.AmountScale), nil
}

// adjust locks the owner row, adds delta to its balance and returns the new
// balance. The caller is expected to run inside a transaction so the lock is
// held until commit.
func (s balanceStore) adjust(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	current, err := s.lock(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	next := current.Add(delta).Round(model.AmountScale)
	if !model.InRange(next) {
		return decimal.Zero, ErrBalanceOutOfRange
	}
	if err := s.set(ctx, id, next); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

func (s balanceStore) set(ctx context.Context, id int64, value decimal.Decimal) error {
	result := s.db.Write(ctx).WithContext(ctx).
		Table(s.table).
		Where("id = ?", id).
		Update("balance", value.Round(model.AmountScale))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.notFound
	}
	return nil
}

func (s balanceStore) get(ctx context.Context, id int64) (decimal.Decimal, error) {
	var row balanceRow
	err := s.db.Read(ctx).WithContext(ctx).
		Table(s.table).
		Select("id", "balance").
		Where("id = ?", id).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, s.notFound
		}
		return decimal.Zero, err
	}
	return row.Balance.Round(model.AmountScale), nil
}

func (s balanceStore) total(ctx context.Context) (decimal.Decimal, error) {
	var balances []Money
	err := s.db.Read(ctx).WithContext(ctx).
		Table(s.table).
		Pluck("balance", &balances).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	return sumMoney(balances), nil
}

func (s balanceStore) exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.Read(ctx).WithContext(ctx).Table(s.table).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s balanceStore) all(ctx context.Context) ([]balanceRow, error) {
	var rows []balanceRow
	err := s.db.Read(ctx).WithContext(ctx).
		Table(s.table).
		Select("id", "balance").
		Order("id").
		Scan(&rows).
		Error
	return rows, err
}
