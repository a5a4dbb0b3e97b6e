package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Money is an amount or balance column. SQLite has no exact numeric type, so
// there it is stored as TEXT and never summed in SQL.
type Money struct {
	decimal.Decimal
}

func money(d decimal.Decimal) Money {
	return Money{d}
}

func (Money) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "TEXT"
	case "postgres":
		return "NUMERIC(20,2)"
	}
	return "DECIMAL(20,2)"
}
