package repository

import (
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
)

type CustomerEntity struct {
	ID        int64           `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string          `db:"name"       gorm:"column:name;size:100;not null"`
	Phone     string          `db:"phone"      gorm:"column:phone;size:20"`
	Address   string          `db:"address"    gorm:"column:address"`
	Email     string          `db:"email"      gorm:"column:email;size:100"`
	Balance   Money           `db:"balance"    gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time       `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string {
	return "customer"
}

type SupplierEntity struct {
	ID        int64           `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string          `db:"name"       gorm:"column:name;size:100;not null"`
	Phone     string          `db:"phone"      gorm:"column:phone;size:20"`
	Address   string          `db:"address"    gorm:"column:address"`
	Email     string          `db:"email"      gorm:"column:email;size:100"`
	Balance   Money           `db:"balance"    gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time       `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (SupplierEntity) TableName() string {
	return "supplier"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Address:   m.Address,
		Email:     m.Email,
		Balance:   money(m.Balance),
		CreatedAt: m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Address:   e.Address,
		Email:     e.Email,
		Balance:   e.Balance.Round(model.AmountScale),
		CreatedAt: e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}

func toSupplierEntity(m *model.Supplier) *SupplierEntity {
	if m == nil {
		return nil
	}
	return &SupplierEntity{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Address:   m.Address,
		Email:     m.Email,
		Balance:   money(m.Balance),
		CreatedAt: m.CreatedAt,
	}
}

func toSupplierModel(e *SupplierEntity) *model.Supplier {
	if e == nil {
		return nil
	}
	return &model.Supplier{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Address:   e.Address,
		Email:     e.Email,
		Balance:   e.Balance.Round(model.AmountScale),
		CreatedAt: e.CreatedAt,
	}
}

func toSupplierModels(entities []*SupplierEntity) []*model.Supplier {
	if entities == nil {
		return nil
	}
	models := make([]*model.Supplier, len(entities))
	for i, e := range entities {
		models[i] = toSupplierModel(e)
	}
	return models
}
