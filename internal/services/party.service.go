package services

import (
	"context"
	"errors"
	"strings"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/prom"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, id int64, in model.PartyInput) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	HasRecords(ctx context.Context, id int64) (bool, error)
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error)
	GetByID(ctx context.Context, id int64) (*model.Supplier, error)
	List(ctx context.Context) ([]*model.Supplier, error)
	Update(ctx context.Context, id int64, in model.PartyInput) (*model.Supplier, error)
	Delete(ctx context.Context, id int64) error
	HasRecords(ctx context.Context, id int64) (bool, error)
}

// PartyService manages customer and supplier contact data. Balances are only
// ever moved by LedgerService.
type PartyService struct {
	tx        Transactor
	customers CustomerRepository
	suppliers SupplierRepository
}

func NewPartyService(tx Transactor, customers CustomerRepository, suppliers SupplierRepository) *PartyService {
	return &PartyService{
		tx:        tx,
		customers: customers,
		suppliers: suppliers,
	}
}

func normalizeParty(in model.PartyInput) (model.PartyInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.TrimSpace(in.Email)
	return in, model.Validate(in)
}

func partyError(owner model.OwnerType, op string, id int64, err error) error {
	reason := "validation"
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound), errors.Is(err, repository.ErrSupplierNotFound):
		err = model.NewNotFoundError(string(owner), id)
		reason = "not_found"
	case errors.Is(err, model.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, model.ErrValidation):
	default:
		logger.Error("party operation failed", "owner", string(owner), "op", op, "id", id, "error", err)
		return model.NewStorageError(op+" "+string(owner), err)
	}
	if op != opGet {
		prom.RecordRejection(string(owner), op, reason)
		logger.Warn("party operation rejected", "owner", string(owner), "op", op, "id", id, "error", err)
	}
	return err
}

func (s *PartyService) CreateCustomer(ctx context.Context, in model.PartyInput) (*model.Customer, error) {
	in, err := normalizeParty(in)
	if err != nil {
		return nil, partyError(model.OwnerCustomer, opCreate, 0, err)
	}
	c, err := s.customers.Create(ctx, &model.Customer{Name: in.Name, Phone: in.Phone, Address: in.Address, Email: in.Email})
	if err != nil {
		return nil, partyError(model.OwnerCustomer, opCreate, 0, err)
	}
	prom.RecordMutation(string(model.OwnerCustomer), opCreate)
	logger.Info("customer created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *PartyService) UpdateCustomer(ctx context.Context, id int64, in model.PartyInput) (*model.Customer, error) {
	in, err := normalizeParty(in)
	if err != nil {
		return nil, partyError(model.OwnerCustomer, opUpdate, id, err)
	}
	c, err := s.customers.Update(ctx, id, in)
	if err != nil {
		return nil, partyError(model.OwnerCustomer, opUpdate, id, err)
	}
	prom.RecordMutation(string(model.OwnerCustomer), opUpdate)
	return c, nil
}

// DeleteCustomer removes a customer that owns no invoices or collections.
// Customers with records are kept so no balance is left without history.
func (s *PartyService) DeleteCustomer(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.customers.GetByID(ctx, id); err != nil {
			return err
		}
		has, err := s.customers.HasRecords(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return model.NewValidationError("", "customer has invoices or collections and cannot be deleted")
		}
		return s.customers.Delete(ctx, id)
	})
	if err != nil {
		return partyError(model.OwnerCustomer, opDelete, id, err)
	}
	prom.RecordMutation(string(model.OwnerCustomer), opDelete)
	logger.Info("customer deleted", "id", id)
	return nil
}

func (s *PartyService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, partyError(model.OwnerCustomer, opGet, id, err)
	}
	return c, nil
}

func (s *PartyService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	list, err := s.customers.List(ctx)
	if err != nil {
		return nil, model.NewStorageError("list customers", err)
	}
	return list, nil
}

func (s *PartyService) CreateSupplier(ctx context.Context, in model.PartyInput) (*model.Supplier, error) {
	in, err := normalizeParty(in)
	if err != nil {
		return nil, partyError(model.OwnerSupplier, opCreate, 0, err)
	}
	sp, err := s.suppliers.Create(ctx, &model.Supplier{Name: in.Name, Phone: in.Phone, Address: in.Address, Email: in.Email})
	if err != nil {
		return nil, partyError(model.OwnerSupplier, opCreate, 0, err)
	}
	prom.RecordMutation(string(model.OwnerSupplier), opCreate)
	logger.Info("supplier created", "id", sp.ID, "name", sp.Name)
	return sp, nil
}

func (s *PartyService) UpdateSupplier(ctx context.Context, id int64, in model.PartyInput) (*model.Supplier, error) {
	in, err := normalizeParty(in)
	if err != nil {
		return nil, partyError(model.OwnerSupplier, opUpdate, id, err)
	}
	sp, err := s.suppliers.Update(ctx, id, in)
	if err != nil {
		return nil, partyError(model.OwnerSupplier, opUpdate, id, err)
	}
	prom.RecordMutation(string(model.OwnerSupplier), opUpdate)
	return sp, nil
}

// DeleteSupplier removes a supplier that owns no invoices or payments.
func (s *PartyService) DeleteSupplier(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.suppliers.GetByID(ctx, id); err != nil {
			return err
		}
		has, err := s.suppliers.HasRecords(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return model.NewValidationError("", "supplier has invoices or payments and cannot be deleted")
		}
		return s.suppliers.Delete(ctx, id)
	})
	if err != nil {
		return partyError(model.OwnerSupplier, opDelete, id, err)
	}
	prom.RecordMutation(string(model.OwnerSupplier), opDelete)
	logger.Info("supplier deleted", "id", id)
	return nil
}

func (s *PartyService) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	sp, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, partyError(model.OwnerSupplier, opGet, id, err)
	}
	return sp, nil
}

func (s *PartyService) ListSuppliers(ctx context.Context) ([]*model.Supplier, error) {
	list, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, model.NewStorageError("list suppliers", err)
	}
	return list, nil
}
