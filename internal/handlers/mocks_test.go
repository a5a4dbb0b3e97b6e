package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/services"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/valyala/fasthttp"
)

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

// serve runs a request through a router holding the routes added by register.
func serve(register func(g *router.Group), ctx *xhttp.RequestCtx) {
	r := xhttp.CreateDefaultRouter()
	register(r.Group(APIPrefix))
	r.Handler(ctx)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, in model.LoginRequest) (*model.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) (map[string]string, bool) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string), args.Bool(1)
}

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) CustomerStatement(ctx context.Context, id int64) (*model.CustomerStatement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerStatement), args.Error(1)
}

func (m *MockStatementService) SupplierStatement(ctx context.Context, id int64) (*model.SupplierStatement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupplierStatement), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}

func (m *MockReportService) CustomerReport(ctx context.Context) ([]*model.PartyReportRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PartyReportRow), args.Error(1)
}

func (m *MockReportService) SupplierReport(ctx context.Context) ([]*model.PartyReportRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PartyReportRow), args.Error(1)
}

func (m *MockReportService) Reconcile(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Discrepancy), args.Error(1)
}

func (m *MockReportService) Repair(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Discrepancy), args.Error(1)
}

type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) CreateCustomer(ctx context.Context, in model.PartyInput) (*model.Customer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockPartyService) UpdateCustomer(ctx context.Context, id int64, in model.PartyInput) (*model.Customer, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockPartyService) DeleteCustomer(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartyService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockPartyService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Customer), args.Error(1)
}

func (m *MockPartyService) CreateSupplier(ctx context.Context, in model.PartyInput) (*model.Supplier, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockPartyService) UpdateSupplier(ctx context.Context, id int64, in model.PartyInput) (*model.Supplier, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockPartyService) DeleteSupplier(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartyService) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockPartyService) ListSuppliers(ctx context.Context) ([]*model.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Supplier), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateSalesInvoice(ctx context.Context, in model.SalesInvoiceInput) (*model.SalesInvoice, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesInvoice), args.Error(1)
}

func (m *MockLedgerService) UpdateSalesInvoice(ctx context.Context, id int64, in model.SalesInvoiceInput) (*model.SalesInvoice, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesInvoice), args.Error(1)
}

func (m *MockLedgerService) DeleteSalesInvoice(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) GetSalesInvoice(ctx context.Context, id int64) (*model.SalesInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesInvoice), args.Error(1)
}

func (m *MockLedgerService) ListSalesInvoices(ctx context.Context, filter model.RecordFilter) ([]*model.SalesInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SalesInvoice), args.Error(1)
}

func (m *MockLedgerService) CreatePurchaseInvoice(ctx context.Context, in model.PurchaseInvoiceInput) (*model.PurchaseInvoice, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseInvoice), args.Error(1)
}

func (m *MockLedgerService) UpdatePurchaseInvoice(ctx context.Context, id int64, in model.PurchaseInvoiceInput) (*model.PurchaseInvoice, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseInvoice), args.Error(1)
}

func (m *MockLedgerService) DeletePurchaseInvoice(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) GetPurchaseInvoice(ctx context.Context, id int64) (*model.PurchaseInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseInvoice), args.Error(1)
}

func (m *MockLedgerService) ListPurchaseInvoices(ctx context.Context, filter model.RecordFilter) ([]*model.PurchaseInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PurchaseInvoice), args.Error(1)
}

func (m *MockLedgerService) CreateCollection(ctx context.Context, in model.CollectionInput) (*model.Collection, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockLedgerService) UpdateCollection(ctx context.Context, id int64, in model.CollectionInput) (*model.Collection, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockLedgerService) DeleteCollection(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) GetCollection(ctx context.Context, id int64) (*model.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockLedgerService) ListCollections(ctx context.Context, filter model.RecordFilter) ([]*model.Collection, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Collection), args.Error(1)
}

func (m *MockLedgerService) CreatePayment(ctx context.Context, in model.PaymentInput) (*model.Payment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockLedgerService) UpdatePayment(ctx context.Context, id int64, in model.PaymentInput) (*model.Payment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockLedgerService) DeletePayment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) GetPayment(ctx context.Context, id int64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockLedgerService) ListPayments(ctx context.Context, filter model.RecordFilter) ([]*model.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payment), args.Error(1)
}

func actorOf(ctx context.Context) (int64, bool) {
	return services.ActorFrom(ctx)
}

// withActor matches contexts carrying the given authenticated user.
func withActor(id int64) any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		got, ok := services.ActorFrom(ctx)
		return ok && got == id
	})
}
