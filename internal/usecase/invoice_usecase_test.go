package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type invInvoiceRepoMock struct{ mock.Mock }

func (m *invInvoiceRepoMock) Create(ctx context.Context, invoice model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *invInvoiceRepoMock) Update(ctx context.Context, invoice model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *invInvoiceRepoMock) UpdateStatus(ctx context.Context, invoiceID string, status model.InvoiceStatus) error {
	args := m.Called(ctx, invoiceID, status)
	return args.Error(0)
}

func (m *invInvoiceRepoMock) Delete(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *invInvoiceRepoMock) FindByID(ctx context.Context, invoiceID string) (model.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

func (m *invInvoiceRepoMock) List(ctx context.Context, filter repo.InvoiceListFilter) ([]model.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	invoices, _ := args.Get(0).([]model.Invoice)
	return invoices, args.Get(1).(int64), args.Error(2)
}

func (m *invInvoiceRepoMock) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *invInvoiceRepoMock) FindNumbersByIDs(ctx context.Context, invoiceIDs []string) (map[string]string, error) {
	panic("not used in InvoiceUsecase tests")
}

type invItemRepoMock struct{ mock.Mock }

func (m *invItemRepoMock) CreateBulk(ctx context.Context, items []model.InvoiceItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *invItemRepoMock) ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	items, _ := args.Get(0).([]model.InvoiceItem)
	return items, args.Error(1)
}

func (m *invItemRepoMock) DeleteByInvoiceID(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

type invChargeRepoMock struct{ mock.Mock }

func (m *invChargeRepoMock) CreateBulk(ctx context.Context, charges []model.AdditionalCharge) error {
	args := m.Called(ctx, charges)
	return args.Error(0)
}

func (m *invChargeRepoMock) ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.AdditionalCharge, error) {
	args := m.Called(ctx, invoiceID)
	charges, _ := args.Get(0).([]model.AdditionalCharge)
	return charges, args.Error(1)
}

func (m *invChargeRepoMock) DeleteByInvoiceID(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

type invClientRepoMock struct{ mock.Mock }

func (m *invClientRepoMock) Create(ctx context.Context, client model.Client) error {
	panic("not used in InvoiceUsecase tests")
}

func (m *invClientRepoMock) Update(ctx context.Context, client model.Client) error {
	panic("not used in InvoiceUsecase tests")
}

func (m *invClientRepoMock) Delete(ctx context.Context, clientID string) error {
	panic("not used in InvoiceUsecase tests")
}

func (m *invClientRepoMock) FindByID(ctx context.Context, clientID string) (model.Client, error) {
	args := m.Called(ctx, clientID)
	client, _ := args.Get(0).(model.Client)
	return client, args.Error(1)
}

func (m *invClientRepoMock) List(ctx context.Context) ([]model.Client, error) {
	panic("not used in InvoiceUsecase tests")
}

// トランザクションをそのまま同じリポジトリで実行するフェイク
type fakeTxRepos struct {
	invoices repo.InvoiceRepository
	items    repo.InvoiceItemRepository
	charges  repo.AdditionalChargeRepository
}

func (f fakeTxRepos) Invoices() repo.InvoiceRepository                   { return f.invoices }
func (f fakeTxRepos) InvoiceItems() repo.InvoiceItemRepository           { return f.items }
func (f fakeTxRepos) AdditionalCharges() repo.AdditionalChargeRepository { return f.charges }
func (f fakeTxRepos) Clients() repo.ClientRepository                     { return nil }
func (f fakeTxRepos) ClientBranches() repo.ClientBranchRepository        { return nil }
func (f fakeTxRepos) Drivers() repo.DriverRepository                     { return nil }

type fakeTxManager struct {
	repos fakeTxRepos

	//設定するとトランザクション自体を失敗させる
	err error
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m.repos)
}

type invFixture struct {
	uc         *InvoiceUsecase
	tx         *fakeTxManager
	invoices   *invInvoiceRepoMock
	items      *invItemRepoMock
	charges    *invChargeRepoMock
	clients    *invClientRepoMock
	changeLogs *recChangeLogRepoMock
	systemLogs *recSystemLogRepoMock
}

func newInvFixture() invFixture {
	f := invFixture{
		invoices:   new(invInvoiceRepoMock),
		items:      new(invItemRepoMock),
		charges:    new(invChargeRepoMock),
		clients:    new(invClientRepoMock),
		changeLogs: new(recChangeLogRepoMock),
		systemLogs: new(recSystemLogRepoMock),
	}
	f.tx = &fakeTxManager{repos: fakeTxRepos{
		invoices: f.invoices,
		items:    f.items,
		charges:  f.charges,
	}}

	idGen := fixedIDGen{id: "generated-id"}
	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	logUC := NewInvoiceLogUsecase(f.changeLogs, f.systemLogs, idGen, clock)
	f.uc = NewInvoiceUsecase(f.tx, f.invoices, f.items, f.charges, f.clients, logUC, idGen, clock)
	return f
}

// =====================
// CreateInvoice
// =====================

func TestCreateInvoice_DefaultsToDraftAndRecords(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv model.Invoice) bool {
		return inv.InvoiceStatus == model.InvoiceStatusPendingBilling &&
			inv.Total.Equal(decimal.NewFromInt(150))
	})).Return(nil)
	f.items.On("CreateBulk", mock.Anything, mock.Anything).Return(nil)
	f.charges.On("CreateBulk", mock.Anything, mock.Anything).Return(nil)

	//空のChangeTypeはdraft_createに分類される
	f.changeLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.InvoiceChangeLog) bool {
		return l.ChangeType == model.ChangeTypeDraftCreate && l.PreviousData == nil
	})).Return(nil)
	f.systemLogs.On("Create", mock.Anything, mock.AnythingOfType("model.SystemLog")).Return(nil)

	out, err := f.uc.CreateInvoice(context.Background(), "user-1", SaveInvoiceInput{
		InvoiceNum: "INV-1",
		ClientID:   "client-1",
		Items: []InvoiceItemInput{
			{PickupAddress: "A", DropoffAddress: "B", Amount: decimal.NewFromInt(100)},
		},
		AdditionalCharges: []AdditionalChargeInput{
			{Description: "fuel surcharge", Amount: decimal.NewFromInt(50)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPendingBilling, out.Invoice.InvoiceStatus)
	assert.True(t, out.Invoice.Total.Equal(decimal.NewFromInt(150)))

	f.invoices.AssertExpectations(t)
	f.changeLogs.AssertExpectations(t)
}

func TestCreateInvoice_TxFailure_NothingRecorded(t *testing.T) {
	f := newInvFixture()
	f.tx.err = errors.New("tx failed")

	_, err := f.uc.CreateInvoice(context.Background(), "user-1", SaveInvoiceInput{
		InvoiceNum: "INV-1",
		ClientID:   "client-1",
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 500, he.Status)
	f.changeLogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoice_MissingClient(t *testing.T) {
	f := newInvFixture()

	_, err := f.uc.CreateInvoice(context.Background(), "user-1", SaveInvoiceInput{InvoiceNum: "INV-1"})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

// =====================
// UpdateStatus / FinalizeInvoice
// =====================

func TestUpdateStatus_SameStatus_NoOp(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("FindByID", mock.Anything, "inv-1").Return(model.Invoice{
		ID: "inv-1", InvoiceStatus: model.InvoiceStatusPaid,
	}, nil)

	err := f.uc.UpdateStatus(context.Background(), "user-1", "inv-1", model.InvoiceStatusPaid)

	assert.NoError(t, err)
	f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.changeLogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateStatus_ClassifiedAsStatusChange(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("FindByID", mock.Anything, "inv-1").Return(model.Invoice{
		ID: "inv-1", InvoiceNum: "INV-1", InvoiceStatus: model.InvoiceStatusSent,
	}, nil)
	f.invoices.On("UpdateStatus", mock.Anything, "inv-1", model.InvoiceStatusPaid).Return(nil)

	f.changeLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.InvoiceChangeLog) bool {
		return l.ChangeType == model.ChangeTypeStatusChange
	})).Return(nil)
	f.systemLogs.On("Create", mock.Anything, mock.AnythingOfType("model.SystemLog")).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), "user-1", "inv-1", model.InvoiceStatusPaid)

	assert.NoError(t, err)
	f.invoices.AssertExpectations(t)
	f.changeLogs.AssertExpectations(t)
}

func TestUpdateStatus_ReopenClassifiedAsDraftCreate(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("FindByID", mock.Anything, "inv-1").Return(model.Invoice{
		ID: "inv-1", InvoiceNum: "INV-1", InvoiceStatus: model.InvoiceStatusSent,
	}, nil)
	f.invoices.On("UpdateStatus", mock.Anything, "inv-1", model.InvoiceStatusPendingBilling).Return(nil)

	//確定済みを下書きへ戻すとdraft_createになる
	f.changeLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.InvoiceChangeLog) bool {
		return l.ChangeType == model.ChangeTypeDraftCreate
	})).Return(nil)
	f.systemLogs.On("Create", mock.Anything, mock.AnythingOfType("model.SystemLog")).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), "user-1", "inv-1", model.InvoiceStatusPendingBilling)

	assert.NoError(t, err)
	f.changeLogs.AssertExpectations(t)
}

func TestFinalizeInvoice_NonDraftRejected(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("FindByID", mock.Anything, "inv-1").Return(model.Invoice{
		ID: "inv-1", InvoiceStatus: model.InvoiceStatusPaid,
	}, nil)

	err := f.uc.FinalizeInvoice(context.Background(), "user-1", "inv-1")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestFinalizeInvoice_RecordsFinalize(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("FindByID", mock.Anything, "inv-1").Return(model.Invoice{
		ID: "inv-1", InvoiceNum: "INV-1", InvoiceStatus: model.InvoiceStatusPendingBilling,
	}, nil)
	f.invoices.On("UpdateStatus", mock.Anything, "inv-1", model.InvoiceStatusSent).Return(nil)

	f.changeLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.InvoiceChangeLog) bool {
		return l.ChangeType == model.ChangeTypeFinalize
	})).Return(nil)
	f.systemLogs.On("Create", mock.Anything, mock.AnythingOfType("model.SystemLog")).Return(nil)

	err := f.uc.FinalizeInvoice(context.Background(), "user-1", "inv-1")

	assert.NoError(t, err)
	f.invoices.AssertExpectations(t)
	f.changeLogs.AssertExpectations(t)
}

// =====================
// DeleteInvoice
// =====================

func TestDeleteInvoice_RecordsDeleteWithoutNewData(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("FindByID", mock.Anything, "inv-1").Return(model.Invoice{
		ID: "inv-1", InvoiceNum: "INV-1", InvoiceStatus: model.InvoiceStatusPaid,
	}, nil)
	f.items.On("DeleteByInvoiceID", mock.Anything, "inv-1").Return(nil)
	f.charges.On("DeleteByInvoiceID", mock.Anything, "inv-1").Return(nil)
	f.invoices.On("Delete", mock.Anything, "inv-1").Return(nil)

	f.changeLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.InvoiceChangeLog) bool {
		return l.ChangeType == model.ChangeTypeDelete &&
			l.PreviousData != nil &&
			l.NewData == nil
	})).Return(nil)
	f.systemLogs.On("Create", mock.Anything, mock.AnythingOfType("model.SystemLog")).Return(nil)

	err := f.uc.DeleteInvoice(context.Background(), "user-1", "inv-1")

	assert.NoError(t, err)
	f.invoices.AssertExpectations(t)
	f.changeLogs.AssertExpectations(t)
}

// =====================
// GenerateInvoiceNumber
// =====================

func TestGenerateInvoiceNumber_NoClientSelected(t *testing.T) {
	f := newInvFixture()

	num, err := f.uc.GenerateInvoiceNumber(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, "INV-2025-06-01-select-client-000", num)
}

func TestGenerateInvoiceNumber_ShortNameAndSequence(t *testing.T) {
	f := newInvFixture()

	f.clients.On("FindByID", mock.Anything, "client-1").Return(model.Client{
		ID: "client-1", ClientName: "Acme Towing", ShortName: "acme",
	}, nil)
	f.invoices.On("CountByClientID", mock.Anything, "client-1").Return(int64(2), nil)

	num, err := f.uc.GenerateInvoiceNumber(context.Background(), "client-1")
	assert.NoError(t, err)
	assert.Equal(t, "INV-2025-06-01-acme-003", num)
}

func TestGenerateInvoiceNumber_FirstWordWhenNoShortName(t *testing.T) {
	f := newInvFixture()

	f.clients.On("FindByID", mock.Anything, "client-1").Return(model.Client{
		ID: "client-1", ClientName: "Beta Logistics Inc",
	}, nil)
	f.invoices.On("CountByClientID", mock.Anything, "client-1").Return(int64(0), nil)

	num, err := f.uc.GenerateInvoiceNumber(context.Background(), "client-1")
	assert.NoError(t, err)
	assert.Equal(t, "INV-2025-06-01-beta-001", num)
}

func TestGenerateInvoiceNumber_FallbackOnLookupFailure(t *testing.T) {
	f := newInvFixture()

	f.clients.On("FindByID", mock.Anything, "client-1").Return(model.Client{}, errors.New("db down"))

	num, err := f.uc.GenerateInvoiceNumber(context.Background(), "client-1")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(num, "INV-2025-06-01-fallback-"))
}

// =====================
// ListInvoices
// =====================

func TestListInvoices_ClampsPageAndLimit(t *testing.T) {
	f := newInvFixture()

	f.invoices.On("List", mock.Anything, mock.MatchedBy(func(filter repo.InvoiceListFilter) bool {
		return filter.Page == 1 && filter.Limit == 50
	})).Return([]model.Invoice{}, int64(0), nil)

	out, err := f.uc.ListInvoices(context.Background(), repo.InvoiceListFilter{Page: 0, Limit: 1000})
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 50, out.Limit)

	f.invoices.AssertExpectations(t)
}

func TestListInvoices_InvalidStatus(t *testing.T) {
	f := newInvFixture()

	_, err := f.uc.ListInvoices(context.Background(), repo.InvoiceListFilter{Status: "Bogus"})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}
