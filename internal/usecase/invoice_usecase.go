package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 請求書のCRUDと確定処理。変更はすべてInvoiceLogUsecase経由で記録する。
type InvoiceUsecase struct {
	tx          repo.TransactionManager
	invoiceRepo repo.InvoiceRepository
	itemRepo    repo.InvoiceItemRepository
	chargeRepo  repo.AdditionalChargeRepository
	clientRepo  repo.ClientRepository
	logUC       *InvoiceLogUsecase
	idGen       IDGenerator
	clock       Clock
}

// DI
func NewInvoiceUsecase(
	tx repo.TransactionManager,
	invoiceRepo repo.InvoiceRepository,
	itemRepo repo.InvoiceItemRepository,
	chargeRepo repo.AdditionalChargeRepository,
	clientRepo repo.ClientRepository,
	logUC *InvoiceLogUsecase,
	idGen IDGenerator,
	clock Clock,
) *InvoiceUsecase {
	return &InvoiceUsecase{
		tx:          tx,
		invoiceRepo: invoiceRepo,
		itemRepo:    itemRepo,
		chargeRepo:  chargeRepo,
		clientRepo:  clientRepo,
		logUC:       logUC,
		idGen:       idGen,
		clock:       clock,
	}
}

type InvoiceItemInput struct {
	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
	EquipDesc      string `json:"equip_desc"`
	EquipNum       string `json:"equip_num"`
	ModelNum       string `json:"model_num"`
	SerialNum      string `json:"serial_num"`

	Amount decimal.Decimal `json:"amount"`

	EstimatedDistanceMiles   *float64            `json:"estimated_distance_miles"`
	EstimatedDurationMinutes *int                `json:"estimated_duration_minutes"`
	EstimatedFuelGallons     decimal.NullDecimal `json:"estimated_fuel_gallons"`
	EstimatedFuelCost        decimal.NullDecimal `json:"estimated_fuel_cost"`
	FuelPricePerGallon       decimal.NullDecimal `json:"fuel_price_per_gallon"`
}

type AdditionalChargeInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type SaveInvoiceInput struct {
	InvoiceNum   string    `json:"invoice_num"`
	PONum        string    `json:"po_num"`
	InvoiceDate  time.Time `json:"invoice_date"`
	InvoiceDue   time.Time `json:"invoice_due"`
	ClientID     string    `json:"client_id"`
	BranchID     *string   `json:"branch_id"`
	DriverID     *string   `json:"driver_id"`
	InvoiceNotes string    `json:"invoice_notes"`

	//空ならPending Billing（下書き）として保存する
	InvoiceStatus model.InvoiceStatus `json:"invoice_status"`

	Items             []InvoiceItemInput      `json:"items"`
	AdditionalCharges []AdditionalChargeInput `json:"additional_charges"`
}

type InvoiceOutput struct {
	Invoice model.Invoice            `json:"invoice"`
	Items   []model.InvoiceItem      `json:"items"`
	Charges []model.AdditionalCharge `json:"additional_charges"`
}

type InvoiceListOutput struct {
	Items []model.Invoice `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func validStatus(s model.InvoiceStatus) bool {
	switch s {
	case model.InvoiceStatusPendingBilling, model.InvoiceStatusSent,
		model.InvoiceStatusPaid, model.InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}

// 明細と追加料金の合計
func computeTotal(items []InvoiceItemInput, charges []AdditionalChargeInput) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	for _, ch := range charges {
		total = total.Add(ch.Amount)
	}
	return total
}

// 監査ログに残すスナップショット。キー名はテーブルの列名に合わせる。
func invoiceSnapshot(inv model.Invoice) map[string]any {
	snap := map[string]any{
		"invoice_num":    inv.InvoiceNum,
		"po_num":         inv.PONum,
		"invoice_date":   inv.InvoiceDate.Format("2006-01-02"),
		"invoice_due":    inv.InvoiceDue.Format("2006-01-02"),
		"client_id":      inv.ClientID,
		"invoice_notes":  inv.InvoiceNotes,
		"total":          inv.Total.String(),
		"invoice_status": string(inv.InvoiceStatus),
	}
	if inv.BranchID != nil {
		snap["branch_id"] = *inv.BranchID
	}
	if inv.DriverID != nil {
		snap["driver_id"] = *inv.DriverID
	}
	return snap
}

// CreateInvoiceは請求書と明細・追加料金を1トランザクションで保存し、
// 変更を記録する。statusが空なら下書きとして保存する。
func (u *InvoiceUsecase) CreateInvoice(ctx context.Context, userID string, in SaveInvoiceInput) (InvoiceOutput, error) {
	if userID == "" {
		return InvoiceOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ClientID == "" {
		return InvoiceOutput{}, NewHTTPError(http.StatusBadRequest, "client is required")
	}

	status := in.InvoiceStatus
	if status == "" {
		status = model.InvoiceStatusPendingBilling
	}
	if !validStatus(status) {
		return InvoiceOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	invoiceNum := strings.TrimSpace(in.InvoiceNum)
	if invoiceNum == "" {
		num, err := u.GenerateInvoiceNumber(ctx, in.ClientID)
		if err != nil {
			return InvoiceOutput{}, err
		}
		invoiceNum = num
	}

	invoice := model.Invoice{
		ID:            u.idGen.NewID(),
		InvoiceNum:    invoiceNum,
		PONum:         in.PONum,
		InvoiceDate:   in.InvoiceDate,
		InvoiceDue:    in.InvoiceDue,
		ClientID:      in.ClientID,
		BranchID:      in.BranchID,
		DriverID:      in.DriverID,
		InvoiceNotes:  in.InvoiceNotes,
		Total:         computeTotal(in.Items, in.AdditionalCharges),
		InvoiceStatus: status,
	}

	items := u.buildItems(invoice.ID, in.Items)
	charges := u.buildCharges(invoice.ID, in.AdditionalCharges)

	//本体・明細・追加料金は同一トランザクションで書く
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Invoices().Create(ctx, invoice); err != nil {
			return err
		}
		if err := r.InvoiceItems().CreateBulk(ctx, items); err != nil {
			return err
		}
		return r.AdditionalCharges().CreateBulk(ctx, charges)
	})
	if err != nil {
		return InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログはトランザクションの外（集約ログの握りつぶしを保つため）
	if err := u.logUC.RecordChange(ctx, RecordChangeInput{
		InvoiceID: invoice.ID,
		UserID:    userID,
		NewData:   invoiceSnapshot(invoice),
	}); err != nil {
		return InvoiceOutput{}, err
	}

	return InvoiceOutput{Invoice: invoice, Items: items, Charges: charges}, nil
}

// UpdateInvoiceは請求書を更新する。明細・追加料金は全入れ替え。
// ドライバー割当の変化は別途system_logsにも残す。
func (u *InvoiceUsecase) UpdateInvoice(ctx context.Context, userID, invoiceID string, in SaveInvoiceInput) (InvoiceOutput, error) {
	if userID == "" {
		return InvoiceOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if invoiceID == "" {
		return InvoiceOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	existing, err := u.invoiceRepo.FindByID(ctx, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return InvoiceOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	status := in.InvoiceStatus
	if status == "" {
		status = existing.InvoiceStatus
	}
	if !validStatus(status) {
		return InvoiceOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	previous := invoiceSnapshot(existing)

	updated := existing
	if in.InvoiceNum != "" {
		updated.InvoiceNum = in.InvoiceNum
	}
	updated.PONum = in.PONum
	updated.InvoiceDate = in.InvoiceDate
	updated.InvoiceDue = in.InvoiceDue
	if in.ClientID != "" {
		updated.ClientID = in.ClientID
	}
	updated.BranchID = in.BranchID
	updated.DriverID = in.DriverID
	updated.InvoiceNotes = in.InvoiceNotes
	updated.Total = computeTotal(in.Items, in.AdditionalCharges)
	updated.InvoiceStatus = status

	items := u.buildItems(invoiceID, in.Items)
	charges := u.buildCharges(invoiceID, in.AdditionalCharges)

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Invoices().Update(ctx, updated); err != nil {
			return err
		}
		if err := r.InvoiceItems().DeleteByInvoiceID(ctx, invoiceID); err != nil {
			return err
		}
		if err := r.InvoiceItems().CreateBulk(ctx, items); err != nil {
			return err
		}
		if err := r.AdditionalCharges().DeleteByInvoiceID(ctx, invoiceID); err != nil {
			return err
		}
		return r.AdditionalCharges().CreateBulk(ctx, charges)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return InvoiceOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.logUC.RecordChange(ctx, RecordChangeInput{
		InvoiceID:    invoiceID,
		UserID:       userID,
		PreviousData: previous,
		NewData:      invoiceSnapshot(updated),
	}); err != nil {
		return InvoiceOutput{}, err
	}

	u.logDriverChange(ctx, userID, existing, updated)

	return InvoiceOutput{Invoice: updated, Items: items, Charges: charges}, nil
}

// UpdateStatusはステータスだけを更新して変更を記録する。
func (u *InvoiceUsecase) UpdateStatus(ctx context.Context, userID, invoiceID string, newStatus model.InvoiceStatus) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if invoiceID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !validStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	existing, err := u.invoiceRepo.FindByID(ctx, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//すでに同じなら何もしない（200）
	if existing.InvoiceStatus == newStatus {
		return nil
	}

	if err := u.invoiceRepo.UpdateStatus(ctx, invoiceID, newStatus); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated := existing
	updated.InvoiceStatus = newStatus

	return u.logUC.RecordChange(ctx, RecordChangeInput{
		InvoiceID:    invoiceID,
		UserID:       userID,
		PreviousData: invoiceSnapshot(existing),
		NewData:      invoiceSnapshot(updated),
	})
}

// FinalizeInvoiceは下書きをInvoice Sentへ進め、finalizeとして記録する。
func (u *InvoiceUsecase) FinalizeInvoice(ctx context.Context, userID, invoiceID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	existing, err := u.invoiceRepo.FindByID(ctx, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if existing.InvoiceStatus != model.InvoiceStatusPendingBilling {
		return NewHTTPError(http.StatusBadRequest, "invoice is not a draft")
	}

	if err := u.invoiceRepo.UpdateStatus(ctx, invoiceID, model.InvoiceStatusSent); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated := existing
	updated.InvoiceStatus = model.InvoiceStatusSent

	return u.logUC.RecordChange(ctx, RecordChangeInput{
		InvoiceID:    invoiceID,
		UserID:       userID,
		PreviousData: invoiceSnapshot(existing),
		NewData:      invoiceSnapshot(updated),
		ChangeType:   model.ChangeTypeFinalize,
	})
}

// DeleteInvoiceは請求書と明細・追加料金を削除し、deleteとして記録する。
func (u *InvoiceUsecase) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	existing, err := u.invoiceRepo.FindByID(ctx, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.InvoiceItems().DeleteByInvoiceID(ctx, invoiceID); err != nil {
			return err
		}
		if err := r.AdditionalCharges().DeleteByInvoiceID(ctx, invoiceID); err != nil {
			return err
		}
		return r.Invoices().Delete(ctx, invoiceID)
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.logUC.RecordChange(ctx, RecordChangeInput{
		InvoiceID:    invoiceID,
		UserID:       userID,
		PreviousData: invoiceSnapshot(existing),
		ChangeType:   model.ChangeTypeDelete,
	})
}

// GetInvoiceは請求書を明細・追加料金込みで返す。
func (u *InvoiceUsecase) GetInvoice(ctx context.Context, invoiceID string) (InvoiceOutput, error) {
	invoice, err := u.invoiceRepo.FindByID(ctx, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return InvoiceOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.itemRepo.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	charges, err := u.chargeRepo.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return InvoiceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return InvoiceOutput{Invoice: invoice, Items: items, Charges: charges}, nil
}

// ListInvoicesは条件付きで請求書一覧を返す。
func (u *InvoiceUsecase) ListInvoices(ctx context.Context, f repo.InvoiceListFilter) (InvoiceListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Status != "" && !validStatus(model.InvoiceStatus(f.Status)) {
		return InvoiceListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	invoices, total, err := u.invoiceRepo.List(ctx, f)
	if err != nil {
		return InvoiceListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return InvoiceListOutput{
		Items: invoices,
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}, nil
}

// GenerateInvoiceNumberはINV-YYYY-MM-DD-<client>-NNN形式の番号を作る。
// クライアント未選択ならプレースホルダ、解決に失敗したら
// タイムスタンプ付きのフォールバック番号を返す。
func (u *InvoiceUsecase) GenerateInvoiceNumber(ctx context.Context, clientID string) (string, error) {
	datePart := u.clock.Now().Format("2006-01-02")

	if clientID == "" {
		return fmt.Sprintf("INV-%s-select-client-000", datePart), nil
	}

	client, err := u.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		log.Printf("invoice number: client lookup failed, using fallback: %v", err)
		suffix := u.clock.Now().UnixMilli() % 1000000
		return fmt.Sprintf("INV-%s-fallback-%06d", datePart, suffix), nil
	}

	count, err := u.invoiceRepo.CountByClientID(ctx, clientID)
	if err != nil {
		log.Printf("invoice number: count failed, using fallback: %v", err)
		suffix := u.clock.Now().UnixMilli() % 1000000
		return fmt.Sprintf("INV-%s-fallback-%06d", datePart, suffix), nil
	}

	short := client.ShortName
	if short == "" {
		if fields := strings.Fields(client.ClientName); len(fields) > 0 {
			short = strings.ToLower(fields[0])
		} else {
			short = "client"
		}
	}

	return fmt.Sprintf("INV-%s-%s-%03d", datePart, short, count+1), nil
}

// ドライバー割当の変化をsystem_logsに残す（ベストエフォート）。
func (u *InvoiceUsecase) logDriverChange(ctx context.Context, userID string, before, after model.Invoice) {
	prevDriver := ""
	if before.DriverID != nil {
		prevDriver = *before.DriverID
	}
	newDriver := ""
	if after.DriverID != nil {
		newDriver = *after.DriverID
	}
	if prevDriver == newDriver {
		return
	}

	action := model.ChangeTypeDriverAssigned
	driverID := newDriver
	if newDriver == "" {
		action = model.ChangeTypeDriverRemoved
		driverID = prevDriver
	}

	err := u.logUC.LogSystemAction(ctx, SystemActionInput{
		UserID:     userID,
		Action:     string(action),
		EntityType: "invoice",
		EntityID:   after.ID,
		Details: map[string]any{
			"invoiceNumber": after.InvoiceNum,
			"driverId":      driverID,
		},
	})
	if err != nil {
		log.Printf("invoice log: driver change log failed (ignored): %v", err)
	}
}

func (u *InvoiceUsecase) buildItems(invoiceID string, inputs []InvoiceItemInput) []model.InvoiceItem {
	items := make([]model.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, model.InvoiceItem{
			ID:                       u.idGen.NewID(),
			InvoiceID:                invoiceID,
			PickupAddress:            in.PickupAddress,
			DropoffAddress:           in.DropoffAddress,
			EquipDesc:                in.EquipDesc,
			EquipNum:                 in.EquipNum,
			ModelNum:                 in.ModelNum,
			SerialNum:                in.SerialNum,
			Amount:                   in.Amount,
			StatusType:               "Pending",
			EstimatedDistanceMiles:   in.EstimatedDistanceMiles,
			EstimatedDurationMinutes: in.EstimatedDurationMinutes,
			EstimatedFuelGallons:     in.EstimatedFuelGallons,
			EstimatedFuelCost:        in.EstimatedFuelCost,
			FuelPricePerGallon:       in.FuelPricePerGallon,
		})
	}
	return items
}

func (u *InvoiceUsecase) buildCharges(invoiceID string, inputs []AdditionalChargeInput) []model.AdditionalCharge {
	charges := make([]model.AdditionalCharge, 0, len(inputs))
	for _, in := range inputs {
		charges = append(charges, model.AdditionalCharge{
			ID:          u.idGen.NewID(),
			InvoiceID:   invoiceID,
			Description: in.Description,
			Amount:      in.Amount,
		})
	}
	return charges
}
