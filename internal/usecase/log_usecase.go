package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// NormalizedLogEntryのsourceTable値
const (
	SourceInvoiceChangeLogs = "invoice_change_logs"
	SourceSystemLogs        = "system_logs"
)

// 2つのログテーブルを1本のフィードに揃えた表示用エントリ。永続化はしない。
type NormalizedLogEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	EntityID   string    `json:"entity_id"`
	EntityType string    `json:"entity_type"`
	UserID     string    `json:"user_id"`

	//change_typeまたはaction
	ActionType string `json:"action_type"`

	//previous/newのサブキーを持つ場合がある
	Details map[string]any `json:"details"`

	//解決できなければ "Unknown"（詳細ログ）/"N/A"（集約ログ）
	InvoiceNumber string `json:"invoice_number"`

	//解決済みのユーザー表示名
	UserName string `json:"user_name"`

	Description string `json:"description"`

	//取り込み元テーブルのタグ
	SourceTable string `json:"source_table"`
}

// Changesは詳細表示用のフィールド差分を返す。
func (e NormalizedLogEntry) Changes() []model.FieldDiff {
	if e.Details == nil {
		return nil
	}
	return model.DiffSnapshots(e.Details["previous"], e.Details["new"])
}

// ログフィードの絞り込み条件。searchは請求書番号・ユーザー名・操作名の
// 部分一致（大文字小文字は区別しない）。
type LogFeedFilter struct {
	//空または"all"なら全件
	ActionType string

	//From/Toが両方揃ったときだけ期間で絞る
	From *time.Time
	To   *time.Time

	Search string
}

// ログフィードの取得・絞り込み・エクスポート。
type LogUsecase struct {
	changeLogRepo repo.InvoiceChangeLogRepository
	systemLogRepo repo.SystemLogRepository
	invoiceRepo   repo.InvoiceRepository
	profileRepo   repo.ProfileRepository
}

// DI
func NewLogUsecase(
	changeLogRepo repo.InvoiceChangeLogRepository,
	systemLogRepo repo.SystemLogRepository,
	invoiceRepo repo.InvoiceRepository,
	profileRepo repo.ProfileRepository,
) *LogUsecase {
	return &LogUsecase{
		changeLogRepo: changeLogRepo,
		systemLogRepo: systemLogRepo,
		invoiceRepo:   invoiceRepo,
		profileRepo:   profileRepo,
	}
}

// ListLogsは両テーブルを取得して正規化し、新しい順の1本のフィードを返す。
// 2テーブルの取得は独立した読み取りなので並行に走らせ、マージは両方を
// 待ってから行う。
func (u *LogUsecase) ListLogs(ctx context.Context, f LogFeedFilter) ([]NormalizedLogEntry, error) {
	repoFilter := repo.LogListFilter{}
	if f.ActionType != "" && f.ActionType != "all" {
		repoFilter.ActionType = f.ActionType
	}
	if f.From != nil && f.To != nil {
		from := startOfDay(*f.From)
		to := endOfDay(*f.To)
		repoFilter.CreatedFrom = &from
		repoFilter.CreatedTo = &to
	}

	var (
		changeLogs []model.InvoiceChangeLog
		systemLogs []model.SystemLog
		profiles   []model.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		changeLogs, err = u.changeLogRepo.List(gctx, repoFilter)
		return err
	})
	g.Go(func() error {
		var err error
		systemLogs, err = u.systemLogRepo.List(gctx, repoFilter)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = u.profileRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	entries := make([]NormalizedLogEntry, 0, len(changeLogs)+len(systemLogs))
	for _, cl := range changeLogs {
		entries = append(entries, normalizeChangeLog(cl))
	}
	for _, sl := range systemLogs {
		entries = append(entries, normalizeSystemLog(sl))
	}

	//新しい順。同時刻は入力順を保つため安定ソートを使う。
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	//集約ログ側の請求書番号をまとめて解決して埋め戻す
	u.backfillInvoiceNumbers(ctx, entries)

	//ユーザー表示名を解決
	names := map[string]string{}
	for _, p := range profiles {
		names[p.ID] = p.DisplayName()
	}
	for i := range entries {
		if name, ok := names[entries[i].UserID]; ok {
			entries[i].UserName = name
		} else {
			entries[i].UserName = "Unknown User"
		}
	}

	return FilterEntries(entries, f), nil
}

// 請求書番号の2段階解決。行ごとに引かず、対象IDを集めて1回で取る。
// 失敗してもフィード自体は出す（プレースホルダのまま）。
func (u *LogUsecase) backfillInvoiceNumbers(ctx context.Context, entries []NormalizedLogEntry) {
	idSet := map[string]struct{}{}
	for _, e := range entries {
		if e.SourceTable == SourceSystemLogs && e.EntityType == "invoice" && e.EntityID != "" {
			idSet[e.EntityID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	numbers, err := u.invoiceRepo.FindNumbersByIDs(ctx, ids)
	if err != nil {
		log.Printf("log feed: invoice number backfill failed (ignored): %v", err)
		return
	}

	for i := range entries {
		e := &entries[i]
		if e.SourceTable != SourceSystemLogs || e.EntityType != "invoice" {
			continue
		}
		if num, ok := numbers[e.EntityID]; ok && num != "" {
			e.InvoiceNumber = num
		}
	}
}

// FilterEntriesは正規化済みフィードに絞り込みを適用する純関数。
// 3条件はAND。元のスライスは変更しない。
func FilterEntries(entries []NormalizedLogEntry, f LogFeedFilter) []NormalizedLogEntry {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var from, to time.Time
	if f.From != nil && f.To != nil {
		from = startOfDay(*f.From)
		to = endOfDay(*f.To)
	}

	out := make([]NormalizedLogEntry, 0, len(entries))
	for _, e := range entries {
		if f.ActionType != "" && f.ActionType != "all" && e.ActionType != f.ActionType {
			continue
		}

		if f.From != nil && f.To != nil {
			//タイムスタンプ不明の行は落とさず残す（監査ログを黙って隠さない）
			if !e.Timestamp.IsZero() {
				if e.Timestamp.Before(from) || e.Timestamp.After(to) {
					continue
				}
			}
		}

		if search != "" {
			haystack := strings.ToLower(e.InvoiceNumber) + " " +
				strings.ToLower(e.UserName) + " " +
				strings.ToLower(e.ActionType)
			if !strings.Contains(haystack, search) {
				continue
			}
		}

		out = append(out, e)
	}
	return out
}

func normalizeChangeLog(cl model.InvoiceChangeLog) NormalizedLogEntry {
	invoiceNum := "Unknown"
	if cl.Invoice != nil && cl.Invoice.InvoiceNum != "" {
		invoiceNum = cl.Invoice.InvoiceNum
	}

	details := map[string]any{
		"previous": mapOrNil(cl.PreviousData),
		"new":      mapOrNil(cl.NewData),
	}

	description := cl.Description
	if description == "" {
		description = fallbackDescription(cl.ChangeType, details)
	}

	return NormalizedLogEntry{
		ID:            cl.ID,
		Timestamp:     cl.CreatedAt,
		EntityID:      cl.InvoiceID,
		EntityType:    "invoice",
		UserID:        cl.ChangedBy,
		ActionType:    string(cl.ChangeType),
		Details:       details,
		InvoiceNumber: invoiceNum,
		Description:   description,
		SourceTable:   SourceInvoiceChangeLogs,
	}
}

func normalizeSystemLog(sl model.SystemLog) NormalizedLogEntry {
	details := map[string]any(sl.Details)
	if details == nil {
		details = map[string]any{}
	}

	invoiceNum := "N/A"
	if num, ok := details["invoiceNumber"].(string); ok && num != "" {
		invoiceNum = num
	}

	description := fmt.Sprintf("%s on %s", sl.Action, sl.EntityType)
	if desc, ok := details["description"].(string); ok && desc != "" {
		description = desc
	}

	return NormalizedLogEntry{
		ID:            sl.ID,
		Timestamp:     sl.CreatedAt,
		EntityID:      sl.EntityID,
		EntityType:    sl.EntityType,
		UserID:        sl.UserID,
		ActionType:    sl.Action,
		Details:       details,
		InvoiceNumber: invoiceNum,
		Description:   description,
		SourceTable:   SourceSystemLogs,
	}
}

// 説明文が保存されていないときの既定文。
func fallbackDescription(changeType model.ChangeType, details map[string]any) string {
	prev, _ := details["previous"].(map[string]any)
	next, _ := details["new"].(map[string]any)
	if prev == nil && next == nil {
		return "No change details available"
	}

	switch changeType {
	case model.ChangeTypeCreate, model.ChangeTypeDraftCreate:
		return "Created new invoice"
	case model.ChangeTypeUpdate, model.ChangeTypeDraftUpdate:
		return "Updated invoice data"
	case model.ChangeTypeFinalize:
		return "Finalized invoice"
	case model.ChangeTypeStatusChange:
		oldStatus := "Unknown"
		if s, ok := snapshotString(prev, "invoice_status"); ok {
			oldStatus = s
		}
		newStatus := "Unknown"
		if s, ok := snapshotString(next, "invoice_status"); ok {
			newStatus = s
		}
		return fmt.Sprintf("Changed status from %s to %s", oldStatus, newStatus)
	default:
		return "Changed invoice"
	}
}

var exportHeader = []string{
	"id", "timestamp", "invoice_number", "user", "action_type",
	"description", "entity_type", "entity_id", "source_table",
}

func exportRow(e NormalizedLogEntry) []string {
	timestamp := ""
	if !e.Timestamp.IsZero() {
		timestamp = e.Timestamp.Format(time.RFC3339)
	}
	return []string{
		e.ID, timestamp, e.InvoiceNumber, e.UserName, e.ActionType,
		e.Description, e.EntityType, e.EntityID, e.SourceTable,
	}
}

// ExportCSVはフィードをCSVに書き出す。
func (u *LogUsecase) ExportCSV(entries []NormalizedLogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.Write(exportRow(e)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSONはフィードをそのままJSONに書き出す。
func (u *LogUsecase) ExportJSON(entries []NormalizedLogEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// ExportXLSXはフィードをExcelブックに書き出す。
func (u *LogUsecase) ExportXLSX(entries []NormalizedLogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Logs"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for rowIdx, e := range entries {
		for col, value := range exportRow(e) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mapOrNil(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
