package model

// 請求書・ユーザー操作の種別。invoice_change_logs.change_typeと
// system_logs.actionの両方で使う。
type ChangeType string

const (
	ChangeTypeCreate       ChangeType = "create"
	ChangeTypeDraftCreate  ChangeType = "draft_create"
	ChangeTypeDraftUpdate  ChangeType = "draft_update"
	ChangeTypeFinalize     ChangeType = "finalize"
	ChangeTypeUpdate       ChangeType = "update"
	ChangeTypeStatusChange ChangeType = "status_change"
	ChangeTypePayment      ChangeType = "payment"
	ChangeTypeDelete       ChangeType = "delete"
	ChangeTypeView         ChangeType = "view"
	ChangeTypePDFGenerated ChangeType = "pdf_generated"
	ChangeTypePrint        ChangeType = "print"
	ChangeTypeEmail        ChangeType = "email"

	ChangeTypeUserLogin          ChangeType = "user_login"
	ChangeTypeUserLogout         ChangeType = "user_logout"
	ChangeTypeUserUpdate         ChangeType = "user_update"
	ChangeTypeUserPasswordChange ChangeType = "user_password_change"
	ChangeTypeRoleChange         ChangeType = "role_change"

	ChangeTypeDriverAssigned ChangeType = "driver_assigned"
	ChangeTypeDriverRemoved  ChangeType = "driver_removed"
)

// スナップショットからinvoice_statusを取り出す。
func snapshotStatus(data map[string]any) (string, bool) {
	if data == nil {
		return "", false
	}
	s, ok := data["invoice_status"].(string)
	return s, ok
}

// DetermineChangeTypeは前後のスナップショットからchange_typeを決める。
// 分岐は上から順に評価する決定表で、副作用は無い。
//
// 注意: 確定済み請求書をPending Billingに戻した場合もdraft_createになる。
func DetermineChangeType(previous, next map[string]any) ChangeType {
	nextStatus, _ := snapshotStatus(next)

	//前データが無ければ新規作成
	if previous == nil {
		if nextStatus == string(InvoiceStatusPendingBilling) {
			return ChangeTypeDraftCreate
		}
		return ChangeTypeCreate
	}

	prevStatus, _ := snapshotStatus(previous)

	//ステータスが変わった場合
	if prevStatus != nextStatus {
		//下書きから別ステータスへ → 確定
		if prevStatus == string(InvoiceStatusPendingBilling) {
			return ChangeTypeFinalize
		}
		//別ステータスから下書きへ
		if nextStatus == string(InvoiceStatusPendingBilling) {
			return ChangeTypeDraftCreate
		}
		return ChangeTypeStatusChange
	}

	//ステータス据え置きで下書きのまま → 下書き更新
	if nextStatus == string(InvoiceStatusPendingBilling) {
		return ChangeTypeDraftUpdate
	}

	return ChangeTypeUpdate
}
