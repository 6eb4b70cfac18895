package report

import (
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
)

const (
	// MaxTitleLength はタイトルの最大文字数です。
	MaxTitleLength = 100
	// MaxContentLength は内容の最大文字数です。
	MaxContentLength = 600
)

// Report は日報エンティティです。
type Report struct {
	ID           int64
	ReportDate   time.Time
	Title        string
	Content      string
	EmployeeCode string
	DeleteFlg    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Employee     *EmployeeSnapshot
}

// Active は論理削除されていない場合に true を返します。
func (r *Report) Active() bool {
	return r != nil && !r.DeleteFlg
}

// EmployeeSnapshot は日報に紐づく社員情報のスナップショットです。
type EmployeeSnapshot struct {
	Code string
	Name string
	Role employee.Role
}

// Draft は利用者から送信された日報の内容です。
// EmployeeCode は作成時に操作社員で上書きされ、更新時には参照されません。
type Draft struct {
	ReportDate   *time.Time
	Title        string
	Content      string
	EmployeeCode string
}

// Actor は認証済みの操作社員です。
type Actor struct {
	Code string
	Role employee.Role
}

// ActorOf は社員エンティティから Actor を生成します。
func ActorOf(e *employee.Employee) Actor {
	if e == nil {
		return Actor{}
	}
	return Actor{Code: e.Code, Role: e.Role}
}

// NormalizeDate は日付から時刻成分を取り除き UTC の 0 時に揃えます。
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
