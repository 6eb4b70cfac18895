package report

import (
	"context"
	"time"
)

// Repository は日報永続化の抽象です。
// 物理削除は提供せず、論理削除は Update で DeleteFlg を立てて行います。
type Repository interface {
	Create(ctx context.Context, report *Report) (*Report, error)
	Update(ctx context.Context, report *Report) (*Report, error)
	FindByID(ctx context.Context, id int64) (*Report, error)
	FindActiveByEmployeeAndDate(ctx context.Context, employeeCode string, reportDate time.Time) (*Report, error)
	ListActive(ctx context.Context, filter ListReportsFilter) ([]*Report, string, error)
}

// ListReportsFilter は有効な日報の一覧取得用フィルタです。
// Limit が 0 の場合は件数を制限しません。
type ListReportsFilter struct {
	EmployeeCode string
	Limit        int
	Offset       int
}
