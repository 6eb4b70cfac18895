package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/mattn/go-sqlite3"
)

const reportActiveUniqueColumns = "reports.employee_code, reports.report_date"

const selectReport = `
    SELECT r.id, r.report_date, r.title, r.content, r.employee_code, r.delete_flg,
           r.created_at, r.updated_at, e.code, e.name, e.role
      FROM reports r
      JOIN employees e ON e.code = r.employee_code`

type scanner interface {
	Scan(dest ...any) error
}

// ReportRepository は SQLite を利用した日報永続化の実装です。
type ReportRepository struct {
	db Execer
}

// NewReportRepository は ReportRepository を生成します。
func NewReportRepository(db Execer) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create は日報を新規作成します。
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) (*report.Report, error) {
	exec := ExecerFromContext(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
        INSERT INTO reports (report_date, title, content, employee_code, delete_flg, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `,
		formatDate(rep.ReportDate),
		rep.Title,
		rep.Content,
		rep.EmployeeCode,
		rep.DeleteFlg,
		rep.CreatedAt.UTC(),
		rep.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, translateReportError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: last insert id: %w", err)
	}
	return r.findByID(ctx, exec, id)
}

// Update は日報の日付、タイトル、内容、削除フラグ、更新日時を書き換えます。
func (r *ReportRepository) Update(ctx context.Context, rep *report.Report) (*report.Report, error) {
	exec := ExecerFromContext(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
        UPDATE reports
           SET report_date = ?,
               title = ?,
               content = ?,
               delete_flg = ?,
               updated_at = ?
         WHERE id = ?
    `,
		formatDate(rep.ReportDate),
		rep.Title,
		rep.Content,
		rep.DeleteFlg,
		rep.UpdatedAt.UTC(),
		rep.ID,
	)
	if err != nil {
		return nil, translateReportError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return nil, report.ErrReportNotFound
	}
	return r.findByID(ctx, exec, rep.ID)
}

// FindByID は削除フラグに関係なく日報を取得します。
func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*report.Report, error) {
	return r.findByID(ctx, ExecerFromContext(ctx, r.db), id)
}

func (r *ReportRepository) findByID(ctx context.Context, exec Execer, id int64) (*report.Report, error) {
	row := exec.QueryRowContext(ctx, selectReport+`
     WHERE r.id = ?
     LIMIT 1
    `, id)

	found, err := scanReport(row)
	if err != nil {
		return nil, translateReportError(err)
	}
	return found, nil
}

// FindActiveByEmployeeAndDate は有効な日報を社員番号と日付で取得します。
func (r *ReportRepository) FindActiveByEmployeeAndDate(ctx context.Context, employeeCode string, reportDate time.Time) (*report.Report, error) {
	exec := ExecerFromContext(ctx, r.db)
	row := exec.QueryRowContext(ctx, selectReport+`
     WHERE r.employee_code = ?
       AND r.report_date = ?
       AND r.delete_flg = 0
     LIMIT 1
    `, employeeCode, formatDate(reportDate))

	found, err := scanReport(row)
	if err != nil {
		return nil, translateReportError(err)
	}
	return found, nil
}

// ListActive は有効な日報を ID の昇順で取得します。
func (r *ReportRepository) ListActive(ctx context.Context, filter report.ListReportsFilter) ([]*report.Report, string, error) {
	if filter.Limit < 0 {
		return nil, "", report.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", report.ErrInvalidPageToken
	}

	conditions := []string{"r.delete_flg = 0"}
	args := make([]any, 0, 3)
	if filter.EmployeeCode != "" {
		conditions = append(conditions, "r.employee_code = ?")
		args = append(args, filter.EmployeeCode)
	}

	// SQLite では LIMIT -1 が無制限を表す。
	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit + 1
	}
	args = append(args, limit, filter.Offset)

	query := selectReport + `
     WHERE ` + strings.Join(conditions, " AND ") + `
     ORDER BY r.id ASC
     LIMIT ? OFFSET ?
    `

	exec := ExecerFromContext(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", translateReportError(err)
	}
	defer rows.Close()

	reports := make([]*report.Report, 0, filter.Limit)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, "", translateReportError(err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateReportError(err)
	}

	var nextToken string
	if filter.Limit > 0 && len(reports) > filter.Limit {
		reports = reports[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return reports, nextToken, nil
}

func scanReport(row scanner) (*report.Report, error) {
	var (
		rep        report.Report
		reportDate string
		ownerCode  string
		ownerName  string
		ownerRole  string
	)

	if err := row.Scan(
		&rep.ID,
		&reportDate,
		&rep.Title,
		&rep.Content,
		&rep.EmployeeCode,
		&rep.DeleteFlg,
		&rep.CreatedAt,
		&rep.UpdatedAt,
		&ownerCode,
		&ownerName,
		&ownerRole,
	); err != nil {
		return nil, err
	}

	date, err := time.Parse(report.DateLayout, reportDate)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse report_date %q: %w", reportDate, err)
	}

	rep.ReportDate = date
	rep.CreatedAt = rep.CreatedAt.UTC()
	rep.UpdatedAt = rep.UpdatedAt.UTC()
	rep.Employee = &report.EmployeeSnapshot{
		Code: ownerCode,
		Name: ownerName,
		Role: employee.Role(ownerRole),
	}
	return &rep, nil
}

func translateReportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return report.ErrReportNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			if strings.Contains(sqliteErr.Error(), reportActiveUniqueColumns) {
				return report.ErrDateCheck
			}
		case sqlite3.ErrConstraintForeignKey:
			return employee.ErrEmployeeNotFound
		}
	}

	return err
}

func formatDate(t time.Time) string {
	return report.NormalizeDate(t).Format(report.DateLayout)
}
