package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	pgdb "github.com/GogoIMU/DailyReportSystemApplication/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"

	reportActiveUniqueConstraint = "reports_employee_date_active_key"
	reportEmployeeFKConstraint   = "reports_employee_code_fkey"
)

const reportColumns = `
               r.id,
               r.report_date,
               r.title,
               r.content,
               r.employee_code,
               r.delete_flg,
               r.created_at,
               r.updated_at,
               e.code,
               e.name,
               e.role`

// ReportRepository は PostgreSQL を利用した日報永続化の実装です。
type ReportRepository struct {
	pool pgdb.Queryer
}

// NewReportRepository は ReportRepository を生成します。
func NewReportRepository(pool pgdb.Queryer) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create は日報を新規作成します。
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO reports (report_date, title, content, employee_code, delete_flg, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, report_date, title, content, employee_code, delete_flg, created_at, updated_at
        )
        SELECT`+reportColumns+`
          FROM inserted r
          JOIN employees e ON e.code = r.employee_code
    `,
		report.NormalizeDate(rep.ReportDate),
		rep.Title,
		rep.Content,
		rep.EmployeeCode,
		rep.DeleteFlg,
		rep.CreatedAt,
		rep.UpdatedAt,
	)

	created, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	return created, nil
}

// Update は日報の日付、タイトル、内容、削除フラグ、更新日時を書き換えます。
func (r *ReportRepository) Update(ctx context.Context, rep *report.Report) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE reports
               SET report_date = $1,
                   title = $2,
                   content = $3,
                   delete_flg = $4,
                   updated_at = $5
             WHERE id = $6
            RETURNING id, report_date, title, content, employee_code, delete_flg, created_at, updated_at
        )
        SELECT`+reportColumns+`
          FROM updated r
          JOIN employees e ON e.code = r.employee_code
    `,
		report.NormalizeDate(rep.ReportDate),
		rep.Title,
		rep.Content,
		rep.DeleteFlg,
		rep.UpdatedAt,
		rep.ID,
	)

	updated, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	return updated, nil
}

// FindByID は削除フラグに関係なく日報を取得します。
func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+reportColumns+`
          FROM reports r
          JOIN employees e ON e.code = r.employee_code
         WHERE r.id = $1
         LIMIT 1
    `, id)

	found, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	return found, nil
}

// FindActiveByEmployeeAndDate は有効な日報を社員番号と日付で取得します。
func (r *ReportRepository) FindActiveByEmployeeAndDate(ctx context.Context, employeeCode string, reportDate time.Time) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+reportColumns+`
          FROM reports r
          JOIN employees e ON e.code = r.employee_code
         WHERE r.employee_code = $1
           AND r.report_date = $2
           AND r.delete_flg = FALSE
         LIMIT 1
    `, employeeCode, report.NormalizeDate(reportDate))

	found, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
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

	args := make([]any, 0, 3)
	where := " WHERE r.delete_flg = FALSE"
	if filter.EmployeeCode != "" {
		args = append(args, filter.EmployeeCode)
		where += " AND r.employee_code = $" + strconv.Itoa(len(args))
	}

	limitClause := ""
	limitWithBuffer := 0
	if filter.Limit > 0 {
		limitWithBuffer = filter.Limit + 1
		args = append(args, limitWithBuffer)
		limitClause = `
         LIMIT $` + strconv.Itoa(len(args))
	}
	args = append(args, filter.Offset)
	offsetPlaceholder := "$" + strconv.Itoa(len(args))

	query := `
        SELECT` + reportColumns + `
          FROM reports r
          JOIN employees e ON e.code = r.employee_code` + where + `
         ORDER BY r.id ASC` + limitClause + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateReportPgError(err)
	}
	defer rows.Close()

	reports := make([]*report.Report, 0, filter.Limit)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, "", translateReportPgError(err)
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateReportPgError(err)
	}

	var nextToken string
	if limitWithBuffer > 0 && len(reports) == limitWithBuffer {
		reports = reports[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return reports, nextToken, nil
}

func scanReport(row pgx.Row) (*report.Report, error) {
	var (
		id           int64
		reportDate   time.Time
		title        string
		content      string
		employeeCode string
		deleteFlg    bool
		createdAt    time.Time
		updatedAt    time.Time
		ownerCode    string
		ownerName    string
		ownerRole    string
	)

	if err := row.Scan(
		&id,
		&reportDate,
		&title,
		&content,
		&employeeCode,
		&deleteFlg,
		&createdAt,
		&updatedAt,
		&ownerCode,
		&ownerName,
		&ownerRole,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}

	return &report.Report{
		ID:           id,
		ReportDate:   report.NormalizeDate(reportDate),
		Title:        title,
		Content:      content,
		EmployeeCode: employeeCode,
		DeleteFlg:    deleteFlg,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
		Employee: &report.EmployeeSnapshot{
			Code: ownerCode,
			Name: ownerName,
			Role: employee.Role(ownerRole),
		},
	}, nil
}

func translateReportPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return report.ErrReportNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == reportActiveUniqueConstraint {
				return report.ErrDateCheck
			}
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == reportEmployeeFKConstraint {
				return employee.ErrEmployeeNotFound
			}
		case checkViolationCode:
			return report.ErrBlank
		}
	}

	return err
}
