package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/mattn/go-sqlite3"
)

const selectEmployee = `
    SELECT id, code, name, role, password_hash, delete_flg, created_at, updated_at
      FROM employees`

// EmployeeRepository は SQLite を利用した社員永続化の実装です。
type EmployeeRepository struct {
	db Execer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db Execer) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := ExecerFromContext(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
        INSERT INTO employees (code, name, role, password_hash, delete_flg, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, e.Code, e.Name, string(e.Role), e.PasswordHash, e.DeleteFlg, e.CreatedAt.UTC(), e.UpdatedAt.UTC())
	if err != nil {
		return nil, translateEmployeeError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: last insert id: %w", err)
	}

	created := *e
	created.ID = id
	created.CreatedAt = e.CreatedAt.UTC()
	created.UpdatedAt = e.UpdatedAt.UTC()
	return &created, nil
}

// FindByCode は社員番号で社員を取得します。
func (r *EmployeeRepository) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	exec := ExecerFromContext(ctx, r.db)
	row := exec.QueryRowContext(ctx, selectEmployee+`
     WHERE code = ?
     LIMIT 1
    `, code)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeeError(err)
	}
	return found, nil
}

// List は社員を登録順に取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := ExecerFromContext(ctx, r.db)
	rows, err := exec.QueryContext(ctx, selectEmployee+`
     ORDER BY id ASC
    `)
	if err != nil {
		return nil, translateEmployeeError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeeError(err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeeError(err)
	}
	return employees, nil
}

func scanEmployee(row scanner) (*employee.Employee, error) {
	var (
		e    employee.Employee
		role string
	)
	if err := row.Scan(&e.ID, &e.Code, &e.Name, &role, &e.PasswordHash, &e.DeleteFlg, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Role = employee.Role(role)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}

func translateEmployeeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(sqliteErr.Error(), "employees.code") {
			return employee.ErrCodeAlreadyExists
		}
	}
	return err
}
