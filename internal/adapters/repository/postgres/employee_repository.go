package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	pgdb "github.com/GogoIMU/DailyReportSystemApplication/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const employeeCodeConstraint = "employees_code_key"

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (code, name, role, password_hash, delete_flg, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, code, name, role, password_hash, delete_flg, created_at, updated_at
    `,
		e.Code,
		e.Name,
		string(e.Role),
		e.PasswordHash,
		e.DeleteFlg,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// FindByCode は社員番号で社員を取得します。
func (r *EmployeeRepository) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, code, name, role, password_hash, delete_flg, created_at, updated_at
          FROM employees
         WHERE code = $1
         LIMIT 1
    `, code)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は社員を登録順に取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, code, name, role, password_hash, delete_flg, created_at, updated_at
          FROM employees
         ORDER BY id ASC
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id                   int64
		code                 string
		name                 string
		role                 string
		passwordHash         string
		deleteFlg            bool
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &code, &name, &role, &passwordHash, &deleteFlg, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &employee.Employee{
		ID:           id,
		Code:         code,
		Name:         name,
		Role:         employee.Role(role),
		PasswordHash: passwordHash,
		DeleteFlg:    deleteFlg,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == employeeCodeConstraint {
				return employee.ErrCodeAlreadyExists
			}
		case checkViolationCode:
			return employee.ErrInvalidRole
		}
	}

	return err
}
