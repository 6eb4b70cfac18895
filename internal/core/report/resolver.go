package report

import (
	"context"
	"errors"
	"time"
)

// NoExclusion は除外対象の日報がないことを表します。
const NoExclusion int64 = 0

// ActiveFinder は重複判定に必要な検索のみを表します。
type ActiveFinder interface {
	FindActiveByEmployeeAndDate(ctx context.Context, employeeCode string, reportDate time.Time) (*Report, error)
}

// Resolver は社員と日付の組に対する有効な日報の重複を判定します。
type Resolver struct {
	repo ActiveFinder
}

// NewResolver は Resolver を生成します。
func NewResolver(repo ActiveFinder) *Resolver {
	return &Resolver{repo: repo}
}

// FindActiveCollision は employeeCode と reportDate に一致する有効な日報のうち、
// excludeID 以外のものを返します。重複がなければ nil を返します。
func (r *Resolver) FindActiveCollision(ctx context.Context, employeeCode string, reportDate time.Time, excludeID int64) (*Report, error) {
	found, err := r.repo.FindActiveByEmployeeAndDate(ctx, employeeCode, NormalizeDate(reportDate))
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if found == nil || found.DeleteFlg {
		return nil, nil
	}
	if excludeID != NoExclusion && found.ID == excludeID {
		return nil, nil
	}
	return found, nil
}
