// Package memory はプロセス内で完結する日報・社員ストアを提供します。
// 開発用途とテスト用途を想定しています。
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
)

type activeKey struct {
	employeeCode string
	reportDate   time.Time
}

// Store は日報と社員をメモリ上に保持します。
// 有効な日報の (社員番号, 日付) は一意に保たれます。
type Store struct {
	mu sync.RWMutex

	reports      map[int64]*report.Report
	active       map[activeKey]int64
	reportSeq    int64
	employees    map[string]*employee.Employee
	employeeSeq  int64
	employeeKeys []string
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{
		reports:   make(map[int64]*report.Report),
		active:    make(map[activeKey]int64),
		employees: make(map[string]*employee.Employee),
	}
}

// Reports は report.Repository として振る舞うビューを返します。
func (s *Store) Reports() *ReportRepository {
	return &ReportRepository{store: s}
}

// Employees は employee.Repository として振る舞うビューを返します。
func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{store: s}
}

// ReportRepository はメモリ上の日報リポジトリです。
type ReportRepository struct {
	store *Store
}

// Create は日報を追加し ID を採番します。
func (r *ReportRepository) Create(_ context.Context, rep *report.Report) (*report.Report, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.employees[rep.EmployeeCode]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}

	key := keyOf(rep)
	if !rep.DeleteFlg {
		if _, exists := s.active[key]; exists {
			return nil, report.ErrDateCheck
		}
	}

	s.reportSeq++
	stored := cloneReport(rep)
	stored.ID = s.reportSeq
	stored.Employee = snapshotOf(owner)
	s.reports[stored.ID] = stored
	if !stored.DeleteFlg {
		s.active[key] = stored.ID
	}
	return cloneReport(stored), nil
}

// Update は日報をその場で更新します。
func (r *ReportRepository) Update(_ context.Context, rep *report.Report) (*report.Report, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.reports[rep.ID]
	if !ok {
		return nil, report.ErrReportNotFound
	}

	oldKey := keyOf(current)
	newKey := activeKey{employeeCode: current.EmployeeCode, reportDate: report.NormalizeDate(rep.ReportDate)}
	if !rep.DeleteFlg {
		if holder, exists := s.active[newKey]; exists && holder != rep.ID {
			return nil, report.ErrDateCheck
		}
	}

	if !current.DeleteFlg && s.active[oldKey] == current.ID {
		delete(s.active, oldKey)
	}

	stored := cloneReport(rep)
	stored.EmployeeCode = current.EmployeeCode
	stored.CreatedAt = current.CreatedAt
	stored.Employee = current.Employee
	s.reports[stored.ID] = stored
	if !stored.DeleteFlg {
		s.active[newKey] = stored.ID
	}
	return cloneReport(stored), nil
}

// FindByID は削除フラグに関係なく日報を取得します。
func (r *ReportRepository) FindByID(_ context.Context, id int64) (*report.Report, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	return cloneReport(found), nil
}

// FindActiveByEmployeeAndDate は有効な日報を社員番号と日付で取得します。
func (r *ReportRepository) FindActiveByEmployeeAndDate(_ context.Context, employeeCode string, reportDate time.Time) (*report.Report, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.active[activeKey{employeeCode: employeeCode, reportDate: report.NormalizeDate(reportDate)}]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	return cloneReport(s.reports[id]), nil
}

// ListActive は有効な日報を ID 順に返します。
func (r *ReportRepository) ListActive(_ context.Context, filter report.ListReportsFilter) ([]*report.Report, string, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.active))
	for _, id := range s.active {
		if filter.EmployeeCode != "" && s.reports[id].EmployeeCode != filter.EmployeeCode {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if filter.Offset >= len(ids) {
		return []*report.Report{}, "", nil
	}
	ids = ids[filter.Offset:]

	nextToken := ""
	if filter.Limit > 0 && len(ids) > filter.Limit {
		ids = ids[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	reports := make([]*report.Report, 0, len(ids))
	for _, id := range ids {
		reports = append(reports, cloneReport(s.reports[id]))
	}
	return reports, nextToken, nil
}

// EmployeeRepository はメモリ上の社員リポジトリです。
type EmployeeRepository struct {
	store *Store
}

// Create は社員を追加します。
func (r *EmployeeRepository) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.employees[e.Code]; exists {
		return nil, employee.ErrCodeAlreadyExists
	}

	s.employeeSeq++
	stored := *e
	stored.ID = s.employeeSeq
	s.employees[stored.Code] = &stored
	s.employeeKeys = append(s.employeeKeys, stored.Code)

	result := stored
	return &result, nil
}

// FindByCode は社員番号で社員を取得します。
func (r *EmployeeRepository) FindByCode(_ context.Context, code string) (*employee.Employee, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.employees[code]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	result := *found
	return &result, nil
}

// List は登録順に社員を返します。
func (r *EmployeeRepository) List(_ context.Context) ([]*employee.Employee, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]*employee.Employee, 0, len(s.employeeKeys))
	for _, code := range s.employeeKeys {
		e := *s.employees[code]
		employees = append(employees, &e)
	}
	return employees, nil
}

func keyOf(rep *report.Report) activeKey {
	return activeKey{employeeCode: rep.EmployeeCode, reportDate: report.NormalizeDate(rep.ReportDate)}
}

func snapshotOf(e *employee.Employee) *report.EmployeeSnapshot {
	return &report.EmployeeSnapshot{Code: e.Code, Name: e.Name, Role: e.Role}
}

func cloneReport(rep *report.Report) *report.Report {
	if rep == nil {
		return nil
	}
	clone := *rep
	clone.ReportDate = report.NormalizeDate(rep.ReportDate)
	if rep.Employee != nil {
		snapshot := *rep.Employee
		clone.Employee = &snapshot
	}
	return &clone
}
