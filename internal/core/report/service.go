package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout は日報日付の文字列表現です。
const DateLayout = "2006-01-02"

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Locker は社員単位で日報の書き込みを直列化します。
// Lock は取得できるまで待機し、解放関数を返します。
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

const maxListPageSize = 200

// Service は日報のライフサイクルに関するユースケースをまとめます。
type Service struct {
	repo     Repository
	resolver *Resolver
	clock    Clock
	tx       TransactionManager
	locker   Locker
}

// UseCase は日報ユースケースの公開インターフェースです。
type UseCase interface {
	CreateReport(ctx context.Context, in CreateReportInput) (*Report, error)
	UpdateReport(ctx context.Context, in UpdateReportInput) (*Report, error)
	DeleteReport(ctx context.Context, in DeleteReportInput) error
	GetReport(ctx context.Context, in GetReportInput) (*Report, error)
	FindActiveReport(ctx context.Context, in GetReportInput) (*Report, error)
	ListActiveReports(ctx context.Context, in ListReportsInput) (*ListReportsResult, error)
}

// NewService は Service を生成します。
// locker が nil の場合、重複防止はストレージの一意制約のみに依存します。
func NewService(repo Repository, clock Clock, tx TransactionManager, locker Locker) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if locker == nil {
		locker = noopLocker{}
	}
	return &Service{
		repo:     repo,
		resolver: NewResolver(repo),
		clock:    clock,
		tx:       tx,
		locker:   locker,
	}
}

// CreateReportInput は日報作成時の入力です。
type CreateReportInput struct {
	Actor Actor
	Draft Draft
}

// UpdateReportInput は日報更新時の入力です。
type UpdateReportInput struct {
	ID    int64
	Draft Draft
}

// DeleteReportInput は日報削除時の入力です。
type DeleteReportInput struct {
	ID int64
}

// GetReportInput は日報取得時の入力です。
type GetReportInput struct {
	ID int64
}

// ListReportsInput は一覧取得時の入力です。PageSize が 0 の場合は全件を返します。
type ListReportsInput struct {
	EmployeeCode string
	PageSize     int
	PageToken    string
}

// ListReportsResult は一覧取得結果を表します。
type ListReportsResult struct {
	Reports       []*Report
	NextPageToken string
}

// CreateReport は操作社員の日報を新規作成します。
func (s *Service) CreateReport(ctx context.Context, in CreateReportInput) (*Report, error) {
	code := strings.TrimSpace(in.Actor.Code)
	if code == "" {
		return nil, ErrInvalidActor
	}

	draft := in.Draft
	draft.EmployeeCode = code

	if err := Validate(draft); err != nil {
		return nil, err
	}
	reportDate := NormalizeDate(*draft.ReportDate)

	var created *Report
	if err := s.withEmployeeLock(ctx, code, func(lockCtx context.Context) error {
		return s.tx.WithinReadWrite(lockCtx, func(txCtx context.Context) error {
			if err := s.ensureNoCollision(txCtx, code, reportDate, NoExclusion); err != nil {
				return err
			}

			now := s.clock.Now()
			result, err := s.repo.Create(txCtx, &Report{
				ReportDate:   reportDate,
				Title:        draft.Title,
				Content:      draft.Content,
				EmployeeCode: code,
				DeleteFlg:    false,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}

			created = result
			return nil
		})
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateReport は日報の日付、タイトル、内容を更新します。
// 所有社員と削除フラグは読み込んだレコードの値を保持します。
func (s *Service) UpdateReport(ctx context.Context, in UpdateReportInput) (*Report, error) {
	existing, err := s.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if err := Validate(in.Draft); err != nil {
		return nil, err
	}
	reportDate := NormalizeDate(*in.Draft.ReportDate)

	var updated *Report
	if err := s.withEmployeeLock(ctx, existing.EmployeeCode, func(lockCtx context.Context) error {
		return s.tx.WithinReadWrite(lockCtx, func(txCtx context.Context) error {
			current, err := s.repo.FindByID(txCtx, existing.ID)
			if err != nil {
				return err
			}

			if err := s.ensureNoCollision(txCtx, current.EmployeeCode, reportDate, current.ID); err != nil {
				return err
			}

			current.ReportDate = reportDate
			current.Title = in.Draft.Title
			current.Content = in.Draft.Content
			current.UpdatedAt = s.touch(current.UpdatedAt)

			result, err := s.repo.Update(txCtx, current)
			if err != nil {
				return err
			}

			updated = result
			return nil
		})
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteReport は日報を論理削除します。
func (s *Service) DeleteReport(ctx context.Context, in DeleteReportInput) error {
	existing, err := s.load(ctx, in.ID)
	if err != nil {
		return err
	}

	return s.withEmployeeLock(ctx, existing.EmployeeCode, func(lockCtx context.Context) error {
		return s.tx.WithinReadWrite(lockCtx, func(txCtx context.Context) error {
			current, err := s.repo.FindByID(txCtx, existing.ID)
			if err != nil {
				return err
			}

			current.DeleteFlg = true
			current.UpdatedAt = s.touch(current.UpdatedAt)

			_, err = s.repo.Update(txCtx, current)
			return err
		})
	})
}

// GetReport は削除フラグに関係なく ID で日報を取得します。
func (s *Service) GetReport(ctx context.Context, in GetReportInput) (*Report, error) {
	var result *Report
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.load(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// FindActiveReport は有効な日報を ID で取得します。論理削除済みの場合は ErrReportNotFound を返します。
func (s *Service) FindActiveReport(ctx context.Context, in GetReportInput) (*Report, error) {
	found, err := s.GetReport(ctx, in)
	if err != nil {
		return nil, err
	}
	if found.DeleteFlg {
		return nil, fmt.Errorf("id %d: %w", in.ID, ErrReportNotFound)
	}
	return found, nil
}

// ListActiveReports は有効な日報を ID 順に取得します。
func (s *Service) ListActiveReports(ctx context.Context, in ListReportsInput) (*ListReportsResult, error) {
	if in.PageSize < 0 || in.PageSize > maxListPageSize {
		return nil, ErrInvalidPageSize
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		reports   []*Report
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, token, err := s.repo.ListActive(txCtx, ListReportsFilter{
			EmployeeCode: strings.TrimSpace(in.EmployeeCode),
			Limit:        in.PageSize,
			Offset:       offset,
		})
		if err != nil {
			return err
		}
		reports = found
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListReportsResult{Reports: reports, NextPageToken: nextToken}, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Report, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id %d: %w", id, ErrReportNotFound)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ensureNoCollision(ctx context.Context, employeeCode string, reportDate time.Time, excludeID int64) error {
	collision, err := s.resolver.FindActiveCollision(ctx, employeeCode, reportDate, excludeID)
	if err != nil {
		return err
	}
	if collision != nil {
		return fmt.Errorf("%s on %s: %w", employeeCode, reportDate.Format(DateLayout), ErrDateCheck)
	}
	return nil
}

func (s *Service) withEmployeeLock(ctx context.Context, employeeCode string, fn func(context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, employeeCode)
	if err != nil {
		return fmt.Errorf("report: lock employee %s: %w", employeeCode, err)
	}
	defer unlock()
	return fn(ctx)
}

// touch は更新日時を返します。時計が巻き戻った場合は以前の値を維持します。
func (s *Service) touch(previous time.Time) time.Time {
	now := s.clock.Now()
	if now.Before(previous) {
		return previous
	}
	return now
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
