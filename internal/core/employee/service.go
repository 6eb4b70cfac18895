package employee

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const (
	maxCodeLength = 10
	maxNameLength = 20
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Service は社員参照に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*Employee, error)
	Resolve(ctx context.Context, code string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// RegisterEmployeeInput は社員登録時の入力です。
type RegisterEmployeeInput struct {
	Code         string
	Name         string
	Role         Role
	PasswordHash string
}

// RegisterEmployee は社員を登録します。
func (s *Service) RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*Employee, error) {
	code, err := NormalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	role := in.Role
	if role == "" {
		role = RoleGeneral
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodeAlreadyExists
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &Employee{
		Code:         code,
		Name:         name,
		Role:         role,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Resolve は認証済みの社員番号から有効な社員を取得します。
func (s *Service) Resolve(ctx context.Context, code string) (*Employee, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if found.DeleteFlg {
		return nil, ErrEmployeeDeleted
	}
	return found, nil
}

// ListEmployees は社員の一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	return s.repo.List(ctx)
}

// NormalizeCode は社員番号の前後の空白を取り除き、形式を検証します。
func NormalizeCode(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxCodeLength {
		return "", ErrInvalidCode
	}
	if !codePattern.MatchString(trimmed) {
		return "", ErrInvalidCode
	}
	return trimmed, nil
}
