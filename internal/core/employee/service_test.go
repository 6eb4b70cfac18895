package employee

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	order     []string
	sequence  int64
	findErr   error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *Employee) (*Employee, error) {
	if _, ok := r.employees[e.Code]; ok {
		return nil, ErrCodeAlreadyExists
	}
	clone := *e
	r.sequence++
	clone.ID = r.sequence
	r.employees[clone.Code] = &clone
	r.order = append(r.order, clone.Code)
	result := clone
	return &result, nil
}

func (r *fakeEmployeeRepo) FindByCode(_ context.Context, code string) (*Employee, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	found, ok := r.employees[code]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	result := *found
	return &result, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]*Employee, error) {
	result := make([]*Employee, 0, len(r.order))
	for _, code := range r.order {
		e := *r.employees[code]
		result = append(result, &e)
	}
	return result, nil
}

func TestService_RegisterEmployee_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, &stubClock{now: now})

	created, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{
		Code: " E001 ",
		Name: "  山田 太郎 ",
	})
	if err != nil {
		t.Fatalf("RegisterEmployee returned error: %v", err)
	}

	if created.Code != "E001" {
		t.Fatalf("expected trimmed code, got %q", created.Code)
	}
	if created.Name != "山田 太郎" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.Role != RoleGeneral {
		t.Fatalf("expected default role GENERAL, got %s", created.Role)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps to use clock now")
	}
}

func TestService_RegisterEmployee_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), &stubClock{now: time.Now().UTC()})

	cases := []struct {
		name string
		in   RegisterEmployeeInput
		want error
	}{
		{"empty code", RegisterEmployeeInput{Name: "a"}, ErrInvalidCode},
		{"code too long", RegisterEmployeeInput{Code: strings.Repeat("1", 11), Name: "a"}, ErrInvalidCode},
		{"code with spaces", RegisterEmployeeInput{Code: "E 1", Name: "a"}, ErrInvalidCode},
		{"empty name", RegisterEmployeeInput{Code: "E1"}, ErrInvalidName},
		{"name too long", RegisterEmployeeInput{Code: "E1", Name: strings.Repeat("名", 21)}, ErrInvalidName},
		{"unknown role", RegisterEmployeeInput{Code: "E1", Name: "a", Role: Role("OWNER")}, ErrInvalidRole},
	}

	for _, tc := range cases {
		if _, err := svc.RegisterEmployee(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestService_RegisterEmployee_DuplicateCode(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), &stubClock{now: time.Now().UTC()})

	if _, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{Code: "E1", Name: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{Code: "E1", Name: "b", Role: RoleAdmin})
	if !errors.Is(err, ErrCodeAlreadyExists) {
		t.Fatalf("expected ErrCodeAlreadyExists, got %v", err)
	}
}

func TestService_Resolve(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, &stubClock{now: time.Now().UTC()})

	if _, err := svc.RegisterEmployee(context.Background(), RegisterEmployeeInput{Code: "E1", Name: "a", Role: RoleAdmin}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.Resolve(context.Background(), "E1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if found.Role != RoleAdmin || found.Role.DisplayName() != "管理者" {
		t.Fatalf("unexpected role: %s", found.Role)
	}

	if _, err := svc.Resolve(context.Background(), "E404"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	repo.employees["E1"].DeleteFlg = true
	if _, err := svc.Resolve(context.Background(), "E1"); !errors.Is(err, ErrEmployeeDeleted) {
		t.Fatalf("expected ErrEmployeeDeleted, got %v", err)
	}

	repo.findErr = errors.New("db down")
	if _, err := svc.Resolve(context.Background(), "E1"); !errors.Is(err, repo.findErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}
