package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
}
