package user

import (
	"context"
)

// Repository 用户仓储接口
type Repository interface {
	Create(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id string) (*User, error)

	// FindByIDs 批量查询，用于订单视图填充客户名称
	FindByIDs(ctx context.Context, ids []string) (map[string]*User, error)

	FindByUsername(ctx context.Context, username string) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)

	// ListByRole 查询拥有指定角色的用户
	ListByRole(ctx context.Context, role string) ([]*User, error)

	Update(ctx context.Context, user *User) error

	Delete(ctx context.Context, id string) error
}
