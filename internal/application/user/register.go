package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
)

// RegisterUseCase 注册用例
// 客户可以自助注册；管理员只能由已登录的管理员创建，或在启动时由配置初始化
type RegisterUseCase struct {
	users user.Repository
	svc   user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(users user.Repository, svc user.Service) *RegisterUseCase {
	return &RegisterUseCase{users: users, svc: svc}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Address     string
}

func (r RegisterRequest) params() user.RegisterParams {
	return user.RegisterParams{
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
	}
}

// RegisterCustomer 客户注册
func (uc *RegisterUseCase) RegisterCustomer(ctx context.Context, req RegisterRequest) (*UserView, error) {
	u, err := uc.svc.Register(ctx, req.params(), auth.RoleCustomer)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("客户注册成功", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return toView(u), nil
}

// RegisterAdmin 创建管理员（调用方需已通过Admin角色检查）
func (uc *RegisterUseCase) RegisterAdmin(ctx context.Context, req RegisterRequest) (*UserView, error) {
	u, err := uc.svc.Register(ctx, req.params(), auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("管理员创建成功", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return toView(u), nil
}

// AdminSeed 启动时需要存在的管理员账号
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedAdmins 确保配置中的管理员存在（可重复执行）
// 用户名已存在时只补充Admin角色，不修改密码
func (uc *RegisterUseCase) SeedAdmins(ctx context.Context, seeds []AdminSeed) error {
	log := logger.FromContext(ctx)

	for _, s := range seeds {
		existing, err := uc.users.FindByUsername(ctx, s.Username)
		switch {
		case err == nil:
			if existing.HasRole(auth.RoleAdmin) {
				continue
			}
			existing.AddRole(auth.RoleAdmin)
			if err := uc.users.Update(ctx, existing); err != nil {
				return err
			}
			log.Info("已为现有用户授予管理员角色", zap.String("username", s.Username))

		case errors.Is(err, user.ErrUserNotFound):
			u, err := uc.svc.Register(ctx, user.RegisterParams{
				Username: s.Username,
				Email:    s.Email,
				Password: s.Password,
			}, auth.RoleAdmin)
			if err != nil {
				return err
			}
			log.Info("已创建初始管理员", zap.String("user_id", u.ID), zap.String("username", u.Username))

		default:
			return err
		}
	}
	return nil
}
