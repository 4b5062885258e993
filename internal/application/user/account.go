package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
)

// AccountUseCase 账号与客户资料管理
// 资源不存在优先于权限判断：先查用户，再做归属检查
type AccountUseCase struct {
	users user.Repository
	svc   user.Service
}

// NewAccountUseCase 创建账号管理用例
func NewAccountUseCase(users user.Repository, svc user.Service) *AccountUseCase {
	return &AccountUseCase{users: users, svc: svc}
}

// ChangePassword 修改当前用户密码
func (uc *AccountUseCase) ChangePassword(ctx context.Context, p auth.Principal, oldPassword, newPassword string) error {
	if err := uc.svc.ChangePassword(ctx, p.UserID, oldPassword, newPassword); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("密码已修改", zap.String("user_id", p.UserID))
	return nil
}

// DeleteUser 删除用户（管理员或本人）
// 已有订单保留，订单视图中客户名称显示为Unknown
func (uc *AccountUseCase) DeleteUser(ctx context.Context, p auth.Principal, userID string) error {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrAdmin(p, u.ID); err != nil {
		return err
	}
	if err := uc.users.Delete(ctx, u.ID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("用户已删除", zap.String("user_id", u.ID), zap.String("by", p.UserID))
	return nil
}

// EditProfileRequest 修改客户资料，空字段表示不修改
type EditProfileRequest struct {
	UserID      string
	Email       string
	FullName    string
	PhoneNumber string
	Address     string
}

// EditProfile 修改客户资料（管理员或本人）
func (uc *AccountUseCase) EditProfile(ctx context.Context, p auth.Principal, req EditProfileRequest) error {
	u, err := uc.users.FindByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrAdmin(p, u.ID); err != nil {
		return err
	}
	if req.Email != "" {
		if err := user.ValidateEmail(req.Email); err != nil {
			return err
		}
	}

	u.UpdateProfile(user.Profile{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	return uc.users.Update(ctx, u)
}

// GetCustomer 查询客户资料（管理员或本人）
func (uc *AccountUseCase) GetCustomer(ctx context.Context, p auth.Principal, userID string) (*UserView, error) {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(p, u.ID); err != nil {
		return nil, err
	}
	return toView(u), nil
}

// ListCustomers 全部客户（调用方需已通过Admin角色检查）
func (uc *AccountUseCase) ListCustomers(ctx context.Context) ([]*UserView, error) {
	customers, err := uc.users.ListByRole(ctx, auth.RoleCustomer)
	if err != nil {
		return nil, err
	}

	views := make([]*UserView, len(customers))
	for i, u := range customers {
		views[i] = toView(u)
	}
	return views, nil
}
