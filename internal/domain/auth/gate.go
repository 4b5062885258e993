package auth

import (
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

// ErrForbidden 已登录但无权限
var ErrForbidden = apperrors.ErrForbidden

// RequireRole 角色检查
func RequireRole(p Principal, role string) error {
	if !p.HasRole(role) {
		return apperrors.WithMessage(ErrForbidden, "需要%s角色", role)
	}
	return nil
}

// RequireOwner 严格归属检查：只有资源所有者本人可以操作，管理员也不例外
// 用于订单状态修改、订单删除
func RequireOwner(p Principal, ownerID string) error {
	if p.UserID == "" || p.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin 归属检查，管理员可以越过
// 用于查看订单、修改个人资料、删除账号
func RequireOwnerOrAdmin(p Principal, ownerID string) error {
	if p.IsAdmin() {
		return nil
	}
	return RequireOwner(p, ownerID)
}
