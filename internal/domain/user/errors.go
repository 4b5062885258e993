package user

import (
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrUsernameDuplicate  = apperrors.ErrUsernameDuplicate
	ErrEmailDuplicate     = apperrors.ErrEmailDuplicate
	ErrWeakPassword       = apperrors.ErrWeakPassword
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrWrongPassword      = apperrors.ErrWrongPassword

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrInvalidUsername 用户名不合法
	ErrInvalidUsername = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名长度应为1-256个字符")
)
