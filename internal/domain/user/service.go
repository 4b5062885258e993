package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

// DefaultBcryptCost bcrypt计算成本（2^12次迭代，约250ms）
const DefaultBcryptCost = 12

// RegisterParams 注册参数
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Address     string
}

// Service 用户领域服务（凭证存储）
// 职责：注册、凭证校验、角色维护、修改密码
type Service interface {
	// Register 注册用户并授予角色
	Register(ctx context.Context, params RegisterParams, roles ...string) (*User, error)

	// Authenticate 校验用户名密码
	// 用户不存在与密码错误统一返回ErrInvalidCredentials（防止用户名枚举）
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// ChangePassword 修改密码，需要校验原密码
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户领域服务
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, DefaultBcryptCost)
}

// NewServiceWithCost 指定bcrypt成本（测试中使用bcrypt.MinCost加速）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, params RegisterParams, roles ...string) (*User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" || len(username) > 256 {
		return nil, ErrInvalidUsername
	}
	email := strings.TrimSpace(params.Email)
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(params.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameDuplicate
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailDuplicate
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hash(params.Password)
	if err != nil {
		return nil, err
	}

	u := NewUser(username, email, hash, roles...)
	u.FullName = params.FullName
	u.PhoneNumber = params.PhoneNumber
	u.Address = params.Address

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := comparePassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := comparePassword(u.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	u.SetPasswordHash(hash)
	return s.repo.Update(ctx, u)
}

func (s *service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

func comparePassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

var emailPattern = regexp.MustCompile(`^[\w.+-]+@([\w-]+\.)+[\w-]{2,}$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateEmail 校验邮箱格式
func ValidateEmail(email string) error {
	if !isValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

// validatePasswordStrength 密码强度：至少8位，包含大写、小写、数字和特殊字符
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 72 {
		return ErrWeakPassword
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("#?!@$%^&*-", r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}
