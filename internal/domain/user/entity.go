package user

import (
	"time"

	"github.com/google/uuid"
)

// User 用户实体
// 设计说明：
// 1. ID使用UUID字符串，作为Token中的nameidentifier，全局稳定
// 2. Password只保存bcrypt哈希值，永远不保存明文
// 3. 管理员和客户共用一张表，通过Roles区分；客户额外维护收货资料
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt哈希值
	FullName     string
	PhoneNumber  string
	Address      string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户（工厂方法）
func NewUser(username, email, passwordHash string, roles ...string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        append([]string(nil), roles...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasRole 是否拥有指定角色
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole 追加角色（已存在则忽略）
func (u *User) AddRole(role string) {
	if u.HasRole(role) {
		return
	}
	u.Roles = append(u.Roles, role)
	u.UpdatedAt = time.Now()
}

// Profile 客户资料，空字段表示不修改
type Profile struct {
	Email       string
	FullName    string
	PhoneNumber string
	Address     string
}

// UpdateProfile 更新客户资料
func (u *User) UpdateProfile(p Profile) {
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.FullName != "" {
		u.FullName = p.FullName
	}
	if p.PhoneNumber != "" {
		u.PhoneNumber = p.PhoneNumber
	}
	if p.Address != "" {
		u.Address = p.Address
	}
	u.UpdatedAt = time.Now()
}

// SetPasswordHash 更新密码哈希
func (u *User) SetPasswordHash(hash string) {
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
}
