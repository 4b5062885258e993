package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-orders/internal/domain/user"
)

// userRepository 用户仓储实现（MySQL）
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// duplicateError 根据冲突的索引名区分用户名/邮箱重复
func duplicateError(err error) error {
	if strings.Contains(err.Error(), "email") {
		return user.ErrEmailDuplicate
	}
	return user.ErrUsernameDuplicate
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return duplicateError(err)
		}
		return dbError(err, "创建用户失败")
	}

	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) first(query *gorm.DB) (*user.User, error) {
	var model UserModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, dbError(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.first(dbFrom(ctx, r.db).Where("id = ?", id))
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	result := make(map[string]*user.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []UserModel
	if err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, dbError(err, "批量查询用户失败")
	}
	for i := range models {
		result[models[i].ID] = toUserEntity(&models[i])
	}
	return result, nil
}

// FindByUsername utf8mb4_general_ci排序规则下比较不区分大小写
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(dbFrom(ctx, r.db).Where("username = ?", username))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(dbFrom(ctx, r.db).Where("email = ?", email))
}

// ListByRole 角色以逗号分隔存储，用FIND_IN_SET匹配
func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*user.User, error) {
	var models []UserModel
	err := dbFrom(ctx, r.db).Where("FIND_IN_SET(?, roles) > 0", role).Order("username ASC").Find(&models).Error
	if err != nil {
		return nil, dbError(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	result := dbFrom(ctx, r.db).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"email":         model.Email,
		"password_hash": model.PasswordHash,
		"full_name":     model.FullName,
		"phone_number":  model.PhoneNumber,
		"address":       model.Address,
		"roles":         model.Roles,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return duplicateError(result.Error)
		}
		return dbError(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result := dbFrom(ctx, r.db).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return dbError(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		Roles:        joinRoles(u.Roles),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		PhoneNumber:  m.PhoneNumber,
		Address:      m.Address,
		Roles:        splitRoles(m.Roles),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
