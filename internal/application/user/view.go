package user

import (
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
)

// UserView 用户视图（不含密码）
type UserView struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Address     string   `json:"address"`
	Roles       []string `json:"roles"`
}

func toView(u *user.User) *UserView {
	return &UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Roles:       append([]string{}, u.Roles...),
	}
}
