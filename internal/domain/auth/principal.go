// Package auth 授权判定（角色 + 资源归属）
//
// 设计说明：
// 1. 纯函数，不依赖HTTP/数据库，中间件和用例都可以直接调用
// 2. 角色检查与归属检查相互独立，由每个接口按需组合
package auth

// 系统内置角色
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// Principal 当前请求的身份（来自已校验的Token）
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole 是否拥有指定角色
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin 是否管理员
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
