package dto

// RegisterRequest 注册请求（客户与管理员共用）
// 密码强度由领域服务校验
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,max=256" example:"alice"`
	Email       string `json:"email" binding:"required,max=256" example:"alice@example.com"`
	Password    string `json:"password" binding:"required,max=256" example:"Passw0rd#"`
	FullName    string `json:"fullName" binding:"max=256" example:"Alice Liddell"`
	PhoneNumber string `json:"phoneNumber" binding:"max=256" example:"13800000000"`
	Address     string `json:"address" example:"上海市浦东新区"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"Passw0rd#"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required,max=256"`
	NewPassword     string `json:"newPassword" binding:"required,max=256"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// EditCustomerRequest 修改客户资料，空字段表示不修改
type EditCustomerRequest struct {
	ID          string `json:"id" binding:"required"`
	Email       string `json:"email" binding:"max=256"`
	FullName    string `json:"fullName" binding:"max=256"`
	PhoneNumber string `json:"phoneNumber" binding:"max=256"`
	Address     string `json:"address"`
}
