package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookstore-orders/internal/application/user"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

// UserHandler 用户、客户与管理员账号
type UserHandler struct {
	register *appuser.RegisterUseCase
	login    *appuser.LoginUseCase
	logout   *appuser.LogoutUseCase
	account  *appuser.AccountUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	register *appuser.RegisterUseCase,
	login *appuser.LoginUseCase,
	logout *appuser.LogoutUseCase,
	account *appuser.AccountUseCase,
) *UserHandler {
	return &UserHandler{register: register, login: login, logout: logout, account: account}
}

func toRegisterRequest(req dto.RegisterRequest) appuser.RegisterRequest {
	return appuser.RegisterRequest{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
}

// RegisterCustomer 客户注册
// @Summary      客户注册
// @Tags         客户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} appuser.UserView
// @Failure      400 {object} response.ErrorBody "参数错误、用户名或邮箱已存在、密码强度不足"
// @Router       /api/v1/customers/register [post]
func (h *UserHandler) RegisterCustomer(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.register.RegisterCustomer(c.Request.Context(), toRegisterRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// RegisterAdmin 创建管理员
// @Summary      创建管理员
// @Tags         管理员
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterRequest true "管理员信息"
// @Success      201 {object} appuser.UserView
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody "不是管理员"
// @Router       /api/v1/admins/register [post]
func (h *UserHandler) RegisterAdmin(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.register.RegisterAdmin(c.Request.Context(), toRegisterRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Login 登录
// @Summary      登录
// @Description  成功时响应体就是Token字符串
// @Tags         用户
// @Accept       json
// @Produce      plain
// @Param        request body dto.LoginRequest true "用户名密码"
// @Success      200 {string} string "Token"
// @Failure      401 {object} response.ErrorBody "用户名或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.login.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.String(http.StatusOK, token)
}

// Logout 登出
// @Summary      登出
// @Description  只删除登录会话记录,Token在过期前仍然有效
// @Tags         用户
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} response.ErrorBody
// @Router       /api/v1/users/logout [get]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logout.Execute(c.Request.Context(), middleware.MustPrincipal(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Tags         用户
// @Accept       json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "新旧密码"
// @Success      204
// @Failure      400 {object} response.ErrorBody "原密码错误或新密码强度不足"
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/users/profile/changepassword [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.account.ChangePassword(c.Request.Context(), middleware.MustPrincipal(c), req.OldPassword, req.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteUser 删除用户（管理员或本人）
// @Summary      删除用户
// @Tags         用户
// @Security     BearerAuth
// @Param        id path string true "用户ID"
// @Success      204
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.account.DeleteUser(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// EditProfile 修改客户资料（管理员或本人）
// @Summary      修改客户资料
// @Tags         客户
// @Accept       json
// @Security     BearerAuth
// @Param        request body dto.EditCustomerRequest true "资料"
// @Success      204
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/customers/profile [put]
func (h *UserHandler) EditProfile(c *gin.Context) {
	var req dto.EditCustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.account.EditProfile(c.Request.Context(), middleware.MustPrincipal(c), appuser.EditProfileRequest{
		UserID:      req.ID,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetCustomer 客户详情（管理员或本人）
// @Summary      客户详情
// @Tags         客户
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "用户ID"
// @Success      200 {object} appuser.UserView
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/customers/{id} [get]
func (h *UserHandler) GetCustomer(c *gin.Context) {
	view, err := h.account.GetCustomer(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// ListCustomers 全部客户（管理员）
// @Summary      全部客户
// @Tags         客户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} appuser.UserView
// @Failure      401 {object} response.ErrorBody
// @Router       /api/v1/customers [get]
func (h *UserHandler) ListCustomers(c *gin.Context) {
	views, err := h.account.ListCustomers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}
