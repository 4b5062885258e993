package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookstore-orders/internal/application/order"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	create    *apporder.CreateOrderUseCase
	setStatus *apporder.SetStatusUseCase
	remove    *apporder.DeleteOrderUseCase
	query     *apporder.QueryOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	create *apporder.CreateOrderUseCase,
	setStatus *apporder.SetStatusUseCase,
	remove *apporder.DeleteOrderUseCase,
	query *apporder.QueryOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{create: create, setStatus: setStatus, remove: remove, query: query}
}

// CreateOrder 下单
// @Summary      创建订单
// @Description  客户下单,所有明细在一个事务中加锁校验,任何一条失败整单不生效
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单明细"
// @Success      201 {object} apporder.OrderView
// @Failure      400 {object} response.ErrorBody "空订单、数量非法、图书不存在或库存不足"
// @Failure      401 {object} response.ErrorBody "未登录或不是客户"
// @Failure      404 {object} response.ErrorBody "客户不存在"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]apporder.LineRequest, len(req))
	for i, l := range req {
		lines[i] = apporder.LineRequest{BookID: l.BookID, Quantity: l.Quantity}
	}

	view, err := h.create.Execute(c.Request.Context(), apporder.CreateOrderCommand{
		CustomerID: middleware.MustPrincipal(c).UserID,
		Lines:      lines,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// ListMyOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} apporder.OrderView
// @Failure      401 {object} response.ErrorBody
// @Router       /api/v1/orders/my [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	views, err := h.query.ListMine(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}

// ListOrders 全部订单（管理员）
// @Summary      全部订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} apporder.OrderView
// @Failure      401 {object} response.ErrorBody
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	views, err := h.query.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}

// GetOrder 订单详情（所有者或管理员）
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} apporder.OrderView
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	view, err := h.query.Get(c.Request.Context(), middleware.MustPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// SetStatus 修改订单状态
// @Summary      修改订单状态
// @Description  只有订单所有者可以修改;请求体为状态名称("Paid")或序号(1)
// @Tags         订单
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        status body string true "新状态" Enums(Pending, Paid, Shipped, Delivered, Cancelled)
// @Success      204
// @Failure      400 {object} response.ErrorBody "状态非法"
// @Failure      401 {object} response.ErrorBody "不是订单所有者"
// @Failure      404 {object} response.ErrorBody "订单不存在"
// @Router       /api/v1/orders/{id} [put]
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var status dto.StatusValue
	if !bindJSON(c, &status) {
		return
	}

	if err := h.setStatus.Execute(c.Request.Context(), middleware.MustPrincipal(c), id, string(status)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteOrder 删除订单
// @Summary      删除订单
// @Description  只有订单所有者可以删除;删除不回补库存
// @Tags         订单
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      204
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.remove.Execute(c.Request.Context(), middleware.MustPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
