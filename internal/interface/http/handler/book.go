package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-orders/internal/application/book"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

// BookHandler 图书与库存HTTP处理器
type BookHandler struct {
	catalog   *appbook.CatalogUseCase
	inventory *appbook.InventoryUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(catalog *appbook.CatalogUseCase, inventory *appbook.InventoryUseCase) *BookHandler {
	return &BookHandler{catalog: catalog, inventory: inventory}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        page     query int    false "页码"
// @Param        pageSize query int    false "每页数量(最大100)"
// @Param        keyword  query string false "书名关键词"
// @Success      200 {object} appbook.BookListView
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.WithMessage(apperrors.ErrBindError, "参数格式错误: %v", err))
		return
	}

	page, err := h.catalog.ListBooks(c.Request.Context(), appbook.ListBooksRequest{
		Page:     q.Page,
		PageSize: q.PageSize,
		Keyword:  q.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} appbook.BookView
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	view, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// AddBook 上架图书
// @Summary      上架图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddBookRequest true "图书信息"
// @Success      201 {object} appbook.BookView
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody
// @Router       /api/v1/books [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	var req dto.AddBookRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.catalog.AddBook(c.Request.Context(), appbook.AddBookRequest{
		Title:      req.Title,
		Price:      req.Price,
		Stock:      req.Stock,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  只修改书名/价格/作者/分类,库存请使用补货接口
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} appbook.BookView
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.catalog.UpdateBook(c.Request.Context(), appbook.UpdateBookRequest{
		ID:         id,
		Title:      req.Title,
		Price:      req.Price,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      204
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restock 补货
// @Summary      补货
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                true "图书ID"
// @Param        request body dto.RestockRequest true "补货数量"
// @Success      200 {object} appbook.BookView
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/books/{id}/stock [put]
func (h *BookHandler) Restock(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.RestockRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.inventory.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// InventoryLogs 库存流水
// @Summary      库存流水
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {array} appbook.InventoryLogView
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/v1/books/{id}/inventory-logs [get]
func (h *BookHandler) InventoryLogs(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	logs, err := h.inventory.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}
