package dto

import (
	"github.com/shopspring/decimal"
)

// AddBookRequest 上架请求
type AddBookRequest struct {
	Title      string          `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Price      decimal.Decimal `json:"price" swaggertype:"number" example:"59.00"`
	Stock      int             `json:"stock" binding:"min=0" example:"100"`
	AuthorID   uint            `json:"authorId" example:"1"`
	CategoryID *uint           `json:"categoryId" example:"2"`
}

// UpdateBookRequest 修改请求，只能改目录信息，不能改库存
type UpdateBookRequest struct {
	Title      string           `json:"title" binding:"max=200" example:"Go语言实战(第2版)"`
	Price      *decimal.Decimal `json:"price" swaggertype:"number" example:"69.00"`
	AuthorID   uint             `json:"authorId" example:"1"`
	CategoryID *uint            `json:"categoryId" example:"2"`
}

// RestockRequest 补货请求
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1" example:"50"`
}

// ListBooksQuery 列表查询参数
type ListBooksQuery struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"pageSize" example:"20"`
	Keyword  string `form:"keyword" example:"Go"`
}
