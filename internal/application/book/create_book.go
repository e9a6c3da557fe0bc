package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CreateBookUseCase 图书上架用例
type CreateBookUseCase struct {
	bookRepo book.Repository
}

// NewCreateBookUseCase 创建图书上架用例
func NewCreateBookUseCase(bookRepo book.Repository) *CreateBookUseCase {
	return &CreateBookUseCase{bookRepo: bookRepo}
}

// CreateBookRequest 图书上架请求DTO
type CreateBookRequest struct {
	ISBN        string `json:"isbn" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Publisher   string `json:"publisher"`
	Price       int64  `json:"price" binding:"required,min=0"` // 单位:分
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// Execute 执行图书上架
// ISBN重复由唯一索引兜底,返回ErrISBNDuplicate语义错误
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookView, error) {
	if req.Price < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "价格不能为负数")
	}
	currency := req.Currency
	if currency == "" {
		currency = "CNY"
	}

	b := &book.Book{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Price:       req.Price,
		Currency:    currency,
		Description: req.Description,
	}
	if err := uc.bookRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBookView(b), nil
}
