package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// QueryBooksUseCase 图书查询用例
type QueryBooksUseCase struct {
	bookRepo book.Repository
}

// NewQueryBooksUseCase 创建图书查询用例
func NewQueryBooksUseCase(bookRepo book.Repository) *QueryBooksUseCase {
	return &QueryBooksUseCase{bookRepo: bookRepo}
}

// BookView 图书DTO
type BookView struct {
	ID          uint   `json:"id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Price       int64  `json:"price"`
	PriceYuan   string `json:"price_yuan"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// GetByID 查询图书详情
func (uc *QueryBooksUseCase) GetByID(ctx context.Context, id uint) (*BookView, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookView(b), nil
}

// List 分页查询图书(keyword匹配书名/作者,可为空)
func (uc *QueryBooksUseCase) List(ctx context.Context, keyword string, page, pageSize int) ([]*BookView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	books, total, err := uc.bookRepo.List(ctx, keyword, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*BookView, 0, len(books))
	for _, b := range books {
		views = append(views, toBookView(b))
	}
	return views, total, nil
}

func toBookView(b *book.Book) *BookView {
	return &BookView{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		Price:       b.Price,
		PriceYuan:   fmt.Sprintf("%.2f", float64(b.Price)/100.0),
		Currency:    b.Currency,
		Description: b.Description,
	}
}
