package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// ChangePriceUseCase 目录改价用例
//
// 改价只影响之后的加购:已快照的购物车条目和历史订单
// 保持原价,这是价格快照不变式在目录侧的体现
type ChangePriceUseCase struct {
	bookRepo book.Repository
}

// NewChangePriceUseCase 创建改价用例
func NewChangePriceUseCase(bookRepo book.Repository) *ChangePriceUseCase {
	return &ChangePriceUseCase{bookRepo: bookRepo}
}

// Execute 执行改价
func (uc *ChangePriceUseCase) Execute(ctx context.Context, bookID uint, price int64) (*BookView, error) {
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := b.ChangePrice(price); err != nil {
		return nil, err
	}
	if err := uc.bookRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBookView(b), nil
}
