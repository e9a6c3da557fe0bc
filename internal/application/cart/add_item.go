package cart

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// AddItemUseCase 加购用例
//
// 每次加购都从目录重新读取当前售价做快照:
// 同一本书加购两次、中间目录改价,条目上保留的是
// 最后一次加购时的价格,结账按这个快照价计费
type AddItemUseCase struct {
	cartRepo cart.Repository
	bookRepo book.Repository
}

// NewAddItemUseCase 创建加购用例
func NewAddItemUseCase(cartRepo cart.Repository, bookRepo book.Repository) *AddItemUseCase {
	return &AddItemUseCase{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	CustomerID uint
	BookID     uint
	Quantity   int
}

// Execute 执行加购
// 没有激活购物车时自动创建,已有同一图书则累加数量
func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) (*CartView, error) {
	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	c, err := uc.cartRepo.FindOrCreateActive(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	price, _ := b.CurrentPrice()
	if err := c.Upsert(req.BookID, req.Quantity, price); err != nil {
		return nil, err
	}

	if err := uc.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartView(c), nil
}
