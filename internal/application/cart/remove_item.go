package cart

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// RemoveItemUseCase 移除购物车条目用例
type RemoveItemUseCase struct {
	cartRepo cart.Repository
}

// NewRemoveItemUseCase 创建移除条目用例
func NewRemoveItemUseCase(cartRepo cart.Repository) *RemoveItemUseCase {
	return &RemoveItemUseCase{cartRepo: cartRepo}
}

// Execute 从激活购物车中移除指定图书
// 条目不存在返回ErrItemNotFound
func (uc *RemoveItemUseCase) Execute(ctx context.Context, customerID, bookID uint) (*CartView, error) {
	c, err := uc.cartRepo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := c.Remove(bookID); err != nil {
		return nil, err
	}

	if err := uc.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartView(c), nil
}
