package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// ViewCartUseCase 购物车物化视图用例
type ViewCartUseCase struct {
	cartRepo cart.Repository
}

// NewViewCartUseCase 创建购物车视图用例
func NewViewCartUseCase(cartRepo cart.Repository) *ViewCartUseCase {
	return &ViewCartUseCase{cartRepo: cartRepo}
}

// CartView 购物车物化视图DTO
// 条目按插入顺序排列,总金额按条目快照价计算
type CartView struct {
	CartID      uint       `json:"cart_id"`
	Items       []ItemView `json:"items"`
	TotalAmount int64      `json:"total_amount"`
	TotalYuan   string     `json:"total_yuan"`
}

// ItemView 购物车条目DTO
type ItemView struct {
	BookID    uint  `json:"book_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	Subtotal  int64 `json:"subtotal"`
}

// Execute 查看激活购物车
// 没有激活购物车时返回空视图(CartID=0),不视为错误
func (uc *ViewCartUseCase) Execute(ctx context.Context, customerID uint) (*CartView, error) {
	c, err := uc.cartRepo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return &CartView{Items: []ItemView{}, TotalYuan: "0.00"}, nil
		}
		return nil, err
	}
	return toCartView(c), nil
}

func toCartView(c *cart.Cart) *CartView {
	view := &CartView{
		CartID:      c.ID,
		Items:       make([]ItemView, 0, len(c.Items)),
		TotalAmount: c.TotalAmount(),
	}
	for _, item := range c.Items {
		view.Items = append(view.Items, ItemView{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	view.TotalYuan = fmt.Sprintf("%.2f", float64(view.TotalAmount)/100.0)
	return view
}
