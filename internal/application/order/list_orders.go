package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ListOrdersUseCase 订单列表查询用例
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表查询用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// OrderSummary 订单摘要DTO(列表项,不含明细)
type OrderSummary struct {
	ID          uint   `json:"id"`
	OrderNo     string `json:"order_no"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	TotalYuan   string `json:"total_yuan"`
	LineCount   int    `json:"line_count"`
	PlacedAt    string `json:"placed_at"`
}

// Execute 分页查询客户的订单(按下单时间倒序)
func (uc *ListOrdersUseCase) Execute(ctx context.Context, customerID uint, page, pageSize int) ([]*OrderSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	orders, total, err := uc.orderRepo.ListByCustomerID(ctx, customerID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, &OrderSummary{
			ID:          o.ID,
			OrderNo:     o.OrderNo,
			Status:      o.Status.String(),
			TotalAmount: o.TotalAmount,
			TotalYuan:   formatPrice(o.TotalAmount),
			LineCount:   len(o.Lines),
			PlacedAt:    o.PlacedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return summaries, total, nil
}
