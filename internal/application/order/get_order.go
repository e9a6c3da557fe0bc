package order

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// formatPrice 格式化价格(分→元)
func formatPrice(fen int64) string {
	return fmt.Sprintf("%.2f", float64(fen)/100.0)
}

// GetOrderUseCase 订单详情查询用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// OrderDetail 订单详情DTO
type OrderDetail struct {
	ID          uint          `json:"id"`
	OrderNo     string        `json:"order_no"`
	Status      string        `json:"status"`
	TotalAmount int64         `json:"total_amount"`
	TotalYuan   string        `json:"total_yuan"`
	PlacedAt    string        `json:"placed_at"`
	Lines       []LineDetail  `json:"lines"`
	Shipping    *AddressDetail `json:"shipping,omitempty"`
	Billing     *AddressDetail `json:"billing,omitempty"`
}

// LineDetail 订单明细DTO
type LineDetail struct {
	BookID    uint   `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// AddressDetail 地址快照DTO
type AddressDetail struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Execute 查询订单详情
// 只能查自己的订单,越权访问返回ErrForbidden
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, customerID uint) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(customerID) {
		return nil, apperrors.ErrForbidden
	}
	return toOrderDetail(o), nil
}

func toOrderDetail(o *order.Order) *OrderDetail {
	detail := &OrderDetail{
		ID:          o.ID,
		OrderNo:     o.OrderNo,
		Status:      o.Status.String(),
		TotalAmount: o.TotalAmount,
		TotalYuan:   formatPrice(o.TotalAmount),
		PlacedAt:    o.PlacedAt.Format("2006-01-02 15:04:05"),
		Lines:       make([]LineDetail, 0, len(o.Lines)),
	}
	for _, line := range o.Lines {
		detail.Lines = append(detail.Lines, LineDetail{
			BookID:    line.BookID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	if addr := o.ShippingAddress(); addr != nil {
		detail.Shipping = toAddressDetail(addr)
	}
	if addr := o.BillingAddress(); addr != nil {
		detail.Billing = toAddressDetail(addr)
	}
	return detail
}

func toAddressDetail(a *order.Address) *AddressDetail {
	return &AddressDetail{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
