package dto

// AddressRequest 地址输入
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required,max=200" example:"中关村大街1号"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100" example:"北京"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20" example:"100080"`
	Country    string `json:"country" binding:"required,max=100" example:"中国"`
}

// CheckoutRequest HTTP结账请求
// 把当前激活购物车整体转换为订单
type CheckoutRequest struct {
	Shipping AddressRequest  `json:"shipping" binding:"required"`
	Billing  *AddressRequest `json:"billing" binding:"omitempty"`
}

// CheckoutResponse HTTP结账响应
type CheckoutResponse struct {
	OrderID     uint   `json:"order_id" example:"1"`
	OrderNo     string `json:"order_no" example:"ORD20260831103000123456"`
	TotalAmount int64  `json:"total_amount" example:"11800"`
	TotalYuan   string `json:"total_yuan" example:"118.00"`
	Status      string `json:"status" example:"PENDING"`
	PlacedAt    string `json:"placed_at" example:"2026-08-31 10:30:00"`
}

// TransitionRequest HTTP订单状态流转请求
type TransitionRequest struct {
	Target string `json:"target" binding:"required" example:"PAID"` // 目标状态名
}

// TransitionResponse HTTP状态流转响应
type TransitionResponse struct {
	OrderID    uint   `json:"order_id" example:"1"`
	OrderNo    string `json:"order_no" example:"ORD20260831103000123456"`
	FromStatus string `json:"from_status" example:"PENDING"`
	ToStatus   string `json:"to_status" example:"PAID"`
}

// RestockRequest HTTP补货请求
type RestockRequest struct {
	WarehouseCode string `json:"warehouse_code" binding:"required,max=50" example:"WH-BJ-01"`
	BookID        uint   `json:"book_id" binding:"required" example:"1"`
	Quantity      int    `json:"quantity" binding:"required,min=1,max=999999" example:"100"`
}

// RestockResponse HTTP补货响应
type RestockResponse struct {
	WarehouseID uint `json:"warehouse_id" example:"1"`
	BookID      uint `json:"book_id" example:"1"`
	Quantity    int  `json:"quantity" example:"100"` // 补货后可用数量
}
