package dto

// AddCartItemRequest HTTP加购请求
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}

// CartItemResponse 购物车条目
type CartItemResponse struct {
	BookID    uint  `json:"book_id" example:"1"`
	Quantity  int   `json:"quantity" example:"2"`
	UnitPrice int64 `json:"unit_price" example:"5900"` // 加购时快照价(分)
	Subtotal  int64 `json:"subtotal" example:"11800"`
}

// CartResponse HTTP购物车视图响应
type CartResponse struct {
	CartID      uint               `json:"cart_id" example:"1"`
	Items       []CartItemResponse `json:"items"`
	TotalAmount int64              `json:"total_amount" example:"11800"`
	TotalYuan   string             `json:"total_yuan" example:"118.00"`
}
