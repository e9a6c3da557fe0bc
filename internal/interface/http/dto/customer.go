package dto

// RegisterRequest HTTP注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"passw0rd123"`
	Name     string `json:"name" binding:"required,min=2,max=50" example:"张三"`
}

// RegisterResponse HTTP注册响应
type RegisterResponse struct {
	CustomerID uint   `json:"customer_id" example:"1"`
	Email      string `json:"email" example:"reader@example.com"`
	Name       string `json:"name" example:"张三"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"passw0rd123"`
}

// LoginResponse HTTP登录响应
type LoginResponse struct {
	CustomerID   uint   `json:"customer_id" example:"1"`
	Email        string `json:"email" example:"reader@example.com"`
	Name         string `json:"name" example:"张三"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
