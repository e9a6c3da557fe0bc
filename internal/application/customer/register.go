package customer

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/customer"
)

// RegisterUseCase 客户注册用例
type RegisterUseCase struct {
	customerService customer.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(customerService customer.Service) *RegisterUseCase {
	return &RegisterUseCase{customerService: customerService}
}

// RegisterRequest 注册请求DTO
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
	Name     string `json:"name" binding:"required,min=2,max=50"`
}

// RegisterResponse 注册响应DTO
type RegisterResponse struct {
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	c, err := uc.customerService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{
		CustomerID: c.ID,
		Email:      c.Email,
		Name:       c.Name,
	}, nil
}
