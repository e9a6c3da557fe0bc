package customer

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/customer"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

// SessionStore 会话存储接口(由redis.SessionStore实现)
type SessionStore interface {
	SaveSession(ctx context.Context, customerID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, customerID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 客户登录用例
// 登录成功签发双Token,会话写入Redis;
// 会话写失败不阻断登录(JWT本身自包含),只记日志
type LoginUseCase struct {
	customerService customer.Service
	jwtManager      *jwt.Manager
	sessionStore    SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(customerService customer.Service, jwtManager *jwt.Manager, sessionStore SessionStore) *LoginUseCase {
	return &LoginUseCase{
		customerService: customerService,
		jwtManager:      jwtManager,
		sessionStore:    sessionStore,
	}
}

// LoginRequest 登录请求DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应DTO
type LoginResponse struct {
	CustomerID   uint   `json:"customer_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	c, err := uc.customerService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.jwtManager.GenerateAccessToken(c.ID, c.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := uc.jwtManager.GenerateRefreshToken(c.ID, c.Email)
	if err != nil {
		return nil, err
	}

	if uc.sessionStore != nil {
		data := map[string]interface{}{
			"email":    c.Email,
			"name":     c.Name,
			"login_at": time.Now().Unix(),
		}
		if err := uc.sessionStore.SaveSession(ctx, c.ID, data, uc.jwtManager.RefreshTokenExpire()); err != nil {
			log.Printf("保存会话失败 customer_id=%d: %v", c.ID, err)
		}
	}

	return &LoginResponse{
		CustomerID:   c.ID,
		Email:        c.Email,
		Name:         c.Name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout 登出:删除会话并将Token拉黑
func (uc *LoginUseCase) Logout(ctx context.Context, customerID uint, token string) error {
	if uc.sessionStore == nil {
		return nil
	}
	if err := uc.sessionStore.DeleteSession(ctx, customerID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, token, uc.jwtManager.RefreshTokenExpire())
}
