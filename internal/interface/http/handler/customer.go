package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/xiebiao/bookshop/internal/application/customer"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CustomerHandler 客户HTTP处理器
type CustomerHandler struct {
	registerUseCase *appcustomer.RegisterUseCase
	loginUseCase    *appcustomer.LoginUseCase
}

// NewCustomerHandler 创建客户处理器
func NewCustomerHandler(registerUseCase *appcustomer.RegisterUseCase, loginUseCase *appcustomer.LoginUseCase) *CustomerHandler {
	return &CustomerHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
	}
}

// Register 客户注册
// @Summary      客户注册
// @Description  邮箱注册新客户,密码bcrypt加密存储
// @Tags         客户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.RegisterResponse} "注册成功"
// @Failure      200 {object} response.Response "参数错误/邮箱已存在"
// @Router       /customers/register [post]
func (h *CustomerHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appcustomer.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RegisterResponse{
		CustomerID: result.CustomerID,
		Email:      result.Email,
		Name:       result.Name,
	})
}

// Login 客户登录
// @Summary      客户登录
// @Description  邮箱密码登录,签发Access/Refresh双Token
// @Tags         客户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      200 {object} response.Response "客户不存在/密码错误"
// @Router       /customers/login [post]
func (h *CustomerHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appcustomer.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		CustomerID:   result.CustomerID,
		Email:        result.Email,
		Name:         result.Name,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Logout 客户登出
// @Summary      客户登出
// @Description  删除会话并将当前Token拉黑
// @Tags         客户模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /customers/logout [post]
func (h *CustomerHandler) Logout(c *gin.Context) {
	customerID := middleware.MustGetCustomerID(c)
	token := middleware.GetToken(c)

	if err := h.loginUseCase.Logout(c.Request.Context(), customerID, token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "已登出"})
}
