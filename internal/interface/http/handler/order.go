package handler

import (
	"github.com/gin-gonic/gin"

	appcheckout "github.com/xiebiao/bookshop/internal/application/checkout"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase   *appcheckout.UseCase
	transitionUseCase *apporder.TransitionUseCase
	getOrderUseCase   *apporder.GetOrderUseCase
	listOrdersUseCase *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	checkoutUseCase *appcheckout.UseCase,
	transitionUseCase *apporder.TransitionUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	listOrdersUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase:   checkoutUseCase,
		transitionUseCase: transitionUseCase,
		getOrderUseCase:   getOrderUseCase,
		listOrdersUseCase: listOrdersUseCase,
	}
}

// Checkout 结账
// @Summary      购物车结账
// @Description  把激活购物车原子转换为PENDING订单:锁定库存、按快照价计费、灭活购物车、落审计日志,任一步失败整体回滚
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "地址信息"
// @Success      200 {object} response.Response{data=dto.CheckoutResponse} "下单成功"
// @Failure      200 {object} response.Response "购物车为空/库存不足/系统繁忙"
// @Router       /checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	checkoutReq := appcheckout.Request{
		CustomerID: customerID,
		Shipping:   toAddressInput(req.Shipping),
	}
	if req.Billing != nil {
		billing := toAddressInput(*req.Billing)
		checkoutReq.Billing = &billing
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), checkoutReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CheckoutResponse{
		OrderID:     result.OrderID,
		OrderNo:     result.OrderNo,
		TotalAmount: result.TotalAmount,
		TotalYuan:   result.TotalYuan,
		Status:      result.Status,
		PlacedAt:    result.PlacedAt,
	})
}

// Transition 订单状态流转
// @Summary      订单状态流转
// @Description  按状态机推进订单;ALLOCATED→CANCELLED和DELIVERED→RETURNED会在同一事务内回补库存
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.TransitionRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.TransitionResponse} "流转成功"
// @Failure      200 {object} response.Response "订单不存在/非法流转"
// @Router       /orders/{id}/transition [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID格式错误")
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	target, err := order.ParseStatus(req.Target)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "未知的订单状态: "+req.Target)
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	result, err := h.transitionUseCase.Execute(c.Request.Context(), apporder.TransitionRequest{
		OrderID: id,
		Target:  target,
		ActorID: customerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.TransitionResponse{
		OrderID:    result.OrderID,
		OrderNo:    result.OrderNo,
		FromStatus: result.FromStatus,
		ToStatus:   result.ToStatus,
	})
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  含明细和地址快照,只能查自己的订单
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Failure      200 {object} response.Response "订单不存在/无权限"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID格式错误")
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	result, err := h.getOrderUseCase.Execute(c.Request.Context(), id, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 订单列表
// @Summary      我的订单列表
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	customerID := middleware.MustGetCustomerID(c)
	list, total, err := h.listOrdersUseCase.Execute(c.Request.Context(), customerID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

func toAddressInput(req dto.AddressRequest) appcheckout.AddressInput {
	return appcheckout.AddressInput{
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}
