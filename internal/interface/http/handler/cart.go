package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	addItemUseCase    *appcart.AddItemUseCase
	removeItemUseCase *appcart.RemoveItemUseCase
	viewCartUseCase   *appcart.ViewCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	addItemUseCase *appcart.AddItemUseCase,
	removeItemUseCase *appcart.RemoveItemUseCase,
	viewCartUseCase *appcart.ViewCartUseCase,
) *CartHandler {
	return &CartHandler{
		addItemUseCase:    addItemUseCase,
		removeItemUseCase: removeItemUseCase,
		viewCartUseCase:   viewCartUseCase,
	}
}

// AddItem 加购
// @Summary      加入购物车
// @Description  没有激活购物车时自动创建;同一图书重复加购累加数量,并用当前售价重新快照
// @Tags         购物车模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "加购信息"
// @Success      200 {object} response.Response{data=dto.CartResponse} "加购成功"
// @Failure      200 {object} response.Response "图书不存在/数量非法"
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	result, err := h.addItemUseCase.Execute(c.Request.Context(), appcart.AddItemRequest{
		CustomerID: customerID,
		BookID:     req.BookID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCartResponse(result))
}

// RemoveItem 移除条目
// @Summary      移除购物车条目
// @Tags         购物车模块
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.CartResponse} "移除成功"
// @Failure      200 {object} response.Response "购物车/条目不存在"
// @Router       /cart/items/{book_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	bookID, err := parseUintParam(c, "book_id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书ID格式错误")
		return
	}

	customerID := middleware.MustGetCustomerID(c)
	result, err := h.removeItemUseCase.Execute(c.Request.Context(), customerID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCartResponse(result))
}

// ViewCart 查看购物车
// @Summary      查看购物车
// @Description  物化当前激活购物车,条目按插入顺序,金额按快照价计算
// @Tags         购物车模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) ViewCart(c *gin.Context) {
	customerID := middleware.MustGetCustomerID(c)
	result, err := h.viewCartUseCase.Execute(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCartResponse(result))
}

func toCartResponse(v *appcart.CartView) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.CartItemResponse{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &dto.CartResponse{
		CartID:      v.CartID,
		Items:       items,
		TotalAmount: v.TotalAmount,
		TotalYuan:   v.TotalYuan,
	}
}
