package handler

import (
	"github.com/gin-gonic/gin"

	appaudit "github.com/xiebiao/bookshop/internal/application/audit"
	appinventory "github.com/xiebiao/bookshop/internal/application/inventory"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// InventoryHandler 库存与审计HTTP处理器
type InventoryHandler struct {
	restockUseCase   *appinventory.RestockUseCase
	listTrailUseCase *appaudit.ListTrailUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(restockUseCase *appinventory.RestockUseCase, listTrailUseCase *appaudit.ListTrailUseCase) *InventoryHandler {
	return &InventoryHandler{
		restockUseCase:   restockUseCase,
		listTrailUseCase: listTrailUseCase,
	}
}

// Restock 补货
// @Summary      补货
// @Description  向指定仓库回增图书库存,库存行不存在时创建
// @Tags         库存模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RestockRequest true "补货信息"
// @Success      200 {object} response.Response{data=dto.RestockResponse} "补货成功"
// @Failure      200 {object} response.Response "仓库/图书不存在"
// @Router       /inventory/restock [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.restockUseCase.Execute(c.Request.Context(), appinventory.RestockRequest{
		WarehouseCode: req.WarehouseCode,
		BookID:        req.BookID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RestockResponse{
		WarehouseID: result.WarehouseID,
		BookID:      result.BookID,
		Quantity:    result.Quantity,
	})
}

// OrderTrail 订单审计轨迹
// @Summary      订单审计轨迹
// @Description  按时间倒序返回指定订单的全部审计日志
// @Tags         审计模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=[]appaudit.EntryView}
// @Router       /orders/{id}/audit [get]
func (h *InventoryHandler) OrderTrail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID格式错误")
		return
	}

	entries, err := h.listTrailUseCase.ByOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// RecentTrail 最近审计日志
// @Summary      最近审计日志
// @Tags         审计模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /audit [get]
func (h *InventoryHandler) RecentTrail(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	entries, total, err := h.listTrailUseCase.Recent(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, response.NewPageData(entries, total, page, pageSize))
}
