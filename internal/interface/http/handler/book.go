package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase  *appbook.CreateBookUseCase
	queryBooksUseCase  *appbook.QueryBooksUseCase
	changePriceUseCase *appbook.ChangePriceUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	queryBooksUseCase *appbook.QueryBooksUseCase,
	changePriceUseCase *appbook.ChangePriceUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase:  createBookUseCase,
		queryBooksUseCase:  queryBooksUseCase,
		changePriceUseCase: changePriceUseCase,
	}
}

// CreateBook 图书上架
// @Summary      图书上架
// @Description  新书入目录,ISBN全局唯一
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse} "上架成功"
// @Failure      200 {object} response.Response "参数错误/ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Price:       req.Price,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponse(result))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书模块
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书ID格式错误")
		return
	}

	result, err := h.queryBooksUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponse(result))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询,keyword匹配书名/作者
// @Tags         图书模块
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	books, total, err := h.queryBooksUseCase.List(c.Request.Context(), req.Keyword, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.BookResponse, 0, len(books))
	for _, b := range books {
		list = append(list, toBookResponse(b))
	}
	response.Success(c, response.NewPageData(list, total, req.Page, req.PageSize))
}

// ChangePrice 目录改价
// @Summary      目录改价
// @Description  只影响之后的加购,已快照的购物车条目和历史订单保持原价
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.ChangePriceRequest true "新价格"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "图书不存在/价格非法"
// @Router       /books/{id}/price [put]
func (h *BookHandler) ChangePrice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书ID格式错误")
		return
	}

	var req dto.ChangePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.changePriceUseCase.Execute(c.Request.Context(), id, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookResponse(result))
}

func toBookResponse(v *appbook.BookView) *dto.BookResponse {
	return &dto.BookResponse{
		ID:          v.ID,
		ISBN:        v.ISBN,
		Title:       v.Title,
		Author:      v.Author,
		Publisher:   v.Publisher,
		Price:       v.Price,
		PriceYuan:   v.PriceYuan,
		Currency:    v.Currency,
		Description: v.Description,
	}
}

// parseUintParam 解析路径中的无符号整数参数
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// queryInt 读取整数查询参数,缺省或非法时返回默认值
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v < 1 {
		return def
	}
	return v
}
