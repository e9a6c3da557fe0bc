package inventory

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 库存领域错误定义
var (
	// 参数错误
	ErrInvalidWarehouseID = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的仓库ID")
	ErrInvalidBookID      = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的图书ID")
	ErrInvalidQuantity    = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的数量")
	ErrNegativeQuantity   = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// 业务错误
	// ErrInsufficientStock 库存不足:整个下单事务必须回滚,库存保持原状
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrInventoryNotFound 库存记录不存在
	ErrInventoryNotFound = apperrors.New(apperrors.ErrCodeInventoryNotFound, "库存记录不存在")

	// ErrWarehouseNotFound 仓库不存在
	ErrWarehouseNotFound = apperrors.New(apperrors.ErrCodeWarehouseNotFound, "仓库不存在")
)
