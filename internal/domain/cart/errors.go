package cart

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrCartNotFound 激活购物车不存在
	ErrCartNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车不存在")

	// ErrEmptyCart 空购物车不能结账(调用方可修正后重试)
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空，无法结账")

	// ErrItemNotFound 购物车中不存在该图书
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeNotFound, "购物车中没有该图书")

	// ErrInvalidQuantity 加购数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
)
