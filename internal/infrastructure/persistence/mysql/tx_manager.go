package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务DB在context中的键(避免字符串键冲突)
type txKey struct{}

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
//
// 结账的整个编排(锁库存→扣减→建单→地址→灭活购物车→审计)
// 都在一个Transaction回调内执行,任何一步失败全部回滚,
// 其他事务只会看到提交后的完整订单
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext 从context提取事务DB,没有则返回fallback
// 各Repository通过它在"有事务参与事务,无事务直连"之间切换
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
