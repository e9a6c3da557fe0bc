package book

import "time"

// Book 图书实体(目录协作方)
// 设计说明:
// 1. ISBN是业务主键(唯一索引)
// 2. Price/Currency是当前售价,只在加购时读取用于价格快照,
//    结账只用购物车里的快照价,目录改价不影响已下订单
// 3. 价格使用int64存储"分",避免浮点精度问题
type Book struct {
	ID          uint
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       int64  // 当前售价(分)
	Currency    string // ISO 4217货币码,默认CNY
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CurrentPrice 当前售价读取(目录边界唯一暴露给核心的能力)
func (b *Book) CurrentPrice() (int64, string) {
	return b.Price, b.Currency
}

// ChangePrice 目录改价
// 历史订单与已快照的购物车条目不受影响
func (b *Book) ChangePrice(price int64) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	b.Price = price
	b.UpdatedAt = time.Now()
	return nil
}
