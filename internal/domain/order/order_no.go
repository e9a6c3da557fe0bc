package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNo 生成订单号
// 订单号设计:
// 1. 全局唯一(数据库唯一索引兜底,冲突时重新生成)
// 2. 日期前缀,时间有序(便于人工对账与归档)
// 3. 随机后缀,不可预测(防止恶意遍历)
//
// 格式:ORD + yyyyMMddHHmmss + 6位随机数
// 示例:ORD20240615103025381942
func GenerateOrderNo() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD%s%06d", time.Now().Format("20060102150405"), suffix)
}
