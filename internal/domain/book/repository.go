package book

import "context"

// Repository 图书仓储接口
// 目录是外部协作方,核心只依赖这几个只读/维护操作
type Repository interface {
	// Create 创建图书(上架)
	Create(ctx context.Context, b *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息(含改价)
	Update(ctx context.Context, b *Book) error

	// List 分页查询图书列表
	List(ctx context.Context, keyword string, page, pageSize int) ([]*Book, int64, error)
}
