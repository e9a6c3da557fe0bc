package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/inventory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// warehouseRepository 仓库仓储实现(MySQL)
type warehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库仓储
func NewWarehouseRepository(db *gorm.DB) inventory.WarehouseRepository {
	return &warehouseRepository{db: db}
}

// Create 创建仓库
func (r *warehouseRepository) Create(ctx context.Context, w *inventory.Warehouse) error {
	model := &WarehouseModel{
		Code: w.Code,
		Name: w.Name,
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "仓库编码已存在")
		}
		return apperrors.Wrap(err, "创建仓库失败")
	}

	w.ID = model.ID
	w.CreatedAt = model.CreatedAt
	w.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByCode 根据仓库编码查找
func (r *warehouseRepository) FindByCode(ctx context.Context, code string) (*inventory.Warehouse, error) {
	var model WarehouseModel
	db := dbFromContext(ctx, r.db)
	err := db.Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrWarehouseNotFound
		}
		return nil, apperrors.Wrap(err, "查询仓库失败")
	}

	return &inventory.Warehouse{
		ID:        model.ID,
		Code:      model.Code,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}
