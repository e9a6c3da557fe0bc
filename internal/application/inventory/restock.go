package inventory

import (
	"context"
	"errors"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// RestockUseCase 补货用例
//
// 补货是结账扣减的镜像:已有库存行原子回增,
// 没有库存行时创建新行(新书入库)
type RestockUseCase struct {
	inventoryRepo inventory.Repository
	warehouseRepo inventory.WarehouseRepository
	bookRepo      book.Repository
}

// NewRestockUseCase 创建补货用例
func NewRestockUseCase(
	inventoryRepo inventory.Repository,
	warehouseRepo inventory.WarehouseRepository,
	bookRepo book.Repository,
) *RestockUseCase {
	return &RestockUseCase{
		inventoryRepo: inventoryRepo,
		warehouseRepo: warehouseRepo,
		bookRepo:      bookRepo,
	}
}

// RestockRequest 补货请求DTO
type RestockRequest struct {
	WarehouseCode string `json:"warehouse_code" binding:"required"`
	BookID        uint   `json:"book_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
}

// RestockResponse 补货响应DTO
type RestockResponse struct {
	WarehouseID uint `json:"warehouse_id"`
	BookID      uint `json:"book_id"`
	Quantity    int  `json:"quantity"` // 补货后的可用数量
}

// Execute 执行补货
func (uc *RestockUseCase) Execute(ctx context.Context, req RestockRequest) (*RestockResponse, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "补货数量必须为正数")
	}
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}
	w, err := uc.warehouseRepo.FindByCode(ctx, req.WarehouseCode)
	if err != nil {
		return nil, err
	}

	err = uc.inventoryRepo.Restore(ctx, w.ID, req.BookID, req.Quantity)
	if errors.Is(err, inventory.ErrInventoryNotFound) {
		// 新书首次入库:创建库存行
		err = uc.inventoryRepo.Upsert(ctx, &inventory.Inventory{
			WarehouseID: w.ID,
			BookID:      req.BookID,
			Quantity:    req.Quantity,
		})
	}
	if err != nil {
		return nil, err
	}

	quantity, err := uc.inventoryRepo.GetQuantity(ctx, w.ID, req.BookID)
	if err != nil {
		return nil, err
	}
	return &RestockResponse{
		WarehouseID: w.ID,
		BookID:      req.BookID,
		Quantity:    quantity,
	}, nil
}
