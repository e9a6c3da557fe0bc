package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/customer"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// customerRepository 客户仓储实现(MySQL)
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

// Create 创建客户
func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := &CustomerModel{
		Email:    c.Email,
		Password: c.Password,
		Name:     c.Name,
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
		}
		return apperrors.Wrap(err, "创建客户失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找客户
func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel
	db := dbFromContext(ctx, r.db)
	err := db.First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询客户失败")
	}
	return toCustomerEntity(&model), nil
}

// FindByEmail 根据邮箱查找客户
func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var model CustomerModel
	db := dbFromContext(ctx, r.db)
	err := db.Where("email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询客户失败")
	}
	return toCustomerEntity(&model), nil
}

func toCustomerEntity(model *CustomerModel) *customer.Customer {
	return &customer.Customer{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
