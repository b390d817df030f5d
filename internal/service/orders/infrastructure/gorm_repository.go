// internal/service/orders/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medisupply/internal/service/orders/domain"
)

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现。
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例。
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save 保存订单当前快照。saga 的每次状态流转都会走到这里，
// 所以用 upsert：首次创建写入行项目，之后只更新订单头。
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(model).Error; err != nil {
			return errors.Wrap(err, "failed to save order")
		}

		// 行项目在订单创建后不可变，只在首次保存时插入
		var count int64
		if err := tx.Model(&OrderItemModel{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to count order items")
		}
		if count == 0 && len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return errors.Wrap(err, "failed to save order items")
			}
		}
		return nil
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to query order")
	}
	return toDomainOrder(&model), nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query orders")
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toDomainOrder(&models[i]))
	}
	return orders, nil
}
