// internal/service/inventory/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"medisupply/internal/service/inventory/domain"
)

// GormInventoryRepository 是 domain.InventoryRepository 的 GORM 实现。
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository 创建一个新的 GORM 仓储实例。
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	var model InventoryModel
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to query inventory item")
	}
	return toDomainInventoryItem(&model), nil
}

func (r *GormInventoryRepository) FindByProductIDs(ctx context.Context, productIDs []string) (map[string]*domain.InventoryItem, error) {
	var models []InventoryModel
	err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query inventory items")
	}

	result := make(map[string]*domain.InventoryItem, len(models))
	for i := range models {
		result[models[i].ProductID] = toDomainInventoryItem(&models[i])
	}
	return result, nil
}

func (r *GormInventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveWithVersionGuard(tx, item)
	})
}

// SaveAll 在同一个事务里保存整个批次。任何一行的 version 守卫失败
// 都会让事务整体回滚并返回 domain.ErrVersionConflict：
// 这是两个并发预占请求之间的串行化点，不存在部分写入。
func (r *GormInventoryRepository) SaveAll(ctx context.Context, items []*domain.InventoryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := saveWithVersionGuard(tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// saveWithVersionGuard 以读取时的 version 为条件做更新（乐观锁）。
// RowsAffected == 0 说明这一行在读取之后被别的事务改过。
func saveWithVersionGuard(tx *gorm.DB, item *domain.InventoryItem) error {
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	res := tx.Model(&InventoryModel{}).
		Where("product_id = ? AND version = ?", item.ProductID, item.Version).
		Updates(map[string]interface{}{
			"available_quantity": item.AvailableQuantity,
			"reserved_quantity":  item.ReservedQuantity,
			"version":            item.Version + 1,
			"updated_at":         updatedAt,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update inventory item")
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	item.Version++
	return nil
}
