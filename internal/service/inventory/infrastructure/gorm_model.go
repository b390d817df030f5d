// internal/service/inventory/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"medisupply/internal/service/inventory/domain"
)

// InventoryModel 对应数据库中的 inventory 表。
type InventoryModel struct {
	ProductID         string `gorm:"primaryKey;size:64"`
	AvailableQuantity int    `gorm:"not null"`
	ReservedQuantity  int    `gorm:"not null;default:0"`
	Version           int64  `gorm:"not null;default:0"`
	UpdatedAt         time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (InventoryModel) TableName() string {
	return "inventory"
}

func toDomainInventoryItem(m *InventoryModel) *domain.InventoryItem {
	return &domain.InventoryItem{
		ProductID:         m.ProductID,
		AvailableQuantity: m.AvailableQuantity,
		ReservedQuantity:  m.ReservedQuantity,
		UpdatedAt:         m.UpdatedAt,
		Version:           m.Version,
	}
}
