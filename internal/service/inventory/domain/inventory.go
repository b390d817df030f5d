// internal/service/inventory/domain/inventory.go
package domain

import (
	"time"
)

// InventoryItem 是库存台账的聚合根：每个商品一行，
// 可用量与预占量两个计数器之和在 Reserve/Release 之间守恒。
type InventoryItem struct {
	ProductID         string
	AvailableQuantity int
	ReservedQuantity  int
	UpdatedAt         time.Time

	// Version 是乐观锁令牌，由仓储在读取时填充、保存时校验。
	// 领域操作不修改它。
	Version int64
}

// TotalQuantity 返回该商品的总持有量（可用 + 预占）。
func (i *InventoryItem) TotalQuantity() int {
	return i.AvailableQuantity + i.ReservedQuantity
}

// CanReserve 判断可用量是否足够预占 quantity 件。
func (i *InventoryItem) CanReserve(quantity int) bool {
	return i.AvailableQuantity >= quantity
}

// Reserve 把 quantity 件从可用量挪到预占量。
// 可用量不足时不做任何修改并返回 false，可用量永远不会变负。
func (i *InventoryItem) Reserve(quantity int) bool {
	if !i.CanReserve(quantity) {
		return false
	}
	i.AvailableQuantity -= quantity
	i.ReservedQuantity += quantity
	i.UpdatedAt = time.Now().UTC()
	return true
}

// Release 是 Reserve 的逆操作，把 quantity 件从预占量挪回可用量。
// 预占量不足时返回 false，防止超额释放。
func (i *InventoryItem) Release(quantity int) bool {
	if i.ReservedQuantity < quantity {
		return false
	}
	i.ReservedQuantity -= quantity
	i.AvailableQuantity += quantity
	i.UpdatedAt = time.Now().UTC()
	return true
}
