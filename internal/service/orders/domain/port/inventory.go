// internal/service/orders/domain/port/inventory.go
package port

import "context"

// InventoryService 是库存服务的出站端口，saga 通过它跨网络
// 调用 inventory-service。实现约定的失败语义：
//
//   - CheckStock 读操作，失败时退化为空映射（fail-open）：
//     调用方必须把 "空映射" 当作 "所有商品都不可用" 处理。
//   - ReserveStock 写操作，任何失败都表现为未预占（fail-closed），
//     绝不自动重试——重试一个非幂等的预占可能造成重复扣减。
type InventoryService interface {
	// CheckStock 批量查询可用量，返回 productID -> 可用量。
	CheckStock(ctx context.Context, productIDs []string) (map[string]int, error)

	// ReserveStock 请求预占整个批次，返回远端是否接受。
	ReserveStock(ctx context.Context, items map[string]int) (bool, error)
}
