// internal/service/inventory/domain/repository.go
package domain

import (
	"context"
	"errors"
)

// ErrVersionConflict 由仓储在乐观锁校验失败时返回：
// 批次中任何一行的 version 与读取时不一致，整个批次都不会写入。
var ErrVersionConflict = errors.New("inventory version conflict")

// InventoryRepository 定义了库存台账的持久化端口。
// 它位于领域层，由基础设施层实现。
type InventoryRepository interface {
	// FindByProductID 查找单个商品，不存在时返回 (nil, nil)。
	FindByProductID(ctx context.Context, productID string) (*InventoryItem, error)

	// FindByProductIDs 批量查找，返回以 productID 为键的映射；
	// 不存在的商品不出现在结果里。
	FindByProductIDs(ctx context.Context, productIDs []string) (map[string]*InventoryItem, error)

	// Save 保存单个台账条目。
	Save(ctx context.Context, item *InventoryItem) error

	// SaveAll 在同一个事务里保存整个批次，并对每一行做
	// version 守卫（乐观锁）。任何一行冲突都会整体回滚并返回
	// ErrVersionConflict——这是并发预占的串行化点。
	SaveAll(ctx context.Context, items []*InventoryItem) error
}
