// internal/service/orders/infrastructure/adapter/inventory_http_adapter.go
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"medisupply/internal/pkg/httpclient"
	"medisupply/internal/pkg/nacos"
)

const (
	inventoryServiceName = "inventory-service"
	checkStockPath       = "/api/v1/inventory/check"
	reserveStockPath     = "/api/v1/inventory/reserve"

	// 只对幂等的读操作重试
	checkStockMaxRetries = 3
)

// InventoryHTTPAdapter 实现了 port.InventoryService。
// 读写两条路径的降级方向刻意不对称：
// 查询失败退化为空结果（读可以优雅降级），
// 预占失败一律按未预占处理且绝不重试（写不允许猜）。
type InventoryHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
	nacos   *nacos.Client // 可为 nil，此时固定使用 baseURL
}

// NewInventoryHTTPAdapter 创建一个新的库存服务适配器。
// 传入 nacos 客户端时按调用做实例发现，否则使用配置的 baseURL。
func NewInventoryHTTPAdapter(client *httpclient.Client, baseURL string, nacosClient *nacos.Client) *InventoryHTTPAdapter {
	return &InventoryHTTPAdapter{client: client, baseURL: baseURL, nacos: nacosClient}
}

type checkStockRequest struct {
	ProductIDs []string `json:"product_ids"`
}

type checkStockResponse struct {
	Stock map[string]int `json:"stock"`
}

type reserveStockRequest struct {
	Items map[string]int `json:"items"`
}

type reserveStockResponse struct {
	Reserved bool `json:"reserved"`
}

// CheckStock 批量查询可用量。
// 对端明确回了错误状态码就立即放弃；网络层失败重试到预算用尽。
// 两种情况最终都返回空映射（fail-open）：调用方会把空映射
// 当作全部不可用，这是保守的方向。
func (a *InventoryHTTPAdapter) CheckStock(ctx context.Context, productIDs []string) (map[string]int, error) {
	url, err := a.resolveURL(checkStockPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve inventory service address")
		return map[string]int{}, nil
	}

	for attempt := 1; attempt <= checkStockMaxRetries; attempt++ {
		var resp checkStockResponse
		err := a.client.PostJSON(ctx, url, checkStockRequest{ProductIDs: productIDs}, &resp)
		if err == nil {
			if resp.Stock == nil {
				return map[string]int{}, nil
			}
			return resp.Stock, nil
		}

		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			log.Error().Int("status", statusErr.Code).Msg("HTTP error checking inventory")
			return map[string]int{}, nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("max", checkStockMaxRetries).Msg("timeout checking inventory")
	}

	log.Error().Msg("all retry attempts failed for inventory check")
	return map[string]int{}, nil
}

// ReserveStock 请求远端预占整个批次。
// 任何错误都表现为 (false, nil)：预占不可重试，失败必须 fail-closed。
func (a *InventoryHTTPAdapter) ReserveStock(ctx context.Context, items map[string]int) (bool, error) {
	url, err := a.resolveURL(reserveStockPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve inventory service address")
		return false, nil
	}

	var resp reserveStockResponse
	if err := a.client.PostJSON(ctx, url, reserveStockRequest{Items: items}, &resp); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			log.Error().Int("status", statusErr.Code).Msg("HTTP error reserving stock")
		} else {
			log.Error().Err(err).Msg("error reserving stock")
		}
		return false, nil
	}
	return resp.Reserved, nil
}

func (a *InventoryHTTPAdapter) resolveURL(path string) (string, error) {
	if a.nacos == nil {
		return a.baseURL + path, nil
	}
	ip, port, err := a.nacos.DiscoverServiceInstance(inventoryServiceName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s:%d%s", ip, port, path), nil
}
