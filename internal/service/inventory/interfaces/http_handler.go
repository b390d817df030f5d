// internal/service/inventory/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"medisupply/internal/pkg/metrics"
	"medisupply/internal/service/inventory/application"
	"medisupply/internal/service/inventory/domain"
)

// InventoryHandler 封装了 inventory 服务的 HTTP 处理器。
type InventoryHandler struct {
	checkStock   *application.CheckStockUseCase
	reserveStock *application.ReserveStockUseCase
}

// NewInventoryHandler 创建一个新的 HTTP 处理器实例。
func NewInventoryHandler(check *application.CheckStockUseCase, reserve *application.ReserveStockUseCase) *InventoryHandler {
	return &InventoryHandler{checkStock: check, reserveStock: reserve}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/inventory/check", h.checkStockHandler)
	mux.HandleFunc("/api/v1/inventory/reserve", h.reserveStockHandler)
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

func (h *InventoryHandler) checkStockHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req checkStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	stock, err := h.checkStock.Execute(ctx, req.ProductIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkStockResponse{Stock: stock})
}

func (h *InventoryHandler) reserveStockHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req reserveStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	reserved, err := h.reserveStock.Execute(ctx, req.Items)
	if err != nil {
		metrics.StockReservationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		h.writeError(w, err)
		return
	}
	metrics.StockReservationsTotal.WithLabelValues("reserved").Inc()
	writeJSON(w, http.StatusOK, reserveStockResponse{Reserved: reserved})
}

// writeError 把领域错误映射为 HTTP 状态码。
// 校验和业务冲突把细节带给调用方；存储类故障只返回笼统信息，
// 细节留在服务端日志里。
func (h *InventoryHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.ProductNotFoundError
	var insufficientErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		writeDetail(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		writeDetail(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &insufficientErr):
		writeDetail(w, http.StatusConflict, insufficientErr.Error())
	default:
		log.Error().Err(err).Msg("inventory request failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func outcomeLabel(err error) string {
	var notFoundErr *domain.ProductNotFoundError
	var insufficientErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &insufficientErr):
		return "insufficient_stock"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
