// internal/service/orders/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"medisupply/internal/service/orders/application"
	"medisupply/internal/service/orders/domain"
)

// OrderHandler 封装了 orders 服务的 HTTP 处理器。
type OrderHandler struct {
	createOrder *application.CreateOrderUseCase
	getOrder    *application.GetOrderUseCase
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例。
func NewOrderHandler(create *application.CreateOrderUseCase, get *application.GetOrderUseCase) *OrderHandler {
	return &OrderHandler{createOrder: create, getOrder: get}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/orders", h.ordersHandler)
	mux.HandleFunc("/api/v1/orders/", h.orderByIDHandler)
}

func (h *OrderHandler) ordersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	r = r.WithContext(ctx)

	switch r.Method {
	case http.MethodPost:
		h.createOrderHandler(w, r)
	case http.MethodGet:
		h.listOrdersHandler(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *OrderHandler) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	// 结构性校验在入口拦截，业务规则留给领域层
	if strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.VendorID) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "client_id and vendor_id are required")
		return
	}

	order, err := h.createOrder.Execute(r.Context(), req.ToDomain())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, application.FromOrder(order))
}

func (h *OrderHandler) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.getOrder.FindAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := make([]application.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, application.FromOrder(order))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) orderByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	orderID := strings.TrimPrefix(r.URL.Path, "/api/v1/orders/")
	if orderID == "" || strings.Contains(orderID, "/") {
		writeDetail(w, http.StatusNotFound, "order not found")
		return
	}

	order, err := h.getOrder.ByID(ctx, orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, application.FromOrder(order))
}

// writeError 把领域错误映射为 HTTP 状态码。
// 业务拒绝和库存冲突把细节带给调用方；依赖故障返回 503，
// 其余故障只返回笼统信息，细节留在服务端日志里。
func (h *OrderHandler) writeError(w http.ResponseWriter, err error) {
	var ruleErr *domain.BusinessRuleViolationError
	var stockErr *domain.InsufficientStockError
	var reservationErr *domain.StockReservationFailedError
	var externalErr *domain.ExternalServiceError
	var notFoundErr *domain.OrderNotFoundError

	switch {
	case errors.As(err, &ruleErr):
		writeDetail(w, http.StatusBadRequest, ruleErr.Error())
	case errors.As(err, &stockErr):
		writeDetail(w, http.StatusConflict, stockErr.Error())
	case errors.As(err, &reservationErr):
		writeDetail(w, http.StatusConflict, reservationErr.Error())
	case errors.As(err, &externalErr):
		writeDetail(w, http.StatusServiceUnavailable, externalErr.Error())
	case errors.As(err, &notFoundErr):
		writeDetail(w, http.StatusNotFound, notFoundErr.Error())
	default:
		log.Error().Err(err).Msg("order request failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
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
