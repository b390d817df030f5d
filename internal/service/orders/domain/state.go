// internal/service/orders/domain/state.go
package domain

// Status 定义了订单的生命周期状态。
type Status string

const (
	StatusPending   Status = "PENDING"   // 已持久化，尚未通过库存校验
	StatusValidated Status = "VALIDATED" // 库存校验通过，等待预占结果
	StatusCreated   Status = "CREATED"   // 预占成功，终态
	StatusRejected  Status = "REJECTED"  // 任一非终态都可进入的吸收终态
)
