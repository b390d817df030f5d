// internal/service/orders/infrastructure/rule/cel_policy.go
package rule

import (
	"context"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"medisupply/internal/service/orders/domain"
)

// CELPolicyAdapter 是 port.AcceptancePolicy 的 CEL 实现。
// 运维侧可以用一条表达式追加收紧下单条件，例如
// "total <= 50000.0 && item_count <= 50"。
// 表达式在构造时编译，下单路径上只做求值。
type CELPolicyAdapter struct {
	program cel.Program
}

// NewCELPolicyAdapter 编译表达式并返回策略适配器。
// 表达式可引用的变量: total, item_count, client_id, vendor_id。
func NewCELPolicyAdapter(expression string) (*CELPolicyAdapter, error) {
	env, err := cel.NewEnv(
		cel.Variable("total", cel.DoubleType),
		cel.Variable("item_count", cel.IntType),
		cel.Variable("client_id", cel.StringType),
		cel.Variable("vendor_id", cel.StringType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CEL environment")
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "invalid acceptance policy expression")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build acceptance policy program")
	}
	return &CELPolicyAdapter{program: program}, nil
}

// Evaluate 对订单求值，表达式必须产出布尔结果。
func (a *CELPolicyAdapter) Evaluate(_ context.Context, order *domain.Order) (bool, error) {
	out, _, err := a.program.Eval(map[string]interface{}{
		"total":      order.Total,
		"item_count": len(order.Items),
		"client_id":  order.ClientID,
		"vendor_id":  order.VendorID,
	})
	if err != nil {
		return false, errors.Wrap(err, "acceptance policy evaluation failed")
	}
	accepted, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("acceptance policy returned non-boolean result: %T", out.Value())
	}
	return accepted, nil
}
