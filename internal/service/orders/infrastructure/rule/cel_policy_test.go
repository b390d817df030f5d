// internal/service/orders/infrastructure/rule/cel_policy_test.go
package rule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"medisupply/internal/service/orders/domain"
)

func testOrder(total float64) *domain.Order {
	return domain.NewOrder("client-1", "vendor-1", []domain.OrderItem{
		{ProductID: "p1", Quantity: 1, Price: total},
	})
}

func TestCELPolicyEvaluation(t *testing.T) {
	policy, err := NewCELPolicyAdapter("total <= 1000.0 && item_count <= 10")
	require.NoError(t, err)

	accepted, err := policy.Evaluate(context.Background(), testOrder(500.0))
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = policy.Evaluate(context.Background(), testOrder(5000.0))
	require.NoError(t, err)
	require.False(t, accepted)
}

func TestCELPolicyCanReferenceIdentity(t *testing.T) {
	policy, err := NewCELPolicyAdapter(`client_id != "blocked-client"`)
	require.NoError(t, err)

	accepted, err := policy.Evaluate(context.Background(), testOrder(100.0))
	require.NoError(t, err)
	require.True(t, accepted)
}

func TestCELPolicyRejectsInvalidExpression(t *testing.T) {
	_, err := NewCELPolicyAdapter("total <=")
	require.Error(t, err)

	_, err = NewCELPolicyAdapter("unknown_variable > 1")
	require.Error(t, err)
}

func TestCELPolicyRejectsNonBooleanResult(t *testing.T) {
	policy, err := NewCELPolicyAdapter("total + 1.0")
	require.NoError(t, err)

	_, err = policy.Evaluate(context.Background(), testOrder(100.0))
	require.Error(t, err)
}
