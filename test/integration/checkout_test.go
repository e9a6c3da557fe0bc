package integration

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckoutFlow 完整结账流程:注册→建书→补货→加购→结账→查单
func TestCheckoutFlow(t *testing.T) {
	RequireServer(t)

	_, token := SetupCustomer(t, "checkout")
	bookID := SetupBookWithStock(t, token, 5900, 10)

	// 加购2本
	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 2,
	}, token)
	var cart CartData
	ParseData(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(11800), cart.TotalAmount)
	assert.Equal(t, "118.00", cart.TotalYuan)

	// 结账
	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "中关村大街1号",
			"city":        "北京",
			"postal_code": "100080",
			"country":     "中国",
		},
	}, token)
	var checkout CheckoutData
	ParseData(t, resp, &checkout)
	assert.Equal(t, "PENDING", checkout.Status)
	assert.Equal(t, int64(11800), checkout.TotalAmount)
	assert.Len(t, checkout.OrderNo, 23)

	// 结账后购物车应为空
	resp = GetJSON(t, BaseURL+"/cart", token)
	ParseData(t, resp, &cart)
	assert.Empty(t, cart.Items, "结账后购物车应清空")

	// 订单详情
	resp = GetJSON(t, fmt.Sprintf("%s/orders/%d", BaseURL, checkout.OrderID), token)
	var detail struct {
		OrderNo string `json:"order_no"`
		Status  string `json:"status"`
		Lines   []struct {
			BookID   uint `json:"book_id"`
			Quantity int  `json:"quantity"`
		} `json:"lines"`
	}
	ParseData(t, resp, &detail)
	assert.Equal(t, checkout.OrderNo, detail.OrderNo)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, 2, detail.Lines[0].Quantity)

	// 订单审计
	resp = GetJSON(t, fmt.Sprintf("%s/orders/%d/audit", BaseURL, checkout.OrderID), token)
	var trail []struct {
		Action string `json:"action"`
	}
	ParseData(t, resp, &trail)
	require.NotEmpty(t, trail, "结账应留下审计记录")
	assert.Equal(t, "checkout", trail[0].Action)
}

// TestCheckout_EmptyCart 空购物车结账应拒绝
func TestCheckout_EmptyCart(t *testing.T) {
	RequireServer(t)

	_, token := SetupCustomer(t, "emptycart")

	resp := PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "中关村大街1号",
			"city":        "北京",
			"postal_code": "100080",
			"country":     "中国",
		},
	}, token)
	assert.Equal(t, 40006, resp.Code, "空购物车应返回40006: %s", resp.Message)
}

// TestCheckout_InsufficientStock 库存不足结账应失败且不产生订单
func TestCheckout_InsufficientStock(t *testing.T) {
	RequireServer(t)

	_, token := SetupCustomer(t, "nostock")
	bookID := SetupBookWithStock(t, token, 5900, 1)

	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 3,
	}, token)
	require.Equal(t, 0, resp.Code)

	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "中关村大街1号",
			"city":        "北京",
			"postal_code": "100080",
			"country":     "中国",
		},
	}, token)
	assert.Equal(t, 40001, resp.Code, "库存不足应返回40001: %s", resp.Message)

	// 购物车应保持原样,可在补货后重试
	var cart CartData
	ParseData(t, GetJSON(t, BaseURL+"/cart", token), &cart)
	assert.Len(t, cart.Items, 1, "结账失败后购物车不应被清空")
}

// TestCheckout_PriceSnapshot 加购后改价,结账仍按快照价
func TestCheckout_PriceSnapshot(t *testing.T) {
	RequireServer(t)

	_, token := SetupCustomer(t, "snapshot")
	bookID := SetupBookWithStock(t, token, 5900, 10)

	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 1,
	}, token)
	require.Equal(t, 0, resp.Code)

	// 管理侧改价
	resp = PutJSON(t, fmt.Sprintf("%s/books/%d/price", BaseURL, bookID), map[string]interface{}{
		"price": 9900,
	}, token)
	require.Equal(t, 0, resp.Code, "改价失败: %s", resp.Message)

	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "中关村大街1号",
			"city":        "北京",
			"postal_code": "100080",
			"country":     "中国",
		},
	}, token)
	var checkout CheckoutData
	ParseData(t, resp, &checkout)
	assert.Equal(t, int64(5900), checkout.TotalAmount, "应按加购时的快照价结算")
}

// TestOrderLifecycle 订单状态推进与非法流转拒绝
func TestOrderLifecycle(t *testing.T) {
	RequireServer(t)

	_, token := SetupCustomer(t, "lifecycle")
	bookID := SetupBookWithStock(t, token, 12800, 5)

	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 1,
	}, token)
	require.Equal(t, 0, resp.Code)

	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "人民路2号",
			"city":        "上海",
			"postal_code": "200000",
			"country":     "中国",
		},
	}, token)
	var checkout CheckoutData
	ParseData(t, resp, &checkout)

	transitionURL := fmt.Sprintf("%s/orders/%d/transition", BaseURL, checkout.OrderID)

	for _, target := range []string{"PAID", "ALLOCATED", "SHIPPED", "DELIVERED"} {
		resp = PostJSON(t, transitionURL, map[string]interface{}{"target": target}, token)
		var tr TransitionData
		ParseData(t, resp, &tr)
		assert.Equal(t, target, tr.ToStatus)
	}

	// 已送达不能再取消
	resp = PostJSON(t, transitionURL, map[string]interface{}{"target": "CANCELLED"}, token)
	assert.Equal(t, 40002, resp.Code, "非法流转应返回40002: %s", resp.Message)

	// 未知状态名
	resp = PostJSON(t, transitionURL, map[string]interface{}{"target": "TELEPORTED"}, token)
	assert.Equal(t, 40900, resp.Code, "未知状态名应返回参数错误: %s", resp.Message)
}

// TestOrderCancel_RestoresStock 已配货取消后库存回补
func TestOrderCancel_RestoresStock(t *testing.T) {
	RequireServer(t)

	_, token := SetupCustomer(t, "cancel")
	bookID := SetupBookWithStock(t, token, 5900, 3)

	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 3,
	}, token)
	require.Equal(t, 0, resp.Code)

	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "解放路3号",
			"city":        "广州",
			"postal_code": "510000",
			"country":     "中国",
		},
	}, token)
	var checkout CheckoutData
	ParseData(t, resp, &checkout)

	transitionURL := fmt.Sprintf("%s/orders/%d/transition", BaseURL, checkout.OrderID)
	for _, target := range []string{"PAID", "ALLOCATED", "CANCELLED"} {
		resp = PostJSON(t, transitionURL, map[string]interface{}{"target": target}, token)
		require.Equal(t, 0, resp.Code, "流转到%s失败: %s", target, resp.Message)
	}

	// 库存已回补,再次购买同样数量应成功
	resp = PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 3,
	}, token)
	require.Equal(t, 0, resp.Code)

	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "解放路3号",
			"city":        "广州",
			"postal_code": "510000",
			"country":     "中国",
		},
	}, token)
	assert.Equal(t, 0, resp.Code, "取消回补后再次结账应成功: %s", resp.Message)
}

// TestOrder_OwnershipIsolation 客户不能访问他人订单
func TestOrder_OwnershipIsolation(t *testing.T) {
	RequireServer(t)

	_, tokenA := SetupCustomer(t, "owner_a")
	bookID := SetupBookWithStock(t, tokenA, 5900, 5)

	resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id":  bookID,
		"quantity": 1,
	}, tokenA)
	require.Equal(t, 0, resp.Code)

	resp = PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "建国路4号",
			"city":        "深圳",
			"postal_code": "518000",
			"country":     "中国",
		},
	}, tokenA)
	var checkout CheckoutData
	ParseData(t, resp, &checkout)

	_, tokenB := SetupCustomer(t, "owner_b")
	resp = GetJSON(t, fmt.Sprintf("%s/orders/%d", BaseURL, checkout.OrderID), tokenB)
	assert.Equal(t, 40104, resp.Code, "访问他人订单应返回40104: %s", resp.Message)
}

// TestAuth_RequiredForCheckout 未登录不能结账
func TestAuth_RequiredForCheckout(t *testing.T) {
	RequireServer(t)

	resp := PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"shipping": map[string]interface{}{
			"line1":       "中关村大街1号",
			"city":        "北京",
			"postal_code": "100080",
			"country":     "中国",
		},
	}, "")
	assert.Equal(t, 40100, resp.Code, "未登录应返回40100: %s", resp.Message)
}
