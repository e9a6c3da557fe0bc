package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试通用辅助函数
// 这些测试需要一个已启动的API服务(依赖MySQL与Redis),
// 服务不可达时跳过而不是失败,便于在纯单元测试环境下运行go test ./...

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// PingURL 健康检查URL
	PingURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// RequireServer 检查API服务是否可达,不可达则跳过当前测试
func RequireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(PingURL)
	if err != nil {
		t.Skipf("API服务不可达,跳过集成测试: %v", err)
	}
	resp.Body.Close()
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// LoginData 登录响应数据
type LoginData struct {
	CustomerID   uint   `json:"customer_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
}

// CartData 购物车响应数据
type CartData struct {
	CartID      uint `json:"cart_id"`
	Items       []struct {
		BookID    uint  `json:"book_id"`
		Quantity  int   `json:"quantity"`
		UnitPrice int64 `json:"unit_price"`
		Subtotal  int64 `json:"subtotal"`
	} `json:"items"`
	TotalAmount int64  `json:"total_amount"`
	TotalYuan   string `json:"total_yuan"`
}

// CheckoutData 结账响应数据
type CheckoutData struct {
	OrderID     uint   `json:"order_id"`
	OrderNo     string `json:"order_no"`
	TotalAmount int64  `json:"total_amount"`
	TotalYuan   string `json:"total_yuan"`
	Status      string `json:"status"`
}

// TransitionData 状态流转响应数据
type TransitionData struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// RestockData 补货响应数据
type RestockData struct {
	WarehouseID uint `json:"warehouse_id"`
	BookID      uint `json:"book_id"`
	Quantity    int  `json:"quantity"`
}

// doJSON 发送请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "POST", url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "GET", url, nil, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "PUT", url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "DELETE", url, nil, token)
}

// ParseData 将Data字段解析到目标结构
func ParseData(t *testing.T, resp *Response, target interface{}) {
	t.Helper()
	require.Equal(t, 0, resp.Code, "响应码应为0: %s", resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, target), "解析Data失败")
}

// UniqueEmail 生成唯一邮箱,避免重复注册冲突
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueISBN 生成唯一ISBN
func UniqueISBN() string {
	return fmt.Sprintf("979%010d", time.Now().UnixNano()%1e10)
}

// SetupCustomer 注册并登录一个新客户,返回访问令牌
func SetupCustomer(t *testing.T, prefix string) (uint, string) {
	t.Helper()
	email := UniqueEmail(prefix)

	resp := PostJSON(t, BaseURL+"/customers/register", map[string]interface{}{
		"email":    email,
		"password": "passw0rd123",
		"name":     "集成测试用户",
	}, "")
	var reg RegisterData
	ParseData(t, resp, &reg)

	resp = PostJSON(t, BaseURL+"/customers/login", map[string]interface{}{
		"email":    email,
		"password": "passw0rd123",
	}, "")
	var login LoginData
	ParseData(t, resp, &login)
	require.NotEmpty(t, login.AccessToken, "登录应返回访问令牌")

	return reg.CustomerID, login.AccessToken
}

// SetupBookWithStock 创建图书并在主仓库补货,返回图书ID
func SetupBookWithStock(t *testing.T, token string, price int64, stock int) uint {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"isbn":   UniqueISBN(),
		"title":  "集成测试图书",
		"author": "测试作者",
		"price":  price,
	}, token)
	var book BookData
	ParseData(t, resp, &book)

	resp = PostJSON(t, BaseURL+"/inventory/restock", map[string]interface{}{
		"warehouse_code": "WH-MAIN",
		"book_id":        book.ID,
		"quantity":       stock,
	}, token)
	var restock RestockData
	ParseData(t, resp, &restock)
	require.GreaterOrEqual(t, restock.Quantity, stock, "补货后数量应不小于补货量")

	return book.ID
}
