// Package metrics 提供基于Prometheus的指标收集
//
// 指标设计:
//   - bookshop_checkout_total{result}: 结账结果计数
//     result ∈ success | empty_cart | insufficient_stock | conflict | error
//   - bookshop_checkout_duration_seconds: 结账事务耗时分布
//   - bookshop_order_transition_total{from,to,result}: 订单状态流转计数
//   - bookshop_http_requests_total / bookshop_http_request_duration_seconds
//
// /metrics端点由promhttp暴露,Prometheus周期抓取
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 结账结果标签值
const (
	ResultSuccess           = "success"
	ResultEmptyCart         = "empty_cart"
	ResultInsufficientStock = "insufficient_stock"
	ResultConflict          = "conflict"
	ResultError             = "error"
)

var (
	// CheckoutTotal 结账结果计数
	CheckoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshop",
		Name:      "checkout_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	// CheckoutDuration 结账事务耗时(秒)
	CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bookshop",
		Name:      "checkout_duration_seconds",
		Help:      "Checkout transaction duration in seconds.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	// OrderTransitionTotal 订单状态流转计数
	OrderTransitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshop",
		Name:      "order_transition_total",
		Help:      "Order status transitions by edge and result.",
	}, []string{"from", "to", "result"})

	// HTTPRequestsTotal HTTP请求总数
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshop",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration HTTP请求耗时(秒)
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookshop",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// ObserveCheckout 记录一次结账结果与耗时
func ObserveCheckout(result string, start time.Time) {
	CheckoutTotal.WithLabelValues(result).Inc()
	CheckoutDuration.Observe(time.Since(start).Seconds())
}

// ObserveTransition 记录一次订单状态流转
func ObserveTransition(from, to, result string) {
	OrderTransitionTotal.WithLabelValues(from, to, result).Inc()
}

// GinMiddleware HTTP请求指标中间件
// path使用路由模板(c.FullPath)而非原始URL,避免标签基数爆炸
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// Handler 返回/metrics端点处理器
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
