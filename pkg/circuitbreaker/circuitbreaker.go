// Package circuitbreaker 提供进程内熔断器
//
// 用途:保护对外部依赖(这里是RabbitMQ Broker)的调用,
// 连续失败达到阈值后快速失败,超时后半开试探恢复
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 关闭(正常放行)
	StateOpen                  // 打开(快速失败)
	StateHalfOpen              // 半开(有限试探)
)

// String 实现Stringer接口
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开时的快速失败错误
var ErrOpenState = errors.New("circuit breaker is open")

// ErrTooManyRequests 半开状态下超过试探配额
var ErrTooManyRequests = errors.New("too many requests in half-open state")

// Counts 统计计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的试探请求数
	MaxRequests uint32
	// Interval 关闭状态下计数窗口长度(0表示不滚动)
	Interval time.Duration
	// Timeout 打开状态持续时间,到期进入半开
	Timeout time.Duration
	// ReadyToTrip 每次失败后判断是否触发熔断
	ReadyToTrip func(counts Counts) bool
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name   string
	cfg    Config
	mu     sync.Mutex
	state  State
	counts Counts
	expiry time.Time // 当前状态的到期时刻
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	cb := &CircuitBreaker{name: name, cfg: cfg, state: StateClosed}
	cb.resetWindow(time.Now())
	return cb
}

// Execute 经由熔断器执行fn
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	cb.afterRequest(err == nil)
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refresh(time.Now())
	return cb.state
}

// Counts 当前统计
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.refresh(now)

	switch cb.state {
	case StateOpen:
		return ErrOpenState
	case StateHalfOpen:
		// 请求在放行时计数,在途的试探也占用配额
		if cb.counts.Requests >= cb.cfg.MaxRequests {
			return ErrTooManyRequests
		}
	}
	cb.counts.Requests++
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.refresh(now)

	if success {
		cb.counts.onSuccess()
		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.cfg.MaxRequests {
			cb.toState(StateClosed, now)
		}
		return
	}

	cb.counts.onFailure()
	if cb.state == StateHalfOpen || cb.cfg.ReadyToTrip(cb.counts) {
		cb.toState(StateOpen, now)
	}
}

// refresh 处理状态/窗口到期(调用方必须持锁)
func (cb *CircuitBreaker) refresh(now time.Time) {
	switch cb.state {
	case StateOpen:
		if now.After(cb.expiry) {
			cb.toState(StateHalfOpen, now)
		}
	case StateClosed:
		if cb.cfg.Interval > 0 && now.After(cb.expiry) {
			cb.resetWindow(now)
		}
	}
}

func (cb *CircuitBreaker) toState(s State, now time.Time) {
	cb.state = s
	cb.counts = Counts{}
	switch s {
	case StateOpen:
		cb.expiry = now.Add(cb.cfg.Timeout)
	case StateClosed:
		cb.resetWindow(now)
	default:
		cb.expiry = time.Time{}
	}
}

func (cb *CircuitBreaker) resetWindow(now time.Time) {
	cb.counts = Counts{}
	if cb.cfg.Interval > 0 {
		cb.expiry = now.Add(cb.cfg.Interval)
	}
}
