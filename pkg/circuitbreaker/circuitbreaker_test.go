package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBroker = errors.New("broker unavailable")

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		cb.Execute(func() error { return errBroker })
	}
}

func TestClosedState_Success(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("关闭状态下成功调用不应报错: %v", err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("状态应为CLOSED: got %s", cb.State())
	}
	if got := cb.Counts().TotalSuccesses; got != 10 {
		t.Errorf("成功计数错误: got %d", got)
	}
}

func TestTrip_AfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: time.Minute})

	failN(cb, 4)
	if cb.State() != StateClosed {
		t.Fatal("4次连续失败不应触发熔断(默认阈值5)")
	}

	failN(cb, 1)
	if cb.State() != StateOpen {
		t.Fatal("5次连续失败应触发熔断")
	}

	// 打开状态快速失败,fn不应执行
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("打开状态应返回ErrOpenState: got %v", err)
	}
	if called {
		t.Error("打开状态下不应执行调用")
	}
}

func TestSuccessResets_ConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: time.Minute})

	failN(cb, 4)
	cb.Execute(func() error { return nil })
	failN(cb, 4)

	if cb.State() != StateClosed {
		t.Error("穿插成功后连续失败计数应重置,不应熔断")
	}
}

func TestCustomReadyToTrip(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Timeout: time.Minute,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})

	failN(cb, 2)
	if cb.State() != StateOpen {
		t.Error("自定义阈值2次失败应触发熔断")
	}
}

func TestHalfOpen_RecoverAndReopen(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Timeout: 50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	failN(cb, 1)
	if cb.State() != StateOpen {
		t.Fatal("应已熔断")
	}

	time.Sleep(60 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatal("超时后应进入半开状态")
	}

	// 半开试探失败立即重新打开
	cb.Execute(func() error { return errBroker })
	if cb.State() != StateOpen {
		t.Fatal("半开试探失败应重新打开")
	}

	// 再次到期后试探成功则恢复关闭
	time.Sleep(60 * time.Millisecond)
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("半开试探调用不应报错: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("试探成功应恢复关闭: got %s", cb.State())
	}
}

func TestHalfOpen_MaxRequests(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	failN(cb, 1)
	time.Sleep(60 * time.Millisecond)

	done := make(chan struct{})
	blocked := make(chan struct{})
	go cb.Execute(func() error {
		close(blocked)
		<-done
		return nil
	})
	<-blocked

	// 第一个试探未返回时,第二个请求超出半开配额
	err := cb.Execute(func() error { return nil })
	if !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("超出半开配额应返回ErrTooManyRequests: got %v", err)
	}
	close(done)
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateClosed:   "CLOSED",
		StateOpen:     "OPEN",
		StateHalfOpen: "HALF_OPEN",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("状态名错误: got %s want %s", s.String(), want)
		}
	}
}
