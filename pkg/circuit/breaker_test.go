package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(config Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("redis", config, zap.NewNop())
	b.now = clock.now
	return b, clock
}

func TestNewBreaker(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State().String())
	}
	if breaker.IsOpen() {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_TransitionToOpen(t *testing.T) {
	config := Config{Threshold: 3, Timeout: time.Second, SuccessThreshold: 2, MaxHalfOpen: 2}
	breaker, _ := newTestBreaker(config)

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("dial tcp: connection refused"))
	}

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after %d failures, got %s", config.Threshold, breaker.State().String())
	}
	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Second})

	breaker.Record(errors.New("timeout"))
	breaker.Record(nil)
	breaker.Record(errors.New("timeout"))

	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED when failures are not consecutive, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenAndBack(t *testing.T) {
	config := Config{Threshold: 2, Timeout: 100 * time.Millisecond, SuccessThreshold: 2, MaxHalfOpen: 2}
	breaker, clock := newTestBreaker(config)

	breaker.Record(errors.New("error 1"))
	breaker.Record(errors.New("error 2"))
	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN, got %s", breaker.State().String())
	}

	clock.advance(150 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected Allow() to succeed after timeout, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Errorf("Expected state HALF_OPEN, got %s", breaker.State().String())
	}
	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected second probe to pass, got %v", err)
	}
	if err := breaker.Allow(); err != ErrTooManyRequests {
		t.Errorf("Expected ErrTooManyRequests for third probe, got %v", err)
	}

	breaker.Record(nil)
	breaker.Record(nil)
	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after successes, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	breaker.Record(errors.New("down"))
	clock.advance(2 * time.Second)
	_ = breaker.Allow()
	breaker.Record(errors.New("still down"))

	if breaker.State() != StateOpen {
		t.Errorf("Expected OPEN after failed probe, got %s", breaker.State().String())
	}
}

func TestBreaker_Execute(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)
	ctx := context.Background()

	if err := breaker.Execute(ctx, func(context.Context) error { return nil }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	testErr := errors.New("test failure")
	if err := breaker.Execute(ctx, func(context.Context) error { return testErr }); err != testErr {
		t.Errorf("Expected test error, got %v", err)
	}
	if breaker.Stats().Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", breaker.Stats().Failures)
	}
}

func TestBreaker_ExecuteIgnoresCallerCancellation(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 1, Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := breaker.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if breaker.State() != StateClosed {
		t.Errorf("Expected caller cancellation not to open the circuit, got %s", breaker.State().String())
	}
}

func TestBreaker_OnStateChange(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	var transitions []string
	breaker.OnStateChange(func(name string, from, to State) {
		transitions = append(transitions, from.String()+">"+to.String())
	})

	breaker.Record(errors.New("down"))
	clock.advance(time.Second)
	_ = breaker.Allow()
	breaker.Record(nil)

	want := []string{"CLOSED>OPEN", "OPEN>HALF_OPEN", "HALF_OPEN>CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("Expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("Expected transition %d to be %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestBreaker_Reset(t *testing.T) {
	breaker := NewBreaker("test", Config{Threshold: 1, Timeout: time.Hour}, nil)

	breaker.Record(errors.New("error"))
	if breaker.State() != StateOpen {
		t.Fatal("Expected state OPEN")
	}

	breaker.Reset()
	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after reset, got %s", breaker.State().String())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF_OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.expected)
		}
	}
}
