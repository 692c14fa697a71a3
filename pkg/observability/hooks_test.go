package observability

import (
	"context"
	"testing"
	"time"
)

type countingAPIHooks struct{ n int }

func (h *countingAPIHooks) OnRequest(context.Context, string, string, int, time.Duration) { h.n++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Gesture().(NoopGestureHooks); !ok {
		t.Errorf("Gesture() = %T, want NoopGestureHooks", Gesture())
	}
	if _, ok := Commit().(NoopCommitHooks); !ok {
		t.Errorf("Commit() = %T, want NoopCommitHooks", Commit())
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Errorf("API() = %T, want NoopAPIHooks", API())
	}
}

func TestSetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	h := &countingAPIHooks{}
	SetAPIHooks(h)
	API().OnRequest(context.Background(), "GET", "/healthz", 200, time.Millisecond)
	if h.n != 1 {
		t.Errorf("OnRequest called %d times, want 1", h.n)
	}

	SetAPIHooks(nil)
	if API() != h {
		t.Error("SetAPIHooks(nil) replaced the registered hooks")
	}

	Reset()
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Errorf("after Reset API() = %T", API())
	}
}
