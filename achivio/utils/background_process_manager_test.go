package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartAndShutdown(t *testing.T) {
	pm := NewProcessManager()
	var stopped atomic.Bool

	pm.Start("worker", func(ctx context.Context) {
		<-ctx.Done()
		stopped.Store(true)
	})

	if err := pm.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !stopped.Load() {
		t.Error("worker did not observe cancellation")
	}
}

func TestStopCancelsSingleProcess(t *testing.T) {
	pm := NewProcessManager()
	done := make(chan struct{})

	pm.Start("worker", func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	})
	pm.Stop("worker")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not cancel the process")
	}
	if err := pm.Shutdown(2 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestStartEvery(t *testing.T) {
	pm := NewProcessManager()
	var ticks atomic.Int32

	pm.StartEvery("ticker", 10*time.Millisecond, func(context.Context) {
		ticks.Add(1)
	})

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := pm.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if ticks.Load() < 2 {
		t.Errorf("ticker ran %d times, want at least 2", ticks.Load())
	}
}

func TestPanicDoesNotKillManager(t *testing.T) {
	pm := NewProcessManager()
	pm.Start("panicky", func(context.Context) {
		panic("boom")
	})
	// Shutdown still completes; the panic was recovered.
	if err := pm.Shutdown(2 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
