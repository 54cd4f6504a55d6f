package utils

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ProcessManager owns the daemon's background goroutines: journal flushing,
// periodic checkpoints and leaderboard aggregation.
type ProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	processes map[string]context.CancelFunc
	mu        sync.RWMutex
}

func NewProcessManager() *ProcessManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]context.CancelFunc),
	}
}

// Start registers and runs a background process under the manager's
// lifecycle. Starting a name twice stops the previous instance first.
func (pm *ProcessManager) Start(name string, fn func(ctx context.Context)) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if cancel, exists := pm.processes[name]; exists {
		slog.Warn("Process already running, replacing",
			slog.String("type", "sys"),
			slog.String("process", name))
		cancel()
	}

	processCtx, processCancel := context.WithCancel(pm.ctx)
	pm.processes[name] = processCancel

	pm.wg.Add(1)
	go func() {
		defer pm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("type", "error"),
					slog.String("process", name),
					slog.Any("panic", r))
			}
		}()

		slog.Info("Starting background process",
			slog.String("type", "sys"),
			slog.String("process", name))

		fn(processCtx)

		slog.Info("Background process ended",
			slog.String("type", "sys"),
			slog.String("process", name))
	}()
}

// StartEvery runs fn on a fixed interval until shutdown.
func (pm *ProcessManager) StartEvery(name string, interval time.Duration, fn func(ctx context.Context)) {
	pm.Start(name, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	})
}

// Stop cancels one background process.
func (pm *ProcessManager) Stop(name string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if cancel, exists := pm.processes[name]; exists {
		cancel()
		delete(pm.processes, name)
	}
}

// Shutdown cancels everything and waits up to timeout.
func (pm *ProcessManager) Shutdown(timeout time.Duration) error {
	pm.mu.RLock()
	count := len(pm.processes)
	pm.mu.RUnlock()
	slog.Info("Shutting down background processes",
		slog.String("type", "sys"),
		slog.Int("process_count", count))

	pm.cancel()

	done := make(chan struct{})
	go func() {
		pm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes to stop",
			slog.String("type", "sys"),
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

// Context returns the manager's root context.
func (pm *ProcessManager) Context() context.Context {
	return pm.ctx
}
