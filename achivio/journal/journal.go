// Package journal persists the node's operation log and snapshots through
// a write-behind queue, keeping contract execution free of I/O.
package journal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"log/slog"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/database/models"
	"github.com/achivio/achivio-core/achivio/database/repositories"
	"github.com/achivio/achivio-core/achivio/node"
)

// Queue buffers committed operations in memory. Record runs inside the node
// lock, so it only appends; the flusher moves batches to Postgres.
type Queue struct {
	mu     sync.Mutex
	ops    []*models.Operation
	events []*models.ChainEvent
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Record(entry node.OpEntry, events []chain.Event) {
	op := &models.Operation{
		Seq:      entry.Seq,
		Height:   entry.Height,
		Contract: entry.Contract,
		Op:       entry.Op,
		Caller:   entry.Caller,
		Args:     entry.Args,
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops = append(q.ops, op)
	for _, ev := range events {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			data = nil
		}
		q.events = append(q.events, &models.ChainEvent{
			OpSeq:    entry.Seq,
			Height:   ev.Height,
			Contract: ev.Contract,
			Kind:     ev.Kind,
			Data:     data,
		})
	}
}

func (q *Queue) drain() ([]*models.Operation, []*models.ChainEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	ops, events := q.ops, q.events
	q.ops, q.events = nil, nil
	return ops, events
}

// requeue puts a failed batch back at the front so ordering survives a
// flush error.
func (q *Queue) requeue(ops []*models.Operation, events []*models.ChainEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops = append(ops, q.ops...)
	q.events = append(events, q.events...)
}

// Pending returns the number of unflushed operations.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Flusher drains the queue into the journal repository on an interval and
// once more on shutdown.
type Flusher struct {
	queue    *Queue
	repo     repositories.JournalRepository
	interval time.Duration
}

func NewFlusher(queue *Queue, repo repositories.JournalRepository, interval time.Duration) *Flusher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Flusher{queue: queue, repo: repo, interval: interval}
}

func (f *Flusher) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final flush with a fresh context; the parent is already done.
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := f.Flush(flushCtx)
			cancel()
			if err != nil {
				slog.Error("Final journal flush failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
			return ctx.Err()
		case <-ticker.C:
			if err := f.Flush(ctx); err != nil {
				slog.Error("Journal flush failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
		}
	}
}

func (f *Flusher) Flush(ctx context.Context) error {
	ops, events := f.queue.drain()
	if len(ops) == 0 && len(events) == 0 {
		return nil
	}
	if err := f.repo.InsertBatch(ctx, ops, events); err != nil {
		f.queue.requeue(ops, events)
		return err
	}
	slog.Debug("Journal batch flushed",
		slog.String("type", "db"),
		slog.Int("operations", len(ops)),
		slog.Int("events", len(events)))
	return nil
}

// Restore rebuilds a freshly constructed node from the newest snapshot plus
// every operation journaled after it.
func Restore(ctx context.Context, n *node.Node, snaps repositories.SnapshotRepository, ops repositories.JournalRepository) error {
	snap, err := snaps.Latest(ctx)
	if err != nil {
		return err
	}
	var afterSeq uint64
	if snap != nil {
		var state node.Snapshot
		if err := json.Unmarshal(snap.State, &state); err != nil {
			return err
		}
		n.Restore(state)
		afterSeq = state.Seq
	}
	entries, err := ops.OperationsAfter(ctx, afterSeq)
	if err != nil {
		return err
	}
	for _, op := range entries {
		entry := node.OpEntry{
			Seq:      op.Seq,
			Height:   op.Height,
			Contract: op.Contract,
			Op:       op.Op,
			Caller:   op.Caller,
			Args:     op.Args,
		}
		if err := n.Apply(entry); err != nil {
			return err
		}
	}
	slog.Info("Node state restored",
		slog.String("type", "sys"),
		slog.Uint64("snapshot_seq", afterSeq),
		slog.Int("replayed", len(entries)))
	return nil
}

// Checkpoint flushes pending operations, stores a fresh snapshot and prunes
// old ones.
func Checkpoint(ctx context.Context, n *node.Node, f *Flusher, snaps repositories.SnapshotRepository, keep int) error {
	if err := f.Flush(ctx); err != nil {
		return err
	}
	state := n.Snapshot()
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := snaps.Save(ctx, &models.Snapshot{
		Seq:    state.Seq,
		Height: state.Height,
		State:  raw,
	}); err != nil {
		return err
	}
	return snaps.Prune(ctx, keep)
}
