package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/database/models"
	"github.com/achivio/achivio-core/achivio/node"
)

// fakeRepo is an in-memory JournalRepository that can fail on demand.
type fakeRepo struct {
	ops    []*models.Operation
	events []*models.ChainEvent
	fail   error
}

func (r *fakeRepo) InsertBatch(_ context.Context, ops []*models.Operation, events []*models.ChainEvent) error {
	if r.fail != nil {
		return r.fail
	}
	r.ops = append(r.ops, ops...)
	r.events = append(r.events, events...)
	return nil
}

func (r *fakeRepo) OperationsAfter(_ context.Context, seq uint64) ([]*models.Operation, error) {
	var out []*models.Operation
	for _, op := range r.ops {
		if op.Seq > seq {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *fakeRepo) LatestSeq(context.Context) (uint64, error) {
	if len(r.ops) == 0 {
		return 0, nil
	}
	return r.ops[len(r.ops)-1].Seq, nil
}

func (r *fakeRepo) EventsByContract(_ context.Context, contract string, limit int) ([]*models.ChainEvent, error) {
	var out []*models.ChainEvent
	for _, ev := range r.events {
		if ev.Contract == contract {
			out = append(out, ev)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func entry(seq uint64, op string) node.OpEntry {
	return node.OpEntry{Seq: seq, Height: seq, Contract: "achiv-token", Op: op, Caller: "alice"}
}

func TestQueueRecordAndFlush(t *testing.T) {
	q := NewQueue()
	q.Record(entry(1, "transfer"), []chain.Event{
		{Height: 1, Contract: "achiv-token", Kind: "transfer", Data: map[string]any{"amount": 5}},
	})
	q.Record(entry(2, "burn"), nil)
	if got := q.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}

	repo := &fakeRepo{}
	f := NewFlusher(q, repo, 0)
	if err := f.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := q.Pending(); got != 0 {
		t.Errorf("Pending() after flush = %d, want 0", got)
	}
	if len(repo.ops) != 2 || len(repo.events) != 1 {
		t.Errorf("repo holds %d ops and %d events, want 2 and 1", len(repo.ops), len(repo.events))
	}
	if repo.ops[0].Seq != 1 || repo.ops[1].Seq != 2 {
		t.Errorf("op order = %d,%d", repo.ops[0].Seq, repo.ops[1].Seq)
	}
	if repo.events[0].OpSeq != 1 || repo.events[0].Kind != "transfer" {
		t.Errorf("event = %+v", repo.events[0])
	}
}

func TestFlushEmptyQueueIsNoop(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("should not be called")}
	f := NewFlusher(NewQueue(), repo, 0)
	if err := f.Flush(context.Background()); err != nil {
		t.Errorf("Flush() of empty queue error = %v", err)
	}
}

func TestFailedFlushRequeuesInOrder(t *testing.T) {
	q := NewQueue()
	q.Record(entry(1, "transfer"), nil)

	repo := &fakeRepo{fail: errors.New("db down")}
	f := NewFlusher(q, repo, 0)
	if err := f.Flush(context.Background()); err == nil {
		t.Fatal("Flush() should fail while the repo is down")
	}
	if got := q.Pending(); got != 1 {
		t.Fatalf("Pending() after failed flush = %d, want 1", got)
	}

	// New records land behind the requeued batch.
	q.Record(entry(2, "burn"), nil)
	repo.fail = nil
	if err := f.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() after recovery error = %v", err)
	}
	if len(repo.ops) != 2 || repo.ops[0].Seq != 1 || repo.ops[1].Seq != 2 {
		t.Errorf("flushed order = %+v, want seq 1 then 2", repo.ops)
	}
}

func TestRestoreReplaysJournaledOps(t *testing.T) {
	ctx := context.Background()
	deployer := chain.Principal("deployer")
	alice := chain.Principal("alice")

	clock := chain.NewSimClock(0)
	live, err := node.New(deployer, clock)
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}
	q := NewQueue()
	live.SetRecorder(q)

	if _, err := live.AdminMint(deployer, 1000, alice); err != nil {
		t.Fatalf("AdminMint() error = %v", err)
	}
	if _, err := live.CreateTask(alice, "Habit", "", 100, "", 1); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := live.CompleteTask(alice, 1); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	repo := &fakeRepo{}
	f := NewFlusher(q, repo, 0)
	if err := f.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	snaps := &fakeSnapshotRepo{}
	if err := Checkpoint(ctx, live, f, snaps, 3); err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}

	// More ops after the checkpoint.
	if _, err := live.CompleteTask(deployer, 1); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if err := f.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	rebuilt, err := node.New(deployer, chain.NewSimClock(clock.Height()))
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}
	if err := Restore(ctx, rebuilt, snaps, repo); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if got, want := rebuilt.Balance(alice), live.Balance(alice); got != want {
		t.Errorf("rebuilt Balance(alice) = %d, want %d", got, want)
	}
	if got, want := rebuilt.Balance(deployer), live.Balance(deployer); got != want {
		t.Errorf("rebuilt Balance(deployer) = %d, want %d", got, want)
	}
	if got, want := rebuilt.Seq(), live.Seq(); got != want {
		t.Errorf("rebuilt Seq = %d, want %d", got, want)
	}
	if got, want := rebuilt.TrackerStats(), live.TrackerStats(); got != want {
		t.Errorf("rebuilt TrackerStats = %+v, want %+v", got, want)
	}
}

type fakeSnapshotRepo struct {
	snaps []*models.Snapshot
}

func (r *fakeSnapshotRepo) Save(_ context.Context, s *models.Snapshot) error {
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *fakeSnapshotRepo) Latest(context.Context) (*models.Snapshot, error) {
	if len(r.snaps) == 0 {
		return nil, nil
	}
	return r.snaps[len(r.snaps)-1], nil
}

func (r *fakeSnapshotRepo) Prune(_ context.Context, keep int) error {
	if keep > 0 && len(r.snaps) > keep {
		r.snaps = r.snaps[len(r.snaps)-keep:]
	}
	return nil
}

func TestCheckpointPrunes(t *testing.T) {
	ctx := context.Background()
	n, err := node.New("deployer", chain.NewSimClock(0))
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}
	q := NewQueue()
	n.SetRecorder(q)
	f := NewFlusher(q, &fakeRepo{}, 0)
	snaps := &fakeSnapshotRepo{}

	for i := 0; i < 4; i++ {
		if _, err := n.AdminMint("deployer", 1, "alice"); err != nil {
			t.Fatalf("AdminMint() error = %v", err)
		}
		if err := Checkpoint(ctx, n, f, snaps, 2); err != nil {
			t.Fatalf("Checkpoint() error = %v", err)
		}
	}
	if got := len(snaps.snaps); got != 2 {
		t.Errorf("kept %d snapshots, want 2", got)
	}
	latest, _ := snaps.Latest(ctx)
	if latest.Seq != n.Seq() {
		t.Errorf("latest snapshot seq = %d, want %d", latest.Seq, n.Seq())
	}
}
