// Package node hosts the six Achivio contracts behind a single writer lock,
// preserving the serialized, atomic execution order their state machines
// assume. Every mutating operation is journaled so state can be rebuilt
// from a snapshot plus the operations after it.
package node

import (
	"encoding/json"
	"sync"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/badges"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/achivio/contracts/streaks"
	"github.com/achivio/achivio-core/achivio/contracts/tasks"
	"github.com/achivio/achivio-core/achivio/contracts/token"
)

// OpEntry is one journaled mutating operation.
type OpEntry struct {
	Seq      uint64          `json:"seq"`
	Height   uint64          `json:"height"`
	Contract string          `json:"contract"`
	Op       string          `json:"op"`
	Caller   string          `json:"caller"`
	Args     json.RawMessage `json:"args"`
}

// Recorder receives committed operations with the events they emitted.
// Recording happens inside the node lock, so implementations must be
// queue-and-return fast.
type Recorder interface {
	Record(entry OpEntry, events []chain.Event)
}

type nopRecorder struct{}

func (nopRecorder) Record(OpEntry, []chain.Event) {}

// Node owns the contract set. All access goes through its methods.
type Node struct {
	mu       sync.RWMutex
	clock    chain.Clock
	deployer chain.Principal
	events   *chain.EventBuffer
	recorder Recorder
	seq      uint64

	Token   *token.Contract
	Badges  *badges.Contract
	Tasks   *tasks.Contract
	Streaks *streaks.Contract
	Rooms   *rooms.Contract
	Board   *board.Contract
}

// New deploys the contract set and performs the owner wiring: the tracker
// and streak system become token minters, the streak system becomes the
// badge minter, and the store gets its token and badge references.
func New(deployer chain.Principal, clock chain.Clock) (*Node, error) {
	events := chain.NewEventBuffer()
	rc := newReplayClock(clock)
	n := &Node{
		clock:    rc,
		deployer: deployer,
		events:   events,
		recorder: nopRecorder{},
		Token:    token.New(deployer, rc, events),
		Badges:   badges.New(deployer, rc, events),
		Tasks:    tasks.New(deployer, rc, events),
		Streaks:  streaks.New(deployer, rc, events),
		Rooms:    rooms.New(deployer, rc, events),
		Board:    board.New(deployer, rc, events),
	}
	wiring := []error{
		n.Token.AddAuthorizedMinter(deployer, tasks.Self()),
		n.Token.AddAuthorizedMinter(deployer, streaks.Self()),
		n.Badges.AddAuthorizedMinter(deployer, streaks.Self()),
		n.Tasks.SetTokenContract(deployer, n.Token),
		n.Streaks.SetTokenContract(deployer, n.Token),
		n.Streaks.SetTaskTrackerContract(deployer, tasks.Self()),
		n.Streaks.SetBadgesContract(deployer, n.Badges),
		n.Rooms.SetTokenContract(deployer, n.Token),
		n.Rooms.SetBadgesContract(deployer, n.Badges),
	}
	for _, err := range wiring {
		if err != nil {
			return nil, err
		}
	}
	events.Discard()
	return n, nil
}

// SetRecorder installs the journal sink. Pass nil to disable recording.
func (n *Node) SetRecorder(r Recorder) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if r == nil {
		r = nopRecorder{}
	}
	n.recorder = r
}

// Deployer returns the owning principal the contracts were deployed with.
func (n *Node) Deployer() chain.Principal { return n.deployer }

// Height returns the current chain height.
func (n *Node) Height() uint64 { return n.clock.Height() }

// CurrentDate returns the current day bucket.
func (n *Node) CurrentDate() uint64 { return chain.DayOf(n.clock.Height()) }

// commit journals a successful operation and hands its events to the
// recorder. Called with the write lock held.
func (n *Node) commit(contract, op string, caller chain.Principal, args any) {
	n.seq++
	raw, err := json.Marshal(args)
	if err != nil {
		raw = nil
	}
	entry := OpEntry{
		Seq:      n.seq,
		Height:   n.clock.Height(),
		Contract: contract,
		Op:       op,
		Caller:   caller.String(),
		Args:     raw,
	}
	n.recorder.Record(entry, n.events.Drain())
}

// abort drops events emitted by a failed operation. Contracts emit only
// after their own mutations succeed, but a nested call can emit before the
// outer caller fails.
func (n *Node) abort() {
	n.events.Discard()
}
