package node

import (
	"github.com/achivio/achivio-core/achivio/contracts/badges"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/achivio/contracts/streaks"
	"github.com/achivio/achivio-core/achivio/contracts/tasks"
	"github.com/achivio/achivio-core/achivio/contracts/token"
)

// Snapshot is the full serialized contract set at a sequence point.
// Restore plus replay of every later journal entry rebuilds the node.
type Snapshot struct {
	Seq     uint64        `json:"seq"`
	Height  uint64        `json:"height"`
	Token   token.State   `json:"token"`
	Badges  badges.State  `json:"badges"`
	Tasks   tasks.State   `json:"tasks"`
	Streaks streaks.State `json:"streaks"`
	Rooms   rooms.State   `json:"rooms"`
	Board   board.State   `json:"board"`
}

func (n *Node) Snapshot() Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return Snapshot{
		Seq:     n.seq,
		Height:  n.clock.Height(),
		Token:   n.Token.Snapshot(),
		Badges:  n.Badges.Snapshot(),
		Tasks:   n.Tasks.Snapshot(),
		Streaks: n.Streaks.Snapshot(),
		Rooms:   n.Rooms.Snapshot(),
		Board:   n.Board.Snapshot(),
	}
}

func (n *Node) Restore(s Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq = s.Seq
	n.Token.Restore(s.Token)
	n.Badges.Restore(s.Badges)
	n.Tasks.Restore(s.Tasks)
	n.Streaks.Restore(s.Streaks)
	n.Rooms.Restore(s.Rooms)
	n.Board.Restore(s.Board)
}

// Seq returns the sequence number of the last committed operation.
func (n *Node) Seq() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.seq
}
