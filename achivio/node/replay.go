package node

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/badges"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/achivio/contracts/streaks"
	"github.com/achivio/achivio-core/achivio/contracts/tasks"
	"github.com/achivio/achivio-core/achivio/contracts/token"
)

// replayClock hands contracts the live height normally and a pinned height
// while a journal entry is being re-applied, so day buckets land where they
// originally did.
type replayClock struct {
	inner  chain.Clock
	pinned atomic.Int64
}

func newReplayClock(inner chain.Clock) *replayClock {
	rc := &replayClock{inner: inner}
	rc.pinned.Store(-1)
	return rc
}

func (rc *replayClock) Height() uint64 {
	if p := rc.pinned.Load(); p >= 0 {
		return uint64(p)
	}
	return rc.inner.Height()
}

func (rc *replayClock) pin(h uint64) { rc.pinned.Store(int64(h)) }
func (rc *replayClock) unpin()       { rc.pinned.Store(-1) }

// Apply re-executes one journaled operation at its original height. The
// journal holds only committed operations, so any error here means the
// journal and the snapshot disagree.
func (n *Node) Apply(entry OpEntry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	rc, ok := n.clock.(*replayClock)
	if !ok {
		return fmt.Errorf("node clock does not support replay")
	}
	rc.pin(entry.Height)
	defer rc.unpin()
	defer n.events.Discard()

	caller := chain.Principal(entry.Caller)
	err := n.dispatch(entry, caller)
	if err != nil {
		return fmt.Errorf("replay seq %d %s/%s: %w", entry.Seq, entry.Contract, entry.Op, err)
	}
	n.seq = entry.Seq
	return nil
}

func (n *Node) dispatch(entry OpEntry, caller chain.Principal) error {
	decode := func(v any) error {
		if len(entry.Args) == 0 {
			return nil
		}
		return json.Unmarshal(entry.Args, v)
	}
	if entry.Op == "set-paused" {
		var a pauseArgs
		if err := decode(&a); err != nil {
			return err
		}
		return n.setPaused(caller, entry.Contract, a.Paused)
	}
	switch entry.Contract {
	case token.ContractName:
		switch entry.Op {
		case "transfer":
			var a transferArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Token.Transfer(caller, a.Amount, caller, chain.Principal(a.Recipient), a.Memo)
		case "mint-reward":
			var a mintArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Token.MintReward(caller, a.Amount, chain.Principal(a.Recipient))
			return err
		case "admin-mint":
			var a mintArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Token.AdminMint(caller, a.Amount, chain.Principal(a.Recipient))
			return err
		case "burn":
			var a burnArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Token.Burn(caller, a.Amount, caller)
			return err
		case "add-authorized-minter":
			var a minterArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Token.AddAuthorizedMinter(caller, chain.Principal(a.Minter))
		case "remove-authorized-minter":
			var a minterArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Token.RemoveAuthorizedMinter(caller, chain.Principal(a.Minter))
		}
	case tasks.ContractName:
		switch entry.Op {
		case "create-task":
			var a createTaskArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Tasks.CreateTask(caller, a.Title, a.Description, a.RewardAmount, a.Category, a.Difficulty)
			return err
		case "complete-task":
			var a taskIDArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Tasks.CompleteTask(caller, a.TaskID)
			return err
		case "deactivate-task":
			var a taskIDArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Tasks.DeactivateTask(caller, a.TaskID)
		case "update-user-level":
			var a userArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Tasks.UpdateUserLevel(caller, chain.Principal(a.User))
			return err
		}
	case streaks.ContractName:
		switch entry.Op {
		case "update-user-streak":
			var a updateStreakArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Streaks.UpdateUserStreak(caller, chain.Principal(a.User), a.TasksCompleted)
			return err
		case "claim-streak-bonus":
			var a claimBonusArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Streaks.ClaimStreakBonus(caller, a.Date)
			return err
		case "award-milestone-badge":
			var a milestoneArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Streaks.AwardMilestoneBadge(caller, chain.Principal(a.User), a.Tier)
			return err
		}
	case badges.ContractName:
		switch entry.Op {
		case "mint-streak-badge":
			var a mintBadgeArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Badges.MintStreakBadge(caller, chain.Principal(a.Recipient), a.StreakTier)
			return err
		}
	case rooms.ContractName:
		switch entry.Op {
		case "purchase-item":
			var a purchaseArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Rooms.PurchaseItem(caller, a.TemplateID)
			return err
		case "place-item":
			var a placeArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Rooms.PlaceItemInRoom(caller, a.ItemID, a.Position, a.Rotation, a.Scale)
		case "remove-item":
			var a itemIDArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Rooms.RemoveItemFromRoom(caller, a.ItemID)
		case "change-room-theme":
			var a themeArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Rooms.ChangeRoomTheme(caller, a.Theme, a.BackgroundMusic)
		}
	case board.ContractName:
		switch entry.Op {
		case "update-user-stats":
			var a statsArgs
			if err := decode(&a); err != nil {
				return err
			}
			_, err := n.Board.UpdateUserStats(caller, chain.Principal(a.User), a.TasksCompleted, a.RewardsEarned, a.CurrentStreak, a.LongestStreak, a.BadgesCount, a.Level)
			return err
		case "set-user-profile":
			var a profileArgs
			if err := decode(&a); err != nil {
				return err
			}
			return n.Board.SetUserProfile(caller, a.DisplayName, a.IsPublic, a.ShowInLeaderboard, a.FavoriteCategory, a.Bio)
		}
	}
	return fmt.Errorf("unknown operation %s/%s", entry.Contract, entry.Op)
}
