package node

import (
	"errors"
	"testing"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/contracts/rooms"
	"github.com/achivio/achivio-core/achivio/contracts/streaks"
	"github.com/achivio/achivio-core/achivio/contracts/tasks"
	"github.com/achivio/achivio-core/achivio/contracts/token"
)

const (
	deployer = chain.Principal("deployer")
	alice    = chain.Principal("alice")
	bob      = chain.Principal("bob")
)

func newNode(t *testing.T) (*Node, *chain.SimClock) {
	t.Helper()
	clock := chain.NewSimClock(0)
	n, err := New(deployer, clock)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return n, clock
}

// memRecorder collects journaled operations for replay tests.
type memRecorder struct {
	entries []OpEntry
	events  []chain.Event
}

func (r *memRecorder) Record(entry OpEntry, events []chain.Event) {
	r.entries = append(r.entries, entry)
	r.events = append(r.events, events...)
}

func TestCompleteTaskMintsReward(t *testing.T) {
	n, _ := newNode(t)
	id, err := n.CreateTask(alice, "Morning run", "5k", 1_000_000, "health", 2)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	reward, err := n.CompleteTask(bob, id)
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if reward != 1_000_000 {
		t.Errorf("reward = %d, want 1000000", reward)
	}
	if got := n.Balance(bob); got != 1_000_000 {
		t.Errorf("Balance(bob) = %d, want 1000000", got)
	}
	if got := n.TokenInfo().TotalSupply; got != 1_000_000 {
		t.Errorf("TotalSupply = %d, want 1000000", got)
	}

	if _, err := n.CompleteTask(bob, id); !errors.Is(err, tasks.ErrTaskAlreadyCompleted) {
		t.Errorf("second completion error = %v, want %v", err, tasks.ErrTaskAlreadyCompleted)
	}
	if got := n.Balance(bob); got != 1_000_000 {
		t.Errorf("Balance(bob) after rejected retry = %d", got)
	}
}

func TestSupplyConservation(t *testing.T) {
	n, _ := newNode(t)
	if _, err := n.AdminMint(deployer, 10, alice); err != nil {
		t.Fatalf("AdminMint() error = %v", err)
	}
	if err := n.Transfer(alice, 4, bob, "rent"); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}
	if got := n.TokenInfo().TotalSupply; got != 10 {
		t.Errorf("TotalSupply after transfer = %d, want 10", got)
	}
	if _, err := n.Burn(alice, 5); err != nil {
		t.Fatalf("Burn() error = %v", err)
	}
	if got := n.TokenInfo().TotalSupply; got != 5 {
		t.Errorf("TotalSupply after burn = %d, want 5", got)
	}
	if got := n.Balance(alice) + n.Balance(bob); got != 5 {
		t.Errorf("sum of balances = %d, want 5", got)
	}
}

func TestStreakFlow(t *testing.T) {
	n, clock := newNode(t)
	id, err := n.CreateTask(deployer, "Daily habit", "", 100, "", 1)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	for day := 0; day < 7; day++ {
		if _, err := n.CompleteTask(alice, id); err != nil {
			t.Fatalf("CompleteTask() day %d error = %v", day, err)
		}
		if _, err := n.UpdateUserStreak(alice, alice, 1); err != nil {
			t.Fatalf("UpdateUserStreak() day %d error = %v", day, err)
		}
		if day < 6 {
			clock.AdvanceDays(1)
		}
	}

	st, ok := n.UserStreak(alice)
	if !ok || st.CurrentStreak != 7 {
		t.Fatalf("UserStreak() = (%+v, %v), want 7-day streak", st, ok)
	}

	balBefore := n.Balance(alice)
	bonus, err := n.ClaimStreakBonus(alice, n.CurrentDate())
	if err != nil {
		t.Fatalf("ClaimStreakBonus() error = %v", err)
	}
	if got := n.Balance(alice); got != balBefore+bonus {
		t.Errorf("Balance after bonus = %d, want %d", got, balBefore+bonus)
	}

	badgeID, err := n.AwardMilestoneBadge(alice, alice, 7)
	if err != nil {
		t.Fatalf("AwardMilestoneBadge() error = %v", err)
	}
	b, err := n.Badge(badgeID)
	if err != nil || b.Owner != alice || b.StreakTier != 7 {
		t.Errorf("Badge(%d) = (%+v, %v)", badgeID, b, err)
	}
	if got := n.NextMilestone(alice); got != 14 {
		t.Errorf("NextMilestone() = %d, want 14", got)
	}
}

func TestBadgeGatedPurchase(t *testing.T) {
	n, clock := newNode(t)
	if _, err := n.AdminMint(deployer, 100_000_000, alice); err != nil {
		t.Fatalf("AdminMint() error = %v", err)
	}

	// Trophy Shelf needs a tier-7 badge.
	if _, err := n.PurchaseItem(alice, 3); !errors.Is(err, rooms.ErrBadgeRequirement) {
		t.Fatalf("gated purchase error = %v, want %v", err, rooms.ErrBadgeRequirement)
	}

	for day := 0; day < 7; day++ {
		if _, err := n.UpdateUserStreak(alice, alice, 1); err != nil {
			t.Fatalf("UpdateUserStreak() error = %v", err)
		}
		clock.AdvanceDays(1)
	}
	if _, err := n.AwardMilestoneBadge(alice, alice, 7); err != nil {
		t.Fatalf("AwardMilestoneBadge() error = %v", err)
	}

	supplyBefore := n.TokenInfo().TotalSupply
	itemID, err := n.PurchaseItem(alice, 3)
	if err != nil {
		t.Fatalf("PurchaseItem() with badge error = %v", err)
	}
	if got := n.TokenInfo().TotalSupply; got != supplyBefore-8_000_000 {
		t.Errorf("TotalSupply after purchase = %d, want %d", got, supplyBefore-8_000_000)
	}

	if err := n.PlaceItemInRoom(alice, itemID, rooms.Vec3{X: 1}, rooms.Vec3{}, 100); err != nil {
		t.Fatalf("PlaceItemInRoom() error = %v", err)
	}
	item, ok := n.ItemPlacement(alice, itemID)
	if !ok || !item.IsPlaced {
		t.Errorf("ItemPlacement() = (%+v, %v)", item, ok)
	}
}

func TestSetPaused(t *testing.T) {
	n, _ := newNode(t)
	if _, err := n.AdminMint(deployer, 1000, alice); err != nil {
		t.Fatalf("AdminMint() error = %v", err)
	}

	if err := n.SetPaused(alice, token.ContractName, true); !errors.Is(err, token.ErrOwnerOnly) {
		t.Errorf("SetPaused() by stranger error = %v, want %v", err, token.ErrOwnerOnly)
	}
	if err := n.SetPaused(deployer, "no-such-contract", true); err == nil {
		t.Error("SetPaused() on unknown contract should fail")
	}

	if err := n.SetPaused(deployer, token.ContractName, true); err != nil {
		t.Fatalf("SetPaused() error = %v", err)
	}
	if err := n.Transfer(alice, 100, bob, ""); !errors.Is(err, token.ErrContractPaused) {
		t.Errorf("Transfer() while paused error = %v, want %v", err, token.ErrContractPaused)
	}
	// Reads stay open while paused.
	if got := n.Balance(alice); got != 1000 {
		t.Errorf("Balance() while paused = %d, want 1000", got)
	}

	// The tracker is its own switch; pausing it stops completions even
	// though the token is back up.
	if err := n.SetPaused(deployer, token.ContractName, false); err != nil {
		t.Fatalf("unpause error = %v", err)
	}
	if err := n.SetPaused(deployer, tasks.ContractName, true); err != nil {
		t.Fatalf("SetPaused(tracker) error = %v", err)
	}
	if _, err := n.CreateTask(alice, "Task", "", 100, "", 1); !errors.Is(err, tasks.ErrContractPaused) {
		t.Errorf("CreateTask() while tracker paused error = %v, want %v", err, tasks.ErrContractPaused)
	}
}

func TestRecomputeBoardEntry(t *testing.T) {
	n, clock := newNode(t)
	id, err := n.CreateTask(deployer, "Habit", "", 2_000_000, "", 1)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	for day := 0; day < 3; day++ {
		if _, err := n.CompleteTask(alice, id); err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}
		if _, err := n.UpdateUserStreak(alice, alice, 1); err != nil {
			t.Fatalf("UpdateUserStreak() error = %v", err)
		}
		if day < 2 {
			clock.AdvanceDays(1)
		}
	}

	score, err := n.RecomputeBoardEntry(alice)
	if err != nil {
		t.Fatalf("RecomputeBoardEntry() error = %v", err)
	}
	want := board.ComputeScore(3, 6_000_000, 3, 0, 1)
	if score != want {
		t.Errorf("score = %d, want %d", score, want)
	}
	rank, err := n.UserRank(alice, board.BoardOverall, board.TimeframeAllTime)
	if err != nil || rank != 1 {
		t.Errorf("UserRank() = (%d, %v), want 1", rank, err)
	}
}

func TestJournalReplayRebuildsState(t *testing.T) {
	rec := &memRecorder{}
	n, clock := newNode(t)
	n.SetRecorder(rec)

	id, err := n.CreateTask(deployer, "Habit", "", 500_000, "health", 1)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	for day := 0; day < 3; day++ {
		if _, err := n.CompleteTask(alice, id); err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}
		if _, err := n.UpdateUserStreak(alice, alice, 1); err != nil {
			t.Fatalf("UpdateUserStreak() error = %v", err)
		}
		clock.AdvanceDays(1)
	}
	if err := n.ChangeRoomTheme(alice, "zen", ""); err != nil {
		t.Fatalf("ChangeRoomTheme() error = %v", err)
	}

	// Fresh node at a later height replays every op into identical state.
	// Day-sensitive ops land in their original day buckets because replay
	// pins the clock to each entry's height.
	replayed, err := New(deployer, chain.NewSimClock(clock.Height()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, entry := range rec.entries {
		if err := replayed.Apply(entry); err != nil {
			t.Fatalf("Apply(seq %d %s/%s) error = %v", entry.Seq, entry.Contract, entry.Op, err)
		}
	}

	if got, want := replayed.Balance(alice), n.Balance(alice); got != want {
		t.Errorf("replayed Balance = %d, want %d", got, want)
	}
	st, ok := replayed.UserStreak(alice)
	if !ok || st.CurrentStreak != 3 {
		t.Errorf("replayed streak = (%+v, %v), want 3-day streak", st, ok)
	}
	room, ok := replayed.UserRoom(alice)
	if !ok || room.Theme != "zen" {
		t.Errorf("replayed room = (%+v, %v)", room, ok)
	}
	if got, want := replayed.Seq(), n.Seq(); got != want {
		t.Errorf("replayed Seq = %d, want %d", got, want)
	}
}

func TestFailedOpsAreNotJournaled(t *testing.T) {
	rec := &memRecorder{}
	n, _ := newNode(t)
	n.SetRecorder(rec)

	if err := n.Transfer(alice, 100, bob, ""); !errors.Is(err, token.ErrInsufficientBalance) {
		t.Fatalf("Transfer() error = %v, want %v", err, token.ErrInsufficientBalance)
	}
	if _, err := n.CompleteTask(alice, 99); !errors.Is(err, tasks.ErrTaskNotFound) {
		t.Fatalf("CompleteTask() error = %v, want %v", err, tasks.ErrTaskNotFound)
	}
	if len(rec.entries) != 0 {
		t.Errorf("journal has %d entries after failed ops, want 0", len(rec.entries))
	}
	if len(rec.events) != 0 {
		t.Errorf("journal has %d events after failed ops, want 0", len(rec.events))
	}
}

func TestSnapshotRestoreThenReplay(t *testing.T) {
	rec := &memRecorder{}
	n, clock := newNode(t)
	n.SetRecorder(rec)

	if _, err := n.AdminMint(deployer, 50_000_000, alice); err != nil {
		t.Fatalf("AdminMint() error = %v", err)
	}
	snap := n.Snapshot()
	cut := n.Seq()

	// Ops after the snapshot.
	clock.AdvanceDays(1)
	if _, err := n.PurchaseItem(alice, 1); err != nil {
		t.Fatalf("PurchaseItem() error = %v", err)
	}
	if _, err := n.UpdateUserStreak(alice, alice, 1); err != nil {
		t.Fatalf("UpdateUserStreak() error = %v", err)
	}

	restored, err := New(deployer, chain.NewSimClock(clock.Height()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	restored.Restore(snap)
	if got := restored.Seq(); got != cut {
		t.Fatalf("restored Seq = %d, want %d", got, cut)
	}
	for _, entry := range rec.entries {
		if entry.Seq <= cut {
			continue
		}
		if err := restored.Apply(entry); err != nil {
			t.Fatalf("Apply(seq %d) error = %v", entry.Seq, err)
		}
	}

	if got, want := restored.Balance(alice), n.Balance(alice); got != want {
		t.Errorf("Balance = %d, want %d", got, want)
	}
	items := restored.ItemsOf(alice)
	if len(items) != 1 || items[0].TemplateID != 1 {
		t.Errorf("ItemsOf() = %+v, want one desk", items)
	}
	if _, ok := restored.UserStreak(alice); !ok {
		t.Error("restored node lost the streak record")
	}
}

func TestEventsDrainPerOperation(t *testing.T) {
	rec := &memRecorder{}
	n, _ := newNode(t)
	n.SetRecorder(rec)

	if _, err := n.CreateTask(alice, "Task", "", 100, "", 1); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := n.CompleteTask(bob, 1); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	var kinds []string
	for _, ev := range rec.events {
		kinds = append(kinds, ev.Kind)
	}
	// Completion carries the nested mint event plus its own.
	want := []string{"create-task", "mint-reward", "complete-task"}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestSeedScenario(t *testing.T) {
	n, clock := newNode(t)

	taskID, err := n.CreateTask(deployer, "Daily habit", "", 2_000_000, "health", 2)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if taskID != 1 {
		t.Fatalf("task ID = %d, want 1", taskID)
	}

	if _, err := n.CompleteTask(alice, taskID); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if got := n.Balance(alice); got != 2_000_000 {
		t.Errorf("balance after completion = %d, want 2000000", got)
	}
	task, err := n.Task(taskID)
	if err != nil || task.TotalCompletions != 1 {
		t.Errorf("task = (%+v, %v), want 1 completion", task, err)
	}
	profile, ok := n.UserTaskProfile(alice)
	if !ok || profile.TotalTasksCompleted != 1 {
		t.Errorf("profile = (%+v, %v), want 1 completed", profile, ok)
	}

	if got, err := n.UpdateUserStreak(alice, alice, 1); err != nil || got != 1 {
		t.Fatalf("UpdateUserStreak() = (%d, %v), want 1", got, err)
	}
	if bonus, err := n.ClaimStreakBonus(alice, n.CurrentDate()); err != nil || bonus != 500_000 {
		t.Fatalf("ClaimStreakBonus() = (%d, %v), want 500000", bonus, err)
	}
	if got := n.Balance(alice); got != 2_500_000 {
		t.Errorf("balance after bonus = %d, want 2500000", got)
	}

	for day := 1; day < 7; day++ {
		clock.AdvanceDays(1)
		if _, err := n.CompleteTask(alice, taskID); err != nil {
			t.Fatalf("CompleteTask() day %d error = %v", day, err)
		}
		if _, err := n.UpdateUserStreak(alice, alice, 1); err != nil {
			t.Fatalf("UpdateUserStreak() day %d error = %v", day, err)
		}
	}
	st, _ := n.UserStreak(alice)
	if st.CurrentStreak != 7 {
		t.Fatalf("CurrentStreak = %d, want 7", st.CurrentStreak)
	}

	badgeID, err := n.AwardMilestoneBadge(alice, alice, 7)
	if err != nil || badgeID != 1 {
		t.Fatalf("AwardMilestoneBadge() = (%d, %v), want badge 1", badgeID, err)
	}
	b, err := n.Badge(badgeID)
	if err != nil || b.Owner != alice {
		t.Errorf("Badge(1) = (%+v, %v), want owned by alice", b, err)
	}

	balBefore := n.Balance(alice)
	itemID, err := n.PurchaseItem(alice, 1) // 5 ACHIV
	if err != nil || itemID != 1 {
		t.Fatalf("PurchaseItem() = (%d, %v), want item 1", itemID, err)
	}
	if got := n.Balance(alice); got != balBefore-5_000_000 {
		t.Errorf("balance after purchase = %d, want %d", got, balBefore-5_000_000)
	}
	items := n.ItemsOf(alice)
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("ItemsOf() = %+v, want item 1", items)
	}
}

func TestStreakSystemPausedViaNode(t *testing.T) {
	n, _ := newNode(t)
	if err := n.SetPaused(deployer, streaks.ContractName, true); err != nil {
		t.Fatalf("SetPaused() error = %v", err)
	}
	if _, err := n.UpdateUserStreak(alice, alice, 1); !errors.Is(err, streaks.ErrContractPaused) {
		t.Errorf("UpdateUserStreak() while paused error = %v, want %v", err, streaks.ErrContractPaused)
	}
}
