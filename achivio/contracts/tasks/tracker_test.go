package tasks

import (
	"errors"
	"testing"

	"github.com/achivio/achivio-core/achivio/chain"
)

const (
	owner = chain.Principal("deployer")
	alice = chain.Principal("alice")
	bob   = chain.Principal("bob")
)

// fakeMinter records mints and optionally fails, standing in for the token
// contract.
type fakeMinter struct {
	minted map[chain.Principal]uint64
	fail   error
}

func newFakeMinter() *fakeMinter {
	return &fakeMinter{minted: make(map[chain.Principal]uint64)}
}

func (m *fakeMinter) MintReward(_ chain.Principal, amount uint64, recipient chain.Principal) (uint64, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	m.minted[recipient] += amount
	return amount, nil
}

func newTracker(t *testing.T) (*Contract, *chain.SimClock, *fakeMinter) {
	t.Helper()
	clock := chain.NewSimClock(0)
	c := New(owner, clock, &chain.EventBuffer{})
	minter := newFakeMinter()
	if err := c.SetTokenContract(owner, minter); err != nil {
		t.Fatalf("SetTokenContract() error = %v", err)
	}
	return c, clock, minter
}

func TestCreateTask(t *testing.T) {
	longTitle := make([]byte, maxTitleLen+1)
	for i := range longTitle {
		longTitle[i] = 'x'
	}

	tests := []struct {
		name       string
		title      string
		reward     uint64
		difficulty uint64
		wantErr    error
	}{
		{name: "success", title: "Morning run", reward: 1000, difficulty: 2},
		{name: "zero reward", title: "Morning run", reward: 0, difficulty: 2, wantErr: ErrInvalidRewardAmount},
		{name: "difficulty too low", title: "Morning run", reward: 1000, difficulty: 0, wantErr: ErrInvalidTaskParameters},
		{name: "difficulty too high", title: "Morning run", reward: 1000, difficulty: 6, wantErr: ErrInvalidTaskParameters},
		{name: "empty title", title: "", reward: 1000, difficulty: 2, wantErr: ErrInvalidTaskParameters},
		{name: "title too long", title: string(longTitle), reward: 1000, difficulty: 2, wantErr: ErrInvalidTaskParameters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTracker(t)
			id, err := c.CreateTask(alice, tt.title, "desc", tt.reward, "health", tt.difficulty)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateTask() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && id != 1 {
				t.Errorf("CreateTask() id = %d, want 1", id)
			}
		})
	}
}

func TestTaskIDsAreSequential(t *testing.T) {
	c, _, _ := newTracker(t)
	for want := uint64(1); want <= 3; want++ {
		id, err := c.CreateTask(alice, "Task", "", 100, "", 1)
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if id != want {
			t.Errorf("CreateTask() id = %d, want %d", id, want)
		}
	}
	if got := len(c.Tasks()); got != 3 {
		t.Errorf("Tasks() returned %d tasks, want 3", got)
	}
}

func TestCompleteTask(t *testing.T) {
	c, clock, minter := newTracker(t)
	id, err := c.CreateTask(owner, "Drink water", "", 750, "health", 1)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	reward, err := c.CompleteTask(alice, id)
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if reward != 750 {
		t.Errorf("CompleteTask() reward = %d, want 750", reward)
	}
	if got := minter.minted[alice]; got != 750 {
		t.Errorf("minted to alice = %d, want 750", got)
	}
	if !c.IsTaskCompletedToday(alice, id) {
		t.Error("IsTaskCompletedToday() = false after completion")
	}

	// Same task, same day: rejected without a second mint.
	if _, err := c.CompleteTask(alice, id); !errors.Is(err, ErrTaskAlreadyCompleted) {
		t.Fatalf("second CompleteTask() error = %v, want %v", err, ErrTaskAlreadyCompleted)
	}
	if got := minter.minted[alice]; got != 750 {
		t.Errorf("minted to alice after rejected retry = %d, want 750", got)
	}

	// Next day the task opens up again.
	clock.AdvanceDays(1)
	if c.IsTaskCompletedToday(alice, id) {
		t.Error("IsTaskCompletedToday() = true after day rollover")
	}
	if _, err := c.CompleteTask(alice, id); err != nil {
		t.Fatalf("CompleteTask() next day error = %v", err)
	}

	profile, ok := c.UserProfile(alice)
	if !ok {
		t.Fatal("UserProfile() missing after completions")
	}
	if profile.TotalTasksCompleted != 2 || profile.TotalRewardsEarned != 1500 {
		t.Errorf("profile = %+v, want 2 completions and 1500 earned", profile)
	}
}

func TestCompleteTaskFailedMintLeavesNoRecord(t *testing.T) {
	c, _, minter := newTracker(t)
	id, err := c.CreateTask(owner, "Meditate", "", 500, "", 1)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	minter.fail = errors.New("mint refused")

	if _, err := c.CompleteTask(alice, id); err == nil {
		t.Fatal("CompleteTask() should surface the mint failure")
	}
	if c.IsTaskCompletedToday(alice, id) {
		t.Error("failed completion must not leave a completion record")
	}
	if _, ok := c.UserProfile(alice); ok {
		t.Error("failed completion must not create a profile")
	}
	if got := c.Stats().TotalTasksCompleted; got != 0 {
		t.Errorf("Stats().TotalTasksCompleted = %d, want 0", got)
	}

	// Once the minter recovers the same (user, task, day) succeeds.
	minter.fail = nil
	if _, err := c.CompleteTask(alice, id); err != nil {
		t.Fatalf("CompleteTask() after recovery error = %v", err)
	}
}

func TestDeactivateTask(t *testing.T) {
	tests := []struct {
		name    string
		caller  chain.Principal
		wantErr error
	}{
		{name: "creator", caller: alice},
		{name: "contract owner", caller: owner},
		{name: "stranger", caller: bob, wantErr: ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTracker(t)
			id, err := c.CreateTask(alice, "Stretch", "", 100, "", 1)
			if err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			if err := c.DeactivateTask(tt.caller, id); !errors.Is(err, tt.wantErr) {
				t.Fatalf("DeactivateTask() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if _, err := c.CompleteTask(bob, id); !errors.Is(err, ErrTaskNotFound) {
				t.Errorf("CompleteTask() on deactivated task error = %v, want %v", err, ErrTaskNotFound)
			}
		})
	}
}

func TestCalculateUserLevel(t *testing.T) {
	tests := []struct {
		completed uint64
		want      uint64
	}{
		{completed: 0, want: 1},
		{completed: 1, want: 1},
		{completed: 9, want: 1},
		{completed: 10, want: 2},
		{completed: 15, want: 2},
		{completed: 30, want: 3},
		{completed: 35, want: 3},
		{completed: 75, want: 4},
		{completed: 150, want: 5},
		{completed: 299, want: 5},
		{completed: 300, want: 6},
		{completed: 10000, want: 6},
	}
	for _, tt := range tests {
		if got := CalculateUserLevel(tt.completed); got != tt.want {
			t.Errorf("CalculateUserLevel(%d) = %d, want %d", tt.completed, got, tt.want)
		}
	}
}

func TestDailyStats(t *testing.T) {
	c, clock, _ := newTracker(t)
	a, _ := c.CreateTask(owner, "Task A", "", 100, "", 1)
	b, _ := c.CreateTask(owner, "Task B", "", 250, "", 1)

	if _, err := c.CompleteTask(alice, a); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if _, err := c.CompleteTask(alice, b); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	day := c.CurrentDate()
	stats := c.UserDailyStats(alice, day)
	if stats.TasksCompleted != 2 || stats.TotalRewards != 350 {
		t.Errorf("UserDailyStats() = %+v, want 2 tasks and 350 rewards", stats)
	}

	clock.AdvanceDays(1)
	if got := c.UserDailyStats(alice, c.CurrentDate()); got.TasksCompleted != 0 {
		t.Errorf("next-day UserDailyStats() = %+v, want zero bucket", got)
	}
	if got := c.UserDailyStats(alice, day); got.TasksCompleted != 2 {
		t.Errorf("historical UserDailyStats() = %+v, want preserved bucket", got)
	}
}

func TestTrackerSnapshotRoundTrip(t *testing.T) {
	c, _, _ := newTracker(t)
	id, _ := c.CreateTask(alice, "Journal", "write one page", 200, "mind", 3)
	if _, err := c.CompleteTask(bob, id); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	restored, _, _ := newTracker(t)
	restored.Restore(c.Snapshot())

	task, err := restored.Task(id)
	if err != nil {
		t.Fatalf("restored Task() error = %v", err)
	}
	if task.Title != "Journal" || task.TotalCompletions != 1 {
		t.Errorf("restored task = %+v", task)
	}
	if !restored.IsTaskCompletedToday(bob, id) {
		t.Error("restored tracker lost the completion record")
	}
	profile, ok := restored.UserProfile(bob)
	if !ok || profile.TotalRewardsEarned != 200 {
		t.Errorf("restored profile = %+v, ok = %v", profile, ok)
	}
	// New tasks continue after the highest restored ID.
	next, err := restored.CreateTask(alice, "Next", "", 100, "", 1)
	if err != nil {
		t.Fatalf("CreateTask() after restore error = %v", err)
	}
	if next != id+1 {
		t.Errorf("CreateTask() after restore id = %d, want %d", next, id+1)
	}
}
