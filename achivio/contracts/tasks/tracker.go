// Package tasks implements the habit task catalog and the per-user-per-day
// completion ledger. Completing a task mints its ACHIV reward through the
// wired token contract.
package tasks

import (
	"github.com/achivio/achivio-core/achivio/chain"
)

const ContractName = "task-tracker"

const (
	MinDifficulty = 1
	MaxDifficulty = 5

	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxCategoryLen    = 50
)

var (
	ErrTaskNotFound          = chain.NewError(ContractName, 201, "task-not-found")
	ErrTaskAlreadyCompleted  = chain.NewError(ContractName, 202, "task-already-completed")
	ErrInvalidTaskParameters = chain.NewError(ContractName, 203, "invalid-task-parameters")
	ErrUnauthorized          = chain.NewError(ContractName, 204, "unauthorized")
	ErrContractPaused        = chain.NewError(ContractName, 205, "contract-paused")
	ErrTokenNotSet           = chain.NewError(ContractName, 206, "token-contract-not-set")
	ErrInvalidRewardAmount   = chain.NewError(ContractName, 208, "invalid-reward-amount")
)

// RewardMinter is the slice of the token contract the tracker depends on.
type RewardMinter interface {
	MintReward(caller chain.Principal, amount uint64, recipient chain.Principal) (uint64, error)
}

// Task is a habit definition. Tasks are never deleted; deactivation is
// terminal.
type Task struct {
	ID               uint64          `json:"id"`
	Creator          chain.Principal `json:"creator"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	RewardAmount     uint64          `json:"reward_amount"`
	Category         string          `json:"category"`
	Difficulty       uint64          `json:"difficulty"`
	IsActive         bool            `json:"is_active"`
	TotalCompletions uint64          `json:"total_completions"`
	CreatedHeight    uint64          `json:"created_height"`
}

// Profile is the per-user aggregate, created lazily on first completion.
type Profile struct {
	TotalTasksCompleted uint64 `json:"total_tasks_completed"`
	TotalRewardsEarned  uint64 `json:"total_rewards_earned"`
	Level               uint64 `json:"level"`
}

// DailyStats is the per-(user, date) analytics bucket. Idempotency is
// enforced by completion records, not by this bucket.
type DailyStats struct {
	TasksCompleted uint64 `json:"tasks_completed"`
	TotalRewards   uint64 `json:"total_rewards"`
}

// TotalStats is the contract-wide rollup.
type TotalStats struct {
	TotalTasksCompleted uint64 `json:"total_tasks_completed"`
	TotalUsers          uint64 `json:"total_users"`
	ContractPaused      bool   `json:"contract_paused"`
}

type completionKey struct {
	User   chain.Principal
	TaskID uint64
	Date   uint64
}

type dailyKey struct {
	User chain.Principal
	Date uint64
}

// Contract is the tracker state machine; the node serializes all access.
type Contract struct {
	owner  chain.Principal
	clock  chain.Clock
	events chain.EventSink
	token  RewardMinter

	paused      bool
	nextTaskID  uint64
	tasks       map[uint64]*Task
	completions map[completionKey]uint64 // value: completion height
	profiles    map[chain.Principal]*Profile
	daily       map[dailyKey]*DailyStats
	totals      TotalStats
}

func New(owner chain.Principal, clock chain.Clock, events chain.EventSink) *Contract {
	return &Contract{
		owner:       owner,
		clock:       clock,
		events:      events,
		nextTaskID:  1,
		tasks:       make(map[uint64]*Task),
		completions: make(map[completionKey]uint64),
		profiles:    make(map[chain.Principal]*Profile),
		daily:       make(map[dailyKey]*DailyStats),
	}
}

func Self() chain.Principal { return chain.ContractPrincipal(ContractName) }

// SetTokenContract wires the reward minter. Owner only. Re-wiring later is
// allowed and does not revalidate historical completions.
func (c *Contract) SetTokenContract(caller chain.Principal, minter RewardMinter) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.token = minter
	return nil
}

func (c *Contract) IsPaused() bool { return c.paused }

func (c *Contract) Pause(caller chain.Principal) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.paused = true
	return nil
}

func (c *Contract) Unpause(caller chain.Principal) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.paused = false
	return nil
}

// CurrentDate is the day bucket tasks complete against.
func (c *Contract) CurrentDate() uint64 {
	return chain.DayOf(c.clock.Height())
}

// CreateTask registers a new habit and returns its sequential ID. Any
// principal may create tasks.
func (c *Contract) CreateTask(caller chain.Principal, title, description string, rewardAmount uint64, category string, difficulty uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if rewardAmount == 0 {
		return 0, ErrInvalidRewardAmount
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return 0, ErrInvalidTaskParameters
	}
	if title == "" || len(title) > maxTitleLen ||
		len(description) > maxDescriptionLen || len(category) > maxCategoryLen {
		return 0, ErrInvalidTaskParameters
	}
	id := c.nextTaskID
	c.nextTaskID++
	c.tasks[id] = &Task{
		ID:            id,
		Creator:       caller,
		Title:         title,
		Description:   description,
		RewardAmount:  rewardAmount,
		Category:      category,
		Difficulty:    difficulty,
		IsActive:      true,
		CreatedHeight: c.clock.Height(),
	}
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "create-task",
		Data: map[string]any{
			"task_id":  id,
			"creator":  caller.String(),
			"title":    title,
			"category": category,
		},
	})
	return id, nil
}

// CompleteTask records the caller's completion for today and mints the
// task's reward. At most one completion per (caller, task, date); the reward
// mint happens before any tracker mutation so a failing mint aborts the
// whole operation.
func (c *Contract) CompleteTask(caller chain.Principal, taskID uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	task, ok := c.tasks[taskID]
	if !ok || !task.IsActive {
		return 0, ErrTaskNotFound
	}
	date := c.CurrentDate()
	key := completionKey{User: caller, TaskID: taskID, Date: date}
	if _, done := c.completions[key]; done {
		return 0, ErrTaskAlreadyCompleted
	}
	if c.token == nil {
		return 0, ErrTokenNotSet
	}
	if _, err := c.token.MintReward(Self(), task.RewardAmount, caller); err != nil {
		return 0, err
	}

	c.completions[key] = c.clock.Height()
	task.TotalCompletions++
	c.totals.TotalTasksCompleted++

	profile, ok := c.profiles[caller]
	if !ok {
		profile = &Profile{}
		c.profiles[caller] = profile
		c.totals.TotalUsers++
	}
	profile.TotalTasksCompleted++
	profile.TotalRewardsEarned += task.RewardAmount
	profile.Level = CalculateUserLevel(profile.TotalTasksCompleted)

	dk := dailyKey{User: caller, Date: date}
	stats, ok := c.daily[dk]
	if !ok {
		stats = &DailyStats{}
		c.daily[dk] = stats
	}
	stats.TasksCompleted++
	stats.TotalRewards += task.RewardAmount

	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "complete-task",
		Data: map[string]any{
			"task_id": taskID,
			"user":    caller.String(),
			"reward":  task.RewardAmount,
			"date":    date,
		},
	})
	return task.RewardAmount, nil
}

// DeactivateTask retires a task. Only its creator or the contract owner may
// do so, and there is no way back.
func (c *Contract) DeactivateTask(caller chain.Principal, taskID uint64) error {
	if c.paused {
		return ErrContractPaused
	}
	task, ok := c.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	if caller != task.Creator && caller != c.owner {
		return ErrUnauthorized
	}
	task.IsActive = false
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "deactivate-task",
		Data:     map[string]any{"task_id": taskID},
	})
	return nil
}

// UpdateUserLevel recomputes a user's stored level from their completion
// count. The reference keeps this permissive: any caller may refresh any
// profile, the result is deterministic either way.
func (c *Contract) UpdateUserLevel(caller, user chain.Principal) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	profile, ok := c.profiles[user]
	if !ok {
		return 0, ErrTaskNotFound
	}
	profile.Level = CalculateUserLevel(profile.TotalTasksCompleted)
	return profile.Level, nil
}

// Queries.

func (c *Contract) Task(taskID uint64) (Task, error) {
	task, ok := c.tasks[taskID]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *task, nil
}

// Tasks lists the whole catalog in ID order, active and inactive.
func (c *Contract) Tasks() []Task {
	out := make([]Task, 0, len(c.tasks))
	for id := uint64(1); id < c.nextTaskID; id++ {
		if t, ok := c.tasks[id]; ok {
			out = append(out, *t)
		}
	}
	return out
}

// UserProfile returns (profile, true) or (zero, false) for a user that has
// never completed anything.
func (c *Contract) UserProfile(user chain.Principal) (Profile, bool) {
	p, ok := c.profiles[user]
	if !ok {
		return Profile{}, false
	}
	return *p, true
}

func (c *Contract) Stats() TotalStats {
	s := c.totals
	s.ContractPaused = c.paused
	return s
}

// IsTaskCompletedToday reports whether user completed the task in the
// current day bucket.
func (c *Contract) IsTaskCompletedToday(user chain.Principal, taskID uint64) bool {
	_, done := c.completions[completionKey{User: user, TaskID: taskID, Date: c.CurrentDate()}]
	return done
}

// UserDailyStats returns the analytics bucket for (user, date); zero bucket
// if nothing was completed that day.
func (c *Contract) UserDailyStats(user chain.Principal, date uint64) DailyStats {
	if s, ok := c.daily[dailyKey{User: user, Date: date}]; ok {
		return *s
	}
	return DailyStats{}
}
