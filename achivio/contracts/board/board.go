// Package board keeps the competitive ranking layer: per-user rolled-up
// stats with a deterministic weighted score, plus public profiles.
package board

import (
	"sort"

	"github.com/achivio/achivio-core/achivio/chain"
)

const ContractName = "leaderboard"

var (
	ErrOwnerOnly      = chain.NewError(ContractName, 600, "owner-only")
	ErrContractPaused = chain.NewError(ContractName, 605, "contract-paused")
	ErrUnauthorized   = chain.NewError(ContractName, 606, "unauthorized")
	ErrEntryNotFound  = chain.NewError(ContractName, 607, "entry-not-found")
)

// Board types select the ordering metric for rank queries.
const (
	BoardOverall uint64 = 1
	BoardTasks   uint64 = 2
	BoardStreak  uint64 = 3
	BoardRewards uint64 = 4
)

// Timeframes are accepted for query shape compatibility. Entries are
// whole-snapshot overwrites, so every timeframe ranks the same data.
const (
	TimeframeDaily   uint64 = 1
	TimeframeWeekly  uint64 = 2
	TimeframeMonthly uint64 = 3
	TimeframeAllTime uint64 = 4
)

// Score weights. Integer division on rewards keeps micro-ACHIV from
// swamping the task and streak terms.
const (
	weightTasks    = 100
	rewardsDivisor = 1000
	weightStreak   = 100
	weightBadges   = 1000
	weightLevel    = 35
)

// Entry is one user's rolled-up stats row.
type Entry struct {
	User           chain.Principal `json:"user"`
	TasksCompleted uint64          `json:"tasks_completed"`
	RewardsEarned  uint64          `json:"rewards_earned"`
	CurrentStreak  uint64          `json:"current_streak"`
	LongestStreak  uint64          `json:"longest_streak"`
	BadgesCount    uint64          `json:"badges_count"`
	Level          uint64          `json:"level"`
	OverallScore   uint64          `json:"overall_score"`
	UpdatedHeight  uint64          `json:"updated_height"`
}

// Profile is a user's self-managed display record.
type Profile struct {
	DisplayName       string `json:"display_name"`
	IsPublic          bool   `json:"is_public"`
	ShowInLeaderboard bool   `json:"show_in_leaderboard"`
	FavoriteCategory  string `json:"favorite_category"`
	Bio               string `json:"bio"`
}

// Comparison is the result of CompareUsers.
type Comparison struct {
	Winner chain.Principal `json:"winner"`
	A      Entry           `json:"a"`
	B      Entry           `json:"b"`
}

// Achievements is the profile-display rollup.
type Achievements struct {
	User           chain.Principal `json:"user"`
	TasksCompleted uint64          `json:"tasks_completed"`
	LongestStreak  uint64          `json:"longest_streak"`
	BadgesCount    uint64          `json:"badges_count"`
	Level          uint64          `json:"level"`
	OverallScore   uint64          `json:"overall_score"`
}

// Contract is the leaderboard state machine; the node serializes access.
type Contract struct {
	owner  chain.Principal
	clock  chain.Clock
	events chain.EventSink

	paused      bool
	aggregators map[chain.Principal]bool
	entries     map[chain.Principal]*Entry
	profiles    map[chain.Principal]*Profile
}

func New(owner chain.Principal, clock chain.Clock, events chain.EventSink) *Contract {
	return &Contract{
		owner:       owner,
		clock:       clock,
		events:      events,
		aggregators: make(map[chain.Principal]bool),
		entries:     make(map[chain.Principal]*Entry),
		profiles:    make(map[chain.Principal]*Profile),
	}
}

func Self() chain.Principal { return chain.ContractPrincipal(ContractName) }

func (c *Contract) IsPaused() bool { return c.paused }

func (c *Contract) Pause(caller chain.Principal) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	c.paused = true
	return nil
}

func (c *Contract) Unpause(caller chain.Principal) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	c.paused = false
	return nil
}

// AddAggregator authorizes a principal to push stats updates. The owner is
// always authorized.
func (c *Contract) AddAggregator(caller, aggregator chain.Principal) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	c.aggregators[aggregator] = true
	return nil
}

func (c *Contract) RemoveAggregator(caller, aggregator chain.Principal) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	delete(c.aggregators, aggregator)
	return nil
}

func (c *Contract) isAggregator(p chain.Principal) bool {
	return p == c.owner || c.aggregators[p]
}

// ComputeScore is the fixed weighted sum over a user's rolled-up numbers.
// It is monotonic in every input.
func ComputeScore(tasks, rewards, currentStreak, badges, level uint64) uint64 {
	return tasks*weightTasks +
		rewards/rewardsDivisor +
		currentStreak*weightStreak +
		badges*weightBadges +
		level*weightLevel
}

// UpdateUserStats overwrites the user's entry with fresh rolled-up numbers
// and returns the recomputed overall score.
func (c *Contract) UpdateUserStats(caller, user chain.Principal, tasksCompleted, rewardsEarned, currentStreak, longestStreak, badgesCount, level uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if !c.isAggregator(caller) {
		return 0, ErrUnauthorized
	}
	score := ComputeScore(tasksCompleted, rewardsEarned, currentStreak, badgesCount, level)
	c.entries[user] = &Entry{
		User:           user,
		TasksCompleted: tasksCompleted,
		RewardsEarned:  rewardsEarned,
		CurrentStreak:  currentStreak,
		LongestStreak:  longestStreak,
		BadgesCount:    badgesCount,
		Level:          level,
		OverallScore:   score,
		UpdatedHeight:  c.clock.Height(),
	}
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "update-user-stats",
		Data: map[string]any{
			"user":  user.String(),
			"score": score,
		},
	})
	return score, nil
}

// SetUserProfile upserts the caller's display record.
func (c *Contract) SetUserProfile(caller chain.Principal, displayName string, isPublic, showInLeaderboard bool, favoriteCategory, bio string) error {
	if c.paused {
		return ErrContractPaused
	}
	c.profiles[caller] = &Profile{
		DisplayName:       displayName,
		IsPublic:          isPublic,
		ShowInLeaderboard: showInLeaderboard,
		FavoriteCategory:  favoriteCategory,
		Bio:               bio,
	}
	return nil
}

// metric returns the ordering value for an entry under a board type.
func metric(e *Entry, boardType uint64) uint64 {
	switch boardType {
	case BoardTasks:
		return e.TasksCompleted
	case BoardStreak:
		return e.CurrentStreak
	case BoardRewards:
		return e.RewardsEarned
	default:
		return e.OverallScore
	}
}

// ranked returns all entries ordered by the board metric descending, ties
// broken by ascending principal string so ranks are reproducible.
func (c *Contract) ranked(boardType uint64) []*Entry {
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		mi, mj := metric(out[i], boardType), metric(out[j], boardType)
		if mi != mj {
			return mi > mj
		}
		return out[i].User < out[j].User
	})
	return out
}

// UserRank returns the user's 1-based rank on a board. The timeframe is
// accepted for interface parity; all entries are current snapshots.
func (c *Contract) UserRank(user chain.Principal, boardType, timeframe uint64) (uint64, error) {
	_ = timeframe
	if _, ok := c.entries[user]; !ok {
		return 0, ErrEntryNotFound
	}
	for i, e := range c.ranked(boardType) {
		if e.User == user {
			return uint64(i + 1), nil
		}
	}
	return 0, ErrEntryNotFound
}

// Top returns up to limit entries for a board in rank order.
func (c *Contract) Top(boardType, timeframe uint64, limit int) []Entry {
	_ = timeframe
	ordered := c.ranked(boardType)
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	out := make([]Entry, len(ordered))
	for i, e := range ordered {
		out[i] = *e
	}
	return out
}

// CompareUsers reports the higher-scored of two users. A tie goes to the
// principal that sorts first.
func (c *Contract) CompareUsers(userA, userB chain.Principal) (Comparison, error) {
	a, ok := c.entries[userA]
	if !ok {
		return Comparison{}, ErrEntryNotFound
	}
	b, ok := c.entries[userB]
	if !ok {
		return Comparison{}, ErrEntryNotFound
	}
	winner := userA
	if b.OverallScore > a.OverallScore || (b.OverallScore == a.OverallScore && userB < userA) {
		winner = userB
	}
	return Comparison{Winner: winner, A: *a, B: *b}, nil
}

// UserEntry returns the stats entry for a user.
func (c *Contract) UserEntry(user chain.Principal) (Entry, bool) {
	e, ok := c.entries[user]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// UserProfile returns the display record for a user.
func (c *Contract) UserProfile(user chain.Principal) (Profile, bool) {
	p, ok := c.profiles[user]
	if !ok {
		return Profile{}, false
	}
	return *p, true
}

// UserAchievements returns the display rollup used by profile pages.
func (c *Contract) UserAchievements(user chain.Principal) (Achievements, error) {
	e, ok := c.entries[user]
	if !ok {
		return Achievements{}, ErrEntryNotFound
	}
	return Achievements{
		User:           user,
		TasksCompleted: e.TasksCompleted,
		LongestStreak:  e.LongestStreak,
		BadgesCount:    e.BadgesCount,
		Level:          e.Level,
		OverallScore:   e.OverallScore,
	}, nil
}
