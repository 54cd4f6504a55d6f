// Package streaks tracks per-user daily continuity, pays streak bonuses and
// awards milestone badges through the wired badge registry.
package streaks

import (
	"github.com/achivio/achivio-core/achivio/chain"
)

const ContractName = "streak-system"

// BaseBonus is the fixed ACHIV amount paid per claimed streak day.
const BaseBonus = 500000

// Milestones are the streak lengths that earn a badge tier.
var Milestones = [...]uint64{7, 14, 30, 100, 365}

var (
	ErrStreakNotFound      = chain.NewError(ContractName, 301, "streak-not-found")
	ErrUnauthorized        = chain.NewError(ContractName, 304, "unauthorized")
	ErrContractPaused      = chain.NewError(ContractName, 305, "contract-paused")
	ErrBonusAlreadyClaimed = chain.NewError(ContractName, 306, "bonus-already-claimed")
	ErrStreakNotCurrent    = chain.NewError(ContractName, 307, "streak-not-current")
	ErrInvalidTaskCount    = chain.NewError(ContractName, 308, "invalid-task-count")
	ErrInvalidMilestone    = chain.NewError(ContractName, 309, "invalid-milestone")
	ErrMilestoneAwarded    = chain.NewError(ContractName, 310, "milestone-already-awarded")
	ErrTokenNotSet         = chain.NewError(ContractName, 311, "token-contract-not-set")
	ErrBadgesNotSet        = chain.NewError(ContractName, 312, "badges-contract-not-set")
)

// RewardMinter is the token dependency used for bonus payouts.
type RewardMinter interface {
	MintReward(caller chain.Principal, amount uint64, recipient chain.Principal) (uint64, error)
}

// BadgeMinter is the badge registry dependency used for milestone awards.
type BadgeMinter interface {
	MintStreakBadge(caller, recipient chain.Principal, streakTier uint64) (uint64, error)
}

// Streak is the per-user continuity record.
type Streak struct {
	CurrentStreak  uint64 `json:"current_streak"`
	LongestStreak  uint64 `json:"longest_streak"`
	LastUpdateDate uint64 `json:"last_update_date"`
}

type claimKey struct {
	User chain.Principal
	Date uint64
}

type milestoneKey struct {
	User chain.Principal
	Tier uint64
}

// Contract is the streak state machine; the node serializes all access.
type Contract struct {
	owner   chain.Principal
	clock   chain.Clock
	events  chain.EventSink
	token   RewardMinter
	badges  BadgeMinter
	tracker chain.Principal // wiring reference only, kept for introspection

	paused     bool
	streaks    map[chain.Principal]*Streak
	claims     map[claimKey]bool
	milestones map[milestoneKey]uint64 // value: badge token ID
}

func New(owner chain.Principal, clock chain.Clock, events chain.EventSink) *Contract {
	return &Contract{
		owner:      owner,
		clock:      clock,
		events:     events,
		streaks:    make(map[chain.Principal]*Streak),
		claims:     make(map[claimKey]bool),
		milestones: make(map[milestoneKey]uint64),
	}
}

func Self() chain.Principal { return chain.ContractPrincipal(ContractName) }

func (c *Contract) SetTokenContract(caller chain.Principal, minter RewardMinter) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.token = minter
	return nil
}

func (c *Contract) SetTaskTrackerContract(caller, tracker chain.Principal) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.tracker = tracker
	return nil
}

func (c *Contract) SetBadgesContract(caller chain.Principal, minter BadgeMinter) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	c.badges = minter
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

func (c *Contract) CurrentDate() uint64 {
	return chain.DayOf(c.clock.Height())
}

// UpdateUserStreak advances the user's streak for the current day:
// consecutive day increments, a gap resets to 1, and a repeat call on the
// same day is a no-op. Returns the resulting current streak.
func (c *Contract) UpdateUserStreak(caller, user chain.Principal, tasksCompletedToday uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if tasksCompletedToday == 0 {
		return 0, ErrInvalidTaskCount
	}
	date := c.CurrentDate()
	st, ok := c.streaks[user]
	if !ok {
		st = &Streak{}
		c.streaks[user] = st
	}
	switch {
	case st.CurrentStreak == 0:
		st.CurrentStreak = 1
	case st.LastUpdateDate == date:
		// Idempotent re-entry; nothing moves.
		return st.CurrentStreak, nil
	case date == st.LastUpdateDate+1:
		st.CurrentStreak++
	default:
		st.CurrentStreak = 1
	}
	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}
	st.LastUpdateDate = date
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "update-streak",
		Data: map[string]any{
			"user":           user.String(),
			"current_streak": st.CurrentStreak,
			"date":           date,
			"tasks_today":    tasksCompletedToday,
		},
	})
	return st.CurrentStreak, nil
}

// ClaimStreakBonus pays the base bonus for a date the caller's streak is
// current on. One claim per (caller, date).
func (c *Contract) ClaimStreakBonus(caller chain.Principal, date uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	key := claimKey{User: caller, Date: date}
	if c.claims[key] {
		return 0, ErrBonusAlreadyClaimed
	}
	st, ok := c.streaks[caller]
	if !ok {
		return 0, ErrStreakNotFound
	}
	if st.LastUpdateDate != date {
		return 0, ErrStreakNotCurrent
	}
	if c.token == nil {
		return 0, ErrTokenNotSet
	}
	if _, err := c.token.MintReward(Self(), BaseBonus, caller); err != nil {
		return 0, err
	}
	c.claims[key] = true
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "claim-streak-bonus",
		Data: map[string]any{
			"user":  caller.String(),
			"date":  date,
			"bonus": uint64(BaseBonus),
		},
	})
	return BaseBonus, nil
}

// AwardMilestoneBadge mints the badge for a milestone tier the user's
// longest streak has reached. The award is explicit rather than implicit in
// UpdateUserStreak, and each (user, tier) pair mints at most once. Any
// caller may trigger it because eligibility is checked against ledger state,
// not caller identity.
func (c *Contract) AwardMilestoneBadge(caller, user chain.Principal, tier uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if !isMilestone(tier) {
		return 0, ErrInvalidMilestone
	}
	st, ok := c.streaks[user]
	if !ok {
		return 0, ErrStreakNotFound
	}
	if st.LongestStreak < tier {
		return 0, ErrStreakNotCurrent
	}
	mk := milestoneKey{User: user, Tier: tier}
	if _, awarded := c.milestones[mk]; awarded {
		return 0, ErrMilestoneAwarded
	}
	if c.badges == nil {
		return 0, ErrBadgesNotSet
	}
	tokenID, err := c.badges.MintStreakBadge(Self(), user, tier)
	if err != nil {
		return 0, err
	}
	c.milestones[mk] = tokenID
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "award-milestone-badge",
		Data: map[string]any{
			"user":     user.String(),
			"tier":     tier,
			"token_id": tokenID,
		},
	})
	return tokenID, nil
}

// UserStreak returns the streak record, or a zeroed record and false for a
// user that has never streaked.
func (c *Contract) UserStreak(user chain.Principal) (Streak, bool) {
	st, ok := c.streaks[user]
	if !ok {
		return Streak{}, false
	}
	return *st, true
}

// IsBonusClaimed reports whether user already claimed the bonus for date.
func (c *Contract) IsBonusClaimed(user chain.Principal, date uint64) bool {
	return c.claims[claimKey{User: user, Date: date}]
}

// MilestoneBadge returns the badge token ID minted for (user, tier), or 0.
func (c *Contract) MilestoneBadge(user chain.Principal, tier uint64) uint64 {
	return c.milestones[milestoneKey{User: user, Tier: tier}]
}

// NextMilestone returns the first milestone tier the user has not reached
// yet, or 0 when every tier is done.
func (c *Contract) NextMilestone(user chain.Principal) uint64 {
	st, ok := c.streaks[user]
	if !ok {
		return Milestones[0]
	}
	for _, m := range Milestones {
		if st.LongestStreak < m {
			return m
		}
	}
	return 0
}

func isMilestone(tier uint64) bool {
	for _, m := range Milestones {
		if m == tier {
			return true
		}
	}
	return false
}
