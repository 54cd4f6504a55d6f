package streaks

import (
	"sort"

	"github.com/achivio/achivio-core/achivio/chain"
)

// StreakRecord is the serialized form of one user's streak.
type StreakRecord struct {
	User           string `json:"user"`
	CurrentStreak  uint64 `json:"current_streak"`
	LongestStreak  uint64 `json:"longest_streak"`
	LastUpdateDate uint64 `json:"last_update_date"`
}

type ClaimRecord struct {
	User string `json:"user"`
	Date uint64 `json:"date"`
}

type MilestoneRecord struct {
	User    string `json:"user"`
	Tier    uint64 `json:"tier"`
	TokenID uint64 `json:"token_id"`
}

type State struct {
	Paused     bool              `json:"paused"`
	Streaks    []StreakRecord    `json:"streaks"`
	Claims     []ClaimRecord     `json:"claims"`
	Milestones []MilestoneRecord `json:"milestones"`
}

func (c *Contract) Snapshot() State {
	s := State{Paused: c.paused}
	for user, st := range c.streaks {
		s.Streaks = append(s.Streaks, StreakRecord{
			User:           user.String(),
			CurrentStreak:  st.CurrentStreak,
			LongestStreak:  st.LongestStreak,
			LastUpdateDate: st.LastUpdateDate,
		})
	}
	sort.Slice(s.Streaks, func(i, j int) bool { return s.Streaks[i].User < s.Streaks[j].User })
	for key := range c.claims {
		s.Claims = append(s.Claims, ClaimRecord{User: key.User.String(), Date: key.Date})
	}
	sort.Slice(s.Claims, func(i, j int) bool {
		if s.Claims[i].User != s.Claims[j].User {
			return s.Claims[i].User < s.Claims[j].User
		}
		return s.Claims[i].Date < s.Claims[j].Date
	})
	for key, tokenID := range c.milestones {
		s.Milestones = append(s.Milestones, MilestoneRecord{
			User:    key.User.String(),
			Tier:    key.Tier,
			TokenID: tokenID,
		})
	}
	sort.Slice(s.Milestones, func(i, j int) bool {
		if s.Milestones[i].User != s.Milestones[j].User {
			return s.Milestones[i].User < s.Milestones[j].User
		}
		return s.Milestones[i].Tier < s.Milestones[j].Tier
	})
	return s
}

func (c *Contract) Restore(s State) {
	c.paused = s.Paused
	c.streaks = make(map[chain.Principal]*Streak, len(s.Streaks))
	for _, r := range s.Streaks {
		c.streaks[chain.Principal(r.User)] = &Streak{
			CurrentStreak:  r.CurrentStreak,
			LongestStreak:  r.LongestStreak,
			LastUpdateDate: r.LastUpdateDate,
		}
	}
	c.claims = make(map[claimKey]bool, len(s.Claims))
	for _, r := range s.Claims {
		c.claims[claimKey{User: chain.Principal(r.User), Date: r.Date}] = true
	}
	c.milestones = make(map[milestoneKey]uint64, len(s.Milestones))
	for _, r := range s.Milestones {
		c.milestones[milestoneKey{User: chain.Principal(r.User), Tier: r.Tier}] = r.TokenID
	}
}
