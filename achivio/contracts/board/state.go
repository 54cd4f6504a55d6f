package board

import (
	"sort"

	"github.com/achivio/achivio-core/achivio/chain"
)

type EntryRecord struct {
	User           string `json:"user"`
	TasksCompleted uint64 `json:"tasks_completed"`
	RewardsEarned  uint64 `json:"rewards_earned"`
	CurrentStreak  uint64 `json:"current_streak"`
	LongestStreak  uint64 `json:"longest_streak"`
	BadgesCount    uint64 `json:"badges_count"`
	Level          uint64 `json:"level"`
	OverallScore   uint64 `json:"overall_score"`
	UpdatedHeight  uint64 `json:"updated_height"`
}

type ProfileRecord struct {
	User              string `json:"user"`
	DisplayName       string `json:"display_name"`
	IsPublic          bool   `json:"is_public"`
	ShowInLeaderboard bool   `json:"show_in_leaderboard"`
	FavoriteCategory  string `json:"favorite_category"`
	Bio               string `json:"bio"`
}

type State struct {
	Paused      bool            `json:"paused"`
	Aggregators []string        `json:"aggregators"`
	Entries     []EntryRecord   `json:"entries"`
	Profiles    []ProfileRecord `json:"profiles"`
}

func (c *Contract) Snapshot() State {
	s := State{Paused: c.paused}
	for p := range c.aggregators {
		s.Aggregators = append(s.Aggregators, p.String())
	}
	sort.Strings(s.Aggregators)
	for user, e := range c.entries {
		s.Entries = append(s.Entries, EntryRecord{
			User:           user.String(),
			TasksCompleted: e.TasksCompleted,
			RewardsEarned:  e.RewardsEarned,
			CurrentStreak:  e.CurrentStreak,
			LongestStreak:  e.LongestStreak,
			BadgesCount:    e.BadgesCount,
			Level:          e.Level,
			OverallScore:   e.OverallScore,
			UpdatedHeight:  e.UpdatedHeight,
		})
	}
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].User < s.Entries[j].User })
	for user, p := range c.profiles {
		s.Profiles = append(s.Profiles, ProfileRecord{
			User:              user.String(),
			DisplayName:       p.DisplayName,
			IsPublic:          p.IsPublic,
			ShowInLeaderboard: p.ShowInLeaderboard,
			FavoriteCategory:  p.FavoriteCategory,
			Bio:               p.Bio,
		})
	}
	sort.Slice(s.Profiles, func(i, j int) bool { return s.Profiles[i].User < s.Profiles[j].User })
	return s
}

func (c *Contract) Restore(s State) {
	c.paused = s.Paused
	c.aggregators = make(map[chain.Principal]bool, len(s.Aggregators))
	for _, p := range s.Aggregators {
		c.aggregators[chain.Principal(p)] = true
	}
	c.entries = make(map[chain.Principal]*Entry, len(s.Entries))
	for _, r := range s.Entries {
		user := chain.Principal(r.User)
		c.entries[user] = &Entry{
			User:           user,
			TasksCompleted: r.TasksCompleted,
			RewardsEarned:  r.RewardsEarned,
			CurrentStreak:  r.CurrentStreak,
			LongestStreak:  r.LongestStreak,
			BadgesCount:    r.BadgesCount,
			Level:          r.Level,
			OverallScore:   r.OverallScore,
			UpdatedHeight:  r.UpdatedHeight,
		}
	}
	c.profiles = make(map[chain.Principal]*Profile, len(s.Profiles))
	for _, r := range s.Profiles {
		c.profiles[chain.Principal(r.User)] = &Profile{
			DisplayName:       r.DisplayName,
			IsPublic:          r.IsPublic,
			ShowInLeaderboard: r.ShowInLeaderboard,
			FavoriteCategory:  r.FavoriteCategory,
			Bio:               r.Bio,
		}
	}
}
