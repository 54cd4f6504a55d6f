package tasks

import (
	"sort"

	"github.com/achivio/achivio-core/achivio/chain"
)

type CompletionRecord struct {
	User   string `json:"user"`
	TaskID uint64 `json:"task_id"`
	Date   uint64 `json:"date"`
	Height uint64 `json:"height"`
}

type DailyRecord struct {
	User  string     `json:"user"`
	Date  uint64     `json:"date"`
	Stats DailyStats `json:"stats"`
}

type ProfileRecord struct {
	User    string  `json:"user"`
	Profile Profile `json:"profile"`
}

type State struct {
	Paused      bool               `json:"paused"`
	NextTaskID  uint64             `json:"next_task_id"`
	Tasks       []Task             `json:"tasks"`
	Completions []CompletionRecord `json:"completions"`
	Profiles    []ProfileRecord    `json:"profiles"`
	Daily       []DailyRecord      `json:"daily"`
	Totals      TotalStats         `json:"totals"`
}

func (c *Contract) Snapshot() State {
	s := State{Paused: c.paused, NextTaskID: c.nextTaskID, Totals: c.totals}
	for id := uint64(1); id < c.nextTaskID; id++ {
		if t, ok := c.tasks[id]; ok {
			s.Tasks = append(s.Tasks, *t)
		}
	}
	for key, height := range c.completions {
		s.Completions = append(s.Completions, CompletionRecord{
			User: key.User.String(), TaskID: key.TaskID, Date: key.Date, Height: height,
		})
	}
	for user, p := range c.profiles {
		s.Profiles = append(s.Profiles, ProfileRecord{User: user.String(), Profile: *p})
	}
	for key, stats := range c.daily {
		s.Daily = append(s.Daily, DailyRecord{User: key.User.String(), Date: key.Date, Stats: *stats})
	}
	sort.Slice(s.Completions, func(i, j int) bool { return s.Completions[i].Height < s.Completions[j].Height })
	sort.Slice(s.Profiles, func(i, j int) bool { return s.Profiles[i].User < s.Profiles[j].User })
	sort.Slice(s.Daily, func(i, j int) bool {
		if s.Daily[i].User != s.Daily[j].User {
			return s.Daily[i].User < s.Daily[j].User
		}
		return s.Daily[i].Date < s.Daily[j].Date
	})
	return s
}

func (c *Contract) Restore(s State) {
	c.paused = s.Paused
	c.nextTaskID = s.NextTaskID
	c.totals = s.Totals
	c.tasks = make(map[uint64]*Task, len(s.Tasks))
	for i := range s.Tasks {
		t := s.Tasks[i]
		c.tasks[t.ID] = &t
	}
	c.completions = make(map[completionKey]uint64, len(s.Completions))
	for _, r := range s.Completions {
		c.completions[completionKey{User: chain.Principal(r.User), TaskID: r.TaskID, Date: r.Date}] = r.Height
	}
	c.profiles = make(map[chain.Principal]*Profile, len(s.Profiles))
	for _, r := range s.Profiles {
		p := r.Profile
		c.profiles[chain.Principal(r.User)] = &p
	}
	c.daily = make(map[dailyKey]*DailyStats, len(s.Daily))
	for _, r := range s.Daily {
		d := r.Stats
		c.daily[dailyKey{User: chain.Principal(r.User), Date: r.Date}] = &d
	}
}
