package badges

import (
	"sort"

	"github.com/achivio/achivio-core/achivio/chain"
)

type State struct {
	Paused  bool     `json:"paused"`
	NextID  uint64   `json:"next_id"`
	Badges  []Badge  `json:"badges"`
	Minters []string `json:"minters"`
}

func (c *Contract) Snapshot() State {
	s := State{Paused: c.paused, NextID: c.nextID}
	for _, b := range c.badges {
		s.Badges = append(s.Badges, b)
	}
	sort.Slice(s.Badges, func(i, j int) bool { return s.Badges[i].ID < s.Badges[j].ID })
	for p := range c.minters {
		s.Minters = append(s.Minters, p.String())
	}
	return s
}

func (c *Contract) Restore(s State) {
	c.paused = s.Paused
	c.nextID = s.NextID
	c.badges = make(map[uint64]Badge, len(s.Badges))
	c.byOwner = make(map[chain.Principal][]uint64)
	for _, b := range s.Badges {
		c.badges[b.ID] = b
		c.byOwner[b.Owner] = append(c.byOwner[b.Owner], b.ID)
	}
	c.minters = make(map[chain.Principal]bool, len(s.Minters))
	for _, p := range s.Minters {
		c.minters[chain.Principal(p)] = true
	}
}
