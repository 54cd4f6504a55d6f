package token

import "github.com/achivio/achivio-core/achivio/chain"

// State is the serializable form of the ledger, used for journal snapshots.
type State struct {
	Paused             bool              `json:"paused"`
	TotalSupply        uint64            `json:"total_supply"`
	RewardsDistributed uint64            `json:"rewards_distributed"`
	Balances           map[string]uint64 `json:"balances"`
	Minters            []string          `json:"minters"`
}

func (c *Contract) Snapshot() State {
	s := State{
		Paused:             c.paused,
		TotalSupply:        c.totalSupply,
		RewardsDistributed: c.rewardsDistributed,
		Balances:           make(map[string]uint64, len(c.balances)),
	}
	for p, bal := range c.balances {
		if bal > 0 {
			s.Balances[p.String()] = bal
		}
	}
	for p := range c.minters {
		s.Minters = append(s.Minters, p.String())
	}
	return s
}

func (c *Contract) Restore(s State) {
	c.paused = s.Paused
	c.totalSupply = s.TotalSupply
	c.rewardsDistributed = s.RewardsDistributed
	c.balances = make(map[chain.Principal]uint64, len(s.Balances))
	for p, bal := range s.Balances {
		c.balances[chain.Principal(p)] = bal
	}
	c.minters = make(map[chain.Principal]bool, len(s.Minters))
	for _, p := range s.Minters {
		c.minters[chain.Principal(p)] = true
	}
}
