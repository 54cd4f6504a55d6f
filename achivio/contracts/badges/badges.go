// Package badges implements the non-fungible streak badge registry. Badges
// are sequentially numbered, minted by authorized minters only, and never
// burn or change hands.
package badges

import (
	"github.com/achivio/achivio-core/achivio/chain"
)

const ContractName = "nft-badges"

var (
	ErrOwnerOnly          = chain.NewError(ContractName, 400, "owner-only")
	ErrBadgeNotFound      = chain.NewError(ContractName, 404, "badge-not-found")
	ErrContractPaused     = chain.NewError(ContractName, 405, "contract-paused")
	ErrUnauthorizedMinter = chain.NewError(ContractName, 406, "unauthorized-minter")
)

// Badge is an issued milestone token.
type Badge struct {
	ID         uint64          `json:"id"`
	Owner      chain.Principal `json:"owner"`
	StreakTier uint64          `json:"streak_tier"`
	MintHeight uint64          `json:"mint_height"`
}

// Contract is the badge state machine; the node serializes all access.
type Contract struct {
	owner  chain.Principal
	clock  chain.Clock
	events chain.EventSink

	paused  bool
	nextID  uint64
	badges  map[uint64]Badge
	byOwner map[chain.Principal][]uint64
	minters map[chain.Principal]bool
}

func New(owner chain.Principal, clock chain.Clock, events chain.EventSink) *Contract {
	return &Contract{
		owner:   owner,
		clock:   clock,
		events:  events,
		nextID:  1,
		badges:  make(map[uint64]Badge),
		byOwner: make(map[chain.Principal][]uint64),
		minters: make(map[chain.Principal]bool),
	}
}

func Self() chain.Principal { return chain.ContractPrincipal(ContractName) }

func (c *Contract) IsPaused() bool { return c.paused }

func (c *Contract) IsAuthorizedMinter(p chain.Principal) bool {
	return p == c.owner || c.minters[p]
}

func (c *Contract) AddAuthorizedMinter(caller, minter chain.Principal) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	if c.paused {
		return ErrContractPaused
	}
	c.minters[minter] = true
	return nil
}

func (c *Contract) RemoveAuthorizedMinter(caller, minter chain.Principal) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	if c.paused {
		return ErrContractPaused
	}
	delete(c.minters, minter)
	return nil
}

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

// MintStreakBadge issues the next sequential badge to recipient for the
// given streak tier and returns the new token ID.
func (c *Contract) MintStreakBadge(caller, recipient chain.Principal, streakTier uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if !c.IsAuthorizedMinter(caller) {
		return 0, ErrUnauthorizedMinter
	}
	id := c.nextID
	c.nextID++
	c.badges[id] = Badge{
		ID:         id,
		Owner:      recipient,
		StreakTier: streakTier,
		MintHeight: c.clock.Height(),
	}
	c.byOwner[recipient] = append(c.byOwner[recipient], id)
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "mint-streak-badge",
		Data: map[string]any{
			"token_id":    id,
			"recipient":   recipient.String(),
			"streak_tier": streakTier,
		},
	})
	return id, nil
}

// Owner returns the holder of a badge, or ErrBadgeNotFound for an unminted ID.
func (c *Contract) Owner(tokenID uint64) (chain.Principal, error) {
	b, ok := c.badges[tokenID]
	if !ok {
		return "", ErrBadgeNotFound
	}
	return b.Owner, nil
}

// Badge returns the full badge record.
func (c *Contract) Badge(tokenID uint64) (Badge, error) {
	b, ok := c.badges[tokenID]
	if !ok {
		return Badge{}, ErrBadgeNotFound
	}
	return b, nil
}

// BadgeCount is the number of badges a principal holds.
func (c *Contract) BadgeCount(p chain.Principal) uint64 {
	return uint64(len(c.byOwner[p]))
}

// HasBadgeTier reports whether p holds any badge of at least the given tier.
// Room item purchase gates use this.
func (c *Contract) HasBadgeTier(p chain.Principal, tier uint64) bool {
	for _, id := range c.byOwner[p] {
		if c.badges[id].StreakTier >= tier {
			return true
		}
	}
	return false
}

// BadgesOf lists the badges a principal holds in mint order.
func (c *Contract) BadgesOf(p chain.Principal) []Badge {
	ids := c.byOwner[p]
	out := make([]Badge, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.badges[id])
	}
	return out
}
