// Package token implements the ACHIV fungible reward token ledger: balances,
// total supply, the authorized minter set and the owner pause switch.
package token

import (
	"math"

	"github.com/achivio/achivio-core/achivio/chain"
)

const (
	ContractName = "achiv-token"

	tokenName   = "Achivio Token"
	tokenSymbol = "ACHIV"
	tokenURI    = "https://achivio.app/token-metadata"

	// Decimals is the fixed-point precision of every ACHIV amount:
	// 1000000 == 1.0 ACHIV.
	Decimals = 6
)

var (
	ErrOwnerOnly           = chain.NewError(ContractName, 100, "owner-only")
	ErrNotTokenOwner       = chain.NewError(ContractName, 101, "not-token-owner")
	ErrInsufficientBalance = chain.NewError(ContractName, 102, "insufficient-balance")
	ErrInvalidAmount       = chain.NewError(ContractName, 103, "invalid-amount")
	ErrContractPaused      = chain.NewError(ContractName, 104, "contract-paused")
	ErrUnauthorizedMinter  = chain.NewError(ContractName, 105, "unauthorized-minter")
)

// Contract is the token state machine. It is not safe for concurrent use;
// the owning node serializes every call.
type Contract struct {
	owner  chain.Principal
	clock  chain.Clock
	events chain.EventSink

	paused            bool
	totalSupply       uint64
	rewardsDistributed uint64
	balances          map[chain.Principal]uint64
	minters           map[chain.Principal]bool
}

func New(owner chain.Principal, clock chain.Clock, events chain.EventSink) *Contract {
	return &Contract{
		owner:    owner,
		clock:    clock,
		events:   events,
		balances: make(map[chain.Principal]uint64),
		minters:  make(map[chain.Principal]bool),
	}
}

// Self is the principal other contracts use when calling the token.
func Self() chain.Principal { return chain.ContractPrincipal(ContractName) }

// Metadata queries. These never fail.

func (c *Contract) Name() string     { return tokenName }
func (c *Contract) Symbol() string   { return tokenSymbol }
func (c *Contract) TokenDecimals() uint { return Decimals }
func (c *Contract) TokenURI() string { return tokenURI }

func (c *Contract) TotalSupply() uint64 { return c.totalSupply }

// TotalRewardsDistributed is the running sum of every mint-reward, a
// monotonic counter that burns do not decrease.
func (c *Contract) TotalRewardsDistributed() uint64 { return c.rewardsDistributed }

// Balance returns 0 for principals that have never held ACHIV.
func (c *Contract) Balance(p chain.Principal) uint64 { return c.balances[p] }

func (c *Contract) IsPaused() bool { return c.paused }

// IsAuthorizedMinter reports minter status; the owner is always authorized.
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

// MintReward credits amount to recipient and grows the supply. Only
// authorized minters (the task tracker and streak system in the standard
// wiring) may call it. Returns the minted amount.
func (c *Contract) MintReward(caller chain.Principal, amount uint64, recipient chain.Principal) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if !c.IsAuthorizedMinter(caller) {
		return 0, ErrUnauthorizedMinter
	}
	if err := c.checkMintAmount(amount); err != nil {
		return 0, err
	}
	c.credit(recipient, amount)
	c.rewardsDistributed += amount
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "mint-reward",
		Data: map[string]any{
			"amount":    amount,
			"recipient": recipient.String(),
			"minter":    caller.String(),
		},
	})
	return amount, nil
}

// AdminMint is the owner-only seeding mint. Same accounting as MintReward
// except it does not count toward rewards distributed.
func (c *Contract) AdminMint(caller chain.Principal, amount uint64, recipient chain.Principal) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if caller != c.owner {
		return 0, ErrOwnerOnly
	}
	if err := c.checkMintAmount(amount); err != nil {
		return 0, err
	}
	c.credit(recipient, amount)
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "admin-mint",
		Data: map[string]any{
			"amount":    amount,
			"recipient": recipient.String(),
		},
	})
	return amount, nil
}

// Transfer moves amount from sender to recipient. Only the sender can move
// its own balance. The optional memo travels in the transfer event.
func (c *Contract) Transfer(caller chain.Principal, amount uint64, sender, recipient chain.Principal, memo string) error {
	if c.paused {
		return ErrContractPaused
	}
	if caller != sender {
		return ErrNotTokenOwner
	}
	if c.balances[sender] < amount {
		return ErrInsufficientBalance
	}
	c.balances[sender] -= amount
	c.balances[recipient] += amount
	data := map[string]any{
		"amount":    amount,
		"sender":    sender.String(),
		"recipient": recipient.String(),
	}
	if memo != "" {
		data["memo"] = memo
	}
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "transfer",
		Data:     data,
	})
	return nil
}

// Burn destroys amount from owner's balance and shrinks the supply. Only the
// balance owner can burn. Room item purchases pass the buying principal
// through as the caller, so the purchase is the deflationary sink.
func (c *Contract) Burn(caller chain.Principal, amount uint64, owner chain.Principal) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	if caller != owner {
		return 0, ErrNotTokenOwner
	}
	if c.balances[owner] < amount {
		return 0, ErrInsufficientBalance
	}
	c.balances[owner] -= amount
	c.totalSupply -= amount
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "burn",
		Data: map[string]any{
			"amount": amount,
			"owner":  owner.String(),
		},
	})
	return amount, nil
}

func (c *Contract) checkMintAmount(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > math.MaxUint64-c.totalSupply {
		return ErrInvalidAmount
	}
	return nil
}

func (c *Contract) credit(recipient chain.Principal, amount uint64) {
	c.balances[recipient] += amount
	c.totalSupply += amount
}
