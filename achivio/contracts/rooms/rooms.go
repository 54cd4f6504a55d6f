// Package rooms sells decorative item instances from a fixed template
// catalog. Purchases burn ACHIV, which makes the store the economy's
// deflationary sink, and gated templates require a streak badge tier.
package rooms

import (
	"github.com/achivio/achivio-core/achivio/chain"
)

const ContractName = "room-item-store"

var (
	ErrOwnerOnly         = chain.NewError(ContractName, 500, "owner-only")
	ErrItemNotFound      = chain.NewError(ContractName, 504, "item-not-found")
	ErrContractPaused    = chain.NewError(ContractName, 505, "contract-paused")
	ErrInsufficientFunds = chain.NewError(ContractName, 506, "insufficient-funds")
	ErrNotItemOwner      = chain.NewError(ContractName, 507, "not-item-owner")
	ErrTemplateNotFound  = chain.NewError(ContractName, 511, "template-not-found")
	ErrBadgeRequirement  = chain.NewError(ContractName, 512, "badge-requirement-not-met")
	ErrTokenNotSet       = chain.NewError(ContractName, 513, "token-contract-not-set")
	ErrBadgesNotSet      = chain.NewError(ContractName, 514, "badges-contract-not-set")
)

// TokenBurner is the token dependency purchases burn through.
type TokenBurner interface {
	Balance(p chain.Principal) uint64
	Burn(caller chain.Principal, amount uint64, owner chain.Principal) (uint64, error)
}

// BadgeChecker answers whether a principal holds a badge of at least the
// given streak tier.
type BadgeChecker interface {
	HasBadgeTier(p chain.Principal, tier uint64) bool
}

// Template is one purchasable catalog entry. RequiredBadgeTier of zero means
// ungated.
type Template struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Price             uint64 `json:"price"`
	RequiredBadgeTier uint64 `json:"required_badge_tier"`
}

// Vec3 is a placement coordinate triple.
type Vec3 struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// Item is an owned instance of a template.
type Item struct {
	ID         uint64          `json:"id"`
	TemplateID uint64          `json:"template_id"`
	Owner      chain.Principal `json:"owner"`
	Position   Vec3            `json:"position"`
	Rotation   Vec3            `json:"rotation"`
	Scale      uint64          `json:"scale"`
	IsPlaced   bool            `json:"is_placed"`
	BuyHeight  uint64          `json:"buy_height"`
}

// Room is a user's per-room customization record.
type Room struct {
	Theme           string `json:"theme"`
	BackgroundMusic string `json:"background_music"`
}

// Contract is the item store state machine; the node serializes access.
type Contract struct {
	owner  chain.Principal
	clock  chain.Clock
	events chain.EventSink
	token  TokenBurner
	badges BadgeChecker

	paused    bool
	templates map[uint64]Template
	nextID    uint64
	items     map[uint64]*Item
	byOwner   map[chain.Principal][]uint64
	rooms     map[chain.Principal]*Room
}

func New(owner chain.Principal, clock chain.Clock, events chain.EventSink) *Contract {
	c := &Contract{
		owner:     owner,
		clock:     clock,
		events:    events,
		templates: make(map[uint64]Template, len(defaultCatalog)),
		nextID:    1,
		items:     make(map[uint64]*Item),
		byOwner:   make(map[chain.Principal][]uint64),
		rooms:     make(map[chain.Principal]*Room),
	}
	for _, t := range defaultCatalog {
		c.templates[t.ID] = t
	}
	return c
}

func Self() chain.Principal { return chain.ContractPrincipal(ContractName) }

func (c *Contract) SetTokenContract(caller chain.Principal, token TokenBurner) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	c.token = token
	return nil
}

func (c *Contract) SetBadgesContract(caller chain.Principal, badges BadgeChecker) error {
	if caller != c.owner {
		return ErrOwnerOnly
	}
	c.badges = badges
	return nil
}

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

// PurchaseItem burns the template price from the caller and mints a new item
// instance they own. Gated templates require a badge of at least the
// template's tier. Returns the new item ID.
func (c *Contract) PurchaseItem(caller chain.Principal, templateID uint64) (uint64, error) {
	if c.paused {
		return 0, ErrContractPaused
	}
	tpl, ok := c.templates[templateID]
	if !ok {
		return 0, ErrTemplateNotFound
	}
	if tpl.RequiredBadgeTier > 0 {
		if c.badges == nil {
			return 0, ErrBadgesNotSet
		}
		if !c.badges.HasBadgeTier(caller, tpl.RequiredBadgeTier) {
			return 0, ErrBadgeRequirement
		}
	}
	if c.token == nil {
		return 0, ErrTokenNotSet
	}
	if c.token.Balance(caller) < tpl.Price {
		return 0, ErrInsufficientFunds
	}
	if _, err := c.token.Burn(caller, tpl.Price, caller); err != nil {
		return 0, err
	}
	id := c.nextID
	c.nextID++
	item := &Item{
		ID:         id,
		TemplateID: tpl.ID,
		Owner:      caller,
		Scale:      100,
		BuyHeight:  c.clock.Height(),
	}
	c.items[id] = item
	c.byOwner[caller] = append(c.byOwner[caller], id)
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "purchase-item",
		Data: map[string]any{
			"item_id":     id,
			"template_id": tpl.ID,
			"buyer":       caller.String(),
			"price":       tpl.Price,
		},
	})
	return id, nil
}

// PlaceItemInRoom sets placement for an item the caller owns. Re-placing an
// already placed item just moves it.
func (c *Contract) PlaceItemInRoom(caller chain.Principal, itemID uint64, position, rotation Vec3, scale uint64) error {
	if c.paused {
		return ErrContractPaused
	}
	item, ok := c.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if item.Owner != caller {
		return ErrNotItemOwner
	}
	item.Position = position
	item.Rotation = rotation
	item.Scale = scale
	item.IsPlaced = true
	c.events.Emit(chain.Event{
		Height:   c.clock.Height(),
		Contract: ContractName,
		Kind:     "place-item",
		Data: map[string]any{
			"item_id": itemID,
			"owner":   caller.String(),
		},
	})
	return nil
}

// RemoveItemFromRoom clears placement for an item the caller owns.
func (c *Contract) RemoveItemFromRoom(caller chain.Principal, itemID uint64) error {
	if c.paused {
		return ErrContractPaused
	}
	item, ok := c.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if item.Owner != caller {
		return ErrNotItemOwner
	}
	item.Position = Vec3{}
	item.Rotation = Vec3{}
	item.IsPlaced = false
	return nil
}

// ChangeRoomTheme overwrites the caller's room record, creating it on first
// use.
func (c *Contract) ChangeRoomTheme(caller chain.Principal, theme, backgroundMusic string) error {
	if c.paused {
		return ErrContractPaused
	}
	room, ok := c.rooms[caller]
	if !ok {
		room = &Room{}
		c.rooms[caller] = room
	}
	room.Theme = theme
	room.BackgroundMusic = backgroundMusic
	return nil
}

// TemplateByID returns a catalog entry.
func (c *Contract) TemplateByID(id uint64) (Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Templates returns the catalog ordered by template ID.
func (c *Contract) Templates() []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range defaultCatalog {
		if cur, ok := c.templates[t.ID]; ok {
			out = append(out, cur)
		}
	}
	return out
}

// ItemPlacement returns the placement view of an item owned by user.
func (c *Contract) ItemPlacement(user chain.Principal, itemID uint64) (Item, bool) {
	item, ok := c.items[itemID]
	if !ok || item.Owner != user {
		return Item{}, false
	}
	return *item, true
}

// Owner returns the owner of an item instance.
func (c *Contract) Owner(itemID uint64) (chain.Principal, bool) {
	item, ok := c.items[itemID]
	if !ok {
		return "", false
	}
	return item.Owner, true
}

// UserRoom returns the room record, or a zero record and false before the
// first ChangeRoomTheme.
func (c *Contract) UserRoom(user chain.Principal) (Room, bool) {
	room, ok := c.rooms[user]
	if !ok {
		return Room{}, false
	}
	return *room, true
}

// ItemsOf returns the user's item instances in purchase order.
func (c *Contract) ItemsOf(user chain.Principal) []Item {
	ids := c.byOwner[user]
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := c.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out
}

// ItemCount returns how many instances the user owns.
func (c *Contract) ItemCount(user chain.Principal) uint64 {
	return uint64(len(c.byOwner[user]))
}
