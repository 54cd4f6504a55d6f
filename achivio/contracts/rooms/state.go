package rooms

import (
	"sort"

	"github.com/achivio/achivio-core/achivio/chain"
)

type ItemRecord struct {
	ID         uint64 `json:"id"`
	TemplateID uint64 `json:"template_id"`
	Owner      string `json:"owner"`
	Position   Vec3   `json:"position"`
	Rotation   Vec3   `json:"rotation"`
	Scale      uint64 `json:"scale"`
	IsPlaced   bool   `json:"is_placed"`
	BuyHeight  uint64 `json:"buy_height"`
}

type RoomRecord struct {
	User            string `json:"user"`
	Theme           string `json:"theme"`
	BackgroundMusic string `json:"background_music"`
}

type State struct {
	Paused bool         `json:"paused"`
	NextID uint64       `json:"next_id"`
	Items  []ItemRecord `json:"items"`
	Rooms  []RoomRecord `json:"rooms"`
}

func (c *Contract) Snapshot() State {
	s := State{Paused: c.paused, NextID: c.nextID}
	for _, item := range c.items {
		s.Items = append(s.Items, ItemRecord{
			ID:         item.ID,
			TemplateID: item.TemplateID,
			Owner:      item.Owner.String(),
			Position:   item.Position,
			Rotation:   item.Rotation,
			Scale:      item.Scale,
			IsPlaced:   item.IsPlaced,
			BuyHeight:  item.BuyHeight,
		})
	}
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].ID < s.Items[j].ID })
	for user, room := range c.rooms {
		s.Rooms = append(s.Rooms, RoomRecord{
			User:            user.String(),
			Theme:           room.Theme,
			BackgroundMusic: room.BackgroundMusic,
		})
	}
	sort.Slice(s.Rooms, func(i, j int) bool { return s.Rooms[i].User < s.Rooms[j].User })
	return s
}

func (c *Contract) Restore(s State) {
	c.paused = s.Paused
	c.nextID = s.NextID
	if c.nextID == 0 {
		c.nextID = 1
	}
	c.items = make(map[uint64]*Item, len(s.Items))
	c.byOwner = make(map[chain.Principal][]uint64)
	for _, r := range s.Items {
		owner := chain.Principal(r.Owner)
		c.items[r.ID] = &Item{
			ID:         r.ID,
			TemplateID: r.TemplateID,
			Owner:      owner,
			Position:   r.Position,
			Rotation:   r.Rotation,
			Scale:      r.Scale,
			IsPlaced:   r.IsPlaced,
			BuyHeight:  r.BuyHeight,
		}
		c.byOwner[owner] = append(c.byOwner[owner], r.ID)
	}
	c.rooms = make(map[chain.Principal]*Room, len(s.Rooms))
	for _, r := range s.Rooms {
		c.rooms[chain.Principal(r.User)] = &Room{Theme: r.Theme, BackgroundMusic: r.BackgroundMusic}
	}
}
