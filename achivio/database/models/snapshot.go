package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Snapshot is a full serialized contract-set state. Boot restores the
// newest snapshot and replays operations with seq greater than its Seq.
type Snapshot struct {
	bun.BaseModel `bun:"table:snapshots,alias:snap"`

	ID        int64           `bun:"id,pk,autoincrement"`
	Seq       uint64          `bun:"seq,notnull"`
	Height    uint64          `bun:"height,notnull"`
	State     json.RawMessage `bun:"state,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
