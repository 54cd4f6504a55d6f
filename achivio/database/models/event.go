package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ChainEvent mirrors the events contracts emit while committing, keyed by
// the operation that produced them.
type ChainEvent struct {
	bun.BaseModel `bun:"table:chain_events,alias:ev"`

	ID        int64           `bun:"id,pk,autoincrement"`
	OpSeq     uint64          `bun:"op_seq,notnull"`
	Height    uint64          `bun:"height,notnull"`
	Contract  string          `bun:"contract,notnull"`
	Kind      string          `bun:"kind,notnull"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
