package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Operation is one committed contract operation in the durable journal.
// Seq is assigned by the node and is gapless within a deployment.
type Operation struct {
	bun.BaseModel `bun:"table:operations,alias:op"`

	Seq       uint64          `bun:"seq,pk"`
	Height    uint64          `bun:"height,notnull"`
	Contract  string          `bun:"contract,notnull"`
	Op        string          `bun:"op,notnull"`
	Caller    string          `bun:"caller,notnull"`
	Args      json.RawMessage `bun:"args,type:jsonb"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
