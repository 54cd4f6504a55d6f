package repositories

import (
	"context"

	"github.com/achivio/achivio-core/achivio/database"
	"github.com/achivio/achivio-core/achivio/database/models"
)

type JournalRepository interface {
	InsertBatch(ctx context.Context, ops []*models.Operation, events []*models.ChainEvent) error
	OperationsAfter(ctx context.Context, seq uint64) ([]*models.Operation, error)
	LatestSeq(ctx context.Context) (uint64, error)
	EventsByContract(ctx context.Context, contract string, limit int) ([]*models.ChainEvent, error)
}

type journalRepository struct {
	db *database.DB
}

func NewJournalRepository(db *database.DB) JournalRepository {
	return &journalRepository{db: db}
}

// InsertBatch writes a flush batch in one transaction so the journal never
// holds an operation without its events or vice versa.
func (r *journalRepository) InsertBatch(ctx context.Context, ops []*models.Operation, events []*models.ChainEvent) error {
	if len(ops) == 0 && len(events) == 0 {
		return nil
	}
	tx, err := r.db.BunDB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(ops) > 0 {
		if _, err := tx.NewInsert().Model(&ops).Exec(ctx); err != nil {
			return err
		}
	}
	if len(events) > 0 {
		if _, err := tx.NewInsert().Model(&events).Exec(ctx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *journalRepository) OperationsAfter(ctx context.Context, seq uint64) ([]*models.Operation, error) {
	var ops []*models.Operation
	err := r.db.BunDB().NewSelect().
		Model(&ops).
		Where("seq > ?", seq).
		Order("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *journalRepository) LatestSeq(ctx context.Context) (uint64, error) {
	var seq uint64
	err := r.db.BunDB().NewSelect().
		Model((*models.Operation)(nil)).
		ColumnExpr("COALESCE(MAX(seq), 0)").
		Scan(ctx, &seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *journalRepository) EventsByContract(ctx context.Context, contract string, limit int) ([]*models.ChainEvent, error) {
	var events []*models.ChainEvent
	q := r.db.BunDB().NewSelect().
		Model(&events).
		Where("contract = ?", contract).
		Order("op_seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return events, nil
}
