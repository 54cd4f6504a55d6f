package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/achivio/achivio-core/achivio/database"
	"github.com/achivio/achivio-core/achivio/database/models"
)

type SnapshotRepository interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Latest(ctx context.Context) (*models.Snapshot, error)
	Prune(ctx context.Context, keep int) error
}

type snapshotRepository struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	_, err := r.db.BunDB().NewInsert().Model(snap).Exec(ctx)
	return err
}

// Latest returns the newest snapshot, or nil when none has been taken yet.
func (r *snapshotRepository) Latest(ctx context.Context) (*models.Snapshot, error) {
	snap := new(models.Snapshot)
	err := r.db.BunDB().NewSelect().
		Model(snap).
		Order("seq DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Prune drops all but the newest keep snapshots.
func (r *snapshotRepository) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		keep = 1
	}
	_, err := r.db.BunDB().NewDelete().
		Model((*models.Snapshot)(nil)).
		Where("id NOT IN (SELECT id FROM snapshots ORDER BY seq DESC LIMIT ?)", keep).
		Exec(ctx)
	return err
}
