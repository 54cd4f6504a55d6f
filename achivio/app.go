// Package achivio wires the habit-economy node: contracts, persistence,
// background processes and supporting services.
package achivio

import (
	"context"
	"log/slog"
	"time"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/database"
	"github.com/achivio/achivio-core/achivio/database/repositories"
	"github.com/achivio/achivio-core/achivio/journal"
	"github.com/achivio/achivio-core/achivio/node"
	"github.com/achivio/achivio-core/achivio/services"
	"github.com/achivio/achivio-core/achivio/utils"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:       cfg,
		Version:   version,
		Commit:    commit,
		Processes: utils.NewProcessManager(),
	}
}

type App struct {
	Cfg       Config
	Version   string
	Commit    string
	Clock     chain.Clock
	Node      *node.Node
	DB        *database.DB
	Journal   repositories.JournalRepository
	Snapshots repositories.SnapshotRepository
	Queue     *journal.Queue
	Flusher   *journal.Flusher
	Search    *services.TaskSearchService
	Board     *services.BoardCache
	Archive   *services.ArchiveService
	Processes *utils.ProcessManager
}

// SetupNode builds the clock and the contract node and loads persisted
// state when a database is configured.
func (a *App) SetupNode(ctx context.Context) error {
	genesis := time.Unix(a.Cfg.Chain.GenesisUnix, 0)
	if a.Cfg.Chain.GenesisUnix == 0 {
		genesis = time.Now()
	}
	interval := time.Duration(a.Cfg.Chain.BlockIntervalSecs) * time.Second
	a.Clock = chain.NewIntervalClock(genesis, interval, 0)

	deployer := chain.Principal(a.Cfg.Chain.Deployer)
	if deployer == "" {
		deployer = "achivio-deployer"
	}
	n, err := node.New(deployer, a.Clock)
	if err != nil {
		return err
	}
	a.Node = n

	if a.DB != nil {
		if err := journal.Restore(ctx, a.Node, a.Snapshots, a.Journal); err != nil {
			return err
		}
		a.Queue = journal.NewQueue()
		a.Flusher = journal.NewFlusher(a.Queue, a.Journal, 2*time.Second)
		a.Node.SetRecorder(a.Queue)
	}

	a.Search = services.NewTaskSearchService(a.Node)
	a.Board, err = services.NewBoardCache(a.Node, 128)
	if err != nil {
		return err
	}

	slog.Info("Node ready",
		slog.String("type", "sys"),
		slog.String("deployer", deployer.String()),
		slog.Uint64("height", a.Node.Height()),
		slog.Uint64("seq", a.Node.Seq()))
	return nil
}

// SetupDB connects to Postgres and ensures the schema.
func (a *App) SetupDB(ctx context.Context) error {
	db, err := database.New(ctx, a.Cfg.DB)
	if err != nil {
		return err
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return err
	}
	a.DB = db
	a.Journal = repositories.NewJournalRepository(db)
	a.Snapshots = repositories.NewSnapshotRepository(db)
	return nil
}

// SetupArchive is optional; without Spaces credentials snapshots stay in
// Postgres only.
func (a *App) SetupArchive() {
	if a.Cfg.Spaces.Key == "" {
		return
	}
	a.Archive = services.NewArchiveService(
		a.Cfg.Spaces.Key,
		a.Cfg.Spaces.Secret,
		a.Cfg.Spaces.Region,
		a.Cfg.Spaces.Bucket,
		a.Cfg.Spaces.Root,
	)
}

// StartBackground launches the journal flusher, the periodic checkpoint and
// the leaderboard refresh.
func (a *App) StartBackground() {
	if a.Flusher != nil {
		a.Processes.Start("journal-flusher", func(ctx context.Context) {
			_ = a.Flusher.Run(ctx)
		})

		checkpointEvery := time.Duration(a.Cfg.Chain.CheckpointMins) * time.Minute
		if checkpointEvery <= 0 {
			checkpointEvery = 15 * time.Minute
		}
		keep := a.Cfg.Chain.SnapshotsKept
		if keep <= 0 {
			keep = 5
		}
		a.Processes.StartEvery("checkpoint", checkpointEvery, func(ctx context.Context) {
			if err := a.Checkpoint(ctx, keep); err != nil {
				slog.Error("Checkpoint failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
		})
	}

	a.Processes.StartEvery("board-cache-refresh", time.Minute, func(ctx context.Context) {
		a.Board.Invalidate()
	})
}

// Checkpoint persists a snapshot and mirrors it to the archive bucket when
// one is configured.
func (a *App) Checkpoint(ctx context.Context, keep int) error {
	if err := journal.Checkpoint(ctx, a.Node, a.Flusher, a.Snapshots, keep); err != nil {
		return err
	}
	if a.Archive != nil {
		snap, err := a.Snapshots.Latest(ctx)
		if err != nil {
			return err
		}
		if snap != nil {
			if err := a.Archive.UploadSnapshot(ctx, snap.Seq, snap.State); err != nil {
				slog.Warn("Snapshot archive upload failed",
					slog.String("type", "sys"),
					slog.Any("error", err))
			}
		}
	}
	return nil
}

// Close shuts everything down in dependency order.
func (a *App) Close(ctx context.Context) {
	if err := a.Processes.Shutdown(10 * time.Second); err != nil {
		slog.Warn("Background processes did not stop cleanly",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}
	if a.Flusher != nil {
		if err := a.Flusher.Flush(ctx); err != nil {
			slog.Error("Shutdown journal flush failed",
				slog.String("type", "db"),
				slog.Any("error", err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
