package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nvandessel/leach/internal/report"
	_ "modernc.org/sqlite"
)

// ErrExists is returned when an export target already exists.
var ErrExists = errors.New("export target already exists")

const sqliteSchema = `
CREATE TABLE runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    seed INTEGER NOT NULL,
    nodes INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    probability REAL NOT NULL,
    period INTEGER NOT NULL
);

CREATE TABLE rounds (
    run_id TEXT NOT NULL REFERENCES runs(id),
    round INTEGER NOT NULL,   -- 1-based
    theta REAL NOT NULL,
    clusterheads INTEGER NOT NULL,
    PRIMARY KEY (run_id, round)
);

CREATE TABLE node_states (
    run_id TEXT NOT NULL REFERENCES runs(id),
    round INTEGER NOT NULL,
    node INTEGER NOT NULL,    -- 1-based
    draw REAL NOT NULL,
    cooldown INTEGER NOT NULL,
    eligible INTEGER NOT NULL,
    clusterhead INTEGER NOT NULL,
    PRIMARY KEY (run_id, round, node)
);
CREATE INDEX idx_node_states_clusterhead ON node_states(run_id, clusterhead);
`

// WriteSQLite writes s into a new SQLite database at path. It refuses to
// touch an existing file. The whole export is a single transaction.
func WriteSQLite(ctx context.Context, path string, s report.Summary) (retErr error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking export path: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening sqlite export: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("closing sqlite export: %w", err)
		}
	}()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating export schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, seed, nodes, rounds, probability, period) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.CreatedAt.UTC().Format(time.RFC3339Nano), int64(s.Seed), s.Nodes, s.Rounds, s.Probability, s.Period)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	roundStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO rounds (run_id, round, theta, clusterheads) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing round insert: %w", err)
	}
	defer roundStmt.Close()

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO node_states (run_id, round, node, draw, cooldown, eligible, clusterhead) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, rs := range s.History {
		if _, err := roundStmt.ExecContext(ctx, s.RunID, rs.Round, rs.Theta, rs.ClusterheadCount()); err != nil {
			return fmt.Errorf("inserting round %d: %w", rs.Round, err)
		}
		for i, n := range rs.Nodes {
			if _, err := nodeStmt.ExecContext(ctx, s.RunID, rs.Round, i+1, n.Draw, n.Cooldown, boolInt(n.Eligible), boolInt(n.Clusterhead)); err != nil {
				return fmt.Errorf("inserting round %d node %d: %w", rs.Round, i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
