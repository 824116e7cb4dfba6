// Package history records pipeline runs in a local SQLite database so
// batch processing over many subjects can be audited later.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/domain/model"

	_ "modernc.org/sqlite"
)

// timeFormat pads fractional seconds to fixed width so the stored
// strings sort lexicographically in chronological order. RFC3339Nano
// trims trailing zeros, which would misorder runs within a second.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed RunStore.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open history database", goerr.V("path", path))
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			input_file TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS stages (
			run_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			seconds DOUBLE NOT NULL,
			skipped INTEGER NOT NULL DEFAULT 0,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to initialize history schema", goerr.V("path", path))
	}

	return &Store{db: db}, nil
}

func (s *Store) BeginRun(ctx context.Context, run *model.RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, subject_id, input_file, mode, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SubjectID, run.InputFile, string(run.Mode), string(run.Status),
		run.StartedAt.Format(timeFormat),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to record run start", goerr.V("run_id", run.ID))
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, run *model.RunRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE run_id = ?`,
		string(run.Status), run.Error, run.FinishedAt.Format(timeFormat), run.ID,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to record run finish", goerr.V("run_id", run.ID))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.New("run not found in history", goerr.V("run_id", run.ID))
	}
	return nil
}

func (s *Store) RecordStage(ctx context.Context, stage *model.StageRecord) error {
	skipped := 0
	if stage.Skipped {
		skipped = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stages (run_id, stage, seconds, skipped) VALUES (?, ?, ?, ?)`,
		stage.RunID, stage.Stage, stage.Duration.Seconds(), skipped,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to record stage", goerr.V("run_id", stage.RunID), goerr.V("stage", stage.Stage))
	}
	return nil
}

// RecentRuns returns the newest runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*model.RunRecord, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, subject_id, input_file, mode, status, COALESCE(error, ''),
		        started_at, COALESCE(finished_at, '')
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		var mode, started, finished string
		if err := rows.Scan(&r.ID, &r.SubjectID, &r.InputFile, &mode, &r.Status, &r.Error, &started, &finished); err != nil {
			return nil, goerr.Wrap(err, "failed to scan run row")
		}
		r.Mode = model.RegistrationMode(mode)
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		if finished != "" {
			if t, err := time.Parse(time.RFC3339Nano, finished); err == nil {
				r.FinishedAt = t
			}
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
