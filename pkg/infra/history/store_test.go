package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/naba-lab/parcellate/pkg/domain/model"
	"github.com/naba-lab/parcellate/pkg/infra/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "runs.db"))
	gt.NoError(t, err)
	t.Cleanup(func() {
		gt.NoError(t, store.Close())
	})
	return store
}

func newRecord(subject string) *model.RunRecord {
	return &model.RunRecord{
		ID:        subject + "-run",
		SubjectID: subject,
		InputFile: "/data/" + subject + ".vtk",
		Mode:      model.RegistrationRigid,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

func TestStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	run := newRecord("sub01")
	gt.NoError(t, store.BeginRun(ctx, run))

	run.Finish(nil)
	gt.NoError(t, store.FinishRun(ctx, run))

	runs, err := store.RecentRuns(ctx, 10)
	gt.NoError(t, err)
	gt.Equal(t, len(runs), 1)
	gt.Equal(t, runs[0].ID, "sub01-run")
	gt.Equal(t, runs[0].Status, model.RunStatusSucceeded)
	gt.Equal(t, runs[0].Mode, model.RegistrationRigid)
	gt.True(t, !runs[0].FinishedAt.IsZero())
}

func TestStore_FailedRunKeepsError(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	run := newRecord("sub02")
	gt.NoError(t, store.BeginRun(ctx, run))

	run.Finish(errors.New("registration blew up"))
	gt.NoError(t, store.FinishRun(ctx, run))

	runs, err := store.RecentRuns(ctx, 10)
	gt.NoError(t, err)
	gt.Equal(t, runs[0].Status, model.RunStatusFailed)
	gt.Equal(t, runs[0].Error, "registration blew up")
}

func TestStore_FinishUnknownRun(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	run := newRecord("ghost")
	run.Finish(nil)
	gt.Error(t, store.FinishRun(ctx, run))
}

func TestStore_RecordStage(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	run := newRecord("sub03")
	gt.NoError(t, store.BeginRun(ctx, run))

	gt.NoError(t, store.RecordStage(ctx, &model.StageRecord{
		RunID:    run.ID,
		Stage:    "registration",
		Duration: 42 * time.Second,
	}))
	gt.NoError(t, store.RecordStage(ctx, &model.StageRecord{
		RunID:   run.ID,
		Stage:   "initial_clustering",
		Skipped: true,
	}))
}

func TestStore_RecentRunsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	base := time.Now().UTC()
	for i, subject := range []string{"a", "b", "c"} {
		run := newRecord(subject)
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		gt.NoError(t, store.BeginRun(ctx, run))
	}

	runs, err := store.RecentRuns(ctx, 2)
	gt.NoError(t, err)
	gt.Equal(t, len(runs), 2)
	gt.Equal(t, runs[0].SubjectID, "c")
	gt.Equal(t, runs[1].SubjectID, "b")
}

func TestStore_RecentRunsSubSecondOrder(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	// A whole-second timestamp followed by a later sub-second one:
	// ordering must stay chronological even within the same second.
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	whole := newRecord("whole")
	whole.StartedAt = base
	later := newRecord("later")
	later.StartedAt = base.Add(500 * time.Millisecond)

	gt.NoError(t, store.BeginRun(ctx, whole))
	gt.NoError(t, store.BeginRun(ctx, later))

	runs, err := store.RecentRuns(ctx, 10)
	gt.NoError(t, err)
	gt.Equal(t, len(runs), 2)
	gt.Equal(t, runs[0].SubjectID, "later")
	gt.Equal(t, runs[1].SubjectID, "whole")
	gt.Equal(t, runs[0].StartedAt, later.StartedAt)
}
