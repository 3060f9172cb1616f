package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/model"
)

func TestSQLiteStorage_RunLifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run, err := store.StartRun(ctx, "data/mtn_sms.xml")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunRunning, run.Status)
	assert.Equal(t, -1, run.LastCommittedIndex)

	run.Status = model.RunCompleted
	run.Total = 10
	run.Accepted = 8
	run.Rejected = 2
	run.CastErrors = 1
	run.LastCommittedIndex = 9
	require.NoError(t, store.FinishRun(ctx, run))
	require.NotNil(t, run.FinishedAt)

	runs, err := store.ListRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "data/mtn_sms.xml", got.Source)
	assert.Equal(t, model.RunCompleted, got.Status)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 8, got.Accepted)
	assert.Equal(t, 2, got.Rejected)
	assert.Equal(t, 1, got.CastErrors)
	assert.Equal(t, 9, got.LastCommittedIndex)
	assert.NotNil(t, got.FinishedAt)
	assert.Empty(t, got.Error)
}

func TestSQLiteStorage_FailedRunKeepsError(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	run, err := store.StartRun(ctx, "corpus.xml")
	require.NoError(t, err)

	run.Status = model.RunFailed
	run.Total = 5
	run.Accepted = 2
	run.LastCommittedIndex = 2
	run.Error = "sink failure at message 3"
	require.NoError(t, store.FinishRun(ctx, run))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunFailed, runs[0].Status)
	assert.Equal(t, "sink failure at message 3", runs[0].Error)
}

func TestSQLiteStorage_FinishUnknownRun(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.FinishRun(context.Background(), &model.IngestRun{ID: "missing", Status: model.RunCompleted})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorage_ListRunsNewestFirst(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.StartRun(ctx, "one.xml")
	require.NoError(t, err)
	second, err := store.StartRun(ctx, "two.xml")
	require.NoError(t, err)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestSQLiteStorage_StartRunRequiresSource(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.StartRun(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyString)
}
