package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func stageRecord() *entity.StageHistory {
	return &entity.StageHistory{
		ID: "h1", CandidateID: "cand_1", FromStage: workflow.StageEntry, ToStage: workflow.StageAwaitingDataflow, CreatedAt: time.Now(),
	}
}

func TestTransactionManager_CommitsTogether(t *testing.T) {
	client, mr := newTestClient(t)
	candidates := NewCandidateStore(client)
	history := NewHistoryStore(client)
	tx := NewTransactionManager(client)
	ctx := context.Background()
	require.NoError(t, candidates.Create(ctx, newCandidate("cand_1", time.Now())))

	err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
		c, v, err := candidates.Load(txCtx, "cand_1")
		require.NoError(t, err)
		c.Stage = workflow.StageAwaitingDataflow
		require.NoError(t, candidates.Save(txCtx, c, v))
		assert.Equal(t, int64(2), c.Version)
		require.NoError(t, history.Create(txCtx, stageRecord()))

		assert.False(t, mr.Exists("test:history:cand_1"), "queued until commit")
		return nil
	})
	require.NoError(t, err)

	c, v, err := candidates.Load(ctx, "cand_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, workflow.StageAwaitingDataflow, c.Stage)
	records, err := history.GetByCandidateID(ctx, "cand_1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestTransactionManager_ErrorDiscardsAllWrites(t *testing.T) {
	client, mr := newTestClient(t)
	candidates := NewCandidateStore(client)
	history := NewHistoryStore(client)
	ctx := context.Background()
	require.NoError(t, candidates.Create(ctx, newCandidate("cand_1", time.Now())))

	err := NewTransactionManager(client).WithTransaction(ctx, func(txCtx context.Context) error {
		c, v, err := candidates.Load(txCtx, "cand_1")
		require.NoError(t, err)
		c.Stage = workflow.StageAwaitingDataflow
		require.NoError(t, candidates.Save(txCtx, c, v))
		require.NoError(t, history.Create(txCtx, stageRecord()))
		return errors.New("gate check failed late")
	})
	require.EqualError(t, err, "gate check failed late")

	c, v, err := candidates.Load(ctx, "cand_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, workflow.StageEntry, c.Stage)
	assert.False(t, mr.Exists("test:history:cand_1"))
}

func TestTransactionManager_ConflictAtCommit(t *testing.T) {
	client, mr := newTestClient(t)
	candidates := NewCandidateStore(client)
	history := NewHistoryStore(client)
	ctx := context.Background()
	require.NoError(t, candidates.Create(ctx, newCandidate("cand_1", time.Now())))

	err := NewTransactionManager(client).WithTransaction(ctx, func(txCtx context.Context) error {
		c, v, err := candidates.Load(txCtx, "cand_1")
		require.NoError(t, err)
		c.Stage = workflow.StageAwaitingDataflow
		require.NoError(t, candidates.Save(txCtx, c, v))
		require.NoError(t, history.Create(txCtx, stageRecord()))

		// a direct save lands before the queued one commits
		other, ov, err := candidates.Load(ctx, "cand_1")
		require.NoError(t, err)
		other.Name = "Renamed"
		return candidates.Save(ctx, other, ov)
	})
	assert.ErrorIs(t, err, port.ErrVersionConflict)

	c, v, err := candidates.Load(ctx, "cand_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, "Renamed", c.Name)
	assert.Equal(t, workflow.StageEntry, c.Stage)
	assert.False(t, mr.Exists("test:history:cand_1"))
}
