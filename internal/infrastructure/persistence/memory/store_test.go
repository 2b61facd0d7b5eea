package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func newCandidate(id string) *entity.Candidate {
	return &entity.Candidate{
		ID:        id,
		Name:      "Test " + id,
		Stage:     workflow.StageEntry,
		Progress:  5,
		Documents: entity.NewDocumentSet(entity.Document{Name: entity.DocPassport, Status: entity.DocumentStatusPending}),
		CreatedAt: time.Now(),
	}
}

func TestCandidateStore_CreateLoadSave(t *testing.T) {
	ctx := context.Background()
	s := NewCandidateStore()

	c := newCandidate("cand_1")
	require.NoError(t, s.Create(ctx, c))
	assert.Equal(t, int64(1), c.Version)
	assert.ErrorIs(t, s.Create(ctx, newCandidate("cand_1")), port.ErrDuplicate)

	loaded, version, err := s.Load(ctx, "cand_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	loaded.Stage = workflow.StageAwaitingDataflow
	require.NoError(t, s.Save(ctx, loaded, version))
	assert.Equal(t, int64(2), loaded.Version)

	// The first copy is now stale
	c.Stage = workflow.StageAwaitingQVP
	err = s.Save(ctx, c, 1)
	assert.ErrorIs(t, err, port.ErrVersionConflict)

	again, version, err := s.Load(ctx, "cand_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	assert.Equal(t, workflow.StageAwaitingDataflow, again.Stage)
}

func TestCandidateStore_LoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewCandidateStore()
	require.NoError(t, s.Create(ctx, newCandidate("cand_1")))

	a, _, err := s.Load(ctx, "cand_1")
	require.NoError(t, err)
	a.UpsertDocument(entity.Document{Name: entity.DocPassport, Status: entity.DocumentStatusReceived})

	b, _, err := s.Load(ctx, "cand_1")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusPending, b.Documents[entity.DocPassport].Status)
}

func TestCandidateStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewCandidateStore()

	_, _, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrCandidateNotFound)
	assert.ErrorIs(t, s.Save(ctx, newCandidate("missing"), 1), port.ErrCandidateNotFound)
}

func TestCandidateStore_ConcurrentSaveExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	s := NewCandidateStore()
	require.NoError(t, s.Create(ctx, newCandidate("cand_1")))

	const writers = 8
	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newCandidate("cand_1")
			if err := s.Save(ctx, c, 1); err == nil {
				wins.Add(1)
			} else if assert.ErrorIs(t, err, port.ErrVersionConflict) {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(writers-1), conflicts.Load())
}

func TestCandidateStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewCandidateStore()
	for i, id := range []string{"cand_a", "cand_b", "cand_c"} {
		c := newCandidate(id)
		c.CreatedAt = time.Date(2026, 1, 1, i, 0, 0, 0, time.UTC)
		c.HiringOfficerID = "emp_h1"
		if id == "cand_b" {
			c.HiringOfficerID = "emp_h2"
		}
		require.NoError(t, s.Create(ctx, c))
	}

	all, err := s.List(ctx, port.CandidateFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "cand_a", all[0].ID)

	mine, err := s.List(ctx, port.CandidateFilter{HiringOfficerID: "emp_h1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestEmployeeStore(t *testing.T) {
	ctx := context.Background()
	s := NewEmployeeStore()

	e := &entity.Employee{ID: "emp_1", Name: "Hina", Role: entity.RoleHiring, Email: "Hina@RecruitSys.com"}
	require.NoError(t, s.Create(ctx, e))
	assert.ErrorIs(t, s.Create(ctx, &entity.Employee{ID: "emp_2", Email: "hina@recruitsys.com"}), port.ErrDuplicate)
	assert.ErrorIs(t, s.Create(ctx, &entity.Employee{ID: "emp_1", Email: "other@recruitsys.com"}), port.ErrDuplicate)

	got, err := s.GetByEmail(ctx, "hina@recruitsys.com")
	require.NoError(t, err)
	assert.Equal(t, "emp_1", got.ID)

	_, err = s.GetByID(ctx, "emp_404")
	assert.ErrorIs(t, err, port.ErrEmployeeNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore()

	require.NoError(t, s.Create(ctx, &entity.StageHistory{ID: "h1", CandidateID: "cand_1", ToStage: workflow.StageAwaitingDataflow}))
	require.NoError(t, s.Create(ctx, &entity.StageHistory{ID: "h2", CandidateID: "cand_1", ToStage: workflow.StageDataflowApplied}))
	require.NoError(t, s.Create(ctx, &entity.StageHistory{ID: "h3", CandidateID: "cand_2"}))

	records, err := s.GetByCandidateID(ctx, "cand_1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "h1", records[0].ID)
	assert.Equal(t, "h2", records[1].ID)

	none, err := s.GetByCandidateID(ctx, "cand_x")
	require.NoError(t, err)
	assert.Empty(t, none)
}
