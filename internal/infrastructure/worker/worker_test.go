package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

type mockStatsSource struct {
	statsFunc func(ctx context.Context) (*entity.PipelineStats, error)
}

func (m *mockStatsSource) Stats(ctx context.Context) (*entity.PipelineStats, error) {
	return m.statsFunc(ctx)
}

type mockGauge struct {
	mu     sync.Mutex
	counts map[workflow.Stage]int
	calls  int
}

func (m *mockGauge) SetStageCounts(counts map[workflow.Stage]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = counts
	m.calls++
}

func (m *mockGauge) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestStatsWorker_PublishesCounts(t *testing.T) {
	source := &mockStatsSource{statsFunc: func(ctx context.Context) (*entity.PipelineStats, error) {
		return &entity.PipelineStats{Total: 2, ByStage: map[workflow.Stage]int{workflow.StageEntry: 2}}, nil
	}}
	gauge := &mockGauge{}
	w := NewStatsWorker(10*time.Millisecond, source, gauge, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()), "double start")

	require.Eventually(t, func() bool { return gauge.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	last, err := w.Last()
	require.NoError(t, err)
	assert.Equal(t, 2, last.Total)
	assert.Equal(t, 2, gauge.counts[workflow.StageEntry])
}

func TestStatsWorker_KeepsLastGoodStatsOnError(t *testing.T) {
	var calls int
	var mu sync.Mutex
	source := &mockStatsSource{statsFunc: func(ctx context.Context) (*entity.PipelineStats, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return &entity.PipelineStats{Total: 7}, nil
		}
		return nil, errors.New("store down")
	}}
	w := NewStatsWorker(5*time.Millisecond, source, nil, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	require.Eventually(t, func() bool { return w.Runs() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop())

	last, err := w.Last()
	assert.EqualError(t, err, "store down")
	assert.Equal(t, 7, last.Total)
}

func TestManager_Lifecycle(t *testing.T) {
	source := &mockStatsSource{statsFunc: func(ctx context.Context) (*entity.PipelineStats, error) {
		return &entity.PipelineStats{}, nil
	}}
	m := NewManager(zap.NewNop())
	m.Register(NewStatsWorker(time.Hour, source, nil, zap.NewNop()))
	assert.Equal(t, 1, m.Count())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.StartAll(context.Background()))

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	require.NoError(t, m.StopAll())
}
