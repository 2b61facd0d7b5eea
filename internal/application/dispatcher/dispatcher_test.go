package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honey822438/RecuirtSys/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) HasError(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.errors {
		if e == msg {
			return true
		}
	}
	return false
}

func newEvt(t event.Type) *event.Event {
	return event.NewEvent(t, "cand_1", "emp_1", nil)
}

func TestDispatch_RunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string

	d.SubscribeNamed(event.TypeStageChanged, "first", "", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "first")
		return nil
	})
	d.SubscribeNamed(event.TypeStageChanged, "second", "", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "second")
		return nil
	})
	d.SubscribeNamed(AnyType, "audit", "", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "audit")
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), newEvt(event.TypeStageChanged)))
	assert.Equal(t, []string{"first", "second", "audit"}, order)
}

func TestDispatch_StopsOnFirstError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	secondCalled := false

	d.SubscribeNamed(event.TypeCandidateCreated, "failing", "", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	d.SubscribeNamed(event.TypeCandidateCreated, "after", "", func(ctx context.Context, evt *event.Event) error {
		secondCalled = true
		return nil
	})

	err := d.Dispatch(context.Background(), newEvt(event.TypeCandidateCreated))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.False(t, secondCalled)
}

func TestDispatch_RecoversPanics(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))
	d.Subscribe(event.TypeProfileUpdated, func(ctx context.Context, evt *event.Event) error {
		panic("kaboom")
	})

	err := d.Dispatch(context.Background(), newEvt(event.TypeProfileUpdated))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, logger.HasError("Handler panic recovered"))
}

func TestDispatchAsync_SurvivesCancelledContext(t *testing.T) {
	d := NewDispatcher()
	var seen atomic.Int32
	var ctxErr atomic.Value

	d.Subscribe(event.TypeStageChanged, func(ctx context.Context, evt *event.Event) error {
		time.Sleep(10 * time.Millisecond)
		ctxErr.Store(fmt.Sprint(ctx.Err()))
		seen.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.DispatchAsync(ctx, newEvt(event.TypeStageChanged))
	cancel()

	require.NoError(t, d.Close())
	assert.Equal(t, int32(1), seen.Load())
	assert.Equal(t, "<nil>", ctxErr.Load())
}

func TestDispatchAsync_LogsHandlerErrors(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))
	d.Subscribe(event.TypeDocumentsUpdated, func(ctx context.Context, evt *event.Event) error {
		return errors.New("notifier offline")
	})

	d.DispatchAsync(context.Background(), newEvt(event.TypeDocumentsUpdated))
	require.NoError(t, d.Close())

	assert.True(t, logger.HasError("Async handler error"))
}

func TestUnsubscribeAndList(t *testing.T) {
	d := NewDispatcher()
	noop := func(ctx context.Context, evt *event.Event) error { return nil }

	d.SubscribeNamed(event.TypeStageChanged, "notifier", "tells the hiring officer", noop)
	d.Subscribe(event.TypeStageChanged, noop)

	handlers := d.ListHandlers(event.TypeStageChanged)
	require.Len(t, handlers, 2)
	assert.Equal(t, "notifier", handlers[0].Name)
	assert.Equal(t, "tells the hiring officer", handlers[0].Description)
	assert.Nil(t, handlers[0].Handler)

	d.Unsubscribe(event.TypeStageChanged, "notifier")
	handlers = d.ListHandlers(event.TypeStageChanged)
	require.Len(t, handlers, 1)
	assert.NotEqual(t, "notifier", handlers[0].Name)
}

func TestClose(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))

	require.NoError(t, d.Close())
	assert.Error(t, d.Close())
	assert.ErrorIs(t, d.Dispatch(context.Background(), newEvt(event.TypeStageChanged)), ErrClosed)

	d.DispatchAsync(context.Background(), newEvt(event.TypeStageChanged))
	assert.True(t, logger.HasError("Cannot dispatch async event, dispatcher is closed"))
}
