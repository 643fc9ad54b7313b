package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/worker"
)

// loopWorker крутится до остановки
type loopWorker struct {
	*worker.BaseWorker
	ticks atomic.Int64
}

func newLoopWorker(name string) *loopWorker {
	return &loopWorker{BaseWorker: worker.NewBaseWorker(name, "group", nil, zap.NewNop())}
}

func (w *loopWorker) Start(ctx context.Context) error {
	for w.Pause(ctx, time.Millisecond) {
		w.ticks.Add(1)
	}
	return nil
}

// stuckWorker игнорирует Stop
type stuckWorker struct {
	*worker.BaseWorker
	release chan struct{}
}

func (w *stuckWorker) Start(ctx context.Context) error {
	<-w.release
	return nil
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(time.Second, zap.NewNop())
	a, b := newLoopWorker("a"), newLoopWorker("b")
	require.NoError(t, m.Register(a))
	require.NoError(t, m.Register(b))

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()), "second start")
	assert.Error(t, m.Register(newLoopWorker("late")))

	assert.Eventually(t, func() bool { return a.ticks.Load() > 0 && b.ticks.Load() > 0 },
		time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(0, zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_ShutdownTimeout(t *testing.T) {
	m := worker.NewWorkerManager(20*time.Millisecond, zap.NewNop())
	w := &stuckWorker{
		BaseWorker: worker.NewBaseWorker("stuck", "group", nil, zap.NewNop()),
		release:    make(chan struct{}),
	}
	defer close(w.release)

	require.NoError(t, m.Register(w))
	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Stop())
}

func TestBaseWorker_Pause(t *testing.T) {
	clock := clockwork.NewFakeClock()
	w := worker.NewBaseWorker("pause", "group", clock, zap.NewNop())

	result := make(chan bool, 1)
	go func() { result <- w.Pause(context.Background(), time.Minute) }()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Minute)
	assert.True(t, <-result)

	go func() { result <- w.Pause(context.Background(), time.Hour) }()
	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	require.NoError(t, w.Stop())
	assert.False(t, <-result)
}
