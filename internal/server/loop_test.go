package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"
)

type countingFrame struct {
	updates atomic.Int64
}

func (c *countingFrame) Update() { c.updates.Add(1) }

func TestFrameLoop_MaxFrames(t *testing.T) {
	frame := &countingFrame{}
	loop := NewFrameLoop(frame, LoopConfig{Interval: time.Millisecond, MaxFrames: 5}, zaptest.NewLogger(t))
	require.NoError(t, loop.Start())
	assert.Equal(t, int64(5), frame.updates.Load())
	assert.Equal(t, 5, loop.Frames())
}

func TestFrameLoop_Done(t *testing.T) {
	frame := &countingFrame{}
	loop := NewFrameLoop(frame, LoopConfig{
		Interval: time.Millisecond,
		Done:     func() bool { return frame.updates.Load() >= 3 },
	}, zaptest.NewLogger(t))
	require.NoError(t, loop.Start())
	assert.Equal(t, int64(3), frame.updates.Load())
}

func TestFrameLoop_StopAndRestart(t *testing.T) {
	loop := NewFrameLoop(&countingFrame{}, LoopConfig{Interval: time.Millisecond}, zaptest.NewLogger(t))
	done := make(chan error, 1)
	go func() { done <- loop.Start() }()
	require.Eventually(t, func() bool { return loop.Frames() > 0 }, 2*time.Second, time.Millisecond)

	loop.Stop()
	loop.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.ErrorIs(t, loop.Start(), ErrLoopStopped)
}

func TestFrameLoop_DoIsExclusive(t *testing.T) {
	frame := &countingFrame{}
	loop := NewFrameLoop(frame, LoopConfig{Interval: time.Millisecond, MaxFrames: 50}, zaptest.NewLogger(t))
	done := make(chan error, 1)
	go func() { done <- loop.Start() }()
	for i := 0; i < 10; i++ {
		loop.Do(func() {
			before := frame.updates.Load()
			time.Sleep(time.Millisecond)
			assert.Equal(t, before, frame.updates.Load())
		})
	}
	require.NoError(t, <-done)
}

func TestFrameLoop_UnderLifecycle(t *testing.T) {
	frame := &countingFrame{}
	loop := NewFrameLoop(frame, LoopConfig{Interval: time.Millisecond, MaxFrames: 10}, zaptest.NewLogger(t))
	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.Add("frame-loop", loop)
	var savedAt atomic.Int64
	lc.OnShutdown("autosave", func(context.Context) error {
		savedAt.Store(frame.updates.Load())
		return nil
	})
	require.NoError(t, wait(t, runAsync(lc, context.Background())))
	assert.Equal(t, int64(10), savedAt.Load())
}

func TestFrameLoop_Preconditions(t *testing.T) {
	assert.Panics(t, func() { NewFrameLoop(nil, LoopConfig{Interval: time.Millisecond}, zaptest.NewLogger(t)) })
	assert.Panics(t, func() { NewFrameLoop(&countingFrame{}, LoopConfig{}, zaptest.NewLogger(t)) })
}

func TestPropertyFrameLoop_RunsExactlyMaxFrames(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "max_frames")
		frame := &countingFrame{}
		loop := NewFrameLoop(frame, LoopConfig{Interval: 100 * time.Microsecond, MaxFrames: n}, zaptest.NewLogger(t))
		if err := loop.Start(); err != nil {
			rt.Fatalf("start: %v", err)
		}
		if got := frame.updates.Load(); got != int64(n) {
			rt.Fatalf("ran %d frames, want %d", got, n)
		}
	})
}
