package server

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Frame is advanced once per tick of a FrameLoop.
type Frame interface {
	Update()
}

// LoopConfig tunes a FrameLoop.
type LoopConfig struct {
	// Interval is the wall time between two frames.
	Interval time.Duration
	// MaxFrames stops the loop after that many frames; 0 means unbounded.
	MaxFrames int
	// Done reports whether the loop has nothing left to do. Checked after
	// every frame; nil means never.
	Done func() bool
}

// FrameLoop is a Service that calls Frame.Update at a fixed rate. Other
// goroutines touch the frame only through Do.
type FrameLoop struct {
	frame  Frame
	cfg    LoopConfig
	logger *zap.Logger

	mu     sync.Mutex
	frames int
	stop   chan struct{}
	once   sync.Once
}

// ErrLoopStopped is returned by Start on a loop that was already stopped.
var ErrLoopStopped = errors.New("server: frame loop already stopped")

// NewFrameLoop creates a loop driving frame.
//
// Precondition: frame and logger must be non-nil; cfg.Interval > 0.
func NewFrameLoop(frame Frame, cfg LoopConfig, logger *zap.Logger) *FrameLoop {
	if frame == nil || logger == nil {
		panic("server.NewFrameLoop: frame and logger must not be nil")
	}
	if cfg.Interval <= 0 {
		panic("server.NewFrameLoop: interval must be positive")
	}
	return &FrameLoop{frame: frame, cfg: cfg, logger: logger, stop: make(chan struct{})}
}

// Start ticks until Stop is called, MaxFrames is reached or Done reports true.
func (f *FrameLoop) Start() error {
	select {
	case <-f.stop:
		return ErrLoopStopped
	default:
	}
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-f.stop:
			f.logger.Info("frame loop stopped", zap.Int("frames", f.Frames()))
			return nil
		case <-ticker.C:
			if f.tick() {
				f.logger.Info("frame loop finished", zap.Int("frames", f.Frames()))
				return nil
			}
		}
	}
}

func (f *FrameLoop) tick() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame.Update()
	f.frames++
	if f.cfg.MaxFrames > 0 && f.frames >= f.cfg.MaxFrames {
		return true
	}
	return f.cfg.Done != nil && f.cfg.Done()
}

// Stop makes Start return. Safe to call more than once.
func (f *FrameLoop) Stop() {
	f.once.Do(func() { close(f.stop) })
}

// Do runs fn while no frame is being computed.
func (f *FrameLoop) Do(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

// Frames returns the number of frames computed so far.
func (f *FrameLoop) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}
