package visual

import (
	"context"
	"sync"
	"time"
)

// Frame is one spectrum snapshot, Bins values from low to high frequency.
type Frame []uint8

// Source supplies the latest window of samples, scaled to [-1, 1).
type Source interface {
	Window(dst []float64) int
}

type Visualizer struct {
	interval time.Duration
}

func New(frameRate int) *Visualizer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Visualizer{interval: time.Second / time.Duration(frameRate)}
}

// Attach starts a draw loop over src. The loop runs until Detach.
func (v *Visualizer) Attach(src Source) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		frames: make(chan Frame, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop(ctx, src, v.interval)
	return h
}

type Handle struct {
	frames chan Frame
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (h *Handle) loop(ctx context.Context, src Source, interval time.Duration) {
	defer close(h.done)
	defer close(h.frames)

	analyser := NewAnalyser()
	window := make([]float64, FFTSize)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		src.Window(window)
		frame := analyser.Frame(window)
		select {
		case h.frames <- frame:
		default:
			// consumer is behind; replace the pending frame
			select {
			case <-h.frames:
			default:
			}
			h.frames <- frame
		}
	}
}

// Frames is closed once the handle is detached.
func (h *Handle) Frames() <-chan Frame {
	if h == nil {
		return nil
	}
	return h.frames
}

// Detach stops the draw loop and waits for it to exit.
func (h *Handle) Detach() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}
