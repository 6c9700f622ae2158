package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"voicetracker/capture"
	"voicetracker/expense"
	"voicetracker/visual"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrClosed            = errors.New("session controller is closed")
)

type Recorder interface {
	Start(ctx context.Context) (*capture.Session, error)
}

type Visualizer interface {
	Attach(src visual.Source) *visual.Handle
}

type Submitter interface {
	Submit(ctx context.Context, clip capture.Clip) (expense.Report, error)
}

// Controller owns the single session state and the capture resources of
// the active recording.
type Controller struct {
	recorder   Recorder
	visualizer Visualizer
	submitter  Submitter
	logger     *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   State
	closed  bool
	capture *capture.Session
	handle  *visual.Handle
	recDone chan struct{}
	pending []State
	notify  chan struct{}
	updates chan State
}

// New builds a controller. visualizer may be nil.
func New(recorder Recorder, visualizer Visualizer, submitter Submitter, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		recorder:   recorder,
		visualizer: visualizer,
		submitter:  submitter,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		state:      Idle{},
		notify:     make(chan struct{}, 1),
		updates:    make(chan State, 16),
	}
	go c.forward()
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Updates delivers every state change in order. It is closed by Close.
func (c *Controller) Updates() <-chan State {
	return c.updates
}

// Frames returns the live spectrum of the active recording, or nil.
func (c *Controller) Frames() <-chan visual.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle.Frames()
}

// Start begins a new recording. It is only valid from Idle. If the
// microphone cannot be opened the controller stays Idle with a notice.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if _, ok := c.state.(Idle); !ok {
		return c.invalid("start")
	}

	sess, err := c.recorder.Start(c.ctx)
	if err != nil {
		c.logger.Error("start recording", "error", err)
		c.setState(Idle{Notice: UserMessage(err)})
		return err
	}

	c.capture = sess
	if c.visualizer != nil {
		c.handle = c.visualizer.Attach(sess.Tap())
	}
	c.recDone = make(chan struct{})
	go c.watchElapsed(sess, c.recDone)

	c.setState(Recording{})
	return nil
}

// Stop finishes the recording and submits it. The result arrives later
// as Success or Failed.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if _, ok := c.state.(Recording); !ok {
		return c.invalid("stop")
	}

	c.setState(Processing{})
	clip, err := c.release()

	c.wg.Add(1)
	go c.submit(clip, err)
	return nil
}

// Reset returns a finished session to Idle.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	switch c.state.(type) {
	case Success, Failed:
		c.setState(Idle{})
		return nil
	default:
		return c.invalid("reset")
	}
}

// Close releases an active recording, cancels an in-flight submission and
// closes Updates.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if _, ok := c.state.(Recording); ok {
		c.release()
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// release stops capture and the visualizer. c.mu must be held.
func (c *Controller) release() (capture.Clip, error) {
	if c.recDone != nil {
		close(c.recDone)
		c.recDone = nil
	}
	seconds := c.capture.Elapsed()
	clip, err := c.capture.Stop()
	c.handle.Detach()
	c.logger.Debug("recording released", "seconds", seconds)
	c.capture, c.handle = nil, nil
	return clip, err
}

func (c *Controller) submit(clip capture.Clip, stopErr error) {
	defer c.wg.Done()
	if stopErr != nil {
		c.finish(nil, stopErr)
		return
	}
	report, err := c.submitter.Submit(c.ctx, clip)
	c.finish(&report, err)
}

// finish resolves or rejects the pending submission.
func (c *Controller) finish(report *expense.Report, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.state.(Processing); !ok {
		return
	}
	if err != nil {
		c.logger.Error("process recording", "error", err)
		c.setState(Failed{Message: UserMessage(err)})
		return
	}
	c.setState(Success{Report: *report})
}

// watchElapsed mirrors the recording's elapsed seconds into the state and
// fails the session if the device stops delivering audio.
func (c *Controller) watchElapsed(sess *capture.Session, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-sess.Done():
			c.captureFailed(sess)
			return
		case n := <-sess.Ticks():
			c.mu.Lock()
			if _, ok := c.state.(Recording); ok && c.capture == sess {
				c.setState(Recording{Elapsed: n})
			}
			c.mu.Unlock()
		}
	}
}

func (c *Controller) captureFailed(sess *capture.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.capture != sess {
		return
	}
	if _, ok := c.state.(Recording); !ok {
		return
	}
	err := sess.Err()
	if err == nil {
		err = capture.ErrDeviceUnavailable
	}
	c.release()
	c.logger.Error("recording interrupted", "error", err)
	c.setState(Failed{Message: UserMessage(err)})
}

func (c *Controller) invalid(trigger string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, trigger, c.state.Name())
}

// setState records s and queues it for Updates. c.mu must be held.
func (c *Controller) setState(s State) {
	c.logger.Debug("state", "from", c.state.Name(), "to", s.Name())
	c.state = s
	c.pending = append(c.pending, s)
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *Controller) forward() {
	defer close(c.updates)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.notify:
		}
		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		c.mu.Unlock()
		for _, s := range batch {
			select {
			case c.updates <- s:
			case <-c.ctx.Done():
				return
			}
		}
	}
}
