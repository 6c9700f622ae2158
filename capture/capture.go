package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrDeviceUnavailable = errors.New("no audio input device available")
)

// Clip is a finalized recording. Data must not be modified once the clip
// has been returned from Stop.
type Clip struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

func (c Clip) Empty() bool {
	return len(c.Data) == 0
}

// Stream is an open input stream. Read blocks until one buffer of mono
// 16-bit samples is available and returns io.EOF once the stream is
// exhausted or closed.
type Stream interface {
	Read() ([]int16, error)
	Close() error
}

type Device interface {
	Open(sampleRate, framesPerBuffer int) (Stream, error)
}

type Config struct {
	SampleRate      int
	FramesPerBuffer int
	TapSize         int
	TickInterval    time.Duration
}

func DefaultConfig() Config {
	return Config{
		SampleRate:      16000,
		FramesPerBuffer: 1024,
		TapSize:         256,
		TickInterval:    time.Second,
	}
}

type Recorder struct {
	device Device
	config Config
	logger *log.Logger
}

func NewRecorder(device Device, config Config, logger *log.Logger) *Recorder {
	defaults := DefaultConfig()
	if config.SampleRate <= 0 {
		config.SampleRate = defaults.SampleRate
	}
	if config.FramesPerBuffer <= 0 {
		config.FramesPerBuffer = defaults.FramesPerBuffer
	}
	if config.TapSize <= 0 {
		config.TapSize = defaults.TapSize
	}
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{device: device, config: config, logger: logger}
}

// Start opens the input device and begins buffering audio until the
// returned session is stopped.
func (r *Recorder) Start(ctx context.Context) (*Session, error) {
	stream, err := r.device.Open(r.config.SampleRate, r.config.FramesPerBuffer)
	if err != nil {
		if !errors.Is(err, ErrPermissionDenied) && !errors.Is(err, ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:         uuid.NewString(),
		stream:     stream,
		tap:        NewTap(r.config.TapSize),
		sampleRate: r.config.SampleRate,
		ticks:      make(chan int, 1),
		cancel:     cancel,
		readerDone: make(chan struct{}),
		tickerDone: make(chan struct{}),
	}
	s.logger = r.logger.With("session", shortID(s.ID))

	go s.read(ctx)
	go s.tick(ctx, r.config.TickInterval)

	s.logger.Info("recording started", "sample_rate", r.config.SampleRate)
	return s, nil
}

// Session is one live recording. The zero value and a nil *Session are both
// valid stopped sessions.
type Session struct {
	ID string

	stream     Stream
	tap        *Tap
	sampleRate int
	logger     *log.Logger

	mu      sync.Mutex
	chunks  [][]int16
	samples int

	elapsed atomic.Int64
	ticks   chan int

	cancel     context.CancelFunc
	readerDone chan struct{}
	tickerDone chan struct{}

	readErr error

	stopOnce sync.Once
	clip     Clip
	stopErr  error
}

// maxReadErrors is the number of consecutive failed reads after which the
// device is considered lost.
const maxReadErrors = 3

func (s *Session) read(ctx context.Context) {
	defer close(s.readerDone)
	failures := 0
	for ctx.Err() == nil {
		samples, err := s.stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			failures++
			s.logger.Warn("read audio", "error", err, "attempt", failures)
			if failures >= maxReadErrors {
				s.fail(err)
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		failures = 0
		if len(samples) == 0 {
			continue
		}
		s.mu.Lock()
		s.chunks = append(s.chunks, samples)
		s.samples += len(samples)
		s.mu.Unlock()
		s.tap.Write(samples)
	}
}

// fail records a read error that ended the recording and stops the ticker.
func (s *Session) fail(err error) {
	if !errors.Is(err, ErrPermissionDenied) && !errors.Is(err, ErrDeviceUnavailable) {
		err = fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
	s.logger.Error("recording failed", "error", err)
	s.cancel()
}

// Done is closed when the session stops reading, either because it was
// stopped or because the device failed. Err tells the two apart.
func (s *Session) Done() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.readerDone
}

// Err returns the device error that ended the recording, if any.
func (s *Session) Err() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr
}

func (s *Session) tick(ctx context.Context, interval time.Duration) {
	defer close(s.tickerDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := int(s.elapsed.Add(1))
			select {
			case s.ticks <- n:
			default:
				select {
				case <-s.ticks:
				default:
				}
				select {
				case s.ticks <- n:
				default:
				}
			}
		}
	}
}

// Elapsed is the number of whole seconds recorded so far.
func (s *Session) Elapsed() int {
	if s == nil {
		return 0
	}
	return int(s.elapsed.Load())
}

// Ticks delivers the elapsed second count once per tick. Only the most
// recent value is kept when the reader falls behind.
func (s *Session) Ticks() <-chan int {
	if s == nil {
		return nil
	}
	return s.ticks
}

func (s *Session) Tap() *Tap {
	if s == nil {
		return nil
	}
	return s.tap
}

// Stop ends the recording, releases the input stream and returns the clip.
// Further calls return the same clip. If the device failed during the
// recording Stop returns that error instead.
func (s *Session) Stop() (Clip, error) {
	if s == nil || s.stream == nil {
		return Clip{}, nil
	}
	s.stopOnce.Do(func() {
		s.cancel()
		// Closing the stream unblocks a pending Read.
		if err := s.stream.Close(); err != nil {
			s.logger.Warn("close stream", "error", err)
		}
		<-s.readerDone
		<-s.tickerDone

		s.mu.Lock()
		chunks, samples, readErr := s.chunks, s.samples, s.readErr
		s.chunks = nil
		s.mu.Unlock()

		if readErr != nil {
			s.stopErr = readErr
			return
		}

		data, err := EncodeWAV(chunks, s.sampleRate)
		if err != nil {
			s.stopErr = fmt.Errorf("encode recording: %w", err)
			s.logger.Error("recording failed", "error", err)
			return
		}
		s.clip = Clip{
			Data:     data,
			MIMEType: "audio/wav",
			Duration: time.Duration(samples) * time.Second / time.Duration(s.sampleRate),
		}
		s.logger.Info("recording stopped",
			"duration", s.clip.Duration,
			"bytes", len(data),
		)
	})
	return s.clip, s.stopErr
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
