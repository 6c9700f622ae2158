package capture

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudio captures from the host's default input device.
type PortAudio struct{}

func (PortAudio) Open(sampleRate, framesPerBuffer int) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, classify(err)
	}

	if _, err := portaudio.DefaultInputDevice(); err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	in := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(in), in)
	if err != nil {
		portaudio.Terminate()
		return nil, classify(err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, classify(err)
	}
	return &portAudioStream{stream: stream, in: in}, nil
}

// portAudioStream serializes reads on mu. Close aborts the stream first so
// that a read blocked inside PortAudio returns before mu is taken.
type portAudioStream struct {
	stream *portaudio.Stream
	in     []int16

	mu        sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *portAudioStream) Read() ([]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil, io.EOF
	}
	if err := s.stream.Read(); err != nil {
		if s.closed.Load() {
			return nil, io.EOF
		}
		if errors.Is(err, portaudio.InputOverflowed) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]int16, len(s.in))
	copy(out, s.in)
	return out, nil
}

// Close stops the stream and releases the PortAudio host. The microphone
// indicator goes off once this returns.
func (s *portAudioStream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		abortErr := s.stream.Abort()

		s.mu.Lock()
		defer s.mu.Unlock()
		closeErr := s.stream.Close()
		termErr := portaudio.Terminate()
		s.closeErr = errors.Join(abortErr, closeErr, termErr)
	})
	return s.closeErr
}

func classify(err error) error {
	switch {
	case errors.Is(err, portaudio.DeviceUnavailable),
		errors.Is(err, portaudio.InvalidDevice):
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	case strings.Contains(strings.ToLower(err.Error()), "permission"),
		strings.Contains(strings.ToLower(err.Error()), "denied"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
}
