package capture

import (
	"sync"
)

// Tap holds the most recent samples of a live recording for analysis.
type Tap struct {
	mu    sync.Mutex
	ring  []int16
	next  int
	count int
}

func NewTap(size int) *Tap {
	return &Tap{ring: make([]int16, size)}
}

func (t *Tap) Write(samples []int16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(samples) > len(t.ring) {
		samples = samples[len(samples)-len(t.ring):]
	}
	for _, v := range samples {
		t.ring[t.next] = v
		t.next = (t.next + 1) % len(t.ring)
	}
	t.count = min(t.count+len(samples), len(t.ring))
}

// Window copies the latest samples, oldest first and scaled to [-1, 1),
// into dst. Missing history is left as silence. It returns the number of
// real samples copied.
func (t *Tap) Window(dst []float64) int {
	if t == nil {
		clear(dst)
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	n := min(len(dst), t.count)
	pad := len(dst) - n
	clear(dst[:pad])
	start := (t.next - n + len(t.ring)) % len(t.ring)
	for i := 0; i < n; i++ {
		dst[pad+i] = float64(t.ring[(start+i)%len(t.ring)]) / 32768
	}
	return n
}
