package visual

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	FFTSize        = 256
	Bins           = FFTSize / 2
	minDecibels    = -100.0
	maxDecibels    = -30.0
	smoothingConst = 0.8
)

// Analyser turns a window of samples into byte-scaled frequency magnitudes
// the way a browser AnalyserNode does: Blackman window, FFT, temporal
// smoothing, then dB mapped linearly onto 0..255.
type Analyser struct {
	fft      *fourier.FFT
	window   []float64
	input    []float64
	coeffs   []complex128
	smoothed []float64
}

func NewAnalyser() *Analyser {
	a := &Analyser{
		fft:      fourier.NewFFT(FFTSize),
		window:   make([]float64, FFTSize),
		input:    make([]float64, FFTSize),
		smoothed: make([]float64, Bins),
	}
	for i := range a.window {
		x := 2 * math.Pi * float64(i) / FFTSize
		a.window[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}
	return a
}

// Frame analyses samples (at most FFTSize, newest last) into Bins values.
func (a *Analyser) Frame(samples []float64) Frame {
	clear(a.input)
	if len(samples) > FFTSize {
		samples = samples[len(samples)-FFTSize:]
	}
	copy(a.input[FFTSize-len(samples):], samples)
	for i := range a.input {
		a.input[i] *= a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.input)

	frame := make(Frame, Bins)
	for k := 0; k < Bins; k++ {
		c := a.coeffs[k]
		magnitude := math.Hypot(real(c), imag(c)) / FFTSize
		a.smoothed[k] = smoothingConst*a.smoothed[k] + (1-smoothingConst)*magnitude
		frame[k] = toByte(a.smoothed[k])
	}
	return frame
}

func toByte(magnitude float64) uint8 {
	if magnitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(magnitude)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	default:
		return uint8(scaled)
	}
}
