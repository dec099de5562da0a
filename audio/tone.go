package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/tendril/parameter"
)

// TensionTone is an endless sine whose pitch and loudness follow strand speed
// SetSpeed may be called from any goroutine; Stream runs on the mixer goroutine
type TensionTone struct {
	rate beep.SampleRate

	targetFreq atomic.Uint64 // math.Float64bits
	targetAmp  atomic.Uint64

	// Accessed only by Stream
	freq  float64
	amp   float64
	phase float64
}

// NewTensionTone creates a silent tone at the base pitch
func NewTensionTone(rate beep.SampleRate) *TensionTone {
	t := &TensionTone{
		rate: rate,
		freq: parameter.ToneBaseFrequency,
	}
	t.targetFreq.Store(math.Float64bits(parameter.ToneBaseFrequency))
	return t
}

// SetSpeed retargets the tone for a tip speed in m/s; non-finite or negative speed silences it
func (t *TensionTone) SetSpeed(speed float64) {
	if !(speed > 0) || math.IsInf(speed, 0) {
		speed = 0
	}
	freq := min(parameter.ToneBaseFrequency+speed*parameter.ToneSpeedScale, parameter.ToneMaxFrequency)
	amp := min(speed/parameter.ToneSpeedFull, 1) * parameter.ToneMaxAmplitude

	t.targetFreq.Store(math.Float64bits(freq))
	t.targetAmp.Store(math.Float64bits(amp))
}

// Target returns the current pitch and loudness targets
func (t *TensionTone) Target() (freq, amp float64) {
	return math.Float64frombits(t.targetFreq.Load()), math.Float64frombits(t.targetAmp.Load())
}

func (t *TensionTone) Stream(samples [][2]float64) (n int, ok bool) {
	freq, amp := t.Target()
	for i := range samples {
		// Glide toward targets
		t.freq += (freq - t.freq) * parameter.ToneGlide
		t.amp += (amp - t.amp) * parameter.ToneGlide

		val := math.Sin(2*math.Pi*t.phase) * t.amp
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
	}
	return len(samples), true
}

func (t *TensionTone) Err() error { return nil }
