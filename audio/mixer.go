package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/tendril/parameter"
)

// activeSound tracks a playing sound instance
type activeSound struct {
	buffer floatBuffer
	pos    int
	volume float64
}

// Mixer handles mixing and output
type Mixer struct {
	output io.Writer
	cache  *soundCache
	config *AudioConfig

	// tone is streamed continuously under the one-shots when set
	tone       beep.Streamer
	toneVolume atomic.Uint64 // math.Float64bits

	playQueue chan playRequest
	stopChan  chan struct{}
	stopped   atomic.Bool

	// Accessed only by mix goroutine
	active  []activeSound
	toneBuf [][2]float64

	// Stats
	statsMu sync.Mutex
	played  uint64
	dropped uint64

	// Error signaling
	errChan chan error
}

type playRequest struct {
	sound  SoundType
	volume float64
}

// NewMixer creates a mixer writing to out
func NewMixer(out io.Writer, cfg *AudioConfig, cache *soundCache, tone beep.Streamer) *Mixer {
	m := &Mixer{
		output:    out,
		config:    cfg,
		cache:     cache,
		tone:      tone,
		playQueue: make(chan playRequest, parameter.AudioQueueSize),
		stopChan:  make(chan struct{}),
		active:    make([]activeSound, 0, 8),
		errChan:   make(chan error, 1),
	}
	m.SetToneVolume(cfg.MasterVolume)
	return m
}

// SetToneVolume sets the continuous tone gain
func (m *Mixer) SetToneVolume(vol float64) {
	m.toneVolume.Store(math.Float64bits(vol))
}

// Start begins the mixing loop
func (m *Mixer) Start() {
	go m.loop()
}

// Stop signals the mixer to halt
func (m *Mixer) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
	}
}

// Play queues a sound with computed volume
func (m *Mixer) Play(st SoundType, masterVol float64, effectVols map[SoundType]float64) {
	if m.stopped.Load() {
		return
	}

	vol := masterVol
	if ev, ok := effectVols[st]; ok {
		vol *= ev
	}

	select {
	case m.playQueue <- playRequest{sound: st, volume: vol}:
	default:
		m.statsMu.Lock()
		m.dropped++
		m.statsMu.Unlock()
	}
}

// Errors returns channel for pipe errors
func (m *Mixer) Errors() <-chan error {
	return m.errChan
}

// loop is the main mixing goroutine
func (m *Mixer) loop() {
	ticker := time.NewTicker(parameter.AudioBufferDuration)
	defer ticker.Stop()

	samplesPerTick := m.config.bufferSamples()
	mixBuf := make([]float64, samplesPerTick)
	outBytes := make([]byte, samplesPerTick*parameter.AudioBytesPerFrame)

	for {
		select {
		case <-m.stopChan:
			return

		case req := <-m.playQueue:
			m.enqueue(req)
			// Drain additional queued requests
			m.drainQueue(4)

		case <-ticker.C:
			m.mixTick(mixBuf)
			floatToBytes(mixBuf, outBytes)

			if _, err := m.output.Write(outBytes); err != nil {
				select {
				case m.errChan <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				return
			}
		}
	}
}

// mixTick fills buf with one tick of tone plus active sounds; silence keeps the pipe alive
func (m *Mixer) mixTick(buf []float64) {
	clear(buf)
	if m.tone != nil {
		m.mixTone(buf)
	}
	if len(m.active) > 0 {
		m.active = m.mixActive(buf, len(buf))
	}
}

// mixTone adds the left channel of the continuous tone into buf
func (m *Mixer) mixTone(buf []float64) {
	if cap(m.toneBuf) < len(buf) {
		m.toneBuf = make([][2]float64, len(buf))
	}
	tb := m.toneBuf[:len(buf)]
	n, _ := m.tone.Stream(tb)
	master := math.Float64frombits(m.toneVolume.Load())
	for i := 0; i < n; i++ {
		buf[i] += tb[i][0] * master
	}
}

// enqueue starts a requested sound
func (m *Mixer) enqueue(req playRequest) {
	buf := m.cache.get(req.sound)
	if len(buf) == 0 {
		return
	}
	m.active = append(m.active, activeSound{
		buffer: buf,
		volume: req.volume,
	})
	m.statsMu.Lock()
	m.played++
	m.statsMu.Unlock()
}

// drainQueue processes up to n additional queued requests
func (m *Mixer) drainQueue(n int) {
	for i := 0; i < n; i++ {
		select {
		case req := <-m.playQueue:
			m.enqueue(req)
		default:
			return
		}
	}
}

// mixActive mixes all active sounds into buf, returns remaining sounds
func (m *Mixer) mixActive(buf []float64, samples int) []activeSound {
	remaining := m.active[:0]

	for i := range m.active {
		s := &m.active[i]
		for j := 0; j < samples && s.pos < len(s.buffer); j++ {
			buf[j] += s.buffer[s.pos] * s.volume
			s.pos++
		}
		if s.pos < len(s.buffer) {
			remaining = append(remaining, *s)
		}
	}

	return remaining
}

// floatToBytes converts float64 mono to interleaved stereo int16 LE bytes
// Applies soft limiting before hard clip
func floatToBytes(in []float64, out []byte) {
	for i, v := range in {
		// Soft limiter (tanh-style)
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
		}

		// Hard clip
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}

		i16 := int16(v * 32767)
		idx := i * 4
		binary.LittleEndian.PutUint16(out[idx:], uint16(i16))   // L
		binary.LittleEndian.PutUint16(out[idx+2:], uint16(i16)) // R
	}
}

// GetStats returns played and dropped counts
func (m *Mixer) GetStats() (played, dropped uint64) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.played, m.dropped
}
