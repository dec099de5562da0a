package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/tendril/parameter"
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// soundCache stores pre-rendered unity-gain float buffers
type soundCache struct {
	mu    sync.RWMutex
	rate  int
	store [soundTypeCount]floatBuffer
	ready [soundTypeCount]bool
}

func newSoundCache(rate int) *soundCache {
	return &soundCache{rate: rate}
}

// get returns cached buffer or renders on demand
func (c *soundCache) get(st SoundType) floatBuffer {
	if st < 0 || int(st) >= int(soundTypeCount) {
		return nil
	}

	c.mu.RLock()
	if c.ready[st] {
		buf := c.store[st]
		c.mu.RUnlock()
		return buf
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.ready[st] {
		return c.store[st]
	}

	buf := generateSound(st, c.rate)
	c.store[st] = buf
	c.ready[st] = true
	return buf
}

// preload renders every sound at init
func (c *soundCache) preload() {
	for st := SoundType(0); st < soundTypeCount; st++ {
		c.get(st)
	}
}

// soundDuration is the rendered length of st
func soundDuration(st SoundType) time.Duration {
	switch st {
	case SoundPluck:
		return parameter.PluckSoundDuration
	case SoundGust:
		return parameter.GustSoundDuration
	default:
		return 0
	}
}

// generateSound renders the beep effect for st at unity gain; the mixer applies volume
func generateSound(st SoundType, rate int) floatBuffer {
	unity := &AudioConfig{
		MasterVolume:  1,
		SampleRate:    rate,
		EffectVolumes: map[SoundType]float64{st: 1},
	}
	s := GetSoundEffect(st, unity)
	if s == nil {
		return nil
	}
	return renderBuffer(s, beep.SampleRate(rate).N(soundDuration(st)))
}

// renderBuffer drains up to n samples of s into a mono buffer
func renderBuffer(s beep.Streamer, n int) floatBuffer {
	buf := make(floatBuffer, 0, n)
	var chunk [512][2]float64
	for len(buf) < n {
		want := min(len(chunk), n-len(buf))
		got, ok := s.Stream(chunk[:want])
		for i := 0; i < got; i++ {
			buf = append(buf, chunk[i][0])
		}
		if !ok || got == 0 {
			break
		}
	}
	return buf
}
