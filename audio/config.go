package audio

import (
	"github.com/lixenwraith/tendril/parameter"
)

// AudioConfig holds engine settings
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64
	SampleRate    int
	EffectVolumes map[SoundType]float64
}

// DefaultAudioConfig returns enabled audio at the default volume
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: parameter.AudioMasterVolume,
		SampleRate:   parameter.AudioSampleRate,
		EffectVolumes: map[SoundType]float64{
			SoundPluck: 0.8,
			SoundGust:  0.4,
		},
	}
}

// bufferSamples returns frames per mixer tick
func (c *AudioConfig) bufferSamples() int {
	return int(int64(c.SampleRate) * parameter.AudioBufferDuration.Milliseconds() / 1000)
}
