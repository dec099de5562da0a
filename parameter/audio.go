package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and mixer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// AudioQueueSize is the pending one-shot capacity; extra requests are dropped
	AudioQueueSize = 32

	// AudioMasterVolume is the default master volume (0.0-1.0)
	AudioMasterVolume = 0.5
)

// Tension Tone (continuous, follows strand tip speed)
const (
	// ToneBaseFrequency is the pitch at rest (Hz)
	ToneBaseFrequency = 110.0
	// ToneMaxFrequency caps the pitch (Hz)
	ToneMaxFrequency = 880.0
	// ToneSpeedScale maps tip speed to added pitch (Hz per m/s)
	ToneSpeedScale = 220.0
	// ToneSpeedFull is the tip speed at which the tone reaches full loudness (m/s)
	ToneSpeedFull = 2.0
	// ToneMaxAmplitude is the loudness at full speed before master volume
	ToneMaxAmplitude = 0.3
	// ToneGlide is the fraction of the pitch and loudness gap closed per sample
	ToneGlide = 0.0005
)

// Pluck Sound (strand reset)
const (
	PluckSoundDuration  = 180 * time.Millisecond
	PluckSoundAttack    = 5 * time.Millisecond
	PluckSoundRelease   = 150 * time.Millisecond
	PluckFundamental    = 196.0 // Hz, G3
	PluckOvertoneWeight = 0.35
)

// Gust Sound (new wind target)
const (
	GustSoundDuration = 300 * time.Millisecond
	GustSoundAttack   = 150 * time.Millisecond
	GustSoundRelease  = 150 * time.Millisecond
)
