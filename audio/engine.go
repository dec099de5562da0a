package audio

import (
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/tendril/parameter"
)

// AudioEngine manages audio via pipe to system tools
type AudioEngine struct {
	config *AudioConfig
	cache  *soundCache
	mixer  *Mixer
	tone   *TensionTone

	backend *BackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File // For direct OSS writes
	speaker bool     // In-process fallback via beep/speaker

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool

	mu sync.RWMutex // Protects config
	wg sync.WaitGroup
}

// NewAudioEngine creates an audio engine; a nil config uses defaults
func NewAudioEngine(cfg *AudioConfig) *AudioEngine {
	config := DefaultAudioConfig()
	if cfg != nil {
		copied := *cfg
		config = &copied
	}
	if config.SampleRate <= 0 {
		config.SampleRate = parameter.AudioSampleRate
	}
	if config.EffectVolumes == nil {
		config.EffectVolumes = DefaultAudioConfig().EffectVolumes
	}

	ae := &AudioEngine{
		config: config,
		cache:  newSoundCache(config.SampleRate),
		tone:   NewTensionTone(beep.SampleRate(config.SampleRate)),
	}
	ae.muted.Store(!config.Enabled)

	// Preload sounds
	ae.cache.preload()

	return ae
}

// Start launches the audio backend and mixer
// A missing backend switches the engine to silent mode and is not an error
func (ae *AudioEngine) Start() error {
	if ae.running.Load() {
		return ErrEngineRunning
	}

	backend, err := DetectBackend(ae.config.SampleRate)
	if err != nil {
		return ae.startSpeaker(err)
	}

	ae.backend = backend

	var writer io.Writer
	if backend.Type == BackendOSS {
		// Direct file write for OSS
		f, err := os.OpenFile(backend.Path, os.O_WRONLY, 0)
		if err != nil {
			log.Printf("audio: open %s: %v, running silent", backend.Path, err)
			ae.silentMode.Store(true)
			ae.running.Store(true)
			return nil
		}
		ae.ossFile = f
		writer = f
	} else {
		// Exec-based backend
		cmd := exec.Command(backend.Path, backend.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			ae.silentMode.Store(true)
			ae.running.Store(true)
			return nil
		}

		if err := cmd.Start(); err != nil {
			log.Printf("audio: start %s: %v, running silent", backend.Name, err)
			stdin.Close()
			ae.silentMode.Store(true)
			ae.running.Store(true)
			return nil
		}

		ae.cmd = cmd
		ae.stdin = stdin
		writer = stdin

		// Monitor process
		ae.wg.Add(1)
		go ae.monitorProcess()
	}

	ae.mixer = NewMixer(writer, ae.config, ae.cache, ae.tone)
	ae.mixer.Start()

	// Monitor mixer errors
	ae.wg.Add(1)
	go ae.monitorMixer()

	ae.running.Store(true)
	log.Printf("audio: started %s backend at %d Hz", backend.Name, ae.config.SampleRate)
	return nil
}

// startSpeaker plays through beep/speaker when no CLI backend exists
func (ae *AudioEngine) startSpeaker(cause error) error {
	rate := beep.SampleRate(ae.config.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		log.Printf("audio: %v, speaker: %v, running silent", cause, err)
		ae.silentMode.Store(true)
		ae.running.Store(true)
		return nil
	}
	ae.speaker = true
	speaker.Play(newVolume(ae.tone, ae.config.MasterVolume))
	ae.running.Store(true)
	log.Printf("audio: %v, using speaker at %d Hz", cause, ae.config.SampleRate)
	return nil
}

// monitorProcess watches for subprocess exit
func (ae *AudioEngine) monitorProcess() {
	defer ae.wg.Done()

	if ae.cmd == nil {
		return
	}

	err := ae.cmd.Wait()
	if err != nil && ae.running.Load() && !ae.silentMode.Load() {
		ae.silentMode.Store(true)
	}
}

// monitorMixer watches for pipe errors
func (ae *AudioEngine) monitorMixer() {
	defer ae.wg.Done()

	if ae.mixer == nil {
		return
	}

	select {
	case err := <-ae.mixer.Errors():
		log.Printf("audio: %v", err)
		ae.silentMode.Store(true)
	case <-ae.mixer.stopChan:
	}
}

// Stop terminates the engine
func (ae *AudioEngine) Stop() {
	if !ae.running.CompareAndSwap(true, false) {
		return
	}

	if ae.mixer != nil {
		ae.mixer.Stop()
	}

	if ae.stdin != nil {
		ae.stdin.Close()
	}

	if ae.ossFile != nil {
		ae.ossFile.Close()
	}

	if ae.cmd != nil && ae.cmd.Process != nil {
		ae.cmd.Process.Kill()
	}

	if ae.speaker {
		speaker.Clear()
		speaker.Close()
		ae.speaker = false
	}

	ae.wg.Wait()
}

// Play queues a sound for playback
func (ae *AudioEngine) Play(st SoundType) bool {
	if !ae.IsEnabled() {
		return false
	}

	ae.mu.RLock()
	master := ae.config.MasterVolume
	effects := ae.config.EffectVolumes
	ae.mu.RUnlock()

	switch {
	case ae.mixer != nil:
		ae.mixer.Play(st, master, effects)
	case ae.speaker:
		ae.mu.RLock()
		s := GetSoundEffect(st, ae.config)
		ae.mu.RUnlock()
		if s == nil {
			return false
		}
		speaker.Play(s)
	default:
		return false
	}
	return true
}

// SetTension retargets the continuous tone from a strand tip speed (m/s)
// Muted engines hold the tone silent
func (ae *AudioEngine) SetTension(speed float64) {
	if ae.muted.Load() {
		speed = 0
	}
	ae.tone.SetSpeed(speed)
}

// Tone returns the continuous tension tone
func (ae *AudioEngine) Tone() *TensionTone {
	return ae.tone
}

// ToggleMute toggles mute state, returns true if now enabled
func (ae *AudioEngine) ToggleMute() bool {
	newMute := !ae.muted.Load()
	ae.muted.Store(newMute)
	if newMute {
		ae.tone.SetSpeed(0)
	}
	return !newMute
}

// IsMuted returns current mute state
func (ae *AudioEngine) IsMuted() bool {
	return ae.muted.Load()
}

// IsEnabled returns true if running and unmuted
func (ae *AudioEngine) IsEnabled() bool {
	return ae.running.Load() && !ae.muted.Load() && !ae.silentMode.Load()
}

// IsRunning returns true if engine is running (even in silent mode)
func (ae *AudioEngine) IsRunning() bool {
	return ae.running.Load()
}

// IsSilent returns true when no backend could be opened
func (ae *AudioEngine) IsSilent() bool {
	return ae.silentMode.Load()
}

// SetVolume updates master volume (0.0-1.0)
func (ae *AudioEngine) SetVolume(vol float64) {
	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}

	ae.mu.Lock()
	ae.config.MasterVolume = vol
	ae.mu.Unlock()

	if ae.mixer != nil {
		ae.mixer.SetToneVolume(vol)
	}
}

// Volume returns master volume
func (ae *AudioEngine) Volume() float64 {
	ae.mu.RLock()
	defer ae.mu.RUnlock()
	return ae.config.MasterVolume
}

// GetStats returns played and dropped counts
func (ae *AudioEngine) GetStats() (played, dropped uint64) {
	if ae.mixer != nil {
		return ae.mixer.GetStats()
	}
	return 0, 0
}
