package main

import (
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tendril/audio"
	"github.com/lixenwraith/tendril/parameter"
	"github.com/lixenwraith/tendril/record"
	"github.com/lixenwraith/tendril/render"
	"github.com/lixenwraith/tendril/strand"
	"github.com/lixenwraith/tendril/vmath"
)

// Sandbox drives a strand field from keyboard-controlled host motion
type Sandbox struct {
	screen tcell.Screen
	field  *strand.Field
	host   *strand.RigidHost
	view   *render.StrandView
	audio  *audio.AudioEngine // nil runs silent
	rec    *record.Writer     // nil when not recording
	rng    *vmath.FastRand

	// Host control
	pos        vmath.Vec3F
	vel        vmath.Vec3F
	yaw        float64
	spin       float64
	orbit      bool
	orbitPhase float64
	paused     bool

	wind       vmath.Vec3F
	windTarget vmath.Vec3F

	simTime  float64
	fps      float64
	tipSpeed float64
}

// newSandboxHost places n anchors on a ring in the XZ plane, each pointing outward and drooping
// A single anchor sits at the body center pointing along +Z
func newSandboxHost(n int, radius float64) *strand.RigidHost {
	if n <= 1 {
		return strand.NewRigidHost(strand.Frame{Orientation: vmath.QuatIdentity})
	}
	local := make([]strand.Frame, n)
	for i := range local {
		phi := 2 * math.Pi * float64(i) / float64(n)
		s, c := math.Sincos(phi)
		out := vmath.Vec3F{X: c, Z: s}
		dir := vmath.V3FNormalize(vmath.Vec3F{X: c, Y: -parameter.HostAnchorDroop, Z: s})
		local[i] = strand.Frame{
			Position:    vmath.V3FScale(out, radius),
			Orientation: vmath.QFromTo(vmath.AxisZ, dir),
		}
	}
	return strand.NewRigidHost(local...)
}

// NewSandbox drives an initialized field; eng and rec may be nil
func NewSandbox(screen tcell.Screen, field *strand.Field, host *strand.RigidHost, eng *audio.AudioEngine, rec *record.Writer) *Sandbox {
	s := &Sandbox{
		field: field,
		host:  host,
		view:  render.NewStrandView(render.NewProjector(0, 0)),
		audio: eng,
		rec:   rec,
		rng:   vmath.NewFastRand(uint64(time.Now().UnixNano())),
	}
	if screen != nil {
		s.attach(screen)
	}
	return s
}

// attach sets the output screen and sizes the camera to it
func (s *Sandbox) attach(screen tcell.Screen) {
	s.screen = screen
	w, h := screen.Size()
	s.view.Projector().Resize(w, h)
}

// handleInput applies one terminal event, returns false to quit
func (s *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}

		speed := parameter.HostMoveSpeed
		switch ev.Rune() {
		case 'a':
			s.vel.X = -speed
		case 'd':
			s.vel.X = speed
		case 'w':
			s.vel.Y = speed
		case 's':
			s.vel.Y = -speed
		case 'q':
			s.vel.Z = speed
		case 'e':
			s.vel.Z = -speed
		case 'j':
			s.spin = parameter.HostTurnSpeed
		case 'l':
			s.spin = -parameter.HostTurnSpeed
		case 'h':
			s.view.Projector().Yaw -= parameter.CameraYawStep
		case 'k':
			s.view.Projector().Yaw += parameter.CameraYawStep
		case 'o':
			s.orbit = !s.orbit
			s.orbitPhase = math.Atan2(s.pos.Z, s.pos.X)
		case 'g':
			s.gust()
		case ' ':
			s.paused = !s.paused
		case 'r':
			s.reset()
		case 'm':
			if s.audio != nil {
				s.audio.ToggleMute()
			}
		}

	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

// gust sets a new horizontal wind target
func (s *Sandbox) gust() {
	angle := s.rng.Range(0, 2*math.Pi)
	speed := s.rng.Range(0.3, 1) * parameter.WindGustMax
	sn, c := math.Sincos(angle)
	s.windTarget = vmath.Vec3F{X: c * speed, Z: sn * speed}
	if s.audio != nil {
		s.audio.Play(audio.SoundGust)
	}
}

// reset returns the host to the origin at rest and rebuilds every strand
func (s *Sandbox) reset() {
	s.pos, s.vel = vmath.Vec3F{}, vmath.Vec3F{}
	s.yaw, s.spin = 0, 0
	s.orbit = false
	s.wind, s.windTarget = vmath.Vec3F{}, vmath.Vec3F{}

	s.host.SetPose(s.pos, vmath.QuatIdentity)
	// Two advances with an unchanged pose leave zero derived motion
	s.host.Advance(parameter.MaxFrameDelta)
	s.host.Advance(parameter.MaxFrameDelta)

	if err := s.field.Reset(); err != nil {
		log.Printf("sandbox: reset failed: %v", err)
		return
	}
	if s.audio != nil {
		s.audio.Play(audio.SoundPluck)
	}
}

// update advances host, wind and strands by dt seconds
func (s *Sandbox) update(dt float64) {
	if dt > 0 {
		s.fps = s.fps*0.9 + 0.1/dt
	}
	if s.paused || !(dt > 0) {
		return
	}
	s.simTime += dt

	if s.orbit {
		s.orbitPhase += parameter.HostOrbitRate * dt
		sn, c := math.Sincos(s.orbitPhase)
		s.pos = vmath.Vec3F{X: c * parameter.HostOrbitRadius, Y: s.pos.Y, Z: sn * parameter.HostOrbitRadius}
		s.yaw = -s.orbitPhase
	} else {
		s.pos = vmath.V3FAddScaled(s.pos, s.vel, dt)
		s.yaw += s.spin * dt
	}
	decay := math.Exp(-parameter.HostMoveDecay * dt)
	s.vel = vmath.V3FScale(s.vel, decay)
	s.spin *= decay

	s.host.SetPose(s.pos, vmath.QFromAxisAngle(vmath.AxisY, s.yaw))
	s.host.Advance(dt)

	s.updateWind(dt)
	s.field.Step(dt, strand.Environment{Wind: s.wind})

	s.tipSpeed = 0
	for i := 0; i < s.field.Strands(); i++ {
		rod := s.field.Rod(i)
		s.tipSpeed = max(s.tipSpeed, vmath.V3FMag(rod.Velocity(rod.Len()-1)))
	}
	if s.audio != nil {
		s.audio.SetTension(s.tipSpeed)
	}

	if s.rec != nil {
		if err := s.rec.WriteFrame(s.field, s.simTime, s.wind); err != nil {
			log.Printf("sandbox: recording stopped: %v", err)
			_ = s.rec.Close()
			s.rec = nil
		}
	}
}

// updateWind eases wind toward its target while the target calms, occasionally picking a new gust
func (s *Sandbox) updateWind(dt float64) {
	if s.rng.Float64() < parameter.WindGustChance {
		s.gust()
	}
	ease := 1 - math.Exp(-parameter.WindEase*dt)
	s.wind = vmath.V3FAddScaled(s.wind, vmath.V3FSub(s.windTarget, s.wind), ease)
	s.windTarget = vmath.V3FScale(s.windTarget, 1-ease)
}

func (s *Sandbox) draw() {
	st := render.Status{
		FPS:       s.fps,
		Wind:      s.wind,
		Orbit:     s.orbit,
		Paused:    s.paused,
		Recording: s.rec != nil,
		TipSpeed:  s.tipSpeed,
	}
	if s.audio != nil {
		st.Muted = s.audio.IsMuted()
	}
	s.view.Draw(s.screen, s.field, s.host, st)
	s.screen.Show()
}

func (s *Sandbox) run() {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, parameter.EventQueueSize)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), parameter.MaxFrameDelta)
			last = now
			s.update(dt)
			s.draw()
		}
	}
}

// cleanup releases recording and audio; the caller finalizes the screen
func (s *Sandbox) cleanup() {
	if s.rec != nil {
		if err := s.rec.Close(); err != nil {
			log.Printf("sandbox: close recording: %v", err)
		}
		log.Printf("sandbox: recording %s closed", s.rec.RunID())
	}
	if s.audio != nil {
		s.audio.Stop()
	}
}
