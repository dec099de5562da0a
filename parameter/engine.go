package parameter

import "time"

// Sandbox Loop & Timing
const (
	// FrameUpdateInterval is the simulation and render interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta caps the measured frame delta fed to the solver after stalls (seconds)
	MaxFrameDelta = 0.1

	// EventQueueSize is the buffered capacity between the terminal poller and the loop
	EventQueueSize = 100
)

// Sandbox Host Motion
const (
	// HostMoveSpeed is keyboard translation speed (m/s)
	HostMoveSpeed = 1.5
	// HostTurnSpeed is keyboard rotation speed (rad/s)
	HostTurnSpeed = 2.0
	// HostOrbitRadius is the auto-orbit circle radius (m)
	HostOrbitRadius = 0.6
	// HostOrbitRate is the auto-orbit angular rate (rad/s)
	HostOrbitRate = 1.2
	// HostBodyRadius places sandbox anchors on a ring around the body center (m)
	HostBodyRadius = 0.15
	// HostAnchors is the number of strands the sandbox attaches
	HostAnchors = 5
	// HostAnchorDroop tilts ring anchors below the horizontal, as a slope
	HostAnchorDroop = 0.5
	// HostMoveDecay is the exponential decay rate of keyboard velocity (1/s)
	HostMoveDecay = 4.0

	// WindGustMax bounds the random gust speed (m/s)
	WindGustMax = 1.5
	// WindGustChance is the per-frame probability of a new gust target
	WindGustChance = 0.02
	// WindEase is the rate wind follows its target and the target calms (1/s)
	WindEase = 1.5
)

// Camera
const (
	// CameraDistance is the distance from the eye to the world origin along +Z (m)
	CameraDistance = 4.0
	// CameraFocal scales projected coordinates to terminal cells
	CameraFocal = 18.0
	// CellAspect compensates for terminal cells being about twice as tall as wide
	CellAspect = 2.0
	// CameraYawStep is the camera turn per key press (rad)
	CameraYawStep = 0.15
)
