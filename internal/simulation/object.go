package simulation

import (
	"fmt"
	"robot-sim/internal/common"
)

const (
	// RobotDiameter is the diameter of every robot circle.
	RobotDiameter = 50.0
	// BorderThickness is the width of the decorative outline drawn around a
	// robot. Collision math ignores it.
	BorderThickness = 6.0
)

// SimulationObject defines the interface for any object placed in the room.
type SimulationObject interface {
	// GetID returns the unique identifier of the object.
	GetID() string
	// Hitbox returns the rectangle used for collision math. For robots it is
	// the bounding square of the circle.
	Hitbox() common.Rect
	// SetHitbox moves (and for obstacles resizes) the object.
	SetHitbox(hitbox common.Rect)
	// IsGrabbed reports whether the object is being dragged by the user.
	IsGrabbed() bool
	// SetGrabbed marks the object as dragged. Grabbed objects are skipped by
	// every phase of the tick.
	SetGrabbed(grabbed bool)
}

// Agent is a robot driven by the simulation tick.
type Agent interface {
	SimulationObject

	// Move advances the robot by delta seconds. distance is the free space in
	// front of the robot as computed by Simulation.ObstacleDistance.
	Move(delta, distance float64)
	// Speed returns the cruise speed in units per second.
	Speed() float64
	// SetSpeed sets the cruise speed; negative values are clamped to zero.
	SetSpeed(speed float64)
	// Kind reports the behaviour of the robot.
	Kind() Kind
	// Profile returns the rotation configuration carried by the robot.
	Profile() Profile
	// Base gives access to the shared robot state.
	Base() *Robot
}

// Kind enumerates the robot behaviours.
type Kind int

const (
	KindRobot Kind = iota
	KindAuto
	KindControl
)

var kindNames = map[Kind]string{
	KindRobot:   "robot",
	KindAuto:    "auto_robot",
	KindControl: "control_robot",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a persisted kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Profile is the optional rotation configuration of a robot variant.
// A zero Profile carries nothing.
type Profile struct {
	HasAvoidance  bool
	ElideDistance float64
	ElideRotation float64

	HasRotation   bool
	RotationSpeed float64 // radians per second
}

// RobotState holds the fields shared by every robot variant.
type RobotState struct {
	Position common.Vector // top-left corner of the bounding square
	Angle    float64       // radians
	Speed    float64       // cruise speed, units per second
}
