package simulation

import (
	"fmt"
	"math"
	"robot-sim/internal/common"
)

// Defaults of the avoidance behaviour.
const (
	DefaultElideDistance = 20.0
	DefaultElideRotation = math.Pi / math.E
	DefaultRotationSpeed = math.Pi / 4
)

// AutoRobot drives straight until an obstacle gets within elideDistance,
// then stops and turns by elideRotation before driving on.
//
// The robot is cruising while rotationRemaining is zero and avoiding
// otherwise.
type AutoRobot struct {
	Robot

	rotationRemaining float64
	savedSpeed        float64 // cruise speed kept while the live speed is zero

	elideDistance float64
	elideRotation float64
	rotationSpeed float64 // radians per second
}

// NewAutoRobot creates a new robot with the avoidance behaviour.
// A non-positive rotationSpeed falls back to DefaultRotationSpeed.
func NewAutoRobot(pos common.Vector, angle, speed, elideDistance, elideRotation, rotationSpeed float64) *AutoRobot {
	return newAutoRobot(RobotState{Position: pos, Angle: angle, Speed: speed}, Profile{
		HasAvoidance:  true,
		ElideDistance: elideDistance,
		ElideRotation: elideRotation,
		HasRotation:   true,
		RotationSpeed: rotationSpeed,
	})
}

func newAutoRobot(state RobotState, profile Profile) *AutoRobot {
	if !(profile.RotationSpeed > 0) {
		profile.RotationSpeed = DefaultRotationSpeed
	}
	a := &AutoRobot{
		Robot:         *newRobot(state),
		elideDistance: profile.ElideDistance,
		elideRotation: profile.ElideRotation,
		rotationSpeed: profile.RotationSpeed,
	}
	a.savedSpeed = a.speed
	return a
}

func (a *AutoRobot) Kind() Kind {
	return KindAuto
}

func (a *AutoRobot) Profile() Profile {
	return Profile{
		HasAvoidance:  true,
		ElideDistance: a.elideDistance,
		ElideRotation: a.elideRotation,
		HasRotation:   true,
		RotationSpeed: a.rotationSpeed,
	}
}

// Avoiding reports whether the robot is in the middle of an avoidance turn.
func (a *AutoRobot) Avoiding() bool {
	return a.rotationRemaining != 0
}

// RotationRemaining returns the angle still to turn, zero while cruising.
func (a *AutoRobot) RotationRemaining() float64 {
	return a.rotationRemaining
}

// Move runs one step of the avoidance state machine and then translates with
// the live speed, which is zero during a turn.
func (a *AutoRobot) Move(delta, distance float64) {
	if a.rotationRemaining == 0 && a.elideRotation != 0 && distance <= a.elideDistance {
		a.rotationRemaining = a.elideRotation
		a.savedSpeed = a.speed
		a.speed = 0
	}

	if a.rotationRemaining != 0 {
		step := math.Copysign(a.rotationSpeed*delta, a.rotationRemaining)
		if math.Abs(a.rotationRemaining) < math.Abs(step) {
			// Last partial step: turn exactly what is left.
			step = a.rotationRemaining
			a.rotationRemaining = 0
		} else {
			a.rotationRemaining -= step
		}

		a.SetAngle(a.angle + step)

		if a.rotationRemaining == 0 {
			a.speed = a.savedSpeed
		}
	}

	a.Robot.Move(delta, distance)
}

// Speed returns the cruise speed, also while the robot is stopped for a turn.
func (a *AutoRobot) Speed() float64 {
	if a.Avoiding() {
		return a.savedSpeed
	}
	return a.speed
}

// SetSpeed sets the cruise speed. During a turn the new speed takes effect
// once the turn completes.
func (a *AutoRobot) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	a.savedSpeed = speed
	if !a.Avoiding() {
		a.speed = speed
	}
}

// String representation for logging
func (a *AutoRobot) String() string {
	state := "cruising"
	if a.Avoiding() {
		state = fmt.Sprintf("avoiding (%.3f left)", a.rotationRemaining)
	}
	return fmt.Sprintf("AutoRobot[%s] Pos: %s Angle: %.3f Speed: %.2f State: %s", a.id, a.position, a.angle, a.Speed(), state)
}
