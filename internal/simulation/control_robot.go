package simulation

import (
	"fmt"
	"robot-sim/internal/common"
)

// ControlRobot is steered by the user. Forward, Left and Right are toggles
// fed from key press (start = true) and key release (start = false) events.
type ControlRobot struct {
	Robot

	rotationSpeed float64 // radians per second
	savedSpeed    float64 // cruise speed applied while moving forward

	forward              bool
	currentSpeed         float64
	currentRotationSpeed float64
}

// NewControlRobot creates a new user controlled robot. The robot stands
// still until Forward(true) is called.
func NewControlRobot(pos common.Vector, angle, speed, rotationSpeed float64) *ControlRobot {
	return newControlRobot(RobotState{Position: pos, Angle: angle, Speed: speed}, Profile{
		HasRotation:   true,
		RotationSpeed: rotationSpeed,
	})
}

func newControlRobot(state RobotState, profile Profile) *ControlRobot {
	if !(profile.RotationSpeed > 0) {
		profile.RotationSpeed = DefaultRotationSpeed
	}
	c := &ControlRobot{
		Robot:         *newRobot(state),
		rotationSpeed: profile.RotationSpeed,
	}
	c.savedSpeed = c.speed
	c.speed = 0
	return c
}

func (c *ControlRobot) Kind() Kind {
	return KindControl
}

func (c *ControlRobot) Profile() Profile {
	return Profile{HasRotation: true, RotationSpeed: c.rotationSpeed}
}

// Move turns by the active rotation toggles and drives forward unless the
// robot is flush against an obstacle or the border.
func (c *ControlRobot) Move(delta, distance float64) {
	if distance == 0 {
		if c.speed != 0 {
			c.savedSpeed = c.speed
		}
		c.speed = 0
	} else {
		c.speed = c.currentSpeed
	}

	if c.currentRotationSpeed != 0 {
		c.SetAngle(c.angle + c.currentRotationSpeed*delta)
	}

	c.Robot.Move(delta, distance)
}

// Forward starts or stops driving forward.
func (c *ControlRobot) Forward(start bool) {
	c.forward = start
	if start {
		c.currentSpeed = c.savedSpeed
	} else {
		c.currentSpeed = 0
	}
}

// Right starts or stops turning clockwise (on screen).
func (c *ControlRobot) Right(start bool) {
	if start {
		c.currentRotationSpeed += c.rotationSpeed
	} else {
		c.currentRotationSpeed -= c.rotationSpeed
	}
}

// Left starts or stops turning counter-clockwise (on screen).
func (c *ControlRobot) Left(start bool) {
	if start {
		c.currentRotationSpeed -= c.rotationSpeed
	} else {
		c.currentRotationSpeed += c.rotationSpeed
	}
}

// Speed returns the cruise speed used while driving forward.
func (c *ControlRobot) Speed() float64 {
	return c.savedSpeed
}

// SetSpeed sets the cruise speed. A robot already driving forward picks it
// up immediately.
func (c *ControlRobot) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	c.savedSpeed = speed
	if c.forward {
		c.currentSpeed = speed
	}
}

// String representation for logging
func (c *ControlRobot) String() string {
	return fmt.Sprintf("ControlRobot[%s] Pos: %s Angle: %.3f Speed: %.2f/%.2f", c.id, c.position, c.angle, c.speed, c.savedSpeed)
}
