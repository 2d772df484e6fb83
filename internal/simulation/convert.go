package simulation

// StateOf returns the shared fields of any robot, with its cruise speed.
func StateOf(a Agent) RobotState {
	base := a.Base()
	return RobotState{
		Position: base.position,
		Angle:    base.angle,
		Speed:    a.Speed(),
	}
}

// ToRobot builds a plain robot from the shared fields.
func ToRobot(state RobotState) *Robot {
	return newRobot(state)
}

// ToAutoRobot builds an avoiding robot from the shared fields. prev supplies
// the avoidance and rotation settings when it carries them; missing settings
// use the defaults.
func ToAutoRobot(state RobotState, prev Profile) *AutoRobot {
	profile := Profile{
		HasAvoidance:  true,
		ElideDistance: DefaultElideDistance,
		ElideRotation: DefaultElideRotation,
		HasRotation:   true,
		RotationSpeed: DefaultRotationSpeed,
	}
	if prev.HasAvoidance {
		profile.ElideDistance = prev.ElideDistance
		profile.ElideRotation = prev.ElideRotation
	}
	if prev.HasRotation {
		profile.RotationSpeed = prev.RotationSpeed
	}
	return newAutoRobot(state, profile)
}

// ToControlRobot builds a user controlled robot from the shared fields,
// borrowing the rotation speed from prev when it has one.
func ToControlRobot(state RobotState, prev Profile) *ControlRobot {
	profile := Profile{HasRotation: true, RotationSpeed: DefaultRotationSpeed}
	if prev.HasRotation {
		profile.RotationSpeed = prev.RotationSpeed
	}
	return newControlRobot(state, profile)
}

// Convert builds a robot of the given kind that keeps the position, heading,
// cruise speed and compatible configuration of a. The result has a new ID.
func Convert(a Agent, kind Kind) Agent {
	state := StateOf(a)
	switch kind {
	case KindAuto:
		return ToAutoRobot(state, a.Profile())
	case KindControl:
		return ToControlRobot(state, a.Profile())
	default:
		return ToRobot(state)
	}
}
