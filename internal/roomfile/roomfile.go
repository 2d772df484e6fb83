// Package roomfile reads and writes the text description of a room.
//
// Every non-blank line declares one object:
//
//	# comment
//	room: 800x600
//	obstacle: 120x40 [300, 200]
//	robot: [10, 20] { speed: 30, angle: 90 }
//	auto_robot: [100, 20] { speed: 30, elide_distance: 15, elide_rotation: 60 }
//	control_robot: 50x50 [400, 400] { rotation_speed: 90 }
//
// Angles on disk are degrees: a heading of 0 faces right and 90 faces up, the
// opposite sign of the engine angle. Rotation speeds are degrees per second.
package roomfile

import (
	"bufio"
	"io"
	"math"
	"os"
	"strings"

	"robot-sim/internal/common"
	"robot-sim/internal/simulation"

	"github.com/pkg/errors"
)

// Default room size used when the file has no room declaration.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

const defaultAngleDegrees = -90.0

// Room is a parsed room file. Nothing is built until Build is called.
type Room struct {
	Width, Height float64
	Obstacles     []common.Rect
	Robots        []RobotDecl
}

// RobotDecl describes one robot of any kind, in engine units: angles are
// radians and the position is the top-left corner of the bounding square.
type RobotDecl struct {
	Kind     simulation.Kind
	Position common.Vector
	Speed    float64
	Angle    float64
	Profile  simulation.Profile
}

// Parse reads a whole room file. Any error aborts the parse, so a Room is
// only returned for a fully valid file.
func Parse(r io.Reader) (*Room, error) {
	room := &Room{Width: DefaultWidth, Height: DefaultHeight}
	sawRoom := false

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		s := newScanner(text, line)
		kind, err := s.ident()
		if err != nil {
			return nil, err
		}
		if err := s.expect(':', "after "+kind); err != nil {
			return nil, err
		}

		switch kind {
		case "room":
			if sawRoom {
				return nil, s.errorf("duplicate room declaration")
			}
			sawRoom = true
			if room.Width, room.Height, err = s.size(); err != nil {
				return nil, err
			}
			if room.Width == 0 || room.Height == 0 {
				return nil, s.errorf("room size must be positive")
			}
		case "obstacle":
			rect, err := parseObstacle(s)
			if err != nil {
				return nil, err
			}
			room.Obstacles = append(room.Obstacles, rect)
		default:
			k, ok := simulation.ParseKind(kind)
			if !ok {
				return nil, s.errorf("unexpected identifier %q", kind)
			}
			decl, err := parseRobot(s, k)
			if err != nil {
				return nil, err
			}
			room.Robots = append(room.Robots, decl)
		}

		if !s.atEnd() {
			return nil, s.errorf("unexpected %s after %s declaration", s.describeNext(), kind)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read room file")
	}

	return room, nil
}

func parseObstacle(s *scanner) (common.Rect, error) {
	var rect common.Rect
	hasSize, hasPos := false, false

	for !hasSize || !hasPos {
		switch ch := s.peek(); {
		case ch == '[' && !hasPos:
			x, y, err := s.position()
			if err != nil {
				return rect, err
			}
			rect.X, rect.Y = x, y
			hasPos = true
		case (isDigit(ch) || ch == '.' || ch == '+') && !hasSize:
			w, h, err := s.size()
			if err != nil {
				return rect, err
			}
			rect.Width, rect.Height = w, h
			hasSize = true
		case ch == 0:
			return rect, s.errorf("obstacle requires size and position")
		default:
			return rect, s.errorf("unexpected obstacle attribute %s", s.describeNext())
		}
	}
	return rect, nil
}

func parseRobot(s *scanner, kind simulation.Kind) (RobotDecl, error) {
	decl := RobotDecl{
		Kind:  kind,
		Angle: degreesToAngle(defaultAngleDegrees),
	}
	switch kind {
	case simulation.KindAuto:
		decl.Profile = simulation.Profile{
			HasAvoidance:  true,
			ElideDistance: simulation.DefaultElideDistance,
			ElideRotation: simulation.DefaultElideRotation,
			HasRotation:   true,
			RotationSpeed: simulation.DefaultRotationSpeed,
		}
	case simulation.KindControl:
		decl.Profile = simulation.Profile{
			HasRotation:   true,
			RotationSpeed: simulation.DefaultRotationSpeed,
		}
	}

	hasSize, hasPos, hasAttrs := false, false, false
	for {
		ch := s.peek()
		switch {
		case ch == 0:
			if !hasPos {
				return decl, s.errorf("%s requires position", kind)
			}
			return decl, nil
		case ch == '[' && !hasPos:
			x, y, err := s.position()
			if err != nil {
				return decl, err
			}
			decl.Position = common.NewVector(x, y)
			hasPos = true
		case (isDigit(ch) || ch == '.' || ch == '+') && !hasSize:
			// Robots have a fixed size; the value is accepted and ignored.
			if _, _, err := s.size(); err != nil {
				return decl, err
			}
			hasSize = true
		case ch == '{' && !hasAttrs:
			if err := s.attributes(decl.setter()); err != nil {
				return decl, err
			}
			hasAttrs = true
		default:
			return decl, s.errorf("unexpected %s attribute %s", kind, s.describeNext())
		}
	}
}

func (decl *RobotDecl) setter() func(key string, value float64) error {
	return func(key string, value float64) error {
		switch {
		case key == "speed":
			if value < 0 {
				return errors.Errorf("speed must not be negative, got %v", value)
			}
			decl.Speed = value
		case key == "angle":
			decl.Angle = degreesToAngle(value)
		case key == "elide_distance" && decl.Profile.HasAvoidance:
			if value < 0 {
				return errors.Errorf("elide_distance must not be negative, got %v", value)
			}
			decl.Profile.ElideDistance = value
		case key == "elide_rotation" && decl.Profile.HasAvoidance:
			decl.Profile.ElideRotation = value * math.Pi / 180
		case key == "rotation_speed" && decl.Profile.HasRotation:
			if value <= 0 {
				return errors.Errorf("rotation_speed must be positive, got %v", value)
			}
			decl.Profile.RotationSpeed = value * math.Pi / 180
		default:
			return errors.Errorf("unexpected %s attribute %q", decl.Kind, key)
		}
		return nil
	}
}

// degreesToAngle converts a heading on disk to the engine angle in radians.
func degreesToAngle(deg float64) float64 {
	return -deg * math.Pi / 180
}

func angleToDegrees(angle float64) float64 {
	return -angle * 180 / math.Pi
}

// Build creates a simulation holding every object of the room.
func (r *Room) Build() (*simulation.Simulation, error) {
	sim, err := simulation.NewSimulation(r.Width, r.Height)
	if err != nil {
		return nil, errors.Wrap(err, "invalid room")
	}
	r.Populate(sim)
	return sim, nil
}

// Populate adds the objects of the room to an existing simulation.
func (r *Room) Populate(sim *simulation.Simulation) {
	for _, rect := range r.Obstacles {
		sim.AddObstacle(simulation.NewObstacle(rect))
	}
	for _, decl := range r.Robots {
		sim.AddAgent(decl.Agent())
	}
}

// Agent creates the robot described by decl.
func (decl RobotDecl) Agent() simulation.Agent {
	p := decl.Profile
	switch decl.Kind {
	case simulation.KindAuto:
		return simulation.NewAutoRobot(decl.Position, decl.Angle, decl.Speed, p.ElideDistance, p.ElideRotation, p.RotationSpeed)
	case simulation.KindControl:
		return simulation.NewControlRobot(decl.Position, decl.Angle, decl.Speed, p.RotationSpeed)
	default:
		return simulation.NewRobot(decl.Position, decl.Angle, decl.Speed)
	}
}

// Capture describes the current content of sim. AutoRobots in the middle of
// a turn are captured with their cruise speed.
func Capture(sim *simulation.Simulation) *Room {
	bounds := sim.Bounds()
	room := &Room{Width: bounds.Width, Height: bounds.Height}

	for _, o := range sim.Obstacles() {
		room.Obstacles = append(room.Obstacles, o.Hitbox())
	}
	for _, a := range sim.Agents() {
		state := simulation.StateOf(a)
		room.Robots = append(room.Robots, RobotDecl{
			Kind:     a.Kind(),
			Position: state.Position,
			Speed:    state.Speed,
			Angle:    state.Angle,
			Profile:  a.Profile(),
		})
	}
	return room
}

// Load parses the room file at path.
func Load(path string) (*Room, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open room file (%s)", path)
	}
	defer f.Close()

	room, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid room file (%s)", path)
	}
	return room, nil
}

// Save writes the current content of sim to path.
func Save(path string, sim *simulation.Simulation) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create room file (%s)", path)
	}

	if err := Capture(sim).Format(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not write room file (%s)", path)
	}
	return errors.Wrapf(f.Close(), "could not write room file (%s)", path)
}
