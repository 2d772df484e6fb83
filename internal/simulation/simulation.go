package simulation

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"robot-sim/internal/common"
)

// TickDuration is the fixed length of one simulation step in seconds.
const TickDuration = 0.01

// Simulation is the room: it owns the robots and obstacles and advances
// them on every tick. It holds no timer; the host calls Tick or Update.
type Simulation struct {
	bounds         common.Rect // arena, top-left corner at the origin
	obstacles      []*Obstacle
	agents         []Agent
	selected       SimulationObject
	playing        bool
	simulationTime float64 // Total elapsed simulation time
	ticks          uint64

	listeners []Listener
	logger    *log.Logger
}

// NewSimulation creates an empty room of the given size.
func NewSimulation(width, height float64) (*Simulation, error) {
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("room size must be positive, got %vx%v", width, height)
	}

	return &Simulation{
		bounds:  common.NewRect(0, 0, width, height),
		playing: true,
		logger:  log.New(os.Stderr, "simulation: ", log.LstdFlags),
	}, nil
}

// SetLogger replaces the logger; nil discards all output.
func (s *Simulation) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s.logger = logger
}

// Bounds returns the arena rectangle.
func (s *Simulation) Bounds() common.Rect {
	return s.bounds
}

// Resize changes the arena size. Robots left outside are pushed back in by
// the next tick.
func (s *Simulation) Resize(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("room size must be positive, got %vx%v", width, height)
	}
	s.bounds.Width = width
	s.bounds.Height = height
	return nil
}

// AddObstacle hands the obstacle over to the simulation.
func (s *Simulation) AddObstacle(o *Obstacle) {
	if o == nil || s.indexOfObstacle(o) >= 0 {
		return
	}
	s.obstacles = append(s.obstacles, o)
	s.logger.Printf("added %s", o)
	s.publish(EventObjectAdded, o)
}

// AddAgent hands the robot over to the simulation.
func (s *Simulation) AddAgent(a Agent) {
	if a == nil || s.indexOfAgent(a) >= 0 {
		return
	}
	s.agents = append(s.agents, a)
	s.logger.Printf("added %s", a)
	s.publish(EventObjectAdded, a)
}

// RemoveObject removes a robot or an obstacle and clears the selection if it
// pointed at it. Objects the simulation does not own are ignored.
func (s *Simulation) RemoveObject(obj SimulationObject) bool {
	switch {
	case obj == nil:
		return false
	case s.removeAgent(obj):
	case s.removeObstacle(obj):
	default:
		return false
	}

	if s.selected == obj {
		s.selected = nil
		s.publish(EventSelected, nil)
	}
	s.logger.Printf("removed %s", obj.GetID())
	s.publish(EventObjectRemoved, obj)
	return true
}

func (s *Simulation) removeAgent(obj SimulationObject) bool {
	for i, a := range s.agents {
		if SimulationObject(a) == obj {
			s.agents = append(s.agents[:i], s.agents[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Simulation) removeObstacle(obj SimulationObject) bool {
	for i, o := range s.obstacles {
		if SimulationObject(o) == obj {
			s.obstacles = append(s.obstacles[:i], s.obstacles[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAgent swaps old for replacement in place. If old was selected the
// replacement takes over the selection.
func (s *Simulation) ReplaceAgent(old, replacement Agent) bool {
	if old == nil || replacement == nil || s.indexOfAgent(replacement) >= 0 {
		return false
	}
	i := s.indexOfAgent(old)
	if i < 0 {
		return false
	}

	s.agents[i] = replacement
	s.logger.Printf("replaced %s with %s", old.GetID(), replacement)
	s.publish(EventObjectRemoved, old)
	s.publish(EventObjectAdded, replacement)

	if s.selected == SimulationObject(old) {
		s.selected = replacement
		s.publish(EventSelected, replacement)
	}
	return true
}

func (s *Simulation) indexOfAgent(a Agent) int {
	for i, other := range s.agents {
		if other == a {
			return i
		}
	}
	return -1
}

func (s *Simulation) indexOfObstacle(o *Obstacle) int {
	for i, other := range s.obstacles {
		if other == o {
			return i
		}
	}
	return -1
}

func (s *Simulation) owns(obj SimulationObject) bool {
	if a, ok := obj.(Agent); ok && s.indexOfAgent(a) >= 0 {
		return true
	}
	if o, ok := obj.(*Obstacle); ok && s.indexOfObstacle(o) >= 0 {
		return true
	}
	return false
}

// GetObject returns an object by its ID.
func (s *Simulation) GetObject(id string) (SimulationObject, bool) {
	for _, a := range s.agents {
		if a.GetID() == id {
			return a, true
		}
	}
	for _, o := range s.obstacles {
		if o.GetID() == id {
			return o, true
		}
	}
	return nil, false
}

// Agents returns the robots in insertion order.
func (s *Simulation) Agents() []Agent {
	agents := make([]Agent, len(s.agents))
	copy(agents, s.agents)
	return agents
}

// Obstacles returns the obstacles in insertion order.
func (s *Simulation) Obstacles() []*Obstacle {
	obstacles := make([]*Obstacle, len(s.obstacles))
	copy(obstacles, s.obstacles)
	return obstacles
}

// ObjectAt returns the topmost object under p: robots are above obstacles
// and later objects above earlier ones.
func (s *Simulation) ObjectAt(p common.Vector) SimulationObject {
	for i := len(s.agents) - 1; i >= 0; i-- {
		base := s.agents[i].Base()
		if base.Center().Distance(p) <= base.Radius() {
			return s.agents[i]
		}
	}
	for i := len(s.obstacles) - 1; i >= 0; i-- {
		if s.obstacles[i].Hitbox().Contains(p) {
			return s.obstacles[i]
		}
	}
	return nil
}

// Select makes obj the selected object. Passing nil clears the selection.
// Objects the simulation does not own are ignored.
func (s *Simulation) Select(obj SimulationObject) bool {
	if obj == nil {
		s.Deselect()
		return true
	}
	if !s.owns(obj) {
		return false
	}
	if s.selected != obj {
		s.selected = obj
		s.publish(EventSelected, obj)
	}
	return true
}

// Deselect clears the selection.
func (s *Simulation) Deselect() {
	if s.selected == nil {
		return
	}
	s.selected = nil
	s.publish(EventSelected, nil)
}

// Selected returns the selected object or nil.
func (s *Simulation) Selected() SimulationObject {
	return s.selected
}

// RunSimulation starts or pauses the simulation. State is kept either way.
func (s *Simulation) RunSimulation(playing bool) {
	if s.playing != playing {
		s.logger.Printf("playing: %v", playing)
	}
	s.playing = playing
}

// IsPlaying reports whether Update advances the simulation.
func (s *Simulation) IsPlaying() bool {
	return s.playing
}

// Update is the frame callback of the host: it ticks once while playing.
// While paused it only reports heading changes made since the last frame.
func (s *Simulation) Update(delta float64) {
	if s.playing {
		s.Tick(delta)
		return
	}
	s.publishOrientationChanges()
}

// Tick advances the simulation by delta seconds. The phases run in a fixed
// order and each relies on the previous ones: move, border collisions,
// obstacle collisions, robot collisions.
func (s *Simulation) Tick(delta float64) {
	s.moveAgents(delta)
	s.resolveBorderCollisions()
	s.resolveObstacleCollisions()
	s.resolveAgentCollisions()

	s.simulationTime += delta
	s.ticks++

	s.publishOrientationChanges()
}

func (s *Simulation) publishOrientationChanges() {
	for _, a := range s.agents {
		if a.Base().takeAngleChange() {
			s.publish(EventOrientationChanged, a)
		}
	}
}

// GetCurrentTime returns the simulated time in seconds.
func (s *Simulation) GetCurrentTime() float64 {
	return s.simulationTime
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Run executes numSteps ticks of delta seconds back to back, logging a report
// every simulated second.
func (s *Simulation) Run(numSteps int, delta float64) {
	s.logger.Printf("starting: %d steps of %.3fs, %d robots, %d obstacles", numSteps, delta, len(s.agents), len(s.obstacles))

	for i := 0; i < numSteps; i++ {
		before := math.Floor(s.simulationTime)
		s.Tick(delta)
		if math.Floor(s.simulationTime) != before {
			s.logger.Print(s.Report())
		}
	}

	s.logger.Printf("finished at %.2fs", s.simulationTime)
}

// WriteState writes the current state of all objects.
func (s *Simulation) WriteState(w io.Writer) {
	fmt.Fprintln(w, "--- Current Simulation State ---")
	fmt.Fprintf(w, "Time: %.2fs (%d ticks) Room: %s\n", s.simulationTime, s.ticks, s.bounds)
	fmt.Fprintln(w, "Obstacles:")
	if len(s.obstacles) == 0 {
		fmt.Fprintln(w, "  None")
	}
	for _, o := range s.obstacles {
		fmt.Fprintf(w, "  %s\n", o)
	}
	fmt.Fprintln(w, "Robots:")
	if len(s.agents) == 0 {
		fmt.Fprintln(w, "  None")
	}
	for _, a := range s.agents {
		fmt.Fprintf(w, "  %s | clearance %.2f\n", a, s.ObstacleDistance(a))
	}
	fmt.Fprintln(w, "-----------------------------")
}
