// Package editor turns user intents (add, select, drag, convert, drive, save)
// into calls on the simulation. It knows nothing about keys or windows; the
// renderer maps input events onto it.
package editor

import (
	"fmt"
	"io"
	"log"

	"robot-sim/internal/common"
	"robot-sim/internal/roomfile"
	"robot-sim/internal/simulation"
)

// DriveKey is one of the toggles of a ControlRobot.
type DriveKey int

const (
	DriveForward DriveKey = iota
	DriveLeft
	DriveRight
)

// DefaultObstacleSize is the side of the square obstacle added by AddObstacle.
const DefaultObstacleSize = 60.0

// Driver is implemented by robots steered by the user.
type Driver interface {
	Forward(start bool)
	Left(start bool)
	Right(start bool)
}

// Editor holds the interaction state between frames.
type Editor struct {
	sim      *simulation.Simulation
	savePath string
	logger   *log.Logger

	grabbed    simulation.SimulationObject
	grabOffset common.Vector // hitbox corner relative to the cursor

	driven simulation.Agent
	held   map[DriveKey]bool

	status string
}

// New creates an editor working on sim. Save writes to savePath.
func New(sim *simulation.Simulation, savePath string, logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &Editor{
		sim:      sim,
		savePath: savePath,
		logger:   logger,
		held:     make(map[DriveKey]bool),
	}
	sim.Subscribe(e.handleEvent)
	return e
}

func (e *Editor) handleEvent(ev simulation.Event) {
	switch ev.Kind {
	case simulation.EventSelected:
		if e.driven != nil && ev.Object != e.driven {
			e.releaseDrive()
		}
	case simulation.EventObjectRemoved:
		if e.driven != nil && ev.Object == e.driven {
			e.releaseDrive()
		}
		if e.grabbed != nil && ev.Object == e.grabbed {
			e.grabbed = nil
		}
	}
}

// Status returns the message of the latest action.
func (e *Editor) Status() string {
	return e.status
}

func (e *Editor) setStatus(format string, args ...interface{}) {
	e.status = fmt.Sprintf(format, args...)
	e.logger.Print(e.status)
}

// TogglePlaying starts or pauses the simulation.
func (e *Editor) TogglePlaying() {
	e.sim.RunSimulation(!e.sim.IsPlaying())
	if e.sim.IsPlaying() {
		e.setStatus("running")
	} else {
		e.setStatus("paused")
	}
}

// CycleSelection selects the next robot, then the obstacles, wrapping around.
func (e *Editor) CycleSelection() simulation.SimulationObject {
	var objects []simulation.SimulationObject
	for _, a := range e.sim.Agents() {
		objects = append(objects, a)
	}
	for _, o := range e.sim.Obstacles() {
		objects = append(objects, o)
	}
	if len(objects) == 0 {
		return nil
	}

	next := 0
	if sel := e.sim.Selected(); sel != nil {
		for i, obj := range objects {
			if obj == sel {
				next = (i + 1) % len(objects)
				break
			}
		}
	}
	e.sim.Select(objects[next])
	return objects[next]
}

// AddRobot places a still robot facing right with its centre on p and
// selects it.
func (e *Editor) AddRobot(p common.Vector) *simulation.Robot {
	half := simulation.RobotDiameter / 2
	r := simulation.NewRobot(p.Subtract(common.NewVector(half, half)), 0, 0)
	e.sim.AddAgent(r)
	e.sim.Select(r)
	e.setStatus("added %s", r.GetID())
	return r
}

// AddObstacle places a square obstacle centred on p and selects it.
func (e *Editor) AddObstacle(p common.Vector) *simulation.Obstacle {
	half := DefaultObstacleSize / 2
	o := simulation.NewObstacle(common.RectAt(p.Subtract(common.NewVector(half, half)), DefaultObstacleSize, DefaultObstacleSize))
	e.sim.AddObstacle(o)
	e.sim.Select(o)
	e.setStatus("added %s", o.GetID())
	return o
}

// RemoveSelected deletes the selected object.
func (e *Editor) RemoveSelected() bool {
	sel := e.sim.Selected()
	if sel == nil {
		return false
	}
	id := sel.GetID()
	if !e.sim.RemoveObject(sel) {
		return false
	}
	e.setStatus("removed %s", id)
	return true
}

// ConvertSelected changes the behaviour of the selected robot, keeping its
// position, heading, speed and selection.
func (e *Editor) ConvertSelected(kind simulation.Kind) (simulation.Agent, bool) {
	a, ok := e.sim.Selected().(simulation.Agent)
	if !ok || a.Kind() == kind {
		return nil, false
	}

	wasGrabbed := e.grabbed == simulation.SimulationObject(a)
	next := simulation.Convert(a, kind)
	next.SetGrabbed(a.IsGrabbed())
	if !e.sim.ReplaceAgent(a, next) {
		return nil, false
	}
	if wasGrabbed {
		e.grabbed = next
	}
	e.setStatus("%s is now a %s", next.GetID(), kind)
	return next, true
}

// Grab selects the object under p and starts dragging it. With nothing under
// p the selection is cleared.
func (e *Editor) Grab(p common.Vector) bool {
	obj := e.sim.ObjectAt(p)
	if obj == nil {
		e.sim.Deselect()
		return false
	}

	e.Release()
	e.sim.Select(obj)
	obj.SetGrabbed(true)
	e.grabbed = obj
	e.grabOffset = obj.Hitbox().TopLeft().Subtract(p)
	return true
}

// DragTo moves the grabbed object so that it keeps its offset to the cursor.
func (e *Editor) DragTo(p common.Vector) {
	if e.grabbed == nil {
		return
	}
	e.grabbed.SetHitbox(e.grabbed.Hitbox().MoveTo(p.Add(e.grabOffset)))
}

// Release drops the grabbed object back into the simulation.
func (e *Editor) Release() {
	if e.grabbed == nil {
		return
	}
	e.grabbed.SetGrabbed(false)
	e.grabbed = nil
}

// Grabbed returns the object being dragged, if any.
func (e *Editor) Grabbed() simulation.SimulationObject {
	return e.grabbed
}

// Drive forwards a key press or release to the selected robot when it can be
// steered. Releases always reach the robot that saw the press.
func (e *Editor) Drive(key DriveKey, pressed bool) {
	if !pressed {
		if e.held[key] {
			delete(e.held, key)
			if d, ok := e.driven.(Driver); ok {
				toggle(d, key, false)
			}
		}
		return
	}

	a, ok := e.sim.Selected().(simulation.Agent)
	if !ok {
		return
	}
	d, ok := a.(Driver)
	if !ok {
		return
	}
	if e.driven != a {
		e.releaseDrive()
		e.driven = a
	}
	if !e.held[key] {
		e.held[key] = true
		toggle(d, key, true)
	}
}

func (e *Editor) releaseDrive() {
	if d, ok := e.driven.(Driver); ok {
		for key := range e.held {
			toggle(d, key, false)
		}
	}
	e.held = make(map[DriveKey]bool)
	e.driven = nil
}

func toggle(d Driver, key DriveKey, start bool) {
	switch key {
	case DriveForward:
		d.Forward(start)
	case DriveLeft:
		d.Left(start)
	case DriveRight:
		d.Right(start)
	}
}

// Save writes the room to the save path.
func (e *Editor) Save() error {
	if err := roomfile.Save(e.savePath, e.sim); err != nil {
		e.setStatus("save failed: %v", err)
		return err
	}
	e.setStatus("saved to %s", e.savePath)
	return nil
}
