package simulation

import (
	"bytes"
	"math"
	"robot-sim/internal/common"
	"robot-sim/internal/geometry"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func newTestSimulation(t *testing.T, width, height float64) *Simulation {
	t.Helper()
	s, err := NewSimulation(width, height)
	require.NoError(t, err)
	s.SetLogger(nil)
	return s
}

// robotAt places a robot with its centre on c.
func robotAt(c common.Vector, angle, speed float64) *Robot {
	return NewRobot(c.Subtract(common.NewVector(RobotDiameter/2, RobotDiameter/2)), angle, speed)
}

type eventLog struct {
	events []Event
}

func (l *eventLog) listen(ev Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(l.events))
	for _, ev := range l.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestNewSimulation_RejectsBadSize(t *testing.T) {
	for _, size := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 10}} {
		_, err := NewSimulation(size[0], size[1])
		assert.Error(t, err, "size %v", size)
	}
}

func TestTick_BorderContainment(t *testing.T) {
	s := newTestSimulation(t, 400, 300)

	robots := []*Robot{
		NewRobot(common.NewVector(380, 100), 0, 100),           // through the right wall
		NewRobot(common.NewVector(-30, -40), math.Pi, 100),     // already outside, top-left
		NewRobot(common.NewVector(100, 260), math.Pi/2, 1000),  // fast, downward
		NewRobot(common.NewVector(200, 120), -math.Pi/3, 4000), // fast, diagonal
	}
	for _, r := range robots {
		s.AddAgent(r)
	}

	for i := 0; i < 50; i++ {
		s.Tick(TickDuration)
		for _, r := range robots {
			box := r.Hitbox()
			assert.GreaterOrEqual(t, box.Left(), -tolerance)
			assert.GreaterOrEqual(t, box.Top(), -tolerance)
			assert.LessOrEqual(t, box.Right(), 400+tolerance)
			assert.LessOrEqual(t, box.Bottom(), 300+tolerance)
		}
	}
}

func TestTick_ObstacleNonPenetration(t *testing.T) {
	tests := []struct {
		name   string
		rect   common.Rect
		center common.Vector
	}{
		{"FromAbove", common.NewRect(300, 300, 100, 100), common.NewVector(350, 285)},
		{"FromBelow", common.NewRect(300, 300, 100, 100), common.NewVector(320, 420)},
		{"FromLeft", common.NewRect(300, 300, 100, 100), common.NewVector(290, 340)},
		{"FromRight", common.NewRect(300, 300, 100, 100), common.NewVector(410, 399)},
		{"TopLeftCorner", common.NewRect(300, 300, 100, 100), common.NewVector(290, 288)},
		{"TopRightCorner", common.NewRect(300, 300, 100, 100), common.NewVector(415, 290)},
		{"BottomRightCorner", common.NewRect(300, 300, 100, 100), common.NewVector(405, 410)},
		{"BottomLeftCorner", common.NewRect(300, 300, 100, 100), common.NewVector(289, 412)},
		{"CentreInside", common.NewRect(300, 300, 100, 100), common.NewVector(340, 330)},
		{"SmallerThanRobot", common.NewRect(300, 300, 10, 10), common.NewVector(303, 296)},
		{"TwoCornersInside", common.NewRect(300, 300, 10, 10), common.NewVector(312, 296)},
		{"CentreOnTopLeftCorner", common.NewRect(300, 300, 100, 100), common.NewVector(300, 300)},
		{"CentreOnBottomRightCorner", common.NewRect(300, 300, 100, 100), common.NewVector(400, 400)},
		{"ThinWall", common.NewRect(300, 100, 4, 400), common.NewVector(290, 250)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSimulation(t, 800, 600)
			r := robotAt(tt.center, 0, 0)
			s.AddAgent(r)
			s.AddObstacle(NewObstacle(tt.rect))

			s.Tick(TickDuration)

			d := geometry.DistanceToRect(r.Center(), tt.rect)
			assert.GreaterOrEqual(t, d, r.Radius()-tolerance)
		})
	}
}

func TestTick_CentreOnCornerLeavesDiagonally(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	rect := common.NewRect(300, 300, 100, 100)
	r := robotAt(rect.TopLeft(), 0, 0)
	s.AddAgent(r)
	s.AddObstacle(NewObstacle(rect))

	for i := 0; i < 100; i++ {
		s.Tick(TickDuration)
	}

	offset := r.Radius() / math.Sqrt2
	assert.InDelta(t, 300-offset, r.Center().X, tolerance)
	assert.InDelta(t, 300-offset, r.Center().Y, tolerance)
}

func TestCircleRectCorrection_TieFollowsLastMove(t *testing.T) {
	tests := []struct {
		name     string
		rect     common.Rect
		center   common.Vector
		lastMove common.Vector
		want     common.Vector
	}{
		{"MovingDownGoesBackUp", common.NewRect(300, 300, 100, 100), common.NewVector(350, 350), common.NewVector(0, 1), common.NewVector(0, -75)},
		{"StillGoesUp", common.NewRect(300, 300, 100, 100), common.NewVector(350, 350), common.Vector{}, common.NewVector(0, -75)},
		{"MovingUpGoesBackDown", common.NewRect(300, 300, 100, 100), common.NewVector(350, 350), common.NewVector(0, -1), common.NewVector(0, 75)},
		// Only a zero-width rectangle ties beside the rectangle; the engine
		// skips those, so these cases call the correction directly.
		{"MovingRightGoesBackLeft", common.NewRect(300, 300, 0, 100), common.NewVector(300, 350), common.NewVector(1, 0), common.NewVector(-25, 0)},
		{"MovingLeftGoesBackRight", common.NewRect(300, 300, 0, 100), common.NewVector(300, 350), common.NewVector(-1, 0), common.NewVector(25, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := robotAt(tt.center, 0, 0)
			r.lastMove = tt.lastMove

			fix, ok := circleRectCorrection(r, tt.rect)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, fix.X, tolerance)
			assert.InDelta(t, tt.want.Y, fix.Y, tolerance)
		})
	}
}

func TestTick_EmptyObstacleNeverCollides(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	r := robotAt(common.NewVector(300, 300), 0, 0)
	s.AddAgent(r)
	s.AddObstacle(NewObstacle(common.NewRect(290, 290, 0, 40)))

	s.Tick(TickDuration)

	assert.Equal(t, common.NewVector(300, 300), r.Center())
}

func TestTick_CornerDeflection(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	rect := common.NewRect(300, 300, 100, 100)
	corner := rect.BottomLeft()

	// Heading north-east on a line that passes 7 units beside the corner.
	r := robotAt(common.NewVector(250, 460), -math.Pi/4, 100)
	s.AddAgent(r)
	s.AddObstacle(NewObstacle(rect))

	contact := false
	for i := 0; i < 200 && !contact; i++ {
		before := r.Position()
		s.Tick(TickDuration)
		predicted := before.Add(r.LastMove())
		correction := r.Position().Subtract(predicted)
		if correction.Norm() < 1e-12 {
			continue
		}
		contact = true

		toCenter := r.Center().Subtract(corner)
		assert.InDelta(t, r.Radius(), toCenter.Norm(), tolerance, "centre ends tangent to the corner")

		cross := correction.X*toCenter.Y - correction.Y*toCenter.X
		assert.InDelta(t, 0, cross, tolerance, "correction is radial")
		assert.Greater(t, correction.Dot(toCenter), 0.0, "correction points away from the corner")
	}
	require.True(t, contact, "robot never reached the corner")
}

func TestTick_AgentCollisionSymmetry(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	a := robotAt(common.NewVector(300, 300), 0, 0)
	b := robotAt(common.NewVector(318, 324), 0, 0) // 30 apart
	s.AddAgent(a)
	s.AddAgent(b)

	aStart, bStart := a.Center(), b.Center()
	s.Tick(TickDuration)

	da := a.Center().Subtract(aStart)
	db := b.Center().Subtract(bStart)
	assert.InDelta(t, 10, da.Norm(), tolerance)
	assert.InDelta(t, 10, db.Norm(), tolerance)
	assert.InDelta(t, 0, da.Add(db).Norm(), tolerance, "pushes are opposite")
	assert.InDelta(t, RobotDiameter, a.Center().Distance(b.Center()), tolerance)

	normal := common.NewVector(0.6, 0.8)
	assert.InDelta(t, 10, db.Dot(normal), tolerance, "push runs along the centre line")
}

func TestTick_CoincidentAgentsSplitAlongX(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	a := robotAt(common.NewVector(300, 300), 0, 0)
	b := robotAt(common.NewVector(300, 300), 0, 0)
	s.AddAgent(a)
	s.AddAgent(b)

	s.Tick(TickDuration)

	assert.Equal(t, common.NewVector(275, 300), a.Center())
	assert.Equal(t, common.NewVector(325, 300), b.Center())
}

func TestTick_GrabbedObjectsAreExempt(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	rect := common.NewRect(300, 300, 100, 100)
	o := NewObstacle(rect)
	s.AddObstacle(o)

	held := robotAt(common.NewVector(350, 350), 0, 100)
	held.SetGrabbed(true)
	s.AddAgent(held)

	free := robotAt(common.NewVector(360, 350), 0, 0)
	s.AddAgent(free)

	s.Tick(TickDuration)
	assert.Equal(t, common.NewVector(350, 350), held.Center(), "a grabbed robot neither moves nor gets pushed")
	assert.GreaterOrEqual(t, geometry.DistanceToRect(free.Center(), rect), free.Radius()-tolerance)

	t.Run("GrabbedObstacleIsTransparent", func(t *testing.T) {
		s := newTestSimulation(t, 800, 600)
		o := NewObstacle(common.NewRect(300, 275, 50, 50))
		o.SetGrabbed(true)
		s.AddObstacle(o)
		r := robotAt(common.NewVector(320, 300), 0, 0)
		s.AddAgent(r)

		assert.InDelta(t, 800-320-25, s.ObstacleDistance(r), tolerance)
		s.Tick(TickDuration)
		assert.Equal(t, common.NewVector(320, 300), r.Center())
	})
}

func TestObstacleDistance_Monotonic(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	s.AddObstacle(NewObstacle(common.NewRect(500, 250, 40, 100)))
	r := robotAt(common.NewVector(100, 300), 0, 0)
	s.AddAgent(r)

	prev := math.Inf(1)
	for x := 100.0; x <= 470; x += 10 {
		r.SetHitbox(common.RectAt(common.NewVector(x-25, 275), 0, 0))
		d := s.ObstacleDistance(r)
		assert.Less(t, d, prev, "at x=%v", x)
		assert.InDelta(t, math.Max(500-x-25, 0), d, tolerance)
		prev = d
	}

	t.Run("NothingAheadMeansTheWall", func(t *testing.T) {
		r.SetAngle(math.Pi)
		r.SetHitbox(common.RectAt(common.NewVector(175, 275), 0, 0))
		assert.InDelta(t, 200-25, s.ObstacleDistance(r), tolerance)
	})

	t.Run("FlushIsZero", func(t *testing.T) {
		r.SetAngle(0)
		r.SetHitbox(common.RectAt(common.NewVector(450, 275), 0, 0))
		assert.Equal(t, 0.0, s.ObstacleDistance(r))
	})
}

func TestTick_AutoRobotAvoidsWall(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	a := NewAutoRobot(common.NewVector(600, 275), 0, 100, 20, math.Pi/2, math.Pi)
	s.AddAgent(a)

	var orientationEvents int
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventOrientationChanged && ev.Object == Agent(a) {
			orientationEvents++
		}
	})

	for i := 0; i < 1000 && !a.Avoiding(); i++ {
		s.Tick(TickDuration)
	}
	require.True(t, a.Avoiding())
	stopped := a.Position()
	gap := 800 - a.Hitbox().Right()
	assert.LessOrEqual(t, gap, 20.0+tolerance)
	assert.Greater(t, gap, 20.0-100*TickDuration-tolerance)

	ticks := 0
	for a.Avoiding() {
		require.Equal(t, stopped, a.Position())
		s.Tick(TickDuration)
		ticks++
	}
	assert.InDelta(t, math.Pi/2, a.Orientation(), tolerance)
	assert.Equal(t, 100.0, a.Speed())
	assert.Equal(t, ticks+1, orientationEvents, "one event per turning tick")

	s.Tick(TickDuration)
	assert.Greater(t, a.Position().Y, stopped.Y, "drives on downwards")
	assert.LessOrEqual(t, a.Hitbox().Right(), 800.0)
}

func TestTick_ControlRobotStopsAtWall(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	c := NewControlRobot(common.NewVector(700, 275), 0, 200, math.Pi)
	c.Forward(true)
	s.AddAgent(c)

	for i := 0; i < 100; i++ {
		s.Tick(TickDuration)
	}

	assert.Equal(t, 800.0, c.Hitbox().Right())
	assert.Equal(t, 200.0, c.Speed())

	c.Left(true)
	s.Tick(0.5)
	assert.InDelta(t, -math.Pi/2, c.Orientation(), tolerance, "turns while pinned")
}

func TestSimulation_AddRemoveReplace(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	log := &eventLog{}
	s.Subscribe(log.listen)

	r := NewRobot(common.NewVector(10, 10), 0, 5)
	o := NewObstacle(common.NewRect(100, 100, 20, 20))
	s.AddAgent(r)
	s.AddAgent(r)
	s.AddObstacle(o)
	assert.Len(t, s.Agents(), 1)
	assert.Len(t, s.Obstacles(), 1)
	assert.Equal(t, []EventKind{EventObjectAdded, EventObjectAdded}, log.kinds())

	got, ok := s.GetObject(o.GetID())
	require.True(t, ok)
	assert.Same(t, o, got)

	log.events = nil
	require.True(t, s.Select(r))
	assert.Equal(t, []Event{{Kind: EventSelected, Object: r}}, log.events)
	s.Select(r)
	assert.Len(t, log.events, 1, "selecting again is silent")

	auto := Convert(r, KindAuto)
	log.events = nil
	require.True(t, s.ReplaceAgent(r, auto))
	assert.Equal(t, []Event{
		{Kind: EventObjectRemoved, Object: r},
		{Kind: EventObjectAdded, Object: auto},
		{Kind: EventSelected, Object: auto},
	}, log.events)
	assert.Equal(t, auto, s.Selected())
	assert.Equal(t, []Agent{auto}, s.Agents())

	assert.False(t, s.ReplaceAgent(r, NewRobot(common.Vector{}, 0, 0)), "old robot is no longer owned")
	assert.False(t, s.RemoveObject(r))
	assert.False(t, s.Select(r))

	log.events = nil
	require.True(t, s.RemoveObject(auto))
	assert.Equal(t, []Event{
		{Kind: EventSelected, Object: nil},
		{Kind: EventObjectRemoved, Object: auto},
	}, log.events)
	assert.Nil(t, s.Selected())
	assert.Empty(t, s.Agents())

	require.True(t, s.RemoveObject(o))
	assert.Empty(t, s.Obstacles())
	_, ok = s.GetObject(o.GetID())
	assert.False(t, ok)
}

func TestSimulation_ObjectAt(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	o := NewObstacle(common.NewRect(100, 100, 200, 200))
	bottom := robotAt(common.NewVector(150, 150), 0, 0)
	top := robotAt(common.NewVector(160, 150), 0, 0)
	s.AddObstacle(o)
	s.AddAgent(bottom)
	s.AddAgent(top)

	assert.Equal(t, top, s.ObjectAt(common.NewVector(155, 150)))
	assert.Equal(t, bottom, s.ObjectAt(common.NewVector(126, 150)))
	assert.Equal(t, o, s.ObjectAt(common.NewVector(290, 290)))
	assert.Nil(t, s.ObjectAt(common.NewVector(500, 500)))
}

func TestSimulation_PlayPause(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	r := NewRobot(common.NewVector(10, 10), 0, 100)
	s.AddAgent(r)

	s.RunSimulation(false)
	s.Update(TickDuration)
	assert.Equal(t, uint64(0), s.Ticks())
	assert.Equal(t, common.NewVector(10, 10), r.Position())

	s.RunSimulation(true)
	s.Update(TickDuration)
	assert.Equal(t, uint64(1), s.Ticks())
	assert.InDelta(t, TickDuration, s.GetCurrentTime(), tolerance)
	assert.InDelta(t, 11, r.Position().X, tolerance)
}

func TestSimulation_PausedUpdateReportsHeadingChanges(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	r := NewRobot(common.NewVector(10, 10), 0, 0)
	s.AddAgent(r)
	s.RunSimulation(false)

	var log eventLog
	s.Subscribe(log.listen)

	s.Update(TickDuration)
	assert.Empty(t, log.events)

	r.SetAngle(1)
	s.Update(TickDuration)
	require.Equal(t, []EventKind{EventOrientationChanged}, log.kinds())
	assert.Equal(t, SimulationObject(r), log.events[0].Object)
	assert.Equal(t, uint64(0), s.Ticks())

	s.Update(TickDuration)
	assert.Len(t, log.events, 1, "reported once")
}

func TestSimulation_Resize(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	r := NewRobot(common.NewVector(700, 500), 0, 0)
	s.AddAgent(r)

	require.Error(t, s.Resize(-1, 10))
	require.NoError(t, s.Resize(400, 300))
	s.Tick(TickDuration)

	assert.Equal(t, common.NewVector(350, 250), r.Position())
}

func TestSimulation_ReportAndState(t *testing.T) {
	s := newTestSimulation(t, 800, 600)
	s.AddAgent(NewRobot(common.NewVector(100, 100), 0, 10))
	a := NewAutoRobot(common.NewVector(300, 300), 0, 30, 20, 1, 1)
	s.AddAgent(a)
	a.Move(TickDuration, 0)

	rep := s.Report()
	assert.Equal(t, 2, rep.Agents)
	assert.Equal(t, 1, rep.Avoiding)
	assert.InDelta(t, 20, rep.MeanSpeed, tolerance)
	assert.InDelta(t, math.Sqrt(200), rep.SpeedStdDev, tolerance)
	assert.Contains(t, rep.String(), "avoiding=1")

	var buf bytes.Buffer
	s.WriteState(&buf)
	assert.Contains(t, buf.String(), a.GetID())
	assert.Contains(t, buf.String(), "Obstacles:\n  None")
}
