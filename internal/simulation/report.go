package simulation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Report summarizes the room at one instant.
type Report struct {
	Time      float64
	Ticks     uint64
	Agents    int
	Obstacles int
	Avoiding  int // AutoRobots in the middle of a turn
	Grabbed   int

	MeanSpeed   float64 // cruise speeds of all robots
	SpeedStdDev float64

	MeanClearance float64 // over robots with a finite obstacle distance
	Blocked       int     // robots with zero clearance
}

// Report computes the statistics of the current state.
func (s *Simulation) Report() Report {
	rep := Report{
		Time:      s.simulationTime,
		Ticks:     s.ticks,
		Agents:    len(s.agents),
		Obstacles: len(s.obstacles),
	}

	speeds := make([]float64, 0, len(s.agents))
	clearances := make([]float64, 0, len(s.agents))
	for _, a := range s.agents {
		speeds = append(speeds, a.Speed())

		if a.IsGrabbed() {
			rep.Grabbed++
		}
		if av, ok := a.(interface{ Avoiding() bool }); ok && av.Avoiding() {
			rep.Avoiding++
		}

		d := s.ObstacleDistance(a)
		if d == 0 {
			rep.Blocked++
		}
		if !math.IsInf(d, 0) {
			clearances = append(clearances, d)
		}
	}

	switch len(speeds) {
	case 0:
	case 1:
		rep.MeanSpeed = speeds[0]
	default:
		rep.MeanSpeed, rep.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	}
	if len(clearances) > 0 {
		rep.MeanClearance = stat.Mean(clearances, nil)
	}

	return rep
}

func (r Report) String() string {
	return fmt.Sprintf("t=%.2fs ticks=%d robots=%d obstacles=%d avoiding=%d grabbed=%d speed=%.2f±%.2f clearance=%.2f blocked=%d",
		r.Time, r.Ticks, r.Agents, r.Obstacles, r.Avoiding, r.Grabbed,
		r.MeanSpeed, r.SpeedStdDev, r.MeanClearance, r.Blocked)
}
