// Package fake provides in-memory implementations of the navigation
// interfaces, useful for demos and for exercising a Coordinator without
// hardware.
package fake

import (
	"context"
	"math"
	"sync"

	"github.com/golang/geo/r2"

	"go.viam.com/navcore/costmap"
	"go.viam.com/navcore/spatialmath"
)

// Defaults for a Planner constructed by NewPlanner.
const (
	defaultStepMeters    = 0.5
	defaultGoalTolerance = 0.25
)

// Planner plans straight lines. A goal is reachable when the segment from
// start to goal crosses no occupied cell; each Update replans from the
// robot's current pose, so the local path shrinks as the robot advances.
type Planner struct {
	// StepMeters is the sampling interval along planned segments.
	StepMeters float64
	// GoalTolerance is how close the robot must get for IsGoalReached.
	GoalTolerance float64

	mu         sync.Mutex
	global     *costmap.Snapshot
	local      *costmap.Snapshot
	goal       spatialmath.Pose2D
	goalSet    bool
	valid      bool
	newLocal   bool
	path       []spatialmath.Pose2D
	globalPlan []spatialmath.Pose2D
}

// NewPlanner returns a straight-line planner with default sampling and
// tolerance.
func NewPlanner() *Planner {
	return &Planner{StepMeters: defaultStepMeters, GoalTolerance: defaultGoalTolerance}
}

// SetGlobalMap stores the snapshot used to validate new goals.
func (p *Planner) SetGlobalMap(snap *costmap.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.global = snap
}

// SetLocalMap stores the snapshot used to validate the path on each update.
func (p *Planner) SetLocalMap(snap *costmap.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.local = snap
}

// SetGoal plans a straight line from start to goal. A line crossing an
// occupied cell leaves the planner without a valid path rather than
// returning an error.
func (p *Planner) SetGoal(ctx context.Context, start, goal spatialmath.Pose2D) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.goal = goal
	p.goalSet = true

	path := p.line(start, goal)
	if p.blocked(path) {
		p.valid = false
		p.path = nil
		p.globalPlan = nil
		return nil
	}
	p.valid = true
	p.path = path
	p.globalPlan = path
	p.newLocal = true
	return nil
}

// Update replans the remaining segment from pose to the goal. The local path
// is replaced, and flagged as new, when it changed length or when forceReplan
// is set; a segment crossing an occupied cell invalidates the plan.
func (p *Planner) Update(ctx context.Context, pose spatialmath.Pose2D, forceReplan bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.goalSet {
		return nil
	}

	fresh := p.line(pose, p.goal)
	if p.blocked(fresh) {
		p.valid = false
		return nil
	}
	p.valid = true
	if forceReplan || len(fresh) != len(p.path) {
		p.path = fresh
		p.newLocal = true
	}
	return nil
}

// IsGoalReached reports whether pose is within GoalTolerance of the goal.
func (p *Planner) IsGoalReached(pose spatialmath.Pose2D) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.goalSet && pose.DistanceTo(p.goal) <= p.GoalTolerance
}

// HasValidPath reports whether the last planning attempt found a clear line.
func (p *Planner) HasValidPath() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.goalSet && p.valid
}

// HasNewLocalPath reports whether the local path changed since this method
// last returned true.
func (p *Planner) HasNewLocalPath() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.newLocal {
		return false
	}
	p.newLocal = false
	return true
}

// LocalPath returns the remaining planned poses.
func (p *Planner) LocalPath() []spatialmath.Pose2D {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]spatialmath.Pose2D(nil), p.path...)
}

// GlobalPath returns the points of the line planned at SetGoal time.
func (p *Planner) GlobalPath() []r2.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	pts := make([]r2.Point, 0, len(p.globalPlan))
	for _, pose := range p.globalPlan {
		pts = append(pts, pose.Point())
	}
	return pts
}

// GlobalWaypoints returns the poses of the line planned at SetGoal time.
func (p *Planner) GlobalWaypoints() []spatialmath.Pose2D {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]spatialmath.Pose2D(nil), p.globalPlan...)
}

// line samples the segment from from to to every StepMeters. Poses face
// along the segment; the last one faces the goal heading.
func (p *Planner) line(from, to spatialmath.Pose2D) []spatialmath.Pose2D {
	step := p.StepMeters
	if step <= 0 {
		step = defaultStepMeters
	}
	dist := from.DistanceTo(to)
	steps := int(math.Ceil(dist / step))
	if steps < 1 {
		steps = 1
	}
	theta := math.Atan2(to.Y-from.Y, to.X-from.X)
	path := make([]spatialmath.Pose2D, 0, steps+1)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		path = append(path, spatialmath.NewPose2D(
			from.X+(to.X-from.X)*f,
			from.Y+(to.Y-from.Y)*f,
			theta,
		))
	}
	path[len(path)-1].Theta = to.Theta
	return path
}

// blocked reports whether any sampled pose lands on an occupied cell of the
// freshest map available.
func (p *Planner) blocked(path []spatialmath.Pose2D) bool {
	snap := p.local
	if snap == nil {
		snap = p.global
	}
	if snap == nil {
		return false
	}
	for _, pose := range path {
		if snap.OccupiedAtWorld(pose.Point()) {
			return true
		}
	}
	return false
}
