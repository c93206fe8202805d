// Package inject provides dependency-injected navigation collaborators for
// testing. Each fake delegates to per-method function fields, falling back
// to the embedded interface when a field is unset.
package inject

import (
	"context"

	"github.com/golang/geo/r2"

	"go.viam.com/navcore/costmap"
	"go.viam.com/navcore/navigation"
	"go.viam.com/navcore/spatialmath"
)

// Planner is an injected planner.
type Planner struct {
	navigation.Planner
	SetGlobalMapFunc    func(snap *costmap.Snapshot)
	SetLocalMapFunc     func(snap *costmap.Snapshot)
	SetGoalFunc         func(ctx context.Context, start, goal spatialmath.Pose2D) error
	UpdateFunc          func(ctx context.Context, pose spatialmath.Pose2D, forceReplan bool) error
	IsGoalReachedFunc   func(pose spatialmath.Pose2D) bool
	HasValidPathFunc    func() bool
	HasNewLocalPathFunc func() bool
	LocalPathFunc       func() []spatialmath.Pose2D
	GlobalPathFunc      func() []r2.Point
	GlobalWaypointsFunc func() []spatialmath.Pose2D
}

// SetGlobalMap calls the injected SetGlobalMap or the real version.
func (p *Planner) SetGlobalMap(snap *costmap.Snapshot) {
	if p.SetGlobalMapFunc == nil {
		p.Planner.SetGlobalMap(snap)
		return
	}
	p.SetGlobalMapFunc(snap)
}

// SetLocalMap calls the injected SetLocalMap or the real version.
func (p *Planner) SetLocalMap(snap *costmap.Snapshot) {
	if p.SetLocalMapFunc == nil {
		p.Planner.SetLocalMap(snap)
		return
	}
	p.SetLocalMapFunc(snap)
}

// SetGoal calls the injected SetGoal or the real version.
func (p *Planner) SetGoal(ctx context.Context, start, goal spatialmath.Pose2D) error {
	if p.SetGoalFunc == nil {
		return p.Planner.SetGoal(ctx, start, goal)
	}
	return p.SetGoalFunc(ctx, start, goal)
}

// Update calls the injected Update or the real version.
func (p *Planner) Update(ctx context.Context, pose spatialmath.Pose2D, forceReplan bool) error {
	if p.UpdateFunc == nil {
		return p.Planner.Update(ctx, pose, forceReplan)
	}
	return p.UpdateFunc(ctx, pose, forceReplan)
}

// IsGoalReached calls the injected IsGoalReached or the real version.
func (p *Planner) IsGoalReached(pose spatialmath.Pose2D) bool {
	if p.IsGoalReachedFunc == nil {
		return p.Planner.IsGoalReached(pose)
	}
	return p.IsGoalReachedFunc(pose)
}

// HasValidPath calls the injected HasValidPath or the real version.
func (p *Planner) HasValidPath() bool {
	if p.HasValidPathFunc == nil {
		return p.Planner.HasValidPath()
	}
	return p.HasValidPathFunc()
}

// HasNewLocalPath calls the injected HasNewLocalPath or the real version.
func (p *Planner) HasNewLocalPath() bool {
	if p.HasNewLocalPathFunc == nil {
		return p.Planner.HasNewLocalPath()
	}
	return p.HasNewLocalPathFunc()
}

// LocalPath calls the injected LocalPath or the real version.
func (p *Planner) LocalPath() []spatialmath.Pose2D {
	if p.LocalPathFunc == nil {
		return p.Planner.LocalPath()
	}
	return p.LocalPathFunc()
}

// GlobalPath calls the injected GlobalPath or the real version.
func (p *Planner) GlobalPath() []r2.Point {
	if p.GlobalPathFunc == nil {
		return p.Planner.GlobalPath()
	}
	return p.GlobalPathFunc()
}

// GlobalWaypoints calls the injected GlobalWaypoints or the real version.
func (p *Planner) GlobalWaypoints() []spatialmath.Pose2D {
	if p.GlobalWaypointsFunc == nil {
		return p.Planner.GlobalWaypoints()
	}
	return p.GlobalWaypointsFunc()
}
