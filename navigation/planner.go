package navigation

import (
	"context"

	"github.com/golang/geo/r2"

	"go.viam.com/navcore/costmap"
	"go.viam.com/navcore/spatialmath"
)

// Planner is the path planning engine the coordinator drives. The
// coordinator treats it as a black box: it feeds maps and poses in and asks
// about path state. Implementations do not need to be goroutine safe; the
// coordinator serializes all calls.
type Planner interface {
	// SetGlobalMap hands the planner the long-horizon occupancy grid.
	SetGlobalMap(snap *costmap.Snapshot)

	// SetLocalMap hands the planner the freshest local obstacle view. Called
	// once per control cycle before Update.
	SetLocalMap(snap *costmap.Snapshot)

	// SetGoal computes an initial plan from start to goal. A returned error
	// means planning failed outright; an unreachable goal is instead
	// reported by HasValidPath returning false.
	SetGoal(ctx context.Context, start, goal spatialmath.Pose2D) error

	// Update advances the plan given the current pose. When forceReplan is
	// true the planner must recompute the path even if the current one still
	// looks viable.
	Update(ctx context.Context, pose spatialmath.Pose2D, forceReplan bool) error

	// IsGoalReached reports whether pose is close enough to the goal set by
	// SetGoal.
	IsGoalReached(pose spatialmath.Pose2D) bool

	// HasValidPath reports whether the planner currently holds a traversable
	// path to the goal.
	HasValidPath() bool

	// HasNewLocalPath reports whether the planner produced a new local path
	// since this method last returned true.
	HasNewLocalPath() bool

	// LocalPath returns the near-term path segment to hand to the motion
	// executor.
	LocalPath() []spatialmath.Pose2D

	// GlobalPath returns the flattened long-horizon route.
	GlobalPath() []r2.Point

	// GlobalWaypoints returns the key poses of the global route.
	GlobalWaypoints() []spatialmath.Pose2D
}
