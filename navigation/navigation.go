// Package navigation contains the coordination state machine that supervises
// a mobile robot's drive toward a goal pose. The Coordinator keeps a path
// planner fed with fresh pose and obstacle data, gates what gets published
// to the path output, and owns the activation lifecycle of the downstream
// motion executor. It plans and publishes but does not drive motors itself.
package navigation

import (
	"context"

	"go.viam.com/navcore/spatialmath"
)

// DefaultMapFrame is the frame goals are planned in until a global map
// announces its own frame.
const DefaultMapFrame = "map"

// Goal is a target pose tagged with the coordinate frame the pose is
// expressed in. An empty Frame means the pose is already in map
// coordinates.
type Goal struct {
	Pose  spatialmath.Pose2D
	Frame string
}

// Localizer answers where the robot currently is, in the requested frame.
type Localizer interface {
	CurrentPose(ctx context.Context, frame string) (spatialmath.Pose2D, error)
}

// Transformer converts poses between coordinate frames.
type Transformer interface {
	TransformPose(ctx context.Context, pose spatialmath.Pose2D, srcFrame, dstFrame string) (spatialmath.Pose2D, error)
}
