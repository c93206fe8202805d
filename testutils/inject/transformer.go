package inject

import (
	"context"

	"go.viam.com/navcore/navigation"
	"go.viam.com/navcore/spatialmath"
)

// Transformer is an injected frame transformer.
type Transformer struct {
	navigation.Transformer
	TransformPoseFunc func(ctx context.Context, pose spatialmath.Pose2D, srcFrame, dstFrame string) (spatialmath.Pose2D, error)
}

// TransformPose calls the injected TransformPose or the real version.
func (t *Transformer) TransformPose(
	ctx context.Context,
	pose spatialmath.Pose2D,
	srcFrame, dstFrame string,
) (spatialmath.Pose2D, error) {
	if t.TransformPoseFunc == nil {
		return t.Transformer.TransformPose(ctx, pose, srcFrame, dstFrame)
	}
	return t.TransformPoseFunc(ctx, pose, srcFrame, dstFrame)
}
