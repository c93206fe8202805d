package inject

import (
	"context"

	"go.viam.com/navcore/navigation"
	"go.viam.com/navcore/spatialmath"
)

// Localizer is an injected localizer.
type Localizer struct {
	navigation.Localizer
	CurrentPoseFunc func(ctx context.Context, frame string) (spatialmath.Pose2D, error)
}

// CurrentPose calls the injected CurrentPose or the real version.
func (l *Localizer) CurrentPose(ctx context.Context, frame string) (spatialmath.Pose2D, error) {
	if l.CurrentPoseFunc == nil {
		return l.Localizer.CurrentPose(ctx, frame)
	}
	return l.CurrentPoseFunc(ctx, frame)
}
