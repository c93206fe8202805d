package navigation

import (
	"context"

	"go.viam.com/navcore/spatialmath"
)

// PathSink receives the coordinator's output paths. Downstream consumers
// typically feed a motion executor or a debug view.
type PathSink interface {
	// PublishPath delivers a new local path in the given frame.
	PublishPath(ctx context.Context, frame string, path []spatialmath.Pose2D) error

	// PublishEmptyPath signals that no path is currently valid. Consumers
	// must stop following rather than continue along a stale path.
	PublishEmptyPath(ctx context.Context, frame string) error
}
