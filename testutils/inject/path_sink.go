package inject

import (
	"context"

	"go.viam.com/navcore/navigation"
	"go.viam.com/navcore/spatialmath"
)

// PathSink is an injected path sink.
type PathSink struct {
	navigation.PathSink
	PublishPathFunc      func(ctx context.Context, frame string, path []spatialmath.Pose2D) error
	PublishEmptyPathFunc func(ctx context.Context, frame string) error
}

// PublishPath calls the injected PublishPath or the real version.
func (s *PathSink) PublishPath(ctx context.Context, frame string, path []spatialmath.Pose2D) error {
	if s.PublishPathFunc == nil {
		return s.PathSink.PublishPath(ctx, frame, path)
	}
	return s.PublishPathFunc(ctx, frame, path)
}

// PublishEmptyPath calls the injected PublishEmptyPath or the real version.
func (s *PathSink) PublishEmptyPath(ctx context.Context, frame string) error {
	if s.PublishEmptyPathFunc == nil {
		return s.PathSink.PublishEmptyPath(ctx, frame)
	}
	return s.PublishEmptyPathFunc(ctx, frame)
}
