package inject

import (
	"context"

	"go.viam.com/navcore/costmap"
)

// CostmapSource is an injected local costmap source.
type CostmapSource struct {
	costmap.Source
	ClearRobotFootprintFunc func(ctx context.Context) error
	SnapshotFunc            func(ctx context.Context) (*costmap.Snapshot, error)
}

// ClearRobotFootprint calls the injected ClearRobotFootprint or the real
// version.
func (s *CostmapSource) ClearRobotFootprint(ctx context.Context) error {
	if s.ClearRobotFootprintFunc == nil {
		return s.Source.ClearRobotFootprint(ctx)
	}
	return s.ClearRobotFootprintFunc(ctx)
}

// Snapshot calls the injected Snapshot or the real version.
func (s *CostmapSource) Snapshot(ctx context.Context) (*costmap.Snapshot, error) {
	if s.SnapshotFunc == nil {
		return s.Source.Snapshot(ctx)
	}
	return s.SnapshotFunc(ctx)
}
