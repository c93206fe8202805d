package inject

import (
	"context"

	"go.viam.com/navcore/viz"
)

// MarkerPublisher is an injected marker publisher.
type MarkerPublisher struct {
	viz.Publisher
	PublishMarkerFunc func(ctx context.Context, m viz.Marker) error
}

// PublishMarker calls the injected PublishMarker or the real version.
func (p *MarkerPublisher) PublishMarker(ctx context.Context, m viz.Marker) error {
	if p.PublishMarkerFunc == nil {
		return p.Publisher.PublishMarker(ctx, m)
	}
	return p.PublishMarkerFunc(ctx, m)
}
