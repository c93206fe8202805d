package fake

import (
	"context"
	"math"
	"sync"

	"go.viam.com/navcore/spatialmath"
)

// Localizer reports a settable pose.
type Localizer struct {
	mu   sync.Mutex
	pose spatialmath.Pose2D
	err  error
}

// NewLocalizer returns a localizer reporting the given starting pose.
func NewLocalizer(start spatialmath.Pose2D) *Localizer {
	return &Localizer{pose: start}
}

// CurrentPose returns the stored pose, or the stored error if one was set.
func (l *Localizer) CurrentPose(ctx context.Context, frame string) (spatialmath.Pose2D, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return spatialmath.Pose2D{}, l.err
	}
	return l.pose, nil
}

// SetPose replaces the reported pose.
func (l *Localizer) SetPose(pose spatialmath.Pose2D) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pose = pose
}

// SetError makes CurrentPose fail until cleared with a nil error.
func (l *Localizer) SetError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// Pose returns the currently reported pose.
func (l *Localizer) Pose() spatialmath.Pose2D {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pose
}

// Step moves the reported pose straight toward target by at most meters,
// facing the direction of travel, and landing exactly on the target once
// within reach.
func (l *Localizer) Step(target spatialmath.Pose2D, meters float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dx := target.X - l.pose.X
	dy := target.Y - l.pose.Y
	dist := math.Hypot(dx, dy)
	if dist <= meters {
		l.pose = target
		return
	}
	theta := math.Atan2(dy, dx)
	l.pose = spatialmath.NewPose2D(
		l.pose.X+dx/dist*meters,
		l.pose.Y+dy/dist*meters,
		theta,
	)
}
