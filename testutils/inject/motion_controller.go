package inject

import (
	"context"
	"time"

	"go.viam.com/navcore/navigation"
)

// MotionController is an injected motion controller.
type MotionController struct {
	navigation.MotionController
	WaitForReadyFunc func(ctx context.Context, timeout time.Duration) error
	FollowPathFunc   func(ctx context.Context, cmd navigation.PathCommand, done navigation.DoneFunc) error
	CancelAllFunc    func(ctx context.Context) error
}

// WaitForReady calls the injected WaitForReady or the real version.
func (m *MotionController) WaitForReady(ctx context.Context, timeout time.Duration) error {
	if m.WaitForReadyFunc == nil {
		return m.MotionController.WaitForReady(ctx, timeout)
	}
	return m.WaitForReadyFunc(ctx, timeout)
}

// FollowPath calls the injected FollowPath or the real version.
func (m *MotionController) FollowPath(ctx context.Context, cmd navigation.PathCommand, done navigation.DoneFunc) error {
	if m.FollowPathFunc == nil {
		return m.MotionController.FollowPath(ctx, cmd, done)
	}
	return m.FollowPathFunc(ctx, cmd, done)
}

// CancelAll calls the injected CancelAll or the real version.
func (m *MotionController) CancelAll(ctx context.Context) error {
	if m.CancelAllFunc == nil {
		return m.MotionController.CancelAll(ctx)
	}
	return m.CancelAllFunc(ctx)
}
