package navigation

import (
	"context"
	"time"

	"go.viam.com/navcore/spatialmath"
)

// MotionOutcome describes how a path-following command ended.
type MotionOutcome uint8

// The set of motion command outcomes.
const (
	// MotionSucceeded means the executor finished the commanded path.
	MotionSucceeded = MotionOutcome(iota)
	// MotionFailed means the executor gave up; MotionResult.Err carries the
	// cause.
	MotionFailed
	// MotionCanceled means the command was cancelled before completion.
	MotionCanceled
)

func (o MotionOutcome) String() string {
	switch o {
	case MotionSucceeded:
		return "succeeded"
	case MotionFailed:
		return "failed"
	case MotionCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// MotionResult is the executor's report for one finished command.
type MotionResult struct {
	Outcome MotionOutcome
	Err     error
}

// DoneFunc is invoked exactly once when an issued path command terminates,
// whatever the reason.
type DoneFunc func(result MotionResult)

// PathCommand is one path-following order for the motion executor.
type PathCommand struct {
	Path         []spatialmath.Pose2D
	MetersPerSec float64
	// PosTolerance is how close to the end of the path counts as done, in
	// meters.
	PosTolerance float64
}

// MotionController is the gateway to the downstream motion executor.
//
// FollowPath is asynchronous: it returns once the command is accepted, and
// done is invoked later when the command terminates. Implementations must
// never invoke done from within FollowPath or CancelAll; the coordinator
// calls both while holding its own lock and the callback needs to be able to
// take it.
type MotionController interface {
	// WaitForReady blocks until the executor is reachable, or fails after
	// timeout.
	WaitForReady(ctx context.Context, timeout time.Duration) error

	// FollowPath issues a path-following command.
	FollowPath(ctx context.Context, cmd PathCommand, done DoneFunc) error

	// CancelAll aborts all outstanding commands.
	CancelAll(ctx context.Context) error
}

// CompletionHandler receives the executor's report for the goal a finished
// command was driving toward. It is invoked without the coordinator lock
// held, so it may call back into the Coordinator, for example to resubmit a
// goal after a failure.
type CompletionHandler func(goal Goal, result MotionResult)
