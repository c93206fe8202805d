package navigation_test

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/navcore/navigation"
	"go.viam.com/navcore/navstore"
	"go.viam.com/navcore/spatialmath"
)

func TestTickInactive(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})

	queried := false
	r.localizer.CurrentPoseFunc = func(ctx context.Context, frame string) (spatialmath.Pose2D, error) {
		queried = true
		return spatialmath.Pose2D{}, nil
	}
	r.coord.Tick(context.Background())

	test.That(t, queried, test.ShouldBeFalse)
	follows, cancels, empties, publishes := r.snapshotCounts()
	test.That(t, follows, test.ShouldEqual, 0)
	test.That(t, cancels, test.ShouldEqual, 0)
	test.That(t, empties, test.ShouldEqual, 0)
	test.That(t, publishes, test.ShouldEqual, 0)
}

func TestTickPublishGating(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.newLocalSeq = []bool{false, false, true} })

	ctx := context.Background()
	r.coord.Tick(ctx)
	r.coord.Tick(ctx)

	// the plan advanced twice without changing, so nothing went out
	_, _, _, publishes := r.snapshotCounts()
	test.That(t, publishes, test.ShouldEqual, 0)

	r.coord.Tick(ctx)

	r.mu.Lock()
	test.That(t, r.published, test.ShouldHaveLength, 1)
	test.That(t, r.published[0], test.ShouldResemble, r.localPath)
	test.That(t, r.pubFrames, test.ShouldResemble, []string{"map"})
	// every tick refreshed the local map and advanced the plan
	test.That(t, r.clears, test.ShouldEqual, 3)
	test.That(t, r.localMaps, test.ShouldEqual, 3)
	test.That(t, r.updateForces, test.ShouldResemble, []bool{false, false, false})
	r.mu.Unlock()

	// the session is untouched throughout
	test.That(t, r.coord.Active(), test.ShouldBeTrue)
}

func TestTickGoalReached(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.goalReached = true })

	r.coord.Tick(context.Background())

	test.That(t, r.coord.Active(), test.ShouldBeFalse)
	_, cancels, empties, _ := r.snapshotCounts()
	test.That(t, cancels, test.ShouldEqual, 1)
	test.That(t, empties, test.ShouldEqual, 1)
	test.That(t, recentOutcomes(t, r.history), test.ShouldResemble,
		[]navstore.Outcome{navstore.OutcomeSucceeded})

	// once idle, further ticks are no-ops
	r.coord.Tick(context.Background())
	_, cancels, empties, _ = r.snapshotCounts()
	test.That(t, cancels, test.ShouldEqual, 1)
	test.That(t, empties, test.ShouldEqual, 1)
}

func TestTickPoseFailure(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)
	r := newTestRigWithLogger(t, navigation.Config{}, navigation.Deps{}, logger)
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.poseErr = errors.New("amcl lost the robot") })

	r.coord.Tick(context.Background())

	test.That(t, r.coord.Active(), test.ShouldBeFalse)
	test.That(t, logs.FilterMessageSnippet("error getting the robot position").Len(),
		test.ShouldEqual, 1)
	test.That(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len(), test.ShouldEqual, 1)

	r.mu.Lock()
	// the tick stopped before touching the maps or the planner
	test.That(t, r.clears, test.ShouldEqual, 0)
	test.That(t, r.updateForces, test.ShouldHaveLength, 0)
	test.That(t, r.empties, test.ShouldEqual, 1)
	r.mu.Unlock()

	records, err := r.history.Recent(context.Background(), 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records[0].Outcome, test.ShouldEqual, navstore.OutcomeFailed)
	test.That(t, records[0].Reason, test.ShouldContainSubstring, "pose resolution failed")
}

func TestTickLocalRefreshFailure(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.clearErr = errors.New("sensor stream stalled") })

	r.coord.Tick(context.Background())

	test.That(t, r.coord.Active(), test.ShouldBeFalse)
	r.mu.Lock()
	test.That(t, r.updateForces, test.ShouldHaveLength, 0)
	r.mu.Unlock()

	records, err := r.history.Recent(context.Background(), 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records[0].Outcome, test.ShouldEqual, navstore.OutcomeFailed)
	test.That(t, records[0].Reason, test.ShouldContainSubstring, "local costmap refresh failed")
}

func TestTickPlanningFailure(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.updateErr = errors.New("no samples in window") })

	r.coord.Tick(context.Background())

	test.That(t, r.coord.Active(), test.ShouldBeFalse)
	records, err := r.history.Recent(context.Background(), 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records[0].Outcome, test.ShouldEqual, navstore.OutcomeFailed)
	test.That(t, records[0].Reason, test.ShouldContainSubstring, "planning failed")
}

func TestTickPathLost(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.validPath = false })

	r.coord.Tick(context.Background())

	test.That(t, r.coord.Active(), test.ShouldBeFalse)
	_, cancels, empties, publishes := r.snapshotCounts()
	test.That(t, cancels, test.ShouldEqual, 1)
	test.That(t, empties, test.ShouldEqual, 1)
	test.That(t, publishes, test.ShouldEqual, 0)
	test.That(t, recentOutcomes(t, r.history), test.ShouldResemble,
		[]navstore.Outcome{navstore.OutcomeAbandoned})
}

func TestTickPublishFailureKeepsSession(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.newLocalSeq = []bool{true} })
	r.sink.PublishPathFunc = func(ctx context.Context, frame string, path []spatialmath.Pose2D) error {
		return errors.New("transport down")
	}

	r.coord.Tick(context.Background())

	// a flaky sink does not bring the robot to a stop
	test.That(t, r.coord.Active(), test.ShouldBeTrue)
	test.That(t, recentOutcomes(t, r.history), test.ShouldResemble,
		[]navstore.Outcome{navstore.OutcomeInProgress})
}

func TestTickForceReplan(t *testing.T) {
	r := newTestRig(t, navigation.Config{ForceReplanIntervalMs: 500}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()
	r.withLock(func() { r.newLocalSeq = []bool{true, true, false} })

	ctx := context.Background()

	// nothing has been published yet, so the first tick cannot be stale
	r.coord.Tick(ctx)
	// well past the interval: the next tick demands a fresh plan
	r.clock.Add(600 * time.Millisecond)
	r.coord.Tick(ctx)
	// the second tick's publish reset the timer
	r.clock.Add(100 * time.Millisecond)
	r.coord.Tick(ctx)

	r.mu.Lock()
	test.That(t, r.updateForces, test.ShouldResemble, []bool{false, true, false})
	test.That(t, r.published, test.ShouldHaveLength, 2)
	r.mu.Unlock()
}

func TestStopIsIdempotent(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.resetCounters()

	ctx := context.Background()
	test.That(t, r.coord.Stop(ctx), test.ShouldBeNil)
	test.That(t, r.coord.Active(), test.ShouldBeFalse)
	test.That(t, r.coord.Stop(ctx), test.ShouldBeNil)

	// both stops cancel and publish the empty path; repeating is harmless
	_, cancels, empties, _ := r.snapshotCounts()
	test.That(t, cancels, test.ShouldEqual, 2)
	test.That(t, empties, test.ShouldEqual, 2)

	records, err := r.history.Recent(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 1)
	test.That(t, records[0].Outcome, test.ShouldEqual, navstore.OutcomeCanceled)
	test.That(t, records[0].Reason, test.ShouldEqual, "stopped")

	// the coordinator still accepts goals after an explicit stop
	test.That(t, r.coord.SetGoal(ctx,
		navigation.Goal{Pose: spatialmath.NewPose2D(1, 1, 0)}), test.ShouldBeNil)
	test.That(t, r.coord.Active(), test.ShouldBeTrue)
}

func TestCloseRejectsFurtherWork(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))

	ctx := context.Background()
	test.That(t, r.coord.Close(ctx), test.ShouldBeNil)
	test.That(t, r.coord.Active(), test.ShouldBeFalse)

	err := r.coord.SetGoal(ctx, navigation.Goal{Pose: spatialmath.NewPose2D(1, 1, 0)})
	test.That(t, errors.Is(err, navigation.ErrClosed), test.ShouldBeTrue)
	test.That(t, errors.Is(r.coord.Stop(ctx), navigation.ErrClosed), test.ShouldBeTrue)

	// closing again is a no-op, as is ticking
	test.That(t, r.coord.Close(ctx), test.ShouldBeNil)
	r.resetCounters()
	r.coord.Tick(ctx)
	_, cancels, empties, _ := r.snapshotCounts()
	test.That(t, cancels, test.ShouldEqual, 0)
	test.That(t, empties, test.ShouldEqual, 0)

	records, err := r.history.Recent(ctx, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records[0].Outcome, test.ShouldEqual, navstore.OutcomeCanceled)
	test.That(t, records[0].Reason, test.ShouldEqual, "coordinator closed")
}

func TestStartDrivesTicks(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	r.activeGoal(spatialmath.NewPose2D(5, 0, 0))
	r.withLock(func() { r.goalReached = true })

	r.coord.Start()
	// starting twice must not spawn a second loop
	r.coord.Start()

	// the loop runs off the injected clock: each step is one default tick
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		r.clock.Add(100 * time.Millisecond)
		test.That(tb, r.coord.Active(), test.ShouldBeFalse)
	})

	test.That(t, recentOutcomes(t, r.history), test.ShouldResemble,
		[]navstore.Outcome{navstore.OutcomeSucceeded})
}

func TestStartAfterCloseIsNoop(t *testing.T) {
	r := newTestRig(t, navigation.Config{}, navigation.Deps{})
	test.That(t, r.coord.Close(context.Background()), test.ShouldBeNil)
	r.coord.Start()

	r.clock.Add(time.Second)
	test.That(t, r.coord.Active(), test.ShouldBeFalse)
}
