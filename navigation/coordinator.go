package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/navcore/costmap"
	"go.viam.com/navcore/navstore"
	"go.viam.com/navcore/spatialmath"
	"go.viam.com/navcore/viz"
)

// Sentinel errors returned by SetGoal.
var (
	// ErrClosed is returned once the coordinator has been closed.
	ErrClosed = errors.New("navigation coordinator is closed")
	// ErrNoGlobalMap is returned while no global map snapshot has been
	// received yet.
	ErrNoGlobalMap = errors.New("no global map received yet")
)

// Marker identities for the route overlays.
const (
	globalPathMarkerNS = "global_path"
	globalPathMarkerID = 1
	waypointMarkerNS   = "waypoints"
	waypointMarkerID   = 3
)

// session tracks one accepted goal from activation to teardown.
type session struct {
	id              uuid.UUID
	goal            Goal
	historyID       primitive.ObjectID
	startedAt       time.Time
	lastPathPublish time.Time
}

// Coordinator supervises a robot's progress toward a goal: it keeps the
// planner fed, publishes local paths as the planner produces them, and
// activates and deactivates the motion executor around goal changes.
//
// All methods are safe for concurrent use. Ticks, goal changes, and shutdown
// are serialized by one mutex, so collaborators are never called out of
// order.
type Coordinator struct {
	cfg    Config
	logger golog.Logger

	planner     Planner
	localizer   Localizer
	transformer Transformer
	motion      MotionController
	maps        *costmap.Store
	paths       PathSink
	markers     viz.Publisher
	history     navstore.Store
	onDone      CompletionHandler
	clock       clock.Clock

	mu      sync.Mutex
	sess    *session
	started bool
	closed  bool

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewCoordinator validates cfg and deps and returns a coordinator ready for
// Start or manual Tick calls.
func NewCoordinator(cfg Config, deps Deps, logger golog.Logger) (*Coordinator, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if err := deps.Validate(""); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	c := &Coordinator{
		cfg:         cfg,
		logger:      logger,
		planner:     deps.Planner,
		localizer:   deps.Localizer,
		transformer: deps.Transformer,
		motion:      deps.Motion,
		maps:        deps.Maps,
		paths:       deps.Paths,
		markers:     deps.Markers,
		history:     deps.History,
		clock:       clk,
		cancelCtx:   cancelCtx,
		cancelFunc:  cancelFunc,
	}
	c.onDone = deps.OnMotionDone
	if c.onDone == nil {
		c.onDone = c.logMotionDone
	}
	return c, nil
}

// Start launches the fixed-rate control loop. Calling it again, or after
// Close, is a no-op.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true

	interval := c.cfg.tickInterval()
	c.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer c.activeBackgroundWorkers.Done()
		ticker := c.clock.Ticker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.cancelCtx.Done():
				return
			case <-ticker.C:
			}
			c.Tick(c.cancelCtx)
		}
	})
}

// Tick runs one iteration of the control loop: resolve the robot pose,
// detect arrival, feed the planner a fresh local map, advance the plan, and
// publish the local path if the planner produced a new one. Start drives
// Tick at the configured rate; embedders with their own scheduler may call
// it directly instead.
//
// Any failure tears the session down, leaving the robot stationary with an
// empty path published.
func (c *Coordinator) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return
	}

	frame := c.mapFrame()
	pose, err := c.localizer.CurrentPose(ctx, frame)
	if err != nil {
		c.logger.Errorw("error getting the robot position", "error", err)
		c.teardown(ctx, navstore.OutcomeFailed, "pose resolution failed: "+err.Error())
		return
	}

	if c.planner.IsGoalReached(pose) {
		c.logger.Infow("goal reached", "goal", c.sess.goal.Pose.String())
		c.teardown(ctx, navstore.OutcomeSucceeded, "")
		return
	}

	local, err := c.maps.RefreshLocal(ctx)
	if err != nil {
		c.logger.Warnw("failed to refresh local costmap", "error", err)
		c.teardown(ctx, navstore.OutcomeFailed, "local costmap refresh failed: "+err.Error())
		return
	}
	c.planner.SetLocalMap(local)

	force := c.shouldForceReplan()
	if err := c.updatePlanner(ctx, pose, force); err != nil {
		c.logger.Errorw("error planning a path", "error", err)
		c.teardown(ctx, navstore.OutcomeFailed, "planning failed: "+err.Error())
		return
	}

	if !c.planner.HasValidPath() {
		c.logger.Warnw("no valid path to goal", "goal", c.sess.goal.Pose.String())
		c.teardown(ctx, navstore.OutcomeAbandoned, "no valid path")
		return
	}

	if !c.planner.HasNewLocalPath() {
		return
	}

	path := c.planner.LocalPath()
	c.logger.Infow("publishing new local path", "poses", len(path))
	if err := c.paths.PublishPath(ctx, frame, path); err != nil {
		c.logger.Errorw("failed to publish local path", "error", err)
	} else {
		c.sess.lastPathPublish = c.clock.Now()
	}
	c.publishWaypointMarker(ctx, frame)
}

// SetGoal accepts a new goal, superseding any current one; whatever session
// was live is deactivated before the new goal is evaluated. An unreachable
// goal is a normal outcome: SetGoal returns nil and the coordinator simply
// stays inactive, as it does when the motion executor is unavailable.
// Transform, pose resolution, missing-map, and planning failures are
// returned as errors, also leaving the coordinator inactive.
func (c *Coordinator) SetGoal(ctx context.Context, goal Goal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.logger.Infow("got a new goal", "pose", goal.Pose.String(), "frame", goal.Frame)
	c.teardown(ctx, navstore.OutcomePreempted, "superseded by new goal")

	mapFrame := c.mapFrame()
	target := goal.Pose
	if goal.Frame != "" && goal.Frame != mapFrame {
		if c.transformer == nil {
			return errors.Errorf("cannot transform goal from frame %q to %q: no transformer configured", goal.Frame, mapFrame)
		}
		converted, err := c.transformer.TransformPose(ctx, goal.Pose, goal.Frame, mapFrame)
		if err != nil {
			c.logger.Errorw("cannot transform goal into map coordinates", "error", err)
			return errors.Wrapf(err, "cannot transform goal from frame %q to %q", goal.Frame, mapFrame)
		}
		target = converted
	}

	start, err := c.localizer.CurrentPose(ctx, mapFrame)
	if err != nil {
		c.logger.Errorw("error getting the robot position", "error", err)
		return errors.Wrap(err, "failed to resolve robot pose")
	}

	global, ok := c.maps.Global()
	if !ok {
		return ErrNoGlobalMap
	}
	c.planner.SetGlobalMap(global)

	local, err := c.maps.RefreshLocal(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to refresh local costmap")
	}
	c.planner.SetLocalMap(local)

	accepted := Goal{Pose: target, Frame: mapFrame}
	historyID := c.recordGoal(ctx, accepted)

	if err := c.setPlannerGoal(ctx, start, target); err != nil {
		c.logger.Errorw("cannot plan a path", "error", err)
		c.resolveGoalRecord(ctx, historyID, navstore.OutcomeFailed, "planning failed: "+err.Error())
		return errors.Wrap(err, "cannot plan a path to goal")
	}

	if !c.planner.HasValidPath() {
		c.logger.Warnw("no path found", "goal", target.String())
		c.resolveGoalRecord(ctx, historyID, navstore.OutcomeUnreachable, "no valid path")
		return nil
	}

	if err := c.activateLocked(ctx, accepted, historyID); err != nil {
		c.logger.Warnw("could not activate motion executor", "error", err)
		c.resolveGoalRecord(ctx, historyID, navstore.OutcomeFailed, "activation failed: "+err.Error())
	}

	c.publishGlobalPathMarker(ctx, mapFrame)
	c.publishWaypointMarker(ctx, mapFrame)
	c.logger.Infow("goal updated", "goal", target.String())
	return nil
}

// Stop explicitly deactivates the current session, if any. The empty path is
// published and outstanding motion commands are cancelled either way, so it
// is always safe to repeat. The control loop keeps running and new goals
// remain accepted.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.finishSession(ctx, navstore.OutcomeCanceled, "stopped")
}

// Active reports whether a session is currently driving the motion
// executor.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// Goal returns the goal of the active session, if any, in map coordinates.
func (c *Coordinator) Goal() (Goal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return Goal{}, false
	}
	return c.sess.goal, true
}

// UpdateGlobalMap replaces the global map snapshot. Safe to call from any
// goroutine; the coordinator reads the latest snapshot when it next needs
// one.
func (c *Coordinator) UpdateGlobalMap(snap *costmap.Snapshot) {
	c.maps.SetGlobal(snap)
}

// Close stops the control loop and deactivates any live session. Further
// goals are rejected with ErrClosed.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancelFunc()
	c.activeBackgroundWorkers.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finishSession(ctx, navstore.OutcomeCanceled, "coordinator closed")
}

// activateLocked (re)starts the motion executor for an accepted goal,
// handing it the planner's current local path. Callers hold c.mu.
func (c *Coordinator) activateLocked(ctx context.Context, goal Goal, historyID primitive.ObjectID) error {
	if c.sess != nil {
		if err := c.deactivateLocked(ctx); err != nil {
			c.logger.Warnw("deactivation reported errors", "error", err)
		}
	}

	timeout := c.cfg.motionReadyTimeout()
	if err := c.motion.WaitForReady(ctx, timeout); err != nil {
		return errors.Wrapf(err, "motion executor not ready within %s", timeout)
	}

	sess := &session{
		id:        uuid.New(),
		goal:      goal,
		historyID: historyID,
		startedAt: c.clock.Now(),
	}
	cmd := PathCommand{
		Path:         c.planner.LocalPath(),
		MetersPerSec: c.cfg.MetersPerSec,
		PosTolerance: c.cfg.PosToleranceMeters,
	}
	sessID := sess.id
	done := func(result MotionResult) {
		c.handleMotionDone(sessID, result)
	}

	c.sess = sess
	if err := c.motion.FollowPath(ctx, cmd, done); err != nil {
		if derr := c.deactivateLocked(ctx); derr != nil {
			c.logger.Warnw("deactivation reported errors", "error", derr)
		}
		return errors.Wrap(err, "failed to issue path command")
	}
	c.logger.Infow("navigation session active", "session", sessID.String(), "goal", goal.Pose.String())
	return nil
}

// deactivateLocked cancels outstanding motion commands, clears the session,
// and publishes the empty path so downstream followers stop. It is safe to
// call with no session live. Callers hold c.mu.
func (c *Coordinator) deactivateLocked(ctx context.Context) error {
	c.logger.Info("deactivating navigation")
	var errs error
	if err := c.motion.CancelAll(ctx); err != nil {
		errs = multierr.Combine(errs, errors.Wrap(err, "failed to cancel motion commands"))
	}
	c.sess = nil
	if err := c.paths.PublishEmptyPath(ctx, c.mapFrame()); err != nil {
		errs = multierr.Combine(errs, errors.Wrap(err, "failed to publish empty path"))
	}
	return errs
}

// finishSession deactivates and records how the session's goal ended.
func (c *Coordinator) finishSession(ctx context.Context, outcome navstore.Outcome, reason string) error {
	sess := c.sess
	err := c.deactivateLocked(ctx)
	if sess != nil {
		c.resolveGoalRecord(ctx, sess.historyID, outcome, reason)
	}
	return err
}

// teardown is finishSession for callers that only log deactivation errors.
func (c *Coordinator) teardown(ctx context.Context, outcome navstore.Outcome, reason string) {
	if err := c.finishSession(ctx, outcome, reason); err != nil {
		c.logger.Warnw("deactivation reported errors", "error", err)
	}
}

// handleMotionDone receives asynchronous completion reports from the motion
// executor. Reports for superseded sessions are dropped so a command
// cancelled during preemption cannot disturb the goal that replaced it.
func (c *Coordinator) handleMotionDone(sessionID uuid.UUID, result MotionResult) {
	c.mu.Lock()
	if c.sess == nil || c.sess.id != sessionID {
		c.mu.Unlock()
		c.logger.Debugw("ignoring stale motion completion",
			"session", sessionID.String(), "outcome", result.Outcome.String())
		return
	}
	goal := c.sess.goal
	onDone := c.onDone
	c.mu.Unlock()

	onDone(goal, result)
}

// logMotionDone is the default completion handler. Arrival is detected by
// the control loop via IsGoalReached, so there is nothing to do here beyond
// recording the report; acting on executor failures is policy and belongs
// to a configured CompletionHandler.
func (c *Coordinator) logMotionDone(goal Goal, result MotionResult) {
	if result.Err != nil {
		c.logger.Warnw("motion executor finished with error",
			"goal", goal.Pose.String(), "outcome", result.Outcome.String(), "error", result.Err)
		return
	}
	c.logger.Infow("motion executor finished",
		"goal", goal.Pose.String(), "outcome", result.Outcome.String())
}

func (c *Coordinator) recordGoal(ctx context.Context, goal Goal) primitive.ObjectID {
	if c.history == nil {
		return primitive.NilObjectID
	}
	id, err := c.history.Add(ctx, navstore.GoalRecord{
		Pose:       goal.Pose,
		Frame:      goal.Frame,
		AcceptedAt: c.clock.Now(),
		Outcome:    navstore.OutcomeInProgress,
	})
	if err != nil {
		c.logger.Warnw("failed to record accepted goal", "error", err)
		return primitive.NilObjectID
	}
	return id
}

func (c *Coordinator) resolveGoalRecord(ctx context.Context, id primitive.ObjectID, outcome navstore.Outcome, reason string) {
	if c.history == nil || id.IsZero() {
		return
	}
	if err := c.history.Resolve(ctx, id, outcome, reason, c.clock.Now()); err != nil {
		c.logger.Warnw("failed to record goal outcome", "error", err)
	}
}

func (c *Coordinator) publishGlobalPathMarker(ctx context.Context, frame string) {
	if c.markers == nil {
		return
	}
	m := viz.NewLineStripMarker(frame, globalPathMarkerNS, globalPathMarkerID,
		viz.PathBlue, viz.PathLineWidth, c.planner.GlobalPath())
	if err := c.markers.PublishMarker(ctx, m); err != nil {
		c.logger.Warnw("failed to publish global path marker", "error", err)
	}
}

func (c *Coordinator) publishWaypointMarker(ctx context.Context, frame string) {
	if c.markers == nil {
		return
	}
	m := viz.NewWaypointMarker(frame, waypointMarkerNS, waypointMarkerID, c.planner.GlobalWaypoints())
	if err := c.markers.PublishMarker(ctx, m); err != nil {
		c.logger.Warnw("failed to publish waypoint marker", "error", err)
	}
}

// mapFrame is the frame all planning happens in: the global map's frame
// once one has been received, the configured default before that.
func (c *Coordinator) mapFrame() string {
	if frame := c.maps.GlobalFrame(); frame != "" {
		return frame
	}
	return c.cfg.MapFrame
}

func (c *Coordinator) shouldForceReplan() bool {
	interval := c.cfg.forceReplanInterval()
	if interval <= 0 || c.sess == nil || c.sess.lastPathPublish.IsZero() {
		return false
	}
	return c.clock.Now().Sub(c.sess.lastPathPublish) >= interval
}

func (c *Coordinator) updatePlanner(ctx context.Context, pose spatialmath.Pose2D, force bool) error {
	ctx, cleanup := c.planningCtx(ctx)
	defer cleanup()
	return c.planner.Update(ctx, pose, force)
}

func (c *Coordinator) setPlannerGoal(ctx context.Context, start, goal spatialmath.Pose2D) error {
	ctx, cleanup := c.planningCtx(ctx)
	defer cleanup()
	return c.planner.SetGoal(ctx, start, goal)
}

// planningCtx bounds a planner call by the configured planning timeout.
func (c *Coordinator) planningCtx(ctx context.Context) (context.Context, func()) {
	timeout := c.cfg.planningTimeout()
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
