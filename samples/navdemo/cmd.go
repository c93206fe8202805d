// Package main runs a navigation coordinator over fake collaborators and
// renders the run to a PNG.
package main

import (
	"context"
	"flag"
	"image"
	"time"

	"github.com/edaniels/golog"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/navcore/costmap"
	"go.viam.com/navcore/navigation"
	"go.viam.com/navcore/navigation/fake"
	"go.viam.com/navcore/navstore"
	"go.viam.com/navcore/spatialmath"
	"go.viam.com/navcore/viz"
)

var logger = golog.NewDevelopmentLogger("navdemo")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

type loggingSink struct {
	logger golog.Logger
}

func (s *loggingSink) PublishPath(ctx context.Context, frame string, path []spatialmath.Pose2D) error {
	s.logger.Debugw("local path published", "frame", frame, "poses", len(path))
	return nil
}

func (s *loggingSink) PublishEmptyPath(ctx context.Context, frame string) error {
	s.logger.Debugw("empty path published", "frame", frame)
	return nil
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	goalX := flag.Float64("goal-x", 12, "goal x in meters")
	goalY := flag.Float64("goal-y", 3, "goal y in meters")
	goalTheta := flag.Float64("goal-theta", 0, "goal heading in radians")
	out := flag.String("out", "navdemo.png", "where to write the rendered run")
	maxSteps := flag.Int("max-steps", 200, "give up after this many control ticks")
	flag.Parse()

	// 15x15 meters of floor with two blocks away from the default route
	snap, err := fake.NewSnapshotWithObstacles(
		"map", 60, 60, 0.25, r2.Point{}, time.Now(),
		image.Rect(10, 30, 20, 40),
		image.Rect(35, 42, 50, 50),
	)
	if err != nil {
		return err
	}

	planner := fake.NewPlanner()
	motion := fake.NewMotion()
	localizer := fake.NewLocalizer(spatialmath.NewPose2D(1, 1, 0))
	markers := viz.NewRecorder()
	history := navstore.NewMemoryStore()

	cfg := navigation.Config{PlanningTimeoutSec: 5}
	coord, err := navigation.NewCoordinator(cfg, navigation.Deps{
		Planner:   planner,
		Localizer: localizer,
		Motion:    motion,
		Maps:      costmap.NewStore(fake.NewSource(snap)),
		Paths:     &loggingSink{logger: logger},
		Markers:   markers,
		History:   history,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		utils.UncheckedError(multierr.Combine(coord.Close(ctx), motion.Close(ctx)))
	}()

	coord.UpdateGlobalMap(snap)
	goal := navigation.Goal{Pose: spatialmath.NewPose2D(*goalX, *goalY, *goalTheta)}
	if err := coord.SetGoal(ctx, goal); err != nil {
		return err
	}

	// drive the loop by hand so the run is deterministic, moving the robot
	// one tick's travel toward the goal between ticks
	stepMeters := navigation.DefaultMetersPerSec / navigation.DefaultUpdateRateHz * 4
	trail := []r2.Point{localizer.Pose().Point()}
	steps := 0
	for ; steps < *maxSteps && coord.Active(); steps++ {
		localizer.Step(goal.Pose, stepMeters)
		trail = append(trail, localizer.Pose().Point())
		coord.Tick(ctx)
	}
	logger.Infow("run finished", "ticks", steps, "final_pose", localizer.Pose().String())

	records, err := history.Recent(ctx, 0)
	if err != nil {
		return err
	}
	for _, rec := range records {
		logger.Infow("goal record",
			"pose", rec.Pose.String(),
			"outcome", string(rec.Outcome),
			"reason", rec.Reason,
		)
	}

	trailMarker := viz.NewLineStripMarker("map", "trail", 7, viz.PathRed, 0.08, trail)
	if err := markers.PublishMarker(ctx, trailMarker); err != nil {
		return err
	}

	img, err := viz.Render(snap, markers.Markers(), 8)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(*out, img); err != nil {
		return err
	}
	logger.Infow("rendered run", "path", *out)
	return nil
}
