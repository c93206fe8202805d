package navigation

import (
	"github.com/benbjohnson/clock"
	"go.viam.com/utils"

	"go.viam.com/navcore/costmap"
	"go.viam.com/navcore/navstore"
	"go.viam.com/navcore/viz"
)

// Deps bundles the collaborators a Coordinator drives. Planner, Localizer,
// Motion, Maps, and Paths are required; everything else is optional.
type Deps struct {
	Planner   Planner
	Localizer Localizer
	Motion    MotionController
	Maps      *costmap.Store
	Paths     PathSink

	// Transformer converts goals given in other frames into map coordinates.
	// Without one, such goals are rejected.
	Transformer Transformer

	// Markers receives debug overlays of the planned route.
	Markers viz.Publisher

	// History records accepted goals and their outcomes.
	History navstore.Store

	// OnMotionDone handles executor completion reports for the live goal.
	// The default handler only logs them.
	OnMotionDone CompletionHandler

	// Clock defaults to the wall clock. Tests substitute a mock.
	Clock clock.Clock
}

// Validate ensures all required collaborators are present.
func (deps *Deps) Validate(path string) error {
	if deps.Planner == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "planner")
	}
	if deps.Localizer == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "localizer")
	}
	if deps.Motion == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "motion")
	}
	if deps.Maps == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "maps")
	}
	if deps.Paths == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "paths")
	}
	return nil
}
