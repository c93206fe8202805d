package navigation

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Defaults applied by Config.withDefaults.
const (
	// DefaultUpdateRateHz is how often the control loop ticks.
	DefaultUpdateRateHz = 10.0
	// DefaultMetersPerSec is the nominal speed forwarded to the motion
	// executor.
	DefaultMetersPerSec = 0.7
	// DefaultPosToleranceMeters is the goal position tolerance forwarded to
	// the motion executor.
	DefaultPosToleranceMeters = 0.20
	// DefaultMotionReadyTimeoutSec bounds the wait for the motion executor
	// during activation.
	DefaultMotionReadyTimeoutSec = 1.0
)

// Config describes how to run a Coordinator.
type Config struct {
	UpdateRateHz          float64 `json:"update_rate_hz"`
	MetersPerSec          float64 `json:"meters_per_sec"`
	PosToleranceMeters    float64 `json:"pos_tolerance_m"`
	MotionReadyTimeoutSec float64 `json:"motion_ready_timeout_sec"`

	// PlanningTimeoutSec bounds each planner call. Zero means unbounded.
	PlanningTimeoutSec float64 `json:"planning_timeout_sec"`

	// ForceReplanIntervalMs forces a full replan when no new local path has
	// been published for this long. Zero disables forced replanning.
	ForceReplanIntervalMs float64 `json:"force_replan_ms"`

	// MapFrame is the frame goals are planned in until a global map
	// announces its own.
	MapFrame string `json:"map_frame"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"update_rate_hz", cfg.UpdateRateHz},
		{"meters_per_sec", cfg.MetersPerSec},
		{"pos_tolerance_m", cfg.PosToleranceMeters},
		{"motion_ready_timeout_sec", cfg.MotionReadyTimeoutSec},
		{"planning_timeout_sec", cfg.PlanningTimeoutSec},
		{"force_replan_ms", cfg.ForceReplanIntervalMs},
	} {
		if field.value < 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("%s must be non-negative", field.name))
		}
	}
	return nil
}

func (cfg Config) withDefaults() Config {
	if cfg.UpdateRateHz == 0 {
		cfg.UpdateRateHz = DefaultUpdateRateHz
	}
	if cfg.MetersPerSec == 0 {
		cfg.MetersPerSec = DefaultMetersPerSec
	}
	if cfg.PosToleranceMeters == 0 {
		cfg.PosToleranceMeters = DefaultPosToleranceMeters
	}
	if cfg.MotionReadyTimeoutSec == 0 {
		cfg.MotionReadyTimeoutSec = DefaultMotionReadyTimeoutSec
	}
	if cfg.MapFrame == "" {
		cfg.MapFrame = DefaultMapFrame
	}
	return cfg
}

func (cfg Config) tickInterval() time.Duration {
	return time.Duration(float64(time.Second) / cfg.UpdateRateHz)
}

func (cfg Config) motionReadyTimeout() time.Duration {
	return time.Duration(cfg.MotionReadyTimeoutSec * float64(time.Second))
}

func (cfg Config) planningTimeout() time.Duration {
	return time.Duration(cfg.PlanningTimeoutSec * float64(time.Second))
}

func (cfg Config) forceReplanInterval() time.Duration {
	return time.Duration(cfg.ForceReplanIntervalMs * float64(time.Millisecond))
}
