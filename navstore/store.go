// Package navstore records the goals a navigation coordinator accepts and
// how each one ended. Implementations exist for in-memory use and MongoDB.
package navstore

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.viam.com/utils"

	"go.viam.com/navcore/spatialmath"
)

// Outcome describes how a recorded goal ended.
type Outcome string

// The set of recordable goal outcomes.
const (
	// OutcomeInProgress marks a goal that is still being pursued.
	OutcomeInProgress = Outcome("in_progress")
	// OutcomeSucceeded marks a goal the robot reached.
	OutcomeSucceeded = Outcome("succeeded")
	// OutcomeFailed marks a goal abandoned because of an execution or
	// planning failure.
	OutcomeFailed = Outcome("failed")
	// OutcomeAbandoned marks a goal abandoned because the path stopped being
	// viable along the way.
	OutcomeAbandoned = Outcome("abandoned")
	// OutcomeUnreachable marks a goal no path could be planned to.
	OutcomeUnreachable = Outcome("unreachable")
	// OutcomePreempted marks a goal superseded by a newer one.
	OutcomePreempted = Outcome("preempted")
	// OutcomeCanceled marks a goal dropped by an explicit stop or shutdown.
	OutcomeCanceled = Outcome("canceled")
)

// GoalRecord is one accepted goal and its eventual outcome.
type GoalRecord struct {
	ID         primitive.ObjectID `bson:"_id"`
	Pose       spatialmath.Pose2D `bson:"pose"`
	Frame      string             `bson:"frame"`
	AcceptedAt time.Time          `bson:"accepted_at"`
	Outcome    Outcome            `bson:"outcome"`
	Reason     string             `bson:"reason,omitempty"`
	ResolvedAt time.Time          `bson:"resolved_at,omitempty"`
}

// A Store persists goal records.
type Store interface {
	// Add records a newly accepted goal and returns its assigned ID.
	Add(ctx context.Context, rec GoalRecord) (primitive.ObjectID, error)

	// Resolve sets the final outcome of a previously added goal.
	Resolve(ctx context.Context, id primitive.ObjectID, outcome Outcome, reason string, at time.Time) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]GoalRecord, error)

	Close(ctx context.Context) error
}

// StoreType identifies a Store implementation in config.
type StoreType string

// The set of known store types.
const (
	// StoreTypeMemory keeps records in process memory.
	StoreTypeMemory = StoreType("memory")
	// StoreTypeMongoDB keeps records in a MongoDB collection.
	StoreTypeMongoDB = StoreType("mongodb")
)

// Config describes which store to use and how to reach it.
type Config struct {
	Type             StoreType `json:"type"`
	ConnectionString string    `json:"connection_string,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	switch cfg.Type {
	case StoreTypeMemory:
	case StoreTypeMongoDB:
		if cfg.ConnectionString == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "connection_string")
		}
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown store type %q", cfg.Type))
	}
	return nil
}

// NewStoreFromConfig builds the store cfg describes.
func NewStoreFromConfig(ctx context.Context, cfg Config, logger golog.Logger) (Store, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	case StoreTypeMongoDB:
		return NewMongoDBStore(ctx, cfg.ConnectionString, logger)
	default:
		return nil, errors.Errorf("unknown store type %q", cfg.Type)
	}
}
