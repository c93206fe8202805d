package inject

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go.viam.com/navcore/navstore"
)

// GoalStore is an injected goal store.
type GoalStore struct {
	navstore.Store
	AddFunc     func(ctx context.Context, rec navstore.GoalRecord) (primitive.ObjectID, error)
	ResolveFunc func(ctx context.Context, id primitive.ObjectID, outcome navstore.Outcome, reason string, at time.Time) error
	RecentFunc  func(ctx context.Context, limit int) ([]navstore.GoalRecord, error)
	CloseFunc   func(ctx context.Context) error
}

// Add calls the injected Add or the real version.
func (s *GoalStore) Add(ctx context.Context, rec navstore.GoalRecord) (primitive.ObjectID, error) {
	if s.AddFunc == nil {
		return s.Store.Add(ctx, rec)
	}
	return s.AddFunc(ctx, rec)
}

// Resolve calls the injected Resolve or the real version.
func (s *GoalStore) Resolve(ctx context.Context, id primitive.ObjectID, outcome navstore.Outcome, reason string, at time.Time) error {
	if s.ResolveFunc == nil {
		return s.Store.Resolve(ctx, id, outcome, reason, at)
	}
	return s.ResolveFunc(ctx, id, outcome, reason, at)
}

// Recent calls the injected Recent or the real version.
func (s *GoalStore) Recent(ctx context.Context, limit int) ([]navstore.GoalRecord, error) {
	if s.RecentFunc == nil {
		return s.Store.Recent(ctx, limit)
	}
	return s.RecentFunc(ctx, limit)
}

// Close calls the injected Close or the real version.
func (s *GoalStore) Close(ctx context.Context) error {
	if s.CloseFunc == nil {
		return s.Store.Close(ctx)
	}
	return s.CloseFunc(ctx)
}
