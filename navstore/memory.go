package navstore

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryStore struct {
	mu      sync.Mutex
	records []GoalRecord
}

// NewMemoryStore returns a Store backed by process memory. Records are lost
// on restart.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (store *memoryStore) Add(ctx context.Context, rec GoalRecord) (primitive.ObjectID, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	store.records = append(store.records, rec)
	return rec.ID, nil
}

func (store *memoryStore) Resolve(ctx context.Context, id primitive.ObjectID, outcome Outcome, reason string, at time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i := range store.records {
		if store.records[i].ID != id {
			continue
		}
		store.records[i].Outcome = outcome
		store.records[i].Reason = reason
		store.records[i].ResolvedAt = at
		return nil
	}
	return errors.Errorf("no goal record %q", id.Hex())
}

func (store *memoryStore) Recent(ctx context.Context, limit int) ([]GoalRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if limit <= 0 || limit > len(store.records) {
		limit = len(store.records)
	}
	out := make([]GoalRecord, 0, limit)
	for i := len(store.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, store.records[i])
	}
	return out, nil
}

func (store *memoryStore) Close(ctx context.Context) error {
	return nil
}
