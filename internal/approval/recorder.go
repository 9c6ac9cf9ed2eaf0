package approval

import (
	"context"
	"sync"
	"time"
)

// Recorder persists the approval decision history.
type Recorder interface {
	Record(ctx context.Context, decision Decision) error
	List(ctx context.Context, module Module, refID string) ([]Decision, error)
}

// MemoryRecorder is the in-memory Recorder used with the memory storage
// driver.
type MemoryRecorder struct {
	mu        sync.RWMutex
	decisions []Decision
	nextID    int64
}

// NewMemoryRecorder constructs an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends the decision, stamping id and time when unset.
func (r *MemoryRecorder) Record(_ context.Context, decision Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	decision.ID = r.nextID
	if decision.At.IsZero() {
		decision.At = time.Now().UTC()
	}
	r.decisions = append(r.decisions, decision)
	return nil
}

// List returns decisions for module/ref in chronological order.
func (r *MemoryRecorder) List(_ context.Context, module Module, refID string) ([]Decision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Decision
	for _, d := range r.decisions {
		if d.Module == module && d.RefID == refID {
			out = append(out, d)
		}
	}
	return out, nil
}
