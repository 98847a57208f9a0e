// Package worklog owns the ordered workout log, its persistence round-trip,
// and the HTTP surface map and list clients render from.
package worklog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/natikozel/Mapty/internal/observability"
	"github.com/natikozel/Mapty/internal/shared/geo"
	"github.com/natikozel/Mapty/internal/storage"
	"github.com/natikozel/Mapty/internal/workout"
)

// ErrNotFound is returned when an id resolves to no workout.
var ErrNotFound = errors.New("workout not found")

// Log is the ordered sequence of workouts, in creation order. It is the only
// owner of the workouts it holds; readers get deep copies.
type Log struct {
	store storage.Store
	key   string

	mu       sync.RWMutex
	workouts []*workout.Workout
}

func NewLog(store storage.Store, key string) *Log {
	return &Log{store: store, key: key}
}

// Append adds w to the end of the log and persists the whole log. The
// in-memory append stands even when the write fails; the error is returned
// and the durable copy stays at the last successful persist.
func (l *Log) Append(ctx context.Context, w *workout.Workout) error {
	if w == nil {
		return errors.New("append nil workout")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.workouts = append(l.workouts, w)
	observability.SetLogSize(len(l.workouts))
	return l.persistLocked(ctx)
}

// FindByID returns a copy of the workout with the given id.
func (l *Log) FindByID(id string) (*workout.Workout, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if w := l.find(id); w != nil {
		return w.Clone(), nil
	}
	return nil, ErrNotFound
}

// Select resolves a selection from the list and counts the click. Clicks are
// written out with the next persist, not on their own.
func (l *Log) Select(id string) (*workout.Workout, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.find(id)
	if w == nil {
		return nil, ErrNotFound
	}
	w.Click()
	return w.Clone(), nil
}

func (l *Log) find(id string) *workout.Workout {
	for _, w := range l.workouts {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Workouts returns the log in order.
func (l *Log) Workouts() []workout.Workout {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]workout.Workout, len(l.workouts))
	for i, w := range l.workouts {
		out[i] = *w.Clone()
	}
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.workouts)
}

// Persist replaces the stored blob with the current log.
func (l *Log) Persist(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persistLocked(ctx)
}

func (l *Log) persistLocked(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observability.ObservePersist(start, err) }()

	blob, err := workout.Encode(l.workouts)
	if err != nil {
		return fmt.Errorf("encode workouts: %w", err)
	}
	if err := l.store.Put(ctx, l.key, blob); err != nil {
		return fmt.Errorf("persist workouts: %w", err)
	}
	return nil
}

// Restore loads the stored blob into the log. A missing blob is a normal
// first start and leaves the log empty. A blob that cannot be decoded also
// leaves the log empty and returns a *workout.DecodeError.
func (l *Log) Restore(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.workouts = nil
	observability.SetLogSize(0)

	blob, err := l.store.Get(ctx, l.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}

	workouts, err := workout.Decode(blob)
	if err != nil {
		return err
	}
	l.workouts = workouts
	observability.SetLogSize(len(workouts))
	return nil
}

// Reset erases the stored blob and then empties the log. When the erase
// fails the log is left as it was, matching what a restart would restore.
func (l *Log) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("erase workouts: %w", err)
	}
	l.workouts = nil
	observability.SetLogSize(0)
	return nil
}

// Summary totals the log per workout type.
func (l *Log) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := Summary{ByType: map[workout.Type]Totals{}}
	for _, w := range l.workouts {
		summary.All = summary.All.add(w)
		summary.ByType[w.Type] = summary.ByType[w.Type].add(w)
	}
	return summary
}

// Near returns the workouts within radiusKm of (lat, lng), in log order.
func (l *Log) Near(lat, lng, radiusKm float64) []workout.Workout {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []workout.Workout
	for _, w := range l.workouts {
		if geo.HaversineKm(lat, lng, w.Coords.Lat, w.Coords.Lng) <= radiusKm {
			out = append(out, *w.Clone())
		}
	}
	return out
}
