package registrations

import (
	"context"
	"sync"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
)

// Watcher keeps an in-memory snapshot of all registrations, newest first,
// and fans change notifications out to subscribers. Refresh is triggered
// locally after writes and remotely via the event consumer, so every API
// instance converges on the same view.
type Watcher struct {
	repo Repository
	logg *logger.Logger

	mu       sync.RWMutex
	snapshot []models.Registration
	subs     map[int]func([]models.Registration)
	nextID   int
}

// NewWatcher builds a watcher over the given repository.
func NewWatcher(repo Repository, logg *logger.Logger) *Watcher {
	return &Watcher{
		repo: repo,
		logg: logg,
		subs: make(map[int]func([]models.Registration)),
	}
}

// Subscribe registers a callback invoked with each fresh snapshot. The
// returned function cancels the subscription.
func (w *Watcher) Subscribe(fn func(snapshot []models.Registration)) (unsubscribe func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	current := w.snapshot
	w.mu.Unlock()

	// New subscribers get the current view immediately.
	if current != nil {
		fn(current)
	}

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Refresh reloads the snapshot and notifies subscribers. A load failure is
// logged and leaves the previous snapshot in place; the view goes stale
// until the next trigger.
func (w *Watcher) Refresh(ctx context.Context) {
	rows, err := w.repo.Snapshot(ctx)
	if err != nil {
		if w.logg != nil {
			w.logg.Error(ctx, "registration snapshot reload failed", err)
		}
		return
	}

	w.mu.Lock()
	w.snapshot = rows
	callbacks := make([]func([]models.Registration), 0, len(w.subs))
	for _, fn := range w.subs {
		callbacks = append(callbacks, fn)
	}
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(rows)
	}
}

// Current returns the last loaded snapshot.
func (w *Watcher) Current() []models.Registration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}
