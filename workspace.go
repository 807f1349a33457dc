package genblog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/genblog/metrics"
)

// Workspace is the in-memory state of one browser session: its own post
// store and view-state controller.
type Workspace struct {
	ID         string
	Store      *Store
	Controller *Controller

	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(cutoff time.Time) bool {
	return w.seen().Before(cutoff)
}

func (w *Workspace) seen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// DefaultMaxWorkspaces bounds the registry when no limit is configured.
const DefaultMaxWorkspaces = 10000

// Workspaces keeps one Workspace per session ID, drops those idle for longer
// than ttl and holds at most max at a time.
type Workspaces struct {
	mu    sync.Mutex
	items map[string]*Workspace
	seed  []BlogPost
	ttl   time.Duration
	max   int
	now   func() time.Time
	done  chan struct{}
	once  sync.Once

	onOpen func(*Workspace) // called with every newly created workspace
}

// NewWorkspaces creates a registry seeding every new workspace with seed.
// When limit workspaces are live, opening a new one evicts the least recently
// seen. It starts a sweeper that runs every ttl; call Close to stop it.
func NewWorkspaces(seed []BlogPost, ttl time.Duration, limit int) *Workspaces {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if limit <= 0 {
		limit = DefaultMaxWorkspaces
	}
	w := &Workspaces{
		items: make(map[string]*Workspace),
		seed:  seed,
		ttl:   ttl,
		max:   limit,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	go w.cleanup()
	return w
}

func (w *Workspaces) cleanup() {
	ticker := time.NewTicker(w.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Sweep()
		case <-w.done:
			return
		}
	}
}

// Sweep drops workspaces idle for longer than the ttl and returns how many
// were removed.
func (w *Workspaces) Sweep() int {
	cutoff := w.now().Add(-w.ttl)
	w.mu.Lock()
	defer w.mu.Unlock()
	removed := 0
	for id, ws := range w.items {
		if ws.idleSince(cutoff) {
			delete(w.items, id)
			removed++
		}
	}
	metrics.Workspaces.Set(float64(len(w.items)))
	return removed
}

// Open returns the workspace for id, creating it when id is empty or
// unknown. The returned workspace's ID may differ from id.
func (w *Workspaces) Open(id string) *Workspace {
	now := w.now()
	w.mu.Lock()
	defer w.mu.Unlock()
	if ws, ok := w.items[id]; ok && id != "" {
		ws.touch(now)
		return ws
	}
	for len(w.items) >= w.max {
		w.evictOldestLocked()
	}
	store := NewStore(w.seed)
	ws := &Workspace{
		ID:         uuid.NewString(),
		Store:      store,
		Controller: NewController(store),
		lastSeen:   now,
	}
	w.items[ws.ID] = ws
	metrics.Workspaces.Set(float64(len(w.items)))
	if w.onOpen != nil {
		w.onOpen(ws)
	}
	return ws
}

func (w *Workspaces) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, ws := range w.items {
		if seen := ws.seen(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(w.items, oldestID)
}

// Len returns the number of live workspaces.
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Close stops the sweeper.
func (w *Workspaces) Close() {
	w.once.Do(func() { close(w.done) })
}
