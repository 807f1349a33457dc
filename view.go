package genblog

import (
	"errors"
	"fmt"
	"sync"
)

// View identifies the active screen.
type View int

const (
	ViewHome View = iota
	ViewReadPost
	ViewCreatePost
	ViewAnalytics
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewReadPost:
		return "read_post"
	case ViewCreatePost:
		return "create_post"
	case ViewAnalytics:
		return "analytics"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

func (v View) valid() bool {
	return v >= ViewHome && v <= ViewAnalytics
}

var (
	// ErrNoSelectedPost is returned when ViewReadPost would be entered
	// without a post.
	ErrNoSelectedPost = errors.New("read view requires a selected post")

	// ErrUnknownPost is returned when selecting a post the store does not own.
	ErrUnknownPost = errors.New("post is not in the store")

	// ErrUnknownView is returned for View values outside the defined set.
	ErrUnknownView = errors.New("unknown view")

	// ErrNotCreating is returned by BeginGeneration outside ViewCreatePost.
	ErrNotCreating = errors.New("generation can only start from the create view")

	// ErrStaleGeneration is returned by CompleteGeneration when the view
	// changed after the ticket was issued. The result is discarded.
	ErrStaleGeneration = errors.New("generation result is stale")
)

// State is an immutable snapshot of a Controller.
type State struct {
	View     View
	Selected *BlogPost // non-nil iff View == ViewReadPost
}

// Ticket identifies one outstanding generation. It stays valid until the
// next transition of the controller that issued it.
type Ticket struct {
	epoch uint64
}

// Controller is the view-state machine of one workspace. It owns the
// selection and drives the Store on post creation.
type Controller struct {
	mu        sync.Mutex
	store     *Store
	view      View
	selected  *BlogPost
	epoch     uint64
	nextSub   int
	observers map[int]func(State)
}

// NewController starts in ViewHome with nothing selected.
func NewController(store *Store) *Controller {
	return &Controller{
		store:     store,
		view:      ViewHome,
		observers: make(map[int]func(State)),
	}
}

// Store returns the post store driven by the controller.
func (c *Controller) Store() *Store {
	return c.store
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Navigate switches to v. The selection is cleared unless v is
// ViewReadPost, which is only reachable when a post is already selected.
func (c *Controller) Navigate(v View) error {
	if !v.valid() {
		return fmt.Errorf("navigate to %v: %w", v, ErrUnknownView)
	}
	c.mu.Lock()
	if v == ViewReadPost && c.selected == nil {
		c.mu.Unlock()
		return ErrNoSelectedPost
	}
	c.view = v
	if v != ViewReadPost {
		c.selected = nil
	}
	c.transitionLocked()
	return nil
}

// SelectPost enters ViewReadPost with p, which must be the store's pointer.
func (c *Controller) SelectPost(p *BlogPost) error {
	if p == nil {
		return ErrNoSelectedPost
	}
	owned, err := c.store.FindByID(p.ID)
	if err != nil || owned != p {
		return ErrUnknownPost
	}
	c.mu.Lock()
	c.view = ViewReadPost
	c.selected = p
	c.transitionLocked()
	return nil
}

// SelectPostByID looks id up in the store and selects it.
func (c *Controller) SelectPostByID(id string) (*BlogPost, error) {
	p, err := c.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := c.SelectPost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost prepends p to the store and returns to ViewHome.
func (c *Controller) CreatePost(p *BlogPost) error {
	c.mu.Lock()
	return c.createLocked(p)
}

// CancelCreate returns to ViewHome without touching the store. Outstanding
// generation tickets become stale.
func (c *Controller) CancelCreate() {
	c.mu.Lock()
	c.view = ViewHome
	c.selected = nil
	c.transitionLocked()
}

// BeginGeneration issues a ticket for a generation started from the create
// view.
func (c *Controller) BeginGeneration() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewCreatePost {
		return Ticket{}, ErrNotCreating
	}
	return Ticket{epoch: c.epoch}, nil
}

// CompleteGeneration applies CreatePost for a ticket that is still current.
// A stale ticket leaves store and view untouched.
func (c *Controller) CompleteGeneration(t Ticket, p *BlogPost) error {
	c.mu.Lock()
	if t.epoch != c.epoch || c.view != ViewCreatePost {
		c.mu.Unlock()
		return ErrStaleGeneration
	}
	return c.createLocked(p)
}

// Subscribe registers fn to receive the state after every transition. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.observers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// createLocked expects c.mu held and releases it.
func (c *Controller) createLocked(p *BlogPost) error {
	if _, err := c.store.Add(p); err != nil {
		c.mu.Unlock()
		return err
	}
	c.view = ViewHome
	c.selected = nil
	c.transitionLocked()
	return nil
}

// transitionLocked bumps the epoch, releases c.mu and notifies observers
// outside the lock.
func (c *Controller) transitionLocked() {
	c.epoch++
	st := c.stateLocked()
	observers := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()
	for _, fn := range observers {
		fn(st)
	}
}

func (c *Controller) stateLocked() State {
	return State{View: c.view, Selected: c.selected}
}
