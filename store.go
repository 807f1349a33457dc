package genblog

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrDuplicateID is returned by Store.Add when the ID is already taken.
	ErrDuplicateID = errors.New("duplicate post id")
)

// Store is an in-memory, ordered collection of posts. New posts go to the
// front; the seed order is kept beneath them. Posts are never removed or
// edited.
type Store struct {
	mu    sync.RWMutex
	posts []*BlogPost
	byID  map[string]*BlogPost
}

// NewStore creates a Store holding copies of seed in the given order.
func NewStore(seed []BlogPost) *Store {
	s := &Store{
		posts: make([]*BlogPost, 0, len(seed)),
		byID:  make(map[string]*BlogPost, len(seed)),
	}
	for i := range seed {
		p := seed[i]
		if _, dup := s.byID[p.ID]; dup {
			continue
		}
		s.posts = append(s.posts, &p)
		s.byID[p.ID] = &p
	}
	return s
}

// Add prepends p and returns the updated ordered snapshot.
func (s *Store) Add(p *BlogPost) ([]*BlogPost, error) {
	if p == nil {
		return nil, errors.New("add post: nil post")
	}
	if p.Views < 0 {
		return nil, fmt.Errorf("add post %q: negative views", p.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byID[p.ID]; dup {
		return nil, fmt.Errorf("add post %q: %w", p.ID, ErrDuplicateID)
	}
	posts := make([]*BlogPost, 0, len(s.posts)+1)
	posts = append(posts, p)
	posts = append(posts, s.posts...)
	s.posts = posts
	s.byID[p.ID] = p
	return s.snapshot(), nil
}

// All returns the posts newest-generated first. The slice is fresh; the
// posts are shared.
func (s *Store) All() []*BlogPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// FindByID returns the store's own pointer for id.
func (s *Store) FindByID(id string) (*BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Len returns the number of posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Store) snapshot() []*BlogPost {
	out := make([]*BlogPost, len(s.posts))
	copy(out, s.posts)
	return out
}
