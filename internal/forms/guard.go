// Package forms implements the draft-form lifecycle shared by every create
// and edit screen: field coercion, the in-flight guard, and state tracking.
package forms

import (
	"sync"

	"github.com/google/uuid"
)

// Guard allows at most one in-flight operation per key. Keys are form
// instance tokens for submissions and "resource:id" for deletes.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

// TryAcquire marks key as in flight. It returns false, without blocking, when
// an operation for key is already running.
func (g *Guard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, key)
}

func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, busy := g.inFlight[key]
	return busy
}

// NewInstanceToken identifies one rendered form. It is echoed back on submit
// so the guard can tell two tabs apart.
func NewInstanceToken() string {
	return uuid.NewString()
}

func DeleteKey(resource, id string) string {
	return resource + ":delete:" + id
}

// Submit runs one submission for key. When another submission for key is
// still in flight it returns ErrAlreadySubmitting without calling fn. The
// returned lifecycle is Succeeded, or Failed with describe(err) as message.
func (g *Guard) Submit(key string, describe func(error) string, fn func() error) (*Lifecycle, error) {
	if !g.TryAcquire(key) {
		return nil, ErrAlreadySubmitting
	}
	defer g.Release(key)

	lc := &Lifecycle{}
	if err := lc.Begin(); err != nil {
		return nil, err
	}
	if err := fn(); err != nil {
		lc.Fail(describe(err))
		return lc, err
	}
	lc.Succeed()
	return lc, nil
}
