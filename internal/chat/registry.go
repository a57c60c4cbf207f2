package chat

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry is the room's membership set: the single source of truth for
// which display names are currently claimed. All operations are plain
// in-memory map work under one mutex; the lock is never held across a
// network operation.
type Registry struct {
	mu      sync.Mutex
	members map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[string]struct{})}
}

// TryJoin atomically checks that name is valid and unclaimed, and claims
// it if so. Two sessions racing on the same name cannot both succeed. The
// validity check lives inside the critical section so callers get a single
// admitted/rejected answer, never two steps that can interleave.
func (r *Registry) TryJoin(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !IsValidName(name) {
		return false
	}
	if _, taken := r.members[name]; taken {
		return false
	}
	r.members[name] = struct{}{}
	return true
}

// Leave releases name. Idempotent: releasing an absent name is a no-op.
func (r *Registry) Leave(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, name)
}

// Snapshot returns the current members except excluding, sorted. The copy
// is taken in one critical section, so it is point-in-time consistent with
// concurrent TryJoin/Leave calls.
func (r *Registry) Snapshot(excluding string) []string {
	r.mu.Lock()
	names := lo.Reject(lo.Keys(r.members), func(n string, _ int) bool {
		return n == excluding
	})
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
