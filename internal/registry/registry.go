// Package registry gives every engine process a unique display name
// (spec.md §4.1), case-folded so "Stockfish" and "stockfish" collide.
// Names are unique within one NameSet until Release frees them; the
// package also keeps one process-wide NameSet behind MakeNameUnique and
// ReleaseName.
package registry

import (
	"fmt"
	"strings"
	"sync"
)

// NameSet tracks names handed out so far, case-folded for comparison.
type NameSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewNameSet returns an empty registry.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]bool)}
}

// MakeUnique returns a name guaranteed not to collide (case-insensitively)
// with any name previously returned from this set, appending " (2)", " (3)",
// ... as needed, and records the chosen name before returning it.
func (s *NameSet) MakeUnique(want string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(want)
	if !s.seen[key] {
		s.seen[key] = true
		return want
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", want, n)
		key := strings.ToLower(candidate)
		if !s.seen[key] {
			s.seen[key] = true
			return candidate
		}
	}
}

// Release forgets a name, allowing it to be handed out again. Used when a
// player slot is permanently torn down (e.g. SetPlayer replacing an
// engine) rather than merely restarted.
func (s *NameSet) Release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, strings.ToLower(name))
}

// process is the process-wide NameSet behind MakeNameUnique and
// ReleaseName. The orchestrator does not use it: it is handed a *NameSet
// (cmd/monitors and the tests build theirs with NewNameSet()).
var process = NewNameSet()

// MakeNameUnique disambiguates want against the process-wide registry.
func MakeNameUnique(want string) string { return process.MakeUnique(want) }

// ReleaseName forgets want in the process-wide registry.
func ReleaseName(want string) { process.Release(want) }
