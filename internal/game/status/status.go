// Package status tracks the temporary combat conditions a combatant can
// suffer: prone, slowed, disarmed, marked, vulnerable, and hidden.
package status

import "fmt"

// Kind identifies a status effect.
type Kind int

const (
	Prone Kind = iota
	Slowed
	Disarmed
	Marked
	Vulnerable
	Hidden
)

// String returns the lowercase status name.
func (k Kind) String() string {
	switch k {
	case Prone:
		return "prone"
	case Slowed:
		return "slowed"
	case Disarmed:
		return "disarmed"
	case Marked:
		return "marked"
	case Vulnerable:
		return "vulnerable"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("status(%d)", int(k))
	}
}

// Indefinite marks a status with no duration; it persists until removed.
const Indefinite = -1

// Set tracks the statuses currently applied to one combatant.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	active map[Kind]int // rounds remaining; Indefinite = until removed
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{active: make(map[Kind]int)}
}

// Apply adds kind for the given number of rounds (Indefinite for no expiry).
// Re-applying extends the duration to the longer of the two; an indefinite
// application always wins.
//
// Postcondition: Has(kind) is true.
func (s *Set) Apply(kind Kind, rounds int) {
	existing, ok := s.active[kind]
	if !ok {
		s.active[kind] = rounds
		return
	}
	if existing == Indefinite || rounds == Indefinite {
		s.active[kind] = Indefinite
		return
	}
	if rounds > existing {
		s.active[kind] = rounds
	}
}

// Remove deletes kind from the set. Removing an absent status is a no-op.
//
// Postcondition: Has(kind) is false.
func (s *Set) Remove(kind Kind) {
	delete(s.active, kind)
}

// Has reports whether kind is currently active.
func (s *Set) Has(kind Kind) bool {
	_, ok := s.active[kind]
	return ok
}

// Tick decrements every finite duration by one round, removes statuses that
// expire, and returns the expired kinds. Indefinite statuses are unaffected.
//
// Postcondition: For every kind in the returned slice, Has(kind) is false.
func (s *Set) Tick() []Kind {
	var expired []Kind
	// Deleting map entries during range iteration is safe per the Go specification.
	for kind, remaining := range s.active {
		if remaining == Indefinite {
			continue
		}
		remaining--
		if remaining <= 0 {
			expired = append(expired, kind)
			delete(s.active, kind)
		} else {
			s.active[kind] = remaining
		}
	}
	return expired
}

// Active returns the currently active kinds in unspecified order.
func (s *Set) Active() []Kind {
	out := make([]Kind, 0, len(s.active))
	for kind := range s.active {
		out = append(out, kind)
	}
	return out
}
