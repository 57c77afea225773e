package status

// Slowed penalties.
const (
	slowedEvasionPenalty  = -2
	slowedMovementPenalty = -2
)

// EvasionModifier returns the evasion adjustment imposed by active statuses.
func (s *Set) EvasionModifier() int {
	if s.Has(Slowed) {
		return slowedEvasionPenalty
	}
	return 0
}

// MovementModifier returns the movement-allowance adjustment imposed by
// active statuses.
func (s *Set) MovementModifier() int {
	if s.Has(Slowed) {
		return slowedMovementPenalty
	}
	return 0
}
