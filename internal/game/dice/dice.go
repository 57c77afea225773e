// Package dice provides the core randomness abstraction and the exact
// 2d10 probability math for the Avalore combat engine.
package dice

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Pair holds the two individual dice of a 2d10 roll, kept so callers can
// detect the double-maximum critical condition.
type Pair [2]int

// IsDoubleMax reports whether both dice show their maximum face.
func (p Pair) IsDoubleMax(faces int) bool {
	return p[0] == faces && p[1] == faces
}

// Roll2D rolls two dice with the given number of faces and returns the sum
// plus the individual dice.
//
// Precondition: faces >= 2; src must be non-nil.
// Postcondition: total == pair[0] + pair[1]; each die is in [1, faces].
func Roll2D(src Source, faces int) (total int, pair Pair) {
	pair[0] = src.Intn(faces) + 1
	pair[1] = src.Intn(faces) + 1
	return pair[0] + pair[1], pair
}

// Roll2D10 rolls the standard 2d10 check.
func Roll2D10(src Source) (total int, pair Pair) {
	return Roll2D(src, 10)
}

// Roll1D rolls a single die with the given number of faces.
//
// Precondition: faces >= 2; src must be non-nil.
// Postcondition: result is in [1, faces].
func Roll1D(src Source, faces int) int {
	return src.Intn(faces) + 1
}
