package grid

// AwayFrom returns the unit step that moves target directly away from source
// along the dominant axis. Vertical wins ties, matching the push resolution
// order of the combat engine.
func AwayFrom(source, target Point) Point {
	dx := target.X - source.X
	dy := target.Y - source.Y
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return Point{X: 1}
		}
		return Point{X: -1}
	}
	if dy > 0 {
		return Point{Y: 1}
	}
	return Point{Y: -1}
}

// Slide walks from from along dir for at most maxSteps, stopping before the
// first tile that cannot be entered. It returns the final point reached and
// whether terrain or an occupant cut the slide short. The occupant of from is
// NOT relocated; callers move it afterwards if final differs from from.
//
// Precondition: dir is a unit step along one axis.
func (g *Grid) Slide(from, dir Point, maxSteps int) (final Point, blocked bool) {
	final = from
	for i := 1; i <= maxSteps; i++ {
		next := Point{X: from.X + dir.X*i, Y: from.Y + dir.Y*i}
		if !g.Passable(next) {
			return final, true
		}
		final = next
	}
	return final, false
}
