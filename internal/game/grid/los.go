package grid

// Cover grades how protected a target is from an attacker's position.
type Cover int

const (
	CoverNone Cover = iota
	CoverHalf
	CoverFull
)

// String returns the lowercase cover grade.
func (c Cover) String() string {
	switch c {
	case CoverHalf:
		return "half"
	case CoverFull:
		return "full"
	default:
		return "none"
	}
}

// LineOfSight reports whether an unbroken sightline exists between a and b.
// The line is traced with integer Bresenham; any intervening wall tile blocks
// it. The endpoints themselves never block, so units standing in doorways can
// see out.
func (g *Grid) LineOfSight(a, b Point) bool {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		at := Point{X: x0, Y: y0}
		if at != a && at != b {
			if tile := g.Tile(at); tile != nil && tile.Terrain == TerrainWall {
				return false
			}
		}
		if x0 == x1 && y0 == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// CoverBetween grades the defender's cover from the attacker: Full when no
// line of sight exists, Half when the defender stands in forest, None
// otherwise.
func (g *Grid) CoverBetween(attacker, defender Point) Cover {
	if !g.LineOfSight(attacker, defender) {
		return CoverFull
	}
	if tile := g.Tile(defender); tile != nil && tile.Terrain == TerrainForest {
		return CoverHalf
	}
	return CoverNone
}
