// Package grid implements the tactical battle grid: terrain, occupancy,
// pathfinding, line of sight, cover, and forced displacement.
//
// Tiles identify their occupant by combatant ID only. The grid never holds a
// reference back into combat state; callers keep their own coordinates and
// use the occupancy operations to keep both views consistent.
package grid

import "fmt"

// Point is a grid coordinate.
type Point struct {
	X int
	Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the Manhattan distance between two points.
func Manhattan(a, b Point) int {
	return abs(b.X-a.X) + abs(b.Y-a.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Terrain classifies a tile.
type Terrain int

const (
	TerrainNormal Terrain = iota
	TerrainForest
	TerrainWater
	TerrainMountain
	TerrainRoad
	TerrainWall
)

// String returns the lowercase terrain name.
func (t Terrain) String() string {
	switch t {
	case TerrainNormal:
		return "normal"
	case TerrainForest:
		return "forest"
	case TerrainWater:
		return "water"
	case TerrainMountain:
		return "mountain"
	case TerrainRoad:
		return "road"
	case TerrainWall:
		return "wall"
	default:
		return fmt.Sprintf("terrain(%d)", int(t))
	}
}

// Tile is a single grid cell. Occupant holds the occupying combatant's ID, or
// "" when the cell is empty.
type Tile struct {
	Terrain  Terrain
	Passable bool
	MoveCost int
	Height   int
	Occupant string
}

// CanEnter reports whether a unit may stop on or pass through this tile.
func (t *Tile) CanEnter() bool {
	return t.Passable && t.Occupant == ""
}

// Grid is a rectangular tactical map.
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

// New creates a grid of the given dimensions with all tiles normal,
// passable, cost 1.
//
// Precondition: width > 0 && height > 0. Panics otherwise.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", width, height))
	}
	g := &Grid{width: width, height: height, tiles: make([]Tile, width*height)}
	for i := range g.tiles {
		g.tiles[i] = Tile{Terrain: TerrainNormal, Passable: true, MoveCost: 1}
	}
	return g
}

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Tile returns the tile at p, or nil when p is out of bounds.
func (g *Grid) Tile(p Point) *Tile {
	if !g.InBounds(p) {
		return nil
	}
	return &g.tiles[p.Y*g.width+p.X]
}

// SetTerrain sets the terrain at p and applies that terrain's default
// passability and movement cost: walls are impassable; forest and water cost
// 2; mountains cost 3; roads and normal ground cost 1.
//
// Precondition: p in bounds. Panics otherwise.
func (g *Grid) SetTerrain(p Point, t Terrain) {
	tile := g.Tile(p)
	if tile == nil {
		panic(fmt.Sprintf("grid: SetTerrain out of bounds at (%d,%d)", p.X, p.Y))
	}
	tile.Terrain = t
	tile.Passable = t != TerrainWall
	switch t {
	case TerrainForest, TerrainWater:
		tile.MoveCost = 2
	case TerrainMountain:
		tile.MoveCost = 3
	default:
		tile.MoveCost = 1
	}
}

// Passable reports whether a unit can enter p: in bounds, passable terrain,
// and unoccupied.
func (g *Grid) Passable(p Point) bool {
	tile := g.Tile(p)
	return tile != nil && tile.CanEnter()
}

// Neighbors returns the in-bounds 4-neighbors of p in the fixed order north,
// east, south, west. The fixed order keeps pathfinding deterministic.
func (g *Grid) Neighbors(p Point) []Point {
	steps := [4]Point{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	out := make([]Point, 0, 4)
	for _, d := range steps {
		n := p.Add(d)
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// TilesInRange returns every in-bounds point whose Manhattan distance from
// center is within [minRange, maxRange], scanned row-major.
func (g *Grid) TilesInRange(center Point, minRange, maxRange int) []Point {
	var out []Point
	for y := max(0, center.Y-maxRange); y < min(g.height, center.Y+maxRange+1); y++ {
		for x := max(0, center.X-maxRange); x < min(g.width, center.X+maxRange+1); x++ {
			p := Point{X: x, Y: y}
			d := Manhattan(center, p)
			if d >= minRange && d <= maxRange {
				out = append(out, p)
			}
		}
	}
	return out
}

// PlaceOccupant records id as the occupant of p.
//
// Precondition: p in bounds, tile empty or already held by id. Panics
// otherwise: double occupancy is a bookkeeping bug, not a rules outcome.
func (g *Grid) PlaceOccupant(p Point, id string) {
	tile := g.Tile(p)
	if tile == nil {
		panic(fmt.Sprintf("grid: PlaceOccupant out of bounds at (%d,%d)", p.X, p.Y))
	}
	if tile.Occupant != "" && tile.Occupant != id {
		panic(fmt.Sprintf("grid: tile (%d,%d) already occupied by %s", p.X, p.Y, tile.Occupant))
	}
	tile.Occupant = id
}

// RemoveOccupant clears the occupant of p. Clearing an empty tile is a no-op.
func (g *Grid) RemoveOccupant(p Point) {
	if tile := g.Tile(p); tile != nil {
		tile.Occupant = ""
	}
}

// MoveOccupant relocates the occupant of from to to.
//
// Precondition: from holds an occupant and to is enterable. Panics otherwise.
func (g *Grid) MoveOccupant(from, to Point) {
	src := g.Tile(from)
	if src == nil || src.Occupant == "" {
		panic(fmt.Sprintf("grid: MoveOccupant from empty tile (%d,%d)", from.X, from.Y))
	}
	dst := g.Tile(to)
	if dst == nil || !dst.CanEnter() {
		panic(fmt.Sprintf("grid: MoveOccupant into blocked tile (%d,%d)", to.X, to.Y))
	}
	dst.Occupant = src.Occupant
	src.Occupant = ""
}

// OccupantAt returns the occupant ID at p, or "" when empty or out of bounds.
func (g *Grid) OccupantAt(p Point) string {
	if tile := g.Tile(p); tile != nil {
		return tile.Occupant
	}
	return ""
}
