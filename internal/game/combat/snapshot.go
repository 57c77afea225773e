package combat

import (
	"strings"

	"go.uber.org/zap"

	"github.com/avalore/avasim/internal/game/grid"
)

// Snapshot is a per-round record of the battlefield: every combatant's
// position and hit points, plus an ASCII render of the grid.
type Snapshot struct {
	Round   int
	States  []CombatantState
	MapView string
}

// CombatantState is one combatant's line in a snapshot.
type CombatantState struct {
	ID       string
	Name     string
	Team     string
	HP       int
	X, Y     int
	Critical bool
	Dead     bool
}

// Snapshots returns the per-round battlefield records captured so far.
func (e *Engine) Snapshots() []Snapshot { return e.snapshots }

func (e *Engine) captureSnapshot() {
	snap := Snapshot{Round: e.round}
	for _, p := range e.participants {
		snap.States = append(snap.States, CombatantState{
			ID:       p.ID,
			Name:     p.Name(),
			Team:     p.Team,
			HP:       p.HP,
			X:        p.Position.X,
			Y:        p.Position.Y,
			Critical: p.Critical,
			Dead:     p.Dead,
		})
	}
	snap.MapView = e.renderMap()
	e.snapshots = append(e.snapshots, snap)
	e.logger.Debug("battlefield snapshot",
		zap.Int("round", snap.Round),
		zap.Int("combatants", len(snap.States)))
}

// renderMap draws the grid as rows of glyphs: '#' walls, '.' open ground,
// and each combatant's initial (lowercase once dead). Returns "" off-grid.
func (e *Engine) renderMap() string {
	if e.grid == nil {
		return ""
	}
	glyphs := make(map[string]byte, len(e.participants))
	for _, p := range e.participants {
		g := byte('?')
		if n := p.Name(); n != "" {
			g = n[0]
		}
		if p.Dead {
			g = lower(g)
		}
		glyphs[p.ID] = g
	}
	var b strings.Builder
	for y := e.grid.Height() - 1; y >= 0; y-- {
		for x := 0; x < e.grid.Width(); x++ {
			t := e.grid.Tile(grid.Point{X: x, Y: y})
			switch {
			case t.Occupant != "":
				if g, ok := glyphs[t.Occupant]; ok {
					b.WriteByte(g)
				} else {
					b.WriteByte('?')
				}
			case !t.Passable:
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
