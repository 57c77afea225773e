package combat

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/game/status"
)

// TimeOfDay tags the ambient light of the scene.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// Penalties applied to attacks against targets the attacker cannot see
// clearly.
const (
	hiddenAttackPenalty   = -3
	darknessAttackPenalty = -2
)

// AttackDC is the base difficulty of a 2d10 attack check.
const AttackDC = 12

// EngineConfig configures a combat engine. Zero-value fields fall back to
// sane defaults: a crypto-backed dice source, a no-op logger, the stock
// ability registry, and the stock item catalog.
type EngineConfig struct {
	Participants []*Combatant
	Grid         *grid.Grid
	Source       dice.Source
	Logger       *zap.Logger
	Registry     *Registry
	Catalog      *item.Catalog

	TimeOfDay  TimeOfDay
	Underwater bool

	// PartyInitiated marks that InitiatingTeam opened the fight on its own
	// terms; SurprisedTeam (if set) was caught unaware.
	PartyInitiated bool
	InitiatingTeam string
	SurprisedTeam  string
}

// Engine drives one combat: initiative, turn order, and the resolution
// pipelines. It is not safe for concurrent use.
type Engine struct {
	participants []*Combatant
	byID         map[string]*Combatant
	grid         *grid.Grid
	src          dice.Source
	roller       *dice.Roller
	logger       *zap.Logger
	registry     *Registry
	catalog      *item.Catalog

	timeOfDay  TimeOfDay
	underwater bool

	PartyInitiated bool
	InitiatingTeam string
	SurprisedTeam  string

	round     int
	turnOrder []*Combatant
	turnIdx   int
	started   bool

	events    []string
	snapshots []Snapshot
}

// NewEngine builds an engine and places any grid-bound participants onto the
// grid.
//
// Precondition: at least two participants. Panics otherwise, and on a
// duplicate participant ID.
func NewEngine(cfg EngineConfig) *Engine {
	if len(cfg.Participants) < 2 {
		panic(fmt.Sprintf("combat: NewEngine requires at least 2 participants, got %d", len(cfg.Participants)))
	}
	e := &Engine{
		participants:   cfg.Participants,
		byID:           make(map[string]*Combatant, len(cfg.Participants)),
		grid:           cfg.Grid,
		src:            cfg.Source,
		logger:         cfg.Logger,
		registry:       cfg.Registry,
		catalog:        cfg.Catalog,
		timeOfDay:      cfg.TimeOfDay,
		underwater:     cfg.Underwater,
		PartyInitiated: cfg.PartyInitiated,
		InitiatingTeam: cfg.InitiatingTeam,
		SurprisedTeam:  cfg.SurprisedTeam,
	}
	if e.src == nil {
		e.src = dice.NewCryptoSource()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	if e.catalog == nil {
		e.catalog = item.Default()
	}
	e.roller = dice.NewRoller(e.src, e.logger)
	if e.timeOfDay == "" {
		e.timeOfDay = Day
	}
	for _, p := range e.participants {
		if _, dup := e.byID[p.ID]; dup {
			panic(fmt.Sprintf("combat: duplicate participant ID %q", p.ID))
		}
		e.byID[p.ID] = p
		if e.grid != nil && e.grid.OccupantAt(p.Position) != p.ID {
			e.grid.PlaceOccupant(p.Position, p.ID)
		}
	}
	return e
}

// Grid returns the battle grid, or nil for abstract-distance fights.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Source returns the dice source every roll in this combat draws from.
func (e *Engine) Source() dice.Source { return e.src }

// Catalog returns the item catalog in play.
func (e *Engine) Catalog() *item.Catalog { return e.catalog }

// Round returns the current round number, starting at 1 once combat begins.
func (e *Engine) Round() int { return e.round }

// Underwater reports whether the scene is submerged.
func (e *Engine) Underwater() bool { return e.underwater }

// Participants returns the combat roster in entry order.
func (e *Engine) Participants() []*Combatant { return e.participants }

// ParticipantByID looks a combatant up by ID.
func (e *Engine) ParticipantByID(id string) *Combatant { return e.byID[id] }

// Logf appends a formatted entry to the event log.
func (e *Engine) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.events = append(e.events, msg)
	e.logger.Debug("combat event", zap.Int("round", e.round), zap.String("event", msg))
}

// Events returns the accumulated narrative log.
func (e *Engine) Events() []string { return e.events }

// Distance is the Manhattan distance between two combatants on the grid; it
// falls back to the difference of X coordinates off-grid.
func (e *Engine) Distance(a, b *Combatant) int {
	if e.grid == nil {
		d := a.Position.X - b.Position.X
		if d < 0 {
			d = -d
		}
		return d
	}
	return grid.Manhattan(a.Position, b.Position)
}

// Enemies returns the living opponents of c.
func (e *Engine) Enemies(c *Combatant) []*Combatant {
	var out []*Combatant
	for _, p := range e.participants {
		if p.Team != c.Team && !p.Dead {
			out = append(out, p)
		}
	}
	return out
}

// Allies returns the living teammates of c, excluding c itself.
func (e *Engine) Allies(c *Combatant) []*Combatant {
	var out []*Combatant
	for _, p := range e.participants {
		if p != c && p.Team == c.Team && !p.Dead {
			out = append(out, p)
		}
	}
	return out
}

// NearestEnemyDistance returns the distance to the closest living enemy, or
// a large sentinel when none remain.
func (e *Engine) NearestEnemyDistance(c *Combatant) int {
	best := 1 << 30
	for _, en := range e.Enemies(c) {
		if d := e.Distance(c, en); d < best {
			best = d
		}
	}
	return best
}

// AllyAdjacentTo reports whether any living teammate of attacker other than
// attacker itself stands adjacent to target.
func (e *Engine) AllyAdjacentTo(target, attacker *Combatant) bool {
	for _, ally := range e.Allies(attacker) {
		if e.Distance(ally, target) <= 1 {
			return true
		}
	}
	return false
}

// HeightAt returns the grid height at p, or zero off-grid.
func (e *Engine) HeightAt(p grid.Point) int {
	if e.grid == nil {
		return 0
	}
	t := e.grid.Tile(p)
	if t == nil {
		return 0
	}
	return t.Height
}

// stepAway moves c one passable tile directly away from from, if the grid
// allows it. Used for free repositioning granted by abilities.
func (e *Engine) stepAway(c *Combatant, from grid.Point) {
	if e.grid == nil {
		return
	}
	dir := grid.AwayFrom(from, c.Position)
	dest := c.Position.Add(dir)
	if !e.grid.Passable(dest) {
		return
	}
	e.grid.MoveOccupant(c.Position, dest)
	c.Position = dest
	e.Logf("%s repositions to (%d,%d)", c.Name(), dest.X, dest.Y)
}

// InRange reports whether defender sits inside w's range band from
// attacker's position, honoring reach weapons in melee.
func (e *Engine) InRange(attacker, defender *Combatant, w item.Weapon) bool {
	d := e.Distance(attacker, defender)
	if w.RangeBand == item.BandMelee {
		return d <= w.EffectiveReach()
	}
	return w.RangeBand.InBand(d)
}

// concealmentPenalty computes the attack penalty for striking a target the
// attacker cannot see clearly: hidden targets and night fighting.
func (e *Engine) concealmentPenalty(attacker, defender *Combatant) int {
	if attacker.IgnoreNextConcealPenalty {
		attacker.IgnoreNextConcealPenalty = false
		return 0
	}
	if defender.Statuses.Has(status.Hidden) {
		return hiddenAttackPenalty
	}
	if e.timeOfDay == Night {
		return darknessAttackPenalty
	}
	return 0
}

// StealthModifier returns c's full stealth modifier, including ability
// adjustments.
func (e *Engine) StealthModifier(c *Combatant) int {
	return e.registry.modifyStealth(e, c, c.StealthModifier())
}

// Begin rolls initiative, applies surprise penalties, and sorts the turn
// order. Higher totals act first; ties break by roster order. The first
// combatant's turn starts immediately.
//
// Postcondition: Round() == 1 and Current() is the fastest combatant.
func (e *Engine) Begin() {
	if e.started {
		panic("combat: Begin called twice")
	}
	e.started = true
	type entry struct {
		c     *Combatant
		total int
		order int
	}
	entries := make([]entry, 0, len(e.participants))
	for i, p := range e.participants {
		roll, _ := e.roller.Check()
		bonus := p.Sheet.Modifier("Dexterity", "Acrobatics")
		bonus = e.registry.modifyInitiative(e, p, bonus)
		if e.SurprisedTeam != "" && p.Team == e.SurprisedTeam {
			bonus -= 5
			if !p.HasAbility(AbilityAlwaysReady) {
				p.ActionsPerTurn = DefaultActionsPerTurn - 1
			}
		}
		total := roll + bonus
		entries = append(entries, entry{c: p, total: total, order: i})
		e.Logf("%s rolls initiative %d", p.Name(), total)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].order < entries[j].order
	})
	e.turnOrder = make([]*Combatant, len(entries))
	for i, en := range entries {
		e.turnOrder[i] = en.c
	}
	e.round = 1
	e.turnIdx = 0
	e.beginTurn(e.Current())
	e.captureSnapshot()
}

// Current returns the combatant whose turn it is.
//
// Precondition: Begin was called. Panics otherwise.
func (e *Engine) Current() *Combatant {
	if !e.started {
		panic("combat: Current before Begin")
	}
	return e.turnOrder[e.turnIdx]
}

// TurnOrder returns the initiative order established by Begin.
func (e *Engine) TurnOrder() []*Combatant { return e.turnOrder }

func (e *Engine) beginTurn(c *Combatant) {
	c.StartTurn()
	// Surprised combatants recover their full action economy after the
	// opening round.
	if e.round > 1 && c.ActionsPerTurn < DefaultActionsPerTurn {
		c.ActionsPerTurn = DefaultActionsPerTurn
		c.ActionsRemaining = DefaultActionsPerTurn
	}
	e.registry.onTurnStart(e, c)
}

// AdvanceTurn ends the current combatant's turn and starts the next living
// combatant's. Wrapping past the end of the order increments the round. Dead
// combatants are skipped; if the combat has ended, AdvanceTurn is a no-op.
func (e *Engine) AdvanceTurn() {
	if e.Ended() {
		return
	}
	for i := 0; i < len(e.turnOrder)+1; i++ {
		e.turnIdx++
		if e.turnIdx >= len(e.turnOrder) {
			e.turnIdx = 0
			e.round++
			e.Logf("round %d begins", e.round)
			e.captureSnapshot()
		}
		if !e.turnOrder[e.turnIdx].Dead {
			e.beginTurn(e.turnOrder[e.turnIdx])
			return
		}
	}
}

// Ended reports whether at most one team still has combatants able to fight.
func (e *Engine) Ended() bool {
	teams := make(map[string]bool)
	for _, p := range e.participants {
		if p.Alive() {
			teams[p.Team] = true
		}
	}
	return len(teams) <= 1
}

// WinningTeam returns the sole surviving team, or "" while the combat is
// undecided or ends with no one standing.
func (e *Engine) WinningTeam() string {
	teams := make(map[string]bool)
	for _, p := range e.participants {
		if p.Alive() {
			teams[p.Team] = true
		}
	}
	if len(teams) != 1 {
		return ""
	}
	for t := range teams {
		return t
	}
	return ""
}

// Summary returns a one-line state of every participant.
func (e *Engine) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "round %d:", e.round)
	for _, p := range e.participants {
		state := "active"
		switch {
		case p.Dead:
			state = "dead"
		case p.Critical:
			state = "critical"
		}
		fmt.Fprintf(&b, " %s[%s %d/%d hp]", p.Name(), state, p.HP, p.MaxHP)
	}
	return b.String()
}
