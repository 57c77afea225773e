// Package combat implements the Avalore combat engine: combatant state, the
// ability hook registry, and the resolution pipelines for attacks, spells,
// movement, and special actions.
package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avalore/avasim/internal/game/character"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/game/status"
)

// DefaultActionsPerTurn is the standard action economy.
const DefaultActionsPerTurn = 2

// DeathSaveDC is the 2d10 threshold below which a death save fails. A single
// failure kills.
const DeathSaveDC = 12

// Combatant is one fighter in a combat. Fields are mutated by the engine and
// by ability handlers; a Combatant is not safe for concurrent use.
type Combatant struct {
	ID    string
	Sheet character.Sheet
	Team  string

	HP       int
	MaxHP    int
	TempHP   int
	Anima    int
	MaxAnima int

	WeaponMain    *item.Weapon
	WeaponOffhand *item.Weapon
	Armor         *item.Armor
	Shield        *item.Shield

	Position grid.Point
	Statuses *status.Set

	// Abilities in acquisition order. Hook dispatch folds through this
	// slice front to back, so the order is behavior, not presentation.
	Abilities []string

	CreatureType string

	// Lineage Weapon state.
	LineageWeapon        string
	LineageWeaponAlt     string
	ActiveLineageElement string
	SlainSpecies         map[string]bool
	LacunaUsedScene      bool

	AberrationTarget string

	// Stances and statuses of the current turn.
	Evading         bool
	Blocking        bool
	Critical        bool
	Dead            bool
	BastionActive   bool
	SteadfastActive bool
	FlowingStance   bool

	WhirlingDevilActive bool
	ForwardChargeReady  bool

	ActionsPerTurn   int
	ActionsRemaining int

	DashedThisTurn bool
	FreeMoveUsed   bool
	SwapUsedTurn   bool

	TempAttackBonus int
	LastHitSuccess  bool

	NextUnarmedBonus string // "", "aim", or "damage"

	IgnoreNextConcealPenalty bool
	InspiredScene            bool
	GrazeBufferUsed          bool
	SuppressDeathSaveOnce    bool
	FreeCriticalActionUsed   bool
	SentinelRetaliationUsed  bool
	SentinelNeedsLift        bool
	ReactiveManeuverUsed     bool

	MockeryPenalty     int
	MockeryRounds      int
	SpellPenalty       int
	SpellPenaltyRounds int

	ParryBonusNextTurn     bool
	ParryDamageBonusActive bool

	EvadesSinceLastTurn int
	EvadesPrevTurn      int

	// IDs of defenders pinned against walls by Control this turn.
	ControlPinnedTargets map[string]bool

	LastDeathSaveTriggered bool
	DeathSaveFailures      int

	WeaponsEquipped  []string
	LoadedWeapon     string
	DrawnWeapon      string
	HasOvercastToday bool

	firstTurnUsed     bool
	limitedActionUsed bool
	limitedTurn       map[string]bool
	limitedSceneCount map[string]int
	usesThisFight     map[string]int
}

// NewCombatant creates a combatant with full hit points, the default action
// economy, and a fresh UUID.
//
// Precondition: sheet non-nil, maxHP > 0. Panics otherwise.
func NewCombatant(sheet character.Sheet, team string, maxHP, maxAnima int) *Combatant {
	if sheet == nil {
		panic("combat: NewCombatant requires a sheet")
	}
	if maxHP <= 0 {
		panic(fmt.Sprintf("combat: NewCombatant maxHP must be positive, got %d", maxHP))
	}
	return &Combatant{
		ID:                   uuid.NewString(),
		Sheet:                sheet,
		Team:                 team,
		HP:                   maxHP,
		MaxHP:                maxHP,
		Anima:                maxAnima,
		MaxAnima:             maxAnima,
		Statuses:             status.NewSet(),
		ActionsPerTurn:       DefaultActionsPerTurn,
		ActionsRemaining:     DefaultActionsPerTurn,
		SlainSpecies:         make(map[string]bool),
		ControlPinnedTargets: make(map[string]bool),
		limitedTurn:          make(map[string]bool),
		limitedSceneCount:    make(map[string]int),
		usesThisFight:        make(map[string]int),
	}
}

// Name returns the combatant's display name.
func (c *Combatant) Name() string { return c.Sheet.Name() }

// Alive reports whether the combatant can still participate: not dead and
// above zero hit points or merely critical.
func (c *Combatant) Alive() bool { return !c.Dead && c.HP > 0 }

// HasAbility reports whether the combatant holds the named ability.
func (c *Combatant) HasAbility(name string) bool {
	for _, a := range c.Abilities {
		if a == name {
			return true
		}
	}
	return false
}

// GrantAbility appends an ability to the held list. Order of grants is
// preserved and determines hook dispatch order. Duplicate grants are ignored.
func (c *Combatant) GrantAbility(name string) {
	if c.HasAbility(name) {
		return
	}
	c.Abilities = append(c.Abilities, name)
}

// EvasionModifier returns the defender-side modifier applied to evasion
// rolls: Dexterity:Acrobatics, armor penalty, status penalties, and any
// mockery penalty.
func (c *Combatant) EvasionModifier() int {
	base := c.Sheet.Modifier("Dexterity", "Acrobatics")
	if c.Armor != nil {
		base += c.Armor.EvasionPenalty
	}
	base += c.Statuses.EvasionModifier()
	return base - c.MockeryPenalty
}

// StealthModifier returns the base stealth modifier before engine-level
// adjustments (ally auras, armor).
func (c *Combatant) StealthModifier() int {
	base := c.Sheet.Modifier("Dexterity", "Stealth")
	if c.Armor != nil {
		base += c.Armor.StealthPenalty
	}
	return base
}

// StartTurn resets the per-turn state: action economy, stances, transient
// flags, limited-use trackers, pending bonuses, and status durations.
// Ability-driven adjustments (extra first-turn actions and the like) are
// applied afterwards by the engine's turn-start hook dispatch.
//
// Postcondition: ActionsRemaining == ActionsPerTurn; calling StartTurn twice
// in a row leaves ActionsRemaining unchanged.
func (c *Combatant) StartTurn() {
	c.ActionsRemaining = c.ActionsPerTurn
	c.limitedActionUsed = false
	c.Evading = false
	c.Blocking = false
	c.FlowingStance = false
	c.DashedThisTurn = false
	c.FreeMoveUsed = false
	c.GrazeBufferUsed = false
	c.FreeCriticalActionUsed = false
	c.WhirlingDevilActive = false
	c.SentinelRetaliationUsed = false
	c.ReactiveManeuverUsed = false
	c.SwapUsedTurn = false
	c.TempAttackBonus = 0
	c.LastHitSuccess = false
	c.LastDeathSaveTriggered = false
	c.ControlPinnedTargets = make(map[string]bool)
	c.limitedTurn = make(map[string]bool)

	c.ParryDamageBonusActive = c.ParryBonusNextTurn
	c.ParryBonusNextTurn = false

	c.EvadesPrevTurn = c.EvadesSinceLastTurn
	c.EvadesSinceLastTurn = 0

	if c.MockeryRounds > 0 {
		c.MockeryRounds--
		if c.MockeryRounds == 0 {
			c.MockeryPenalty = 0
		}
	}
	if c.SpellPenaltyRounds > 0 {
		c.SpellPenaltyRounds--
		if c.SpellPenaltyRounds == 0 {
			c.SpellPenalty = 0
		}
	}
	c.Statuses.Tick()
}

// SpendActions consumes amount actions if available.
//
// Postcondition: returns false and leaves the pool untouched when the pool
// is short.
func (c *Combatant) SpendActions(amount int) bool {
	if c.ActionsRemaining < amount {
		return false
	}
	c.ActionsRemaining -= amount
	return true
}

// TakeLimitedAction consumes the one limited action allowed per turn.
func (c *Combatant) TakeLimitedAction() bool {
	if c.limitedActionUsed {
		return false
	}
	c.limitedActionUsed = true
	return true
}

// UseLimitedTurn records a once-per-turn use of the named ability and
// reports whether it was still available this turn.
func (c *Combatant) UseLimitedTurn(name string) bool {
	if c.limitedTurn[name] {
		return false
	}
	c.limitedTurn[name] = true
	return true
}

// UseLimitedScene records a per-scene use of the named ability, capped at
// limit, and reports whether a use was still available.
func (c *Combatant) UseLimitedScene(name string, limit int) bool {
	if c.limitedSceneCount[name] >= limit {
		return false
	}
	c.limitedSceneCount[name]++
	return true
}

// UseOncePerFight records a once-per-fight use of the named ability.
func (c *Combatant) UseOncePerFight(name string) bool {
	if c.usesThisFight[name] >= 1 {
		return false
	}
	c.usesThisFight[name] = 1
	return true
}

// CanUseWeapon reports whether the combatant may wield w: requirements met
// and the worn armor does not prohibit it.
func (c *Combatant) CanUseWeapon(w item.Weapon) bool {
	if !w.MeetsRequirements(c.Sheet) {
		return false
	}
	if c.Armor != nil && c.Armor.ProhibitsWeapon(w) {
		return false
	}
	return true
}

// EquipWeapon equips the named weapon from cat into the main or offhand
// slot, enforcing the carry limits. Returns false when the weapon is unknown
// or the loadout would exceed the limits.
func (c *Combatant) EquipWeapon(cat *item.Catalog, name string, offhand bool) bool {
	w, ok := cat.Weapon(name)
	if !ok {
		return false
	}
	test := make([]string, len(c.WeaponsEquipped), len(c.WeaponsEquipped)+1)
	copy(test, c.WeaponsEquipped)
	test = append(test, name)
	if !item.ValidateLoadout(test) {
		return false
	}
	c.WeaponsEquipped = test
	if offhand {
		c.WeaponOffhand = &w
	} else {
		c.WeaponMain = &w
	}
	return true
}

// TakeDamage applies incoming damage: armor soak unless armor piercing, then
// temporary HP, then hit points clamped at zero. Reaching zero makes the
// combatant Critical; further harm while Critical forces a death save unless
// suppressed (each suppression is single-use). Returns the damage actually
// taken after soak and temp HP.
//
// Postcondition: HP >= 0; Dead implies Critical held before death.
func (c *Combatant) TakeDamage(src dice.Source, amount int, armorPiercing, allowDeathSave bool) int {
	c.LastDeathSaveTriggered = false
	if amount <= 0 {
		return 0
	}
	if !armorPiercing && c.Armor != nil {
		soak := c.Armor.SoakRoll(src, c.Armor.MeetsRequirements(c.Sheet))
		amount -= soak
		if amount < 0 {
			amount = 0
		}
	}
	if c.TempHP > 0 && amount > 0 {
		absorbed := c.TempHP
		if amount < absorbed {
			absorbed = amount
		}
		c.TempHP -= absorbed
		amount -= absorbed
	}
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
	if c.HP == 0 && amount > 0 {
		if c.Critical {
			if allowDeathSave && !c.SuppressDeathSaveOnce {
				c.LastDeathSaveTriggered = true
				c.ResolveDeathSave(src)
			}
			if c.SuppressDeathSaveOnce {
				c.SuppressDeathSaveOnce = false
			}
		} else {
			c.Critical = true
		}
	}
	return amount
}

// ResolveDeathSave rolls 2d10; below the death save DC the combatant dies.
// Already-dead combatants are unaffected.
func (c *Combatant) ResolveDeathSave(src dice.Source) {
	if c.Dead {
		return
	}
	roll, _ := dice.Roll2D10(src)
	if roll < DeathSaveDC {
		c.DeathSaveFailures++
		c.Dead = true
	}
}

// Heal restores hit points clamped at MaxHP and clears the Critical state
// once HP is positive. Healing never revives the dead.
func (c *Combatant) Heal(amount int) {
	if c.Dead {
		return
	}
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.HP > 0 {
		c.Critical = false
	}
}
