// Package ai implements the expected-value decision agent that drives
// combatants through their turns: stance selection, band-seeking movement,
// and swing-by-swing attack choices.
package ai

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/avalore/avasim/internal/game/combat"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
)

// Strategy selects a decision profile.
type Strategy string

const (
	StrategyAggressive Strategy = "aggressive"
	StrategyDefensive  Strategy = "defensive"
	StrategyBalanced   Strategy = "balanced"
	StrategyRandom     Strategy = "random"
)

// Profile holds the tunables of a strategy: when to fall back on defense and
// how strongly to favor pressing the attack.
type Profile struct {
	// HPThreshold is the hit point fraction below which the agent weighs
	// defending over attacking.
	HPThreshold float64

	// DefendThreshold is the minimum success probability a defensive stance
	// must offer to be worth taking.
	DefendThreshold float64

	// RetreatBias above zero makes a wounded agent open distance (and heal,
	// given the means) instead of trading blows.
	RetreatBias float64

	// PreferAttack suppresses opportunistic defending at healthy HP.
	PreferAttack bool
}

// ProfileFor returns the stock profile of a strategy.
//
// Precondition: s is one of the defined strategies. Panics otherwise.
func ProfileFor(s Strategy) Profile {
	switch s {
	case StrategyAggressive:
		return Profile{HPThreshold: 0.25, DefendThreshold: 0.70, RetreatBias: 0.0, PreferAttack: true}
	case StrategyDefensive:
		return Profile{HPThreshold: 0.60, DefendThreshold: 0.45, RetreatBias: 0.5}
	case StrategyBalanced:
		return Profile{HPThreshold: 0.50, DefendThreshold: 0.55}
	case StrategyRandom:
		return Profile{HPThreshold: 0.50, DefendThreshold: 0.50}
	default:
		panic(fmt.Sprintf("ai: unknown strategy %q", s))
	}
}

// maxSwingsPerTurn caps how many attacks the agent strings together.
const maxSwingsPerTurn = 2

// Agent decides and executes one combatant's turns.
type Agent struct {
	strategy Strategy
	profile  Profile
	src      dice.Source
	logger   *zap.Logger
}

// New creates an agent. A nil source falls back to crypto randomness (only
// the random strategy draws from it); a nil logger is replaced with a no-op.
func New(strategy Strategy, src dice.Source, logger *zap.Logger) *Agent {
	if src == nil {
		src = dice.NewCryptoSource()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		strategy: strategy,
		profile:  ProfileFor(strategy),
		src:      src,
		logger:   logger,
	}
}

// Strategy returns the agent's strategy.
func (a *Agent) Strategy() Strategy { return a.strategy }

// TakeTurn runs one full turn for c on e: survival stance first, then held
// support abilities, movement into a favorable band, an ability maneuver when
// one applies, and attacks while they keep positive expected value. The
// engine's turn must already be c's.
func (a *Agent) TakeTurn(e *combat.Engine, c *combat.Combatant) {
	if c.Dead || c.Critical {
		return
	}
	target := a.pickTarget(e, c)
	if target == nil {
		return
	}
	a.logger.Debug("agent turn",
		zap.String("combatant", c.Name()),
		zap.String("strategy", string(a.strategy)),
		zap.String("target", target.Name()))

	if a.strategy == StrategyRandom {
		a.randomTurn(e, c, target)
		return
	}

	if a.shouldDefend(e, c, target) {
		a.defend(e, c, target)
		return
	}

	a.trySupportActions(e, c, target)

	w := a.bestWeapon(e, c, target)
	if !e.InRange(c, target, w) {
		a.seekBand(e, c, target, w)
	}
	a.readyWeapon(e, c, w)

	a.tryManeuver(e, c, target, w)
	if target.Dead {
		target = a.pickTarget(e, c)
		if target == nil {
			return
		}
	}

	for swings := 0; swings < maxSwingsPerTurn; swings++ {
		w = a.bestWeapon(e, c, target)
		if !e.InRange(c, target, w) || c.ActionsRemaining < w.ActionsRequired {
			break
		}
		if AttackEV(e, c, target, w) <= 0 {
			break
		}
		if c.WeaponMain == nil || c.WeaponMain.Name != w.Name {
			e.SwapWeapon(c, w.Name, false)
		}
		e.PerformAttack(c, target, combat.AttackOptions{})
		if target.Dead {
			target = a.pickTarget(e, c)
			if target == nil {
				return
			}
		}
	}

	// Leftover actions go into a defensive posture.
	if c.ActionsRemaining > 0 {
		a.defend(e, c, target)
	}
}

// trySupportActions spends actions on the held non-attack abilities worth
// using this turn, in a fixed priority order: a second wind when bloodied,
// then mockery against a target sheltering behind a stance or shield, as long
// as an action remains for the attack itself.
func (a *Agent) trySupportActions(e *combat.Engine, c, target *combat.Combatant) {
	if c.HasAbility(combat.AbilitySecondWind) && c.HP*2 <= c.MaxHP {
		e.SecondWind(c)
	}
	if c.ActionsRemaining < 2 {
		return
	}
	if c.HasAbility(combat.AbilityShieldMockery) && target.MockeryPenalty == 0 &&
		(target.Evading || target.Blocking || target.Shield != nil) {
		e.Mockery(c, target)
	}
}

// tryManeuver opens with an ability-powered attack when one applies, in a
// fixed priority order: dual strike for twin wielders, mighty strike behind a
// two-handed blade, trick shot to thread a ranged attack past fancy footwork.
func (a *Agent) tryManeuver(e *combat.Engine, c, target *combat.Combatant, w item.Weapon) {
	if !e.InRange(c, target, w) || AttackEV(e, c, target, w) <= 0 {
		return
	}
	bring := func() {
		if c.WeaponMain == nil || c.WeaponMain.Name != w.Name {
			e.SwapWeapon(c, w.Name, false)
		}
	}
	switch {
	case c.HasAbility(combat.AbilityDualStrike) && c.WeaponMain != nil &&
		c.WeaponOffhand != nil && c.ActionsRemaining >= 2:
		e.DualStrike(c, target)
	case c.HasAbility(combat.AbilityMightyStrike) && w.TwoHanded &&
		w.RangeBand == item.BandMelee && c.ActionsRemaining >= w.ActionsRequired:
		bring()
		e.MightyStrike(c, target)
	case c.HasAbility(combat.AbilityTrickShot) && w.RangeBand != item.BandMelee &&
		(target.Evading || target.HasAbility(combat.AbilityQuickfooted)) &&
		c.ActionsRemaining >= w.ActionsRequired:
		bring()
		e.TrickShot(c, target)
	}
}

// pickTarget returns the nearest living enemy, breaking ties toward lower
// hit points.
func (a *Agent) pickTarget(e *combat.Engine, c *combat.Combatant) *combat.Combatant {
	var best *combat.Combatant
	bestDist, bestHP := math.MaxInt32, math.MaxInt32
	for _, enemy := range e.Enemies(c) {
		d := e.Distance(c, enemy)
		if d < bestDist || (d == bestDist && enemy.HP < bestHP) {
			best, bestDist, bestHP = enemy, d, enemy.HP
		}
	}
	return best
}

// shouldDefend weighs hit points against the odds a stance actually helps.
func (a *Agent) shouldDefend(e *combat.Engine, c, threat *combat.Combatant) bool {
	frac := float64(c.HP) / float64(c.MaxHP)
	pEvade, pBlock := DefenseProbs(e, c, threat)
	best := math.Max(pEvade, pBlock)
	if frac < a.profile.HPThreshold && best > a.profile.DefendThreshold {
		return true
	}
	if !a.profile.PreferAttack && best > 0.70 && frac < a.profile.HPThreshold {
		return true
	}
	return false
}

// defend heals if the profile leans that way and the means exist, then takes
// the stronger of the two stances.
func (a *Agent) defend(e *combat.Engine, c, threat *combat.Combatant) {
	if a.profile.RetreatBias > 0 && c.HP < c.MaxHP {
		if sp, ok := a.healingSpell(e, c); ok {
			if res := e.CastSpell(c, sp, c, false); res.Success {
				return
			}
		}
	}
	pEvade, pBlock := DefenseProbs(e, c, threat)
	if pBlock >= pEvade && c.Shield != nil {
		e.Block(c)
		return
	}
	e.Evade(c)
}

// healingSpell finds an affordable healing spell in the catalog.
func (a *Agent) healingSpell(e *combat.Engine, c *combat.Combatant) (item.Spell, bool) {
	for _, name := range e.Catalog().SpellNames() {
		sp := e.Catalog().MustSpell(name)
		if sp.Healing > 0 && sp.CanAfford(c.Anima) {
			return sp, true
		}
	}
	return item.Spell{}, false
}

// randomTurn picks uniformly among attacking, closing distance, and evading.
func (a *Agent) randomTurn(e *combat.Engine, c, target *combat.Combatant) {
	for c.ActionsRemaining > 0 {
		w := a.bestWeapon(e, c, target)
		switch a.src.Intn(3) {
		case 0:
			if e.InRange(c, target, w) {
				a.readyWeapon(e, c, w)
				e.PerformAttack(c, target, combat.AttackOptions{})
			} else if !e.MoveToward(c, target, false) {
				e.Evade(c)
			}
		case 1:
			if !e.MoveToward(c, target, false) {
				e.Evade(c)
			}
		default:
			e.Evade(c)
			return
		}
		if target.Dead {
			return
		}
	}
}

// bestWeapon returns the equipped weapon with the highest expected value
// against target, ignoring range; falls back to the current weapon or bare
// fists.
func (a *Agent) bestWeapon(e *combat.Engine, c, target *combat.Combatant) item.Weapon {
	candidates := c.WeaponsEquipped
	if len(candidates) == 0 {
		if c.WeaponMain != nil {
			return *c.WeaponMain
		}
		return e.Catalog().MustWeapon("Unarmed")
	}
	var best item.Weapon
	bestEV := math.Inf(-1)
	for _, name := range candidates {
		w, ok := e.Catalog().Weapon(name)
		if !ok || !c.CanUseWeapon(w) {
			continue
		}
		ev := AttackEV(e, c, target, w)
		// A weapon already in band beats a marginally better one that
		// needs repositioning.
		if e.InRange(c, target, w) {
			ev += 0.05
		}
		if ev > bestEV {
			best, bestEV = w, ev
		}
	}
	if bestEV == math.Inf(-1) {
		return e.Catalog().MustWeapon("Unarmed")
	}
	return best
}

// readyWeapon loads or draws w if it needs it and the actions are there.
func (a *Agent) readyWeapon(e *combat.Engine, c *combat.Combatant, w item.Weapon) {
	if w.LoadTime > 0 && c.LoadedWeapon != w.Name {
		e.LoadWeapon(c, w.Name)
	}
	if w.DrawTime > 0 && c.DrawnWeapon != w.Name {
		e.DrawWeapon(c, w.Name)
	}
}

// seekBand moves c toward the distance band where w fights, preferring the
// cheapest tile already in band, then the one closest to it. Dashing is the
// last resort.
func (a *Agent) seekBand(e *combat.Engine, c, target *combat.Combatant, w item.Weapon) {
	if e.Grid() == nil {
		e.MoveToward(c, target, false)
		return
	}
	type option struct {
		rank rankTuple
		dest grid.Point
		dash bool
	}
	var best *option
	consider := func(dest grid.Point, cost int, dash bool) {
		d := grid.Manhattan(dest, target.Position)
		if d == 0 {
			return
		}
		r := rankFor(w, d, cost, dash)
		if best == nil || r.less(best.rank) {
			best = &option{rank: r, dest: dest, dash: dash}
		}
	}
	consider(c.Position, 0, false)
	for dest, cost := range e.Grid().Reachable(c.Position, e.MovementAllowance(c, false)) {
		if dest != c.Position && !e.Grid().Passable(dest) {
			continue
		}
		consider(dest, cost, false)
	}
	if !c.DashedThisTurn {
		for dest, cost := range e.Grid().Reachable(c.Position, e.MovementAllowance(c, true)) {
			if dest != c.Position && !e.Grid().Passable(dest) {
				continue
			}
			consider(dest, cost, true)
		}
	}
	if best == nil || best.dest == c.Position {
		return
	}
	if best.dash {
		e.Dash(c, best.dest)
	} else {
		e.Move(c, best.dest)
	}
}

// rankTuple orders movement options lexicographically: in band first, then
// least band deviation, then cheapest path, then no dash.
type rankTuple struct {
	outOfBand int
	deviation int
	cost      int
	dash      int
}

func (r rankTuple) less(o rankTuple) bool {
	if r.outOfBand != o.outOfBand {
		return r.outOfBand < o.outOfBand
	}
	if r.deviation != o.deviation {
		return r.deviation < o.deviation
	}
	if r.cost != o.cost {
		return r.cost < o.cost
	}
	return r.dash < o.dash
}

func rankFor(w item.Weapon, distance, cost int, dash bool) rankTuple {
	r := rankTuple{cost: cost}
	if dash {
		r.dash = 1
	}
	lo, hi := w.RangeBand.Bounds()
	if w.RangeBand == item.BandMelee {
		hi = w.EffectiveReach()
	}
	switch {
	case distance >= lo && distance <= hi:
	case distance < lo:
		r.outOfBand = 1
		r.deviation = lo - distance
	default:
		r.outOfBand = 1
		r.deviation = distance - hi
	}
	return r
}

// AttackEV estimates the damage per action of attacking target with w: the
// probability of beating the target's contested defense times the damage
// expected past armor, spread over the weapon's action cost.
func AttackEV(e *combat.Engine, attacker, target *combat.Combatant, w item.Weapon) float64 {
	margin := attackModifier(attacker, w) + w.AccuracyBonus - target.EvasionModifier()
	pWin := dice.ContestWinProb(margin)
	dmg := float64(w.Damage) - ExpectedSoak(target, w.IsPiercing())
	if dmg < 0 {
		dmg = 0
	}
	actions := w.ActionsRequired
	if actions < 1 {
		actions = 1
	}
	return pWin * dmg / float64(actions)
}

// attackModifier mirrors the engine's attack stat split.
func attackModifier(attacker *combat.Combatant, w item.Weapon) int {
	if w.RangeBand == item.BandMelee {
		return attacker.Sheet.Modifier("Strength", "Athletics")
	}
	return attacker.Sheet.Modifier("Dexterity", "Acrobatics")
}

// ExpectedSoak is the mean armor soak of the target: 0.5 light, 1.0 medium,
// 2.0 heavy, one less when the armor's requirement is unmet, floored at
// zero. Piercing attacks ignore it.
func ExpectedSoak(target *combat.Combatant, piercing bool) float64 {
	if piercing || target.Armor == nil {
		return 0
	}
	var soak float64
	switch target.Armor.Class {
	case item.ArmorLight:
		soak = 0.5
	case item.ArmorMedium:
		soak = 1.0
	case item.ArmorHeavy:
		soak = 2.0
	default:
		return 0
	}
	if !target.Armor.MeetsRequirements(target.Sheet) {
		soak -= 1
	}
	if soak < 0 {
		soak = 0
	}
	return soak
}

// DefenseProbs estimates the chance an evasive stance or a shield block
// stops threat's next attack.
func DefenseProbs(e *combat.Engine, c, threat *combat.Combatant) (pEvade, pBlock float64) {
	threatWeapon := threat.WeaponMain
	var w item.Weapon
	if threatWeapon != nil {
		w = *threatWeapon
	} else {
		w = e.Catalog().MustWeapon("Unarmed")
	}
	atk := attackModifier(threat, w) + w.AccuracyBonus
	// Ties go to the evader, hence the +1.
	pEvade = dice.ContestWinProb(c.EvasionModifier() - atk + 1)
	if c.Shield != nil {
		pBlock = dice.ProbAtLeast2D10(item.BlockDC - c.Shield.BlockModifier)
	}
	return pEvade, pBlock
}
