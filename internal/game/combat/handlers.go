package combat

import (
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/game/status"
)

// DefaultRegistry returns a registry with every stock ability handler
// installed.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(AbilityDuelingStance, duelingStanceHandler{})
	r.Register(AbilityLineageWeapon, lineageWeaponHandler{})
	r.Register(AbilityQuestingBane, questingBaneHandler{})
	r.Register(AbilityPreciseSenses, preciseSensesHandler{})
	r.Register(AbilityAberrationSlayer, aberrationSlayerHandler{})
	r.Register(AbilityBacklineFlanker, backlineFlankerHandler{})
	r.Register(AbilityStrategicArcher, strategicArcherHandler{})
	r.Register(AbilityControl, controlHandler{})
	r.Register(AbilityRakishCombo, rakishComboHandler{})
	r.Register(AbilityForwardCharge, forwardChargeHandler{})
	r.Register(AbilityParry, parryHandler{})
	r.Register(AbilityEvasiveTactics, evasiveTacticsHandler{})
	r.Register(AbilityQuickfooted, quickfootedHandler{})
	r.Register(AbilityGalestormStance, galestormStanceHandler{})
	r.Register(AbilityReactiveStance, reactiveStanceHandler{})
	r.Register(AbilityDeathsDance, deathsDanceHandler{})
	r.Register(AbilityShieldmaster, shieldmasterHandler{})
	r.Register(AbilityShieldWall, shieldWallHandler{})
	r.Register(AbilityFirstStrike, firstStrikeHandler{})
	r.Register(AbilityAlwaysReady, alwaysReadyHandler{})
	r.Register(AbilitySkirmishingParty, skirmishingPartyHandler{})
	return r
}

// duelingStanceHandler grants +1 aim and +1 damage while wielding a single
// one-handed melee weapon with the other hand free.
type duelingStanceHandler struct{ NopHandler }

func duelingStanceApplies(c *Combatant, w item.Weapon) bool {
	return !w.TwoHanded && w.RangeBand == item.BandMelee &&
		c.WeaponOffhand == nil && c.Shield == nil
}

func (duelingStanceHandler) ModifyAttackRoll(e *Engine, attacker, _ *Combatant, w item.Weapon, total int, ctx *Context) int {
	if duelingStanceApplies(attacker, w) {
		ctx.DuelingBonus = 1
		return total + 1
	}
	return total
}

func (duelingStanceHandler) ModifyDamage(e *Engine, attacker, _ *Combatant, w item.Weapon, damage int, _ *Context) int {
	if duelingStanceApplies(attacker, w) {
		return damage + 1
	}
	return damage
}

// lineageWeaponHandler grants +1 aim with the bonded weapon and stamps the
// attack with the active lineage element.
type lineageWeaponHandler struct{ NopHandler }

func (lineageWeaponHandler) ModifyAttackRoll(e *Engine, attacker, _ *Combatant, w item.Weapon, total int, ctx *Context) int {
	if w.Name != attacker.LineageWeapon && w.Name != attacker.LineageWeaponAlt {
		return total
	}
	ctx.LineageAimBonus = 1
	if attacker.ActiveLineageElement != "" {
		ctx.AttackElement = attacker.ActiveLineageElement
	}
	return total + 1
}

// questingBaneHandler records the species of every creature the holder fells
// and grants +1 damage against species already on the tally.
type questingBaneHandler struct{ NopHandler }

func (questingBaneHandler) ModifyDamage(e *Engine, attacker, defender *Combatant, _ item.Weapon, damage int, _ *Context) int {
	if defender.CreatureType != "" && attacker.SlainSpecies[defender.CreatureType] {
		return damage + 1
	}
	return damage
}

func (questingBaneHandler) OnHit(e *Engine, attacker, defender *Combatant, _ item.Weapon, _ *AttackResult) {
	if defender.Dead && defender.CreatureType != "" {
		attacker.SlainSpecies[defender.CreatureType] = true
	}
}

// preciseSensesHandler negates concealment and darkness penalties.
type preciseSensesHandler struct{ NopHandler }

func (preciseSensesHandler) ModifyAttackRoll(e *Engine, _, _ *Combatant, _ item.Weapon, total int, ctx *Context) int {
	if ctx.ConcealmentPenalty < 0 {
		total -= ctx.ConcealmentPenalty
		ctx.ConcealmentPenalty = 0
	}
	return total
}

// aberrationSlayerHandler grants +1 damage against the holder's sworn
// creature type.
type aberrationSlayerHandler struct{ NopHandler }

func (aberrationSlayerHandler) ModifyDamage(e *Engine, attacker, defender *Combatant, _ item.Weapon, damage int, _ *Context) int {
	if attacker.AberrationTarget != "" && defender.CreatureType == attacker.AberrationTarget {
		return damage + 1
	}
	return damage
}

// backlineFlankerHandler grants +1 damage when striking from hiding with an
// ally adjacent to the target, and a missed strike from hiding does not give
// the holder's position away.
type backlineFlankerHandler struct{ NopHandler }

func (backlineFlankerHandler) ModifyDamage(e *Engine, attacker, defender *Combatant, _ item.Weapon, damage int, ctx *Context) int {
	if attacker.Statuses.Has(status.Hidden) && e.AllyAdjacentTo(defender, attacker) {
		ctx.FlankerBonus = true
		return damage + 1
	}
	return damage
}

func (backlineFlankerHandler) OnMiss(e *Engine, attacker, _ *Combatant, _ item.Weapon, _ *Context) {
	if attacker.Statuses.Has(status.Hidden) {
		attacker.IgnoreNextConcealPenalty = true
	}
}

// strategicArcherHandler grants +1 damage with ranged weapons fired from
// higher ground.
type strategicArcherHandler struct{ NopHandler }

func (strategicArcherHandler) ModifyDamage(e *Engine, attacker, defender *Combatant, w item.Weapon, damage int, _ *Context) int {
	if w.RangeBand != item.BandRanged || e.Grid() == nil {
		return damage
	}
	if e.HeightAt(attacker.Position) > e.HeightAt(defender.Position) {
		return damage + 1
	}
	return damage
}

// controlHandler grants +1 damage against targets the holder pinned against
// an obstacle this turn.
type controlHandler struct{ NopHandler }

func (controlHandler) ModifyDamage(e *Engine, attacker, defender *Combatant, _ item.Weapon, damage int, _ *Context) int {
	if attacker.ControlPinnedTargets[defender.ID] {
		return damage + 1
	}
	return damage
}

// rakishComboHandler primes a follow-up unarmed strike after a hit with a
// small weapon.
type rakishComboHandler struct{ NopHandler }

func (rakishComboHandler) OnHit(e *Engine, attacker, _ *Combatant, w item.Weapon, _ *AttackResult) {
	if w.SmallWeapon && w.Name != "Unarmed" {
		attacker.NextUnarmedBonus = "damage"
	}
}

// forwardChargeHandler converts a primed charge into +2 damage on the next
// melee strike.
type forwardChargeHandler struct{ NopHandler }

func (forwardChargeHandler) ModifyDamage(e *Engine, attacker, _ *Combatant, w item.Weapon, damage int, _ *Context) int {
	if attacker.ForwardChargeReady && w.RangeBand == item.BandMelee {
		attacker.ForwardChargeReady = false
		return damage + 2
	}
	return damage
}

// parryHandler deflects part of one incoming melee attack per turn and
// primes a +1 damage counter for the holder's next turn.
type parryHandler struct{ NopHandler }

func parryWeapon(c *Combatant) bool {
	return c.WeaponMain != nil && c.WeaponMain.RangeBand == item.BandMelee
}

func (parryHandler) ModifyDefenseRoll(e *Engine, defender, _ *Combatant, total int, _ *Context) int {
	if !parryWeapon(defender) || defender.Statuses.Has(status.Disarmed) {
		return total
	}
	if defender.Critical && !e.registry.allowCriticalAction(defender, "parry") {
		return total
	}
	if !defender.UseLimitedTurn(AbilityParry) {
		return total
	}
	defender.ParryBonusNextTurn = true
	return total - 2
}

// evasiveTacticsHandler lets the holder shrug off one graze per turn and
// defend normally while critical.
type evasiveTacticsHandler struct{ NopHandler }

func (evasiveTacticsHandler) OnGraze(e *Engine, _, defender *Combatant, _ item.Weapon, ctx *Context) {
	if defender.GrazeBufferUsed {
		return
	}
	defender.GrazeBufferUsed = true
	ctx.GrazeDeflected = true
}

func (evasiveTacticsHandler) AllowCriticalAction(_ *Combatant, action string) bool {
	return action == "evade" || action == "parry"
}

// quickfootedHandler grants +3 evasion in light or no armor and a free
// one-tile reposition after a successful evade.
type quickfootedHandler struct{ NopHandler }

func quickfootedApplies(c *Combatant) bool {
	return c.Armor == nil || c.Armor.Class == item.ArmorNone || c.Armor.Class == item.ArmorLight
}

func (quickfootedHandler) ModifyEvasion(e *Engine, defender *Combatant, _ item.Weapon, bonus int, ctx *Context) int {
	if ctx.IgnoreQuickfooted || !quickfootedApplies(defender) {
		return bonus
	}
	return bonus + 3
}

func (quickfootedHandler) OnEvadeSuccess(e *Engine, defender, attacker *Combatant, _ item.Weapon) {
	if quickfootedApplies(defender) {
		e.stepAway(defender, attacker.Position)
	}
}

// galestormStanceHandler banks each successful evade into attack bonus on
// the holder's next turn, capped at +2.
type galestormStanceHandler struct{ NopHandler }

func (galestormStanceHandler) OnEvadeSuccess(e *Engine, defender, _ *Combatant, _ item.Weapon) {
	defender.EvadesSinceLastTurn++
}

func (galestormStanceHandler) OnTurnStart(e *Engine, c *Combatant) {
	bonus := c.EvadesPrevTurn
	if bonus > 2 {
		bonus = 2
	}
	c.TempAttackBonus += bonus
}

// reactiveStanceHandler grants one free reactive step per turn after a
// successful evade.
type reactiveStanceHandler struct{ NopHandler }

func (reactiveStanceHandler) OnEvadeSuccess(e *Engine, defender, attacker *Combatant, _ item.Weapon) {
	if defender.ReactiveManeuverUsed {
		return
	}
	defender.ReactiveManeuverUsed = true
	e.stepAway(defender, attacker.Position)
}

// deathsDanceHandler allows one free action per scene while critical.
type deathsDanceHandler struct{ NopHandler }

func (deathsDanceHandler) AllowCriticalAction(c *Combatant, _ string) bool {
	if c.FreeCriticalActionUsed {
		return false
	}
	if !c.UseLimitedScene(AbilityDeathsDance, 1) {
		return false
	}
	c.FreeCriticalActionUsed = true
	return true
}

// shieldmasterHandler sharpens block rolls: +3 with a small shield, +1 with
// a large one.
type shieldmasterHandler struct{ NopHandler }

func (shieldmasterHandler) ModifyBlock(e *Engine, defender, _ *Combatant, bonus int, ctx *Context) int {
	if ctx.IgnoreShieldmaster || defender.Shield == nil {
		return bonus
	}
	if defender.Shield.Size == item.ShieldSmall {
		return bonus + 3
	}
	return bonus + 1
}

// shieldWallHandler grants +1 to blocks while an adjacent ally also carries
// a shield.
type shieldWallHandler struct{ NopHandler }

func (shieldWallHandler) ModifyBlock(e *Engine, defender, _ *Combatant, bonus int, _ *Context) int {
	if defender.Shield == nil {
		return bonus
	}
	for _, ally := range e.Allies(defender) {
		if ally.Shield != nil && e.Distance(defender, ally) == 1 {
			return bonus + 1
		}
	}
	return bonus
}

// firstStrikeHandler grants +5 initiative and a three-action opening turn.
type firstStrikeHandler struct{ NopHandler }

func (firstStrikeHandler) ModifyInitiative(e *Engine, _ *Combatant, bonus int) int {
	return bonus + 5
}

func (firstStrikeHandler) OnTurnStart(e *Engine, c *Combatant) {
	if c.firstTurnUsed {
		return
	}
	c.firstTurnUsed = true
	c.ActionsRemaining = c.ActionsPerTurn + 1
}

// alwaysReadyHandler grants +3 initiative, suppressed when the holder also
// has First Strike.
type alwaysReadyHandler struct{ NopHandler }

func (alwaysReadyHandler) ModifyInitiative(e *Engine, c *Combatant, bonus int) int {
	if c.HasAbility(AbilityFirstStrike) {
		return bonus
	}
	return bonus + 3
}

// skirmishingPartyHandler grants +2 initiative at skirmishing distance when
// the holder's side opened the fight, and +1 stealth always.
type skirmishingPartyHandler struct{ NopHandler }

func (skirmishingPartyHandler) ModifyInitiative(e *Engine, c *Combatant, bonus int) int {
	if !e.PartyInitiated || c.Team != e.InitiatingTeam {
		return bonus
	}
	d := e.NearestEnemyDistance(c)
	if item.BandSkirmishing.InBand(d) {
		return bonus + 2
	}
	return bonus
}

func (skirmishingPartyHandler) ModifyStealth(e *Engine, _ *Combatant, mod int) int {
	return mod + 1
}
