package combat

import (
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/game/status"
)

// StealthDC is the check a combatant must beat to slip from sight.
const StealthDC = 12

// trickShotSceneLimit caps Trick Shot uses per scene.
const trickShotSceneLimit = 3

// spendForAction handles the shared gate of every named action: critical
// combatants act only through an ability allowance, everyone else pays
// actions.
func (e *Engine) spendForAction(c *Combatant, name string, cost int) bool {
	if c.Dead {
		return false
	}
	if c.Critical {
		if e.registry.allowCriticalAction(c, name) {
			return true
		}
		e.strainWhileCritical(c)
		return false
	}
	return c.SpendActions(cost)
}

// strainWhileCritical resolves the death save a critical combatant forces by
// trying to act without an ability allowance. The action fails either way.
func (e *Engine) strainWhileCritical(c *Combatant) {
	e.Logf("%s strains to act while critical", c.Name())
	c.ResolveDeathSave(e.src)
	if c.Dead {
		e.Logf("%s succumbs", c.Name())
		if e.grid != nil {
			e.grid.RemoveOccupant(c.Position)
		}
	}
}

// Evade raises the evasive stance for the rest of the round: incoming
// attacks become contested rolls.
func (e *Engine) Evade(c *Combatant) bool {
	if !e.spendForAction(c, "evade", 1) {
		return false
	}
	c.Evading = true
	e.Logf("%s takes an evasive stance", c.Name())
	return true
}

// Block raises the shield for the rest of the round. Requires a shield.
func (e *Engine) Block(c *Combatant) bool {
	if c.Shield == nil {
		return false
	}
	if !e.spendForAction(c, "block", 1) {
		return false
	}
	c.Blocking = true
	e.Logf("%s raises their shield", c.Name())
	return true
}

// Hide attempts a stealth check; success applies Hidden until broken.
func (e *Engine) Hide(c *Combatant) bool {
	if !e.spendForAction(c, "hide", 1) {
		return false
	}
	roll, _ := e.roller.Check()
	total := roll + e.StealthModifier(c)
	if total < StealthDC {
		e.Logf("%s fails to slip from sight (%d vs DC %d)", c.Name(), total, StealthDC)
		return false
	}
	c.Statuses.Apply(status.Hidden, status.Indefinite)
	e.Logf("%s vanishes from sight", c.Name())
	return true
}

// SecondWind heals 1d6 once per fight.
func (e *Engine) SecondWind(c *Combatant) bool {
	if !c.HasAbility(AbilitySecondWind) {
		return false
	}
	if !c.UseOncePerFight(AbilitySecondWind) {
		return false
	}
	if !e.spendForAction(c, "second wind", 1) {
		return false
	}
	healed := e.roller.Die(6)
	c.Heal(healed)
	e.Logf("%s catches a second wind, recovering %d", c.Name(), healed)
	return true
}

// MightyStrike swings a two-handed melee weapon with enough force to hurl
// the target back three tiles on a hit. Once per turn.
func (e *Engine) MightyStrike(attacker, defender *Combatant) AttackResult {
	w := e.attackWeapon(attacker, nil)
	if !attacker.HasAbility(AbilityMightyStrike) || !w.TwoHanded || w.RangeBand != item.BandMelee {
		return AttackResult{}
	}
	if !attacker.UseLimitedTurn(AbilityMightyStrike) {
		return AttackResult{}
	}
	res := e.PerformAttack(attacker, defender, AttackOptions{})
	if res.Hit && !defender.Dead {
		e.ApplyKnockback(defender, 3, attacker.Position, attacker.Name())
	}
	return res
}

// TrickShot threads a ranged shot past cover and fancy footwork: the
// defender's cover and Quickfooted bonus are ignored and a graze lands as a
// full hit. Three uses per scene.
func (e *Engine) TrickShot(attacker, defender *Combatant) AttackResult {
	w := e.attackWeapon(attacker, nil)
	if !attacker.HasAbility(AbilityTrickShot) || w.RangeBand == item.BandMelee {
		return AttackResult{}
	}
	if !attacker.UseLimitedScene(AbilityTrickShot, trickShotSceneLimit) {
		return AttackResult{}
	}
	return e.PerformAttack(attacker, defender, AttackOptions{
		BypassGraze:       true,
		IgnoreQuickfooted: true,
	})
}

// DualStrike attacks with main and offhand weapons in one motion for two
// actions; the offhand swing takes -2. However hard the pair lands, the
// target makes at most one death save for the exchange.
func (e *Engine) DualStrike(attacker, defender *Combatant) (first, second AttackResult) {
	if !attacker.HasAbility(AbilityDualStrike) || attacker.WeaponMain == nil || attacker.WeaponOffhand == nil {
		return
	}
	if !e.spendForAction(attacker, "dual strike", 2) {
		return
	}
	first = e.PerformAttack(attacker, defender, AttackOptions{
		Weapon:         attacker.WeaponMain,
		SkipActionCost: true,
	})
	if defender.Dead {
		return
	}
	second = e.PerformAttack(attacker, defender, AttackOptions{
		Weapon:           attacker.WeaponOffhand,
		AccuracyModifier: -2,
		SkipActionCost:   true,
		DenyDeathSave:    defender.LastDeathSaveTriggered,
	})
	return
}

// Cleave follows a greataxe hit with a half-damage sweep into a second
// adjacent enemy.
func (e *Engine) Cleave(attacker, primary, secondary *Combatant) AttackResult {
	w := e.attackWeapon(attacker, nil)
	if !w.HasTrait(item.TraitCleave) {
		return AttackResult{}
	}
	res := e.PerformAttack(attacker, primary, AttackOptions{})
	if !res.Hit || secondary == nil || secondary.Dead {
		return res
	}
	if e.Distance(attacker, secondary) > w.EffectiveReach() {
		return res
	}
	e.Logf("%s's blade carries through into %s", attacker.Name(), secondary.Name())
	e.PerformAttack(attacker, secondary, AttackOptions{
		SkipActionCost: true,
		HalfDamage:     true,
	})
	return res
}

// WhirlingDevilStance spends one action to spin into every enemy passed
// while moving this turn.
func (e *Engine) WhirlingDevilStance(c *Combatant) bool {
	if !c.HasAbility(AbilityWhirlingDevil) {
		return false
	}
	if !e.spendForAction(c, "whirling devil", 1) {
		return false
	}
	c.WhirlingDevilActive = true
	e.Logf("%s begins to whirl", c.Name())
	return true
}

// PatientFlowStance readies the redirecting flow for the round.
func (e *Engine) PatientFlowStance(c *Combatant) bool {
	if !c.HasAbility(AbilityPatientFlow) {
		return false
	}
	if !e.spendForAction(c, "patient flow", 1) {
		return false
	}
	c.FlowingStance = true
	e.Logf("%s settles into a patient flow", c.Name())
	return true
}

// BastionStance plants the combatant: immovable until their next turn.
func (e *Engine) BastionStance(c *Combatant) bool {
	if !c.HasAbility(AbilityBastion) {
		return false
	}
	if !e.spendForAction(c, "bastion", 1) {
		return false
	}
	c.BastionActive = true
	e.Logf("%s plants like a bastion", c.Name())
	return true
}

// Mockery jeers at a shielded or dodging enemy, saddling their defenses
// with a -2 for two rounds.
func (e *Engine) Mockery(c, target *Combatant) bool {
	if !c.HasAbility(AbilityShieldMockery) {
		return false
	}
	if !e.spendForAction(c, "mockery", 1) {
		return false
	}
	target.MockeryPenalty = 2
	target.MockeryRounds = 2
	e.Logf("%s mocks %s mercilessly", c.Name(), target.Name())
	return true
}

// Disarm contests Strength:Athletics; winning knocks the target's grip loose
// for a round.
func (e *Engine) Disarm(c, target *Combatant) bool {
	if e.Distance(c, target) > 1 {
		return false
	}
	if !e.spendForAction(c, "disarm", 1) {
		return false
	}
	if !e.contest(c, target, "Strength", "Athletics") {
		e.Logf("%s fails to disarm %s", c.Name(), target.Name())
		return false
	}
	target.Statuses.Apply(status.Disarmed, 1)
	e.Logf("%s disarms %s", c.Name(), target.Name())
	return true
}

// Shove contests Strength:Athletics; winning drives the target back a tile.
func (e *Engine) Shove(c, target *Combatant) bool {
	if e.Distance(c, target) > 1 {
		return false
	}
	if !e.spendForAction(c, "shove", 1) {
		return false
	}
	if !e.contest(c, target, "Strength", "Athletics") {
		e.Logf("%s fails to shove %s", c.Name(), target.Name())
		return false
	}
	e.ApplyKnockback(target, 1, c.Position, c.Name())
	return true
}

// Grapple contests Strength:Athletics; winning slows the target for a round.
func (e *Engine) Grapple(c, target *Combatant) bool {
	if e.Distance(c, target) > 1 {
		return false
	}
	if !e.spendForAction(c, "grapple", 1) {
		return false
	}
	if !e.contest(c, target, "Strength", "Athletics") {
		e.Logf("%s cannot get a grip on %s", c.Name(), target.Name())
		return false
	}
	target.Statuses.Apply(status.Slowed, 1)
	e.Logf("%s grapples %s", c.Name(), target.Name())
	return true
}

// contest rolls attacker vs defender on the same stat and skill; ties go to
// the defender.
func (e *Engine) contest(a, b *Combatant, stat, skill string) bool {
	ra, _ := e.roller.Check()
	rb, _ := e.roller.Check()
	return ra+a.Sheet.Modifier(stat, skill) > rb+b.Sheet.Modifier(stat, skill)
}

// LoadWeapon readies a load-time weapon (sling, crossbow).
func (e *Engine) LoadWeapon(c *Combatant, name string) bool {
	w, ok := e.catalog.Weapon(name)
	if !ok || w.LoadTime <= 0 {
		return false
	}
	if !e.spendForAction(c, "load", w.LoadTime) {
		return false
	}
	c.LoadedWeapon = name
	e.Logf("%s loads the %s", c.Name(), name)
	return true
}

// DrawWeapon readies a draw-time weapon (longbow).
func (e *Engine) DrawWeapon(c *Combatant, name string) bool {
	w, ok := e.catalog.Weapon(name)
	if !ok || w.DrawTime <= 0 {
		return false
	}
	if !e.spendForAction(c, "draw", w.DrawTime) {
		return false
	}
	c.DrawnWeapon = name
	e.Logf("%s draws the %s", c.Name(), name)
	return true
}

// SwapWeapon brings another equipped weapon to hand. The first swap of a
// turn is free; later swaps cost an action.
func (e *Engine) SwapWeapon(c *Combatant, name string, offhand bool) bool {
	held := false
	for _, n := range c.WeaponsEquipped {
		if n == name {
			held = true
			break
		}
	}
	if !held {
		return false
	}
	if c.SwapUsedTurn {
		if !e.spendForAction(c, "swap", 1) {
			return false
		}
	} else {
		c.SwapUsedTurn = true
	}
	w := e.catalog.MustWeapon(name)
	if offhand {
		c.WeaponOffhand = &w
	} else {
		c.WeaponMain = &w
	}
	e.Logf("%s brings the %s to hand", c.Name(), name)
	return true
}

// AwakenLineageElement calls the bonded weapon's element forth, once per
// scene.
func (e *Engine) AwakenLineageElement(c *Combatant, element string) bool {
	if !c.HasAbility(AbilityLineageWeapon) || c.LacunaUsedScene {
		return false
	}
	c.LacunaUsedScene = true
	c.ActiveLineageElement = element
	e.Logf("%s's weapon awakens with %s", c.Name(), element)
	return true
}

// AimedShot steadies a ranged attack for two actions at +2 accuracy.
func (e *Engine) AimedShot(attacker, defender *Combatant) AttackResult {
	w := e.attackWeapon(attacker, nil)
	if w.RangeBand == item.BandMelee {
		return AttackResult{}
	}
	if !e.spendForAction(attacker, "aimed shot", w.ActionsRequired+1) {
		return AttackResult{}
	}
	return e.PerformAttack(attacker, defender, AttackOptions{
		AccuracyModifier: 2,
		SkipActionCost:   true,
	})
}

// CalledShot trades -2 accuracy for +2 damage via a vulnerable opening; the
// bonus rides through ModifyDamage as a Marked status on a hit.
func (e *Engine) CalledShot(attacker, defender *Combatant) AttackResult {
	w := e.attackWeapon(attacker, nil)
	if !e.spendForAction(attacker, "called shot", w.ActionsRequired) {
		return AttackResult{}
	}
	res := e.PerformAttack(attacker, defender, AttackOptions{
		AccuracyModifier: -2,
		SkipActionCost:   true,
	})
	if res.Hit && !defender.Dead {
		defender.TakeDamage(e.src, 2, true, true)
		res.Damage += 2
		defender.Statuses.Apply(status.Vulnerable, 1)
	}
	return res
}

// MarkTarget fixes attention on an enemy for two rounds.
func (e *Engine) MarkTarget(c, target *Combatant) bool {
	if !e.spendForAction(c, "mark", 1) {
		return false
	}
	target.Statuses.Apply(status.Marked, 2)
	e.Logf("%s marks %s", c.Name(), target.Name())
	return true
}

// Inspire grants an ally +1 on attacks this round, once per scene.
func (e *Engine) Inspire(c, ally *Combatant) bool {
	if ally.Team != c.Team || ally == c {
		return false
	}
	if !c.UseLimitedScene("Inspire", 1) {
		return false
	}
	if !e.spendForAction(c, "inspire", 1) {
		return false
	}
	ally.TempAttackBonus++
	ally.InspiredScene = true
	e.Logf("%s inspires %s", c.Name(), ally.Name())
	return true
}
