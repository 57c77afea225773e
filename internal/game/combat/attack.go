package combat

import (
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/game/status"
)

// AttackOptions tunes a single attack resolution. The zero value is a
// plain full-cost attack with the attacker's main weapon.
type AttackOptions struct {
	// Weapon overrides the attacker's main weapon (nil = main weapon, or
	// Unarmed when none is equipped).
	Weapon *item.Weapon

	// AccuracyModifier is a flat situational adjustment to the attack roll.
	AccuracyModifier int

	// SkipActionCost resolves the attack without spending actions; used for
	// reactions and ability-granted free strikes.
	SkipActionCost bool

	// HalfDamage halves the final damage, rounded up.
	HalfDamage bool

	// ForceNonAP strips armor piercing from the attack.
	ForceNonAP bool

	// BypassGraze keeps a grazing contest result but lands it at full
	// damage, even through medium or heavy armor.
	BypassGraze bool

	// IgnoreQuickfooted suppresses the defender's Quickfooted evasion bonus.
	IgnoreQuickfooted bool

	// IgnoreShieldmaster suppresses the defender's Shieldmaster block bonus.
	IgnoreShieldmaster bool

	// SuppressReactions disables defender reactions (riposte, sentinel,
	// redirect). Set for retaliation strikes to stop reaction loops.
	SuppressReactions bool

	// DenyDeathSave stops the hit from forcing a death save on a critical
	// defender.
	DenyDeathSave bool
}

// AttackResult reports how one attack resolved.
type AttackResult struct {
	Hit     bool
	Crit    bool
	Graze   bool
	Evaded  bool
	Blocked bool

	// Damage is the post-soak damage dealt to the defender.
	Damage int

	AttackTotal  int
	DefenseTotal int
	Element      string
}

// PerformAttack resolves one attack from attacker against defender.
//
// Pipeline: action cost, range and visibility gates, 2d10 attack roll with
// ability and cover modifiers, double-10 critical, then the defender's
// evasion or block if a matching stance is up, then damage with soak.
// A zero-value result means the attack never got off the ground.
func (e *Engine) PerformAttack(attacker, defender *Combatant, opts AttackOptions) AttackResult {
	var res AttackResult
	if attacker.Dead || defender.Dead {
		return res
	}
	w := e.attackWeapon(attacker, opts.Weapon)

	if attacker.Critical {
		if !e.registry.allowCriticalAction(attacker, "attack") {
			e.strainWhileCritical(attacker)
			return res
		}
	} else if !opts.SkipActionCost {
		if !attacker.SpendActions(w.ActionsRequired) {
			e.Logf("%s lacks the actions to attack with %s", attacker.Name(), w.Name)
			return res
		}
	}

	if e.underwater && !w.UsableUnderwater {
		e.Logf("%s cannot be used underwater", w.Name)
		return res
	}
	if w.LoadTime > 0 && attacker.LoadedWeapon != w.Name {
		e.Logf("%s must load the %s first", attacker.Name(), w.Name)
		return res
	}
	if w.DrawTime > 0 && attacker.DrawnWeapon != w.Name {
		e.Logf("%s must draw the %s first", attacker.Name(), w.Name)
		return res
	}
	if !e.InRange(attacker, defender, w) {
		e.Logf("%s is out of range for %s's %s", defender.Name(), attacker.Name(), w.Name)
		return res
	}

	// Patient Flow: a flowing defender redirects one incoming melee strike
	// per turn into an adjacent combatant of the defender's choosing.
	if !opts.SuppressReactions && defender.FlowingStance &&
		defender.HasAbility(AbilityPatientFlow) && w.RangeBand == item.BandMelee {
		if redirect := e.redirectTarget(defender, attacker); redirect != nil && defender.UseLimitedTurn(AbilityPatientFlow) {
			e.Logf("%s flows aside, redirecting %s's strike into %s",
				defender.Name(), attacker.Name(), redirect.Name())
			defender = redirect
		}
	}

	ctx := &Context{
		ArmorPiercing:      w.IsPiercing() && !opts.ForceNonAP,
		BypassGraze:        opts.BypassGraze,
		IgnoreQuickfooted:  opts.IgnoreQuickfooted,
		IgnoreShieldmaster: opts.IgnoreShieldmaster,
	}
	if e.grid != nil {
		ctx.Cover = e.grid.CoverBetween(attacker.Position, defender.Position)
		if ctx.Cover == grid.CoverFull {
			e.Logf("%s has no line on %s", attacker.Name(), defender.Name())
			return res
		}
	}
	ctx.ConcealmentPenalty = e.concealmentPenalty(attacker, defender)

	// Ranged shots into an adjacent melee are harder.
	if w.RangeBand == item.BandRanged && e.Distance(attacker, defender) <= 1 {
		ctx.ConcealmentPenalty -= 2
	}

	roll, pair := e.roller.Check()
	total := roll + e.attackModifier(attacker, w) + w.AccuracyBonus + opts.AccuracyModifier +
		attacker.TempAttackBonus - attacker.MockeryPenalty
	if w.Name == "Unarmed" && attacker.NextUnarmedBonus == "aim" {
		total++
		attacker.NextUnarmedBonus = ""
	}
	total += ctx.ConcealmentPenalty
	if ctx.Cover == grid.CoverHalf {
		total -= 2
	}
	total = e.registry.modifyAttackRoll(e, attacker, defender, w, total, ctx)
	total = e.registry.modifyDefenseRoll(e, defender, attacker, total, ctx)
	res.AttackTotal = total
	res.Element = ctx.AttackElement

	// Attacking breaks hiding whatever the outcome, unless an ability or a
	// throwing weapon kept the attacker unseen on a miss.
	defer e.revealAfterAttack(attacker, w, &res)

	if pair.IsDoubleMax(10) {
		return e.resolveCritical(attacker, defender, w, ctx, opts, res)
	}

	// An evading defender contests the swing before the DC matters; a failed
	// contest falls through to the ordinary hit or miss resolution.
	if defender.Evading {
		out, resolved := e.resolveEvasion(attacker, defender, w, ctx, opts, res)
		if resolved {
			return out
		}
		res = out
	}

	if total < AttackDC {
		e.Logf("%s misses %s (%d vs DC %d)", attacker.Name(), defender.Name(), total, AttackDC)
		e.registry.onMiss(e, attacker, defender, w, ctx)
		return res
	}

	if defender.Blocking && defender.Shield != nil {
		return e.resolveBlock(attacker, defender, w, ctx, opts, res)
	}
	return e.applyHit(attacker, defender, w, ctx, opts, res, false)
}

// attackWeapon picks the weapon for an attack: explicit override, the main
// weapon, or bare fists.
func (e *Engine) attackWeapon(attacker *Combatant, override *item.Weapon) item.Weapon {
	if override != nil {
		return *override
	}
	if attacker.WeaponMain != nil {
		return *attacker.WeaponMain
	}
	return e.catalog.MustWeapon("Unarmed")
}

// attackModifier is Strength:Athletics for melee weapons and
// Dexterity:Acrobatics otherwise.
func (e *Engine) attackModifier(attacker *Combatant, w item.Weapon) int {
	if w.RangeBand == item.BandMelee {
		return attacker.Sheet.Modifier("Strength", "Athletics")
	}
	return attacker.Sheet.Modifier("Dexterity", "Acrobatics")
}

// resolveCritical applies a double-10: +2 damage, armor piercing, and no
// defense allowed.
func (e *Engine) resolveCritical(attacker, defender *Combatant, w item.Weapon, ctx *Context, opts AttackOptions, res AttackResult) AttackResult {
	res.Hit = true
	res.Crit = true
	ctx.ArmorPiercing = true
	damage := w.Damage + 2
	damage = e.critAndHitBonuses(attacker, w, damage)
	damage = weaponVsArmorRiders(w, defender, damage)
	damage = e.registry.modifyDamage(e, attacker, defender, w, damage, ctx)
	if opts.HalfDamage {
		damage = (damage + 1) / 2
	}
	res.Damage = defender.TakeDamage(e.src, damage, true, !opts.DenyDeathSave)
	attacker.LastHitSuccess = true
	e.Logf("%s critically strikes %s for %d", attacker.Name(), defender.Name(), res.Damage)
	e.registry.onHit(e, attacker, defender, w, &res)
	e.afterDamage(attacker, defender)
	return res
}

// resolveEvasion runs the contested defense of an evading target. The second
// return is false when the contest settled nothing and the attack proceeds to
// the normal hit or miss resolution.
func (e *Engine) resolveEvasion(attacker, defender *Combatant, w item.Weapon, ctx *Context, opts AttackOptions, res AttackResult) (AttackResult, bool) {
	defRoll, _ := e.roller.Check()
	bonus := defender.EvasionModifier()
	bonus = e.registry.modifyEvasion(e, defender, w, bonus, ctx)
	defTotal := defRoll + bonus
	res.DefenseTotal = defTotal

	if defTotal >= res.AttackTotal {
		res.Evaded = true
		e.Logf("%s evades %s's attack (%d vs %d)", defender.Name(), attacker.Name(), defTotal, res.AttackTotal)
		e.registry.onEvadeSuccess(e, defender, attacker, w)
		if !opts.SuppressReactions {
			e.maybeRiposte(defender, attacker)
		}
		return res, true
	}
	if defTotal >= AttackDC && res.AttackTotal >= AttackDC {
		return e.applyHit(attacker, defender, w, ctx, opts, res, true), true
	}
	return res, false
}

// resolveBlock runs the shield defense of a blocking target.
func (e *Engine) resolveBlock(attacker, defender *Combatant, w item.Weapon, ctx *Context, opts AttackOptions, res AttackResult) AttackResult {
	sh := defender.Shield
	extra := -defender.MockeryPenalty
	extra = e.registry.modifyBlock(e, defender, attacker, extra, ctx)
	ranged := w.RangeBand == item.BandRanged
	blockTotal, blocked := sh.RollBlock(e.src, ranged, extra)
	res.DefenseTotal = blockTotal
	if blocked {
		res.Blocked = true
		e.Logf("%s blocks %s's attack (%d vs DC %d)", defender.Name(), attacker.Name(), blockTotal, item.BlockDC)
		e.registry.onBlockSuccess(e, defender, attacker)
		if !opts.SuppressReactions {
			e.maybeSentinel(defender, attacker)
		}
		return res
	}
	// A raised large shield turns aside armor-piercing attacks even when
	// the block roll fails.
	if sh.APImmunity {
		ctx.ArmorPiercing = false
	}
	return e.applyHit(attacker, defender, w, ctx, opts, res, false)
}

// applyHit lands the attack: graze halving, damage hooks, soak, and death
// handling.
func (e *Engine) applyHit(attacker, defender *Combatant, w item.Weapon, ctx *Context, opts AttackOptions, res AttackResult, graze bool) AttackResult {
	res.Hit = true
	damage := w.Damage
	damage = e.critAndHitBonuses(attacker, w, damage)
	damage = weaponVsArmorRiders(w, defender, damage)
	damage = e.registry.modifyDamage(e, attacker, defender, w, damage, ctx)

	if graze {
		res.Graze = true
		e.registry.onGraze(e, attacker, defender, w, ctx)
		switch {
		case ctx.GrazeDeflected:
			damage = 0
		case ctx.BypassGraze, w.HasTrait(item.TraitGrazing):
			// Trick shots and grazing weapons bite on a glancing blow.
		case defender.Armor != nil && (defender.Armor.Class == item.ArmorMedium || defender.Armor.Class == item.ArmorHeavy):
			damage = 0
		default:
			damage = (damage + 1) / 2
		}
	}
	if opts.HalfDamage {
		damage = (damage + 1) / 2
	}
	res.Damage = defender.TakeDamage(e.src, damage, ctx.ArmorPiercing, !opts.DenyDeathSave)
	attacker.LastHitSuccess = true
	if res.Graze {
		e.Logf("%s grazes %s for %d", attacker.Name(), defender.Name(), res.Damage)
	} else {
		e.Logf("%s hits %s for %d", attacker.Name(), defender.Name(), res.Damage)
	}
	e.registry.onHit(e, attacker, defender, w, &res)
	e.afterDamage(attacker, defender)
	return res
}

// critAndHitBonuses applies attacker-side flat damage riders: trained unarmed
// striking, the primed unarmed follow-up, and the parry counter bonus.
func (e *Engine) critAndHitBonuses(attacker *Combatant, w item.Weapon, damage int) int {
	if w.Name == "Unarmed" {
		damage += unarmedTraining(attacker.Sheet.Modifier("Strength", "Athletics"))
	}
	if w.Name == "Unarmed" && attacker.NextUnarmedBonus == "damage" {
		damage += 2
		attacker.NextUnarmedBonus = ""
	}
	if attacker.ParryDamageBonusActive {
		damage++
		attacker.ParryDamageBonusActive = false
	}
	return damage
}

// unarmedTraining converts Strength:Athletics into bonus unarmed damage:
// +1 at modifier 1, +2 at 3, +3 at 5.
func unarmedTraining(mod int) int {
	switch {
	case mod >= 5:
		return 3
	case mod >= 3:
		return 2
	case mod >= 1:
		return 1
	}
	return 0
}

// weaponVsArmorRiders applies the weapon traits keyed to the defender's
// armor class.
func weaponVsArmorRiders(w item.Weapon, defender *Combatant, damage int) int {
	class := item.ArmorNone
	if defender.Armor != nil {
		class = defender.Armor.Class
	}
	if w.HasTrait(item.TraitVsUnarmoredBonus) && class == item.ArmorNone {
		damage++
	}
	if w.HasTrait(item.TraitVsMediumHeavyBonus) && (class == item.ArmorMedium || class == item.ArmorHeavy) {
		damage += 2
	}
	if w.HasTrait(item.TraitNoHeavyArmorDamage) && class == item.ArmorHeavy {
		damage = 0
	}
	return damage
}

// afterDamage logs state transitions caused by the hit.
func (e *Engine) afterDamage(attacker, defender *Combatant) {
	switch {
	case defender.Dead:
		e.Logf("%s falls", defender.Name())
		if e.grid != nil {
			e.grid.RemoveOccupant(defender.Position)
		}
	case defender.Critical:
		e.Logf("%s is critical", defender.Name())
	}
}

// revealAfterAttack drops hiding after an attack, unless a handler preserved
// it on a miss.
func (e *Engine) revealAfterAttack(attacker *Combatant, w item.Weapon, res *AttackResult) {
	if !attacker.Statuses.Has(status.Hidden) {
		return
	}
	if !res.Hit && (attacker.IgnoreNextConcealPenalty || w.HasTrait(item.TraitHiddenOnMiss)) {
		return
	}
	attacker.Statuses.Remove(status.Hidden)
}

// redirectTarget picks a combatant adjacent to the flowing defender, other
// than the attacker, preferring enemies of the defender.
func (e *Engine) redirectTarget(defender, attacker *Combatant) *Combatant {
	var fallback *Combatant
	for _, p := range e.participants {
		if p == defender || p == attacker || p.Dead {
			continue
		}
		if e.Distance(defender, p) > 1 {
			continue
		}
		if p.Team != defender.Team {
			return p
		}
		if fallback == nil {
			fallback = p
		}
	}
	return fallback
}
