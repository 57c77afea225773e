package combat

import (
	"github.com/avalore/avasim/internal/game/item"
)

// SpellResult reports how one casting resolved.
type SpellResult struct {
	Success  bool
	Miscast  bool
	Overcast bool
	Saved    bool

	CastTotal   int
	Damage      int
	Healing     int
	Consequence int
}

// CastSpell resolves sp from caster on target. The casting check is 2d10 +
// Harmony:Arcana against the spell's DC; a plain failure fizzles and returns
// half the anima spent.
//
// Overcasting pushes a spell through without the anima to pay for it, as long
// as the cost fits within the caster's maximum. It is allowed once per day: a
// failed overcast is a miscast that drops the caster to zero hit points,
// critical, with anima burned to nothing; a successful one rolls a d6 for the
// severity of the arcane consequence.
func (e *Engine) CastSpell(caster *Combatant, sp item.Spell, target *Combatant, overcast bool) SpellResult {
	var res SpellResult
	if caster.Dead || target == nil || target.Dead {
		return res
	}
	if caster.Critical && !e.registry.allowCriticalAction(caster, "cast") {
		e.strainWhileCritical(caster)
		return res
	}
	if overcast {
		if caster.HasOvercastToday {
			e.Logf("%s has already overcast today", caster.Name())
			return res
		}
		if sp.AnimaCost > caster.MaxAnima {
			e.Logf("%s cannot channel %s even recklessly", caster.Name(), sp.Name)
			return res
		}
	} else if !sp.CanAfford(caster.Anima) {
		e.Logf("%s lacks the anima for %s", caster.Name(), sp.Name)
		return res
	}
	if !caster.SpendActions(sp.ActionsRequired) {
		e.Logf("%s lacks the actions for %s", caster.Name(), sp.Name)
		return res
	}
	if d := e.Distance(caster, target); caster != target && !sp.RangeBand.InBand(d) && d > 1 {
		e.Logf("%s is out of range for %s", target.Name(), sp.Name)
		return res
	}

	if overcast {
		caster.HasOvercastToday = true
		res.Overcast = true
	} else {
		caster.Anima -= sp.AnimaCost
	}

	roll, _ := e.roller.Check()
	res.CastTotal = roll + caster.Sheet.Modifier("Harmony", "Arcana") -
		caster.SpellPenalty - caster.MockeryPenalty
	// Casting at a target the caster cannot see clearly suffers the same
	// penalties as attacking one.
	if target != caster {
		res.CastTotal += e.concealmentPenalty(caster, target)
	}
	if res.CastTotal < sp.CastingDC {
		if overcast {
			res.Miscast = true
			caster.HP = 0
			caster.Critical = true
			caster.Anima = 0
			e.Logf("%s miscasts %s and collapses, anima spent", caster.Name(), sp.Name)
			return res
		}
		// A fizzle wastes only half the anima.
		caster.Anima += sp.AnimaCost / 2
		e.Logf("%s fails to cast %s (%d vs DC %d)", caster.Name(), sp.Name, res.CastTotal, sp.CastingDC)
		return res
	}
	res.Success = true

	if overcast {
		res.Consequence = e.roller.Die(6)
		e.Logf("%s overcasts %s; the consequence carries severity %d", caster.Name(), sp.Name, res.Consequence)
	}

	if sp.Damage > 0 {
		damage := sp.Damage
		if e.resistSpell(target, sp) {
			res.Saved = true
			damage /= 2
		}
		// Spell damage strikes past worn armor.
		res.Damage = target.TakeDamage(e.src, damage, true, true)
		e.Logf("%s sears %s with %s for %d", caster.Name(), target.Name(), sp.Name, res.Damage)
		e.afterDamage(caster, target)
	}
	if sp.Healing > 0 {
		before := target.HP
		target.Heal(sp.Healing)
		res.Healing = target.HP - before
		e.Logf("%s mends %s for %d", caster.Name(), target.Name(), res.Healing)
	}
	return res
}

// resistSpell rolls the target's Harmony:Resolve save against the caster's
// spell. A successful save halves the damage.
func (e *Engine) resistSpell(target *Combatant, sp item.Spell) bool {
	roll, _ := e.roller.Check()
	return roll+target.Sheet.Modifier("Harmony", "Resolve") >= sp.CastingDC+2
}
