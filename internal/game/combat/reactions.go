package combat

import "github.com/avalore/avasim/internal/game/item"

// maybeRiposte lets a defender with Riposte counterattack once per turn
// after fully evading a melee attack in reach.
func (e *Engine) maybeRiposte(defender, attacker *Combatant) {
	if !defender.HasAbility(AbilityRiposte) || defender.Dead {
		return
	}
	w := e.attackWeapon(defender, nil)
	if w.RangeBand != item.BandMelee || !e.InRange(defender, attacker, w) {
		return
	}
	if defender.Critical && !e.registry.allowCriticalAction(defender, "riposte") {
		return
	}
	if !defender.UseLimitedTurn(AbilityRiposte) {
		return
	}
	e.Logf("%s ripostes against %s", defender.Name(), attacker.Name())
	e.PerformAttack(defender, attacker, AttackOptions{
		SkipActionCost:    true,
		SuppressReactions: true,
	})
}

// maybeSentinel lets a shield-bearing defender with Sentinel retaliate once
// per scene after a successful block: a shield bash for half damage that
// staggers the attacker back one tile.
func (e *Engine) maybeSentinel(defender, attacker *Combatant) {
	if !defender.HasAbility(AbilitySentinel) || defender.Shield == nil || defender.Dead {
		return
	}
	if e.Distance(defender, attacker) > 1 {
		return
	}
	if defender.SentinelRetaliationUsed || !defender.UseLimitedScene(AbilitySentinel, 1) {
		return
	}
	defender.SentinelRetaliationUsed = true
	e.Logf("%s retaliates with a shield bash against %s", defender.Name(), attacker.Name())
	unarmed := e.catalog.MustWeapon("Unarmed")
	res := e.PerformAttack(defender, attacker, AttackOptions{
		Weapon:            &unarmed,
		SkipActionCost:    true,
		HalfDamage:        true,
		SuppressReactions: true,
	})
	if res.Hit && !attacker.Dead {
		e.ApplyKnockback(attacker, 1, defender.Position, defender.Name())
	}
}
