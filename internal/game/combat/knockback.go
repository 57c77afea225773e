package combat

import "github.com/avalore/avasim/internal/game/grid"

// ApplyKnockback slides target up to blocks tiles directly away from source,
// stopping at the first impassable tile. Bastion stance and Steadfast make a
// combatant immovable. Returns the number of tiles actually moved.
func (e *Engine) ApplyKnockback(target *Combatant, blocks int, source grid.Point, sourceName string) int {
	if target.BastionActive || target.SteadfastActive || target.HasAbility(AbilitySteadfast) {
		e.Logf("%s holds ground against %s's push", target.Name(), sourceName)
		return 0
	}
	return e.ForceKnockback(target, blocks, source, sourceName)
}

// ForceKnockback is ApplyKnockback without the immovability check, for
// effects that overpower stances.
func (e *Engine) ForceKnockback(target *Combatant, blocks int, source grid.Point, sourceName string) int {
	if e.grid == nil || blocks <= 0 || target.Dead {
		return 0
	}
	dir := grid.AwayFrom(source, target.Position)
	final, blocked := e.grid.Slide(target.Position, dir, blocks)
	moved := grid.Manhattan(target.Position, final)
	if moved > 0 {
		e.grid.MoveOccupant(target.Position, final)
		target.Position = final
	}
	if blocked && moved < blocks {
		e.Logf("%s is knocked back %d and slams into an obstacle", target.Name(), moved)
	} else if moved > 0 {
		e.Logf("%s is knocked back %d by %s", target.Name(), moved, sourceName)
	}
	return moved
}

// ControlPush shoves a defender one tile away from the attacker; the
// attacker steps into the vacated tile. A defender stopped by an obstacle or
// rough ground is pinned, feeding the Control damage bonus. Costs one
// action. Returns true when the push was attempted.
func (e *Engine) ControlPush(attacker, defender *Combatant) bool {
	if e.grid == nil || !attacker.HasAbility(AbilityControl) {
		return false
	}
	if e.Distance(attacker, defender) > 1 {
		return false
	}
	if !attacker.SpendActions(1) {
		return false
	}
	dir := grid.AwayFrom(attacker.Position, defender.Position)
	dest := defender.Position.Add(dir)
	destTile := e.grid.Tile(dest)
	// Heavy terrain stops the shove and pins the defender in place.
	if destTile == nil || !destTile.CanEnter() || destTile.MoveCost > 1 {
		attacker.ControlPinnedTargets[defender.ID] = true
		e.Logf("%s pins %s against the terrain", attacker.Name(), defender.Name())
		return true
	}
	if defender.BastionActive || defender.SteadfastActive || defender.HasAbility(AbilitySteadfast) {
		e.Logf("%s cannot shift %s", attacker.Name(), defender.Name())
		return true
	}
	vacated := defender.Position
	e.grid.MoveOccupant(defender.Position, dest)
	defender.Position = dest
	e.grid.MoveOccupant(attacker.Position, vacated)
	attacker.Position = vacated
	e.Logf("%s drives %s back and presses forward", attacker.Name(), defender.Name())
	return true
}
