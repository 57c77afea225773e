package combat

import (
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
)

// BaseMovement is the tile allowance of an unencumbered combatant.
const BaseMovement = 5

// DashBonus is the extra allowance a dash grants.
const DashBonus = 4

// MovementAllowance returns the tiles c may cross this move: the base
// allowance adjusted by armor and statuses, plus the dash bonus when
// dashing.
func (e *Engine) MovementAllowance(c *Combatant, dash bool) int {
	allowance := BaseMovement
	if c.Armor != nil {
		allowance += c.Armor.MovementPenaltyFor(c.Sheet)
	}
	allowance += c.Statuses.MovementModifier()
	if dash {
		allowance += DashBonus
	}
	if allowance < 1 {
		allowance = 1
	}
	return allowance
}

// Move walks c along the cheapest path to dest. The first move of a turn is
// free; any further move costs one action. Leaving an enemy's melee reach
// provokes an opportunity attack, and a Whirling Devil carves into every
// enemy passed.
//
// Postcondition: on success c occupies dest and the grid agrees.
func (e *Engine) Move(c *Combatant, dest grid.Point) bool {
	return e.move(c, dest, e.MovementAllowance(c, false), false)
}

// Dash moves with the dash allowance for one action. A combatant dashes at
// most once per turn.
func (e *Engine) Dash(c *Combatant, dest grid.Point) bool {
	if c.DashedThisTurn {
		return false
	}
	if !c.SpendActions(1) {
		return false
	}
	if !e.move(c, dest, e.MovementAllowance(c, true), true) {
		c.ActionsRemaining++
		return false
	}
	c.DashedThisTurn = true
	return true
}

// Vault doubles the allowance for one action and leaves the vaulter in an
// evasive posture until their next turn. Requires the Vault ability.
func (e *Engine) Vault(c *Combatant, dest grid.Point) bool {
	if !c.HasAbility(AbilityVault) {
		return false
	}
	if !c.SpendActions(1) {
		return false
	}
	allowance := 2 * e.MovementAllowance(c, false)
	if !e.move(c, dest, allowance, true) {
		c.ActionsRemaining++
		return false
	}
	c.Evading = true
	e.Logf("%s vaults across the field and lands evading", c.Name())
	return true
}

func (e *Engine) move(c *Combatant, dest grid.Point, allowance int, consumed bool) bool {
	if e.grid == nil || c.Dead {
		return false
	}
	if c.Critical && !e.registry.allowCriticalAction(c, "move") {
		e.strainWhileCritical(c)
		return false
	}
	path := e.grid.FindPath(c.Position, dest)
	if path == nil || e.grid.PathCost(path) > allowance {
		return false
	}
	if !consumed {
		if c.FreeMoveUsed {
			if !c.SpendActions(1) {
				return false
			}
		} else {
			c.FreeMoveUsed = true
		}
	}

	from := c.Position
	for _, step := range path[1:] {
		e.provokeOpportunity(c, step)
		if c.Dead {
			return true
		}
		e.grid.MoveOccupant(c.Position, step)
		c.Position = step
		if c.WhirlingDevilActive {
			e.whirlingStrikes(c)
		}
	}
	e.primeForwardCharge(c, from)
	e.Logf("%s moves to (%d,%d)", c.Name(), c.Position.X, c.Position.Y)
	return true
}

// provokeOpportunity grants a free strike to each enemy whose melee reach c
// is about to escape by stepping to next. The strike resolves before the
// step, while c is still in reach.
func (e *Engine) provokeOpportunity(c *Combatant, next grid.Point) {
	for _, enemy := range e.Enemies(c) {
		if enemy.Critical {
			continue
		}
		w := e.attackWeapon(enemy, nil)
		if w.RangeBand != item.BandMelee {
			continue
		}
		if e.Distance(enemy, c) > w.EffectiveReach() {
			continue
		}
		if grid.Manhattan(enemy.Position, next) <= w.EffectiveReach() {
			continue
		}
		if !enemy.UseLimitedTurn("opportunity") {
			continue
		}
		e.Logf("%s's retreat exposes them to %s", c.Name(), enemy.Name())
		e.PerformAttack(enemy, c, AttackOptions{
			SkipActionCost:    true,
			SuppressReactions: true,
			// The strike is rushed; the retreating target cannot be run
			// through on the way out.
			DenyDeathSave: true,
		})
		if c.Dead {
			return
		}
	}
}

// whirlingStrikes lands one free half-cost strike on each adjacent enemy
// not yet struck by this whirl.
func (e *Engine) whirlingStrikes(c *Combatant) {
	for _, enemy := range e.Enemies(c) {
		if e.Distance(c, enemy) > 1 {
			continue
		}
		if !c.UseLimitedTurn("whirl:" + enemy.ID) {
			continue
		}
		e.PerformAttack(c, enemy, AttackOptions{
			SkipActionCost:    true,
			SuppressReactions: true,
		})
	}
}

// primeForwardCharge readies the charge bonus after covering at least three
// tiles and ending adjacent to an enemy.
func (e *Engine) primeForwardCharge(c *Combatant, from grid.Point) {
	if !c.HasAbility(AbilityForwardCharge) {
		return
	}
	if grid.Manhattan(from, c.Position) < 3 {
		return
	}
	if e.NearestEnemyDistance(c) <= 1 {
		c.ForwardChargeReady = true
	}
}

// MoveToward advances c as far as possible along the path to target,
// stopping one tile short of target's own square. Used by the decision
// agent and by abilities that drag a combatant across the field.
func (e *Engine) MoveToward(c, target *Combatant, dash bool) bool {
	if e.grid == nil {
		return false
	}
	dest := e.bestApproach(c, target, e.MovementAllowance(c, dash))
	if dest == c.Position {
		return false
	}
	if dash {
		return e.Dash(c, dest)
	}
	return e.Move(c, dest)
}

// bestApproach walks the path toward target and returns the furthest
// affordable tile, never entering the target's square.
func (e *Engine) bestApproach(c, target *Combatant, allowance int) grid.Point {
	adj := e.grid.Neighbors(target.Position)
	best := c.Position
	bestDist := grid.Manhattan(c.Position, target.Position)
	for _, goal := range adj {
		if !e.grid.Passable(goal) && goal != c.Position {
			continue
		}
		path := e.grid.FindPath(c.Position, goal)
		if path == nil {
			continue
		}
		reach := c.Position
		cost := 0
		for _, step := range path[1:] {
			cost += e.grid.Tile(step).MoveCost
			if cost > allowance {
				break
			}
			reach = step
		}
		if d := grid.Manhattan(reach, target.Position); d < bestDist {
			bestDist = d
			best = reach
		}
	}
	return best
}
