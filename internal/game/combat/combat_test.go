package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalore/avasim/internal/game/character"
	"github.com/avalore/avasim/internal/game/combat"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/game/status"
)

// scriptedSource serves queued die faces (1-based), then falls back to a
// seeded source once the script runs out.
type scriptedSource struct {
	queue    []int
	fallback dice.Source
}

func script(faces ...int) *scriptedSource {
	return &scriptedSource{queue: faces, fallback: dice.NewSeededSource(1)}
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.queue) == 0 {
		return s.fallback.Intn(n)
	}
	v := s.queue[0]
	s.queue = s.queue[1:]
	return (v - 1) % n
}

func fighter(name, team string, hp int) *combat.Combatant {
	return combat.NewCombatant(character.NewStatBlock(name, nil), team, hp, 3)
}

func arm(t *testing.T, c *combat.Combatant, weapon string) {
	t.Helper()
	w := item.Default().MustWeapon(weapon)
	c.WeaponMain = &w
}

func duel(src dice.Source, a, b *combat.Combatant) *combat.Engine {
	a.Position = grid.Point{X: 0, Y: 0}
	b.Position = grid.Point{X: 1, Y: 0}
	return combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, b},
		Source:       src,
	})
}

func TestDoubleTenIsCritical(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	e := duel(script(10, 10), a, d)

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Crit)
	assert.True(t, res.Hit)
	// Weapon damage 4, +2 for the critical, no soak without armor.
	assert.Equal(t, 6, res.Damage)
	assert.Equal(t, 14, d.HP)
}

func TestCriticalBypassesEvasionAndBlock(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	sh := item.Default().MustShield("Large Shield")
	d.Shield = &sh
	e := duel(script(10, 10), a, d)
	d.Evading = true
	d.Blocking = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Crit)
	assert.False(t, res.Evaded)
	assert.False(t, res.Blocked)
	assert.Equal(t, 6, res.Damage)
}

func TestMissBelowDC(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	e := duel(script(1, 2), a, d)

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.False(t, res.Hit)
	assert.Equal(t, 20, d.HP)
	assert.Equal(t, 1, a.ActionsRemaining, "the swing still costs an action")
}

func TestEvasionContested(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Dagger")
	// Attack 7+7+3 = 17; evade 9+9 = 18 >= 17.
	e := duel(script(7, 7, 9, 9), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Evaded)
	assert.False(t, res.Hit)
	assert.Equal(t, 20, d.HP)
}

func TestEvasionContestsEvenAWildSwing(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	// Attack 1+1+1 = 3; the contest comes first, and 5+5 = 10 wins it.
	e := duel(script(1, 1, 5, 5), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Evaded)
	assert.Equal(t, 10, res.DefenseTotal)
	assert.Equal(t, 20, d.HP)
}

func TestFailedEvasionFallsThroughToMiss(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	// Attack 2+1+1 = 4 beats the evade 1+1 = 2, but still has a DC to clear.
	e := duel(script(2, 1, 1, 1), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.False(t, res.Evaded)
	assert.False(t, res.Hit)
	assert.Equal(t, 2, res.DefenseTotal, "the contest was rolled before the miss")
	assert.Equal(t, 20, d.HP)
}

func TestTrainedFistsHitHarder(t *testing.T) {
	master := combat.NewCombatant(character.NewStatBlock("Master", map[string]int{
		"Strength:Athletics": 5,
	}), "A", 20, 0)
	student := combat.NewCombatant(character.NewStatBlock("Student", map[string]int{
		"Strength:Athletics": 1,
	}), "A", 20, 0)
	d := fighter("Board", "B", 20)
	master.Position = grid.Point{X: 0, Y: 0}
	student.Position = grid.Point{X: 2, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	// Master 8+8+5+2 = 23 hits for 2+3; student 8+8+1+2 = 19 hits for 2+1.
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{master, student, d},
		Source:       script(8, 8, 8, 8),
	})

	res := e.PerformAttack(master, d, combat.AttackOptions{})
	assert.Equal(t, 5, res.Damage)
	res = e.PerformAttack(student, d, combat.AttackOptions{})
	assert.Equal(t, 3, res.Damage)
}

func TestGrazeDealsHalfDamage(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	// Attack 7+7+1 = 15; evade 6+6 = 12: enough to turn the blow, not to
	// slip it.
	e := duel(script(7, 7, 6, 6), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Graze)
	assert.True(t, res.Hit)
	// Damage 4 halves to 2, rounded up.
	assert.Equal(t, 2, res.Damage)
	assert.Equal(t, 18, d.HP)
}

func TestGrazeAgainstMediumArmorDealsNothing(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	armor := item.Default().MustArmor("Medium Armor")
	d.Armor = &armor
	// Attack 8+8+1 = 17; evade 7+7-1 = 13 (medium armor -1 evasion).
	e := duel(script(8, 8, 7, 7), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Graze)
	assert.Equal(t, 0, res.Damage)
	assert.Equal(t, 20, d.HP)
}

func TestShieldBlockStopsDamage(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Arming Sword")
	sh := item.Default().MustShield("Small Shield")
	d.Shield = &sh
	// Attack 6+6+1 = 13 hits; block 10+10-3 = 17 >= 12.
	e := duel(script(6, 6, 10, 10), a, d)
	d.Blocking = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Blocked)
	assert.False(t, res.Hit)
	assert.Equal(t, 20, d.HP)
}

func TestLargeShieldStripsArmorPiercingOnFailedBlock(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 20)
	arm(t, a, "Crossbow")
	a.LoadedWeapon = "Crossbow"
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 7, Y: 0}
	sh := item.Default().MustShield("Large Shield")
	armor := item.Default().MustArmor("Medium Armor")
	d.Shield = &sh
	d.Armor = &armor
	// Attack 8+8+3 = 19; block 2+3-2+1 = 4 fails; armor still soaks because
	// the shield turned the bolt. Soak d3 scripted to 3: base 2, less 1 for
	// the unmet strength requirement.
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       script(8, 8, 2, 3, 3),
	})
	d.Blocking = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Hit)
	// Crossbow 5 less 1 soak.
	assert.Equal(t, 4, res.Damage)
}

func TestCriticalStateThenDeathSave(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Defender", "B", 3)
	arm(t, a, "Dagger")
	// First hit: 8+9+3 = 20, damage 3 drops to 0 -> critical, no save yet.
	// Second hit: 8+9+3 = 20, damage while critical forces a save: 1+1 = 2
	// below 12 kills.
	e := duel(script(8, 9, 8, 9, 1, 1), a, d)

	e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, d.Critical)
	assert.False(t, d.Dead)
	assert.Equal(t, 0, d.HP)

	e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, d.Dead)
	assert.True(t, e.Ended())
	assert.Equal(t, "A", e.WinningTeam())
}

func TestCriticalCombatantStrainsIntoADeathSave(t *testing.T) {
	a := fighter("Crawler", "A", 20)
	d := fighter("Foe", "B", 20)
	arm(t, a, "Arming Sword")
	a.HP = 0
	a.Critical = true
	// The strain of swinging forces a save: 1+1 = 2 under the DC kills.
	e := duel(script(1, 1), a, d)

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.False(t, res.Hit)
	assert.True(t, a.Dead)

	// A held save leaves them critical and the action refused all the same.
	b := fighter("Gritting", "A", 20)
	f := fighter("Foe2", "B", 20)
	b.HP = 0
	b.Critical = true
	e2 := duel(script(8, 8), b, f)
	assert.False(t, e2.Evade(b))
	assert.False(t, b.Dead)
	assert.True(t, b.Critical)
}

func TestMockeryBluntsTheMockedBladeToo(t *testing.T) {
	a := fighter("Mocked", "A", 20)
	d := fighter("Heckler", "B", 20)
	arm(t, a, "Arming Sword")
	a.MockeryPenalty = 2
	// 7+6+1 would be 14; the jeers ringing in their ears make it 12.
	e := duel(script(7, 6), a, d)

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Hit)
	assert.Equal(t, 12, res.AttackTotal)
}

func TestPrimedUnarmedAimBonus(t *testing.T) {
	a := fighter("Rake", "A", 20)
	d := fighter("Mark", "B", 20)
	a.NextUnarmedBonus = "aim"
	// 5+5+2 unarmed, +1 from the primed aim.
	e := duel(script(5, 5), a, d)

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.Equal(t, 13, res.AttackTotal)
	assert.Empty(t, a.NextUnarmedBonus, "the bonus is spent on use")
}

func TestBypassedGrazeLandsFull(t *testing.T) {
	a := fighter("Sharpshooter", "A", 20)
	d := fighter("Weaver", "B", 20)
	arm(t, a, "Arming Sword")
	// Attack 8+8+1 = 17; evade 6+6 = 12: a graze, but one that lands whole.
	e := duel(script(8, 8, 6, 6), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{BypassGraze: true})
	assert.True(t, res.Graze, "the contest outcome is still a graze")
	assert.Equal(t, 4, res.Damage)
	assert.Equal(t, 16, d.HP)
}

func TestStartTurnIdempotent(t *testing.T) {
	c := fighter("Solo", "A", 10)
	c.SpendActions(1)
	c.StartTurn()
	assert.Equal(t, combat.DefaultActionsPerTurn, c.ActionsRemaining)
	c.StartTurn()
	assert.Equal(t, combat.DefaultActionsPerTurn, c.ActionsRemaining)
}

// recorder traces hook dispatch order.
type recorder struct {
	combat.NopHandler
	name string
	log  *[]string
}

func (r recorder) ModifyAttackRoll(_ *combat.Engine, _, _ *combat.Combatant, _ item.Weapon, total int, _ *combat.Context) int {
	*r.log = append(*r.log, r.name)
	return total
}

func TestHookDispatchFollowsGrantOrder(t *testing.T) {
	var log []string
	reg := combat.NewRegistry()
	reg.Register("Alpha", recorder{name: "Alpha", log: &log})
	reg.Register("Beta", recorder{name: "Beta", log: &log})

	a := fighter("Attacker", "A", 10)
	d := fighter("Defender", "B", 10)
	arm(t, a, "Arming Sword")
	a.GrantAbility("Beta")
	a.GrantAbility("Alpha")
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       script(5, 5),
		Registry:     reg,
	})

	e.PerformAttack(a, d, combat.AttackOptions{})
	assert.Equal(t, []string{"Beta", "Alpha"}, log)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := combat.NewRegistry()
	reg.Register("X", combat.NopHandler{})
	require.Panics(t, func() { reg.Register("X", combat.NopHandler{}) })
	require.Panics(t, func() { reg.Register("", combat.NopHandler{}) })
}

func TestKnockbackStopsAtWall(t *testing.T) {
	g := grid.New(6, 3)
	g.SetTerrain(grid.Point{X: 4, Y: 0}, grid.TerrainWall)
	a := fighter("Pusher", "A", 10)
	d := fighter("Pushed", "B", 10)
	a.Position = grid.Point{X: 1, Y: 0}
	d.Position = grid.Point{X: 2, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       script(),
	})

	moved := e.ApplyKnockback(d, 3, a.Position, a.Name())
	assert.Equal(t, 1, moved, "wall at x=4 caps the slide")
	assert.Equal(t, grid.Point{X: 3, Y: 0}, d.Position)
	assert.Equal(t, d.ID, g.OccupantAt(d.Position))
}

func TestWallBlocksTheShot(t *testing.T) {
	g := grid.New(12, 3)
	for y := 0; y < 3; y++ {
		g.SetTerrain(grid.Point{X: 5, Y: y}, grid.TerrainWall)
	}
	a := fighter("Shooter", "A", 20)
	d := fighter("Sheltered", "B", 20)
	arm(t, a, "Crossbow")
	a.LoadedWeapon = "Crossbow"
	a.Position = grid.Point{X: 0, Y: 1}
	d.Position = grid.Point{X: 9, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       script(10, 10),
	})

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.False(t, res.Hit)
	assert.Zero(t, res.AttackTotal, "the bolt is never loosed")
	assert.Equal(t, 20, d.HP)
	assert.Contains(t, e.Events(), "Shooter has no line on Sheltered")
}

func TestSteadfastIgnoresKnockback(t *testing.T) {
	g := grid.New(6, 3)
	a := fighter("Pusher", "A", 10)
	d := fighter("Anchor", "B", 10)
	d.GrantAbility(combat.AbilitySteadfast)
	a.Position = grid.Point{X: 1, Y: 0}
	d.Position = grid.Point{X: 2, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       script(),
	})

	assert.Equal(t, 0, e.ApplyKnockback(d, 3, a.Position, a.Name()))
	assert.Equal(t, grid.Point{X: 2, Y: 0}, d.Position)
}

func TestOvercastOncePerDayAndMiscast(t *testing.T) {
	cat := item.Default()
	bolt := cat.MustSpell("Force Bolt")

	caster := fighter("Caster", "A", 10)
	target := fighter("Target", "B", 10)
	caster.Anima = 0
	// Cast 9+10 = 19 succeeds; the consequence d6 = 4 is severity for the
	// narration, not damage; target save 1+1 fails; full 4 damage.
	e := duel(script(9, 10, 4, 1, 1), caster, target)

	res := e.CastSpell(caster, bolt, target, true)
	assert.True(t, res.Success)
	assert.True(t, res.Overcast)
	assert.Equal(t, 4, res.Consequence)
	assert.Equal(t, 10, caster.HP, "the consequence roll is not backlash damage")
	assert.Equal(t, 6, target.HP)

	caster.StartTurn()
	res = e.CastSpell(caster, bolt, target, true)
	assert.False(t, res.Success, "one overcast per day")

	// A failed overcast is a miscast: zero HP, critical, anima gone.
	mis := fighter("Reckless", "A", 10)
	victim := fighter("Bystander", "B", 10)
	mis.Anima = 0
	e2 := duel(script(1, 2), mis, victim)
	res = e2.CastSpell(mis, bolt, victim, true)
	assert.True(t, res.Miscast)
	assert.Equal(t, 0, mis.HP)
	assert.True(t, mis.Critical)
	assert.Equal(t, 0, mis.Anima)
}

func TestCastSpellSpendsAnima(t *testing.T) {
	cat := item.Default()
	heal := cat.MustSpell("Healing Touch")
	caster := fighter("Mender", "A", 10)
	ally := fighter("Hurt", "A", 10)
	foe := fighter("Foe", "B", 10)
	ally.HP = 4
	caster.Position = grid.Point{X: 0, Y: 0}
	ally.Position = grid.Point{X: 1, Y: 0}
	foe.Position = grid.Point{X: 5, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{caster, ally, foe},
		Source:       script(9, 9),
	})

	res := e.CastSpell(caster, heal, ally, false)
	assert.True(t, res.Success)
	assert.Equal(t, 5, res.Healing)
	assert.Equal(t, 9, ally.HP)
	assert.Equal(t, 3-heal.AnimaCost, caster.Anima)
}

func TestFizzleRefundsHalfTheAnima(t *testing.T) {
	cat := item.Default()
	heal := cat.MustSpell("Healing Touch")
	caster := fighter("Fumbler", "A", 10)
	foe := fighter("Foe", "B", 10)
	caster.HP = 6
	// Cast 1+2 = 3 fizzles; one of the two anima spent comes back.
	e := duel(script(1, 2), caster, foe)

	res := e.CastSpell(caster, heal, caster, false)
	assert.False(t, res.Success)
	assert.False(t, res.Miscast)
	assert.Equal(t, 6, caster.HP)
	assert.Equal(t, 2, caster.Anima)
}

func TestOvercastRefusesSpellsBeyondCapacity(t *testing.T) {
	cat := item.Default()
	heal := cat.MustSpell("Healing Touch")
	sparrow := combat.NewCombatant(character.NewStatBlock("Sparrow", nil), "A", 10, 1)
	foe := fighter("Foe", "B", 10)
	e := duel(script(), sparrow, foe)

	res := e.CastSpell(sparrow, heal, sparrow, true)
	assert.False(t, res.Overcast)
	assert.False(t, res.Success)
	assert.False(t, sparrow.HasOvercastToday, "the refusal does not burn the daily overcast")
	assert.Equal(t, 2, sparrow.ActionsRemaining)
}

func TestNightCastingIsHarder(t *testing.T) {
	cat := item.Default()
	bolt := cat.MustSpell("Force Bolt")
	caster := fighter("Dusk", "A", 10)
	target := fighter("Shade", "B", 10)
	caster.Position = grid.Point{X: 0, Y: 0}
	target.Position = grid.Point{X: 1, Y: 0}
	// 5+6 = 11 would clear DC 10 in daylight; the dark takes 2 off.
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{caster, target},
		Source:       script(5, 6),
		TimeOfDay:    combat.Night,
	})

	res := e.CastSpell(caster, bolt, target, false)
	assert.False(t, res.Success)
	assert.Equal(t, 9, res.CastTotal)
	assert.Equal(t, 10, target.HP)
}

func TestSurpriseCostsAnAction(t *testing.T) {
	a := fighter("Ambusher", "A", 10)
	d := fighter("Sleepy", "B", 10)
	r := fighter("Wary", "B", 10)
	r.GrantAbility(combat.AbilityAlwaysReady)
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 4, Y: 0}
	r.Position = grid.Point{X: 5, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants:   []*combat.Combatant{a, d, r},
		Source:         dice.NewSeededSource(11),
		PartyInitiated: true,
		InitiatingTeam: "A",
		SurprisedTeam:  "B",
	})
	e.Begin()

	assert.Equal(t, 1, d.ActionsPerTurn)
	assert.Equal(t, 2, r.ActionsPerTurn, "Always Ready shakes off surprise")
	assert.Equal(t, 2, a.ActionsPerTurn)
}

func TestFirstStrikeOpensWithThreeActions(t *testing.T) {
	a := fighter("Swift", "A", 10)
	d := fighter("Slow", "B", 10)
	a.GrantAbility(combat.AbilityFirstStrike)
	// Equal 5+5 rolls; First Strike's +5 breaks the tie.
	e := duel(script(5, 5, 5, 5), a, d)
	e.Begin()

	require.Same(t, a, e.Current())
	assert.Equal(t, 3, a.ActionsRemaining)

	// The bonus applies only to the opening turn.
	e.AdvanceTurn()
	e.AdvanceTurn()
	assert.Equal(t, 2, a.ActionsRemaining)
}

func TestMovementAllowanceAndDash(t *testing.T) {
	g := grid.New(12, 2)
	m := fighter("Runner", "A", 10)
	foe := fighter("Far", "B", 10)
	m.Position = grid.Point{X: 0, Y: 0}
	foe.Position = grid.Point{X: 11, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{m, foe},
		Grid:         g,
		Source:       script(),
	})

	assert.False(t, e.Move(m, grid.Point{X: 7, Y: 0}), "7 tiles exceeds the base 5")
	assert.True(t, e.Dash(m, grid.Point{X: 7, Y: 0}))
	assert.Equal(t, grid.Point{X: 7, Y: 0}, m.Position)
	assert.Equal(t, 1, m.ActionsRemaining)
	assert.False(t, e.Dash(m, grid.Point{X: 9, Y: 0}), "one dash per turn")
}

func TestRetreatProvokesOpportunityAttack(t *testing.T) {
	g := grid.New(8, 3)
	m := fighter("Runner", "A", 20)
	foe := fighter("Blade", "B", 20)
	arm(t, foe, "Dagger")
	m.Position = grid.Point{X: 2, Y: 1}
	foe.Position = grid.Point{X: 1, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{m, foe},
		Grid:         g,
		Source:       script(8, 9),
	})

	require.True(t, e.Move(m, grid.Point{X: 4, Y: 1}))
	// 8+9+3 = 20 hits for dagger 3.
	assert.Equal(t, 17, m.HP)
}

func TestPatientFlowRedirectsIntoBystander(t *testing.T) {
	g := grid.New(5, 5)
	monk := fighter("Monk", "B", 20)
	attacker := fighter("Brute", "A", 20)
	bystander := fighter("Lackey", "A", 20)
	arm(t, attacker, "Arming Sword")
	monk.GrantAbility(combat.AbilityPatientFlow)
	monk.Position = grid.Point{X: 1, Y: 1}
	attacker.Position = grid.Point{X: 1, Y: 0}
	bystander.Position = grid.Point{X: 2, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{monk, attacker, bystander},
		Grid:         g,
		Source:       script(8, 8),
	})
	monk.FlowingStance = true

	res := e.PerformAttack(attacker, monk, combat.AttackOptions{})
	assert.True(t, res.Hit)
	assert.Equal(t, 20, monk.HP, "the flow redirects the blow")
	assert.Equal(t, 16, bystander.HP)
}

func TestSecondWindOncePerFight(t *testing.T) {
	c := fighter("Tough", "A", 20)
	foe := fighter("Foe", "B", 20)
	c.GrantAbility(combat.AbilitySecondWind)
	c.HP = 5
	e := duel(script(4), c, foe)

	assert.True(t, e.SecondWind(c))
	assert.Equal(t, 9, c.HP)
	c.StartTurn()
	assert.False(t, e.SecondWind(c), "second wind is once per fight")
}

func TestHiddenAttackerPenaltyAndReveal(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Ghost", "B", 20)
	arm(t, a, "Arming Sword")
	d.Statuses.Apply(status.Hidden, status.Indefinite)
	// 8+6+1 = 15, -3 for an unseen target = 12: still lands.
	e := duel(script(8, 6), a, d)

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Hit)
	assert.Equal(t, 12, res.AttackTotal)
}

func TestAttackRevealsHiddenAttacker(t *testing.T) {
	a := fighter("Sneak", "A", 20)
	d := fighter("Mark", "B", 20)
	arm(t, a, "Dagger")
	a.Statuses.Apply(status.Hidden, status.Indefinite)
	e := duel(script(8, 8), a, d)

	e.PerformAttack(a, d, combat.AttackOptions{})
	assert.False(t, a.Statuses.Has(status.Hidden))
}

func TestDualStrikeForcesAtMostOneDeathSave(t *testing.T) {
	a := fighter("Twin", "A", 20)
	d := fighter("Victim", "B", 10)
	a.GrantAbility(combat.AbilityDualStrike)
	cat := item.Default()
	mainW := cat.MustWeapon("Arming Sword")
	offW := cat.MustWeapon("Dagger")
	a.WeaponMain = &mainW
	a.WeaponOffhand = &offW
	d.HP = 0
	d.Critical = true
	// First strike 8+9+1 = 18 hits; the save 7+7 = 14 holds. Second strike
	// 8+9+1 = 18 hits but cannot force another save.
	e := duel(script(8, 9, 7, 7, 8, 9), a, d)

	first, second := e.DualStrike(a, d)
	assert.True(t, first.Hit)
	assert.True(t, second.Hit)
	assert.False(t, d.Dead, "one exchange, one save")
	assert.Equal(t, 0, a.ActionsRemaining)
}

func TestControlPushPinsAgainstTerrain(t *testing.T) {
	g := grid.New(4, 3)
	g.SetTerrain(grid.Point{X: 3, Y: 1}, grid.TerrainWall)
	a := fighter("Controller", "A", 20)
	d := fighter("Pushed", "B", 20)
	a.GrantAbility(combat.AbilityControl)
	a.Position = grid.Point{X: 1, Y: 1}
	d.Position = grid.Point{X: 2, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       script(8, 8),
	})

	require.True(t, e.ControlPush(a, d))
	assert.Equal(t, grid.Point{X: 2, Y: 1}, d.Position, "wall stops the shove")

	// The pin feeds Control's +1 damage.
	res := e.PerformAttack(a, d, combat.AttackOptions{})
	require.True(t, res.Hit)
	assert.Equal(t, 3, res.Damage, "unarmed 2 plus the pin bonus")
}

func TestVaultEndsEvading(t *testing.T) {
	g := grid.New(14, 2)
	v := fighter("Leaper", "A", 10)
	foe := fighter("Foe", "B", 10)
	v.GrantAbility(combat.AbilityVault)
	v.Position = grid.Point{X: 0, Y: 0}
	foe.Position = grid.Point{X: 13, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{v, foe},
		Grid:         g,
		Source:       script(),
	})

	assert.True(t, e.Vault(v, grid.Point{X: 9, Y: 0}))
	assert.True(t, v.Evading)
	assert.Equal(t, grid.Point{X: 9, Y: 0}, v.Position)
}

func TestEngineSnapshotsPerRound(t *testing.T) {
	g := grid.New(4, 2)
	a := fighter("Ann", "A", 10)
	b := fighter("Bob", "B", 10)
	a.Position = grid.Point{X: 0, Y: 0}
	b.Position = grid.Point{X: 3, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, b},
		Grid:         g,
		Source:       dice.NewSeededSource(5),
	})
	e.Begin()
	e.AdvanceTurn()
	e.AdvanceTurn() // wraps into round 2

	snaps := e.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps[0].Round)
	assert.Equal(t, 2, snaps[1].Round)
	assert.Contains(t, snaps[0].MapView, "A")
	assert.Contains(t, snaps[0].MapView, "B")
}

func TestQuickfootedEvasionBonus(t *testing.T) {
	a := fighter("Attacker", "A", 20)
	d := fighter("Dancer", "B", 20)
	arm(t, a, "Arming Sword")
	d.GrantAbility(combat.AbilityQuickfooted)
	// Attack 8+8+1 = 17; evade 7+7 = 14, +3 quickfooted = 17 >= 17.
	e := duel(script(8, 8, 7, 7), a, d)
	d.Evading = true

	res := e.PerformAttack(a, d, combat.AttackOptions{})
	assert.True(t, res.Evaded)

	// The same rolls with the bonus suppressed land a hit.
	d2 := fighter("Dancer2", "B", 20)
	d2.GrantAbility(combat.AbilityQuickfooted)
	e2 := duel(script(8, 8, 7, 7), a, d2)
	a.StartTurn()
	d2.Evading = true
	res = e2.PerformAttack(a, d2, combat.AttackOptions{IgnoreQuickfooted: true})
	assert.True(t, res.Hit)
}
