package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalore/avasim/internal/game/ai"
	"github.com/avalore/avasim/internal/game/character"
	"github.com/avalore/avasim/internal/game/combat"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
)

func fighter(name, team string, hp int) *combat.Combatant {
	return combat.NewCombatant(character.NewStatBlock(name, nil), team, hp, 3)
}

func TestProfileDefaults(t *testing.T) {
	agg := ai.ProfileFor(ai.StrategyAggressive)
	assert.InDelta(t, 0.25, agg.HPThreshold, 1e-9)
	assert.InDelta(t, 0.70, agg.DefendThreshold, 1e-9)
	assert.True(t, agg.PreferAttack)

	def := ai.ProfileFor(ai.StrategyDefensive)
	assert.InDelta(t, 0.60, def.HPThreshold, 1e-9)
	assert.InDelta(t, 0.45, def.DefendThreshold, 1e-9)
	assert.InDelta(t, 0.5, def.RetreatBias, 1e-9)
	assert.False(t, def.PreferAttack)

	bal := ai.ProfileFor(ai.StrategyBalanced)
	assert.InDelta(t, 0.50, bal.HPThreshold, 1e-9)
	assert.InDelta(t, 0.55, bal.DefendThreshold, 1e-9)

	require.Panics(t, func() { ai.ProfileFor(ai.Strategy("chaotic")) })
}

func TestExpectedSoak(t *testing.T) {
	cat := item.Default()
	c := fighter("Armored", "A", 10)
	assert.InDelta(t, 0.0, ai.ExpectedSoak(c, false), 1e-9)

	light := cat.MustArmor("Light Armor")
	c.Armor = &light
	assert.InDelta(t, 0.5, ai.ExpectedSoak(c, false), 1e-9)

	clumsy := combat.NewCombatant(character.NewStatBlock("Stumbler", map[string]int{
		"Dexterity:Acrobatics": -2,
	}), "A", 10, 0)
	clumsy.Armor = &light
	// Below the light requirement the half point of soak is eaten by the
	// unmet-requirement penalty.
	assert.InDelta(t, 0.0, ai.ExpectedSoak(clumsy, false), 1e-9)

	strong := combat.NewCombatant(character.NewStatBlock("Strong", map[string]int{
		"Strength:Athletics": 3,
	}), "A", 10, 0)
	heavy := cat.MustArmor("Heavy Armor")
	strong.Armor = &heavy
	assert.InDelta(t, 2.0, ai.ExpectedSoak(strong, false), 1e-9)
	assert.InDelta(t, 0.0, ai.ExpectedSoak(strong, true), 1e-9, "piercing ignores soak")

	medium := cat.MustArmor("Medium Armor")
	strong.Armor = &medium
	assert.InDelta(t, 1.0, ai.ExpectedSoak(strong, false), 1e-9)
}

func TestAttackEVFavorsBiggerMargin(t *testing.T) {
	cat := item.Default()
	a := combat.NewCombatant(character.NewStatBlock("Skilled", map[string]int{
		"Strength:Athletics": 3,
	}), "A", 10, 0)
	b := fighter("Clumsy", "A", 10)
	target := fighter("Target", "B", 10)
	a.Position = grid.Point{X: 0, Y: 0}
	b.Position = grid.Point{X: 0, Y: 1}
	target.Position = grid.Point{X: 1, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, b, target},
		Source:       dice.NewSeededSource(1),
	})

	sword := cat.MustWeapon("Arming Sword")
	evSkilled := ai.AttackEV(e, a, target, sword)
	evClumsy := ai.AttackEV(e, b, target, sword)
	assert.Greater(t, evSkilled, evClumsy)

	// Two-action weapons pay for their damage in tempo.
	greatsword := cat.MustWeapon("Greatsword")
	evGreat := ai.AttackEV(e, a, target, greatsword)
	assert.Greater(t, evGreat, 0.0)
}

func TestDefenseProbsBlockNeedsShield(t *testing.T) {
	a := fighter("Threat", "A", 10)
	d := fighter("Guard", "B", 10)
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       dice.NewSeededSource(1),
	})

	pEvade, pBlock := ai.DefenseProbs(e, d, a)
	assert.Greater(t, pEvade, 0.0)
	assert.Equal(t, 0.0, pBlock)

	sh := item.Default().MustShield("Small Shield")
	d.Shield = &sh
	_, pBlock = ai.DefenseProbs(e, d, a)
	assert.Greater(t, pBlock, 0.0)
}

func TestAggressiveAgentClosesAndAttacks(t *testing.T) {
	g := grid.New(10, 3)
	a := fighter("Charger", "A", 20)
	d := fighter("Victim", "B", 20)
	sword := item.Default().MustWeapon("Arming Sword")
	a.WeaponMain = &sword
	a.WeaponsEquipped = []string{"Arming Sword"}
	a.Position = grid.Point{X: 0, Y: 1}
	d.Position = grid.Point{X: 4, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       dice.NewSeededSource(7),
	})

	agent := ai.New(ai.StrategyAggressive, dice.NewSeededSource(7), nil)
	agent.TakeTurn(e, a)

	assert.Equal(t, 1, e.Distance(a, d), "the agent closes to melee")
	assert.NotEmpty(t, e.Events())
}

func TestWoundedDefensiveAgentDefends(t *testing.T) {
	a := fighter("Hurt", "A", 20)
	d := fighter("Menace", "B", 20)
	sword := item.Default().MustWeapon("Arming Sword")
	d.WeaponMain = &sword
	a.HP = 5
	a.Anima = 0
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	sh := item.Default().MustShield("Small Shield")
	a.Shield = &sh
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       dice.NewSeededSource(3),
	})

	agent := ai.New(ai.StrategyDefensive, dice.NewSeededSource(3), nil)
	agent.TakeTurn(e, a)

	assert.True(t, a.Evading || a.Blocking, "a wounded defensive agent takes a stance")
	assert.Equal(t, 20, d.HP, "no attack was made")
}

func TestCriticalAgentDoesNothing(t *testing.T) {
	a := fighter("Down", "A", 20)
	d := fighter("Foe", "B", 20)
	a.HP = 0
	a.Critical = true
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       dice.NewSeededSource(1),
	})

	before := len(e.Events())
	ai.New(ai.StrategyBalanced, nil, nil).TakeTurn(e, a)
	assert.Equal(t, before, len(e.Events()))
}

func TestRandomAgentIsDeterministicUnderSeed(t *testing.T) {
	run := func() []string {
		g := grid.New(8, 3)
		a := fighter("Gambler", "A", 20)
		d := fighter("Foe", "B", 20)
		sword := item.Default().MustWeapon("Arming Sword")
		a.WeaponMain = &sword
		a.WeaponsEquipped = []string{"Arming Sword"}
		a.Position = grid.Point{X: 0, Y: 1}
		d.Position = grid.Point{X: 5, Y: 1}
		e := combat.NewEngine(combat.EngineConfig{
			Participants: []*combat.Combatant{a, d},
			Grid:         g,
			Source:       dice.NewSeededSource(21),
		})
		ai.New(ai.StrategyRandom, dice.NewSeededSource(42), nil).TakeTurn(e, a)
		return e.Events()
	}
	assert.Equal(t, run(), run())
}

func TestRangedAgentKeepsDistance(t *testing.T) {
	g := grid.New(20, 3)
	a := combat.NewCombatant(character.NewStatBlock("Archer", map[string]int{
		"Strength:Athletics":   1,
		"Dexterity:Acrobatics": 2,
	}), "A", 20, 3)
	d := fighter("Brute", "B", 20)
	bow := item.Default().MustWeapon("Crossbow")
	a.WeaponMain = &bow
	a.WeaponsEquipped = []string{"Crossbow"}
	a.LoadedWeapon = "Crossbow"
	a.Position = grid.Point{X: 10, Y: 1}
	d.Position = grid.Point{X: 13, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       dice.NewSeededSource(13),
	})

	ai.New(ai.StrategyAggressive, dice.NewSeededSource(13), nil).TakeTurn(e, a)
	assert.GreaterOrEqual(t, e.Distance(a, d), 6, "the archer opens to the ranged band")
}

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

func TestUnusableWeaponFallsBackToFists(t *testing.T) {
	// A greatsword the wielder cannot lift never makes the shortlist; the
	// agent fights bare-handed instead.
	a := fighter("Overambitious", "A", 20)
	a.WeaponsEquipped = []string{"Greatsword"}
	d := fighter("Victim", "B", 20)
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	// The first swing crits for unarmed 2 +2; the second whiffs.
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       script(10, 10, 1, 1),
	})

	ai.New(ai.StrategyAggressive, nil, nil).TakeTurn(e, a)
	assert.Equal(t, 16, d.HP)
}

func TestBloodiedAgentCatchesSecondWind(t *testing.T) {
	a := fighter("Winded", "A", 20)
	a.GrantAbility(combat.AbilitySecondWind)
	a.HP = 5
	d := fighter("Foe", "B", 20)
	a.Position = grid.Point{X: 0, Y: 0}
	d.Position = grid.Point{X: 1, Y: 0}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Source:       script(4),
	})

	ai.New(ai.StrategyAggressive, nil, nil).TakeTurn(e, a)
	assert.Equal(t, 9, a.HP, "the second wind lands before any swing")
}

func TestAgentOpensWithMightyStrike(t *testing.T) {
	g := grid.New(10, 3)
	a := combat.NewCombatant(character.NewStatBlock("Breaker", map[string]int{
		"Strength:Athletics": 3,
	}), "A", 20, 3)
	a.GrantAbility(combat.AbilityMightyStrike)
	sword := item.Default().MustWeapon("Greatsword")
	a.WeaponMain = &sword
	a.WeaponsEquipped = []string{"Greatsword"}
	d := fighter("Braced", "B", 30)
	a.Position = grid.Point{X: 1, Y: 1}
	d.Position = grid.Point{X: 2, Y: 1}
	e := combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, d},
		Grid:         g,
		Source:       script(10, 10),
	})

	ai.New(ai.StrategyAggressive, nil, nil).TakeTurn(e, a)
	assert.Equal(t, grid.Point{X: 5, Y: 1}, d.Position, "the hit hurls the target three tiles")
	assert.Equal(t, 20, d.HP, "greatsword 8 plus the critical 2")
}
