package batch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalore/avasim/internal/game/ai"
	"github.com/avalore/avasim/internal/game/batch"
	"github.com/avalore/avasim/internal/game/character"
	"github.com/avalore/avasim/internal/game/combat"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
)

// lopsidedScenario pits a well-armed veteran against an unarmed novice.
func lopsidedScenario(src dice.Source) *combat.Engine {
	cat := item.Default()

	vet := combat.NewCombatant(character.NewStatBlock("Veteran", map[string]int{
		"Strength:Athletics":   3,
		"Dexterity:Acrobatics": 2,
	}), "Red", 24, 3)
	sword := cat.MustWeapon("Arming Sword")
	vet.WeaponMain = &sword
	vet.WeaponsEquipped = []string{"Arming Sword"}

	novice := combat.NewCombatant(character.NewStatBlock("Novice", nil), "Blue", 12, 3)

	g := grid.New(10, 5)
	vet.Position = grid.Point{X: 1, Y: 2}
	novice.Position = grid.Point{X: 8, Y: 2}

	return combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{vet, novice},
		Grid:         g,
		Source:       src,
	})
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := batch.NewRunner(batch.Config{Trials: 0}, lopsidedScenario, nil)
	require.Error(t, err)

	_, err = batch.NewRunner(batch.Config{Trials: 5}, nil, nil)
	require.Error(t, err)

	_, err = batch.NewRunner(batch.Config{
		Trials:     5,
		Strategies: map[string]ai.Strategy{"Red": ai.Strategy("chaotic")},
	}, lopsidedScenario, nil)
	require.Error(t, err)
}

func TestLopsidedBatchFavorsVeteran(t *testing.T) {
	r, err := batch.NewRunner(batch.Config{
		Trials:   200,
		BaseSeed: 1000,
		Strategies: map[string]ai.Strategy{
			"Red":  ai.StrategyAggressive,
			"Blue": ai.StrategyBalanced,
		},
	}, lopsidedScenario, nil)
	require.NoError(t, err)

	res := r.Run()
	assert.Equal(t, 200, res.Trials)
	assert.Len(t, res.Records, 200)
	assert.Equal(t, 200, res.WinCounts["Red"]+res.WinCounts["Blue"]+res.Draws,
		"every trial is a win or a draw")
	assert.Greater(t, res.WinCounts["Red"], res.WinCounts["Blue"],
		"the armed veteran should dominate")
	assert.Greater(t, res.AvgRounds, 0.0)
	assert.GreaterOrEqual(t, res.AvgDamage["Red"], res.AvgDamage["Blue"])
	assert.Greater(t, res.Elapsed, time.Duration(0))
	assert.Contains(t, res.Summary(), "Red")

	for _, rec := range res.Records {
		if rec.Winner == "Red" {
			assert.Greater(t, rec.SurvivorHP["Red"], 0)
			assert.Zero(t, rec.SurvivorHP["Blue"])
		}
	}
}

func TestSeededBatchIsReproducible(t *testing.T) {
	run := func() batch.Result {
		r, err := batch.NewRunner(batch.Config{
			Trials:   20,
			BaseSeed: 77,
			Strategies: map[string]ai.Strategy{
				"Red":  ai.StrategyAggressive,
				"Blue": ai.StrategyDefensive,
			},
		}, lopsidedScenario, nil)
		require.NoError(t, err)
		return r.Run()
	}
	a, b := run(), run()
	assert.Equal(t, a.WinCounts, b.WinCounts)
	assert.Equal(t, a.AvgRounds, b.AvgRounds)
	for i := range a.Records {
		assert.Equal(t, a.Records[i].Winner, b.Records[i].Winner)
		assert.Equal(t, a.Records[i].Rounds, b.Records[i].Rounds)
	}
}

func TestParallelMatchesRecordShape(t *testing.T) {
	r, err := batch.NewRunner(batch.Config{
		Trials:  30,
		Workers: 4,
		Strategies: map[string]ai.Strategy{
			"Red":  ai.StrategyBalanced,
			"Blue": ai.StrategyBalanced,
		},
	}, lopsidedScenario, nil)
	require.NoError(t, err)

	res := r.Run()
	require.Len(t, res.Records, 30)
	for i, rec := range res.Records {
		assert.Equal(t, i, rec.Trial, "records keep trial order")
		assert.NotEmpty(t, rec.Winner)
	}
}

// stalemateScenario pairs two unarmed pacifists on a huge field so the round
// cap bites.
func stalemateScenario(src dice.Source) *combat.Engine {
	a := combat.NewCombatant(character.NewStatBlock("Left", nil), "Red", 100, 0)
	b := combat.NewCombatant(character.NewStatBlock("Right", nil), "Blue", 100, 0)
	g := grid.New(30, 3)
	a.Position = grid.Point{X: 0, Y: 1}
	b.Position = grid.Point{X: 29, Y: 1}
	return combat.NewEngine(combat.EngineConfig{
		Participants: []*combat.Combatant{a, b},
		Grid:         g,
		Source:       src,
	})
}

func TestRoundCapScoresDraw(t *testing.T) {
	r, err := batch.NewRunner(batch.Config{
		Trials:    3,
		MaxRounds: 2,
		BaseSeed:  5,
		Strategies: map[string]ai.Strategy{
			"Red":  ai.StrategyDefensive,
			"Blue": ai.StrategyDefensive,
		},
	}, stalemateScenario, nil)
	require.NoError(t, err)

	res := r.Run()
	assert.Equal(t, 3, res.Draws)
	for _, rec := range res.Records {
		assert.Equal(t, batch.DrawResult, rec.Winner)
		assert.LessOrEqual(t, rec.Rounds, 2)
	}
}
