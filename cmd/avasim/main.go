// Package main provides the batch combat simulator. It wires together
// configuration, content loading, the combat engine, and the decision
// agents, then runs a batch and prints the aggregate report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/avalore/avasim/internal/config"
	"github.com/avalore/avasim/internal/game/ai"
	"github.com/avalore/avasim/internal/game/batch"
	"github.com/avalore/avasim/internal/game/character"
	"github.com/avalore/avasim/internal/game/combat"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
	"github.com/avalore/avasim/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty = built-in defaults)")
	trials := flag.Int("trials", 0, "override batch.trials")
	seed := flag.Int64("seed", 0, "override batch.seed")
	flag.Parse()

	// Load configuration
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *trials > 0 {
		cfg.Batch.Trials = *trials
	}
	if *seed != 0 {
		cfg.Batch.Seed = *seed
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting Avalore combat simulator",
		zap.Int("trials", cfg.Batch.Trials),
		zap.Int64("seed", cfg.Batch.Seed),
		zap.Int("workers", cfg.Batch.Workers),
	)

	// Load content
	catalog := item.Default()
	if cfg.Content.ItemsDir != "" {
		catalog, err = item.LoadDirectory(cfg.Content.ItemsDir)
		if err != nil {
			logger.Fatal("loading item content", zap.Error(err))
		}
		logger.Info("item content loaded",
			zap.String("dir", cfg.Content.ItemsDir),
			zap.Int("weapons", catalog.WeaponCount()),
		)
	}

	strategies := make(map[string]ai.Strategy, len(cfg.Batch.Strategies))
	for team, s := range cfg.Batch.Strategies {
		strategies[team] = ai.Strategy(s)
	}
	if len(strategies) == 0 {
		strategies["Red"] = ai.StrategyAggressive
		strategies["Blue"] = ai.StrategyBalanced
	}

	runner, err := batch.NewRunner(batch.Config{
		Trials:     cfg.Batch.Trials,
		MaxRounds:  cfg.Batch.MaxRounds,
		BaseSeed:   cfg.Batch.Seed,
		Workers:    cfg.Batch.Workers,
		Strategies: strategies,
	}, duelScenario(cfg.Scenario, catalog), logger)
	if err != nil {
		logger.Fatal("building batch runner", zap.Error(err))
	}

	result := runner.Run()

	logger.Info("batch complete",
		zap.Int("trials", result.Trials),
		zap.Int("draws", result.Draws),
		zap.Float64("avg_rounds", result.AvgRounds),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Fprint(os.Stdout, result.Summary())
}

// duelScenario builds the stock matchup: a sword-and-shield veteran against
// a quickfooted skirmisher, each trial on a fresh grid.
func duelScenario(sc config.ScenarioConfig, catalog *item.Catalog) batch.Scenario {
	return func(src dice.Source) *combat.Engine {
		g := grid.New(sc.GridWidth, sc.GridHeight)

		veteran := combat.NewCombatant(character.NewStatBlock("Veteran", map[string]int{
			"Strength:Athletics":   3,
			"Dexterity:Acrobatics": 1,
			"Harmony:Resolve":      1,
		}), "Red", 24, 2)
		sword := catalog.MustWeapon("Arming Sword")
		shield := catalog.MustShield("Small Shield")
		armor := catalog.MustArmor("Medium Armor")
		veteran.WeaponMain = &sword
		veteran.Shield = &shield
		veteran.Armor = &armor
		veteran.WeaponsEquipped = []string{"Arming Sword"}
		veteran.GrantAbility(combat.AbilityShieldmaster)
		veteran.GrantAbility(combat.AbilitySecondWind)

		skirmisher := combat.NewCombatant(character.NewStatBlock("Skirmisher", map[string]int{
			"Strength:Athletics":   1,
			"Dexterity:Acrobatics": 3,
			"Dexterity:Stealth":    2,
		}), "Blue", 18, 3)
		spear := catalog.MustWeapon("Spear")
		light := catalog.MustArmor("Light Armor")
		skirmisher.WeaponMain = &spear
		skirmisher.Armor = &light
		skirmisher.WeaponsEquipped = []string{"Spear", "Dagger"}
		skirmisher.GrantAbility(combat.AbilityQuickfooted)
		skirmisher.GrantAbility(combat.AbilityFirstStrike)

		veteran.Position = grid.Point{X: 1, Y: sc.GridHeight / 2}
		skirmisher.Position = grid.Point{X: sc.GridWidth - 2, Y: sc.GridHeight / 2}

		return combat.NewEngine(combat.EngineConfig{
			Participants: []*combat.Combatant{veteran, skirmisher},
			Grid:         g,
			Source:       src,
			Catalog:      catalog,
			TimeOfDay:    combat.TimeOfDay(sc.TimeOfDay),
			Underwater:   sc.Underwater,
		})
	}
}
