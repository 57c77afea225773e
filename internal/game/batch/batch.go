// Package batch runs many independent combats and aggregates win rates,
// round counts, and damage totals.
package batch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avalore/avasim/internal/game/ai"
	"github.com/avalore/avasim/internal/game/combat"
	"github.com/avalore/avasim/internal/game/dice"
	"github.com/avalore/avasim/internal/observability"
)

// DrawResult is the recorded winner of a combat that hit the round cap or
// left no team standing.
const DrawResult = "Draw"

// DefaultMaxRounds caps a single combat before it is scored a draw.
const DefaultMaxRounds = 50

// Scenario builds a fresh engine for one trial. It must return a new engine
// with new combatants every call; trials share nothing but the
// configuration.
type Scenario func(src dice.Source) *combat.Engine

// Config controls a batch run.
type Config struct {
	// Trials is the number of combats to run.
	Trials int

	// MaxRounds caps each combat; 0 uses DefaultMaxRounds.
	MaxRounds int

	// BaseSeed makes the batch reproducible: trial i draws from a source
	// seeded BaseSeed+i. Zero uses crypto randomness per trial.
	BaseSeed int64

	// Workers fans trials out over goroutines; values below 2 run serially.
	Workers int

	// Strategies maps each team to the strategy driving its combatants.
	Strategies map[string]ai.Strategy
}

// CombatRecord is the outcome of one trial.
type CombatRecord struct {
	Trial  int
	Winner string
	Rounds int

	// DamageByTeam credits each team with the hit points its opponents
	// lost. Meaningful for two-sided scenarios.
	DamageByTeam map[string]int

	// SurvivorHP sums the remaining hit points of each team's living
	// combatants when the trial ended.
	SurvivorHP map[string]int
}

// Result aggregates a batch.
type Result struct {
	Trials    int
	WinCounts map[string]int
	WinRates  map[string]float64
	Draws     int
	AvgRounds float64
	AvgDamage map[string]float64
	Elapsed   time.Duration
	Records   []CombatRecord
}

// Summary renders the result as a short human-readable report.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d trials in %s, %.1f avg rounds, %d draws\n",
		r.Trials, r.Elapsed.Round(time.Millisecond), r.AvgRounds, r.Draws)
	teams := make([]string, 0, len(r.WinCounts))
	for t := range r.WinCounts {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	for _, t := range teams {
		fmt.Fprintf(&b, "  %s: %d wins (%.1f%%), %.1f avg damage\n",
			t, r.WinCounts[t], 100*r.WinRates[t], r.AvgDamage[t])
	}
	return b.String()
}

// Runner executes batches of one scenario.
type Runner struct {
	cfg      Config
	scenario Scenario
	logger   *zap.Logger
}

// NewRunner validates the configuration and builds a runner. A nil logger is
// replaced with a no-op.
func NewRunner(cfg Config, scenario Scenario, logger *zap.Logger) (*Runner, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("batch: trials must be positive, got %d", cfg.Trials)
	}
	if scenario == nil {
		return nil, fmt.Errorf("batch: scenario is required")
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	for team, s := range cfg.Strategies {
		switch s {
		case ai.StrategyAggressive, ai.StrategyDefensive, ai.StrategyBalanced, ai.StrategyRandom:
		default:
			return nil, fmt.Errorf("batch: team %q has unknown strategy %q", team, s)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, scenario: scenario, logger: logger}, nil
}

// Run executes every trial and aggregates the outcomes. Record order is by
// trial index regardless of worker interleaving.
func (r *Runner) Run() Result {
	start := time.Now()
	records := make([]CombatRecord, r.cfg.Trials)
	if r.cfg.Workers > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, r.cfg.Workers)
		for i := 0; i < r.cfg.Trials; i++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(trial int) {
				defer wg.Done()
				defer func() { <-sem }()
				records[trial] = r.runTrial(trial)
			}(i)
		}
		wg.Wait()
	} else {
		for i := 0; i < r.cfg.Trials; i++ {
			records[i] = r.runTrial(i)
		}
	}
	res := r.aggregate(records)
	res.Elapsed = time.Since(start)
	return res
}

func (r *Runner) trialSource(trial int) dice.Source {
	if r.cfg.BaseSeed == 0 {
		return dice.NewCryptoSource()
	}
	return dice.NewSeededSource(r.cfg.BaseSeed + int64(trial))
}

func (r *Runner) runTrial(trial int) CombatRecord {
	src := r.trialSource(trial)
	e := r.scenario(src)
	logger := observability.TrialLogger(r.logger, trial)

	agents := make(map[string]*ai.Agent)
	for _, p := range e.Participants() {
		if _, ok := agents[p.Team]; ok {
			continue
		}
		strategy, ok := r.cfg.Strategies[p.Team]
		if !ok {
			strategy = ai.StrategyBalanced
		}
		agents[p.Team] = ai.New(strategy, src, logger)
	}

	e.Begin()
	for !e.Ended() && e.Round() <= r.cfg.MaxRounds {
		c := e.Current()
		agents[c.Team].TakeTurn(e, c)
		e.AdvanceTurn()
	}

	winner := e.WinningTeam()
	if winner == "" || e.Round() > r.cfg.MaxRounds {
		winner = DrawResult
	}

	rec := CombatRecord{
		Trial:        trial,
		Winner:       winner,
		Rounds:       e.Round(),
		DamageByTeam: make(map[string]int),
		SurvivorHP:   make(map[string]int),
	}
	if rec.Rounds > r.cfg.MaxRounds {
		rec.Rounds = r.cfg.MaxRounds
	}
	for _, p := range e.Participants() {
		loss := p.MaxHP - p.HP
		for team := range agents {
			if team != p.Team {
				rec.DamageByTeam[team] += loss
			}
		}
		if p.Alive() {
			rec.SurvivorHP[p.Team] += p.HP
		}
	}
	logger.Debug("trial complete",
		zap.String("winner", winner),
		zap.Int("rounds", rec.Rounds))
	return rec
}

func (r *Runner) aggregate(records []CombatRecord) Result {
	res := Result{
		Trials:    len(records),
		WinCounts: make(map[string]int),
		WinRates:  make(map[string]float64),
		AvgDamage: make(map[string]float64),
		Records:   records,
	}
	totalRounds := 0
	damage := make(map[string]int)
	for _, rec := range records {
		totalRounds += rec.Rounds
		if rec.Winner == DrawResult {
			res.Draws++
		} else {
			res.WinCounts[rec.Winner]++
		}
		for team, d := range rec.DamageByTeam {
			damage[team] += d
		}
	}
	if res.Trials > 0 {
		res.AvgRounds = float64(totalRounds) / float64(res.Trials)
	}
	for team, wins := range res.WinCounts {
		res.WinRates[team] = float64(wins) / float64(res.Trials)
	}
	for team, d := range damage {
		res.AvgDamage[team] = float64(d) / float64(res.Trials)
	}
	return res
}
