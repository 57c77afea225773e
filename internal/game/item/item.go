// Package item holds the equipment and spell descriptors of the Avalore
// ruleset: weapons, armor, shields, and spells, with the built-in catalog
// plus an optional YAML overlay for homebrew content.
package item

import (
	"fmt"
	"strings"

	"github.com/avalore/avasim/internal/game/character"
)

// RangeBand classifies the distances a weapon can strike at.
type RangeBand string

const (
	BandMelee       RangeBand = "melee"
	BandSkirmishing RangeBand = "skirmishing"
	BandRanged      RangeBand = "ranged"
)

// Bounds returns the inclusive distance band in grid blocks: melee reaches
// adjacent tiles only, skirmishing 2-8, ranged 6-30.
func (b RangeBand) Bounds() (minDist, maxDist int) {
	switch b {
	case BandMelee:
		return 0, 1
	case BandSkirmishing:
		return 2, 8
	case BandRanged:
		return 6, 30
	default:
		panic(fmt.Sprintf("item: unknown range band %q", string(b)))
	}
}

// InBand reports whether a target at the given Manhattan distance is
// attackable with this band.
func (b RangeBand) InBand(distance int) bool {
	lo, hi := b.Bounds()
	return distance >= lo && distance <= hi
}

// Weapon traits referenced by the combat rules.
const (
	TraitGrazing            = "grazing"               // full damage on a graze
	TraitPiercing           = "piercing"              // bypasses armor soak
	TraitReach              = "reach"                 // threatens at distance 2
	TraitCleave             = "cleave"                // greataxe sweep rider
	TraitVsUnarmoredBonus   = "vs_unarmored_bonus"    // +1 damage vs no armor
	TraitVsMediumHeavyBonus = "vs_medium_heavy_bonus" // +2 damage vs medium/heavy
	TraitNoHeavyArmorDamage = "no_heavy_armor_damage" // nullified by heavy armor
	TraitHiddenOnMiss       = "hidden_on_miss"        // miss does not reveal a Hidden thrower
)

// Weapon describes an attack implement. The zero value is not usable; obtain
// weapons from a Catalog or construct them fully.
type Weapon struct {
	Name             string         `yaml:"name"`
	Damage           int            `yaml:"damage"`
	AccuracyBonus    int            `yaml:"accuracy_bonus"`
	ActionsRequired  int            `yaml:"actions_required"`
	RangeBand        RangeBand      `yaml:"range_band"`
	TwoHanded        bool           `yaml:"two_handed"`
	ArmorPiercing    bool           `yaml:"armor_piercing"`
	Requirements     map[string]int `yaml:"requirements"`
	UsableUnderwater bool           `yaml:"usable_underwater"`
	SmallWeapon      bool           `yaml:"small_weapon"`
	Reach            int            `yaml:"reach"`
	LoadTime         int            `yaml:"load_time"`
	DrawTime         int            `yaml:"draw_time"`
	Traits           []string       `yaml:"traits"`
	Description      string         `yaml:"description"`
}

// HasTrait reports whether the weapon carries the named trait.
func (w Weapon) HasTrait(trait string) bool {
	for _, t := range w.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// IsPiercing reports whether the weapon bypasses armor soak, either through
// the armor-piercing flag or the piercing trait.
func (w Weapon) IsPiercing() bool {
	return w.ArmorPiercing || w.HasTrait(TraitPiercing)
}

// EffectiveReach returns the distance in blocks at which the weapon threatens
// adjacent enemies, for opportunity-attack purposes.
func (w Weapon) EffectiveReach() int {
	reach := w.Reach
	if reach < 1 {
		reach = 1
	}
	if w.HasTrait(TraitReach) && reach < 2 {
		reach = 2
	}
	return reach
}

// MeetsRequirements reports whether sheet satisfies every stat/skill
// threshold of the weapon.
func (w Weapon) MeetsRequirements(sheet character.Sheet) bool {
	return meetsRequirements(w.Requirements, sheet)
}

// WithTrait returns a copy of the weapon with trait appended (no duplicate).
// The resolution engine uses this to derive one-off variants like a hilt
// strike that gains grazing.
func (w Weapon) WithTrait(trait string) Weapon {
	if w.HasTrait(trait) {
		return w
	}
	traits := make([]string, len(w.Traits), len(w.Traits)+1)
	copy(traits, w.Traits)
	w.Traits = append(traits, trait)
	return w
}

func meetsRequirements(reqs map[string]int, sheet character.Sheet) bool {
	for key, minVal := range reqs {
		stat, skill, ok := strings.Cut(key, ":")
		if !ok {
			panic(fmt.Sprintf("item: malformed requirement key %q", key))
		}
		if sheet.Modifier(stat, skill) < minVal {
			return false
		}
	}
	return true
}
