package item

import (
	"strings"

	"github.com/avalore/avasim/internal/game/character"
	"github.com/avalore/avasim/internal/game/dice"
)

// ArmorClass grades how heavy a suit of armor is.
type ArmorClass string

const (
	ArmorNone   ArmorClass = "none"
	ArmorLight  ArmorClass = "light"
	ArmorMedium ArmorClass = "medium"
	ArmorHeavy  ArmorClass = "heavy"
)

// Armor describes a worn suit. Soak is rolled per hit, not a flat value.
type Armor struct {
	Name            string         `yaml:"name"`
	Class           ArmorClass     `yaml:"class"`
	EvasionPenalty  int            `yaml:"evasion_penalty"`
	StealthPenalty  int            `yaml:"stealth_penalty"`
	MovementPenalty int            `yaml:"movement_penalty"`
	Requirements    map[string]int `yaml:"requirements"`
	Description     string         `yaml:"description"`
}

// SoakRoll rolls this hit's damage reduction: light 1d2-1, medium 1d3-1,
// heavy 1d3, all floored at 0. Wearers who miss the armor's requirements
// soak 1 less (still floored at 0).
func (a Armor) SoakRoll(src dice.Source, meetsRequirements bool) int {
	var soak int
	switch a.Class {
	case ArmorLight:
		soak = dice.Roll1D(src, 2) - 1
	case ArmorMedium:
		soak = dice.Roll1D(src, 3) - 1
	case ArmorHeavy:
		soak = dice.Roll1D(src, 3)
	default:
		return 0
	}
	if !meetsRequirements {
		soak--
	}
	if soak < 0 {
		soak = 0
	}
	return soak
}

// ProhibitsWeapon reports whether wearing this armor forbids the weapon.
// Heavy armor cannot draw longbows or recurve bows.
func (a Armor) ProhibitsWeapon(w Weapon) bool {
	if a.Class != ArmorHeavy {
		return false
	}
	return strings.Contains(w.Name, "Longbow") || strings.Contains(w.Name, "Recurve")
}

// MeetsRequirements reports whether sheet satisfies the armor's thresholds.
func (a Armor) MeetsRequirements(sheet character.Sheet) bool {
	return meetsRequirements(a.Requirements, sheet)
}

// MovementPenaltyFor returns the movement penalty the wearer suffers; it
// worsens by 2 when the wearer misses the armor's requirements.
func (a Armor) MovementPenaltyFor(sheet character.Sheet) int {
	penalty := a.MovementPenalty
	if !a.MeetsRequirements(sheet) {
		penalty -= 2
	}
	return penalty
}

// ShieldSize distinguishes bucklers from tower shields.
type ShieldSize string

const (
	ShieldSmall ShieldSize = "small"
	ShieldLarge ShieldSize = "large"
)

// BlockDC is the 2d10 threshold a shield block must meet.
const BlockDC = 12

// Shield describes a carried shield used for the Block stance.
type Shield struct {
	Name          string         `yaml:"name"`
	Size          ShieldSize     `yaml:"size"`
	BlockModifier int            `yaml:"block_modifier"`
	APImmunity    bool           `yaml:"ap_immunity"`
	RangedBonus   int            `yaml:"ranged_bonus"`
	Requirements  map[string]int `yaml:"requirements"`
	Description   string         `yaml:"description"`
}

// RollBlock rolls 2d10 + block modifier (+ ranged bonus against ranged
// attacks, + any extra bonus) and reports the final roll and whether it met
// the block DC of 12.
func (s Shield) RollBlock(src dice.Source, rangedAttack bool, extraBonus int) (roll int, success bool) {
	total, _ := dice.Roll2D10(src)
	roll = total + s.BlockModifier + extraBonus
	if rangedAttack {
		roll += s.RangedBonus
	}
	return roll, roll >= BlockDC
}

// MeetsRequirements reports whether sheet satisfies the shield's thresholds.
func (s Shield) MeetsRequirements(sheet character.Sheet) bool {
	return meetsRequirements(s.Requirements, sheet)
}
