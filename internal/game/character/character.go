// Package character defines the capability contract combatants expose to the
// combat engine: a display name and stat/skill modifiers.
package character

import "fmt"

// Sheet is the minimal view of a character the combat rules need. The engine
// never inspects a full character record; everything it asks for flows
// through modifier lookups such as ("Dexterity", "Acrobatics") for evasion or
// ("Harmony", "Arcana") for spellcasting.
type Sheet interface {
	// Name returns the character's display name.
	Name() string

	// Modifier returns the combined modifier for a stat/skill pairing.
	//
	// Precondition: the pairing is known to the sheet. Unknown pairings are
	// programmer errors and panic.
	Modifier(stat, skill string) int
}

// StatBlock is a map-backed Sheet keyed "Stat:Skill". Pairings absent from
// the map resolve to 0, so sparse blocks only list what differs from an
// untrained character.
type StatBlock struct {
	name      string
	modifiers map[string]int
}

// NewStatBlock creates a StatBlock. The modifiers map is keyed "Stat:Skill"
// (e.g. "Strength:Athletics"); a nil map means every modifier is 0.
//
// Precondition: name is non-empty. Panics otherwise.
func NewStatBlock(name string, modifiers map[string]int) *StatBlock {
	if name == "" {
		panic("character: NewStatBlock requires a non-empty name")
	}
	copied := make(map[string]int, len(modifiers))
	for k, v := range modifiers {
		copied[k] = v
	}
	return &StatBlock{name: name, modifiers: copied}
}

// Name returns the character's display name.
func (b *StatBlock) Name() string { return b.name }

// Modifier returns the modifier stored under "stat:skill", or 0 when the
// pairing is not listed.
//
// Precondition: stat and skill are non-empty. Panics otherwise.
func (b *StatBlock) Modifier(stat, skill string) int {
	if stat == "" || skill == "" {
		panic(fmt.Sprintf("character: malformed modifier lookup %q:%q", stat, skill))
	}
	return b.modifiers[stat+":"+skill]
}

// SetModifier stores or replaces the modifier for a stat/skill pairing.
func (b *StatBlock) SetModifier(stat, skill string, value int) {
	b.modifiers[stat+":"+skill] = value
}
