package item

// Spell describes a castable spell: anima cost, casting DC, and either a
// damage or healing payload. Spell damage is always armor piercing.
type Spell struct {
	Name               string    `yaml:"name"`
	Discipline         string    `yaml:"discipline"`
	AnimaCost          int       `yaml:"anima_cost"`
	ActionsRequired    int       `yaml:"actions_required"`
	CastingDC          int       `yaml:"casting_dc"`
	Damage             int       `yaml:"damage"`
	Healing            int       `yaml:"healing"`
	RangeBand          RangeBand `yaml:"range_band"`
	RequiresAttackRoll bool      `yaml:"requires_attack_roll"`
	Description        string    `yaml:"description"`
}

// CanAfford reports whether the given anima pool covers the spell's cost.
func (s Spell) CanAfford(anima int) bool {
	return anima >= s.AnimaCost
}
