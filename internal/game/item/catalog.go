package item

import (
	"fmt"
	"sort"
)

// Catalog is a named collection of weapons, armor, shields, and spells.
// Lookups return copies, so callers can derive one-off variants without
// mutating shared tables.
type Catalog struct {
	weapons map[string]Weapon
	armor   map[string]Armor
	shields map[string]Shield
	spells  map[string]Spell
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		weapons: make(map[string]Weapon),
		armor:   make(map[string]Armor),
		shields: make(map[string]Shield),
		spells:  make(map[string]Spell),
	}
}

// AddWeapon stores or replaces a weapon under its name.
func (c *Catalog) AddWeapon(w Weapon) { c.weapons[w.Name] = w }

// AddArmor stores or replaces an armor under its name.
func (c *Catalog) AddArmor(a Armor) { c.armor[a.Name] = a }

// AddShield stores or replaces a shield under its name.
func (c *Catalog) AddShield(s Shield) { c.shields[s.Name] = s }

// AddSpell stores or replaces a spell under its name.
func (c *Catalog) AddSpell(s Spell) { c.spells[s.Name] = s }

// Weapon looks up a weapon by name.
func (c *Catalog) Weapon(name string) (Weapon, bool) {
	w, ok := c.weapons[name]
	return w, ok
}

// MustWeapon returns the named weapon.
//
// Precondition: the weapon exists. Panics with the unknown name otherwise.
func (c *Catalog) MustWeapon(name string) Weapon {
	w, ok := c.weapons[name]
	if !ok {
		panic(fmt.Sprintf("item: unknown weapon %q", name))
	}
	return w
}

// Armor looks up an armor by name.
func (c *Catalog) Armor(name string) (Armor, bool) {
	a, ok := c.armor[name]
	return a, ok
}

// MustArmor returns the named armor.
//
// Precondition: the armor exists. Panics with the unknown name otherwise.
func (c *Catalog) MustArmor(name string) Armor {
	a, ok := c.armor[name]
	if !ok {
		panic(fmt.Sprintf("item: unknown armor %q", name))
	}
	return a
}

// Shield looks up a shield by name.
func (c *Catalog) Shield(name string) (Shield, bool) {
	s, ok := c.shields[name]
	return s, ok
}

// MustShield returns the named shield.
//
// Precondition: the shield exists. Panics with the unknown name otherwise.
func (c *Catalog) MustShield(name string) Shield {
	s, ok := c.shields[name]
	if !ok {
		panic(fmt.Sprintf("item: unknown shield %q", name))
	}
	return s
}

// Spell looks up a spell by name.
func (c *Catalog) Spell(name string) (Spell, bool) {
	s, ok := c.spells[name]
	return s, ok
}

// MustSpell returns the named spell.
//
// Precondition: the spell exists. Panics with the unknown name otherwise.
func (c *Catalog) MustSpell(name string) Spell {
	s, ok := c.spells[name]
	if !ok {
		panic(fmt.Sprintf("item: unknown spell %q", name))
	}
	return s
}

// WeaponCount returns the number of weapons in the catalog.
func (c *Catalog) WeaponCount() int { return len(c.weapons) }

// WeaponNames returns every weapon name in sorted order.
func (c *Catalog) WeaponNames() []string {
	names := make([]string, 0, len(c.weapons))
	for name := range c.weapons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpellNames returns every spell name in sorted order.
func (c *Catalog) SpellNames() []string {
	names := make([]string, 0, len(c.spells))
	for name := range c.spells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a catalog preloaded with the standard Avalore equipment
// and spell tables.
func Default() *Catalog {
	c := NewCatalog()
	for _, w := range defaultWeapons {
		c.AddWeapon(w)
	}
	for _, a := range defaultArmor {
		c.AddArmor(a)
	}
	for _, s := range defaultShields {
		c.AddShield(s)
	}
	for _, s := range defaultSpells {
		c.AddSpell(s)
	}
	return c
}

var defaultWeapons = []Weapon{
	{Name: "Dagger", Damage: 3, AccuracyBonus: 3, ActionsRequired: 1, RangeBand: BandMelee,
		SmallWeapon: true, Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Acrobatics": -1},
		Description:  "A small blade, easily concealed. +3 to hit, 3 damage. Can be dual-wielded."},
	{Name: "Arming Sword", Damage: 4, AccuracyBonus: 1, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, UsableUnderwater: true,
		Description: "A well-balanced one-handed sword. +1 to hit, 4 damage."},
	{Name: "Rapier", Damage: 3, AccuracyBonus: 3, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Finesse": 2},
		Traits:       []string{TraitGrazing, TraitVsUnarmoredBonus},
		Description:  "A thin, precise blade; +3 to hit, bypasses grazing, +1 damage vs unarmored."},
	{Name: "Mace", Damage: 3, AccuracyBonus: 1, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, UsableUnderwater: true,
		Traits:      []string{TraitVsMediumHeavyBonus},
		Description: "A heavy blunt weapon. +2 dmg vs medium/heavy armor."},
	{Name: "Greatsword", Damage: 8, AccuracyBonus: 1, ActionsRequired: 2, RangeBand: BandMelee,
		TwoHanded: true, Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Strength:Athletics": 2},
		Description:  "A massive two-handed sword. +1 to hit, 8 damage, requires 2 actions (Lift/Strike)."},
	{Name: "Greataxe", Damage: 8, AccuracyBonus: 0, ActionsRequired: 2, RangeBand: BandMelee,
		TwoHanded: true, Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Strength:Athletics": 2},
		Traits:       []string{TraitCleave},
		Description:  "Heavy two-handed axe; brutal swings, 2 actions."},
	{Name: "Spear", Damage: 6, AccuracyBonus: 2, ActionsRequired: 2, RangeBand: BandSkirmishing,
		TwoHanded: true, Reach: 2, UsableUnderwater: true,
		Traits:      []string{TraitPiercing, TraitReach},
		Description: "A polearm with reach; 2 actions (lift/strike)."},
	{Name: "Polearm", Damage: 6, AccuracyBonus: 2, ActionsRequired: 2, RangeBand: BandSkirmishing,
		TwoHanded: true, Reach: 2, UsableUnderwater: true,
		Traits:      []string{TraitPiercing, TraitReach},
		Description: "Two-handed reach weapon; +2 to hit, 6 damage, 2 actions (Lift/Strike), pierces armor."},
	{Name: "Javelin", Damage: 5, AccuracyBonus: 1, ActionsRequired: 2, RangeBand: BandSkirmishing,
		Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Acrobatics": 1, "Strength:Athletics": 1},
		Traits:       []string{TraitPiercing},
		Description:  "A throwing spear, works underwater. 5 damage, 2 actions."},
	{Name: "Sling", Damage: 6, AccuracyBonus: 1, ActionsRequired: 2, RangeBand: BandSkirmishing,
		TwoHanded: true, Reach: 1, LoadTime: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Acrobatics": 1},
		Description:  "A sling for hurling stones. +1 to hit, 6 damage, 2 actions (1 to load), requires DEX:Acrobatics +1."},
	{Name: "Longbow", Damage: 6, AccuracyBonus: 3, ActionsRequired: 2, RangeBand: BandRanged,
		TwoHanded: true, Reach: 1, DrawTime: 1,
		Requirements: map[string]int{"Strength:Athletics": 1, "Dexterity:Acrobatics": 1},
		Description:  "A powerful longbow. +3 to hit, 6 damage, 2 actions (1 action to draw). Cannot be used in heavy armor or underwater."},
	{Name: "Recurve Bow", Damage: 3, AccuracyBonus: 2, ActionsRequired: 1, RangeBand: BandRanged,
		TwoHanded: true, Reach: 1,
		Requirements: map[string]int{"Dexterity:Finesse": 1},
		Traits:       []string{TraitVsUnarmoredBonus, TraitGrazing},
		Description:  "A lighter bow. +2 to hit, 3 damage (+1 vs unarmored), 1 action. Cannot be used in heavy armor."},
	{Name: "Crossbow", Damage: 5, AccuracyBonus: 3, ActionsRequired: 2, RangeBand: BandRanged,
		TwoHanded: true, Reach: 1, LoadTime: 1, ArmorPiercing: true, UsableUnderwater: true,
		Requirements: map[string]int{"Strength:Athletics": 1},
		Traits:       []string{TraitPiercing},
		Description:  "A crossbow with AP. Works underwater. +3 to hit, 5 damage, 2 actions (1 action to reload)."},
	{Name: "Unarmed", Damage: 2, AccuracyBonus: 2, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, UsableUnderwater: true,
		Description: "Fists and natural weapons. +2 to hit, damage scales with STR:Athletics."},
	{Name: "Staff", Damage: 5, AccuracyBonus: 2, ActionsRequired: 2, RangeBand: BandMelee,
		Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Acrobatics": 2},
		Traits:       []string{TraitGrazing},
		Description:  "A quarterstaff. +2 to hit, 5 damage, 2 actions (Lift & Strike), bypasses grazing."},
	{Name: "Whip", Damage: 3, AccuracyBonus: 3, ActionsRequired: 1, RangeBand: BandSkirmishing,
		Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Finesse": 1},
		Traits:       []string{TraitVsUnarmoredBonus, TraitGrazing, TraitNoHeavyArmorDamage},
		Description:  "A flexible whip. +3 to hit, 3 damage (+1 vs unarmored), 1 action. Cannot penetrate heavy armor."},
	{Name: "Meteor Hammer", Damage: 3, AccuracyBonus: 2, ActionsRequired: 1, RangeBand: BandSkirmishing,
		SmallWeapon: true, Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Acrobatics": 1},
		Traits:       []string{TraitVsMediumHeavyBonus},
		Description:  "A chain weapon. +2 to hit, 3 damage (+1 vs medium/heavy armor), 1 action."},
	{Name: "Throwing Knife", Damage: 4, AccuracyBonus: 1, ActionsRequired: 1, RangeBand: BandSkirmishing,
		Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Dexterity:Acrobatics": 0},
		Traits:       []string{TraitHiddenOnMiss},
		Description:  "A throwing weapon. +1 to hit, 4 damage, 1 action. Does not reveal Hidden thrower on miss."},
	{Name: "Small Shield", Damage: 3, AccuracyBonus: 1, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, ArmorPiercing: true, UsableUnderwater: true,
		Requirements: map[string]int{"Strength:Athletics": 0, "Strength:Fortitude": 1},
		Traits:       []string{TraitPiercing, TraitGrazing},
		Description:  "Shield bash. +1 to hit, 3 damage, 1 action. Pierces armor and bypasses grazing."},
	{Name: "Large Shield", Damage: 2, AccuracyBonus: 0, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, ArmorPiercing: true, UsableUnderwater: true,
		Requirements: map[string]int{"Strength:Athletics": 2, "Strength:Fortitude": 2},
		Traits:       []string{TraitPiercing},
		Description:  "Large shield bash. +0 to hit, 2 damage, 1 action. Pierces armor."},
	{Name: "Spellblade", Damage: 4, AccuracyBonus: 1, ActionsRequired: 1, RangeBand: BandMelee,
		Reach: 1, UsableUnderwater: true,
		Requirements: map[string]int{"Harmony:Arcana": 2, "Strength:Athletics": 0},
		Description:  "A magically-infused blade. +1 to hit, 4 damage, 1 action."},
	{Name: "Arcane Wand", Damage: 2, AccuracyBonus: 2, ActionsRequired: 1, RangeBand: BandSkirmishing,
		Reach: 1, ArmorPiercing: true, UsableUnderwater: true,
		Requirements: map[string]int{"Harmony:Arcana": 2},
		Traits:       []string{TraitPiercing},
		Description:  "A magical wand. +2 to hit, 2 damage, 1 action. Pierces armor, works underwater."},
	{Name: "Spellbook", Damage: 4, AccuracyBonus: 3, ActionsRequired: 2, RangeBand: BandRanged,
		TwoHanded: true, Reach: 1, ArmorPiercing: true, UsableUnderwater: true,
		Requirements: map[string]int{"Harmony:Arcana": 2},
		Traits:       []string{TraitPiercing},
		Description:  "Arcane tome for casting. +3 to hit, 4 damage, 2 actions. Pierces armor, works underwater."},
}

var defaultArmor = []Armor{
	{Name: "Light Armor", Class: ArmorLight,
		Requirements: map[string]int{"Dexterity:Acrobatics": -1},
		Description:  "Leather or padded armor. 1d2-1 protection, no penalties."},
	{Name: "Medium Armor", Class: ArmorMedium, EvasionPenalty: -1,
		Requirements: map[string]int{"Strength:Athletics": 1},
		Description:  "Breastplate or half-plate. 1d3-1 protection, -1 evasion."},
	{Name: "Heavy Armor", Class: ArmorHeavy, EvasionPenalty: -2, StealthPenalty: -3, MovementPenalty: -1,
		Requirements: map[string]int{"Strength:Athletics": 3},
		Description:  "Full plate. 1d3 protection, -2 evasion, -3 stealth, -1 movement."},
}

var defaultShields = []Shield{
	{Name: "Small Shield", Size: ShieldSmall, BlockModifier: -3, RangedBonus: 1,
		Requirements: map[string]int{"Dexterity:Finesse": 2, "Strength:Athletics": 2},
		Description:  "A buckler. 2d10-3 to block, requires DEX:Finesse 2 and STR:Athletics 2."},
	{Name: "Large Shield", Size: ShieldLarge, BlockModifier: -2, APImmunity: true, RangedBonus: 1,
		Requirements: map[string]int{"Strength:Athletics": 2, "Strength:Fortitude": 2},
		Description:  "A tower shield. 2d10-2 to block, grants AP immunity, requires STR:Athletics 2 and STR:Fortitude 2."},
}

var defaultSpells = []Spell{
	{Name: "Force Bolt", Discipline: "Force", AnimaCost: 1, ActionsRequired: 1, CastingDC: 10,
		Damage: 4, RangeBand: BandRanged,
		Description: "A bolt of force energy. Auto-hits on successful cast. 4 damage."},
	{Name: "Healing Touch", Discipline: "Ichor", AnimaCost: 2, ActionsRequired: 1, CastingDC: 10,
		Healing: 5, RangeBand: BandMelee,
		Description: "Restore 5 HP to target."},
	{Name: "Firebolt", Discipline: "Force", AnimaCost: 2, ActionsRequired: 1, CastingDC: 10,
		Damage: 6, RangeBand: BandRanged,
		Description: "A bolt of fire. 6 fire damage on successful cast."},
}
