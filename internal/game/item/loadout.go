package item

// Loadout limits: a combatant carries at most two primary weapons plus one
// small flexible weapon.
const (
	MaxPrimaryWeapons = 2
	MaxSmallFlex      = 1
)

// smallFlexWeapons are the weapons that occupy the flex slot instead of a
// primary slot.
var smallFlexWeapons = map[string]bool{
	"Throwing Knife": true,
	"Whip":           true,
	"Dagger":         true,
	"Meteor Hammer":  true,
}

// IsSmallFlex reports whether the named weapon occupies the flex slot.
func IsSmallFlex(name string) bool {
	return smallFlexWeapons[name]
}

// ValidateLoadout reports whether the named weapons fit the carry limits:
// at most MaxPrimaryWeapons primaries and MaxSmallFlex flex weapons.
func ValidateLoadout(names []string) bool {
	primary, flex := 0, 0
	for _, n := range names {
		if IsSmallFlex(n) {
			flex++
		} else {
			primary++
		}
	}
	return primary <= MaxPrimaryWeapons && flex <= MaxSmallFlex
}
