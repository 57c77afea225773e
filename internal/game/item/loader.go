package item

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDirectory overlays YAML content files from dir onto the built-in
// catalog. It reads weapons.yaml, armor.yaml, shields.yaml, and spells.yaml;
// each file holds a list of descriptors and each is optional. Entries replace
// built-in items with the same name, so a campaign can retune a stock weapon
// by redefining it.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Catalog, or an error if any file fails
// strict parsing (unknown fields are rejected).
func LoadDirectory(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	c := Default()
	var weapons []Weapon
	if err := loadList(filepath.Join(dir, "weapons.yaml"), &weapons); err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if w.Name == "" {
			return nil, fmt.Errorf("weapons.yaml: entry with empty name")
		}
		c.AddWeapon(w)
	}
	var armors []Armor
	if err := loadList(filepath.Join(dir, "armor.yaml"), &armors); err != nil {
		return nil, err
	}
	for _, a := range armors {
		if a.Name == "" {
			return nil, fmt.Errorf("armor.yaml: entry with empty name")
		}
		c.AddArmor(a)
	}
	var shields []Shield
	if err := loadList(filepath.Join(dir, "shields.yaml"), &shields); err != nil {
		return nil, err
	}
	for _, s := range shields {
		if s.Name == "" {
			return nil, fmt.Errorf("shields.yaml: entry with empty name")
		}
		c.AddShield(s)
	}
	var spells []Spell
	if err := loadList(filepath.Join(dir, "spells.yaml"), &spells); err != nil {
		return nil, err
	}
	for _, s := range spells {
		if s.Name == "" {
			return nil, fmt.Errorf("spells.yaml: entry with empty name")
		}
		c.AddSpell(s)
	}
	return c, nil
}

// loadList strictly decodes a YAML list file into out. A missing file is not
// an error; every catalog file is optional.
func loadList(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}
