package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalore/avasim/internal/game/character"
)

func TestStatBlockLookup(t *testing.T) {
	b := character.NewStatBlock("Maeve", map[string]int{
		"Strength:Athletics": 4,
		"Dexterity:Stealth":  -1,
	})
	assert.Equal(t, "Maeve", b.Name())
	assert.Equal(t, 4, b.Modifier("Strength", "Athletics"))
	assert.Equal(t, -1, b.Modifier("Dexterity", "Stealth"))
	assert.Equal(t, 0, b.Modifier("Harmony", "Arcana"), "unlisted pairings are untrained")
}

func TestStatBlockNilModifiers(t *testing.T) {
	b := character.NewStatBlock("Orrin", nil)
	assert.Equal(t, 0, b.Modifier("Dexterity", "Acrobatics"))
	b.SetModifier("Dexterity", "Acrobatics", 3)
	assert.Equal(t, 3, b.Modifier("Dexterity", "Acrobatics"))
}

func TestStatBlockCopiesInput(t *testing.T) {
	mods := map[string]int{"Strength:Athletics": 2}
	b := character.NewStatBlock("Tamsin", mods)
	mods["Strength:Athletics"] = 99
	assert.Equal(t, 2, b.Modifier("Strength", "Athletics"))
}

func TestStatBlockPanics(t *testing.T) {
	require.Panics(t, func() { character.NewStatBlock("", nil) })
	b := character.NewStatBlock("Maeve", nil)
	require.Panics(t, func() { b.Modifier("", "Athletics") })
	require.Panics(t, func() { b.Modifier("Strength", "") })
}
