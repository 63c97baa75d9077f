package cardb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const twoCards = `
name: Lightning Bolt
mana_cost: R
types: [Instant]
abilities:
  - "SP$ DealDamage | Cost$ R | ValidTgts$ Creature,Player | NumDmg$ 3 | SpellDescription$ CARDNAME deals 3 damage to target creature or player."
sets:
  - code: LEA
    rarity: C
---
name: Grizzly Bears
mana_cost: 1 G
types: [Creature, Bear]
power: "2"
toughness: "2"
`

func TestLoadYAML(t *testing.T) {
	store, err := LoadYAML(strings.NewReader(twoCards), "test.yaml", "Chaos Orb")
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"Grizzly Bears", "Lightning Bolt"}, store.Names())

	bolt, err := store.Lookup("Lightning Bolt")
	require.NoError(t, err)
	assert.Equal(t, "R", bolt.ManaCost)
	assert.True(t, bolt.IsType("instant"))
	require.Len(t, bolt.Sets, 1)
	assert.Equal(t, "LEA", bolt.Sets[0].Code)
	assert.Len(t, bolt.Abilities, 1)

	bears, err := store.Lookup("Grizzly Bears")
	require.NoError(t, err)
	assert.Equal(t, "Creature Bear", bears.TypeLine())

	assert.True(t, store.Removed("Chaos Orb"))
	assert.False(t, store.Removed("Grizzly Bears"))
}

func TestStore_LookupUnknown(t *testing.T) {
	store, err := FromTemplates(&Template{Name: "Island", Types: []string{"Basic", "Land", "Island"}})
	require.NoError(t, err)

	_, err = store.Lookup("Black Lotus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCard))

	var unknown *UnknownCardError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Black Lotus", unknown.Name)
}

func TestStore_AllIsSortedAndRestartable(t *testing.T) {
	store, err := FromTemplates(
		&Template{Name: "Shock", ManaCost: "R"},
		&Template{Name: "Giant Growth", ManaCost: "G"},
		&Template{Name: "Ancestral Recall", ManaCost: "U"},
	)
	require.NoError(t, err)

	collect := func() []string {
		var names []string
		for tmpl := range store.All() {
			names = append(names, tmpl.Name)
		}
		return names
	}
	want := []string{"Ancestral Recall", "Giant Growth", "Shock"}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect())

	var first []string
	for tmpl := range store.All() {
		first = append(first, tmpl.Name)
		break
	}
	assert.Equal(t, []string{"Ancestral Recall"}, first)
}

func TestNewStore_MalformedRowsAbort(t *testing.T) {
	tests := map[string][]*Template{
		"missing name":   {{Name: ""}},
		"duplicate name": {{Name: "Shock"}, {Name: "Shock"}},
		"bad mana cost":  {{Name: "Shock", ManaCost: "Q"}},
	}
	for name, templates := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromTemplates(templates...)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "memory", loadErr.Source)
			assert.Positive(t, loadErr.Row)
		})
	}

	_, err := LoadYAML(strings.NewReader("name: [unterminated"), "broken.yaml")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken.yaml", loadErr.Source)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(twoCards), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "island.yml"), []byte("name: Island\ntypes: [Basic, Land, Island]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644))

	store, err := LoadDir(context.Background(), dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.True(t, slices.Contains(store.Names(), "Island"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.yaml"), []byte("name: Island\n"), 0o644))
	_, err = LoadDir(context.Background(), dir, zaptest.NewLogger(t))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)

	_, err = LoadDir(context.Background(), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoCards), 0o644))

	store, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
