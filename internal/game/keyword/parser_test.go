package keyword

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOne(t *testing.T) {
	tests := []struct {
		raw    string
		kind   Kind
		params []string
	}{
		{"CARDNAME enters the battlefield tapped.", ETBTapped, nil},
		{"CARDNAME enters the battlefield tapped unless you control two or fewer other lands.", ETBTappedUnlessFewLands, nil},
		{"CARDNAME enters the battlefield tapped unless you control a Swamp or a Forest.", ETBTappedUnlessControl, []string{"Swamp", "Forest"}},
		{"CARDNAME enters the battlefield tapped unless you control an Island or an Plains.", ETBTappedUnlessControl, []string{"Island", "Plains"}},
		{"Sunburst", Sunburst, nil},
		{"SearchRebel:2 W", SearchRebel, []string{"2 W"}},
		{"Morph:4 U U", Morph, []string{"4 U U"}},
		{"Unearth:B", Unearth, []string{"B"}},
		{"Madness:1 R", Madness, []string{"1 R"}},
		{"Devour:2", Devour, []string{"2"}},
		{"Modular 3", Modular, []string{"3"}},
		{"Modular:1", Modular, []string{"1"}},
		{"etbCounter:P1P1:2", ETBCounter, []string{"P1P1", "2", "", ""}},
		{"etbCounter:CHARGE:X:Kicked:It enters with X charge counters.", ETBCounter, []string{"CHARGE", "X", "Kicked", "It enters with X charge counters."}},
		{"Bloodthirst 2", Bloodthirst, []string{"2"}},
		{"Kicker:1 G", Kicker, []string{"1 G"}},
		{"Multikicker 1 G", Multikicker, []string{"1 G"}},
		{"Replicate 1 U", Replicate, []string{"1 U"}},
		{"Evoke:1 W", Evoke, []string{"1 W"}},
		{"Cycling:2", Cycling, []string{"2"}},
		{"TypeCycling:Mountain:2", TypeCycling, []string{"Mountain", "2"}},
		{"Flashback:3 R", Flashback, []string{"3 R"}},
		{"Transmute:1 B B", Transmute, []string{"1 B B"}},
		{"Soulshift:4", Soulshift, []string{"4"}},
		{"Echo:3 G", Echo, []string{"3 G"}},
		{"HandSize Add 2 Opponent", HandSize, []string{"Add", "2", "Opponent"}},
		{"HandSize = INF Self", HandSize, []string{"=", "INF", "Self"}},
		{"Suspend:3:2R", Suspend, []string{"3", "2R"}},
		{"CARDNAME is blue.", IsColor, []string{"blue"}},
		{"Fading:3", Fading, []string{"3"}},
		{"Vanishing:2", Vanishing, []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, ok, err := ParseOne(tt.raw)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.raw, d.Raw)
			assert.Equal(t, tt.params, d.Params)
		})
	}
}

func TestParseOne_Unknown(t *testing.T) {
	for _, raw := range []string{"Flying", "CARDNAME is unblockable.", "(Echo unpaid)", "Trample", ""} {
		_, ok, err := ParseOne(raw)
		assert.NoError(t, err, raw)
		assert.False(t, ok, raw)
	}
}

func TestParseOne_Malformed(t *testing.T) {
	for _, raw := range []string{
		"Soulshift:X",
		"Devour",
		"Fading:-1",
		"Suspend:three:2R",
		"Suspend:3",
		"Suspend:3:Q",
		"HandSize Add lots Opponent",
		"HandSize Add 2 Everyone",
		"HandSize Multiply 2 Self",
		"etbCounter:BANANA:1",
		"etbCounter:P1P1:many",
		"Bloodthirst",
		"Modular two",
		"Kicker:",
		"Multikicker",
		"TypeCycling:Swamp",
	} {
		_, ok, err := ParseOne(raw)
		require.Error(t, err, raw)
		assert.True(t, ok, raw)
		assert.True(t, errors.Is(err, ErrMalformed), raw)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, raw, pe.Raw)
	}
}

func TestParse_KeepsGoodDirectivesAndOrder(t *testing.T) {
	raw := []string{"Flying", "Soulshift:1", "Soulshift:X", "Soulshift:2", "Haste", "Kicker:2"}
	before := append([]string(nil), raw...)

	directives, err := Parse(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Equal(t, before, raw, "input must not change")

	require.Len(t, directives, 3)
	assert.Equal(t, Soulshift, directives[0].Kind)
	assert.Equal(t, 1, directives[0].Index)
	assert.Equal(t, "2", directives[1].Param(0))
	assert.Equal(t, 3, directives[1].Index)
	assert.Equal(t, Kicker, directives[2].Kind)
	assert.Equal(t, "", directives[2].Param(5))

	n, err := directives[1].Int(0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestKindProperties(t *testing.T) {
	assert.Equal(t, Post, Suspend.Phase())
	assert.Equal(t, Early, Devour.Phase())
	assert.True(t, Soulshift.Repeatable())
	assert.False(t, Kicker.Repeatable())
	assert.Equal(t, "HandSize", HandSize.String())
}
