package mana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCost(t *testing.T) {
	tests := []struct {
		input   string
		generic int
		white   int
		blue    int
		red     int
		green   int
		x       int
		hybrid  int
		cmc     int
	}{
		{input: "2 R R", generic: 2, red: 2, cmc: 4},
		{input: "2RR", generic: 2, red: 2, cmc: 4},
		{input: "{2}{R}{R}", generic: 2, red: 2, cmc: 4},
		{input: "X X G", x: 2, green: 1, cmc: 1},
		{input: "{X}{U}", x: 1, blue: 1, cmc: 1},
		{input: "W/U W/U", hybrid: 2, cmc: 2},
		{input: "2/W 2/W", hybrid: 2, cmc: 4},
		{input: "10", generic: 10, cmc: 10},
		{input: "0", cmc: 0},
		{input: "", cmc: 0},
		{input: "1 W U", generic: 1, white: 1, blue: 1, cmc: 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cost, err := ParseCost(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.generic, cost.Generic)
			assert.Equal(t, tt.white, cost.White)
			assert.Equal(t, tt.blue, cost.Blue)
			assert.Equal(t, tt.red, cost.Red)
			assert.Equal(t, tt.green, cost.Green)
			assert.Equal(t, tt.x, cost.X)
			assert.Len(t, cost.Hybrid, tt.hybrid)
			assert.Equal(t, tt.cmc, cost.ConvertedManaCost())
		})
	}
}

func TestParseCost_Invalid(t *testing.T) {
	for _, input := range []string{"Q", "{2}{K}", "W/U/B"} {
		_, err := ParseCost(input)
		assert.Error(t, err, input)
	}
}

func TestManaCost_String(t *testing.T) {
	tests := map[string]string{
		"{2}{R}{R}": "2 R R",
		"XG":        "X G",
		"W/U 1":     "1 W/U",
		"":          "0",
		"G U W":     "W U G",
	}
	for input, want := range tests {
		cost, err := ParseCost(input)
		require.NoError(t, err)
		assert.Equal(t, want, cost.String(), input)
	}

	cost, err := ParseCost("2 R")
	require.NoError(t, err)
	assert.Equal(t, "{2}{R}", cost.Braced())
	assert.False(t, cost.IsZero())
}

func TestManaCost_Colors(t *testing.T) {
	cost, err := ParseCost("1 W/U R")
	require.NoError(t, err)

	colors := cost.Colors()
	assert.True(t, colors.Has(White))
	assert.True(t, colors.Has(Blue))
	assert.True(t, colors.Has(Red))
	assert.False(t, colors.Has(Green))
	assert.Equal(t, "white blue red", colors.String())

	assert.True(t, ColorsOf("3").IsColorless())
}

func TestAddCosts(t *testing.T) {
	sum, err := AddCosts("2 G", "1 G")
	require.NoError(t, err)
	assert.Equal(t, "3 G G", sum)

	sum, err = AddCosts("0", "R")
	require.NoError(t, err)
	assert.Equal(t, "R", sum)

	_, err = AddCosts("2 G", "K")
	assert.Error(t, err)
}

func TestManaCost_Combine_DoesNotMutate(t *testing.T) {
	a, _ := ParseCost("W/U 1")
	b, _ := ParseCost("B/G")
	sum := a.Combine(b)

	assert.Len(t, sum.Hybrid, 2)
	assert.Len(t, a.Hybrid, 1)
	assert.Len(t, b.Hybrid, 1)
}

func TestManaCost_CanPay(t *testing.T) {
	pool := NewManaPool()
	pool.Add(ManaWhite, 1)
	pool.Add(ManaBlue, 2)
	pool.Add(ManaGreen, 1)

	tests := []struct {
		cost   string
		xValue int
		canPay bool
	}{
		{"G", 0, true},
		{"U U", 0, true},
		{"R", 0, false},
		{"3 G", 0, true},
		{"4 G", 0, false},
		{"X G", 0, true},
		{"X G", 3, true},
		{"X G", 4, false},
		{"X X G", 2, false},
		{"X G", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.cost, func(t *testing.T) {
			cost, err := ParseCost(tt.cost)
			require.NoError(t, err)
			assert.Equal(t, tt.canPay, cost.CanPay(pool, tt.xValue))
		})
	}
}
