package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	targets []TargetInfo
}

func (f *fakeState) FindTarget(id string) (TargetInfo, bool) {
	for _, t := range f.targets {
		if t.ID == id {
			return t, true
		}
	}
	return TargetInfo{}, false
}

func (f *fakeState) Candidates() []TargetInfo { return f.targets }

func newFakeState() *fakeState {
	return &fakeState{targets: []TargetInfo{
		{ID: "human", IsPlayer: true},
		{ID: "computer", IsPlayer: true},
		{ID: "1", Name: "Grizzly Bears", Types: []string{"Creature", "Bear"}, Colors: []string{"green"}, Controller: "human", Owner: "human", Zone: "Battlefield"},
		{ID: "2", Name: "Goblin Piker", Types: []string{"Creature", "Goblin"}, Colors: []string{"red"}, Controller: "computer", Owner: "computer", Zone: "Battlefield", Tapped: true},
		{ID: "3", Name: "Ornithopter", Types: []string{"Artifact", "Creature", "Thopter"}, Controller: "computer", Owner: "computer", Zone: "Battlefield"},
		{ID: "4", Name: "Forest", Types: []string{"Land"}, Controller: "human", Owner: "human", Zone: "Battlefield"},
		{ID: "5", Name: "Shock", Types: []string{"Instant"}, Colors: []string{"red"}, Controller: "human", Owner: "human", Zone: "Hand"},
	}}
}

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters("Creature.OppCtrl+tapped,Player")
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, "Creature", filters[0].Type)
	assert.Equal(t, []string{"OppCtrl", "tapped"}, filters[0].Props)
	assert.Equal(t, "Creature.OppCtrl+tapped", filters[0].String())
	assert.True(t, filters[1].IsPlayerFilter())

	_, err = ParseFilters("")
	assert.ErrorIs(t, err, ErrNoFilter)
	_, err = ParseFilters("Creature,,Player")
	assert.Error(t, err)
}

func TestNewRequirement(t *testing.T) {
	req, err := NewRequirement("Creature,Player", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, req.MinTargets)
	assert.Equal(t, 1, req.MaxTargets)
	assert.Equal(t, "Select target creature or player", req.Prompt)
	assert.True(t, req.AllowsPlayers())

	req, err = NewRequirement("Artifact", "0", "3", "Choose artifacts")
	require.NoError(t, err)
	assert.Equal(t, 0, req.MinTargets)
	assert.Equal(t, 3, req.MaxTargets)
	assert.Equal(t, "Choose artifacts", req.Prompt)

	_, err = NewRequirement("Artifact", "2", "1", "")
	assert.Error(t, err)
	_, err = NewRequirement("Artifact", "x", "", "")
	assert.Error(t, err)
}

func TestLegalTargets(t *testing.T) {
	v := NewTargetValidator(newFakeState())
	ctx := Context{SourceID: "1", Controller: "human"}

	ids := func(infos []TargetInfo) []string {
		var out []string
		for _, i := range infos {
			out = append(out, i.ID)
		}
		return out
	}

	tests := []struct {
		expr string
		want []string
	}{
		{"Creature", []string{"1", "2", "3"}},
		{"Creature.Other", []string{"2", "3"}},
		{"Creature.OppCtrl+untapped", []string{"3"}},
		{"Creature.nonArtifact", []string{"1", "2"}},
		{"Creature.nonRed", []string{"1", "3"}},
		{"Creature.Colorless", []string{"3"}},
		{"Permanent.YouCtrl", []string{"1", "4"}},
		{"Card.Red", []string{"2", "5"}},
		{"Opponent", []string{"computer"}},
		{"Creature,Player", []string{"human", "computer", "1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			req, err := NewRequirement(tt.expr, "", "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(v.LegalTargets(req, ctx)))
		})
	}
}

func TestValidateTargetSelection(t *testing.T) {
	v := NewTargetValidator(newFakeState())
	ctx := Context{SourceID: "5", Controller: "human"}
	req, err := NewRequirement("Creature,Player", "1", "2", "")
	require.NoError(t, err)

	assert.NoError(t, v.ValidateTargetSelection(&TargetSelection{Targets: []string{"2", "computer"}, Requirement: req}, ctx))
	assert.Error(t, v.ValidateTargetSelection(&TargetSelection{Targets: []string{"4"}, Requirement: req}, ctx))
	assert.Error(t, v.ValidateTargetSelection(&TargetSelection{Targets: []string{"2", "2"}, Requirement: req}, ctx))
	assert.Error(t, v.ValidateTargetSelection(&TargetSelection{Targets: []string{}, Requirement: req}, ctx))
	assert.Error(t, v.ValidateTargetSelection(&TargetSelection{Targets: []string{"99"}, Requirement: req}, ctx))
	assert.False(t, (&TargetSelection{Requirement: req}).IsComplete())

	assert.Equal(t, []string{"1", "human"}, ParseTargets(FormatTargets([]string{"1", "human"})))
	assert.Empty(t, ParseTargets(""))
}
