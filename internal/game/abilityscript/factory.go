// Package abilityscript builds abilities from card scripts of the form
//
//	AB$ DealDamage | Cost$ 1 R T | ValidTgts$ Creature,Player | NumDmg$ 2 | SpellDescription$ ...
//
// SP$ scripts build spells, AB$ scripts activated abilities and DB$ scripts
// sub-abilities referenced through SubAbility$.
package abilityscript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/targeting"
)

// ErrUnknownAPI is returned for a script whose Api has no effect builder.
var ErrUnknownAPI = errors.New("unknown ability api")

// maxSubDepth bounds SubAbility$ chains so a self-referencing SVar cannot
// recurse forever.
const maxSubDepth = 8

var targetShorthands = map[string]string{
	"TgtCP":  "Creature,Player",
	"TgtC":   "Creature",
	"TgtP":   "Player",
	"TgtOpp": "Opponent",
}

// Factory turns scripts into abilities. It keeps no state and is safe for
// concurrent use.
type Factory struct {
	effects map[string]func(params map[string]string) card.Effect
}

// New returns a factory that knows the built-in Apis.
func New() *Factory {
	return &Factory{effects: map[string]func(map[string]string) card.Effect{
		"DealDamage": dealDamage,
		"GainLife":   gainLife,
		"LoseLife":   loseLife,
		"Draw":       draw,
		"Destroy":    destroy,
		"Tap":        tap,
		"PutCounter": putCounter,
	}}
}

// APIs returns the names of the supported Apis.
func (f *Factory) APIs() []string {
	names := make([]string, 0, len(f.effects))
	for name := range f.effects {
		names = append(names, name)
	}
	return names
}

// Ability builds the ability described by script for c. The returned
// ability is unattached.
func (f *Factory) Ability(script string, c *card.Instance) (*card.Ability, error) {
	return f.build(script, c, 0)
}

func (f *Factory) build(script string, c *card.Instance, depth int) (*card.Ability, error) {
	if depth > maxSubDepth {
		return nil, fmt.Errorf("script %q: sub-ability chain too deep", script)
	}
	params, err := card.ParseParams(script)
	if err != nil {
		return nil, err
	}

	a := &card.Ability{Params: params}
	var api string
	switch {
	case params["SP"] != "":
		a.Kind, api = card.KindSpell, params["SP"]
	case params["AB"] != "":
		a.Kind, api = card.KindActivated, params["AB"]
	case params["DB"] != "":
		a.Kind, api = card.KindActivated, params["DB"]
	default:
		return nil, fmt.Errorf("script %q: missing SP$, AB$ or DB$", script)
	}

	build, ok := f.effects[api]
	if !ok {
		return nil, fmt.Errorf("script %q: %w: %s", script, ErrUnknownAPI, api)
	}
	a.Tag = api
	a.Effect = build(params)

	costScript, hasCost := params["Cost"]
	if !hasCost && a.Kind == card.KindSpell {
		costScript = c.ManaCost
	}
	if a.Cost, err = card.ParseCost(costScript); err != nil {
		return nil, fmt.Errorf("script %q: %w", script, err)
	}

	if a.Targets, err = targetRequirement(params); err != nil {
		return nil, fmt.Errorf("script %q: %w", script, err)
	}

	a.SorcerySpeed = params["SorcerySpeed"] == "True"
	if zone := params["ActivationZone"]; zone != "" {
		a.ActivationZone = card.Zone(zone)
	}
	a.AIDisabled = params["AILogic"] == "Never"

	desc := strings.ReplaceAll(params["SpellDescription"], "CARDNAME", c.Name)
	switch {
	case a.Kind == card.KindActivated && params["AB"] != "":
		a.Description = a.Cost.Describe(c.Name) + ": " + desc
	default:
		a.Description = desc
	}
	a.StackDescription = c.Name + " - " + desc

	if sub := params["SubAbility"]; sub != "" {
		subScript := c.SVar(sub)
		if subScript == "" {
			return nil, fmt.Errorf("script %q: sub-ability SVar %s is missing", script, sub)
		}
		if a.Sub, err = f.build(subScript, c, depth+1); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func targetRequirement(params map[string]string) (*targeting.TargetRequirement, error) {
	valid := params["ValidTgts"]
	if short, ok := targetShorthands[params["Tgt"]]; ok && valid == "" {
		valid = short
	}
	if valid == "" {
		return nil, nil
	}
	req, err := targeting.NewRequirement(valid, params["TargetMin"], params["TargetMax"], params["TgtPrompt"])
	if err != nil {
		return nil, err
	}
	return &req, nil
}
