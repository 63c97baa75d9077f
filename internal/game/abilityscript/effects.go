package abilityscript

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
)

func dealDamage(params map[string]string) card.Effect {
	return func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		n := amount(g, a, params["NumDmg"], 0)
		targets := a.ChosenTargets
		if len(targets) == 0 {
			for _, p := range definedPlayers(g, a, src, params["Defined"], "") {
				targets = append(targets, string(p))
			}
		}
		for _, t := range targets {
			if err := g.DealDamage(src, t, n); err != nil {
				return err
			}
		}
		return nil
	}
}

func gainLife(params map[string]string) card.Effect {
	return func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		n := amount(g, a, params["LifeAmount"], 1)
		for _, p := range definedPlayers(g, a, src, params["Defined"], "You") {
			g.GainLife(p, n)
		}
		return nil
	}
}

func loseLife(params map[string]string) card.Effect {
	return func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		n := amount(g, a, params["LifeAmount"], 1)
		for _, p := range definedPlayers(g, a, src, params["Defined"], "You") {
			g.LoseLife(p, n)
		}
		return nil
	}
}

func draw(params map[string]string) card.Effect {
	return func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		n := amount(g, a, params["NumCards"], 1)
		for _, p := range definedPlayers(g, a, src, params["Defined"], "You") {
			if err := g.DrawCards(p, n); err != nil {
				return err
			}
		}
		return nil
	}
}

func destroy(params map[string]string) card.Effect {
	return func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		for _, c := range definedCards(g, a, src, params["Defined"]) {
			if g.ZoneOf(c.ID()) != card.ZoneBattlefield {
				continue
			}
			if err := g.Destroy(c); err != nil {
				return err
			}
		}
		return nil
	}
}

func tap(params map[string]string) card.Effect {
	return func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		for _, c := range definedCards(g, a, src, params["Defined"]) {
			g.Tap(c)
		}
		return nil
	}
}

func putCounter(params map[string]string) card.Effect {
	ct, typeErr := counters.ParseType(params["CounterType"])
	return func(g card.Game, a *card.Ability) error {
		if typeErr != nil {
			return typeErr
		}
		src, err := source(g, a)
		if err != nil {
			return err
		}
		n := amount(g, a, params["CounterNum"], 1)
		defined := params["Defined"]
		if defined == "" && len(a.ChosenTargets) == 0 {
			defined = "Self"
		}
		for _, c := range definedCards(g, a, src, defined) {
			g.AddCounter(c, ct, n)
		}
		return nil
	}
}

func source(g card.Game, a *card.Ability) (*card.Instance, error) {
	src, ok := g.Card(a.Source)
	if !ok {
		return nil, fmt.Errorf("%s: source card %d not found", a.Tag, a.Source)
	}
	return src, nil
}

// amount evaluates a numeric parameter: a literal, X for the paid X value,
// or the name of an SVar holding either.
func amount(g card.Game, a *card.Ability, raw string, def int) int {
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if raw == "X" && a.XPaid > 0 {
		return a.XPaid
	}
	src, ok := g.Card(a.Source)
	if !ok {
		return def
	}
	return XCount(src, src.SVar(raw))
}

// XCount evaluates an SVar count expression such as "Count$xPaid".
func XCount(c *card.Instance, expr string) int {
	if n, err := strconv.Atoi(expr); err == nil {
		return n
	}
	switch expr {
	case "Count$xPaid":
		return c.XManaPaid
	case "Count$Devoured":
		return len(c.Devoured)
	case "Count$Sunburst":
		return c.SunburstValue
	case "Count$xLifePaid":
		return c.XLifePaid
	case "Count$MultiKicker":
		return c.MultiKickerMagnitude
	}
	return 0
}

func isPlayer(g card.Game, id string) bool {
	return slices.Contains(g.Players(), card.PlayerID(id))
}

// definedPlayers resolves the players an effect applies to: chosen player
// targets first, then the Defined$ parameter. A targeted ability whose
// targets are all cards affects no player unless Defined$ says otherwise;
// sub-abilities inherit targets without targeting themselves.
func definedPlayers(g card.Game, a *card.Ability, src *card.Instance, defined, def string) []card.PlayerID {
	var out []card.PlayerID
	for _, t := range a.ChosenTargets {
		if isPlayer(g, t) {
			out = append(out, card.PlayerID(t))
		}
	}
	if len(out) > 0 || (a.Targets != nil && len(a.ChosenTargets) > 0 && defined == "") {
		return out
	}
	if defined == "" {
		defined = def
	}
	switch defined {
	case "You":
		return []card.PlayerID{src.Controller()}
	case "Opponent":
		return []card.PlayerID{g.Opponent(src.Controller())}
	case "Player":
		return g.Players()
	}
	return nil
}

// definedCards resolves the cards an effect applies to: chosen card
// targets, or the source itself for Defined$ Self.
func definedCards(g card.Game, a *card.Ability, src *card.Instance, defined string) []*card.Instance {
	if defined == "Self" {
		return []*card.Instance{src}
	}
	var out []*card.Instance
	for _, t := range a.ChosenTargets {
		id, ok := card.ParseID(t)
		if !ok {
			continue
		}
		if c, ok := g.Card(id); ok {
			out = append(out, c)
		}
	}
	return out
}
