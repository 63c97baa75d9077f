package factory

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/cardb"
	"github.com/magefree/mage-cardfactory/internal/game/keyword"
)

// override attaches the bespoke behavior of one named card.
type override func(f *Factory, c *card.Instance) error

// Bind builds a new instance of t owned and controlled by owner. The steps
// run in a fixed order; later steps rely on what earlier ones attached.
// Errors in a single keyword or ability are logged and that piece is
// skipped. Only a template that cannot be copied at all fails the call.
func (f *Factory) Bind(t *cardb.Template, owner card.PlayerID) (*card.Instance, error) {
	c, err := card.FromTemplate(f.ids.Next(), owner, t)
	if err != nil {
		if c == nil {
			return nil, fmt.Errorf("bind %q: %w", t.Name, err)
		}
		f.logger.Warn("skipping malformed trigger",
			zap.String("card", t.Name),
			zap.Error(err),
		)
	}
	f.bindInstance(c)
	return c, nil
}

func (f *Factory) bindInstance(c *card.Instance) {
	c.AddColor(c.ManaCost)

	if c.IsPermanent() && !c.IsLand() && !c.IsAura() && !firstScriptIsSpell(c) {
		c.AddAbility(c.SpellPermanent())
	}

	f.runKeywords(c, earlySteps, true)
	f.attachScripted(c)
	f.attachStatics(c)

	if !f.runSubBinder(c) {
		if o, ok := f.overrides[c.Name]; ok {
			if err := o(f, c); err != nil {
				f.logger.Warn("card override failed",
					zap.String("card", c.Name),
					zap.Error(err),
				)
			}
		}
	}

	f.runKeywords(c, postSteps, false)
	f.altCost(c)
}

func firstScriptIsSpell(c *card.Instance) bool {
	return len(c.IntrinsicAbilities) > 0 && strings.HasPrefix(strings.TrimSpace(c.IntrinsicAbilities[0]), "SP$")
}

// attachScripted expands the intrinsic ability scripts and the Execute$
// abilities of the card's triggers.
func (f *Factory) attachScripted(c *card.Instance) {
	for _, script := range c.IntrinsicAbilities {
		a, err := f.abilities.Ability(script, c)
		if err != nil {
			f.logger.Warn("skipping ability script",
				zap.String("card", c.Name),
				zap.String("script", script),
				zap.Error(err),
			)
			continue
		}
		c.AddAbility(a)

		if bb := c.SVar("Buyback"); bb != "" && a.IsSpell() {
			f.attachBuyback(c, a, bb)
		}
	}

	for _, trig := range c.Triggers {
		exec := trig.Param("Execute")
		if exec == "" {
			continue
		}
		script := c.SVar(exec)
		if script == "" {
			f.logger.Warn("trigger execute svar missing",
				zap.String("card", c.Name),
				zap.String("svar", exec),
			)
			continue
		}
		a, err := f.abilities.Ability(script, c)
		if err != nil {
			f.logger.Warn("skipping trigger ability",
				zap.String("card", c.Name),
				zap.String("svar", exec),
				zap.Error(err),
			)
			continue
		}
		a.Kind = card.KindTriggered
		a.Source = c.ID()
		trig.Ability = a
	}
}

func (f *Factory) attachBuyback(c *card.Instance, a *card.Ability, bb string) {
	bbSA := a.Copy()
	cost, err := a.Cost.WithMana(bb)
	if err != nil {
		f.logger.Warn("bad buyback cost",
			zap.String("card", c.Name),
			zap.String("cost", bb),
			zap.Error(err),
		)
		return
	}
	bbSA.Cost = cost
	bbSA.Buyback = true
	bbSA.Tag = "Buyback"
	bbSA.Description = fmt.Sprintf("Buyback %s (You may pay an additional %s as you cast this spell. If you do, put this card into your hand as it resolves.)", bb, bb)
	c.AddAbility(bbSA)
}

func (f *Factory) attachStatics(c *card.Instance) {
	for _, raw := range c.StaticAbilities {
		params, err := card.ParseParams(raw)
		if err != nil {
			f.logger.Warn("skipping static ability",
				zap.String("card", c.Name),
				zap.String("static", raw),
				zap.Error(err),
			)
			continue
		}
		c.AddStaticAbility(&card.Ability{
			Tag:         params["Mode"],
			Description: strings.ReplaceAll(params["Description"], "CARDNAME", c.Name),
			Params:      params,
		})
	}
}

// runSubBinder hands the card to the binder registered for its first
// matching type kind.
func (f *Factory) runSubBinder(c *card.Instance) bool {
	for _, kind := range subBinderOrder {
		if !isKind(c, kind) {
			continue
		}
		b, ok := f.subBinders[kind]
		if !ok {
			return false
		}
		done, err := b.Bind(c, f)
		if err != nil {
			f.logger.Warn("sub-binder failed",
				zap.String("card", c.Name),
				zap.String("kind", kind),
				zap.Error(err),
			)
			return false
		}
		return done
	}
	return false
}

func isKind(c *card.Instance, kind string) bool {
	switch kind {
	case KindAura:
		return c.IsAura()
	case KindEquipment:
		return c.IsType("Artifact") && c.IsType("Equipment")
	}
	return c.IsType(kind)
}

// keywordStep is one entry of a keyword pass. Steps with a type run for
// every card of that type instead of for a keyword; steps with neither
// run once for every card.
type keywordStep struct {
	kind keyword.Kind
	typ  string
	run  func(f *Factory, c *card.Instance, d keyword.Directive) error
}

// runKeywords decodes the current keyword list and runs steps in table
// order. A kind that is not repeatable runs for its first occurrence only.
func (f *Factory) runKeywords(c *card.Instance, steps []keywordStep, report bool) {
	directives, err := keyword.Parse(c.Keywords())
	if err != nil && report {
		f.logger.Warn("skipping malformed keywords",
			zap.String("card", c.Name),
			zap.Error(err),
		)
	}

	for _, step := range steps {
		if step.typ != "" {
			if c.IsType(step.typ) {
				f.runStep(c, step, keyword.Directive{Raw: step.typ})
			}
			continue
		}
		if step.kind == keyword.Unknown {
			f.runStep(c, step, keyword.Directive{})
			continue
		}
		for _, d := range directives {
			if d.Kind != step.kind {
				continue
			}
			f.runStep(c, step, d)
			if !step.kind.Repeatable() {
				break
			}
		}
	}
}

func (f *Factory) runStep(c *card.Instance, step keywordStep, d keyword.Directive) {
	if err := step.run(f, c, d); err != nil {
		f.logger.Warn("keyword routine failed",
			zap.String("card", c.Name),
			zap.String("keyword", d.Raw),
			zap.Error(err),
		)
	}
}
