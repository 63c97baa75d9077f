package game

import (
	"slices"

	"github.com/magefree/mage-cardfactory/internal/game/card"
)

// ScriptedPrompter answers choices from queues filled ahead of time, for
// tests and replays. An empty queue answers "no selection".
type ScriptedPrompter struct {
	cards   [][]int
	options []string
	// Prompts records every prompt shown, in order.
	Prompts []string
}

// QueueCards queues the candidate indexes picked by the next card choice.
func (sp *ScriptedPrompter) QueueCards(idx ...int) {
	sp.cards = append(sp.cards, idx)
}

// QueueOption queues the answer to the next option choice.
func (sp *ScriptedPrompter) QueueOption(opt string) {
	sp.options = append(sp.options, opt)
}

func (sp *ScriptedPrompter) ChooseCards(_ card.PlayerID, prompt string, candidates []*card.Instance, _, max int) []*card.Instance {
	sp.Prompts = append(sp.Prompts, prompt)
	if len(sp.cards) == 0 {
		return nil
	}
	idx := sp.cards[0]
	sp.cards = sp.cards[1:]

	var out []*card.Instance
	for _, i := range idx {
		if i < 0 || i >= len(candidates) || len(out) == max {
			continue
		}
		if !slices.Contains(out, candidates[i]) {
			out = append(out, candidates[i])
		}
	}
	return out
}

func (sp *ScriptedPrompter) ChooseOption(_ card.PlayerID, prompt string, options []string) (string, bool) {
	sp.Prompts = append(sp.Prompts, prompt)
	if len(sp.options) == 0 {
		return "", false
	}
	opt := sp.options[0]
	sp.options = sp.options[1:]
	if !slices.Contains(options, opt) {
		return "", false
	}
	return opt, true
}
