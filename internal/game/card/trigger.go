package card

import (
	"fmt"
	"maps"
	"strings"
)

// Trigger is a trigger definition from a card script, e.g.
// "Mode$ ChangesZone | Destination$ Battlefield | ValidCard$ Card.Self | Execute$ TrigDraw".
type Trigger struct {
	Raw    string
	Params map[string]string
	// Ability is built from the SVar named by Execute$. It may be nil when
	// the trigger only describes behavior handled elsewhere.
	Ability *Ability
}

// ParseTrigger splits a trigger script into its parameters.
func ParseTrigger(raw string) (*Trigger, error) {
	params, err := ParseParams(raw)
	if err != nil {
		return nil, err
	}
	if params["Mode"] == "" {
		return nil, fmt.Errorf("trigger %q: missing Mode$", raw)
	}
	return &Trigger{Raw: raw, Params: params}, nil
}

// ParseParams splits "Key$ Value | Key$ Value" scripts.
func ParseParams(raw string) (map[string]string, error) {
	params := make(map[string]string)
	for _, part := range strings.Split(raw, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "$")
		if !ok {
			return nil, fmt.Errorf("script part %q has no $", part)
		}
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params, nil
}

// Mode returns the trigger mode, e.g. ChangesZone.
func (t *Trigger) Mode() string { return t.Params["Mode"] }

// Param returns a trigger parameter.
func (t *Trigger) Param(key string) string { return t.Params[key] }

// Copy returns a deep copy of the definition.
func (t *Trigger) Copy() *Trigger {
	cpy := &Trigger{Raw: t.Raw, Params: maps.Clone(t.Params)}
	if t.Ability != nil {
		cpy.Ability = t.Ability.Copy()
	}
	return cpy
}
