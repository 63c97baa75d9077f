// Package cardb holds the immutable card template database.
package cardb

import (
	"slices"
	"strings"
)

// Printing is one printing of a card in a set.
type Printing struct {
	Code   string `yaml:"code" json:"code"`
	Rarity string `yaml:"rarity,omitempty" json:"rarity,omitempty"`
	Number string `yaml:"number,omitempty" json:"number,omitempty"`
	Image  string `yaml:"image,omitempty" json:"image,omitempty"`
}

// Template is the immutable definition of a card as loaded from the database.
// Templates returned by a Store are shared and must not be modified.
type Template struct {
	Name      string            `yaml:"name"`
	ManaCost  string            `yaml:"mana_cost,omitempty"`
	Types     []string          `yaml:"types"`
	Power     string            `yaml:"power,omitempty"`
	Toughness string            `yaml:"toughness,omitempty"`
	Loyalty   string            `yaml:"loyalty,omitempty"`
	Keywords  []string          `yaml:"keywords,omitempty"`
	Text      string            `yaml:"text,omitempty"`
	Colors    []string          `yaml:"colors,omitempty"`
	SVars     map[string]string `yaml:"svars,omitempty"`
	Sets      []Printing        `yaml:"sets,omitempty"`
	Abilities []string          `yaml:"abilities,omitempty"`
	Triggers  []string          `yaml:"triggers,omitempty"`
	Statics   []string          `yaml:"statics,omitempty"`
}

// IsType reports whether the type line contains t (case-insensitive).
func (t *Template) IsType(typ string) bool {
	return slices.ContainsFunc(t.Types, func(s string) bool { return strings.EqualFold(s, typ) })
}

// TypeLine renders the types as printed, e.g. "Creature Goblin".
func (t *Template) TypeLine() string {
	return strings.Join(t.Types, " ")
}
