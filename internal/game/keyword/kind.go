// Package keyword decodes raw keyword strings from card templates into
// structured directives.
package keyword

// Kind identifies a recognised keyword.
type Kind int

const (
	Unknown Kind = iota
	ETBTapped
	ETBTappedUnlessFewLands
	ETBTappedUnlessControl
	Sunburst
	SearchRebel
	Morph
	Unearth
	Madness
	Devour
	Modular
	ETBCounter
	Bloodthirst
	Kicker
	Multikicker
	Replicate
	Evoke
	Cycling
	TypeCycling
	Flashback
	Transmute
	Soulshift
	Echo
	HandSize
	Suspend
	IsColor
	Fading
	Vanishing
)

var kindNames = map[Kind]string{
	Unknown:                 "Unknown",
	ETBTapped:               "ETBTapped",
	ETBTappedUnlessFewLands: "ETBTappedUnlessFewLands",
	ETBTappedUnlessControl:  "ETBTappedUnlessControl",
	Sunburst:                "Sunburst",
	SearchRebel:             "SearchRebel",
	Morph:                   "Morph",
	Unearth:                 "Unearth",
	Madness:                 "Madness",
	Devour:                  "Devour",
	Modular:                 "Modular",
	ETBCounter:              "ETBCounter",
	Bloodthirst:             "Bloodthirst",
	Kicker:                  "Kicker",
	Multikicker:             "Multikicker",
	Replicate:               "Replicate",
	Evoke:                   "Evoke",
	Cycling:                 "Cycling",
	TypeCycling:             "TypeCycling",
	Flashback:               "Flashback",
	Transmute:               "Transmute",
	Soulshift:               "Soulshift",
	Echo:                    "Echo",
	HandSize:                "HandSize",
	Suspend:                 "Suspend",
	IsColor:                 "IsColor",
	Fading:                  "Fading",
	Vanishing:               "Vanishing",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// Phase says which binder pass handles a kind.
type Phase int

const (
	// Early kinds are expanded before scripted abilities are attached.
	Early Phase = iota
	// Post kinds need the fully assembled ability list.
	Post
)

// Phase returns the binder pass for the kind.
func (k Kind) Phase() Phase {
	switch k {
	case Kicker, Multikicker, Replicate, Evoke, Cycling, TypeCycling, Flashback,
		Transmute, Soulshift, Echo, HandSize, Suspend, IsColor, Fading, Vanishing:
		return Post
	}
	return Early
}

// Repeatable reports whether every occurrence of the kind on a card is
// expanded. For the other kinds only the first occurrence takes effect.
func (k Kind) Repeatable() bool {
	switch k {
	case TypeCycling, Soulshift, IsColor:
		return true
	}
	return false
}
