package counters

import (
	"fmt"
	"strings"
)

// CounterType names a kind of counter using the card-script spelling
// (P1P1, TIME, CHARGE, ...).
type CounterType string

const (
	P1P1 CounterType = "P1P1"
	M1M1 CounterType = "M1M1"
	P1P0 CounterType = "P1P0"
	P0P1 CounterType = "P0P1"
	M1M0 CounterType = "M1M0"
	M0M1 CounterType = "M0M1"
	P2P2 CounterType = "P2P2"
	M2M2 CounterType = "M2M2"
	P1P2 CounterType = "P1P2"
	M2M1 CounterType = "M2M1"

	Age           CounterType = "AGE"
	Arrow         CounterType = "ARROW"
	Arrowhead     CounterType = "ARROWHEAD"
	Blaze         CounterType = "BLAZE"
	Blood         CounterType = "BLOOD"
	Bounty        CounterType = "BOUNTY"
	Bribery       CounterType = "BRIBERY"
	Charge        CounterType = "CHARGE"
	Corpse        CounterType = "CORPSE"
	Credit        CounterType = "CREDIT"
	Delay         CounterType = "DELAY"
	Depletion     CounterType = "DEPLETION"
	Divinity      CounterType = "DIVINITY"
	Doom          CounterType = "DOOM"
	Energy        CounterType = "ENERGY"
	Fade          CounterType = "FADE"
	Feather       CounterType = "FEATHER"
	Flood         CounterType = "FLOOD"
	Fungus        CounterType = "FUNGUS"
	Fuse          CounterType = "FUSE"
	Glyph         CounterType = "GLYPH"
	Gold          CounterType = "GOLD"
	Growth        CounterType = "GROWTH"
	Hatchling     CounterType = "HATCHLING"
	Healing       CounterType = "HEALING"
	Hoofprint     CounterType = "HOOFPRINT"
	Ice           CounterType = "ICE"
	Infection     CounterType = "INFECTION"
	Intervention  CounterType = "INTERVENTION"
	Ki            CounterType = "KI"
	Level         CounterType = "LEVEL"
	Lore          CounterType = "LORE"
	Loyalty       CounterType = "LOYALTY"
	Mannequin     CounterType = "MANNEQUIN"
	Mine          CounterType = "MINE"
	Mining        CounterType = "MINING"
	Music         CounterType = "MUSIC"
	Net           CounterType = "NET"
	Page          CounterType = "PAGE"
	Pain          CounterType = "PAIN"
	Paralyzation  CounterType = "PARALYZATION"
	Petal         CounterType = "PETAL"
	Petrification CounterType = "PETRIFICATION"
	Phylactery    CounterType = "PHYLACTERY"
	Plague        CounterType = "PLAGUE"
	Pressure      CounterType = "PRESSURE"
	Pupa          CounterType = "PUPA"
	Quest         CounterType = "QUEST"
	Rust          CounterType = "RUST"
	Shell         CounterType = "SHELL"
	Shield        CounterType = "SHIELD"
	Sleep         CounterType = "SLEEP"
	Sleight       CounterType = "SLEIGHT"
	Slime         CounterType = "SLIME"
	Soot          CounterType = "SOOT"
	Spore         CounterType = "SPORE"
	Storage       CounterType = "STORAGE"
	Study         CounterType = "STUDY"
	Tide          CounterType = "TIDE"
	Time          CounterType = "TIME"
	Tower         CounterType = "TOWER"
	Training      CounterType = "TRAINING"
	Trap          CounterType = "TRAP"
	Treasure      CounterType = "TREASURE"
	Velocity      CounterType = "VELOCITY"
	Verse         CounterType = "VERSE"
	Vitality      CounterType = "VITALITY"
	Wage          CounterType = "WAGE"
	Wind          CounterType = "WIND"
	Wish          CounterType = "WISH"
)

var known = map[CounterType]struct{}{}

func init() {
	for _, ct := range []CounterType{
		P1P1, M1M1, P1P0, P0P1, M1M0, M0M1, P2P2, M2M2, P1P2, M2M1,
		Age, Arrow, Arrowhead, Blaze, Blood, Bounty, Bribery, Charge, Corpse, Credit,
		Delay, Depletion, Divinity, Doom, Energy, Fade, Feather, Flood, Fungus, Fuse,
		Glyph, Gold, Growth, Hatchling, Healing, Hoofprint, Ice, Infection, Intervention, Ki,
		Level, Lore, Loyalty, Mannequin, Mine, Mining, Music, Net, Page, Pain,
		Paralyzation, Petal, Petrification, Phylactery, Plague, Pressure, Pupa, Quest, Rust, Shell,
		Shield, Sleep, Sleight, Slime, Soot, Spore, Storage, Study, Tide, Time,
		Tower, Training, Trap, Treasure, Velocity, Verse, Vitality, Wage, Wind, Wish,
	} {
		known[ct] = struct{}{}
	}
}

// ParseType accepts the script spelling ("P1P1", "TIME"), any casing of it,
// or the printed form of a boost counter ("+1/+1").
func ParseType(s string) (CounterType, error) {
	s = strings.TrimSpace(s)
	if p, t, ok := parseBoost(s); ok {
		s = boostTypeName(p, t)
	}
	ct := CounterType(strings.ToUpper(s))
	if _, ok := known[ct]; !ok {
		return "", fmt.Errorf("unknown counter type %q", s)
	}
	return ct, nil
}

// String returns the script spelling.
func (ct CounterType) String() string {
	return string(ct)
}

// DisplayName returns the printed name: "+1/+1" for boost counters and
// lower case otherwise ("time").
func (ct CounterType) DisplayName() string {
	s := string(ct)
	if _, _, ok := ct.Boost(); ok {
		return boostHalf(s[0], s[1]) + "/" + boostHalf(s[2], s[3])
	}
	return strings.ToLower(s)
}

// Boost returns the power/toughness change of a boost counter type.
func (ct CounterType) Boost() (power, toughness int, ok bool) {
	s := string(ct)
	if len(s) != 4 {
		return 0, 0, false
	}
	power, ok = boostDigit(s[0], s[1])
	if !ok {
		return 0, 0, false
	}
	toughness, ok = boostDigit(s[2], s[3])
	return power, toughness, ok
}

func boostDigit(sign, digit byte) (int, bool) {
	if digit < '0' || digit > '9' {
		return 0, false
	}
	v := int(digit - '0')
	switch sign {
	case 'P':
		return v, true
	case 'M':
		return -v, true
	}
	return 0, false
}

// boostTypeName builds the script spelling; a zero half takes the sign of
// the other half (-1/-0 is M1M0).
func boostTypeName(power, toughness int) string {
	negative := power < 0 || toughness < 0
	part := func(v int) string {
		if v < 0 || (v == 0 && negative) {
			return fmt.Sprintf("M%d", -v)
		}
		return fmt.Sprintf("P%d", v)
	}
	return part(power) + part(toughness)
}

// parseBoost parses a printed boost name such as "+1/+1" or "-1/-0".
func parseBoost(name string) (int, int, bool) {
	left, right, found := strings.Cut(name, "/")
	if !found {
		return 0, 0, false
	}
	p, ok := parseSigned(left)
	if !ok {
		return 0, 0, false
	}
	t, ok := parseSigned(right)
	if !ok {
		return 0, 0, false
	}
	return p, t, true
}

func parseSigned(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	var v int
	if _, err := fmt.Sscanf(s[1:], "%d", &v); err != nil || v < 0 || v > 9 {
		return 0, false
	}
	if s[0] == '-' {
		v = -v
	}
	return v, true
}

func boostHalf(sign, digit byte) string {
	if sign == 'M' {
		return "-" + string(digit)
	}
	return "+" + string(digit)
}
