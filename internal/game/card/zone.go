package card

// Zone is a game zone.
type Zone string

const (
	ZoneNone        Zone = ""
	ZoneLibrary     Zone = "Library"
	ZoneHand        Zone = "Hand"
	ZoneBattlefield Zone = "Battlefield"
	ZoneGraveyard   Zone = "Graveyard"
	ZoneExile       Zone = "Exile"
	ZoneStack       Zone = "Stack"
)

// Phase is a step of the turn, as far as card behavior cares.
type Phase string

const (
	PhaseUpkeep    Phase = "Upkeep"
	PhaseDraw      Phase = "Draw"
	PhaseMain1     Phase = "Main1"
	PhaseCombat    Phase = "Combat"
	PhaseMain2     Phase = "Main2"
	PhaseEndOfTurn Phase = "EndOfTurn"
	PhaseCleanup   Phase = "Cleanup"
)

// IsMain reports whether sorcery-speed actions may happen in this phase.
func (p Phase) IsMain() bool {
	return p == PhaseMain1 || p == PhaseMain2
}
