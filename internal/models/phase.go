package models

// Phase bounds for an event. The phase (stored as the event's current round)
// drives what participants may submit and see.
const (
	MinPhase = 0
	MaxPhase = 10
)

// PhaseKind describes what a phase allows.
type PhaseKind string

const (
	PhaseKindWait        PhaseKind = "wait"
	PhaseKindSelect      PhaseKind = "select"
	PhaseKindResult      PhaseKind = "result"
	PhaseKindFinalSelect PhaseKind = "final-select"
	PhaseKindFinalResult PhaseKind = "final-result"
)

// PhaseInfo maps a phase to its session number and kind. Session is 0 for the
// pre-event wait phase.
type PhaseInfo struct {
	Phase       int       `json:"phase"`
	Session     int       `json:"session"`
	Kind        PhaseKind `json:"kind"`
	Description string    `json:"description"`
}

// phaseTable is the fixed operator-facing transition table. It is declared
// literally rather than derived so the mapping stays auditable at a glance.
var phaseTable = [MaxPhase + 1]PhaseInfo{
	{Phase: 0, Session: 0, Kind: PhaseKindWait, Description: "waiting to start"},
	{Phase: 1, Session: 1, Kind: PhaseKindSelect, Description: "session 1 selection"},
	{Phase: 2, Session: 1, Kind: PhaseKindResult, Description: "session 1 results"},
	{Phase: 3, Session: 2, Kind: PhaseKindSelect, Description: "session 2 selection"},
	{Phase: 4, Session: 2, Kind: PhaseKindResult, Description: "session 2 results"},
	{Phase: 5, Session: 3, Kind: PhaseKindSelect, Description: "session 3 selection"},
	{Phase: 6, Session: 3, Kind: PhaseKindResult, Description: "session 3 results"},
	{Phase: 7, Session: 4, Kind: PhaseKindSelect, Description: "session 4 selection"},
	{Phase: 8, Session: 4, Kind: PhaseKindResult, Description: "session 4 results"},
	{Phase: 9, Session: 5, Kind: PhaseKindFinalSelect, Description: "final selection"},
	{Phase: 10, Session: 5, Kind: PhaseKindFinalResult, Description: "final results"},
}

// PhaseTable returns the full table in phase order.
func PhaseTable() []PhaseInfo {
	table := make([]PhaseInfo, len(phaseTable))
	copy(table, phaseTable[:])
	return table
}

// PhaseInfoFor returns the entry for a phase, or false when out of range.
func PhaseInfoFor(phase int) (PhaseInfo, bool) {
	if phase < MinPhase || phase > MaxPhase {
		return PhaseInfo{}, false
	}
	return phaseTable[phase], true
}

// ValidPhase reports whether the phase lies in the supported range.
func ValidPhase(phase int) bool {
	return phase >= MinPhase && phase <= MaxPhase
}

// ClampPhase forces a phase into the supported range.
func ClampPhase(phase int) int {
	if phase < MinPhase {
		return MinPhase
	}
	if phase > MaxPhase {
		return MaxPhase
	}
	return phase
}
