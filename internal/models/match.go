package models

import "time"

// MatchType identifies which pass of the batch run produced a match.
type MatchType string

const (
	// MatchTypeDouble1 pairs mutual first choices.
	MatchTypeDouble1 MatchType = "double1"
	// MatchTypePreference pairs a selector with a first choice who listed them
	// back as first choice. The double-first pass exhausts this condition, so
	// the pass is retained for fidelity but produces nothing.
	MatchTypePreference MatchType = "preference"
	// MatchTypeMutual2nd pairs mutual second choices.
	MatchTypeMutual2nd MatchType = "mutual2nd"
)

// MatchRecord is one pairwise match produced by the terminal batch run. Each
// consent flag is copied from that member's own final selection; disclosure to
// a viewer depends on the partner's flag, never the viewer's own. A code
// appears in at most one match per event.
type MatchRecord struct {
	ID             string    `db:"id" json:"id"`
	EventDate      string    `db:"event_date" json:"event_date"`
	Person1Code    string    `db:"person1_code" json:"person1_code"`
	Person2Code    string    `db:"person2_code" json:"person2_code"`
	MatchType      MatchType `db:"match_type" json:"match_type"`
	Person1Consent bool      `db:"person1_consent" json:"person1_consent"`
	Person2Consent bool      `db:"person2_consent" json:"person2_consent"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Member reports whether the given code is one of the two match members.
func (m *MatchRecord) Member(code string) bool {
	return m.Person1Code == code || m.Person2Code == code
}

// PartnerOf returns the other member's code and their consent flag. The second
// return is false when the viewer is not part of the match.
func (m *MatchRecord) PartnerOf(viewerCode string) (partnerCode string, partnerConsent bool, ok bool) {
	switch viewerCode {
	case m.Person1Code:
		return m.Person2Code, m.Person2Consent, true
	case m.Person2Code:
		return m.Person1Code, m.Person1Consent, true
	}
	return "", false, false
}

// UnmatchedStat reports how often an unmatched participant was picked across
// all final selections (first or second slot).
type UnmatchedStat struct {
	Code            string `json:"code"`
	SelectedByCount int    `json:"selected_by_count"`
}

// MatchRunResult is the outcome of one batch run.
type MatchRunResult struct {
	Matches   []MatchRecord   `json:"matches"`
	Unmatched []UnmatchedStat `json:"unmatched"`
	// Replayed is true when the run found existing matches and returned them
	// without re-matching.
	Replayed bool `json:"replayed"`
}

// MatchView is the participant-facing projection of a match. Partner contact
// details are present only when the partner consented.
type MatchView struct {
	MatchType      MatchType    `json:"match_type"`
	PartnerCode    string       `json:"partner_code"`
	PartnerConsent bool         `json:"partner_consent"`
	Partner        *ContactCard `json:"partner,omitempty"`
}
