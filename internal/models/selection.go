package models

import "time"

// Session bounds. Sessions 1-4 use the per-round ledger; session 5 is the
// final selection.
const (
	MinSession   = 1
	MaxSession   = 4
	FinalSession = 5
)

// RequestedInfoField is the profile attribute a selector asks to learn about a
// chosen candidate once the session's results open.
type RequestedInfoField string

const (
	InfoBirthYear      RequestedInfoField = "birthYear"
	InfoJob            RequestedInfoField = "job"
	InfoFlirtingSecret RequestedInfoField = "flirtingSecret"
	InfoGreenFlag      RequestedInfoField = "greenFlag"
	InfoRedFlag        RequestedInfoField = "redFlag"
)

// Valid reports whether the field is one of the supported attributes.
func (f RequestedInfoField) Valid() bool {
	switch f {
	case InfoBirthYear, InfoJob, InfoFlirtingSecret, InfoGreenFlag, InfoRedFlag:
		return true
	}
	return false
}

// Choice pairs a target participant code with the profile field the selector
// wants revealed.
type Choice struct {
	TargetCode    string             `json:"target_code"`
	RequestedInfo RequestedInfoField `json:"requested_info"`
}

// SelectionRecord is one write-once per-round submission, keyed by
// (event_date, selector_code, session_number). The two choices are stored
// flattened; the second choice columns are NULL when absent.
type SelectionRecord struct {
	EventDate     string    `db:"event_date" json:"event_date"`
	SelectorCode  string    `db:"selector_code" json:"selector_code"`
	SessionNumber int       `db:"session_number" json:"session_number"`
	FirstCode     string    `db:"first_code" json:"first_code"`
	FirstInfo     string    `db:"first_info" json:"first_info"`
	SecondCode    *string   `db:"second_code" json:"second_code,omitempty"`
	SecondInfo    *string   `db:"second_info" json:"second_info,omitempty"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
}

// First returns the mandatory first choice.
func (r *SelectionRecord) First() Choice {
	return Choice{TargetCode: r.FirstCode, RequestedInfo: RequestedInfoField(r.FirstInfo)}
}

// Second returns the optional second choice, or nil.
func (r *SelectionRecord) Second() *Choice {
	if r.SecondCode == nil {
		return nil
	}
	choice := Choice{TargetCode: *r.SecondCode}
	if r.SecondInfo != nil {
		choice.RequestedInfo = RequestedInfoField(*r.SecondInfo)
	}
	return &choice
}

// FinalSelectionRecord is the write-once terminal-round submission, keyed by
// (event_date, selector_code). Choices reference target codes only; consent
// records the selector's own willingness to share contact details on a match.
type FinalSelectionRecord struct {
	EventDate      string    `db:"event_date" json:"event_date"`
	SelectorCode   string    `db:"selector_code" json:"selector_code"`
	FirstChoice    string    `db:"first_choice" json:"first_choice"`
	SecondChoice   *string   `db:"second_choice" json:"second_choice,omitempty"`
	ConsentToShare bool      `db:"consent_to_share" json:"consent_to_share"`
	SubmittedAt    time.Time `db:"submitted_at" json:"submitted_at"`
}

// Picked reports whether the final record names the given code as first or
// second choice.
func (r *FinalSelectionRecord) Picked(code string) bool {
	if r.FirstChoice == code {
		return true
	}
	return r.SecondChoice != nil && *r.SecondChoice == code
}
