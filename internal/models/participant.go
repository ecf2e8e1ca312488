package models

import "time"

// Gender of a participant. Selections are only valid across genders.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "W"
)

// Opposite returns the only valid candidate gender for this gender.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// Valid reports whether the gender is one of the two supported values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Participant is one attendee of an event. EventCode is the short
// gender-prefixed code (e.g. "M3", "W7") unique within the event. Name, phone
// and email are identity fields and never change after import; the remaining
// profile fields are participant-editable.
type Participant struct {
	ID             string    `db:"id" json:"id"`
	EventDate      string    `db:"event_date" json:"event_date"`
	EventCode      string    `db:"event_code" json:"event_code"`
	Gender         Gender    `db:"gender" json:"gender"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"-"`
	Email          string    `db:"email" json:"-"`
	Job            string    `db:"job" json:"job"`
	Introduction   string    `db:"introduction" json:"introduction"`
	FlirtingSecret string    `db:"flirting_secret" json:"flirting_secret"`
	GreenFlag      string    `db:"green_flag" json:"green_flag"`
	RedFlag        string    `db:"red_flag" json:"red_flag"`
	BirthYear      int       `db:"birth_year" json:"birth_year"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ContactCard is the disclosed subset of a matched partner's record.
type ContactCard struct {
	EventCode string `json:"event_code"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Job       string `json:"job"`
	BirthYear int    `json:"birth_year"`
}

// Card builds the contact card revealed to a consenting partner's match.
func (p *Participant) Card() ContactCard {
	return ContactCard{
		EventCode: p.EventCode,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		Job:       p.Job,
		BirthYear: p.BirthYear,
	}
}
