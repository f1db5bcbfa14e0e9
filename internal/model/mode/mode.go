package mode

import "strings"

// Mode selects the fixed instruction set that governs generation.
type Mode string

const (
	Email    Mode = "email"
	Calendar Mode = "calendar"
)

// Parse maps free-form input to a Mode. Anything that is not "calendar" is
// treated as an e-mail request.
func Parse(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), string(Calendar)) {
		return Calendar
	}
	return Email
}

// Definition captures the labels the tool page shows for a mode.
type Definition struct {
	ID          Mode   `json:"id"`
	Label       string `json:"label"`
	ActionLabel string `json:"actionLabel"`
	Placeholder string `json:"placeholder"`
}

// Seed provides the two modes the tool supports.
func Seed() []Definition {
	return []Definition{
		{
			ID:          Email,
			Label:       "E-mail",
			ActionLabel: "Genereer e-mail",
			Placeholder: "Plak hier je transcript...",
		},
		{
			ID:          Calendar,
			Label:       "Agenda",
			ActionLabel: "Genereer agenda-uitnodiging",
			Placeholder: "Plak hier je transcript...",
		},
	}
}
