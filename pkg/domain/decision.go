package domain

// Reason codes explaining a navigation Decision.
const (
	ReasonSameStage    = "same_stage"
	ReasonNotAllowed   = "not_allowed"
	ReasonAllowed      = "allowed"
	ReasonUnrestricted = "unrestricted"
)

// Decision is the outcome of one navigation attempt.
type Decision struct {
	From    Stage  `json:"from"`
	To      Stage  `json:"to"`
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`
}

// Message is the notification a host shows once the move has been saved.
// It is empty for blocked decisions.
func (d Decision) Message() string {
	if d.Blocked {
		return ""
	}
	return d.To.Label + " Completed"
}
