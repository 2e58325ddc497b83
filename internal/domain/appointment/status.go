package appointment

import "github.com/BruksfildServices01/vetclinic-api/internal/httperr"

type Status string

const (
	StatusScheduled Status = "AGENDADO"
	StatusCompleted Status = "CONCLUIDO"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusCompleted:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

func InitialStatus() Status {
	return StatusScheduled
}

// Transitions decides which status changes are accepted. The permissive
// table lets a completed appointment go back to scheduled, which is how
// clinics currently correct mistakes; the strict one only moves forward.
type Transitions map[Status][]Status

var (
	PermissiveTransitions = Transitions{
		StatusScheduled: {StatusScheduled, StatusCompleted},
		StatusCompleted: {StatusCompleted, StatusScheduled},
	}

	StrictTransitions = Transitions{
		StatusScheduled: {StatusScheduled, StatusCompleted},
		StatusCompleted: {StatusCompleted},
	}
)

func (t Transitions) Check(from, to Status) error {
	for _, s := range t[from] {
		if s == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_status_transition")
}
