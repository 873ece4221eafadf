package edit

import (
	"errors"

	"github.com/gravitrone/reqdesk/internal/api"
)

// ErrManagerRequired marks a submit under the manager role with no manager
// chosen.
var ErrManagerRequired = errors.New("manager assignment required")

// Role is the caller's capability set for the dialog.
type Role struct {
	RequestManager bool
}

// ValidationError blocks a submit before anything is written.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate returns the status to write for s under role. Request managers
// move the request to In Progress and must assign a manager; everyone else
// resubmits as New.
func Validate(s Session, role Role) (string, error) {
	if !role.RequestManager {
		return api.StatusNew, nil
	}
	if s.ManagerID == UnsetManager {
		return "", &ValidationError{
			Field:   "Manager",
			Message: "Assigned Manager field is mandatory",
			Err:     ErrManagerRequired,
		}
	}
	return api.StatusInProgress, nil
}
