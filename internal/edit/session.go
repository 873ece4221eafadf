package edit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gravitrone/reqdesk/internal/api"
)

// UnsetManager is the manager id meaning "no manager chosen".
const UnsetManager = 0

// DateLayout is how due dates are shown and typed.
const DateLayout = "2006-01-02"

// MinLeadDays is how far in the future a due date must be.
const MinLeadDays = 3

// ErrDueDateTooEarly is returned by CheckDueDate for dates before the minimum.
var ErrDueDateTooEarly = errors.New("due date too early")

// Session is the dialog's working copy of a request. It is only written back
// to the store through a commit.
type Session struct {
	Title         string
	Description   string
	DueDate       time.Time
	ManagerID     int
	RequestTypeID int
	RequestArea   string
	Tags          TagSet
}

// Seed resets every field from r. The manager is never pre-filled so that
// each edit confirms the assignment again.
func (s *Session) Seed(r *api.Request) {
	*s = Session{}
	if r == nil {
		return
	}
	s.Title = r.Title
	s.Description = r.Description
	s.DueDate = CalendarDate(r.DueDate)
	s.RequestTypeID = r.RequestTypeID
	s.RequestArea = r.RequestArea
	ids := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		ids = append(ids, tag.TermGUID)
	}
	s.Tags = NewTagSet(ids...)
	s.ManagerID = UnsetManager
}

func (s *Session) SetTitle(v string)       { s.Title = v }
func (s *Session) SetDescription(v string) { s.Description = v }
func (s *Session) SetDueDate(t time.Time)  { s.DueDate = CalendarDate(t) }
func (s *Session) SetManagerID(id int)     { s.ManagerID = id }
func (s *Session) SetRequestTypeID(id int) { s.RequestTypeID = id }

// SetRequestArea takes the choice label, not an index or key.
func (s *Session) SetRequestArea(label string) { s.RequestArea = label }

// ToggleTag flips membership of a tag identifier.
func (s *Session) ToggleTag(id string) { s.Tags.Toggle(id) }

// Fields builds the core-field update for the given status.
func (s Session) Fields(status string) api.RequestFields {
	return api.RequestFields{
		Title:         s.Title,
		Description:   s.Description,
		DueDate:       s.DueDate,
		ManagerID:     s.ManagerID,
		RequestTypeID: s.RequestTypeID,
		RequestArea:   s.RequestArea,
		Status:        status,
	}
}

// CalendarDate drops the time of day, keeping the local calendar date.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	lt := t.In(time.Local)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.Local)
}

// FormatDate renders a date as YYYY-MM-DD from its calendar fields. The zero
// time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate reads a YYYY-MM-DD string as a local calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// MinDueDate is the earliest due date a user may pick on the day of now.
func MinDueDate(now time.Time) time.Time {
	return CalendarDate(now).AddDate(0, 0, MinLeadDays)
}

// CheckDueDate rejects dates before MinDueDate(now).
func CheckDueDate(t, now time.Time) error {
	min := MinDueDate(now)
	if CalendarDate(t).Before(min) {
		return fmt.Errorf("%w: earliest is %s", ErrDueDateTooEarly, FormatDate(min))
	}
	return nil
}
