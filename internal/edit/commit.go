package edit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gravitrone/reqdesk/internal/api"
)

// TagsFieldTitle is the logical name of the tag field. Its storage name is
// generated by the store and must be looked up.
const TagsFieldTitle = "Tags_0"

// Service is the data-access surface a commit writes through.
type Service interface {
	UpdateRequest(list string, id int, fields api.RequestFields) (*api.UpdateHandle, error)
	ResolveField(list, title string) (*api.FieldInfo, error)
	UpdateTagField(handle *api.UpdateHandle, storageName, value string) error
}

// RefreshFunc re-fetches the caller's list after a successful commit.
type RefreshFunc func() ([]api.Request, error)

// Phase names a step of the commit.
type Phase string

const (
	PhaseCore    Phase = "core fields"
	PhaseTags    Phase = "tags"
	PhaseRefresh Phase = "refresh"
)

// PhaseError reports which step of a commit failed.
type PhaseError struct {
	Phase     Phase
	RequestID int
	Err       error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("request %d: %s: %v", e.RequestID, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Submission is a validated snapshot of a session, safe to hand to a
// background write.
type Submission struct {
	RequestID int
	Fields    api.RequestFields
	Tags      []string
}

// TagValue is the tag field value written in the second phase.
func (s Submission) TagValue() string {
	return strings.Join(s.Tags, TagSeparator)
}

// Result is the outcome of Write. CoreSaved stays true when only the tag
// phase or the refresh failed; nothing is rolled back.
type Result struct {
	RequestID int
	Status    string
	CoreSaved bool
	TagsSaved bool
	Items     []api.Request
	Err       error
}

// OK reports whether every phase succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Committer validates sessions and writes them in two phases followed by a
// list refresh.
type Committer struct {
	service Service
	refresh RefreshFunc
	list    string
	logger  *slog.Logger
}

// NewCommitter wires a committer for the Requests list. refresh may be nil.
func NewCommitter(service Service, refresh RefreshFunc, logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Committer{
		service: service,
		refresh: refresh,
		list:    api.RequestsList,
		logger:  logger,
	}
}

// Prepare validates s against role and snapshots it for writing.
func (c *Committer) Prepare(record *api.Request, s Session, role Role) (Submission, error) {
	if record == nil {
		return Submission{}, fmt.Errorf("prepare commit: no request selected")
	}
	status, err := Validate(s, role)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		RequestID: record.ID,
		Fields:    s.Fields(status),
		Tags:      s.Tags.Values(),
	}, nil
}

// Write runs the core-field update, then the tag field update, then the
// refresh. A failing phase stops the ones after it.
func (c *Committer) Write(sub Submission) Result {
	res := Result{RequestID: sub.RequestID, Status: sub.Fields.Status}
	log := c.logger.With(slog.Int("request_id", sub.RequestID))

	handle, err := c.service.UpdateRequest(c.list, sub.RequestID, sub.Fields)
	if err != nil {
		return c.fail(log, res, PhaseCore, err)
	}
	res.CoreSaved = true
	log.Debug("core fields saved", slog.String("status", sub.Fields.Status))

	field, err := c.service.ResolveField(c.list, TagsFieldTitle)
	if err != nil {
		return c.fail(log, res, PhaseTags, fmt.Errorf("resolve %s: %w", TagsFieldTitle, err))
	}
	if err := c.service.UpdateTagField(handle, field.InternalName, sub.TagValue()); err != nil {
		return c.fail(log, res, PhaseTags, err)
	}
	res.TagsSaved = true
	log.Debug("tags saved", slog.Int("count", len(sub.Tags)))

	if c.refresh == nil {
		return res
	}
	items, err := c.refresh()
	if err != nil {
		return c.fail(log, res, PhaseRefresh, err)
	}
	res.Items = items
	log.Info("request updated", slog.String("status", res.Status))
	return res
}

// Commit is Prepare followed by Write.
func (c *Committer) Commit(record *api.Request, s Session, role Role) Result {
	sub, err := c.Prepare(record, s, role)
	if err != nil {
		res := Result{Err: err}
		if record != nil {
			res.RequestID = record.ID
		}
		return res
	}
	return c.Write(sub)
}

func (c *Committer) fail(log *slog.Logger, res Result, phase Phase, err error) Result {
	res.Err = &PhaseError{Phase: phase, RequestID: res.RequestID, Err: err}
	log.Error("commit failed",
		slog.String("phase", string(phase)),
		slog.Bool("core_saved", res.CoreSaved),
		slog.Any("error", err),
	)
	return res
}
