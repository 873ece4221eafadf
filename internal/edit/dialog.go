package edit

import (
	"fmt"

	"github.com/gravitrone/reqdesk/internal/api"
)

// ClosePolicy decides when a submitted dialog closes.
type ClosePolicy int

const (
	// CloseOnSuccess keeps the dialog open until the commit succeeds.
	CloseOnSuccess ClosePolicy = iota
	// CloseOptimistic closes as soon as validation passes; the write
	// finishes in the background and failures are reported to the caller.
	CloseOptimistic
)

// ParseClosePolicy reads the config spelling of a policy.
func ParseClosePolicy(s string) (ClosePolicy, error) {
	switch s {
	case "", "on_success":
		return CloseOnSuccess, nil
	case "optimistic":
		return CloseOptimistic, nil
	}
	return CloseOnSuccess, fmt.Errorf("unknown close policy %q (want on_success or optimistic)", s)
}

func (p ClosePolicy) String() string {
	if p == CloseOptimistic {
		return "optimistic"
	}
	return "on_success"
}

// Dialog is the visibility and seeding state machine around a Session.
type Dialog struct {
	record  *api.Request
	session Session
	visible bool
	saving  bool
	err     error
	role    Role
	policy  ClosePolicy
}

// NewDialog returns a hidden dialog.
func NewDialog(role Role, policy ClosePolicy) *Dialog {
	return &Dialog{role: role, policy: policy}
}

// Open shows the dialog for r and seeds a fresh session from it.
func (d *Dialog) Open(r *api.Request) {
	d.record = r
	d.visible = true
	d.saving = false
	d.err = nil
	d.session.Seed(r)
}

// SetRecord swaps the target request. A different request reseeds the
// session while the dialog is visible.
func (d *Dialog) SetRecord(r *api.Request) {
	if r == d.record {
		return
	}
	d.record = r
	if d.visible {
		d.err = nil
		d.session.Seed(r)
	}
}

// Cancel hides the dialog and restores the session from the request so the
// next open starts clean. Ignored while a save is in flight.
func (d *Dialog) Cancel() bool {
	if d.saving {
		return false
	}
	d.visible = false
	d.err = nil
	d.session.Seed(d.record)
	return true
}

// Dismiss hides the dialog without touching the session (escape, overlay
// click). Ignored while a save is in flight.
func (d *Dialog) Dismiss() bool {
	if d.saving {
		return false
	}
	d.visible = false
	d.err = nil
	return true
}

// Submit validates the session. On success it returns the snapshot to write;
// the dialog either enters the saving state or, under CloseOptimistic,
// closes right away. Validation failures keep the dialog open.
func (d *Dialog) Submit(c *Committer) (Submission, bool) {
	if !d.visible || d.saving {
		return Submission{}, false
	}
	sub, err := c.Prepare(d.record, d.session, d.role)
	if err != nil {
		d.err = err
		return Submission{}, false
	}
	d.err = nil
	if d.policy == CloseOptimistic {
		d.visible = false
		return sub, true
	}
	d.saving = true
	return sub, true
}

// Finish applies a commit result. Success closes the dialog; failure keeps
// it open with the error so the user can resubmit. Results of optimistic
// submits are ignored, since the dialog may have been reopened meanwhile.
func (d *Dialog) Finish(res Result) {
	if !d.saving {
		return
	}
	d.saving = false
	if res.OK() {
		d.visible = false
		d.err = nil
		return
	}
	d.err = res.Err
}

func (d *Dialog) Visible() bool           { return d.visible }
func (d *Dialog) Saving() bool            { return d.saving }
func (d *Dialog) Err() error              { return d.err }
func (d *Dialog) Record() *api.Request    { return d.record }
func (d *Dialog) Role() Role              { return d.role }
func (d *Dialog) Policy() ClosePolicy     { return d.policy }
func (d *Dialog) Session() *Session       { return &d.session }
func (d *Dialog) SetRole(role Role)       { d.role = role }
func (d *Dialog) SetPolicy(p ClosePolicy) { d.policy = p }
