package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/edit"
	"github.com/gravitrone/reqdesk/internal/ui/components"
)

// --- Fields ---

type editField int

const (
	fieldTitle editField = iota
	fieldDescription
	fieldDueDate
	fieldManager
	fieldType
	fieldArea
	fieldTags
	fieldUpdate
	fieldCancel
)

var fieldLabels = map[editField]string{
	fieldTitle:       "Title",
	fieldDescription: "Description",
	fieldDueDate:     "Due Date",
	fieldManager:     "Assigned Manager",
	fieldType:        "Request Type",
	fieldArea:        "Request Area",
	fieldTags:        "Tags",
}

const managerMatchesShown = 5

// --- Messages ---

type commitDoneMsg struct {
	result     edit.Result
	optimistic bool
}

// EditDialogModel is the form bound to an edit.Dialog. Every keystroke is
// written straight into the dialog's session; the commit reads nothing else.
type EditDialogModel struct {
	dialog    *edit.Dialog
	committer *edit.Committer
	choices   Choices

	fields []editField
	focus  int

	title        textinput.Model
	description  textarea.Model
	dueDate      textinput.Model
	managerQuery textinput.Model
	managerIdx   int
	tagIdx       int

	dateErr string
	formErr string
	notice  string

	now   func() time.Time
	width int
}

// NewEditDialogModel creates a hidden dialog.
func NewEditDialogModel(committer *edit.Committer, role edit.Role, policy edit.ClosePolicy) EditDialogModel {
	title := textinput.New()
	title.Prompt = ""
	title.CharLimit = 255
	title.Width = 48

	desc := textarea.New()
	desc.ShowLineNumbers = false
	desc.CharLimit = 4000
	desc.SetWidth(56)
	desc.SetHeight(4)

	due := textinput.New()
	due.Prompt = ""
	due.Placeholder = edit.DateLayout
	due.CharLimit = len(edit.DateLayout)
	due.Width = 12

	query := textinput.New()
	query.Prompt = "search: "
	query.CharLimit = 64
	query.Width = 30

	return EditDialogModel{
		dialog:       edit.NewDialog(role, policy),
		committer:    committer,
		title:        title,
		description:  desc,
		dueDate:      due,
		managerQuery: query,
		now:          time.Now,
	}
}

// Visible reports whether the dialog is open.
func (m EditDialogModel) Visible() bool {
	return m.dialog.Visible()
}

// open shows the dialog for r with a freshly seeded session.
func (m EditDialogModel) open(r *api.Request, choices Choices) (EditDialogModel, tea.Cmd) {
	m.choices = choices
	m.dialog.Open(r)
	m.loadInputs()
	m.managerQuery.SetValue("")
	m.managerIdx = 0
	m.tagIdx = 0
	m.dateErr = ""
	m.formErr = ""
	m.notice = ""
	m.fields = m.activeFields()
	m.focus = 0
	return m.applyFocus()
}

// setChoices swaps in option sources that arrived after the dialog opened.
// Focus stays on the same field when it is still offered.
func (m EditDialogModel) setChoices(choices Choices) (EditDialogModel, tea.Cmd) {
	m.choices = choices
	if !m.dialog.Visible() {
		return m, nil
	}
	cur := m.current()
	m.fields = m.activeFields()
	m.focus = 0
	for i, f := range m.fields {
		if f == cur {
			m.focus = i
			break
		}
	}
	if n := len(m.choices.Terms); m.tagIdx >= n {
		m.tagIdx = 0
	}
	if n := len(m.choices.filterManagers(m.managerQuery.Value())); m.managerIdx >= n {
		m.managerIdx = 0
	}
	return m.applyFocus()
}

// loadInputs copies the session into the text widgets.
func (m *EditDialogModel) loadInputs() {
	s := m.dialog.Session()
	m.title.SetValue(s.Title)
	m.description.SetValue(s.Description)
	m.dueDate.SetValue(edit.FormatDate(s.DueDate))
}

// activeFields lists the focusable fields for the current role. Managers
// only triage: the requester's fields stay read-only for them.
func (m EditDialogModel) activeFields() []editField {
	var out []editField
	if m.dialog.Role().RequestManager {
		out = append(out, fieldManager)
	} else {
		out = append(out, fieldTitle, fieldDescription, fieldDueDate)
	}
	out = append(out, fieldType)
	if len(m.choices.Areas) > 0 {
		out = append(out, fieldArea)
	}
	return append(out, fieldTags, fieldUpdate, fieldCancel)
}

func (m EditDialogModel) current() editField {
	if len(m.fields) == 0 {
		return fieldUpdate
	}
	return m.fields[m.focus]
}

func (m EditDialogModel) enabled(f editField) bool {
	for _, af := range m.fields {
		if af == f {
			return true
		}
	}
	return false
}

func (m EditDialogModel) moveFocus(delta int) (EditDialogModel, tea.Cmd) {
	if len(m.fields) == 0 {
		return m, nil
	}
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	return m.applyFocus()
}

func (m EditDialogModel) applyFocus() (EditDialogModel, tea.Cmd) {
	m.title.Blur()
	m.description.Blur()
	m.dueDate.Blur()
	m.managerQuery.Blur()
	switch m.current() {
	case fieldTitle:
		return m, m.title.Focus()
	case fieldDescription:
		return m, m.description.Focus()
	case fieldDueDate:
		return m, m.dueDate.Focus()
	case fieldManager:
		return m, m.managerQuery.Focus()
	}
	return m, nil
}

func (m EditDialogModel) Update(msg tea.Msg) (EditDialogModel, tea.Cmd) {
	if !m.dialog.Visible() {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}
	if m.dialog.Saving() {
		return m, nil
	}
	switch {
	case isSubmit(key):
		return m.submit()
	case isBack(key):
		m.dialog.Dismiss()
		return m.blurAll(), nil
	case isNextField(key):
		return m.moveFocus(1)
	case isPrevField(key):
		return m.moveFocus(-1)
	}
	return m.updateField(key)
}

// updateInputs forwards non-key messages such as cursor blinks.
func (m EditDialogModel) updateInputs(msg tea.Msg) (EditDialogModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.current() {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	case fieldDueDate:
		m.dueDate, cmd = m.dueDate.Update(msg)
	case fieldManager:
		m.managerQuery, cmd = m.managerQuery.Update(msg)
	}
	return m, cmd
}

func (m EditDialogModel) updateField(msg tea.KeyMsg) (EditDialogModel, tea.Cmd) {
	s := m.dialog.Session()
	field := m.current()

	// Single-line fields move focus with up/down; the description keeps
	// them for its own cursor.
	if field != fieldDescription {
		switch {
		case isUp(msg, false):
			return m.moveFocus(-1)
		case isDown(msg, false):
			return m.moveFocus(1)
		}
	}

	var cmd tea.Cmd
	switch field {
	case fieldTitle:
		if isEnter(msg) {
			return m.moveFocus(1)
		}
		m.title, cmd = m.title.Update(msg)
		s.SetTitle(m.title.Value())

	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
		s.SetDescription(m.description.Value())

	case fieldDueDate:
		if isEnter(msg) {
			return m.moveFocus(1)
		}
		m.dueDate, cmd = m.dueDate.Update(msg)
		m.syncDueDate()

	case fieldManager:
		matches := m.choices.filterManagers(m.managerQuery.Value())
		switch {
		case isLeft(msg):
			if len(matches) > 0 {
				m.managerIdx = (m.managerIdx - 1 + len(matches)) % len(matches)
			}
		case isRight(msg):
			if len(matches) > 0 {
				m.managerIdx = (m.managerIdx + 1) % len(matches)
			}
		case isEnter(msg):
			if m.managerIdx < len(matches) {
				s.SetManagerID(matches[m.managerIdx].ID)
				m.formErr = ""
			}
		default:
			before := m.managerQuery.Value()
			m.managerQuery, cmd = m.managerQuery.Update(msg)
			if m.managerQuery.Value() != before {
				m.managerIdx = 0
			}
		}

	case fieldType:
		if n := len(m.choices.Types); n > 0 && (isLeft(msg) || isRight(msg) || isSpace(msg)) {
			idx := cycle(m.choices.typeIndex(s.RequestTypeID), n, isLeft(msg))
			s.SetRequestTypeID(m.choices.Types[idx].ID)
		} else if isEnter(msg) {
			return m.moveFocus(1)
		}

	case fieldArea:
		if n := len(m.choices.Areas); n > 0 && (isLeft(msg) || isRight(msg) || isSpace(msg)) {
			idx := cycle(m.choices.areaIndex(s.RequestArea), n, isLeft(msg))
			s.SetRequestArea(m.choices.Areas[idx])
		} else if isEnter(msg) {
			return m.moveFocus(1)
		}

	case fieldTags:
		n := len(m.choices.Terms)
		switch {
		case n == 0:
		case isLeft(msg):
			m.tagIdx = (m.tagIdx - 1 + n) % n
		case isRight(msg):
			m.tagIdx = (m.tagIdx + 1) % n
		case isSpace(msg), isEnter(msg):
			s.ToggleTag(m.choices.Terms[m.tagIdx].ID)
		}

	case fieldUpdate:
		switch {
		case isEnter(msg), isSpace(msg):
			return m.submit()
		case isRight(msg):
			return m.moveFocus(1)
		}

	case fieldCancel:
		switch {
		case isEnter(msg), isSpace(msg):
			return m.cancel(), nil
		case isLeft(msg):
			return m.moveFocus(-1)
		}
	}
	return m, cmd
}

// cycle steps a select index, starting at the first option when nothing
// is selected yet.
func cycle(idx, n int, back bool) int {
	if idx < 0 {
		return 0
	}
	if back {
		return (idx - 1 + n) % n
	}
	return (idx + 1) % n
}

// syncDueDate writes the typed date into the session once it parses and is
// far enough out. Anything else leaves the session alone and shows why.
func (m *EditDialogModel) syncDueDate() {
	raw := strings.TrimSpace(m.dueDate.Value())
	if raw == "" {
		m.dateErr = "Due date is required"
		return
	}
	t, err := edit.ParseDate(raw)
	if err != nil {
		m.dateErr = "Use " + edit.DateLayout
		return
	}
	if err := edit.CheckDueDate(t, m.now()); err != nil {
		m.dateErr = fmt.Sprintf("Earliest due date is %s", edit.FormatDate(edit.MinDueDate(m.now())))
		return
	}
	m.dateErr = ""
	m.dialog.Session().SetDueDate(t)
}

// checkForm enforces the required inputs of the enabled fields.
func (m EditDialogModel) checkForm() string {
	s := m.dialog.Session()
	if m.enabled(fieldTitle) && strings.TrimSpace(s.Title) == "" {
		return "Title is required"
	}
	if m.enabled(fieldDescription) && strings.TrimSpace(s.Description) == "" {
		return "Description is required"
	}
	if m.enabled(fieldDueDate) {
		if m.dateErr != "" {
			return m.dateErr
		}
		if s.DueDate.IsZero() {
			return "Due date is required"
		}
	}
	if s.RequestTypeID == 0 {
		return "Request type is required"
	}
	return ""
}

func (m EditDialogModel) submit() (EditDialogModel, tea.Cmd) {
	if msg := m.checkForm(); msg != "" {
		m.formErr = msg
		return m, nil
	}
	m.formErr = ""
	m.notice = ""
	sub, ok := m.dialog.Submit(m.committer)
	if !ok {
		return m, nil
	}
	optimistic := m.dialog.Policy() == edit.CloseOptimistic
	if optimistic {
		m = m.blurAll()
	}
	committer := m.committer
	return m, func() tea.Msg {
		return commitDoneMsg{result: committer.Write(sub), optimistic: optimistic}
	}
}

func (m EditDialogModel) cancel() EditDialogModel {
	if m.dialog.Cancel() {
		m.loadInputs()
		m.dateErr = ""
		m.formErr = ""
		m = m.blurAll()
	}
	return m
}

// finish applies a commit result to the dialog.
func (m EditDialogModel) finish(res edit.Result) EditDialogModel {
	m.dialog.Finish(res)
	if !m.dialog.Visible() {
		m = m.blurAll()
	}
	return m
}

// syncRecord reseeds an open, idle dialog when a refresh brings a newer
// version of its request.
func (m EditDialogModel) syncRecord(fresh *api.Request) EditDialogModel {
	if !m.dialog.Visible() || m.dialog.Saving() || fresh == nil {
		return m
	}
	cur := m.dialog.Record()
	if cur == nil || cur.ID != fresh.ID || cur.Modified.Equal(fresh.Modified) {
		return m
	}
	m.dialog.SetRecord(fresh)
	m.loadInputs()
	m.dateErr = ""
	m.notice = "This request changed on the server; the form was reloaded."
	return m
}

func (m EditDialogModel) blurAll() EditDialogModel {
	m.title.Blur()
	m.description.Blur()
	m.dueDate.Blur()
	m.managerQuery.Blur()
	return m
}

// --- View ---

func (m EditDialogModel) View() string {
	if !m.dialog.Visible() {
		return ""
	}
	s := m.dialog.Session()
	manager := m.dialog.Role().RequestManager
	var b strings.Builder

	if m.notice != "" {
		b.WriteString(WarningStyle.Render(m.notice) + "\n\n")
	}

	m.writeField(&b, fieldTitle, func(focused bool) string {
		if focused {
			return m.title.View()
		}
		return orDash(s.Title)
	})
	m.writeField(&b, fieldDescription, func(focused bool) string {
		if focused {
			return m.description.View()
		}
		return orDash(components.ClampTextWidth(s.Description, 56))
	})
	m.writeField(&b, fieldDueDate, func(focused bool) string {
		out := orDash(edit.FormatDate(s.DueDate))
		if focused {
			out = m.dueDate.View() + "  " + MutedStyle.Render("earliest "+edit.FormatDate(edit.MinDueDate(m.now())))
		}
		if m.dateErr != "" {
			out += "\n  " + ErrorStyle.Render(m.dateErr)
		}
		return out
	})
	if manager {
		m.writeField(&b, fieldManager, func(focused bool) string {
			chosen := m.choices.managerTitle(s.ManagerID)
			if chosen == "" {
				chosen = "(none)"
			}
			if !focused {
				return chosen
			}
			return chosen + "\n  " + m.managerQuery.View() + "\n  " + m.renderManagerMatches()
		})
	}
	m.writeField(&b, fieldType, func(focused bool) string {
		return selectValue(m.choices.typeTitle(s.RequestTypeID), focused)
	})
	if len(m.choices.Areas) > 0 {
		m.writeField(&b, fieldArea, func(focused bool) string {
			return selectValue(s.RequestArea, focused)
		})
	}
	m.writeField(&b, fieldTags, func(focused bool) string {
		return m.renderTags(focused)
	})

	saving := m.dialog.Saving()
	b.WriteString(components.Buttons(
		components.Button("Update", m.current() == fieldUpdate, saving),
		components.Button("Cancel", m.current() == fieldCancel, saving),
	))

	if err := m.dialog.Err(); err != nil {
		b.WriteString("\n\n" + ErrorStyle.Render(errorText(err)))
	}
	if m.formErr != "" {
		b.WriteString("\n\n" + ErrorStyle.Render(m.formErr))
	}
	if saving {
		b.WriteString("\n\n" + MutedStyle.Render("Saving..."))
	}

	title := "Edit Request"
	if r := m.dialog.Record(); r != nil {
		title = fmt.Sprintf("Edit Request #%d", r.ID)
	}
	return components.Indent(components.ActiveTitledBox(title, b.String(), m.width), 1)
}

func (m EditDialogModel) writeField(b *strings.Builder, f editField, value func(focused bool) string) {
	label := fieldLabels[f]
	focused := m.current() == f
	switch {
	case !m.enabled(f):
		b.WriteString(DisabledStyle.Render("  " + label + ": (locked)"))
	case focused:
		b.WriteString(SelectedStyle.Render("> " + label + ":"))
	default:
		b.WriteString(MutedStyle.Render("  " + label + ":"))
	}
	b.WriteString("\n")
	b.WriteString(NormalStyle.Render("  " + value(focused && m.enabled(f))))
	b.WriteString("\n\n")
}

func (m EditDialogModel) renderManagerMatches() string {
	matches := m.choices.filterManagers(m.managerQuery.Value())
	if len(matches) == 0 {
		return MutedStyle.Render("no matches")
	}
	parts := make([]string, 0, managerMatchesShown)
	for i, o := range matches {
		if i == managerMatchesShown {
			parts = append(parts, MutedStyle.Render(fmt.Sprintf("+%d", len(matches)-i)))
			break
		}
		if i == m.managerIdx {
			parts = append(parts, SelectedStyle.Render("["+o.Title+"]"))
		} else {
			parts = append(parts, o.Title)
		}
	}
	return strings.Join(parts, "  ")
}

func (m EditDialogModel) renderTags(focused bool) string {
	s := m.dialog.Session()
	if !focused {
		labels := make([]string, 0, s.Tags.Len())
		for _, id := range s.Tags.Values() {
			labels = append(labels, m.choices.termLabel(id))
		}
		return components.Pills(labels)
	}
	if len(m.choices.Terms) == 0 {
		return MutedStyle.Render("no tags available")
	}
	parts := make([]string, 0, len(m.choices.Terms))
	for i, t := range m.choices.Terms {
		box := components.Checkbox(t.Label, s.Tags.Has(t.ID))
		if i == m.tagIdx {
			box = SelectedStyle.Render(">") + box
		}
		parts = append(parts, box)
	}
	return strings.Join(parts, "  ")
}

func selectValue(label string, focused bool) string {
	if label == "" {
		label = "(choose)"
	}
	if focused {
		return "< " + label + " >"
	}
	return label
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// errorText renders commit and validation errors for the user.
func errorText(err error) string {
	var verr *edit.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var perr *edit.PhaseError
	if errors.As(err, &perr) {
		switch perr.Phase {
		case edit.PhaseTags:
			return fmt.Sprintf("Fields saved, but tags were not: %v", perr.Err)
		case edit.PhaseRefresh:
			return fmt.Sprintf("Saved, but the list could not be refreshed: %v", perr.Err)
		}
		return fmt.Sprintf("Save failed: %v", perr.Err)
	}
	return err.Error()
}
