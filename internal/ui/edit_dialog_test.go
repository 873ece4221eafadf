package ui

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/config"
	"github.com/gravitrone/reqdesk/internal/edit"
)

func requesterConfig() *config.Config {
	return &config.Config{Username: "sam"}
}

func managerConfig() *config.Config {
	return &config.Config{Username: "grace", RequestManager: true}
}

func TestEditDialogRequesterFieldsAndSeed(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))

	assert.Equal(t, []editField{
		fieldTitle, fieldDescription, fieldDueDate, fieldType, fieldArea, fieldTags, fieldUpdate, fieldCancel,
	}, app.editor.fields)
	assert.Equal(t, fieldTitle, app.editor.current())

	s := app.editor.dialog.Session()
	assert.Equal(t, "New laptop for Sam", s.Title)
	assert.Equal(t, "New laptop for Sam", app.editor.title.Value())
	assert.Equal(t, edit.UnsetManager, s.ManagerID)
	assert.Equal(t, 2, s.Tags.Len())

	out := app.View()
	assert.Contains(t, out, "Edit Request #1")
	assert.NotContains(t, out, "Assigned Manager")
	assert.NotContains(t, out, "search:")
}

func TestEditDialogManagerFieldsLockRequesterInputs(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), managerConfig()))

	assert.Equal(t, []editField{
		fieldManager, fieldType, fieldArea, fieldTags, fieldUpdate, fieldCancel,
	}, app.editor.fields)
	assert.False(t, app.editor.enabled(fieldTitle))
	assert.False(t, app.editor.enabled(fieldDueDate))
	assert.Contains(t, app.View(), "Title: (locked)")
}

func TestEditDialogTypingUpdatesSession(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))

	app = typeText(t, app, " (urgent)")
	assert.Equal(t, "New laptop for Sam (urgent)", app.editor.dialog.Session().Title)

	app = focusField(t, app, fieldDescription)
	app = typeText(t, app, " Asap.")
	assert.Equal(t, "Onboarding kit for the new analyst. Asap.", app.editor.dialog.Session().Description)
}

func TestEditDialogDueDateValidation(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	app.editor.now = func() time.Time { return now }
	seeded := app.editor.dialog.Session().DueDate

	app = focusField(t, app, fieldDueDate)
	app.editor.dueDate.SetValue("")
	app = typeText(t, app, "2024-03-02")
	assert.Equal(t, "Earliest due date is 2024-03-04", app.editor.dateErr)
	assert.Equal(t, seeded, app.editor.dialog.Session().DueDate)

	app, cmd := update(t, app, ctrlS())
	assert.Nil(t, cmd)
	assert.Equal(t, "Earliest due date is 2024-03-04", app.editor.formErr)
	assert.False(t, app.editor.dialog.Saving())

	app.editor.dueDate.SetValue("")
	app = typeText(t, app, "2024-3-9")
	assert.Equal(t, "Use 2006-01-02", app.editor.dateErr)

	app.editor.dueDate.SetValue("")
	app = typeText(t, app, "2024-03-04")
	assert.Empty(t, app.editor.dateErr)
	assert.Equal(t, "2024-03-04", edit.FormatDate(app.editor.dialog.Session().DueDate))
}

func TestEditDialogRequiresDescriptionForRequester(t *testing.T) {
	app := loadedApp(t, newDevClient(t), requesterConfig())
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = openEditor(t, app)
	require.Equal(t, 3, app.editor.dialog.Record().ID)

	app, cmd := update(t, app, ctrlS())
	assert.Nil(t, cmd)
	assert.Equal(t, "Description is required", app.editor.formErr)
	assert.Contains(t, app.View(), "Description is required")
}

func TestEditDialogManagerMustAssignManager(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), managerConfig()))

	app, cmd := update(t, app, ctrlS())
	assert.Nil(t, cmd)
	assert.True(t, app.editor.Visible())
	var verr *edit.ValidationError
	require.ErrorAs(t, app.editor.dialog.Err(), &verr)
	assert.Contains(t, app.View(), "Assigned Manager field is mandatory")
}

func TestEditDialogManagerSearchAndCommit(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), managerConfig()))

	app = typeText(t, app, "grace")
	assert.Contains(t, app.View(), "[Grace Hopper]")
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 12, app.editor.dialog.Session().ManagerID)

	app, cmd := update(t, app, ctrlS())
	require.NotNil(t, cmd)
	assert.True(t, app.editor.dialog.Saving())
	assert.Contains(t, app.View(), "Saving...")

	// Keys are ignored until the write finishes.
	app, ignored := update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, ignored)
	assert.True(t, app.editor.Visible())

	msg, ok := cmd().(commitDoneMsg)
	require.True(t, ok)
	assert.False(t, msg.optimistic)
	require.NoError(t, msg.result.Err)

	app, _ = update(t, app, msg)
	assert.False(t, app.editor.Visible())
	require.NotNil(t, app.toast)
	assert.Equal(t, "success", app.toast.level)
	assert.Equal(t, "Request #1 saved as In Progress.", app.toast.text)

	updated := app.requests.find(1)
	require.NotNil(t, updated)
	assert.Equal(t, api.StatusInProgress, updated.Status)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, 12, *updated.ManagerID)
}

func TestEditDialogManagerCycleMatches(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), managerConfig()))

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRight})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 12, app.editor.dialog.Session().ManagerID)

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 13, app.editor.dialog.Session().ManagerID)

	app = typeText(t, app, "zzz")
	assert.Contains(t, app.View(), "no matches")
}

func TestEditDialogTagsToggleAndCommit(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))
	app = focusField(t, app, fieldTags)

	// Terms are Laptop, Licence, Network, Onboarding, Urgent.
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	s := app.editor.dialog.Session()
	labels := make([]string, 0, s.Tags.Len())
	for _, id := range s.Tags.Values() {
		labels = append(labels, app.choices.termLabel(id))
	}
	assert.Equal(t, []string{"Onboarding", "Urgent"}, labels)

	app = focusField(t, app, fieldUpdate)
	app, cmd := update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app, _ = update(t, app, cmd())

	assert.False(t, app.editor.Visible())
	updated := app.requests.find(1)
	require.NotNil(t, updated)
	assert.Equal(t, api.StatusNew, updated.Status)
	got := make([]string, 0, len(updated.Tags))
	for _, tag := range updated.Tags {
		got = append(got, tag.Label)
	}
	assert.Equal(t, []string{"Onboarding", "Urgent"}, got)
}

func TestEditDialogTypeAndAreaCycle(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))

	app = focusField(t, app, fieldType)
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, app.editor.dialog.Session().RequestTypeID)
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 3, app.editor.dialog.Session().RequestTypeID)

	app = focusField(t, app, fieldArea)
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "HR", app.editor.dialog.Session().RequestArea)
}

func TestEditDialogEscDismissKeepsSession(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))
	app = typeText(t, app, "!")

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, app.editor.Visible())
	assert.Equal(t, "New laptop for Sam!", app.editor.dialog.Session().Title)
	assert.Contains(t, app.View(), "Requests (3)")
}

func TestEditDialogCancelRestoresSession(t *testing.T) {
	app := openEditor(t, loadedApp(t, newDevClient(t), requesterConfig()))
	app = typeText(t, app, "!")

	app = focusField(t, app, fieldCancel)
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, app.editor.Visible())
	assert.Equal(t, "New laptop for Sam", app.editor.dialog.Session().Title)
	assert.Equal(t, "New laptop for Sam", app.editor.title.Value())
}

func TestEditDialogHidesAreaWithoutChoices(t *testing.T) {
	m := NewEditDialogModel(nil, edit.Role{}, edit.CloseOnSuccess)
	r := &api.Request{ID: 4, Title: "x", RequestTypeID: 1}

	m, _ = m.open(r, Choices{Types: []api.Option{{ID: 1, Title: "Hardware"}}})
	assert.False(t, m.enabled(fieldArea))
	assert.NotContains(t, m.View(), "Request Area")
}

func TestEditDialogSyncRecordReseedsIdleDialog(t *testing.T) {
	m := NewEditDialogModel(nil, edit.Role{}, edit.CloseOnSuccess)
	first := &api.Request{ID: 4, Title: "old", Modified: time.Unix(100, 0)}
	m, _ = m.open(first, Choices{})
	m.title.SetValue("typing")

	same := &api.Request{ID: 4, Title: "old copy", Modified: time.Unix(100, 0)}
	m = m.syncRecord(same)
	assert.Same(t, first, m.dialog.Record())
	assert.Empty(t, m.notice)

	fresh := &api.Request{ID: 4, Title: "new", Modified: time.Unix(200, 0)}
	m = m.syncRecord(fresh)
	assert.Same(t, fresh, m.dialog.Record())
	assert.Equal(t, "new", m.dialog.Session().Title)
	assert.Equal(t, "new", m.title.Value())
	assert.NotEmpty(t, m.notice)

	other := &api.Request{ID: 5, Title: "other", Modified: time.Unix(300, 0)}
	m = m.syncRecord(other)
	assert.Same(t, fresh, m.dialog.Record())
}

func TestErrorText(t *testing.T) {
	boom := assert.AnError
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &edit.ValidationError{Message: "Assigned Manager field is mandatory"}, "Assigned Manager field is mandatory"},
		{"core", &edit.PhaseError{Phase: edit.PhaseCore, Err: boom}, "Save failed: " + boom.Error()},
		{"tags", &edit.PhaseError{Phase: edit.PhaseTags, Err: boom}, "Fields saved, but tags were not: " + boom.Error()},
		{"refresh", &edit.PhaseError{Phase: edit.PhaseRefresh, Err: boom}, "Saved, but the list could not be refreshed: " + boom.Error()},
		{"plain", boom, boom.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorText(tt.err))
		})
	}
}

// failingTagsHandler serves one request and fails every tag field write.
func failingTagsHandler(t *testing.T) http.HandlerFunc {
	item := api.Request{
		ID: 7, Title: "Broken tags", Description: "d", DueDate: time.Now().AddDate(0, 0, 30),
		RequestTypeID: 1, Status: api.StatusNew, Tags: []api.Tag{},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/managers":
			writeData(w, []api.Option{{ID: 11, Title: "Ada Lovelace"}})
		case r.URL.Path == "/api/request-types":
			writeData(w, []api.Option{{ID: 1, Title: "Hardware"}})
		case r.URL.Path == "/api/taxonomy/Tags":
			writeData(w, []api.Term{{ID: "t1", Label: "Urgent"}})
		case r.URL.Path == "/api/lists/Requests/fields/RequestArea/choices":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": "not_found", "message": "no such field"}})
		case r.URL.Path == "/api/lists/Requests/fields":
			writeData(w, []api.FieldInfo{{Title: edit.TagsFieldTitle, InternalName: "o1a2b3c4"}})
		case r.URL.Path == "/api/lists/Requests/items":
			writeData(w, []api.Request{item})
		case r.URL.Path == "/api/lists/Requests/items/7" && r.Method == http.MethodPatch:
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if _, ok := body["o1a2b3c4"]; ok {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": "internal_error", "message": "tag store offline"}})
				return
			}
			writeData(w, api.UpdateHandle{List: api.RequestsList, ID: 7, ETag: `"2"`})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestEditDialogTagFailureKeepsDialogOpen(t *testing.T) {
	client := testUIClient(t, failingTagsHandler(t))
	app := openEditor(t, loadedApp(t, client, requesterConfig()))
	assert.Nil(t, app.choices.Areas)
	assert.False(t, app.editor.enabled(fieldArea))

	app, cmd := update(t, app, ctrlS())
	require.NotNil(t, cmd)
	msg := cmd().(commitDoneMsg)
	assert.True(t, msg.result.CoreSaved)
	assert.False(t, msg.result.TagsSaved)

	app, _ = update(t, app, msg)
	assert.True(t, app.editor.Visible())
	assert.False(t, app.editor.dialog.Saving())
	assert.Nil(t, app.toast)
	assert.Contains(t, app.View(), "Fields saved, but tags were not")
	assert.True(t, strings.Contains(app.View(), "tag store offline"))
}

func TestEditDialogOptimisticFailureShowsToast(t *testing.T) {
	client := testUIClient(t, failingTagsHandler(t))
	cfg := requesterConfig()
	cfg.ClosePolicy = config.ClosePolicyOptimistic
	app := openEditor(t, loadedApp(t, client, cfg))

	app, cmd := update(t, app, ctrlS())
	require.NotNil(t, cmd)
	assert.False(t, app.editor.Visible())
	assert.False(t, app.editor.dialog.Saving())

	msg := cmd().(commitDoneMsg)
	assert.True(t, msg.optimistic)
	app, _ = update(t, app, msg)
	assert.False(t, app.editor.Visible())
	require.NotNil(t, app.toast)
	assert.Equal(t, "error", app.toast.level)
	assert.Contains(t, app.toast.text, "Request #7: Fields saved, but tags were not")
}

func TestEditDialogPicksUpChoicesLoadedAfterOpen(t *testing.T) {
	client := newDevClient(t)
	app := NewApp(client, requesterConfig(), nil)
	app, _ = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	app, _ = update(t, app, app.requests.loadRequests()())
	app = openEditor(t, app)

	app = focusField(t, app, fieldTags)
	assert.False(t, app.editor.enabled(fieldArea))
	assert.Contains(t, app.View(), "no tags available")

	app, _ = update(t, app, loadChoicesCmd(client)())
	assert.Len(t, app.editor.choices.Terms, 5)
	assert.True(t, app.editor.enabled(fieldArea))
	assert.Equal(t, fieldTags, app.editor.current())
	assert.NotContains(t, app.View(), "no tags available")

	// Terms are Laptop, Licence, Network, Onboarding, Urgent.
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	assert.True(t, app.editor.dialog.Session().Tags.Has(app.choices.Terms[4].ID))

	app = focusField(t, app, fieldType)
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, app.editor.dialog.Session().RequestTypeID)
}

func TestEditDialogReopenedDuringOptimisticWriteIsReseeded(t *testing.T) {
	cfg := requesterConfig()
	cfg.ClosePolicy = config.ClosePolicyOptimistic
	app := openEditor(t, loadedApp(t, newDevClient(t), cfg))
	app = typeText(t, app, "!")

	app, cmd := update(t, app, ctrlS())
	require.NotNil(t, cmd)
	require.False(t, app.editor.Visible())

	app = openEditor(t, app)
	assert.Equal(t, "New laptop for Sam", app.editor.dialog.Session().Title)

	app, _ = update(t, app, cmd())
	assert.True(t, app.editor.Visible())
	assert.Equal(t, "New laptop for Sam!", app.editor.dialog.Session().Title)
	assert.Equal(t, "New laptop for Sam!", app.editor.title.Value())
	assert.Contains(t, app.View(), "changed on the server")
}
