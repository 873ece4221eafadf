package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/config"
	"github.com/gravitrone/reqdesk/internal/devserver"
)

// newDevClient serves a seeded in-memory devserver.
func newDevClient(t *testing.T) *api.Client {
	t.Helper()
	store, err := devserver.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, devserver.Seed(context.Background(), store, time.Now()))

	ts := httptest.NewServer(devserver.New(store, "", nil).Handler())
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL, "", 5*time.Second)
}

// testUIClient serves handler for failure-injection tests.
func testUIClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL, "", 5*time.Second)
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	require.True(t, ok)
	return app, cmd
}

// loadedApp runs the startup loads synchronously.
func loadedApp(t *testing.T, client *api.Client, cfg *config.Config) App {
	t.Helper()
	app := NewApp(client, cfg, nil)
	app, _ = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	app, _ = update(t, app, app.requests.loadRequests()())
	app, _ = update(t, app, loadChoicesCmd(client)())
	require.NotEmpty(t, app.requests.items)
	return app
}

// openEditor presses enter on the list and applies the resulting message.
func openEditor(t *testing.T, app App) App {
	t.Helper()
	app, cmd := update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app, _ = update(t, app, cmd())
	require.True(t, app.editor.Visible())
	return app
}

// focusField tabs until f has focus.
func focusField(t *testing.T, app App, f editField) App {
	t.Helper()
	for i := 0; i < len(app.editor.fields); i++ {
		if app.editor.current() == f {
			return app
		}
		app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	}
	require.Equal(t, f, app.editor.current(), "field not reachable")
	return app
}

func typeText(t *testing.T, app App, s string) App {
	t.Helper()
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return app
}

func ctrlS() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlS}
}
