package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/config"
	"github.com/gravitrone/reqdesk/internal/edit"
	"github.com/gravitrone/reqdesk/internal/ui/components"
)

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type configReloadedMsg struct{ event config.Event }

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model: the requests list with the edit dialog on top.
type App struct {
	client  *api.Client
	config  *config.Config
	watcher *config.Watcher

	requests RequestsModel
	editor   EditDialogModel
	choices  Choices

	width       int
	height      int
	err         string
	toast       *appToast
	quitConfirm bool
}

// NewApp creates the root application model. watcher may be nil.
func NewApp(client *api.Client, cfg *config.Config, watcher *config.Watcher) App {
	if cfg == nil {
		cfg = &config.Config{}
	}
	refresh := func() ([]api.Request, error) {
		return client.ListRequests(api.RequestsList)
	}
	committer := edit.NewCommitter(client, refresh, slog.Default())
	return App{
		client:   client,
		config:   cfg,
		watcher:  watcher,
		requests: NewRequestsModel(client, cfg.VimKeys),
		editor:   NewEditDialogModel(committer, roleFor(cfg), policyFor(cfg)),
	}
}

// roleFor maps the config flag to the dialog role.
func roleFor(cfg *config.Config) edit.Role {
	return edit.Role{RequestManager: cfg != nil && cfg.RequestManager}
}

// policyFor reads the close policy, falling back to close-on-success.
func policyFor(cfg *config.Config) edit.ClosePolicy {
	if cfg == nil {
		return edit.CloseOnSuccess
	}
	p, err := edit.ParseClosePolicy(cfg.ClosePolicy)
	if err != nil {
		slog.Warn("ignoring close policy", slog.Any("error", err))
	}
	return p
}

// baseURLFor is the service root cfg points at. The client cannot switch
// hosts while requests may be in flight.
func baseURLFor(cfg *config.Config) string {
	if cfg.BaseURL == "" {
		return api.DefaultBaseURL
	}
	return strings.TrimRight(cfg.BaseURL, "/")
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.requests.Init(), loadChoicesCmd(a.client)}
	if a.watcher != nil {
		cmds = append(cmds, listenConfigCmd(a.watcher))
	}
	return tea.Batch(cmds...)
}

func listenConfigCmd(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		return configReloadedMsg{event: <-w.Events}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.requests.width = msg.Width
		a.requests.height = msg.Height
		a.editor.width = msg.Width
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		slog.Error("request failed", slog.Any("error", msg.err))
		var cmd tea.Cmd
		a.requests, cmd = a.requests.Update(msg)
		return a, cmd

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case choicesLoadedMsg:
		if msg.err != nil {
			a.err = msg.err.Error()
			slog.Error("load choices", slog.Any("error", msg.err))
			return a, nil
		}
		a.choices = msg.choices
		a.requests.choices = msg.choices
		var cmd tea.Cmd
		a.editor, cmd = a.editor.setChoices(msg.choices)
		return a, cmd

	case requestsLoadedMsg:
		var cmd tea.Cmd
		a.requests, cmd = a.requests.Update(msg)
		if rec := a.editor.dialog.Record(); rec != nil {
			a.editor = a.editor.syncRecord(a.requests.find(rec.ID))
		}
		return a, cmd

	case openEditMsg:
		a.editor.dialog.SetRole(roleFor(a.config))
		a.editor.dialog.SetPolicy(policyFor(a.config))
		var cmd tea.Cmd
		a.editor, cmd = a.editor.open(msg.request, a.choices)
		return a, cmd

	case commitDoneMsg:
		return a.applyCommit(msg)

	case configReloadedMsg:
		next := listenConfigCmd(a.watcher)
		if msg.event.Err != nil {
			slog.Warn("config reload failed", slog.Any("error", msg.event.Err))
			return a, tea.Batch(next, a.setToast("warning", "Config reload failed: "+msg.event.Err.Error()))
		}
		a.config = msg.event.Config
		a.requests.vimKeys = a.config.VimKeys
		a.client.SetAPIKey(a.config.APIKey)
		slog.Info("config reloaded",
			slog.Bool("request_manager", a.config.RequestManager),
			slog.String("close_policy", a.config.ClosePolicy),
		)
		text := "Config reloaded. Role changes apply to the next edit."
		if baseURLFor(a.config) != a.client.BaseURL() {
			text = "Config reloaded. Restart reqdesk to connect to " + baseURLFor(a.config) + "."
		}
		return a, tea.Batch(next, a.setToast("info", text))

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}
		if a.editor.Visible() {
			if isKey(msg, "ctrl+c") {
				a.quitConfirm = true
				return a, nil
			}
			var cmd tea.Cmd
			a.editor, cmd = a.editor.Update(msg)
			return a, cmd
		}
		if isQuit(msg) {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.requests, cmd = a.requests.Update(msg)
		return a, cmd
	}

	if a.editor.Visible() {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applyCommit closes or annotates the dialog, swaps in the refreshed items
// and reports the outcome.
func (a App) applyCommit(msg commitDoneMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	a.editor = a.editor.finish(res)
	if res.Items != nil {
		a.requests.setItems(res.Items)
		if rec := a.editor.dialog.Record(); rec != nil {
			a.editor = a.editor.syncRecord(a.requests.find(rec.ID))
		}
	}
	if res.OK() {
		return a, a.setToast("success", fmt.Sprintf("Request #%d saved as %s.", res.RequestID, res.Status))
	}
	if msg.optimistic || !a.editor.Visible() {
		return a, a.setToast("error", fmt.Sprintf("Request #%d: %s", res.RequestID, errorText(res.Err)))
	}
	return a, nil
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) View() string {
	banner := centerBlock(RenderBanner(a.config.Username, a.config.RequestManager), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = components.Indent(components.ConfirmDialog("Quit", "Discard the open edit and quit?"), 1)
	case a.editor.Visible():
		content = a.editor.View()
	default:
		content = a.requests.View()
	}
	content = centerBlock(content, a.width)

	hints := components.StatusBar(a.statusMode(), a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlock(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlock(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s%s", banner, content, hints, feedback)
}

func (a App) statusMode() string {
	switch {
	case a.quitConfirm:
		return "quit"
	case a.editor.Visible() && a.editor.dialog.Saving():
		return "saving"
	case a.editor.Visible():
		return "edit"
	}
	return "list"
}

func (a App) statusHints() []string {
	switch {
	case a.quitConfirm:
		return []string{components.Hint("y", "Quit"), components.Hint("n", "Stay")}
	case a.editor.Visible():
		if a.editor.dialog.Saving() {
			return nil
		}
		return []string{
			components.Hint("tab", "Next"),
			components.Hint("←/→", "Choose"),
			components.Hint("space", "Toggle"),
			components.Hint("ctrl+s", "Update"),
			components.Hint("esc", "Close"),
		}
	}
	return []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("enter", "Edit"),
		components.Hint("r", "Refresh"),
		components.Hint("q", "Quit"),
	}
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.level {
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	case "success":
		return components.TitledBox("Saved", SuccessStyle.Render(a.toast.text), a.width)
	case "warning":
		return components.TitledBox("Warning", WarningStyle.Render(a.toast.text), a.width)
	}
	return components.TitledBox("Info", a.toast.text, a.width)
}

// centerBlock shifts every line of s by the same amount so the widest line
// is centered in width.
func centerBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	widest := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > widest {
			widest = w
		}
	}
	if widest == 0 || widest >= width {
		return s
	}
	prefix := strings.Repeat(" ", (width-widest)/2)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
