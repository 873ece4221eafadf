package ui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/reqdesk/internal/api"
)

// TagsTermSet is the taxonomy term set offered in the tag picker.
const TagsTermSet = "Tags"

// areaField is the choice field backing the request area select.
const areaField = "RequestArea"

// Choices are the option sources for the dialog's select fields.
type Choices struct {
	Managers []api.Option
	Types    []api.Option
	Areas    []string
	Terms    []api.Term
}

type choicesLoadedMsg struct {
	choices Choices
	err     error
}

// loadChoicesCmd fetches every option source. A failing area lookup only
// hides the area field; any other failure is reported.
func loadChoicesCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		var c Choices
		var err error
		if c.Managers, err = client.ListManagers(); err != nil {
			return choicesLoadedMsg{err: fmt.Errorf("load managers: %w", err)}
		}
		if c.Types, err = client.ListRequestTypes(); err != nil {
			return choicesLoadedMsg{err: fmt.Errorf("load request types: %w", err)}
		}
		if c.Terms, err = client.ListTaxonomy(TagsTermSet); err != nil {
			return choicesLoadedMsg{err: fmt.Errorf("load tags: %w", err)}
		}
		if c.Areas, err = client.ListFieldChoices(api.RequestsList, areaField); err != nil {
			slog.Warn("request area choices unavailable", slog.Any("error", err))
			c.Areas = nil
		}
		return choicesLoadedMsg{choices: c}
	}
}

func (c Choices) managerTitle(id int) string {
	return optionTitle(c.Managers, id)
}

func (c Choices) typeTitle(id int) string {
	return optionTitle(c.Types, id)
}

func (c Choices) typeIndex(id int) int {
	for i, o := range c.Types {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (c Choices) areaIndex(label string) int {
	for i, a := range c.Areas {
		if a == label {
			return i
		}
	}
	return -1
}

func (c Choices) termLabel(id string) string {
	for _, t := range c.Terms {
		if t.ID == id {
			return t.Label
		}
	}
	return id
}

// filterManagers returns managers whose title contains query, ignoring case.
func (c Choices) filterManagers(query string) []api.Option {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Managers
	}
	var out []api.Option
	for _, m := range c.Managers {
		if strings.Contains(strings.ToLower(m.Title), q) {
			out = append(out, m)
		}
	}
	return out
}

func optionTitle(opts []api.Option, id int) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Title
		}
	}
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("#%d", id)
}
