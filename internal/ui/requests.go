package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/edit"
	"github.com/gravitrone/reqdesk/internal/ui/components"
)

// --- Messages ---

type requestsLoadedMsg struct{ items []api.Request }
type openEditMsg struct{ request *api.Request }

const requestsPageSize = 12

// RequestsModel is the list of requests the dialog edits.
type RequestsModel struct {
	client  *api.Client
	items   []api.Request
	list    *components.List
	choices Choices
	loading bool
	vimKeys bool
	width   int
	height  int
}

// NewRequestsModel creates the requests list.
func NewRequestsModel(client *api.Client, vimKeys bool) RequestsModel {
	return RequestsModel{
		client:  client,
		list:    components.NewList(requestsPageSize),
		loading: true,
		vimKeys: vimKeys,
	}
}

func (m RequestsModel) Init() tea.Cmd {
	return m.loadRequests()
}

func (m RequestsModel) loadRequests() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items, err := client.ListRequests(api.RequestsList)
		if err != nil {
			return errMsg{err}
		}
		return requestsLoadedMsg{items: items}
	}
}

func (m RequestsModel) Update(msg tea.Msg) (RequestsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		m.setItems(msg.items)
		return m, nil
	case errMsg:
		m.loading = false
		return m, nil
	case tea.KeyMsg:
		switch {
		case isDown(msg, m.vimKeys):
			m.list.Down()
		case isUp(msg, m.vimKeys):
			m.list.Up()
		case isKey(msg, "r"):
			m.loading = true
			return m, m.loadRequests()
		case isEnter(msg), isKey(msg, "e"):
			if sel := m.selected(); sel != nil {
				return m, func() tea.Msg { return openEditMsg{request: sel} }
			}
		}
	}
	return m, nil
}

// setItems replaces the displayed collection, keeping the cursor on the same
// row when it still exists.
func (m *RequestsModel) setItems(items []api.Request) {
	m.loading = false
	m.items = items
	m.list.Resize(len(items))
}

// selected points into the current items slice, so a refresh yields a new
// record identity.
func (m RequestsModel) selected() *api.Request {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.list.Cursor]
}

func (m RequestsModel) find(id int) *api.Request {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i]
		}
	}
	return nil
}

func (m RequestsModel) View() string {
	if m.loading && len(m.items) == 0 {
		return components.Indent(components.TitledBox("Requests", MutedStyle.Render("Loading requests..."), m.width), 1)
	}
	if len(m.items) == 0 {
		return components.Indent(components.TitledBox("Requests", MutedStyle.Render("No requests."), m.width), 1)
	}

	cols := []components.GridColumn{
		{Header: "ID", Width: 4, Align: lipgloss.Right},
		{Header: "Title", Width: 24},
		{Header: "Due", Width: 10},
		{Header: "Type", Width: 10},
		{Header: "Status", Width: 11},
		{Header: "Tags", Width: 8},
	}
	start, end := m.list.Window()
	rows := make([][]string, 0, end-start)
	for _, r := range m.items[start:end] {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.Title,
			edit.FormatDate(edit.CalendarDate(r.DueDate)),
			m.choices.typeTitle(r.RequestTypeID),
			r.Status,
			tagLabels(r.Tags),
		})
	}

	width := components.BoxContentWidth(m.width)
	if width <= 0 {
		width = 80
	}
	grid := components.Grid(cols, rows, width, m.list.Cursor-start)

	var b strings.Builder
	b.WriteString(grid)
	if sel := m.selected(); sel != nil {
		b.WriteString("\n\n")
		b.WriteString(MutedStyle.Render("Status: ") + statusStyle(sel.Status).Render(sel.Status))
		b.WriteString("\n")
		b.WriteString(components.InfoRow("Area", sel.RequestArea))
		if sel.Description != "" {
			b.WriteString("\n")
			b.WriteString(MutedStyle.Render(components.ClampTextWidth(sel.Description, width)))
		}
	}
	if m.loading {
		b.WriteString("\n\n" + MutedStyle.Render("Refreshing..."))
	}
	title := fmt.Sprintf("Requests (%d)", len(m.items))
	return components.Indent(components.TitledBox(title, b.String(), m.width), 1)
}

func tagLabels(tags []api.Tag) string {
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Label)
	}
	return strings.Join(labels, ", ")
}
