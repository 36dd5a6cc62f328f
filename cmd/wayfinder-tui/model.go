package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	routeBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	routeView
	searchView
	restrictionsView
	viewCount
)

var tabNames = []string{"Dashboard", "Route", "Search", "Restrictions"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Toggle   key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "toggle restriction"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("up", "previous field"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("down", "next field"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down, k.Toggle},
		{k.Quit},
	}
}

type model struct {
	nav     *navigation.Navigator
	overlay *overlay.Manager

	currentView view
	fromInput   textinput.Model
	toInput     textinput.Model
	searchInput textinput.Model
	placeInput  textinput.Model
	resultTable table.Model
	help        help.Model
	keys        keyMap

	width      int
	height     int
	message    string
	messageErr bool
	startTime  time.Time
	stats      navigation.Stats
	route      *navigation.PathResult
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	return ti
}

func initialModel(nav *navigation.Navigator, mgr *overlay.Manager, defaultStart string) model {
	from := newInput("MIS")
	from.SetValue(defaultStart)

	columns := []table.Column{
		{Title: "Kind", Width: 10},
		{Title: "Name", Width: 36},
		{Title: "Floor", Width: 14},
		{Title: "Detail", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	return model{
		nav:         nav,
		overlay:     mgr,
		currentView: dashboardView,
		fromInput:   from,
		toInput:     newInput("Library"),
		searchInput: newInput("print"),
		placeInput:  newInput("Comlab1"),
		resultTable: t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		stats:       nav.Stats(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

// focus moves keyboard focus to the first input of the current view.
func (m *model) focus() {
	m.fromInput.Blur()
	m.toInput.Blur()
	m.searchInput.Blur()
	m.placeInput.Blur()
	switch m.currentView {
	case routeView:
		m.fromInput.Focus()
	case searchView:
		m.searchInput.Focus()
	case restrictionsView:
		m.placeInput.Focus()
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.stats = m.nav.Stats()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			m.focus()
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount
			m.focus()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			if m.currentView == routeView {
				if m.fromInput.Focused() {
					m.fromInput.Blur()
					m.toInput.Focus()
				} else {
					m.toInput.Blur()
					m.fromInput.Focus()
				}
				return m, nil
			}

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case routeView:
				m.findRoute()
			case searchView:
				m.runSearch()
			case restrictionsView:
				m.setRestriction(true)
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			if m.currentView == restrictionsView {
				m.setRestriction(false)
				return m, nil
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case routeView:
		m.fromInput, cmd = m.fromInput.Update(msg)
		cmds = append(cmds, cmd)
		m.toInput, cmd = m.toInput.Update(msg)
		cmds = append(cmds, cmd)
	case searchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
		m.resultTable, cmd = m.resultTable.Update(msg)
		cmds = append(cmds, cmd)
	case restrictionsView:
		m.placeInput, cmd = m.placeInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) fail(err error) {
	m.message = err.Error()
	m.messageErr = true
}

func (m *model) succeed(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.messageErr = false
}

func (m *model) findRoute() {
	from, to := strings.TrimSpace(m.fromInput.Value()), strings.TrimSpace(m.toInput.Value())
	if from == "" || to == "" {
		m.fail(fmt.Errorf("both a starting point and a destination are required"))
		return
	}

	start := time.Now()
	route, err := m.nav.Navigate(from, to)
	if err != nil {
		m.route = nil
		m.fail(err)
		return
	}
	m.route = route
	m.succeed("Route found in %s", time.Since(start).Round(time.Microsecond))
}

func (m *model) runSearch() {
	q := strings.TrimSpace(m.searchInput.Value())
	if q == "" {
		m.fail(fmt.Errorf("search text cannot be empty"))
		return
	}

	results := m.nav.Search(q)
	m.resultTable.SetRows(searchRows(results))
	m.succeed("%d results for %q", results.Total(), q)
}

func searchRows(r *navigation.SearchResults) []table.Row {
	rows := make([]table.Row, 0, r.Total())
	for _, s := range r.Services {
		rows = append(rows, table.Row{"service", s.Name, s.Floor, s.Department})
	}
	for _, l := range r.Locations {
		rows = append(rows, table.Row{"location", l.Name, l.Floor, l.FullName})
	}
	for _, d := range r.Departments {
		rows = append(rows, table.Row{"department", d.Name, d.Floor, strings.Join(d.Services, ", ")})
	}
	for _, f := range r.Faculty {
		rows = append(rows, table.Row{"faculty", f.Name, f.Floor, f.Schedule})
	}
	return rows
}

func (m *model) setRestriction(restricted bool) {
	place := strings.TrimSpace(m.placeInput.Value())
	if place == "" {
		m.fail(fmt.Errorf("location cannot be empty"))
		return
	}
	change, err := m.overlay.Apply(context.Background(), place, restricted, "tui")
	if err != nil {
		m.fail(err)
		return
	}
	state := "open"
	if change.Restricted {
		state = "restricted"
	}
	m.stats = m.nav.Stats()
	m.succeed("%s is %s", change.Node.DisplayName(), state)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Wayfinder - Campus Navigation"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case routeView:
		s.WriteString(m.renderRoute())
	case searchView:
		s.WriteString(m.renderSearch())
	case restrictionsView:
		s.WriteString(m.renderRestrictions())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("x " + m.message))
		} else {
			s.WriteString(successStyle.Render("ok " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string
	for i, tab := range tabNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`Facility
---------------
Mode:        %s
Locations:   %d
Corridors:   %d
Floors:      %d
Faculty:     %d
Restricted:  %d
Uptime:      %s`,
		m.stats.Mode,
		m.stats.Nodes,
		m.stats.Edges,
		m.stats.Floors,
		m.stats.Faculty,
		m.stats.Restricted,
		uptime,
	)

	var quick strings.Builder
	quick.WriteString("Quick Access\n---------------\n")
	for _, name := range m.nav.QuickAccessNames() {
		if node, err := m.nav.QuickAccess(name); err == nil {
			fmt.Fprintf(&quick, "%-10s %s\n", name, node.DisplayName())
		}
	}
	quick.WriteString("\n[Tab]  Switch views\n[Esc]  Quit")

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			statsBoxStyle.Render(statsContent),
			statsBoxStyle.Render(quick.String())),
	)
}

func (m model) renderRoute() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Route Finder"))
	s.WriteString("\n\n")
	s.WriteString("From: " + m.fromInput.View() + "\n")
	s.WriteString("To:   " + m.toInput.View() + "\n\n")

	if m.route != nil {
		s.WriteString(routeBoxStyle.Render(routeSummary(m.route)))
	}

	return contentStyle.Render(s.String())
}

// routeSummary renders the route's totals followed by numbered directions.
func routeSummary(r *navigation.PathResult) string {
	var b strings.Builder
	access := "Uses stairs"
	if r.AccessibilityFriendly {
		access = "Accessible"
	}
	fmt.Fprintf(&b, "Distance: %d units   Time: %.1f min   Floor changes: %d   %s\n",
		r.Distance, r.EstimatedTimeMinutes, r.FloorChanges, access)
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "Note: %s\n", w)
	}
	b.WriteString("\n")
	for i, step := range r.Directions {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, step)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderSearch() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Search"))
	s.WriteString("\n\n")
	s.WriteString(m.searchInput.View())
	s.WriteString("\n\n")
	s.WriteString(m.resultTable.View())

	return contentStyle.Render(s.String())
}

func (m model) renderRestrictions() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Restrictions"))
	s.WriteString("\n\n")
	s.WriteString("Location: " + m.placeInput.View() + "\n")
	s.WriteString(helpStyle.Render("enter restricts, ctrl+r opens"))
	s.WriteString("\n\n")

	nodes := m.overlay.Restricted()
	if len(nodes) == 0 {
		s.WriteString("No restricted locations")
	}
	for _, n := range nodes {
		fmt.Fprintf(&s, "  - %s [%s]\n", n.DisplayName(), n.Floor)
	}

	return contentStyle.Render(s.String())
}
