// Package tui is an interactive terminal browser for step results. It reads
// from the same snapshot store the HTTP server uses and recomputes on demand.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/algorithms"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/cache"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/report"
)

// Store is the part of cache.Store the browser needs
type Store interface {
	Current() *cache.Snapshot
	Recompute(ctx context.Context) (*cache.Snapshot, error)
}

type view int

const (
	summaryView view = iota
	edgesView
	communitiesView
	viewCount
)

var viewNames = [viewCount]string{"Summary", "Edges", "Communities"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Reload   key.Binding
	Quit     key.Binding
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
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "recompute"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.ShiftTab}, {k.Reload, k.Quit}}
}

// reloadedMsg carries the outcome of a recompute
type reloadedMsg struct {
	snap *cache.Snapshot
	err  error
}

// Model is the bubbletea model
type Model struct {
	ctx    context.Context
	store  Store
	report *report.Renderer

	snapshot *cache.Snapshot
	edges    table.Model
	help     help.Model
	keys     keyMap
	current  view

	width      int
	height     int
	loading    bool
	message    string
	messageErr bool

	title      lipgloss.Style
	activeTab  lipgloss.Style
	tab        lipgloss.Style
	content    lipgloss.Style
	errorStyle lipgloss.Style
	okStyle    lipgloss.Style
	helpStyle  lipgloss.Style
}

// New creates a browser over store. Styles are resolved against out, so a
// non-terminal writer yields plain text.
func New(ctx context.Context, store Store, out io.Writer) Model {
	r := lipgloss.NewRenderer(out)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Edge", Width: 30},
			{Title: "Betweenness", Width: 12},
		}),
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

	m := Model{
		ctx:        ctx,
		store:      store,
		report:     report.NewRenderer(out),
		edges:      t,
		help:       help.New(),
		keys:       keys,
		title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF")).MarginLeft(2).MarginTop(1),
		activeTab:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#FF00FF")).Padding(0, 2),
		tab:        r.NewStyle().Foreground(lipgloss.Color("#666666")).Padding(0, 2),
		content:    r.NewStyle().MarginLeft(2).MarginTop(1),
		errorStyle: r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		okStyle:    r.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
		helpStyle:  r.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1).MarginLeft(2),
	}
	m.setSnapshot(store.Current())
	return m
}

// Init triggers a first computation when the store is empty
func (m Model) Init() tea.Cmd {
	if m.snapshot == nil {
		return m.reload()
	}
	return nil
}

func (m Model) reload() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.store.Recompute(m.ctx)
		return reloadedMsg{snap: snap, err: err}
	}
}

// Update handles input and recompute results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.edges.SetHeight(max(msg.Height-12, 5))

	case reloadedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = fmt.Sprintf("Recompute failed: %v", msg.err)
			m.messageErr = true
			return m, nil
		}
		m.setSnapshot(msg.snap)
		m.message = fmt.Sprintf("Recomputed in %s (generation %s)", msg.snap.Duration.Round(time.Microsecond), msg.snap.Generation)
		m.messageErr = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.current = (m.current + 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.current = (m.current + viewCount - 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.message = "Recomputing..."
			m.messageErr = false
			return m, m.reload()
		}
	}

	if m.current == edgesView {
		var cmd tea.Cmd
		m.edges, cmd = m.edges.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setSnapshot(snap *cache.Snapshot) {
	m.snapshot = snap
	if snap == nil || snap.Result == nil {
		m.edges.SetRows(nil)
		return
	}

	scores := snap.Result.Original.Betweenness
	ranked := algorithms.TopEdges(scores, scores.Len())
	removed, _ := snap.Result.RemovedEdge()

	rows := make([]table.Row, len(ranked))
	for i, e := range ranked {
		label := string(e.Key)
		if e.Key == removed {
			label += " (removed)"
		}
		rows[i] = table.Row{strconv.Itoa(i + 1), label, strconv.FormatFloat(e.Score, 'f', 2, 64)}
	}
	m.edges.SetRows(rows)
}

// View renders the current tab
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(m.title.Render("Girvan–Newman explorer"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	switch {
	case m.snapshot == nil && m.loading:
		s.WriteString(m.content.Render("Computing..."))
	case m.snapshot == nil:
		s.WriteString(m.content.Render("No result loaded. Press r to compute."))
	default:
		s.WriteString(m.content.Render(m.renderView()))
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(m.errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(m.okStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(m.helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, viewCount)
	for i, name := range viewNames {
		if view(i) == m.current {
			tabs[i] = m.activeTab.Render(name)
		} else {
			tabs[i] = m.tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderView() string {
	res := m.snapshot.Result
	switch m.current {
	case edgesView:
		if len(m.edges.Rows()) == 0 {
			return "No edges to rank."
		}
		return m.edges.View()
	case communitiesView:
		return m.report.Communities(res)
	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.report.Summary(res),
			fmt.Sprintf("Source: %s", m.snapshot.Source),
			fmt.Sprintf("Computed: %s", m.snapshot.ComputedAt.Format("2006-01-02 15:04:05")),
		)
	}
}

// Run starts the full-screen program and blocks until the user quits or
// ctx is done.
func Run(ctx context.Context, store Store) error {
	p := tea.NewProgram(New(ctx, store, os.Stdout), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
