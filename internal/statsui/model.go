// Package statsui is the interactive stats browser.
package statsui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/store"
)

const (
	tabOverview = iota
	tabKeys
	tabTransitions
	tabWords
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Keys", "Transitions", "Words"}

// headerLines is the tab bar plus the settings line.
const headerLines = 2

var (
	accent = lipgloss.Color("#E07A9A")
	muted  = lipgloss.Color("#7A7F9A")
	text   = lipgloss.Color("#E6E6F0")
	line   = lipgloss.Color("#3B3F58")

	titleStyle     = lipgloss.NewStyle().Foreground(accent).Bold(true)
	tabStyle       = lipgloss.NewStyle().Foreground(muted)
	activeTabStyle = lipgloss.NewStyle().Foreground(text).Bold(true).Underline(true)
	dimStyle       = lipgloss.NewStyle().Foreground(muted)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5534B"))
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Narrower key.Binding
	Wider    key.Binding
	Settings key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Narrower: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller window")),
		Wider:    key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "larger window")),
		Settings: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "settings")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Narrower, k.Wider, k.Settings, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Top, k.Bottom}}
}

// Model browses the stored sessions, key aggregates and words.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig
	now   func() time.Time

	report stats.Report
	words  []model.Word
	errMsg string

	tab      int
	overview viewport.Model
	// tables backs every tab after the overview, in tab order.
	tables [tabCount - 1]table.Model

	settings settingsForm
	keys     keyMap
	help     help.Model

	width  int
	height int
}

// NewModel loads the report for cfg from st.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		now:      time.Now,
		overview: viewport.New(0, 0),
		settings: newSettingsForm(),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	m.cfg.CurveWindow = max(1, m.cfg.CurveWindow)
	for i := range m.tables {
		m.tables[i] = table.New(table.WithStyles(tableStyles()), table.WithHeight(1))
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderOverview()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settings.open {
			return m, m.updateSettings(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	t := m.activeTable()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.switchTab(-1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Next):
		m.switchTab(1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Wider):
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.renderOverview()
	case key.Matches(msg, m.keys.Narrower):
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.renderOverview()
	case key.Matches(msg, m.keys.Settings):
		m.settings.err = ""
		return m.settings.show(m.cfg)
	case key.Matches(msg, m.keys.Top):
		if t != nil {
			t.GotoTop()
		} else {
			m.overview.GotoTop()
		}
	case key.Matches(msg, m.keys.Bottom):
		if t != nil {
			t.GotoBottom()
		} else {
			m.overview.GotoBottom()
		}
	default:
		var cmd tea.Cmd
		if t != nil {
			*t, cmd = t.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return cmd
	}
	return nil
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.settings.open = false
		return nil
	case tea.KeyEnter:
		cfg, err := m.settings.parse()
		if err != nil {
			m.settings.err = err.Error()
			return nil
		}
		m.cfg = cfg
		m.settings.open = false
		m.refreshReport()
		m.resize()
		return nil
	case tea.KeyTab, tea.KeyDown:
		return m.settings.focusField(m.settings.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m.settings.focusField(m.settings.focus - 1)
	}
	var cmd tea.Cmd
	f := m.settings.focus
	m.settings.inputs[f], cmd = m.settings.inputs[f].Update(msg)
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return strings.Join([]string{
		frame(m.renderHeader(), m.width, headerLines),
		frame(m.renderBody(), m.width, m.bodyHeight()),
		frame(m.renderFooter(), m.width, m.footerLines()),
	}, "\n")
}

func (m *Model) activeTable() *table.Model {
	if m.tab == tabOverview {
		return nil
	}
	return &m.tables[m.tab-1]
}

func (m *Model) switchTab(delta int) {
	m.tab = (m.tab + delta + tabCount) % tabCount
	for i := range m.tables {
		if i == m.tab-1 {
			m.tables[i].Focus()
		} else {
			m.tables[i].Blur()
		}
	}
}

func (m *Model) footerLines() int {
	if m.errMsg != "" && !m.settings.open {
		return 2
	}
	return 1
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-headerLines-m.footerLines())
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight()
	m.overview.Width, m.overview.Height = m.width, h
	for i := range m.tables {
		fitTable(&m.tables[i], m.width, h)
	}
	m.settings.setWidth(m.width)
	m.help.Width = m.width
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	settings := dimStyle.Render("sessions " + last +
		" · window " + strconv.Itoa(m.cfg.CurveWindow) +
		" · weak keys " + strconv.Itoa(m.weakKeyLimit()))
	return titleStyle.Render("kanatype") + "  " + strings.Join(tabs, dimStyle.Render(" | ")) + "\n" + settings
}

func (m *Model) renderFooter() string {
	if m.settings.open {
		return dimStyle.Render("tab: next field · enter: apply · esc: cancel")
	}
	out := m.help.View(m.keys)
	if m.errMsg != "" {
		out += "\n" + errStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) renderBody() string {
	if m.settings.open {
		return m.settings.view()
	}
	empty := map[int]bool{
		tabKeys:        len(m.report.Keys) == 0,
		tabTransitions: len(m.report.Transitions) == 0,
		tabWords:       len(m.words) == 0,
	}
	switch {
	case m.tab == tabOverview:
		return m.overview.View()
	case empty[m.tab]:
		return dimStyle.Render("Nothing recorded yet.")
	}
	return m.activeTable().View()
}

func (m *Model) weakKeyLimit() int {
	if m.cfg.WeakKeys > 0 {
		return m.cfg.WeakKeys
	}
	return stats.DefaultWeakKeys
}

func (m *Model) refreshReport() {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, m.store, m.cfg)
	if err == nil {
		m.words, err = m.store.ListWords(ctx)
	}
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Stats could not be loaded.")
		return
	}
	m.errMsg = ""
	m.report = report

	m.setTableData(tabKeys, keyColumns(), keyRows(report.Keys))
	m.setTableData(tabTransitions, transitionColumns(), transitionRows(report.Transitions))
	m.setTableData(tabWords, wordColumns(), wordRows(m.words, m.now()))
	m.renderOverview()
}

func (m *Model) setTableData(tab int, cols []table.Column, rows []table.Row) {
	t := &m.tables[tab-1]
	// Rows must be cleared before the column count changes.
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(rows)
	if m.width > 0 && m.height > 0 {
		fitTable(t, m.width, m.bodyHeight())
	}
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.words, m.cfg.CurveWindow, width, m.now()))
}

const curveStep = 5

// nextCurveWindow rounds up to the next multiple of curveStep.
func nextCurveWindow(n int) int {
	if n < curveStep {
		return curveStep
	}
	return n - n%curveStep + curveStep
}

// prevCurveWindow rounds down to the previous multiple of curveStep,
// bottoming out at 1.
func prevCurveWindow(n int) int {
	if n <= curveStep {
		return 1
	}
	if n%curveStep != 0 {
		return n - n%curveStep
	}
	return n - curveStep
}
