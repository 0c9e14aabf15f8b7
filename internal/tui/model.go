// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/session"
	"github.com/verte-zerg/kanatype/internal/stats"
)

const (
	tickInterval  = 100 * time.Millisecond
	upcomingWords = 3
	saveTimeout   = 10 * time.Second
)

// Store persists the results of a run.
type Store interface {
	SaveWordStats(ctx context.Context, id int64, st model.WordStats) error
	AppendOutcome(ctx context.Context, outcome model.WordOutcome) error
	AppendScore(ctx context.Context, score model.GameScoreRecord) (int64, error)
	SaveKeyStats(ctx context.Context, keys []model.KeyStats, transitions []model.KeyTransitionStats) error
}

// Planner prepares the next run: word selection, history and settings.
type Planner func(now time.Time) (session.Config, error)

// tickMsg carries the run it was scheduled for so ticks from an ended
// run are dropped after a restart.
type tickMsg struct {
	at  time.Time
	run int
}

type savedMsg struct {
	err error
}

type saveJob func(ctx context.Context) error

// Model implements the Bubble Tea typing UI.
type Model struct {
	store Store
	plan  Planner
	now   func() time.Time

	sess     *session.Session
	analyzer *stats.Analyzer
	bar      progress.Model

	width  int
	height int

	lastTick    time.Time
	run         int
	missed      bool
	lastPenalty float64
	summary     *model.GameScoreRecord
	saveErr     error
	// pending counts save commands in flight; a restart waits for them so
	// the next plan sees the stored results.
	pending       int
	restartQueued bool

	lastKps float64
	lastAcc float64
	hasLast bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E6F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5534B"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A7F9A"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E07A9A"))
	wordStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C6078"))
)

// NewModel constructs a typing TUI model and starts the first run. last is
// the most recent stored score, if any.
func NewModel(st Store, plan Planner, last *model.GameScoreRecord) (*Model, error) {
	m := &Model{
		store: st,
		plan:  plan,
		now:   time.Now,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	if last != nil {
		m.lastKps = last.Kps
		m.lastAcc = last.Accuracy
		m.hasLast = true
	}
	if err := m.startRun(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.run)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = contentWidth(msg.Width)
		return m, nil
	case tickMsg:
		if msg.run != m.run {
			return m, nil
		}
		return m, m.handleTick(msg.at)
	case savedMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.saveErr = msg.err
			logErrf("%v\n", msg.err)
		}
		if m.pending == 0 && m.restartQueued {
			m.restartQueued = false
			return m, m.restart()
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.sess.Done() {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return tea.Quit
		case tea.KeyEnter, tea.KeySpace:
			if m.pending > 0 {
				m.restartQueued = true
				return nil
			}
			return m.restart()
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return tea.Quit
			}
		}
		return nil
	}
	switch msg.Type {
	case tea.KeyCtrlC:
		save := m.apply(m.sess.Reduce(session.Exit{At: m.now()}))
		if save == nil {
			return tea.Quit
		}
		return tea.Sequence(save, tea.Quit)
	case tea.KeyEsc:
		return m.apply(m.sess.Reduce(session.Exit{At: m.now()}))
	case tea.KeyRunes:
		var effects []session.Effect
		for _, r := range msg.Runes {
			effects = append(effects, m.sess.Reduce(session.KeyPressed{Key: string(r), At: m.now()})...)
		}
		return m.apply(effects)
	default:
		return nil
	}
}

func (m *Model) handleTick(at time.Time) tea.Cmd {
	if m.sess.Done() {
		return nil
	}
	elapsed := at.Sub(m.lastTick)
	m.lastTick = at
	cmd := m.apply(m.sess.Reduce(session.Tick{Elapsed: elapsed, At: at}))
	if m.sess.Done() {
		return cmd
	}
	return tea.Batch(cmd, tickCmd(m.run))
}

func (m *Model) restart() tea.Cmd {
	if err := m.startRun(); err != nil {
		logErrf("failed to start run: %v\n", err)
		return tea.Quit
	}
	return tickCmd(m.run)
}

func (m *Model) startRun() error {
	cfg, err := m.plan(m.now())
	if err != nil {
		return err
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = stats.NewAnalyzer(nil, nil)
	}
	m.analyzer = cfg.Analyzer
	m.summary = nil
	m.saveErr = nil
	m.missed = false
	m.lastPenalty = 0
	start := m.now()
	m.lastTick = start
	m.run++
	sess, effects := session.New(cfg, start)
	m.sess = sess
	// A run without words has nothing to save.
	m.apply(effects)
	return nil
}

// apply updates view state from session effects and returns a command that
// persists finished words and runs.
func (m *Model) apply(effects []session.Effect) tea.Cmd {
	var jobs []saveJob
	for _, effect := range effects {
		switch e := effect.(type) {
		case session.WordStarted:
			m.missed = false
			m.lastPenalty = 0
		case session.KeyAccepted:
			m.missed = false
		case session.KeyRejected:
			m.missed = true
			m.lastPenalty = e.Penalty
		case session.WordFinished:
			if e.Outcome == session.OutcomeIncomplete || m.store == nil {
				continue
			}
			jobs = append(jobs, m.saveWord(e))
		case session.SessionFinished:
			score := e.Score
			m.summary = &score
			if score.TotalKeystrokes == 0 {
				continue
			}
			m.lastKps = score.Kps
			m.lastAcc = score.Accuracy
			m.hasLast = true
			if m.store != nil {
				jobs = append(jobs, m.saveRun(score))
			}
		}
	}
	if len(jobs) == 0 {
		return nil
	}
	m.pending++
	return saveCmd(jobs)
}

func (m *Model) saveWord(e session.WordFinished) saveJob {
	st := m.store
	id := e.Word.ID
	wordStats := e.Stats
	outcome := model.WordOutcome{WordID: id, Success: e.Outcome == session.OutcomeCorrect, PlayedAt: e.At}
	return func(ctx context.Context) error {
		if err := st.SaveWordStats(ctx, id, wordStats); err != nil {
			return fmt.Errorf("failed to save word stats: %w", err)
		}
		if err := st.AppendOutcome(ctx, outcome); err != nil {
			return fmt.Errorf("failed to save word outcome: %w", err)
		}
		return nil
	}
}

func (m *Model) saveRun(score model.GameScoreRecord) saveJob {
	st := m.store
	keys := m.analyzer.KeyStats()
	transitions := m.analyzer.TransitionStats()
	return func(ctx context.Context) error {
		if _, err := st.AppendScore(ctx, score); err != nil {
			return fmt.Errorf("failed to save score: %w", err)
		}
		if err := st.SaveKeyStats(ctx, keys, transitions); err != nil {
			return fmt.Errorf("failed to save key stats: %w", err)
		}
		return nil
	}
}

func saveCmd(jobs []saveJob) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		var errs []error
		for _, job := range jobs {
			if err := job(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return savedMsg{err: errors.Join(errs...)}
	}
}

func tickCmd(run int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{at: t, run: run}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess == nil {
		return ""
	}
	var content string
	if m.summary != nil {
		content = m.renderSummary()
	} else {
		content = m.renderWord()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(contentWidth(m.width)).Align(lipgloss.Center).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderWord() string {
	word, ok := m.sess.Current()
	if !ok {
		return ""
	}
	current := m.sess.Result().MatchedVariant
	if current == "" {
		current = romaji.Normalize(word.Romaji)
	}
	typed := len([]rune(m.sess.Input()))
	width := 0
	if m.width > 0 {
		width = contentWidth(m.width)
	}
	line := layoutWords(styleRomaji(current, typed, m.missed, m.upcomingRomaji()), width)

	ratio := 0.0
	if limit := m.sess.TimeLimit(); limit > 0 {
		ratio = m.sess.Remaining() / limit
	}
	countdown := m.bar.ViewAs(ratio) + fmt.Sprintf(" %4.1fs", m.sess.Remaining())

	lines := []string{wordStyle.Render(word.Text)}
	if word.Reading != "" && word.Reading != word.Text {
		lines = append(lines, pendingStyle.Render(word.Reading))
	}
	lines = append(lines, "", line, "", countdown)
	return strings.Join(lines, "\n")
}

// upcomingRomaji is the canonical romaji of the next few words.
func (m *Model) upcomingRomaji() []string {
	next := m.sess.Upcoming(upcomingWords)
	out := make([]string, 0, len(next))
	for _, w := range next {
		out = append(out, romaji.Normalize(w.Romaji))
	}
	return out
}

func (m *Model) renderSummary() string {
	s := m.summary
	lines := []string{
		wordStyle.Render("Run complete"),
		"",
		fmt.Sprintf("KPS       %.2f", s.Kps),
		fmt.Sprintf("Accuracy  %.1f%%", s.Accuracy),
		fmt.Sprintf("Words     %d/%d cleared", s.CorrectWords, s.TotalWords),
		fmt.Sprintf("Time      %.1fs", float64(s.DurationMs)/1000),
		"",
		pendingStyle.Render("enter: next run  ·  esc/q: quit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := make([]string, 0, 4)
	if m.summary == nil && m.sess != nil && m.sess.Len() > 0 {
		segments = append(segments, fmt.Sprintf("Word %d/%d", m.sess.Index()+1, m.sess.Len()))
		segments = append(segments, fmt.Sprintf("Misses %d", m.sess.Misses()))
		if m.lastPenalty > 0 {
			segments = append(segments, fmt.Sprintf("-%.2fs", m.lastPenalty))
		}
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.2f KPS · %.1f%%", m.lastKps, m.lastAcc))
	}
	if m.saveErr != nil {
		segments = append(segments, incorrectStyle.Render("save failed"))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func contentWidth(width int) int {
	w := int(float64(width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
