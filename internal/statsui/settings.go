package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
)

const (
	settingLast = iota
	settingWindow
	settingWeak
)

var settingLabels = []string{"Last sessions", "Curve window", "Weak keys"}

// settingsForm edits the StatsConfig behind the report.
type settingsForm struct {
	open   bool
	inputs []textinput.Model
	focus  int
	err    string
}

func newSettingsForm() settingsForm {
	f := settingsForm{inputs: make([]textinput.Model, len(settingLabels))}
	for i, label := range settingLabels {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-15s", label)
		in.CharLimit = 6
		f.inputs[i] = in
	}
	f.inputs[settingLast].Placeholder = "all"
	f.inputs[settingWindow].Placeholder = "1"
	f.inputs[settingWeak].Placeholder = strconv.Itoa(stats.DefaultWeakKeys)
	return f
}

func (f *settingsForm) show(cfg model.StatsConfig) tea.Cmd {
	f.open = true
	f.inputs[settingLast].SetValue(optionalInt(cfg.Last))
	f.inputs[settingWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	f.inputs[settingWeak].SetValue(optionalInt(cfg.WeakKeys))
	return f.focusField(0)
}

func (f *settingsForm) focusField(i int) tea.Cmd {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

func (f *settingsForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(8, width-len(f.inputs[i].Prompt)-2)
	}
}

// parse reads the form. Blank fields take their defaults.
func (f *settingsForm) parse() (model.StatsConfig, error) {
	last, err := fieldInt(f.inputs[settingLast], 0, 0)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("last sessions: %w", err)
	}
	window, err := fieldInt(f.inputs[settingWindow], 1, 1)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("curve window: %w", err)
	}
	weak, err := fieldInt(f.inputs[settingWeak], 0, 0)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("weak keys: %w", err)
	}
	return model.StatsConfig{Last: last, CurveWindow: window, WeakKeys: weak}, nil
}

func (f *settingsForm) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	for _, in := range f.inputs {
		b.WriteString("\n" + in.View())
	}
	if f.err != "" {
		b.WriteString("\n" + errStyle.Render(f.err))
	}
	return b.String()
}

func fieldInt(in textinput.Model, fallback, least int) (int, error) {
	s := strings.TrimSpace(in.Value())
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < least {
		return 0, fmt.Errorf("want a whole number >= %d", least)
	}
	return n, nil
}

func optionalInt(n int) string {
	if n > 0 {
		return strconv.Itoa(n)
	}
	return ""
}
