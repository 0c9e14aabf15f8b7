package statsui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().Foreground(accent).Bold(true).PaddingRight(1)
	s.Cell = lipgloss.NewStyle().Foreground(text).PaddingRight(1)
	s.Selected = lipgloss.NewStyle().Background(line).Bold(true)
	return s
}

// fitTable sizes t so its rendered view spans height lines.
func fitTable(t *table.Model, width, height int) {
	t.SetWidth(width)
	t.SetHeight(max(1, height-1))
	if extra := lipgloss.Height(t.View()) - height; extra != 0 {
		t.SetHeight(max(1, t.Height()-extra))
	}
}

func statColumns(label string) []table.Column {
	return []table.Column{
		{Title: label, Width: 8},
		{Title: "Weakness", Width: 9},
		{Title: "Errors", Width: 7},
		{Title: "Latency", Width: 8},
		{Title: "Seen", Width: 6},
		{Title: "Typed Instead", Width: 18},
	}
}

func keyColumns() []table.Column { return statColumns("Key") }

func transitionColumns() []table.Column { return statColumns("Pair") }

func wordColumns() []table.Column {
	return []table.Column{
		{Title: "Word", Width: 12},
		{Title: "Romaji", Width: 16},
		{Title: "Level", Width: 6},
		{Title: "Acc", Width: 7},
		{Title: "Plays", Width: 6},
		{Title: "Review", Width: 17},
	}
}

type statLine struct {
	label        string
	total        int
	errors       int
	latencySumMs int64
	confusions   map[string]int
}

func (s statLine) weakness() float64 {
	return stats.WeaknessScore(s.total, s.errors, s.latencySumMs)
}

// statRows ranks lines weakest first, breaking ties by label.
func statRows(lines []statLine) []table.Row {
	sort.SliceStable(lines, func(i, j int) bool {
		wi, wj := lines[i].weakness(), lines[j].weakness()
		if wi != wj {
			return wi > wj
		}
		return lines[i].label < lines[j].label
	})
	rows := make([]table.Row, len(lines))
	for i, l := range lines {
		var errRate, latency float64
		if l.total > 0 {
			errRate = float64(l.errors) / float64(l.total) * 100
			latency = float64(l.latencySumMs) / float64(l.total)
		}
		var typed []string
		for _, c := range stats.TopConfusions(l.confusions, 3) {
			typed = append(typed, fmt.Sprintf("%s×%d", c.Actual, c.Count))
		}
		rows[i] = table.Row{
			l.label,
			fmt.Sprintf("%.3f", l.weakness()),
			fmt.Sprintf("%.1f%%", errRate),
			fmt.Sprintf("%.0fms", latency),
			fmt.Sprint(l.total),
			strings.Join(typed, " "),
		}
	}
	return rows
}

func keyRows(keys []model.KeyStats) []table.Row {
	lines := make([]statLine, len(keys))
	for i, k := range keys {
		lines[i] = statLine{k.Key, k.TotalCount, k.ErrorCount, k.LatencySumMs, k.ConfusedWith}
	}
	return statRows(lines)
}

func transitionRows(transitions []model.KeyTransitionStats) []table.Row {
	lines := make([]statLine, len(transitions))
	for i, t := range transitions {
		label := t.Transition.From + " > " + t.Transition.To
		lines[i] = statLine{label, t.TotalCount, t.ErrorCount, t.LatencySumMs, t.ConfusedWith}
	}
	return statRows(lines)
}

// wordRows lists the least mastered words first.
func wordRows(words []model.Word, now time.Time) []table.Row {
	sorted := append([]model.Word(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Stats, sorted[j].Stats
		if a.MasteryLevel != b.MasteryLevel {
			return a.MasteryLevel < b.MasteryLevel
		}
		return a.Accuracy < b.Accuracy
	})
	rows := make([]table.Row, len(sorted))
	for i, w := range sorted {
		review := "new"
		switch next := w.Stats.NextReviewAt; {
		case srsDue(w.Stats, now):
			review = "due"
		case next != nil:
			review = next.Local().Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			w.Text,
			w.Romaji,
			fmt.Sprintf("%d/%d", w.Stats.MasteryLevel, model.MaxMasteryLevel),
			fmt.Sprintf("%.0f%%", w.Stats.Accuracy),
			fmt.Sprint(w.Stats.Attempts()),
			review,
		}
	}
	return rows
}
