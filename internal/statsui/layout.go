package statsui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(line).
			Padding(0, 2)
	cardValueStyle = lipgloss.NewStyle().Foreground(text).Bold(true)
)

// frame clips or pads s to exactly height lines of width cells.
func frame(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		l = ansi.Truncate(l, width, "")
		if pad := width - ansi.StringWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}

func renderOverview(report stats.Report, words []model.Word, window, width int, now time.Time) string {
	if len(report.Scores) == 0 {
		return dimStyle.Render("No sessions yet. Run kanatype to practice.")
	}
	var b strings.Builder
	b.WriteString(summaryCards(report.Scores, words, width, now))
	b.WriteString("\n\n")

	var curve bytes.Buffer
	if err := stats.RenderCurve(&curve, report.Scores, window, width); err != nil {
		b.WriteString(errStyle.Render(err.Error()))
	} else {
		b.WriteString(strings.TrimRight(curve.String(), "\n"))
	}
	if len(report.WeakKeys) > 0 {
		keys := make([]string, len(report.WeakKeys))
		for i, wk := range report.WeakKeys {
			keys[i] = wk.Key
		}
		b.WriteString("\n\n" + dimStyle.Render("Weak keys ") + titleStyle.Render(strings.Join(keys, " ")))
	}
	return b.String()
}

func summaryCards(scores []model.GameScoreRecord, words []model.Word, width int, now time.Time) string {
	var sumKps, sumAcc, best float64
	for _, s := range scores {
		sumKps += s.Kps
		sumAcc += s.Accuracy
		best = max(best, s.Kps)
	}
	due, mastered := 0, 0
	for _, w := range words {
		if srsDue(w.Stats, now) {
			due++
		}
		if w.Stats.MasteryLevel >= model.MaxMasteryLevel {
			mastered++
		}
	}
	n := float64(len(scores))
	cards := []string{
		card("Sessions", fmt.Sprint(len(scores))),
		card("Avg KPS", fmt.Sprintf("%.2f", sumKps/n)),
		card("Best KPS", fmt.Sprintf("%.2f", best)),
		card("Avg Acc", fmt.Sprintf("%.1f%%", sumAcc/n)),
		card("Due", fmt.Sprintf("%d/%d", due, len(words))),
		card("Mastered", fmt.Sprint(mastered)),
	}
	perRow := 3
	if width < 60 {
		perRow = 1
	}
	rows := make([]string, 0, len(cards)/perRow+1)
	for i := 0; i < len(cards); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:min(i+perRow, len(cards))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func card(label, value string) string {
	return cardStyle.Render(dimStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func srsDue(st model.WordStats, now time.Time) bool {
	return st.NextReviewAt != nil && !now.Before(*st.NextReviewAt)
}
