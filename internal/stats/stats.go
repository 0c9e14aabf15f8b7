// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
)

// sparkBlocks are the sparkline levels, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// SessionMetrics computes keystrokes per second and accuracy (0-100) for a session.
func SessionMetrics(accepted, rejected int, durationMs int64) (kps, accuracy float64) {
	total := accepted + rejected
	accuracy = 100
	if total > 0 {
		accuracy = float64(accepted) / float64(total) * 100
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	kps = float64(accepted) / (float64(durationMs) / 1000.0)
	return kps, accuracy
}

// MovingAverage smooths values with a trailing mean of up to window points.
// The first points average over what is available.
func MovingAverage(values []float64, window int) []float64 {
	window = max(window, 1)
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}
	out := make([]float64, len(values))
	for i := range values {
		from := max(0, i+1-window)
		out[i] = (prefix[i+1] - prefix[from]) / float64(i+1-from)
	}
	return out
}

// Sparkline scales values between their minimum and maximum onto block glyphs.
// Flat input renders at mid height.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	top := len(sparkBlocks) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		level := top / 2
		if span := hi - lo; span > 1e-9 {
			level = int(math.Round((v - lo) / span * float64(top)))
		}
		out[i] = sparkBlocks[level]
	}
	return string(out)
}

// RenderSummary prints a summary of the given sessions, oldest first.
func RenderSummary(w io.Writer, scores []model.GameScoreRecord) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalKps, totalAcc float64
	bestKps := 0.0
	words, correct := 0, 0
	for _, s := range scores {
		totalKps += s.Kps
		totalAcc += s.Accuracy
		if s.Kps > bestKps {
			bestKps = s.Kps
		}
		words += s.TotalWords
		correct += s.CorrectWords
	}
	count := float64(len(scores))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(scores)),
		fmt.Sprintf("Avg KPS: %.2f", totalKps/count),
		fmt.Sprintf("Best KPS: %.2f", bestKps),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Words: %d (%d cleared)", words, correct),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints KPS and accuracy sparklines, trimmed to width columns.
func RenderCurve(w io.Writer, scores []model.GameScoreRecord, window, width int) error {
	if len(scores) == 0 {
		return nil
	}
	kps := make([]float64, len(scores))
	acc := make([]float64, len(scores))
	for i, s := range scores {
		kps[i] = s.Kps
		acc[i] = s.Accuracy
	}
	kps = MovingAverage(kps, window)
	acc = MovingAverage(acc, window)
	labelWidth := len("Accuracy ")
	if width > labelWidth && len(kps) > width-labelWidth {
		kps = kps[len(kps)-(width-labelWidth):]
		acc = acc[len(acc)-(width-labelWidth):]
	}
	lines := []string{
		"Learning Curve",
		"KPS      " + Sparkline(kps),
		"Accuracy " + Sparkline(acc),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderKeyTable prints the ranked weak keys with their aggregates.
func RenderKeyTable(w io.Writer, keys []model.KeyStats, weak []WeakKey) error {
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No weak keys yet.")
		return err
	}
	byKey := make(map[string]model.KeyStats, len(keys))
	for _, ks := range keys {
		byKey[ks.Key] = ks
	}
	headers := []string{"Key", "Score", "Error Rate", "Avg Latency (ms)", "Count", "Confused With"}
	rows := make([][]string, 0, len(weak))
	for _, wk := range weak {
		ks := byKey[wk.Key]
		rows = append(rows, []string{
			keyLabel(wk.Key),
			fmt.Sprintf("%.3f", wk.Score),
			fmt.Sprintf("%.1f%%", ratio(ks.ErrorCount, ks.TotalCount)*100),
			fmt.Sprintf("%.1f", avgLatency(ks.LatencySumMs, ks.TotalCount)),
			fmt.Sprintf("%d", ks.TotalCount),
			formatConfusions(ks.ConfusedWith),
		})
	}
	return writeTable(w, "Weak Keys", headers, rows)
}

// RenderTransitionTable prints the ranked weak transitions.
func RenderTransitionTable(w io.Writer, transitions []model.KeyTransitionStats, weak []WeakTransition) error {
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No weak transitions yet.")
		return err
	}
	byPair := make(map[model.Transition]model.KeyTransitionStats, len(transitions))
	for _, ts := range transitions {
		byPair[ts.Transition] = ts
	}
	headers := []string{"Pair", "Score", "Error Rate", "Avg Latency (ms)", "Count", "Confused With"}
	rows := make([][]string, 0, len(weak))
	for _, wt := range weak {
		ts := byPair[wt.Transition]
		rows = append(rows, []string{
			keyLabel(wt.Transition.From) + " > " + keyLabel(wt.Transition.To),
			fmt.Sprintf("%.3f", wt.Score),
			fmt.Sprintf("%.1f%%", ratio(ts.ErrorCount, ts.TotalCount)*100),
			fmt.Sprintf("%.1f", avgLatency(ts.LatencySumMs, ts.TotalCount)),
			fmt.Sprintf("%d", ts.TotalCount),
			formatConfusions(ts.ConfusedWith),
		})
	}
	return writeTable(w, "Weak Transitions", headers, rows)
}

// RenderWordTable prints words with their learning state.
func RenderWordTable(w io.Writer, words []model.Word, now time.Time) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No words found.")
		return err
	}
	headers := []string{"ID", "Word", "Reading", "Romaji", "Level", "Accuracy", "Plays", "Review"}
	rows := make([][]string, 0, len(words))
	for _, word := range words {
		review := "new"
		if word.Stats.NextReviewAt != nil {
			if !now.Before(*word.Stats.NextReviewAt) {
				review = "due"
			} else {
				review = word.Stats.NextReviewAt.Local().Format("2006-01-02 15:04")
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", word.ID),
			word.Text,
			word.Reading,
			word.Romaji,
			fmt.Sprintf("%d/%d", word.Stats.MasteryLevel, model.MaxMasteryLevel),
			fmt.Sprintf("%.1f%%", word.Stats.Accuracy),
			fmt.Sprintf("%d", word.Stats.Attempts()),
			review,
		})
	}
	return writeTable(w, "Words", headers, rows)
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatConfusions(counts map[string]int) string {
	top := TopConfusions(counts, 3)
	parts := make([]string, 0, len(top))
	for _, c := range top {
		parts = append(parts, fmt.Sprintf("%s×%d", keyLabel(c.Actual), c.Count))
	}
	return strings.Join(parts, " ")
}

func keyLabel(key string) string {
	if key == " " {
		return "<space>"
	}
	return key
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func avgLatency(sumMs int64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(sumMs) / float64(count)
}
