package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/kanatype/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("MovingAverage = %v, want %v", got, want)
		}
	}
	if got := MovingAverage([]float64{4, 8}, 0); got[0] != 4 || got[1] != 8 {
		t.Fatalf("window below 1 should pass values through, got %v", got)
	}
	if got := MovingAverage(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 7}); got != "▁█" {
		t.Fatalf("Sparkline = %q", got)
	}
	if got := Sparkline([]float64{2, 2, 2}); got != "▄▄▄" {
		t.Fatalf("flat Sparkline = %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty Sparkline = %q", got)
	}
}

func TestRenderCurveTrimsToWidth(t *testing.T) {
	scores := make([]model.GameScoreRecord, 30)
	for i := range scores {
		scores[i] = model.GameScoreRecord{Kps: float64(i), Accuracy: 90}
	}
	var buf bytes.Buffer
	if err := RenderCurve(&buf, scores, 1, 20); err != nil {
		t.Fatalf("RenderCurve: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[1], "KPS") {
		t.Fatalf("unexpected curve output:\n%s", buf.String())
	}
	if n := len([]rune(lines[1])); n != 20 {
		t.Fatalf("expected KPS line of 20 columns, got %d", n)
	}
}
