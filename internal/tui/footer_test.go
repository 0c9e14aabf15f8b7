package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, "neko", "inu")
	m.hasLast = true
	m.lastKps = 4.25
	m.lastAcc = 97.8
	m.lastPenalty = 0.27

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Word 1/2", "Misses 0", "-0.27s", "Last 4.25 KPS", "97.8%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
