package stats

import (
	"testing"
)

func TestTopConfusions(t *testing.T) {
	counts := map[string]int{"a": 2, "d": 5, "f": 2, "g": 1}
	top := TopConfusions(counts, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 confusions, got %d", len(top))
	}
	if top[0].Actual != "d" || top[1].Actual != "a" || top[2].Actual != "f" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if TopConfusions(nil, 3) != nil {
		t.Fatalf("expected nil for empty counts")
	}
}
