package invitation

import "testing"

// The chain order is the tie-break between strategies that could both match;
// reordering it silently changes which classroom a code lands in.
func Test_resolveStrategies_order(t *testing.T) {
	want := []string{"exact", "classroom-id", "partial", "fold"}
	if len(resolveStrategies) != len(want) {
		t.Fatalf("len(resolveStrategies) = %d, want %d", len(resolveStrategies), len(want))
	}
	for i, strat := range resolveStrategies {
		if strat.name != want[i] {
			t.Errorf("resolveStrategies[%d] = %q, want %q", i, strat.name, want[i])
		}
	}
}
