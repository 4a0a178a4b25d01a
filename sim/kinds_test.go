package sim

import "testing"

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"machine", "worker", "transport", "material", "tool", "energy"} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", valid, err)
		}
	}
	if _, err := ParseKind("conveyor"); err == nil {
		t.Error("ParseKind(conveyor): expected error")
	}
}

func TestIsCapacityKind(t *testing.T) {
	capacity := map[ResourceKind]bool{
		KindMachine:   true,
		KindWorker:    true,
		KindTransport: true,
		KindMaterial:  false,
		KindTool:      false,
		KindEnergy:    false,
	}
	for kind, want := range capacity {
		if got := kind.IsCapacityKind(); got != want {
			t.Errorf("%s.IsCapacityKind(): got %v, want %v", kind, got, want)
		}
	}
}
