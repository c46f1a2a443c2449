package money

import "testing"

func TestFloorQty(t *testing.T) {
	tests := []struct {
		name  string
		cash  float64
		price float64
		want  int64
	}{
		{"exact division", 700000, 70000, 10},
		{"fraction truncated", 500000, 70000, 7},
		{"fraction truncated limit", 500000, 67900, 7},
		{"zero price", 500000, 0, 0},
		{"negative price", 500000, -100, 0},
		{"zero cash", 0, 70000, 0},
		{"cash below price", 50000, 70000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloorQty(tt.cash, tt.price); got != tt.want {
				t.Errorf("FloorQty(%v, %v) = %d, want %d", tt.cash, tt.price, got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(67900.004); got != 67900.0 {
		t.Errorf("Round2(67900.004) = %v, want 67900.0", got)
	}
	if got := Round2(0.125); got != 0.13 {
		t.Errorf("Round2(0.125) = %v, want 0.13", got)
	}
}

func TestRound4(t *testing.T) {
	if got := Round4(0.33333333); got != 0.3333 {
		t.Errorf("Round4(0.33333333) = %v, want 0.3333", got)
	}
}

func TestVWAP(t *testing.T) {
	// 10 @ 100 + 10 @ 200 -> 20 @ 150
	if got := VWAP(10, 100, 10, 200); got != 150.0 {
		t.Errorf("VWAP = %v, want 150.0", got)
	}

	// First lot: average is just the fill price
	if got := VWAP(0, 0, 10, 70000.456); got != 70000.46 {
		t.Errorf("VWAP first lot = %v, want 70000.46", got)
	}
}
