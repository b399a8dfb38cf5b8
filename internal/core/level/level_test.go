package level

import "testing"

func TestThreshold(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 10}, // 10 * 1.15^0
		{2, 12}, // round(11.5)
		{3, 13}, // round(13.225)
		{4, 15}, // round(15.20875)
		{0, 0},  // out of range
		{MaxLevel, 0},
	}
	for _, tt := range tests {
		if got := Threshold(tt.n); got != tt.want {
			t.Errorf("Threshold(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestForBoundaries(t *testing.T) {
	tests := []struct {
		total     int
		wantLevel int
		wantInto  int
		wantNext  int
	}{
		{0, 1, 0, 10},
		{9, 1, 9, 1},
		{10, 2, 0, 12}, // exactly the first threshold
		{21, 2, 11, 1},
		{22, 3, 0, 13},
	}
	for _, tt := range tests {
		got := For(tt.total)
		if got.Level != tt.wantLevel || got.IntoLevel != tt.wantInto || got.ToNext != tt.wantNext {
			t.Errorf("For(%d) = level %d into %d next %d, want level %d into %d next %d",
				tt.total, got.Level, got.IntoLevel, got.ToNext,
				tt.wantLevel, tt.wantInto, tt.wantNext)
		}
	}
}

func TestForCeiling(t *testing.T) {
	// Enough pomodoros to blow past every threshold.
	total := 0
	for n := 1; n < MaxLevel; n++ {
		total += Threshold(n)
	}

	atCap := For(total)
	if atCap.Level != MaxLevel {
		t.Fatalf("level at exact cap = %d, want %d", atCap.Level, MaxLevel)
	}
	if atCap.ToNext != 0 || atCap.Percent != 100 {
		t.Errorf("at cap: ToNext = %d, Percent = %d", atCap.ToNext, atCap.Percent)
	}

	beyond := For(total + 5000)
	if beyond.Level != MaxLevel || beyond.Percent != 100 {
		t.Errorf("beyond cap: %+v", beyond)
	}
}

func TestForDeterminism(t *testing.T) {
	for _, total := range []int{0, 7, 10, 123, 99999} {
		a, b := For(total), For(total)
		if a != b {
			t.Errorf("For(%d) not deterministic: %+v vs %+v", total, a, b)
		}
	}
}

func TestForNegativeClamps(t *testing.T) {
	if got := For(-3); got.Level != 1 || got.IntoLevel != 0 {
		t.Errorf("For(-3) = %+v, want level 1 with no progress", got)
	}
}

func TestTitleBands(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Tomato Apprentice"},
		{4, "Tomato Apprentice"},
		{5, "Focus Novice"},
		{10, "Timekeeper"},
		{99, "Productivity Legend"},
		{100, "Pomodoro Myth"},
	}
	for _, tt := range tests {
		if got := TitleFor(tt.level); got != tt.want {
			t.Errorf("TitleFor(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
