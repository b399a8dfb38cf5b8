package export

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/achievements"
	"github.com/pomotrack/pomotrack/internal/core/db"
	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/stats"
)

func sampleSessions() []models.SessionRecord {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	return []models.SessionRecord{
		{
			ID: "sess-1", StartTime: base, EndTime: base.Add(25 * time.Minute),
			DurationSeconds: 1500, TaskName: "Write report", Phase: models.PhaseWork,
			Completed: true, FocusScore: 100,
			Tags: []string{"docs", "q1, planning"}, // embedded comma must survive CSV
		},
		{
			ID: "sess-2", StartTime: base.Add(30 * time.Minute), EndTime: base.Add(35 * time.Minute),
			DurationSeconds: 300, Phase: models.PhaseShortBreak, Completed: true,
		},
		{
			ID: "sess-3", StartTime: base.Add(40 * time.Minute), EndTime: base.Add(50 * time.Minute),
			DurationSeconds: 600, TaskName: "Review \"quotes\"", Phase: models.PhaseWork,
			Completed: false, Interruptions: 2, Notes: "left for a meeting",
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	sessions := sampleSessions()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, sessions); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	assertEqualSessions(t, got, sessions)
}

func TestCSVRoundTrip(t *testing.T) {
	sessions := sampleSessions()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sessions); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "uuid,start_time,") {
		t.Errorf("missing header: %q", buf.String()[:40])
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	assertEqualSessions(t, got, sessions)
}

func assertEqualSessions(t *testing.T, got, want []models.SessionRecord) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d sessions, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if !g.StartTime.Equal(w.StartTime) || !g.EndTime.Equal(w.EndTime) {
			t.Errorf("session %d times: %v..%v != %v..%v", i, g.StartTime, g.EndTime, w.StartTime, w.EndTime)
		}
		// Compare value fields without the time zone representation.
		g.StartTime, g.EndTime = w.StartTime, w.EndTime
		if fmt.Sprintf("%+v", g) != fmt.Sprintf("%+v", w) {
			t.Errorf("session %d:\n got %+v\nwant %+v", i, g, w)
		}
	}
}

func TestReadRejectsInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"not":"an array"}`)); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("malformed JSON: error = %v", err)
	}

	// Valid shape, bad content: unknown phase.
	bad := `[{"uuid":"x","start_time":"2025-03-10T09:00:00Z","end_time":"2025-03-10T09:25:00Z","duration_seconds":1500,"task_name":"t","phase":"nap","completed":true}]`
	if _, err := ReadJSON(strings.NewReader(bad)); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("unknown phase: error = %v", err)
	}

	if _, err := ReadCSV(strings.NewReader("uuid,start_time\nonly,two")); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("short CSV row: error = %v", err)
	}
}

func TestImportIdempotentAndRebuildEquivalent(t *testing.T) {
	source, err := db.New(filepath.Join(t.TempDir(), "source.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer source.Close()

	if err := achievements.Seed(&source.Store); err != nil {
		t.Fatal(err)
	}

	sessions := sampleSessions()
	for i := range sessions {
		if err := source.AppendSession(&sessions[i]); err != nil {
			t.Fatal(err)
		}
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	const dailyGoal = 8
	if err := stats.Rebuild(source, now); err != nil {
		t.Fatal(err)
	}
	if _, err := achievements.Evaluate(&source.Store, now, dailyGoal); err != nil {
		t.Fatal(err)
	}
	wantStats, err := source.GetStatsRange("2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatal(err)
	}
	wantAch, err := source.ListAchievements(db.AchievementFilter{})
	if err != nil {
		t.Fatal(err)
	}

	// Export, import into a fresh database, rebuild, compare.
	var buf bytes.Buffer
	all, err := source.GetSessions(db.SessionQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(&buf, all); err != nil {
		t.Fatal(err)
	}

	target, err := db.New(filepath.Join(t.TempDir(), "target.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer target.Close()
	if err := achievements.Seed(&target.Store); err != nil {
		t.Fatal(err)
	}

	imported, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	added, err := Import(target, imported)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if added != len(sessions) {
		t.Errorf("added = %d, want %d", added, len(sessions))
	}

	// Importing the same export again adds nothing.
	again, err := Import(target, imported)
	if err != nil {
		t.Fatal(err)
	}
	if again != 0 {
		t.Errorf("re-import added %d sessions, want 0", again)
	}

	if err := stats.Rebuild(target, now); err != nil {
		t.Fatal(err)
	}
	if _, err := achievements.Evaluate(&target.Store, now, dailyGoal); err != nil {
		t.Fatal(err)
	}
	gotStats, err := target.GetStatsRange("2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(gotStats) != len(wantStats) {
		t.Fatalf("rebuilt %d stat rows, want %d", len(gotStats), len(wantStats))
	}
	for i := range wantStats {
		if gotStats[i] != wantStats[i] {
			t.Errorf("stat %d: %+v != %+v", i, gotStats[i], wantStats[i])
		}
	}

	// Achievement state must survive the round trip, not stay at zero.
	gotAch, err := target.ListAchievements(db.AchievementFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(gotAch) != len(wantAch) {
		t.Fatalf("got %d achievements, want %d", len(gotAch), len(wantAch))
	}
	anyUnlocked := false
	for i := range wantAch {
		g, w := gotAch[i], wantAch[i]
		if g.ID != w.ID || g.Progress != w.Progress || g.Unlocked != w.Unlocked {
			t.Errorf("achievement %s: progress %d unlocked %v, want progress %d unlocked %v",
				g.ID, g.Progress, g.Unlocked, w.Progress, w.Unlocked)
		}
		if (g.UnlockedDate == nil) != (w.UnlockedDate == nil) {
			t.Errorf("achievement %s: unlock date %v, want %v", g.ID, g.UnlockedDate, w.UnlockedDate)
		}
		if w.Unlocked {
			anyUnlocked = true
		}
	}
	if !anyUnlocked {
		t.Error("sample data unlocked nothing; the comparison is vacuous")
	}
}
