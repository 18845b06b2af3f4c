package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some scores
	_, err = store.SaveScore("match3", 100)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("match3", 50)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("match3", 200)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Different mode
	_, err = store.SaveScore("match3_auto", 500)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Retrieve top scores for match3
	scores, err := store.TopScores("match3", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	// Retrieve top scores for match3_auto
	autoScores, err := store.TopScores("match3_auto", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(autoScores) != 1 {
		t.Errorf("Expected 1 dino score, got %d", len(autoScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No scores yet
	high, err := store.HighScore("match3")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	// Add scores
	store.SaveScore("match3", 100)
	store.SaveScore("match3", 300)
	store.SaveScore("match3", 200)

	high, err = store.HighScore("match3")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("match3", 100)
	store.SaveScore("match3", 200)
	store.SaveScore("match3_auto", 300)

	// Clear only match3 scores
	err = store.ClearScores("match3")
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	// Manual should be empty
	playScores, _ := store.TopScores("match3", 10)
	if len(playScores) != 0 {
		t.Errorf("Expected 0 match3 scores after clear, got %d", len(playScores))
	}

	// Autoplay should still have scores
	autoScores, _ := store.TopScores("match3_auto", 10)
	if len(autoScores) != 1 {
		t.Errorf("Autoplay scores should not be affected by clearing match3")
	}
}

func TestStoreAllScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Add many scores
	for i := range 20 {
		store.SaveScore("test", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that ~ expansion works (we won't actually write to home)
	// Just verify the function doesn't crash
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSimulationRuns(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("Expected no runs, got %d", len(runs))
	}

	first := SimulationRun{
		Seed: 42, Rows: 8, Columns: 8, Colors: 5,
		Requested: 200, Ticks: 200, Accepted: 180, Rejected: 15, Skipped: 5,
		Resolves: 180, Cascades: 37, MaxDepth: 4, Removed: 612, TimedOut: 0,
		Duration: 1500 * time.Millisecond,
	}
	second := first
	second.Seed = 7
	second.Stopped = true
	second.Ticks = 10

	if _, err := store.SaveRun(first); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	id, err := store.SaveRun(second)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err = store.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}

	latest := runs[0]
	if latest.ID != id || latest.Seed != 7 {
		t.Errorf("Expected newest run first, got id=%d seed=%d", latest.ID, latest.Seed)
	}
	if !latest.Stopped || latest.Ticks != 10 {
		t.Errorf("Stopped/Ticks not round-tripped: %+v", latest)
	}
	if latest.Duration != 1500*time.Millisecond {
		t.Errorf("Expected duration 1.5s, got %v", latest.Duration)
	}

	older := runs[1]
	if older.Stopped {
		t.Error("Expected first run not stopped")
	}
	if older.Removed != 612 || older.MaxDepth != 4 || older.Cascades != 37 {
		t.Errorf("Counters not round-tripped: %+v", older)
	}

	limited, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d runs", len(limited))
	}
}

func TestStoreGameStats(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	empty, err := store.GetGameStats("match3")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	store.SaveScore("match3", 100)
	store.SaveScore("match3", 300)

	stats, err := store.GetGameStats("match3")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("Expected average 200, got %v", stats.AvgScore)
	}
}

func TestStoreRecordSimulation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "record.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	stats := engine.SimulationStats{
		Requested: 50,
		Ticks:     50,
		Skipped:   1,
		Accepted:  44,
		Rejected:  map[board.Rejection]int{board.Busy: 4, board.NotAdjacent: 1},
		Resolves:  44,
		Cascades:  9,
		MaxDepth:  3,
		Removed:   150,
	}
	cfg := board.Config{Rows: 6, Columns: 7, Colors: 4}
	if err := store.RecordSimulation(cfg, 99, stats, 5*time.Second); err != nil {
		t.Fatalf("RecordSimulation() failed: %v", err)
	}

	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.Seed != 99 || r.Rows != 6 || r.Columns != 7 || r.Colors != 4 {
		t.Errorf("Unexpected run header: %+v", r)
	}
	if r.Rejected != 5 {
		t.Errorf("Expected 5 rejected, got %d", r.Rejected)
	}
	if r.Accepted != 44 || r.Cascades != 9 || r.MaxDepth != 3 || r.Removed != 150 {
		t.Errorf("Unexpected run counters: %+v", r)
	}
	if r.Duration != 5*time.Second {
		t.Errorf("Expected 5s duration, got %v", r.Duration)
	}
}
