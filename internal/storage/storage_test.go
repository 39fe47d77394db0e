package storage

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	s.SetLogger(nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id string) *GameRecord {
	return &GameRecord{
		ID:         id,
		Placement:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		SideToMove: "w",
		Moves:      []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Hashes:     []uint64{1, 2, 3, 4, 5},
		Status:     "checkmate",
		Winner:     WinnerBlack,
	}
}

func TestGameRoundTrip(t *testing.T) {
	s := openTest(t)

	rec := sampleRecord("fools-mate")
	if err := s.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := s.LoadGame("fools-mate")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Placement != rec.Placement || got.SideToMove != "w" || got.Status != "checkmate" || got.Winner != WinnerBlack {
		t.Errorf("loaded %+v", got)
	}
	if len(got.Moves) != 4 || got.Moves[3] != "d8h4" {
		t.Errorf("moves = %v", got.Moves)
	}
	if len(got.Hashes) != 5 || got.Hashes[4] != 5 {
		t.Errorf("hashes = %v", got.Hashes)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created %v, want %v", got.CreatedAt, rec.CreatedAt)
	}

	// Saving again keeps the creation time.
	created := got.CreatedAt
	got.Moves = append(got.Moves, "e1e2")
	if err := s.SaveGame(got); err != nil {
		t.Fatal(err)
	}
	again, err := s.LoadGame("fools-mate")
	if err != nil {
		t.Fatal(err)
	}
	if !again.CreatedAt.Equal(created) || len(again.Moves) != 5 {
		t.Errorf("overwrite lost data: %+v", again)
	}
}

func TestGameNotFound(t *testing.T) {
	s := openTest(t)

	if _, err := s.LoadGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame error = %v, want ErrGameNotFound", err)
	}
	if err := s.DeleteGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("DeleteGame error = %v, want ErrGameNotFound", err)
	}
}

func TestInvalidID(t *testing.T) {
	s := openTest(t)

	for _, id := range []string{"", "a/b", "two words"} {
		if err := s.SaveGame(sampleRecord(id)); !errors.Is(err, ErrInvalidID) {
			t.Errorf("SaveGame(%q) error = %v, want ErrInvalidID", id, err)
		}
		if _, err := s.LoadGame(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("LoadGame(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTest(t)

	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := s.SaveGame(sampleRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	// Stats live outside the game prefix and must not be listed.
	if err := s.SaveStats(NewGameStats()); err != nil {
		t.Fatal(err)
	}

	ids, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(ids) != len(want) {
		t.Fatalf("ListGames = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ListGames = %v, want %v", ids, want)
		}
	}

	if err := s.DeleteGame("mid"); err != nil {
		t.Fatal(err)
	}
	ids, err = s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "zeta" {
		t.Errorf("after delete ListGames = %v", ids)
	}
}

func TestRecordResult(t *testing.T) {
	s := openTest(t)

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 || stats.DrawRate() != 0 {
		t.Errorf("fresh stats = %+v", stats)
	}

	results := []*GameRecord{
		sampleRecord("a"),
		{ID: "b", Moves: make([]string, 10), Status: "stalemate"},
		{ID: "c", Moves: make([]string, 120), Status: "fifty-move rule"},
		{ID: "d", Moves: make([]string, 30), Status: "checkmate", Winner: WinnerWhite},
	}
	for _, rec := range results {
		if err := s.RecordResult(rec); err != nil {
			t.Fatalf("RecordResult(%s): %v", rec.ID, err)
		}
	}

	if err := s.RecordResult(&GameRecord{ID: "e", Status: StatusOngoing}); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("ongoing game error = %v, want ErrGameInProgress", err)
	}

	stats, err = s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 4 || stats.WhiteWins != 1 || stats.BlackWins != 1 || stats.Draws != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.DrawsByReason["stalemate"] != 1 || stats.DrawsByReason["fifty-move rule"] != 1 {
		t.Errorf("draws by reason = %v", stats.DrawsByReason)
	}
	if stats.TotalPlies != 164 || stats.LongestGame != 120 {
		t.Errorf("plies = %d longest = %d", stats.TotalPlies, stats.LongestGame)
	}
	if rate := stats.DrawRate(); rate != 50 {
		t.Errorf("Expected 50%% draw rate, got %.2f%%", rate)
	}
}

func TestRecordResultLogsToStorageLogger(t *testing.T) {
	s := openTest(t)

	var buf bytes.Buffer
	s.SetLogger(log.New(&buf, "", 0))
	if err := s.RecordResult(sampleRecord("logged")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, "[STORAGE] Recorded logged: checkmate (4 plies)") {
		t.Errorf("log output = %q", got)
	}

	s.SetLogger(nil)
	buf.Reset()
	if err := s.RecordResult(sampleRecord("silent")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("silenced storage still logged %q", buf.String())
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveGame(sampleRecord("persist")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	rec, err := s.LoadGame("persist")
	if err != nil {
		t.Fatalf("LoadGame after reopen: %v", err)
	}
	if rec.Status != "checkmate" {
		t.Errorf("status = %q", rec.Status)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(HomeEnv, "")
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("DataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := DatabaseDir()
	if err != nil {
		t.Fatalf("DatabaseDir failed: %v", err)
	}
	if filepath.Dir(dbDir) != dataDir {
		t.Errorf("database dir %s is not inside %s", dbDir, dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestDataDirOverride(t *testing.T) {
	home := filepath.Join(t.TempDir(), "custom")
	t.Setenv(HomeEnv, home)

	dataDir, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dataDir != home {
		t.Errorf("DataDir = %s, want %s", dataDir, home)
	}
	dbDir, err := DatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "db"); dbDir != want {
		t.Errorf("DatabaseDir = %s, want %s", dbDir, want)
	}
	if info, err := os.Stat(dbDir); err != nil || !info.IsDir() {
		t.Errorf("database dir not created: %v", err)
	}
}
