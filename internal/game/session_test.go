package game

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

func quiet() Option {
	return WithLogger(log.New(io.Discard, "", 0))
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(append([]Option{quiet()}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func playAll(t *testing.T, s *Session, moves ...string) board.Outcome {
	t.Helper()
	var o board.Outcome
	for _, text := range moves {
		var err error
		o, err = s.PlayString(text)
		if err != nil {
			t.Fatalf("PlayString(%q): %v", text, err)
		}
	}
	return o
}

func TestNewSession(t *testing.T) {
	s := newSession(t)

	if s.Position().SideToMove() != board.White {
		t.Errorf("side to move = %v", s.Position().SideToMove())
	}
	history := s.Position().History()
	if len(history) != 1 || history[0] != s.Position().Hash(nil) {
		t.Errorf("history = %v, want the initial hash", history)
	}
	if s.Over() {
		t.Error("fresh game reported over")
	}
}

func TestFoolsMateSession(t *testing.T) {
	s := newSession(t, WithDebug(true))

	var events []MoveEvent
	s.OnMove(func(e MoveEvent) { events = append(events, e) })

	o := playAll(t, s, "f2f3", "e7e5", "g2g4", "d8h4")
	if o.Status != board.Checkmate || o.Winner() != board.Black {
		t.Fatalf("outcome = %+v", o)
	}
	if !s.Over() {
		t.Error("session not over after mate")
	}

	if len(events) != 4 {
		t.Fatalf("observer saw %d events, want 4", len(events))
	}
	for i, e := range events {
		if e.Ply != i+1 {
			t.Errorf("event %d ply = %d", i, e.Ply)
		}
	}
	if events[3].Piece != board.BlackQueen || events[3].Move.To != board.H4 {
		t.Errorf("last event = %+v", events[3])
	}
	if history := s.Position().History(); len(history) != 5 || history[4] != events[3].Hash {
		t.Errorf("history %v does not end with the last event hash", history)
	}

	if _, err := s.PlayString("e1f2"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate error = %v, want ErrGameOver", err)
	}
}

func TestPlayRejectsIllegal(t *testing.T) {
	s := newSession(t)

	tests := []string{"e2e5", "e7e5", "z9e4", "e2", "e2e4x", "e7e8q", "e2e4q"}
	for _, text := range tests {
		if _, err := s.PlayString(text); !errors.Is(err, ErrUnknownMove) {
			t.Errorf("PlayString(%q) error = %v, want ErrUnknownMove", text, err)
		}
	}

	if _, err := s.Play(board.NewMove(board.E2, board.E5)); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("Play(e2e5) error = %v, want board.ErrIllegalMove", err)
	}
	if len(s.Moves()) != 0 || len(s.Position().History()) != 1 {
		t.Error("rejected moves were recorded")
	}
}

func TestCaptureEvents(t *testing.T) {
	s, err := NewFromPlacement("4k3/3p4/8/4P3/8/8/8/4K3", quiet(), WithSideToMove(board.Black))
	if err != nil {
		t.Fatal(err)
	}

	var last MoveEvent
	s.OnMove(func(e MoveEvent) { last = e })

	playAll(t, s, "d7d5", "e5d6")
	if !last.Move.IsEnPassant() || last.Captured != board.BlackPawn {
		t.Errorf("en passant event = %+v", last)
	}
}

func TestCastlingInput(t *testing.T) {
	tests := []struct {
		input string
		king  board.Square
		rook  board.Square
	}{
		{"e1g1", board.G1, board.F1},
		{"e1h1", board.G1, board.F1},
		{"e1c1", board.C1, board.D1},
		{"e1a1", board.C1, board.D1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := NewFromPlacement("r3k2r/8/8/8/8/8/8/R3K2R", quiet())
			if err != nil {
				t.Fatal(err)
			}
			playAll(t, s, tt.input)
			pos := s.Position()
			if pos.PieceAt(tt.king) != board.WhiteKing || pos.PieceAt(tt.rook) != board.WhiteRook {
				t.Errorf("after %s:\n%v", tt.input, pos)
			}
		})
	}
}

func TestPromotionChoice(t *testing.T) {
	s, err := NewFromPlacement("4k3/P7/8/8/8/8/8/4K3", quiet())
	if err != nil {
		t.Fatal(err)
	}
	playAll(t, s, "a7a8n")

	if got := s.Position().PieceAt(board.A8); got != board.WhiteKnight {
		t.Errorf("a8 = %v, want N", got)
	}
	if got := s.Moves()[0].String(); got != "a7a8n" {
		t.Errorf("recorded move = %q", got)
	}
}

func TestThreefoldSession(t *testing.T) {
	s := newSession(t)

	o := playAll(t, s,
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1",
	)
	if o.Over() {
		t.Fatalf("over too early: %+v", o)
	}
	o = playAll(t, s, "f6g8")
	if o.Status != board.DrawThreefold {
		t.Fatalf("status = %v, want threefold", o.Status)
	}
}

func TestSetSideToMove(t *testing.T) {
	s := newSession(t)
	if err := s.SetSideToMove(board.Black); err != nil {
		t.Fatal(err)
	}
	if s.Position().SideToMove() != board.Black || len(s.Position().History()) != 1 {
		t.Errorf("side %v history %v", s.Position().SideToMove(), s.Position().History())
	}
	if err := s.SetSideToMove(board.NoColor); !errors.Is(err, board.ErrInvalidColor) {
		t.Errorf("SetSideToMove(NoColor) error = %v", err)
	}
	if s.Position().SideToMove() != board.Black {
		t.Errorf("rejected side changed the position to %v", s.Position().SideToMove())
	}
	playAll(t, s, "e7e5")
	if err := s.SetSideToMove(board.White); !errors.Is(err, ErrGameStarted) {
		t.Errorf("error = %v, want ErrGameStarted", err)
	}
}

func TestNewFromPlacementErrors(t *testing.T) {
	if _, err := NewFromPlacement("8/8/8/8/8/8/8/7X", quiet()); !errors.Is(err, board.ErrInvalidPlacement) {
		t.Errorf("bad placement error = %v", err)
	}
	if _, err := NewFromPlacement("8/8/8/8/8/8/8/8", quiet()); !errors.Is(err, board.ErrNoKing) {
		t.Errorf("kingless board error = %v", err)
	}
	if _, err := NewFromPlacement(board.StartPlacement, quiet(), WithSideToMove(board.NoColor)); !errors.Is(err, board.ErrInvalidColor) {
		t.Errorf("NoColor side error = %v, want board.ErrInvalidColor", err)
	}
	if s, err := New(quiet(), WithSideToMove(board.NoColor)); s != nil || !errors.Is(err, board.ErrInvalidColor) {
		t.Errorf("New with NoColor = %v, %v", s, err)
	}
}

func TestRecordAndReplay(t *testing.T) {
	s := newSession(t)
	playAll(t, s, "e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1")

	rec := s.Record("italian")
	if rec.ID != "italian" || rec.SideToMove != "w" || rec.Placement != board.StartPlacement {
		t.Errorf("record header = %+v", rec)
	}
	if len(rec.Moves) != 7 || rec.Moves[6] != "e1g1" {
		t.Errorf("moves = %v", rec.Moves)
	}
	if rec.Status != storage.StatusOngoing || rec.Winner != storage.WinnerNone {
		t.Errorf("status %q winner %q", rec.Status, rec.Winner)
	}

	replayed, err := Replay(rec, quiet())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if replayed.Position().Placement() != s.Position().Placement() {
		t.Errorf("replayed placement %s, want %s", replayed.Position().Placement(), s.Position().Placement())
	}
	if replayed.Position().Flags() != s.Position().Flags() {
		t.Error("replayed flags differ")
	}

	rec.Hashes[3] ^= 1
	if _, err := Replay(rec, quiet()); !errors.Is(err, ErrHistoryMismatch) {
		t.Errorf("tampered replay error = %v, want ErrHistoryMismatch", err)
	}

	rec.Hashes = nil
	rec.Moves = append(rec.Moves, "e1e2")
	if _, err := Replay(rec, quiet()); !errors.Is(err, ErrUnknownMove) {
		t.Errorf("bad move replay error = %v, want ErrUnknownMove", err)
	}
}

func TestRecordFinishedGame(t *testing.T) {
	s := newSession(t)
	playAll(t, s, "f2f3", "e7e5", "g2g4", "d8h4")

	rec := s.Record("mate")
	if rec.Status != "checkmate" || rec.Winner != storage.WinnerBlack || !rec.Finished() {
		t.Errorf("record = %+v", rec)
	}

	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetLogger(nil)

	if err := db.SaveGame(rec); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordResult(rec); err != nil {
		t.Fatal(err)
	}
	loaded, err := db.LoadGame("mate")
	if err != nil {
		t.Fatal(err)
	}
	replayed, err := Replay(loaded, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if !replayed.Over() || replayed.Outcome().Loser != board.White {
		t.Errorf("replayed outcome = %+v", replayed.Outcome())
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want board.Color
		ok   bool
	}{
		{"w", board.White, true},
		{"", board.White, true},
		{"Black", board.Black, true},
		{"b", board.Black, true},
		{"x", board.NoColor, false},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseSide(%q) = %v, %v", tt.in, got, err)
		}
	}
}
