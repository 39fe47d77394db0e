// Package game drives one chess game on top of the board rules: it applies
// confirmed moves, keeps the repetition history, notifies observers and
// tracks the outcome.
package game

import (
	"fmt"
	"log"
	"strings"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

// MoveEvent is delivered to observers after a move has been applied.
type MoveEvent struct {
	Ply      int // 1 for the first move of the session
	Move     board.Move
	Piece    board.Piece
	Captured board.Piece
	Hash     uint64
}

// Option configures a Session.
type Option func(*Session)

// WithHasher selects the Zobrist table. The default is board.DefaultHasher.
func WithHasher(h *board.Hasher) Option {
	return func(s *Session) { s.hasher = h }
}

// WithLogger routes session logging; the default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSideToMove sets who moves first.
func WithSideToMove(c board.Color) Option {
	return func(s *Session) { s.startSide = c }
}

// WithDebug verifies the board/bitboard mirror after every move.
func WithDebug(on bool) Option {
	return func(s *Session) { s.debug = on }
}

// Session owns one game: its position, the move list and the observers.
type Session struct {
	pos    *board.Position
	hasher *board.Hasher
	logger *log.Logger
	debug  bool

	startPlacement string
	startSide      board.Color

	moves     []board.Move
	observers []func(MoveEvent)
	outcome   board.Outcome
}

// New starts a session from the standard setup.
func New(opts ...Option) (*Session, error) {
	return NewFromPlacement(board.StartPlacement, opts...)
}

// NewFromPlacement starts a session from a placement string.
func NewFromPlacement(placement string, opts ...Option) (*Session, error) {
	pos, err := board.ParsePlacement(placement)
	if err != nil {
		return nil, err
	}

	s := &Session{
		pos:            pos,
		hasher:         board.DefaultHasher,
		logger:         log.Default(),
		startPlacement: pos.Placement(),
		startSide:      board.White,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// reset establishes the start state: side to move, initial hash and outcome.
func (s *Session) reset() error {
	if err := s.pos.SetSideToMove(s.startSide); err != nil {
		return err
	}
	// History starts with the initial position
	s.pos.RecordHash(s.pos.Hash(s.hasher))

	outcome, err := s.pos.Evaluate()
	if err != nil {
		return err
	}
	s.outcome = outcome
	return nil
}

// SetSideToMove changes who moves first. It is only allowed before any move.
func (s *Session) SetSideToMove(c board.Color) error {
	if len(s.moves) > 0 {
		return ErrGameStarted
	}
	pos, err := board.ParsePlacement(s.startPlacement)
	if err != nil {
		return err
	}
	prev, prevSide := s.pos, s.startSide
	s.pos, s.startSide = pos, c
	if err := s.reset(); err != nil {
		s.pos, s.startSide = prev, prevSide
		return err
	}
	return nil
}

// Position returns the live position. Callers must not mutate it.
func (s *Session) Position() *board.Position {
	return s.pos
}

// Moves returns a copy of the moves played so far.
func (s *Session) Moves() []board.Move {
	return append([]board.Move(nil), s.moves...)
}

// Outcome returns the verdict for the current position.
func (s *Session) Outcome() board.Outcome {
	return s.outcome
}

// Over reports whether the game has ended.
func (s *Session) Over() bool {
	return s.outcome.Over()
}

// OnMove registers an observer called after every applied move, in
// registration order.
func (s *Session) OnMove(fn func(MoveEvent)) {
	s.observers = append(s.observers, fn)
}

// LegalMoves returns the legal moves of the piece on sq for the side to move.
func (s *Session) LegalMoves(sq board.Square) ([]board.Move, error) {
	return s.pos.LegalMovesFrom(sq)
}

// Play applies a move, records the new position's hash, notifies observers
// and evaluates the outcome.
func (s *Session) Play(m board.Move) (board.Outcome, error) {
	if s.outcome.Over() {
		return s.outcome, fmt.Errorf("%w: %s", ErrGameOver, s.outcome.Status)
	}

	piece := s.pos.PieceAt(m.From)
	captured := s.pos.PieceAt(m.To)
	if m.IsEnPassant() {
		captured = board.NewPiece(board.Pawn, piece.Color().Other())
	}

	s.logger.Printf("[MOVE] Before: SideToMove=%v, Move=%v, Piece=%v", s.pos.SideToMove(), m, piece)

	if err := s.pos.ApplyMove(m, piece); err != nil {
		return s.outcome, err
	}
	if s.debug {
		if err := s.pos.CheckConsistency(); err != nil {
			return s.outcome, fmt.Errorf("after %v: %w", m, err)
		}
	}

	// Record position hash for repetition detection
	hash := s.pos.Hash(s.hasher)
	s.pos.RecordHash(hash)

	if m.IsPromotion() {
		m.Promotion = m.PromotionType()
	}
	s.moves = append(s.moves, m)

	event := MoveEvent{
		Ply:      len(s.moves),
		Move:     m,
		Piece:    piece,
		Captured: captured,
		Hash:     hash,
	}
	for _, fn := range s.observers {
		fn(event)
	}

	outcome, err := s.pos.Evaluate()
	if err != nil {
		return s.outcome, err
	}
	s.outcome = outcome

	if outcome.Over() {
		if outcome.Status == board.Checkmate {
			s.logger.Printf("[OUTCOME] %v wins by checkmate after %d plies", outcome.Winner(), len(s.moves))
		} else {
			s.logger.Printf("[OUTCOME] Draw by %s after %d plies", outcome.Status, len(s.moves))
		}
	}
	return outcome, nil
}

// PlayString resolves a coordinate move such as "e2e4" or "e7e8n" and plays it.
func (s *Session) PlayString(text string) (board.Outcome, error) {
	if s.outcome.Over() {
		return s.outcome, fmt.Errorf("%w: %s", ErrGameOver, s.outcome.Status)
	}
	m, err := s.ResolveMove(text)
	if err != nil {
		return s.outcome, err
	}
	return s.Play(m)
}

// ResolveMove finds the legal move described by a coordinate string. A
// trailing n, b, r or q picks the promotion piece. Castling may also be given
// as the king moving onto its own rook ("e1h1").
func (s *Session) ResolveMove(text string) (board.Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, text)
	}

	src, err := board.ParseSquare(text[0:2])
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, text)
	}
	dst, err := board.ParseSquare(text[2:4])
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, text)
	}

	promotion := board.NoPieceType
	if len(text) == 5 {
		switch text[4] {
		case 'n':
			promotion = board.Knight
		case 'b':
			promotion = board.Bishop
		case 'r':
			promotion = board.Rook
		case 'q':
			promotion = board.Queen
		default:
			return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, text)
		}
	}

	moves, err := s.pos.LegalMovesFrom(src)
	if err != nil {
		return board.NoMove, err
	}

	for _, m := range moves {
		if m.To == dst || (m.IsCastling() && m.RookFrom == dst) {
			if promotion != board.NoPieceType {
				if !m.IsPromotion() {
					return board.NoMove, fmt.Errorf("%w: %q is not a promotion", ErrUnknownMove, text)
				}
				m.Promotion = promotion
			}
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, text)
}

// Record exports the session as a storage record under id.
func (s *Session) Record(id string) *storage.GameRecord {
	moves := make([]string, len(s.moves))
	for i, m := range s.moves {
		moves[i] = m.String()
	}

	rec := &storage.GameRecord{
		ID:         id,
		Placement:  s.startPlacement,
		SideToMove: sideCode(s.startSide),
		Moves:      moves,
		Hashes:     s.pos.History(),
		Status:     s.outcome.Status.String(),
	}
	switch s.outcome.Winner() {
	case board.White:
		rec.Winner = storage.WinnerWhite
	case board.Black:
		rec.Winner = storage.WinnerBlack
	}
	return rec
}

// Replay rebuilds a session by playing a record's moves from its start
// position. When the record carries hashes they must match the replayed
// history exactly.
func Replay(rec *storage.GameRecord, opts ...Option) (*Session, error) {
	side, err := ParseSide(rec.SideToMove)
	if err != nil {
		return nil, err
	}

	s, err := NewFromPlacement(rec.Placement, append(opts, WithSideToMove(side))...)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", rec.ID, err)
	}

	for i, text := range rec.Moves {
		if _, err := s.PlayString(text); err != nil {
			return nil, fmt.Errorf("replay %s ply %d: %w", rec.ID, i+1, err)
		}
	}

	if len(rec.Hashes) > 0 {
		history := s.pos.History()
		if len(history) != len(rec.Hashes) {
			return nil, fmt.Errorf("%w: %d hashes, replay produced %d", ErrHistoryMismatch, len(rec.Hashes), len(history))
		}
		for i := range history {
			if history[i] != rec.Hashes[i] {
				return nil, fmt.Errorf("%w: entry %d", ErrHistoryMismatch, i)
			}
		}
	}
	return s, nil
}

// ParseSide converts "w"/"white" or "b"/"black" to a color. Empty means White.
func ParseSide(text string) (board.Color, error) {
	switch strings.ToLower(text) {
	case "", "w", "white":
		return board.White, nil
	case "b", "black":
		return board.Black, nil
	}
	return board.NoColor, fmt.Errorf("unknown side %q", text)
}

func sideCode(c board.Color) string {
	if c == board.Black {
		return "b"
	}
	return "w"
}
