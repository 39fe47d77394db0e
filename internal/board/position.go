package board

import (
	"fmt"
	"strings"
)

// GameRuleFlags carries the rule state that the piece layout alone cannot express.
type GameRuleFlags struct {
	WhiteKingMoved bool
	BlackKingMoved bool
	A1RookMoved    bool
	H1RookMoved    bool
	A8RookMoved    bool
	H8RookMoved    bool

	// EnPassant is the square skipped by the last double pawn push, NoSquare if none.
	EnPassant Square

	// HalfMoveClock counts plies since the last pawn move or capture.
	HalfMoveClock int
}

// DefaultFlags returns the flags of a fresh game: nothing has moved, no en passant.
func DefaultFlags() GameRuleFlags {
	return GameRuleFlags{EnPassant: NoSquare}
}

// CastlingAllowed reports whether neither the king nor the given corner rook of c has moved.
func (f GameRuleFlags) CastlingAllowed(c Color, kingSide bool) bool {
	if c == White {
		if f.WhiteKingMoved {
			return false
		}
		if kingSide {
			return !f.H1RookMoved
		}
		return !f.A1RookMoved
	}
	if f.BlackKingMoved {
		return false
	}
	if kingSide {
		return !f.H8RookMoved
	}
	return !f.A8RookMoved
}

// String returns the castling rights in the familiar KQkq form.
func (f GameRuleFlags) String() string {
	s := ""
	if f.CastlingAllowed(White, true) {
		s += "K"
	}
	if f.CastlingAllowed(White, false) {
		s += "Q"
	}
	if f.CastlingAllowed(Black, true) {
		s += "k"
	}
	if f.CastlingAllowed(Black, false) {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// Position is the complete mutable state of one game. The square array and the
// twelve bitboards are kept in lockstep by setPiece/clearSquare; nothing else
// writes either of them.
type Position struct {
	board     [64]Piece
	bitboards [12]Bitboard
	flags     GameRuleFlags

	// moveCount starts at 1; odd means White to move.
	moveCount int

	// history holds one hash per position reached, appended by the owner.
	history []uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParsePlacement(StartPlacement)
	return pos
}

// EmptyPosition returns a position with no pieces, White to move.
func EmptyPosition() *Position {
	return &Position{
		flags:     DefaultFlags(),
		moveCount: 1,
	}
}

// Clone creates a deep copy of the position, history included.
func (p *Position) Clone() *Position {
	newPos := *p
	newPos.history = append([]uint64(nil), p.history...)
	return &newPos
}

// scratch returns a value copy for move simulation. It never shares history.
func (p *Position) scratch() Position {
	s := *p
	s.history = nil
	return s
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.board[sq]
}

// Board returns a copy of the 64-square array.
func (p *Position) Board() [64]Piece {
	return p.board
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.board[sq] == NoPiece
}

// Flags returns a copy of the rule flags.
func (p *Position) Flags() GameRuleFlags {
	return p.flags
}

// SetFlags replaces the rule flags. Placement strings carry none of them, so
// callers restoring a mid-game position supply them here.
func (p *Position) SetFlags(f GameRuleFlags) {
	p.flags = f
}

// MoveCount returns the ply counter (1 at game start).
func (p *Position) MoveCount() int {
	return p.moveCount
}

// SideToMove returns the color whose turn it is.
func (p *Position) SideToMove() Color {
	if p.moveCount%2 != 0 {
		return White
	}
	return Black
}

// SetSideToMove makes c the side to move by adjusting the ply counter's parity.
func (p *Position) SetSideToMove(c Color) error {
	if c != White && c != Black {
		return fmt.Errorf("%w: %v", ErrInvalidColor, c)
	}
	if p.SideToMove() != c {
		p.moveCount++
	}
	return nil
}

// BitboardFor returns the bitboard of the given piece.
func (p *Position) BitboardFor(piece Piece) (Bitboard, error) {
	idx, ok := piece.index()
	if !ok {
		return Empty, fmt.Errorf("%w: %d", ErrInvalidPiece, uint8(piece))
	}
	return p.bitboards[idx], nil
}

// pieceBB is BitboardFor for pieces already known to be valid.
func (p *Position) pieceBB(piece Piece) Bitboard {
	idx, _ := piece.index()
	return p.bitboards[idx]
}

// occupancy returns all squares held by color c.
func (p *Position) occupancy(c Color) Bitboard {
	var bb Bitboard
	start := 0
	if c == Black {
		start = 6
	}
	for i := start; i < start+6; i++ {
		bb |= p.bitboards[i]
	}
	return bb
}

// KingSquare returns the square of c's king, or ErrNoKing.
func (p *Position) KingSquare(c Color) (Square, error) {
	if c != White && c != Black {
		return NoSquare, fmt.Errorf("%w: %v", ErrNoKing, c)
	}
	kingBB := p.pieceBB(NewPiece(King, c))
	if kingBB == 0 {
		return NoSquare, fmt.Errorf("%w: %v", ErrNoKing, c)
	}
	return kingBB.LSB(), nil
}

// setPiece places a piece on a square, replacing any occupant in both representations.
func (p *Position) setPiece(sq Square, piece Piece) error {
	idx, ok := piece.index()
	if !ok {
		return fmt.Errorf("%w: %d on %v", ErrInvalidPiece, uint8(piece), sq)
	}
	p.clearSquare(sq)
	p.board[sq] = piece
	p.bitboards[idx] |= SquareBB(sq)
	return nil
}

// mustSetPiece is setPiece for pieces the rules themselves produced. An invalid
// piece here means the position is corrupt, so it panics rather than leave the
// two representations out of step.
func (p *Position) mustSetPiece(sq Square, piece Piece) {
	if err := p.setPiece(sq, piece); err != nil {
		panic(err)
	}
}

// clearSquare empties a square in both representations and returns the old occupant.
func (p *Position) clearSquare(sq Square) Piece {
	old := p.board[sq]
	if old == NoPiece {
		return NoPiece
	}
	if idx, ok := old.index(); ok {
		p.bitboards[idx] &^= SquareBB(sq)
	}
	p.board[sq] = NoPiece
	return old
}

// Put places a piece while setting up a position. NoPiece empties the square.
func (p *Position) Put(sq Square, piece Piece) error {
	if !sq.IsValid() {
		return fmt.Errorf("%w: square %d", ErrInvalidPiece, sq)
	}
	if piece == NoPiece {
		p.clearSquare(sq)
		return nil
	}
	return p.setPiece(sq, piece)
}

// History returns a copy of the recorded position hashes.
func (p *Position) History() []uint64 {
	return append([]uint64(nil), p.history...)
}

// RecordHash appends a position hash to the repetition history.
func (p *Position) RecordHash(h uint64) {
	p.history = append(p.history, h)
}

// ApplyMove re-validates and applies a move for the piece standing on m.From.
// A rejected move leaves the position untouched.
func (p *Position) ApplyMove(m Move, pieceAtStart Piece) error {
	if !pieceAtStart.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPiece, uint8(pieceAtStart))
	}
	if !m.From.IsValid() || !m.To.IsValid() || p.board[m.From] != pieceAtStart {
		return fmt.Errorf("%w: %v does not stand on %v", ErrIllegalMove, pieceAtStart, m.From)
	}

	legal, err := p.GenerateLegalMoves(pieceAtStart, m.From, TurnChecked)
	if err != nil {
		return err
	}
	for _, candidate := range legal {
		if candidate.From == m.From && candidate.To == m.To && candidate.Flag == m.Flag {
			candidate.Promotion = m.Promotion
			p.apply(candidate, pieceAtStart)
			return nil
		}
	}
	return fmt.Errorf("%w: %v %v", ErrIllegalMove, pieceAtStart, m)
}

// apply mutates board, bitboards, flags, clock and move counter for a move
// already known to be pseudo-legal for piece.
func (p *Position) apply(m Move, piece Piece) {
	us := piece.Color()
	isPawn := piece.Type() == Pawn
	isCapture := p.board[m.To] != NoPiece || m.IsEnPassant()

	if isPawn || isCapture {
		p.flags.HalfMoveClock = 0
	} else {
		p.flags.HalfMoveClock++
	}

	p.clearSquare(m.From)

	placed := piece
	if m.IsPromotion() {
		placed = NewPiece(m.PromotionType(), us)
	}
	p.mustSetPiece(m.To, placed)

	switch m.Flag {
	case FlagEnPassant:
		// The captured pawn sits behind the target square.
		if capSq, ok := m.To.Offset(0, -pawnDirection(us)); ok {
			p.clearSquare(capSq)
		}
	case FlagCastling:
		p.clearSquare(m.RookFrom)
		p.mustSetPiece(m.RookTo, NewPiece(Rook, us))
	}

	p.updateFlags(m, piece)

	p.flags.EnPassant = NoSquare
	if isPawn && abs(int(m.To)-int(m.From)) == 16 {
		p.flags.EnPassant = Square((int(m.From) + int(m.To)) / 2)
	}

	p.moveCount++
}

// updateFlags records king and corner-rook movement. A capture on a corner
// counts as that rook having moved; so does castling with it.
func (p *Position) updateFlags(m Move, piece Piece) {
	if piece.Type() == King {
		if piece.Color() == White {
			p.flags.WhiteKingMoved = true
		} else {
			p.flags.BlackKingMoved = true
		}
	}
	for _, sq := range [3]Square{m.From, m.To, m.RookFrom} {
		switch sq {
		case A1:
			p.flags.A1RookMoved = true
		case H1:
			p.flags.H1RookMoved = true
		case A8:
			p.flags.A8RookMoved = true
		case H8:
			p.flags.H8RookMoved = true
		}
	}
}

// CheckConsistency verifies that every occupied square has exactly one matching
// bitboard bit and every empty square has none.
func (p *Position) CheckConsistency() error {
	for sq := A8; sq <= H1; sq++ {
		piece := p.board[sq]
		if piece != NoPiece && !piece.Valid() {
			return fmt.Errorf("%w: invalid value %d on %v", ErrInconsistentBoard, uint8(piece), sq)
		}
		owners := 0
		match := false
		for i, bb := range p.bitboards {
			if bb.IsSet(sq) {
				owners++
				match = allPieces[i] == piece
			}
		}
		switch {
		case piece == NoPiece && owners != 0:
			return fmt.Errorf("%w: empty %v has %d bitboard bits", ErrInconsistentBoard, sq, owners)
		case piece != NoPiece && (owners != 1 || !match):
			return fmt.Errorf("%w: %v on %v mirrored by %d bitboards", ErrInconsistentBoard, piece, sq, owners)
		}
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for file := 0; file < 8; file++ {
			piece := p.board[NewSquare(file, row)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove())
	fmt.Fprintf(&sb, "Castling: %s\n", p.flags)
	fmt.Fprintf(&sb, "En passant: %s\n", p.flags.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.flags.HalfMoveClock)
	fmt.Fprintf(&sb, "Move count: %d\n", p.moveCount)
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
