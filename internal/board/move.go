package board

// MoveFlag tags the special kinds of move.
type MoveFlag uint8

// Move flags
const (
	FlagNormal MoveFlag = iota
	FlagCastling
	FlagEnPassant
	FlagPromotion
)

// Move describes a single move. Castling moves carry the rook's path so the
// mutator does not have to derive it. Promotion is resolved when the move is
// applied: a zero value means Queen.
type Move struct {
	From      Square
	To        Square
	Flag      MoveFlag
	RookFrom  Square
	RookTo    Square
	Promotion PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, RookFrom: NoSquare, RookTo: NoSquare}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, RookFrom: NoSquare, RookTo: NoSquare}
}

// NewPromotion creates a promotion move; the promoted kind is chosen at apply time.
func NewPromotion(from, to Square) Move {
	m := NewMove(from, to)
	m.Flag = FlagPromotion
	return m
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	m := NewMove(from, to)
	m.Flag = FlagEnPassant
	return m
}

// NewCastling creates a castling move with the king's and the rook's paths.
func NewCastling(from, to, rookFrom, rookTo Square) Move {
	return Move{From: from, To: to, Flag: FlagCastling, RookFrom: rookFrom, RookTo: rookTo}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flag == FlagPromotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag == FlagCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag == FlagEnPassant
}

// PromotionType returns the kind a promotion resolves to.
func (m Move) PromotionType() PieceType {
	switch m.Promotion {
	case Knight, Bishop, Rook, Queen:
		return m.Promotion
	default:
		return Queen
	}
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.From >= NoSquare || m.To >= NoSquare {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.PromotionType().Char())
	}
	return s
}

// QueryMode selects whether move generation honours whose turn it is.
type QueryMode uint8

const (
	// TurnChecked yields no moves for pieces of the side not to move.
	TurnChecked QueryMode = iota
	// Unchecked enumerates moves regardless of turn.
	Unchecked
)
