package board

// Color represents the color of a piece or player.
// The two colors are mutually exclusive high bits of a Piece.
type Color uint8

const (
	NoColor Color = 0
	White   Color = 8
	Black   Color = 16

	colorMask = uint8(White | Black)
)

// Other returns the opposite color. NoColor stays NoColor.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece, stored in the low 3 bits of a Piece.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	typeMask = uint8(7)
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the placement character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt > King {
		return ' '
	}
	return " pnbrqk"[pt]
}

// Piece combines PieceType and Color into a single value: kind | color.
type Piece uint8

const (
	NoPiece Piece = 0

	WhitePawn   = Piece(uint8(Pawn) | uint8(White))
	WhiteKnight = Piece(uint8(Knight) | uint8(White))
	WhiteBishop = Piece(uint8(Bishop) | uint8(White))
	WhiteRook   = Piece(uint8(Rook) | uint8(White))
	WhiteQueen  = Piece(uint8(Queen) | uint8(White))
	WhiteKing   = Piece(uint8(King) | uint8(White))
	BlackPawn   = Piece(uint8(Pawn) | uint8(Black))
	BlackKnight = Piece(uint8(Knight) | uint8(Black))
	BlackBishop = Piece(uint8(Bishop) | uint8(Black))
	BlackRook   = Piece(uint8(Rook) | uint8(Black))
	BlackQueen  = Piece(uint8(Queen) | uint8(Black))
	BlackKing   = Piece(uint8(King) | uint8(Black))
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || pt > King || (c != White && c != Black) {
		return NoPiece
	}
	return Piece(uint8(pt) | uint8(c))
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	return PieceType(uint8(p) & typeMask)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	return Color(uint8(p) & colorMask)
}

// Valid reports whether p is exactly one kind+color pair.
func (p Piece) Valid() bool {
	if uint8(p)&^(typeMask|colorMask) != 0 {
		return false
	}
	c := p.Color()
	pt := p.Type()
	return (c == White || c == Black) && pt >= Pawn && pt <= King
}

// Is reports whether the piece has the given color.
func (p Piece) Is(c Color) bool {
	return p != NoPiece && p.Color() == c
}

// String returns the placement character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if !p.Valid() {
		return " "
	}
	ch := p.Type().Char()
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a placement character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// index returns the bitboard slot for the piece: (kind-1) + 6 for black.
func (p Piece) index() (int, bool) {
	if !p.Valid() {
		return 0, false
	}
	idx := int(p.Type()) - 1
	if p.Color() == Black {
		idx += 6
	}
	return idx, true
}

// allPieces lists the twelve valid pieces in bitboard slot order.
var allPieces = [12]Piece{
	WhitePawn, WhiteKnight, WhiteBishop, WhiteRook, WhiteQueen, WhiteKing,
	BlackPawn, BlackKnight, BlackBishop, BlackRook, BlackQueen, BlackKing,
}
