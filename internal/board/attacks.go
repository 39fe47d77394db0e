package board

// Direction indices. The first four are orthogonal, the last four diagonal.
const (
	dirNorth = iota
	dirSouth
	dirEast
	dirWest
	dirNorthEast
	dirNorthWest
	dirSouthEast
	dirSouthWest
)

// directionDelta holds (file, row) steps; north is toward row 0 (the 8th rank).
var directionDelta = [8][2]int{
	{0, -1}, {0, 1}, {1, 0}, {-1, 0},
	{1, -1}, {-1, -1}, {1, 1}, {-1, 1},
}

var (
	orthogonalDirs = []int{dirNorth, dirSouth, dirEast, dirWest}
	diagonalDirs   = []int{dirNorthEast, dirNorthWest, dirSouthEast, dirSouthWest}
	allDirs        = []int{dirNorth, dirSouth, dirEast, dirWest, dirNorthEast, dirNorthWest, dirSouthEast, dirSouthWest}
)

var knightDeltas = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

// Pre-computed tables, all built from file/row coordinates so nothing wraps
// around a board edge.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [colorIndex][Square]: squares a pawn on Square attacks

	// rays[dir][sq] lists the squares from sq toward the edge, nearest first.
	rays [8][64][]Square
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initRays()
}

func initKnightAttacks() {
	for sq := A8; sq <= H1; sq++ {
		var attacks Bitboard
		for _, d := range knightDeltas {
			if to, ok := sq.Offset(d[0], d[1]); ok {
				attacks = attacks.Set(to)
			}
		}
		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A8; sq <= H1; sq++ {
		var attacks Bitboard
		for _, d := range directionDelta {
			if to, ok := sq.Offset(d[0], d[1]); ok {
				attacks = attacks.Set(to)
			}
		}
		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := A8; sq <= H1; sq++ {
		for _, c := range []Color{White, Black} {
			dr := pawnDirection(c)
			var attacks Bitboard
			for _, df := range []int{-1, 1} {
				if to, ok := sq.Offset(df, dr); ok {
					attacks = attacks.Set(to)
				}
			}
			pawnAttacks[colorIndex(c)][sq] = attacks
		}
	}
}

func initRays() {
	for dir, d := range directionDelta {
		for sq := A8; sq <= H1; sq++ {
			var ray []Square
			to, ok := sq.Offset(d[0], d[1])
			for ok {
				ray = append(ray, to)
				to, ok = to.Offset(d[0], d[1])
			}
			rays[dir][sq] = ray
		}
	}
}

// pawnDirection returns the row step of a pawn push: White moves toward row 0.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func colorIndex(c Color) int {
	if c == Black {
		return 1
	}
	return 0
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[colorIndex(c)][sq]
}

// IsSquareAttacked returns true if the square is attacked by the given color.
// It never consults the move generator, so castling and legality checks can
// call it freely.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	if !sq.IsValid() || (byColor != White && byColor != Black) {
		return false
	}

	// A pawn of byColor attacks sq iff a pawn of the other color on sq
	// would attack that pawn's square.
	if pawnAttacks[colorIndex(byColor.Other())][sq]&p.pieceBB(NewPiece(Pawn, byColor)) != 0 {
		return true
	}

	if knightAttacks[sq]&p.pieceBB(NewPiece(Knight, byColor)) != 0 {
		return true
	}

	if kingAttacks[sq]&p.pieceBB(NewPiece(King, byColor)) != 0 {
		return true
	}

	if p.rayAttacked(sq, byColor, orthogonalDirs, Rook) {
		return true
	}
	return p.rayAttacked(sq, byColor, diagonalDirs, Bishop)
}

// rayAttacked casts each ray from sq and tests the first occupant for a
// slider of byColor (the given kind or a queen).
func (p *Position) rayAttacked(sq Square, byColor Color, dirs []int, slider PieceType) bool {
	for _, dir := range dirs {
		for _, to := range rays[dir][sq] {
			occupant := p.board[to]
			if occupant == NoPiece {
				continue
			}
			if occupant.Color() == byColor {
				if pt := occupant.Type(); pt == slider || pt == Queen {
					return true
				}
			}
			break
		}
	}
	return false
}

// IsKingInCheck reports whether the king of color c is attacked.
func (p *Position) IsKingInCheck(c Color) (bool, error) {
	ksq, err := p.KingSquare(c)
	if err != nil {
		return false, err
	}
	return p.IsSquareAttacked(ksq, c.Other()), nil
}
