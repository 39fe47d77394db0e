package board

// Status is the overall verdict for a position.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawFiftyMove
	DrawThreefold
	DrawInsufficientMaterial
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawFiftyMove:
		return "fifty-move rule"
	case DrawThreefold:
		return "threefold repetition"
	case DrawInsufficientMaterial:
		return "insufficient material"
	default:
		return "ongoing"
	}
}

// IsDraw reports whether the status ends the game without a winner.
func (s Status) IsDraw() bool {
	return s == Stalemate || s == DrawFiftyMove || s == DrawThreefold || s == DrawInsufficientMaterial
}

// Outcome holds every end-of-game test for the side to move. All five are
// computed; Status picks one with move-based verdicts ahead of the draws.
type Outcome struct {
	Status Status

	Checkmate            bool
	Stalemate            bool
	FiftyMove            bool
	Threefold            bool
	InsufficientMaterial bool

	// Loser is the checkmated side, NoColor otherwise.
	Loser Color
}

// Winner returns the side that delivered mate, or NoColor.
func (o Outcome) Winner() Color {
	return o.Loser.Other()
}

// Over reports whether the game has ended.
func (o Outcome) Over() bool {
	return o.Status != Ongoing
}

// Evaluate runs every outcome test for the side to move.
func (p *Position) Evaluate() (Outcome, error) {
	side := p.SideToMove()

	hasMoves, err := p.HasLegalMoves(side)
	if err != nil {
		return Outcome{}, err
	}
	inCheck, err := p.IsKingInCheck(side)
	if err != nil {
		return Outcome{}, err
	}

	o := Outcome{
		Checkmate:            !hasMoves && inCheck,
		Stalemate:            !hasMoves && !inCheck,
		FiftyMove:            p.IsDrawFiftyMove(),
		Threefold:            p.IsDrawThreefold(),
		InsufficientMaterial: p.IsDrawInsufficientMaterial(),
	}

	switch {
	case o.Checkmate:
		o.Status = Checkmate
		o.Loser = side
	case o.Stalemate:
		o.Status = Stalemate
	case o.FiftyMove:
		o.Status = DrawFiftyMove
	case o.Threefold:
		o.Status = DrawThreefold
	case o.InsufficientMaterial:
		o.Status = DrawInsufficientMaterial
	}
	return o, nil
}

// IsCheckmated reports whether c has no legal move while its king is attacked.
// Whose turn it is does not matter.
func (p *Position) IsCheckmated(c Color) (bool, error) {
	hasMoves, err := p.HasLegalMoves(c)
	if err != nil || hasMoves {
		return false, err
	}
	return p.IsKingInCheck(c)
}

// IsStalemated reports whether c has no legal move and is not in check.
func (p *Position) IsStalemated(c Color) (bool, error) {
	hasMoves, err := p.HasLegalMoves(c)
	if err != nil || hasMoves {
		return false, err
	}
	inCheck, err := p.IsKingInCheck(c)
	if err != nil {
		return false, err
	}
	return !inCheck, nil
}

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() (bool, error) {
	return p.IsCheckmated(p.SideToMove())
}

// IsStalemate returns true if the side to move is stalemated.
func (p *Position) IsStalemate() (bool, error) {
	return p.IsStalemated(p.SideToMove())
}

// IsDrawFiftyMove checks the 50-move rule.
func (p *Position) IsDrawFiftyMove() bool {
	return p.flags.HalfMoveClock >= 100
}

// IsDrawThreefold reports whether any recorded hash occurs three times.
// Fewer than five entries can never hold a repetition.
func (p *Position) IsDrawThreefold() bool {
	if len(p.history) < 5 {
		return false
	}
	counts := make(map[uint64]int, len(p.history))
	for _, h := range p.history {
		counts[h]++
		if counts[h] >= 3 {
			return true
		}
	}
	return false
}

// IsDrawInsufficientMaterial checks for king-only endings, a lone minor piece,
// two knights of one side, or bishops that all stand on one square color.
func (p *Position) IsDrawInsufficientMaterial() bool {
	var all Bitboard
	for _, piece := range allPieces {
		if piece.Type() != King {
			all |= p.pieceBB(piece)
		}
	}

	n := all.PopCount()
	if n == 0 {
		return true
	}
	if n > 3 {
		return false
	}

	knights := p.pieceBB(WhiteKnight) | p.pieceBB(BlackKnight)
	bishops := p.pieceBB(WhiteBishop) | p.pieceBB(BlackBishop)

	if n == 1 {
		return all&(knights|bishops) != 0
	}
	if n == 2 && (all == p.pieceBB(WhiteKnight) || all == p.pieceBB(BlackKnight)) {
		return true
	}

	if all == bishops {
		light := all & LightSquares
		return light == 0 || light == all
	}
	return false
}
