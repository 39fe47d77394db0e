package board

// castlingPath describes one castling option: king and rook paths, the squares
// that must be empty and the squares the king must not be attacked on.
type castlingPath struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	between          []Square
	kingPassage      [3]Square
}

var castlingPaths = map[Color][2]castlingPath{
	White: {
		{kingFrom: E1, kingTo: G1, rookFrom: H1, rookTo: F1, between: []Square{F1, G1}, kingPassage: [3]Square{E1, F1, G1}},
		{kingFrom: E1, kingTo: C1, rookFrom: A1, rookTo: D1, between: []Square{D1, C1, B1}, kingPassage: [3]Square{E1, D1, C1}},
	},
	Black: {
		{kingFrom: E8, kingTo: G8, rookFrom: H8, rookTo: F8, between: []Square{F8, G8}, kingPassage: [3]Square{E8, F8, G8}},
		{kingFrom: E8, kingTo: C8, rookFrom: A8, rookTo: D8, between: []Square{D8, C8, B8}, kingPassage: [3]Square{E8, D8, C8}},
	},
}

func pathFor(c Color, kingSide bool) castlingPath {
	paths := castlingPaths[c]
	if kingSide {
		return paths[0]
	}
	return paths[1]
}

// PseudoLegalMoves generates the moves the piece on sq could make by shape
// alone; the result may leave the mover's king in check. With TurnChecked a
// piece of the side not to move yields nothing.
func (p *Position) PseudoLegalMoves(piece Piece, sq Square, mode QueryMode) []Move {
	if !piece.Valid() || !sq.IsValid() {
		return nil
	}
	if mode == TurnChecked && piece.Color() != p.SideToMove() {
		return nil
	}

	switch piece.Type() {
	case Bishop:
		return p.slidingMoves(sq, piece.Color(), diagonalDirs)
	case Rook:
		return p.slidingMoves(sq, piece.Color(), orthogonalDirs)
	case Queen:
		return p.slidingMoves(sq, piece.Color(), allDirs)
	case Knight:
		return p.stepMoves(sq, piece.Color(), knightAttacks[sq])
	case Pawn:
		return p.pawnMoves(sq, piece.Color())
	case King:
		moves := p.stepMoves(sq, piece.Color(), kingAttacks[sq])
		for _, kingSide := range []bool{true, false} {
			if p.CanCastle(piece.Color(), kingSide) {
				path := pathFor(piece.Color(), kingSide)
				moves = append(moves, NewCastling(path.kingFrom, path.kingTo, path.rookFrom, path.rookTo))
			}
		}
		return moves
	}
	return nil
}

// slidingMoves walks each ray until the edge or the first occupied square,
// which is included only when it holds an enemy piece.
func (p *Position) slidingMoves(from Square, us Color, dirs []int) []Move {
	var moves []Move
	for _, dir := range dirs {
		for _, to := range rays[dir][from] {
			occupant := p.board[to]
			if occupant == NoPiece {
				moves = append(moves, NewMove(from, to))
				continue
			}
			if occupant.Color() != us {
				moves = append(moves, NewMove(from, to))
			}
			break
		}
	}
	return moves
}

// stepMoves turns a fixed target table into moves, skipping own pieces.
func (p *Position) stepMoves(from Square, us Color, targets Bitboard) []Move {
	targets &^= p.occupancy(us)
	moves := make([]Move, 0, targets.PopCount())
	for targets != 0 {
		moves = append(moves, NewMove(from, targets.PopLSB()))
	}
	return moves
}

// pawnMoves generates pushes, captures, promotions and en passant.
func (p *Position) pawnMoves(from Square, us Color) []Move {
	var moves []Move
	dir := pawnDirection(us)
	startRow, lastRow, epRow := 6, 0, 3
	if us == Black {
		startRow, lastRow, epRow = 1, 7, 4
	}

	add := func(to Square) {
		if to.Row() == lastRow {
			moves = append(moves, NewPromotion(from, to))
		} else {
			moves = append(moves, NewMove(from, to))
		}
	}

	// Pushes
	if one, ok := from.Offset(0, dir); ok && p.IsEmpty(one) {
		add(one)
		if from.Row() == startRow {
			if two, ok := from.Offset(0, 2*dir); ok && p.IsEmpty(two) {
				moves = append(moves, NewMove(from, two))
			}
		}
	}

	// Captures
	for _, df := range []int{-1, 1} {
		to, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if occupant := p.board[to]; occupant != NoPiece && occupant.Color() != us {
			add(to)
		}
	}

	// En passant: the target is diagonally forward and the pawn that just
	// double-pushed stands beside us.
	ep := p.flags.EnPassant
	if ep.IsValid() && from.Row() == epRow && ep.Row() == epRow+dir && abs(ep.File()-from.File()) == 1 {
		victim := NewSquare(ep.File(), epRow)
		if p.board[victim] == NewPiece(Pawn, us.Other()) && p.IsEmpty(ep) {
			moves = append(moves, NewEnPassant(from, ep))
		}
	}

	return moves
}

// CanCastle reports whether c may castle on the given wing right now. The
// checks short-circuit in order: moved flags, empty squares between king and
// rook, both pieces on their home squares, and the king's passage unattacked.
// Flags are never changed here.
func (p *Position) CanCastle(c Color, kingSide bool) bool {
	if c != White && c != Black {
		return false
	}
	if !p.flags.CastlingAllowed(c, kingSide) {
		return false
	}

	path := pathFor(c, kingSide)
	for _, sq := range path.between {
		if !p.IsEmpty(sq) {
			return false
		}
	}

	if p.board[path.rookFrom] != NewPiece(Rook, c) || p.board[path.kingFrom] != NewPiece(King, c) {
		return false
	}

	them := c.Other()
	for _, sq := range path.kingPassage {
		if p.IsSquareAttacked(sq, them) {
			return false
		}
	}
	return true
}

// FilterLegal keeps the moves that do not leave movingColor's king attacked.
// Each candidate is played on a scratch copy; the live position is never touched.
func (p *Position) FilterLegal(moves []Move, movingColor Color) ([]Move, error) {
	legal := make([]Move, 0, len(moves))
	for _, m := range moves {
		ok, err := p.leavesKingSafe(m, movingColor)
		if err != nil {
			return nil, err
		}
		if ok {
			legal = append(legal, m)
		}
	}
	return legal, nil
}

// leavesKingSafe simulates m and reports whether movingColor's king survives it.
func (p *Position) leavesKingSafe(m Move, movingColor Color) (bool, error) {
	s := p.scratch()
	s.apply(m, p.board[m.From])
	ksq, err := s.KingSquare(movingColor)
	if err != nil {
		return false, err
	}
	return !s.IsSquareAttacked(ksq, movingColor.Other()), nil
}

// GenerateLegalMoves returns the legal moves of the piece on sq.
func (p *Position) GenerateLegalMoves(piece Piece, sq Square, mode QueryMode) ([]Move, error) {
	pseudo := p.PseudoLegalMoves(piece, sq, mode)
	if len(pseudo) == 0 {
		return nil, nil
	}
	return p.FilterLegal(pseudo, piece.Color())
}

// LegalMovesFrom returns the legal moves of whatever stands on sq, honouring the turn.
func (p *Position) LegalMovesFrom(sq Square) ([]Move, error) {
	return p.GenerateLegalMoves(p.PieceAt(sq), sq, TurnChecked)
}

// AllLegalMoves returns the legal moves of every piece of color c.
func (p *Position) AllLegalMoves(c Color, mode QueryMode) ([]Move, error) {
	var all []Move
	for sq := A8; sq <= H1; sq++ {
		piece := p.board[sq]
		if !piece.Is(c) {
			continue
		}
		moves, err := p.GenerateLegalMoves(piece, sq, mode)
		if err != nil {
			return nil, err
		}
		all = append(all, moves...)
	}
	return all, nil
}

// HasLegalMoves reports whether any piece of color c has a legal move.
// It ignores whose turn it is.
func (p *Position) HasLegalMoves(c Color) (bool, error) {
	for sq := A8; sq <= H1; sq++ {
		piece := p.board[sq]
		if !piece.Is(c) {
			continue
		}
		for _, m := range p.PseudoLegalMoves(piece, sq, Unchecked) {
			ok, err := p.leavesKingSafe(m, c)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}
