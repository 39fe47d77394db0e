package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// This is the standard way to verify move generation correctness. Children
// are played on scratch copies, so the position itself is never modified.
func (p *Position) Perft(depth int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}

	moves, err := p.AllLegalMoves(p.SideToMove(), TurnChecked)
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return uint64(len(moves)), nil
	}

	var nodes uint64
	for _, m := range moves {
		child := p.scratch()
		child.apply(m, p.board[m.From])
		n, err := child.Perft(depth - 1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// Divide returns the perft count below each root move, keyed by its
// coordinate string.
func (p *Position) Divide(depth int) (map[string]uint64, error) {
	moves, err := p.AllLegalMoves(p.SideToMove(), TurnChecked)
	if err != nil {
		return nil, err
	}

	result := make(map[string]uint64, len(moves))
	for _, m := range moves {
		child := p.scratch()
		child.apply(m, p.board[m.From])
		n, err := child.Perft(depth - 1)
		if err != nil {
			return nil, err
		}
		result[m.String()] += n
	}
	return result, nil
}
