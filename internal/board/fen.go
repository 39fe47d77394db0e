package board

import (
	"strconv"
	"strings"
)

// StartPlacement is the piece-placement field of the starting position.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// ParsePlacement builds a position from a placement string. Only the first
// whitespace-separated field is read, so a full FEN string is accepted but its
// side-to-move, castling, en passant and clock fields are ignored: the result is
// White to move with default flags. Any malformed character or rank fails the
// whole import.
func ParsePlacement(s string) (*Position, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, &PlacementError{Rank: 8, Reason: "empty placement"}
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, &PlacementError{Rank: 8, Reason: "need 8 ranks, got " + strconv.Itoa(len(ranks))}
	}

	pos := EmptyPosition()
	for row, rankStr := range ranks {
		rank := 8 - row
		file := 0

		for col, c := range rankStr {
			if file > 7 {
				return nil, &PlacementError{Rank: rank, Column: col, Char: c, Reason: "too many squares"}
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				if file > 8 {
					return nil, &PlacementError{Rank: rank, Column: col, Char: c, Reason: "too many squares"}
				}
				continue
			}

			piece := NoPiece
			if c < 0x80 {
				piece = PieceFromChar(byte(c))
			}
			if piece == NoPiece {
				return nil, &PlacementError{Rank: rank, Column: col, Char: c, Reason: "unknown piece character"}
			}
			if err := pos.setPiece(NewSquare(file, row), piece); err != nil {
				return nil, &PlacementError{Rank: rank, Column: col, Char: c, Reason: err.Error()}
			}
			file++
		}

		if file != 8 {
			return nil, &PlacementError{Rank: rank, Reason: "need 8 squares, got " + strconv.Itoa(file)}
		}
	}

	return pos, nil
}

// Placement returns the piece-placement field for the position.
func (p *Position) Placement() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.board[NewSquare(file, row)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}
