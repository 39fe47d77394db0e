package board

// DefaultSeed seeds DefaultHasher. Keeping it fixed makes hashes comparable
// across processes, so stored position histories stay valid.
const DefaultSeed uint64 = 0x98F107A2BEEF1234

// Hasher holds a Zobrist key table.
type Hasher struct {
	piece       [12][64]uint64 // [bitboard slot][Square]
	blackToMove uint64
	castling    [4]uint64 // K, Q, k, q
	enPassant   [8]uint64 // one per file
}

// DefaultHasher is built from DefaultSeed.
var DefaultHasher = NewHasher(DefaultSeed)

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewHasher generates a key table from seed. Equal seeds give equal tables.
func NewHasher(seed uint64) *Hasher {
	rng := newPRNG(seed)
	h := &Hasher{}

	for i := range h.piece {
		for sq := range h.piece[i] {
			h.piece[i][sq] = rng.next()
		}
	}

	h.blackToMove = rng.next()

	for i := range h.castling {
		h.castling[i] = rng.next()
	}

	for file := range h.enPassant {
		h.enPassant[file] = rng.next()
	}

	return h
}

// Hash fingerprints a position from its squares, side to move and rule flags.
func (h *Hasher) Hash(board [64]Piece, sideToMove Color, flags GameRuleFlags) uint64 {
	var hash uint64

	for sq, piece := range board {
		if idx, ok := piece.index(); ok {
			hash ^= h.piece[idx][sq]
		}
	}

	if sideToMove == Black {
		hash ^= h.blackToMove
	}

	if flags.CastlingAllowed(White, true) {
		hash ^= h.castling[0]
	}
	if flags.CastlingAllowed(White, false) {
		hash ^= h.castling[1]
	}
	if flags.CastlingAllowed(Black, true) {
		hash ^= h.castling[2]
	}
	if flags.CastlingAllowed(Black, false) {
		hash ^= h.castling[3]
	}

	if flags.EnPassant.IsValid() {
		hash ^= h.enPassant[flags.EnPassant.File()]
	}

	return hash
}

// Hash computes the position's fingerprint with h, or DefaultHasher when h is nil.
func (p *Position) Hash(h *Hasher) uint64 {
	if h == nil {
		h = DefaultHasher
	}
	return h.Hash(p.board, p.SideToMove(), p.flags)
}
