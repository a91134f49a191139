package game

// Impartial is the interface a game position implements to be evaluated.
// Positions are value types: comparable, usable as map keys, and cheap to
// copy. All methods are pure with respect to the receiver.
type Impartial[G comparable] interface {
	comparable

	// SplitMoves returns every legal move from this position. Each inner
	// slice holds the independent subgame positions the move leaves behind;
	// a move that splits a heap in two yields a slice of length two. A
	// terminal position returns an empty (or nil) outer slice.
	SplitMoves() [][]G

	// MaxNimber reports an upper bound on this position's nimber, if one is
	// cheaply known. A position that reports (m, true) guarantees its true
	// nimber does not exceed m.
	MaxNimber() (int, bool)

	// Parts decomposes a position that is itself a disjunctive sum of
	// independent positions. ok=false means the position is atomic and
	// should be evaluated as a whole.
	Parts() ([]G, bool)
}
