package game

// maxRemove is the number of pins a single throw can knock down.
const maxRemove = 2

// Kayles is a single contiguous row of bowling pins. A move knocks down one
// or two adjacent pins; knocking pins out of the middle of the row splits it
// into two independent rows.
type Kayles struct {
	Pins int
}

// NewKayles creates a row with the given number of pins.
func NewKayles(pins int) Kayles {
	return Kayles{Pins: pins}
}

// MaxNimber bounds the nimber by the pin count. The nimber of a row of n
// pins never exceeds n.
func (k Kayles) MaxNimber() (int, bool) {
	return k.Pins, true
}

// Parts reports that a row is atomic.
func (k Kayles) Parts() ([]Kayles, bool) {
	return nil, false
}

// SplitMoves enumerates every legal throw. For each removal count i the row
// can shrink from either end, which leaves a single row, or the pins can be
// taken from the inside, which leaves two rows. Splits are only generated up
// to the midpoint since (j, n-i-j) and (n-i-j, j) are the same position.
func (k Kayles) SplitMoves() [][]Kayles {
	var moves [][]Kayles

	// i is the number of pins removed from one end
	for i := 1; i <= min(k.Pins, maxRemove); i++ {
		moves = append(moves, []Kayles{{Pins: k.Pins - i}})
	}

	// i is the number of pins removed from the inside,
	// j the size of the left remainder
	for i := 1; i <= min(k.Pins-2, maxRemove); i++ {
		for j := 1; j <= (k.Pins-i)/2; j++ {
			moves = append(moves, []Kayles{
				{Pins: j},
				{Pins: k.Pins - i - j},
			})
		}
	}

	return moves
}
