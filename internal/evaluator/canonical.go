package evaluator

import (
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/thyrook/grundy/internal/game"
)

// positionHash produces the stable key used to order and deduplicate
// positions. xxhash over the printed value is deterministic across runs and
// fast; canonicalization only needs a stable ordering, not uniformity.
func positionHash[G comparable](g G) uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%v", g)
	return d.Sum64()
}

// moveHash hashes a whole move alternative, element order included, so it
// must be applied to an already sorted part list.
func moveHash[G comparable](parts []G) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		fmt.Fprintf(d, "%v|", p)
	}
	return d.Sum64()
}

// removePairs sorts the parts of a move and cancels out equal pairs. Two
// identical subgames XOR to zero, so a run of L equal positions contributes
// the same nimber as L mod 2 copies; dropping the pairs shrinks both the
// recursion and the cache.
func removePairs[G comparable](parts []G) []G {
	sort.Slice(parts, func(i, j int) bool {
		return positionHash(parts[i]) < positionHash(parts[j])
	})

	read, write := 0, 0
	for read+1 < len(parts) {
		if parts[read] == parts[read+1] {
			read += 2
		} else {
			parts[write] = parts[read]
			read++
			write++
		}
	}
	if read < len(parts) {
		parts[write] = parts[read]
		write++
	}
	return parts[:write]
}

// moveMaxSum sums the max-nimber hints of a move's parts. ok=false when any
// part has no hint. The sum bounds the XOR of the part nimbers, so it ranks
// how small a witnessing nimber the move could produce.
func moveMaxSum[G game.Impartial[G]](parts []G) (int, bool) {
	total := 0
	for _, p := range parts {
		m, ok := p.MaxNimber()
		if !ok {
			return 0, false
		}
		total += m
	}
	return total, true
}

// canonicalizeMoves prepares the raw split-move list for the mex search:
// each alternative is sorted and pair-cancelled, duplicate alternatives are
// dropped, and the stack is ordered so that alternatives with the smallest
// summed max-nimber are popped first. Small witnesses rule out small mex
// candidates early. The hash ordering keeps eviction deterministic.
func canonicalizeMoves[G game.Impartial[G]](moves [][]G) [][]G {
	type keyedMove struct {
		parts []G
		hash  uint64
	}

	keyed := make([]keyedMove, 0, len(moves))
	for _, parts := range moves {
		canonical := removePairs(parts)
		keyed = append(keyed, keyedMove{parts: canonical, hash: moveHash(canonical)})
	}

	sort.Slice(keyed, func(i, j int) bool {
		return keyed[i].hash < keyed[j].hash
	})

	// Drop adjacent duplicates; equal alternatives hash equally and are
	// now adjacent.
	deduped := make([][]G, 0, len(keyed))
	for i, km := range keyed {
		if i > 0 && km.hash == keyed[i-1].hash && equalParts(km.parts, keyed[i-1].parts) {
			continue
		}
		deduped = append(deduped, km.parts)
	}

	// Highest summed bound first, so the stack pops the cheapest witnesses
	// first; alternatives without a bound sort as unbounded and pop last.
	sort.SliceStable(deduped, func(i, j int) bool {
		si, iok := moveMaxSum(deduped[i])
		sj, jok := moveMaxSum(deduped[j])
		if !iok {
			si = math.MaxInt
		}
		if !jok {
			sj = math.MaxInt
		}
		return si > sj
	})

	return deduped
}

// equalParts compares two already canonicalized part lists.
func equalParts[G comparable](a, b []G) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
