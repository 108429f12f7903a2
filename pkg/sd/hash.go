package sd

import (
	"sort"
	"strings"

	"github.com/herculas/vc-suite-ecdsa/pkg/digest"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// orderedIndexes returns quads' absolute indexes in ascending order.
func orderedIndexes(quads map[int]Quad) []int {
	indexes := make([]int, 0, len(quads))
	for idx := range quads {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

// orderedNQuads renders quads (keyed by absolute index) as canonical
// N-Quads lines in ascending index order.
func orderedNQuads(quads map[int]Quad) []string {
	indexes := orderedIndexes(quads)
	lines := make([]string, len(indexes))
	for i, idx := range indexes {
		lines[i] = quads[idx].String()
	}
	return lines
}

// hashMandatoryNQuads implements spec.md §4.5.1 step 5 / §4.5.3 step 5: join
// the given N-Quads lines (already in ascending index order) with trailing
// newlines as a canonical N-Quads document would be, then take one digest
// over the joined bytes.
func hashMandatoryNQuads(nQuads []string, c curve.Curve) ([]byte, error) {
	var joined strings.Builder
	for _, line := range nQuads {
		joined.WriteString(line)
		joined.WriteByte('\n')
	}
	return digest.Digest(c, []byte(joined.String()))
}
