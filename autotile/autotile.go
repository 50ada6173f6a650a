// Package autotile resolves an 8-bit tile-neighborhood bitmask to a
// local tile id within a scheme's tileset, reproducing the bitmask
// convention and scheme tables of original_source/tiled_master/
// framework/autotile.py and utils/ruletile/make_ruletile.py (spec.md
// §4.7).
//
// The original loads its bitmask→local_id tables from JSON files that
// are not part of the ported source tree. Rather than fabricate JSON
// assets, the tables here are *computed* arithmetically at package init
// (no match-pattern list is involved) from the standard 47/48/16-tile
// "blob" neighborhood conventions: a 4-bit
// cardinal shape crossed with, for every pair of adjacent cardinals
// that are both set, whether the corner between them is also filled.
package autotile

// Neighbor bit order: N, NE, E, SE, S, SW, W, NW (spec.md §4.7).
const (
	BitN = iota
	BitNE
	BitE
	BitSE
	BitS
	BitSW
	BitW
	BitNW
)

// Method names a neighborhood-resolution scheme.
type Method string

const (
	Tile48  Method = "tile48"
	Inner16 Method = "inner16"
	Blob47  Method = "blob47"
)

// cornerPair names one of the four adjacent-cardinal/corner triples a
// blob scheme distinguishes.
type cornerPair struct {
	cardinalA, cardinalB, diagonal int
}

var cornerPairs = [4]cornerPair{
	{BitN, BitE, BitNE},
	{BitE, BitS, BitSE},
	{BitS, BitW, BitSW},
	{BitW, BitN, BitNW},
}

// blobTable assigns a canonical, deterministic local id in [0, 46] to
// every one of the 256 possible neighborhood masks, using the standard
// 47-variant blob decomposition: 16 cardinal shapes, each expanded by
// 2^k where k is the number of adjacent-cardinal pairs both set, for
// whether the shared corner is also occupied.
var blobTable [256]int

// blobTileCount is the total number of distinct blob variants (47 by
// construction: sum over the 16 cardinal shapes of 2^pairs(shape)).
const blobTileCount = 47

func init() {
	// offset[pattern] = cumulative variant count of all cardinal
	// patterns enumerated before it, in pattern order 0..15.
	var offset [16]int
	next := 0
	for pattern := 0; pattern < 16; pattern++ {
		offset[pattern] = next
		next += 1 << activePairCount(pattern)
	}
	if next != blobTileCount {
		panic("autotile: blob table construction invariant violated")
	}

	for mask := 0; mask < 256; mask++ {
		pattern := cardinalPattern(mask)
		sub := cornerSubIndex(mask, pattern)
		blobTable[mask] = offset[pattern] + sub
	}
}

func bitSet(mask, bit int) bool { return mask&(1<<uint(bit)) != 0 }

// cardinalPattern packs N,E,S,W into a 4-bit value (bit0=N, bit1=E,
// bit2=S, bit3=W).
func cardinalPattern(mask int) int {
	p := 0
	if bitSet(mask, BitN) {
		p |= 1
	}
	if bitSet(mask, BitE) {
		p |= 2
	}
	if bitSet(mask, BitS) {
		p |= 4
	}
	if bitSet(mask, BitW) {
		p |= 8
	}
	return p
}

func activePairCount(pattern int) int {
	n := pattern&1 != 0
	e := pattern&2 != 0
	s := pattern&4 != 0
	w := pattern&8 != 0
	count := 0
	if n && e {
		count++
	}
	if e && s {
		count++
	}
	if s && w {
		count++
	}
	if w && n {
		count++
	}
	return count
}

// cornerSubIndex compacts the diagonal bits of only the active
// adjacent-cardinal pairs (in NE, SE, SW, NW order) into a dense index
// in [0, 2^activePairCount(pattern)).
func cornerSubIndex(mask, pattern int) int {
	n := pattern&1 != 0
	e := pattern&2 != 0
	s := pattern&4 != 0
	w := pattern&8 != 0
	active := [4]bool{n && e, e && s, s && w, w && n}

	sub := 0
	for _, pair := range []struct {
		active   bool
		diagBit  int
	}{
		{active[0], BitNE},
		{active[1], BitSE},
		{active[2], BitSW},
		{active[3], BitNW},
	} {
		if !pair.active {
			continue
		}
		sub <<= 1
		if bitSet(mask, pair.diagBit) {
			sub |= 1
		}
	}
	return sub
}

// Resolve returns the local id for mask under method, and false for
// mask 255 (the "interior, leave as base tile" sentinel, spec.md §4.7).
func Resolve(method Method, mask int) (int, bool) {
	if mask == 255 {
		return 0, false
	}
	return localID(method, mask), true
}

// BaseTileLocalID returns the local id used as the base/interior tile
// for method — the table entry for mask 255
// (autotile.py: AutoTile.get_base_tile_local_id).
func BaseTileLocalID(method Method) int {
	return localID(method, 255)
}

func localID(method Method, mask int) int {
	switch method {
	case Inner16:
		return cardinalPattern(mask)
	case Tile48, Blob47:
		return blobTable[mask]
	default:
		return blobTable[mask]
	}
}
