package autotile

import "testing"

func TestResolveMask255IsInteriorSentinel(t *testing.T) {
	if _, ok := Resolve(Blob47, 255); ok {
		t.Fatal("mask 255 should resolve as the interior sentinel (ok=false)")
	}
}

func TestBlobTableHas47DistinctIDs(t *testing.T) {
	seen := make(map[int]struct{})
	for mask := 0; mask < 256; mask++ {
		seen[localID(Blob47, mask)] = struct{}{}
	}
	if len(seen) != blobTileCount {
		t.Fatalf("blob table produced %d distinct ids, want %d", len(seen), blobTileCount)
	}
	for id := range seen {
		if id < 0 || id >= blobTileCount {
			t.Fatalf("id %d out of range [0, %d)", id, blobTileCount)
		}
	}
}

func TestInner16IgnoresDiagonals(t *testing.T) {
	// N+E set, differing only by diagonal bits, must resolve identically.
	maskA := 1<<BitN | 1<<BitE
	maskB := maskA | 1<<BitNE | 1<<BitSW
	if localID(Inner16, maskA) != localID(Inner16, maskB) {
		t.Fatal("inner16 must ignore diagonal bits")
	}
}

func TestCrossPatternTipsResolveToEndCaps(t *testing.T) {
	// A lone cardinal neighbor (e.g. only S set) is the classic "end cap"
	// shape in a blob scheme: none of the four pair slots is active (no
	// adjacent cardinal is set), so its variant count is 1.
	southOnly := 1 << BitS
	id := localID(Blob47, southOnly)
	// The south-only pattern has zero active corner pairs, so it must
	// be a unique non-shared id relative to the all-neighbors-set mask.
	if id == localID(Blob47, 255) {
		t.Fatal("end-cap mask should not collide with the full-interior mask")
	}
}

func TestBaseTileLocalIDMatchesMask255(t *testing.T) {
	if BaseTileLocalID(Blob47) != localID(Blob47, 255) {
		t.Fatal("BaseTileLocalID must equal the table entry for mask 255")
	}
}
