package prng

import "testing"

func TestStableHashDeterministic(t *testing.T) {
	a := StableHash("map-1")
	b := StableHash("map-1")
	if a != b {
		t.Fatalf("StableHash not deterministic: %d != %d", a, b)
	}
	c := StableHash("map-2")
	if a == c {
		t.Fatalf("StableHash collided for distinct inputs")
	}
}

func TestStableHashKnownValue(t *testing.T) {
	// SHA-256("") = e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
	// first 8 bytes big-endian: e3b0c44298fc1c14
	got := StableHash("")
	want := uint64(0xe3b0c44298fc1c14)
	if got != want {
		t.Fatalf("StableHash(\"\") = %x, want %x", got, want)
	}
}

func TestSourceReproducibility(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		va := a.Intn(1 << 30)
		vb := b.Intn(1 << 30)
		if va != vb {
			t.Fatalf("sequences diverged at draw %d: %d != %d", i, va, vb)
		}
	}
}

func TestSourceSnapshotRestore(t *testing.T) {
	s := New(7)
	for i := 0; i < 10; i++ {
		s.Intn(100)
	}
	snap := s.Snapshot()
	first := make([]int, 20)
	for i := range first {
		first[i] = s.Intn(1000)
	}

	s.Restore(snap)
	second := make([]int, 20)
	for i := range second {
		second[i] = s.Intn(1000)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("restored sequence diverged at %d: %d != %d", i, first[i], second[i])
		}
	}
}

func TestSourceDeriveIsStable(t *testing.T) {
	base := New(StableHash("t1"))
	a := base.Derive("attempt:0")
	b := New(StableHash("t1")).Derive("attempt:0")
	if a.Intn(1000) != b.Intn(1000) {
		t.Fatalf("derived sources should match for the same lineage and discriminator")
	}
}

func TestWeightedChoiceDistribution(t *testing.T) {
	s := New(1)
	counts := make([]int, 3)
	weights := []int{1, 0, 3}
	for i := 0; i < 400; i++ {
		counts[s.WeightedChoice(weights)]++
	}
	if counts[1] != 0 {
		t.Fatalf("zero-weight bucket was chosen %d times", counts[1])
	}
	if counts[0] == 0 || counts[2] == 0 {
		t.Fatalf("expected both nonzero-weight buckets to be chosen, got %v", counts)
	}
}
