package geom

import (
	"testing"

	"mapgen/prng"
)

func TestRoomShapeRatioSquareIsOne(t *testing.T) {
	r := roomFromBBox(0, 0, 3, 3)
	if got := r.ShapeRatio(); got != 1 {
		t.Fatalf("square shape ratio = %v, want 1", got)
	}
}

func TestRoomIsOneCellWide(t *testing.T) {
	strip := roomFromBBox(0, 0, 0, 4)
	if !strip.IsOneCellWide() {
		t.Fatal("1x5 strip should be one-cell-wide")
	}
	square := roomFromBBox(0, 0, 2, 2)
	if square.IsOneCellWide() {
		t.Fatal("3x3 square should not be one-cell-wide")
	}
}

func TestSubdividerProducesConnectedDoorTree(t *testing.T) {
	g := NewRoomPolygon(16, 16, 6, prng.New(21))
	sub, ok := NewRoomSubdivider(g, prng.New(22))
	if !ok {
		t.Fatal("expected a valid initial room from an occupied polygon grid")
	}

	rooms, conns := sub.DivideRoom(8, 0.5, 0.3, 100, 0)
	if len(rooms) == 0 {
		t.Fatal("expected at least one room after subdivision")
	}
	if len(rooms) > 1 && len(conns) < len(rooms)-1 {
		t.Fatalf("expected a spanning tree over %d rooms, got %d connections", len(rooms), len(conns))
	}

	for _, r := range rooms {
		if r.Area() == 0 {
			t.Fatal("subdivided room has zero area")
		}
	}
}

func TestMergeAdjacentOneCellWideRoomsCombinesStrips(t *testing.T) {
	a := roomFromBBox(0, 0, 0, 2) // 1x3 vertical strip
	b := roomFromBBox(0, 3, 0, 5) // adjacent 1x3 vertical strip
	sub := &RoomSubdivider{Rooms: []*Room{a, b}, rng: prng.New(1)}
	sub.MergeAdjacentOneCellWideRooms()

	if len(sub.Rooms) != 1 {
		t.Fatalf("expected adjacent one-cell-wide rooms to merge into one, got %d rooms", len(sub.Rooms))
	}
	if sub.Rooms[0].Area() != 6 {
		t.Fatalf("merged room area = %d, want 6", sub.Rooms[0].Area())
	}
}
