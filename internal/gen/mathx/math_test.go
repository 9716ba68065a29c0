package mathx

import "testing"

func TestFloorDiv(t *testing.T) {
	cases := [][3]int{{7, 2, 3}, {-7, 2, -4}, {-4, 2, -2}, {0, 3, 0}}
	for _, c := range cases {
		if got := FloorDiv(c[0], c[1]); got != c[2] {
			t.Fatalf("FloorDiv(%d,%d) = %d, want %d", c[0], c[1], got, c[2])
		}
	}
}

func TestMod(t *testing.T) {
	if Mod(-1, 4) != 3 || Mod(5, 4) != 1 || Mod(0, 4) != 0 {
		t.Fatal("Mod")
	}
}

func TestHash2Deterministic(t *testing.T) {
	if Hash2(42, 3, -9) != Hash2(42, 3, -9) {
		t.Fatal("Hash2 not deterministic")
	}
	if Hash2(42, 3, -9) == Hash2(42, 3, -8) {
		t.Fatal("Hash2 collided on adjacent cells")
	}
	if Hash2(42, 3, -9) == Hash2(43, 3, -9) {
		t.Fatal("Hash2 ignored the seed")
	}
}
