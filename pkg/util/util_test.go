package util

import (
	"testing"
)

func TestRoundFloat(t *testing.T) {
	if got := RoundFloat(6.666666, 2); got != 6.67 {
		t.Errorf("RoundFloat(6.666666, 2) = %f, want 6.67", got)
	}
	if got := RoundFloat(15.0, 2); got != 15.0 {
		t.Errorf("RoundFloat(15.0, 2) = %f, want 15.0", got)
	}
	if got := RoundFloat(-2.346, 2); got != -2.35 {
		t.Errorf("RoundFloat(-2.346, 2) = %f, want -2.35", got)
	}
}

func TestReverseG(t *testing.T) {
	arr := []int{1, 2, 3, 4, 5}
	rev := ReverseG(arr)
	for i := 0; i < len(arr); i++ {
		if rev[i] != arr[len(arr)-1-i] {
			t.Errorf("Error in reverse")
		}
	}
	if arr[0] != 1 {
		t.Errorf("ReverseG must not mutate its input")
	}
}

func TestBitPackIntPair(t *testing.T) {
	cases := [][2]int32{
		{0, 0},
		{1, 2},
		{2147483647, 2147483647},
		{125, 2147483647},
		{2147483647, 0},
	}
	for _, c := range cases {
		packed := BitPackIntPair(c[0], c[1])
		a, b := BitUnpackIntPair(packed)
		if a != c[0] || b != c[1] {
			t.Errorf("bitpack roundtrip failed for (%d,%d), got (%d,%d)", c[0], c[1], a, b)
		}
	}

	if BitPackIntPair(1, 2) == BitPackIntPair(2, 1) {
		t.Errorf("packed key must be order sensitive")
	}
}
