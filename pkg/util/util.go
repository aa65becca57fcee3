package util

import (
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// BitPackIntPair packs two int32 into one int64. a occupies the low 32 bits.
func BitPackIntPair(a int32, b int32) int64 {
	return int64(b)<<32 | int64(uint32(a))
}

func BitUnpackIntPair(packed int64) (int32, int32) {
	return int32(uint32(packed)), int32(packed >> 32)
}
