package logits

import "math"

// Softmax returns the probability distribution over x scaled by 1/temp.
// A temperature <= 0 is treated as 1. The largest value is subtracted
// before exponentiation for numerical stability.
func Softmax(x []float32, temp float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	invTemp := invTemperature(temp)
	maxv := float64(x[Argmax(x)]) * invTemp

	var sum float64
	for i, v := range x {
		e := math.Exp(float64(v)*invTemp - maxv)
		out[i] = e
		sum += e
	}
	if sum == 0 {
		return out
	}
	invSum := 1.0 / sum
	for i := range out {
		out[i] *= invSum
	}
	return out
}

// LogSoftmax returns log(softmax(x/temp)) computed with the log-sum-exp
// trick, so very negative logits do not underflow to -Inf.
func LogSoftmax(x []float32, temp float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	invTemp := invTemperature(temp)
	maxv := float64(x[Argmax(x)]) * invTemp

	var sum float64
	for _, v := range x {
		sum += math.Exp(float64(v)*invTemp - maxv)
	}
	logZ := maxv + math.Log(sum)
	for i, v := range x {
		out[i] = float64(v)*invTemp - logZ
	}
	return out
}

func invTemperature(temp float64) float64 {
	if temp <= 0 {
		return 1
	}
	return 1 / temp
}

// Argmax returns the index of the maximum value in the slice. Ties resolve
// to the lowest index. If the slice is empty it panics.
func Argmax[T float32 | float64](x []T) int {
	if len(x) == 0 {
		panic("argmax: empty slice")
	}
	bestI := 0
	bestV := x[0]
	for i := 1; i < len(x); i++ {
		if x[i] > bestV {
			bestV = x[i]
			bestI = i
		}
	}
	return bestI
}

// TopK returns the indices of the k largest elements of x, ordered from
// largest to smallest. Equal values keep their original relative order, so
// the first-seen index wins a tie. This is an O(N*K) insertion scheme
// suitable for the small k used in decoding.
func TopK[T float32 | float64](x []T, k int) []int {
	if k <= 0 || len(x) == 0 {
		return nil
	}
	k = min(k, len(x))
	idx := make([]int, 0, k+1)

	for i, v := range x {
		pos := len(idx)
		// Strict comparison keeps earlier indices ahead of later equal ones.
		for pos > 0 && x[idx[pos-1]] < v {
			pos--
		}
		if pos >= k {
			continue
		}
		idx = append(idx, 0)
		copy(idx[pos+1:], idx[pos:])
		idx[pos] = i
		if len(idx) > k {
			idx = idx[:k]
		}
	}
	return idx
}
