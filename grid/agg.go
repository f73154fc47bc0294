package grid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AggFunc reduces a group of pixel values to one. NaN inputs are ignored and
// an all-NaN group reduces to NaN.
type AggFunc func(...float64) float64

func valid(inData []float64) []float64 {
	out := make([]float64, 0, len(inData))
	for _, v := range inData {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func Mean(inData ...float64) float64 {
	vals := valid(inData)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

func Sum(inData ...float64) float64 {
	vals := valid(inData)
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Sum(vals)
}

func Max(inData ...float64) float64 {
	vals := valid(inData)
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Max(vals)
}

func Min(inData ...float64) float64 {
	vals := valid(inData)
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Min(vals)
}

// Mode returns the most frequent value, the majority class of a categorical
// block. Ties go to the lowest value.
func Mode(inData ...float64) float64 {
	vals := valid(inData)
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	mode, best := vals[0], 0
	for i := 0; i < len(vals); {
		j := i
		for j < len(vals) && vals[j] == vals[i] {
			j++
		}
		if j-i > best {
			mode, best = vals[i], j-i
		}
		i = j
	}
	return mode
}
