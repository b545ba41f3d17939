package features

import "math"

// Mean reduces vectors sharing schema into one vector of per-field means.
// NaN and infinite entries are left out of that field's denominator; a field
// with no usable entries, or an empty input, is zero.
func Mean(schema Schema, vectors []Vector) Vector {
	out := NewVector(schema)
	sums := make([]float64, len(schema))
	counts := make([]int, len(schema))

	for _, v := range vectors {
		for i, name := range schema {
			var x float64
			if v.Schema.Equal(schema) {
				x = v.Values[i]
			} else {
				got, ok := v.Get(name)
				if !ok {
					continue
				}
				x = got
			}
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			sums[i] += x
			counts[i]++
		}
	}

	for i := range schema {
		if counts[i] > 0 {
			out.Values[i] = sums[i] / float64(counts[i])
		}
	}
	return out
}

// Merge copies every field of src that dst's schema also names.
// Fields dst has but src lacks keep their current value.
func Merge(dst, src Vector) {
	for i, name := range src.Schema {
		_ = dst.Set(name, src.Values[i])
	}
}
