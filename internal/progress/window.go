package progress

import (
	"math"
	"slices"
)

// window は直近 size 件の値を保持するリングバッファです。
type window struct {
	values []float64
	next   int
	full   bool
}

func newWindow(size int) *window {
	if size <= 0 {
		size = 1
	}
	return &window{values: make([]float64, 0, size)}
}

func (w *window) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !w.full {
		w.values = append(w.values, v)
		w.full = len(w.values) == cap(w.values)
		return
	}
	w.values[w.next] = v
	w.next = (w.next + 1) % len(w.values)
}

func (w *window) Len() int { return len(w.values) }

// Quantile interpolates linearly between the two closest ranks.
func (w *window) Quantile(q float64) float64 {
	if len(w.values) == 0 {
		return 0
	}
	sorted := slices.Clone(w.values)
	slices.Sort(sorted)
	switch {
	case q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
