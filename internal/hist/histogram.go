package hist

import "math"

// NumBuckets is the number of histogram bins, one per whole-star rating.
const NumBuckets = 5

// Vector holds per-bucket rating counts. Bin i counts ratings of exactly
// i+1 stars.
type Vector [NumBuckets]int

// Total returns the number of ratings counted across all buckets.
func (v Vector) Total() int {
	total := 0
	for _, count := range v {
		total += count
	}
	return total
}

// Add returns the element-wise sum of two vectors.
func (v Vector) Add(other Vector) Vector {
	for i := range other {
		v[i] += other[i]
	}
	return v
}

// Bucket maps a rating value to its bin index. Half-star and out-of-range
// values do not count and report ok=false.
func Bucket(value float64) (int, bool) {
	if value != math.Trunc(value) {
		return 0, false
	}
	star := int(value)
	if star < 1 || star > NumBuckets {
		return 0, false
	}
	return star - 1, true
}

// Histogram accumulates per-movie rating count vectors.
type Histogram struct {
	counts map[int64]*Vector
}

func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[int64]*Vector)}
}

// Add increments the given bucket for a movie.
func (h *Histogram) Add(movieID int64, bucket int) {
	vector, ok := h.counts[movieID]
	if !ok {
		vector = &Vector{}
		h.counts[movieID] = vector
	}
	vector[bucket]++
}

// Merge folds another histogram into this one element-wise.
func (h *Histogram) Merge(other *Histogram) {
	for movieID, theirs := range other.counts {
		vector, ok := h.counts[movieID]
		if !ok {
			vector = &Vector{}
			h.counts[movieID] = vector
		}
		for i := range theirs {
			vector[i] += theirs[i]
		}
	}
}

// Vector returns the accumulated counts for a movie.
func (h *Histogram) Vector(movieID int64) (Vector, bool) {
	vector, ok := h.counts[movieID]
	if !ok {
		return Vector{}, false
	}
	return *vector, true
}

// Len returns the number of movies with at least one counted rating.
func (h *Histogram) Len() int {
	return len(h.counts)
}

// SumAll returns the element-wise sum of every vector, i.e. the hist_all
// entry of the output object.
func SumAll(vectors map[string]Vector) Vector {
	var total Vector
	for _, vector := range vectors {
		total = total.Add(vector)
	}
	return total
}
