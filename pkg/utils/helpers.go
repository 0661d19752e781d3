package utils

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "2s", falling back to
// the given default on empty or malformed input.
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return duration
}

// nullMarkers are cell values treated as nulls on ingest, matching the
// usual CSV conventions for missing data.
var nullMarkers = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true, "none": true,
}

// ParseCell converts a raw CSV field into a typed cell: nil for null
// markers, int or float64 for numbers, the trimmed string otherwise.
func ParseCell(s string) interface{} {
	s = strings.TrimSpace(s)
	if nullMarkers[strings.ToLower(s)] {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Numeric converts supported cell types to float64, with ok=false for
// nulls and text.
func Numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Mean returns the arithmetic mean of xs; NaN when empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Std returns the sample standard deviation (n-1 denominator); NaN when
// fewer than two values.
func Std(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// Quantile returns the q-th quantile of xs using linear interpolation
// between closest ranks. NaN when empty.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median returns the middle value of xs; NaN when empty.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Mode returns the most frequent string in xs; ties break toward the
// lexicographically smallest value. ok=false when xs is empty.
func Mode(xs []string) (string, bool) {
	if len(xs) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, true
}

// Sanitize converts a result value into JSON-safe primitives: NaN and
// ±Inf collapse to nil, fixed-width numerics become native int/float, and
// nested maps and slices are walked recursively. Every result crossing the
// service boundary passes through here.
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		return Sanitize(float64(val))
	case int64:
		return int(val)
	case int32:
		return int(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = Sanitize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Sanitize(item)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Sanitize(item)
		}
		return out
	default:
		return v
	}
}
