package vector

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// ErrDimensionMismatch is returned when vector dimensions don't match
var ErrDimensionMismatch = fmt.Errorf("vector dimensions mismatch")

// Metric represents the type of distance calculation
type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricCosine    Metric = "cosine"
	MetricDot       Metric = "dot_product"
)

// ParseMetric converts a metric name to a Metric.
// Returns an error for unrecognized names so callers can reject bad input
// instead of silently falling back to a default.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricEuclidean, MetricCosine, MetricDot:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown distance metric %q", s)
	}
}

// CosineSimilarity calculates the cosine similarity between two vectors
// Returns a value between -1 (opposite) and 1 (identical)
// Formula: (a . b) / (||a|| * ||b||)
// Zero vectors have no direction, so similarity against them is 0.
// Returns error if vector dimensions don't match
func CosineSimilarity[F constraints.Float](a, b []F) (F, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dotProd, normA, normB F
	for i := 0; i < len(a); i++ {
		dotProd += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProd / (F(math.Sqrt(float64(normA))) * F(math.Sqrt(float64(normB)))), nil
}

// CosineDistance calculates the cosine distance between two vectors
// Returns a value between 0 (identical) and 2 (opposite)
// Formula: 1 - cosine_similarity(a, b)
// Returns error if vector dimensions don't match
func CosineDistance[F constraints.Float](a, b []F) (F, error) {
	sim, err := CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return 1.0 - sim, nil
}

// EuclideanDistance calculates the Euclidean (L2) distance between two vectors
// Formula: sqrt(sum((a[i] - b[i])^2))
// Returns error if vector dimensions don't match
func EuclideanDistance[F constraints.Float](a, b []F) (F, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var sum F
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return F(math.Sqrt(float64(sum))), nil
}

// DotProduct calculates the dot product of two vectors
// Formula: sum(a[i] * b[i])
// Returns error if vector dimensions don't match
func DotProduct[F constraints.Float](a, b []F) (F, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var result F
	for i := 0; i < len(a); i++ {
		result += a[i] * b[i]
	}

	return result, nil
}

// Residual calculates the pointwise difference live - predicted.
// Returns error if vector dimensions don't match
func Residual[F constraints.Float](live, predicted []F) ([]F, error) {
	if len(live) != len(predicted) {
		return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(live), len(predicted))
	}

	result := make([]F, len(live))
	for i := 0; i < len(live); i++ {
		result[i] = live[i] - predicted[i]
	}

	return result, nil
}

// Norm calculates the magnitude (L2 norm) of a vector
func Norm[F constraints.Float](v []F) F {
	var sum F
	for _, val := range v {
		sum += val * val
	}
	return F(math.Sqrt(float64(sum)))
}

// MaxAbs returns the largest absolute element of a vector, 0 for empty input
func MaxAbs[F constraints.Float](v []F) F {
	var max F
	for _, val := range v {
		abs := val
		if abs < 0 {
			abs = -abs
		}
		if abs > max {
			max = abs
		}
	}
	return max
}

// Distance calculates the distance between two vectors using the specified metric
// Returns error if vector dimensions don't match
func Distance[F constraints.Float](a, b []F, metric Metric) (F, error) {
	switch metric {
	case MetricCosine:
		return CosineDistance(a, b)
	case MetricEuclidean:
		return EuclideanDistance(a, b)
	case MetricDot:
		// For dot product, we negate to make "closer" values smaller
		// (since we typically want to minimize distance)
		dot, err := DotProduct(a, b)
		if err != nil {
			return 0, err
		}
		return -dot, nil
	default:
		// Default to euclidean distance
		return EuclideanDistance(a, b)
	}
}
