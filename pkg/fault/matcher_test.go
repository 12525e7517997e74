package fault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaic-labs/sigraph/pkg/signature"
	"github.com/voltaic-labs/sigraph/pkg/vector"
)

func libraryWith(t *testing.T, sigs ...signature.Signature) *signature.Library {
	t.Helper()
	lib := signature.NewLibrary()
	for _, sig := range sigs {
		lib.Add(sig)
	}
	return lib
}

func TestMatchSelfIsNotAFault(t *testing.T) {
	lib := libraryWith(t, signature.Signature{
		Label:  "baseline",
		Values: []float64{0, 0.5, 1.0},
	})

	report, err := NewMatcher(nil).Match([]float64{0, 0.5, 1.0}, lib, vector.MetricEuclidean, 0.05)
	require.NoError(t, err)

	assert.Equal(t, "baseline", report.SignatureLabel)
	assert.Equal(t, 0.0, report.Score)
	assert.Equal(t, []float64{0, 0, 0}, report.Residual)
	assert.Equal(t, 0.0, report.ResidualScore)
	assert.False(t, report.ProbableFault)
}

func TestMatchPerturbedVectorFlagsFault(t *testing.T) {
	lib := libraryWith(t, signature.Signature{
		Label:  "baseline",
		Values: []float64{0, 0.5, 1.0},
	})

	report, err := NewMatcher(nil).Match([]float64{0, 0.5, 1.2}, lib, vector.MetricEuclidean, 0.05)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, report.ResidualScore, 1e-9)
	assert.InDelta(t, 0.2/3, report.MeanResidual, 1e-9)
	assert.True(t, report.ProbableFault)
	require.Len(t, report.Residual, 3)
	assert.InDelta(t, 0.2, report.Residual[2], 1e-9)
}

func TestMatchEuclideanPicksNearest(t *testing.T) {
	lib := libraryWith(t,
		signature.Signature{Label: "far", Values: []float64{10, 10, 10}},
		signature.Signature{Label: "near", Values: []float64{1, 1, 1.1}},
		signature.Signature{Label: "farther", Values: []float64{-5, -5, -5}},
	)

	report, err := NewMatcher(nil).Match([]float64{1, 1, 1}, lib, vector.MetricEuclidean, 0)
	require.NoError(t, err)

	assert.Equal(t, "near", report.SignatureLabel)
	require.Len(t, report.Comparisons, 3)
	assert.Equal(t, "near", report.Comparisons[0].Label)
	// Ascending scores for a distance metric.
	assert.LessOrEqual(t, report.Comparisons[0].Score, report.Comparisons[1].Score)
	assert.LessOrEqual(t, report.Comparisons[1].Score, report.Comparisons[2].Score)
}

func TestMatchCosinePicksHighestSimilarity(t *testing.T) {
	lib := libraryWith(t,
		signature.Signature{Label: "orthogonal", Values: []float64{0, 1, 0}},
		signature.Signature{Label: "aligned", Values: []float64{2, 0, 0}},
	)

	report, err := NewMatcher(nil).Match([]float64{1, 0, 0}, lib, vector.MetricCosine, 0)
	require.NoError(t, err)

	assert.Equal(t, "aligned", report.SignatureLabel)
	assert.InDelta(t, 1.0, report.Score, 1e-9)
	assert.Equal(t, "aligned", report.Comparisons[0].Label)
}

func TestMatchSkipsMismatchedDimensions(t *testing.T) {
	lib := libraryWith(t,
		signature.Signature{Label: "wrong shape", Values: []float64{1, 2}},
		signature.Signature{Label: "right shape", Values: []float64{1, 2, 3}},
	)

	report, err := NewMatcher(nil).Match([]float64{1, 2, 3}, lib, vector.MetricEuclidean, 0)
	require.NoError(t, err)

	assert.Equal(t, "right shape", report.SignatureLabel)
	assert.Len(t, report.Comparisons, 1)
}

func TestMatchNoComparableSignatures(t *testing.T) {
	lib := libraryWith(t, signature.Signature{Label: "short", Values: []float64{1, 2}})

	_, err := NewMatcher(nil).Match([]float64{1, 2, 3}, lib, vector.MetricEuclidean, 0)
	assert.ErrorIs(t, err, ErrNoComparable)
}

func TestMatchEmptyLibrary(t *testing.T) {
	_, err := NewMatcher(nil).Match([]float64{1}, signature.NewLibrary(), vector.MetricEuclidean, 0)
	assert.ErrorIs(t, err, ErrEmptyLibrary)
}

func TestMatchDefaultThreshold(t *testing.T) {
	lib := libraryWith(t, signature.Signature{Label: "baseline", Values: []float64{0, 0}})

	report, err := NewMatcher(nil).Match([]float64{4, 0}, lib, vector.MetricEuclidean, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, report.Threshold)
	// Residual score 4 sits below the default threshold of 5.
	assert.False(t, report.ProbableFault)
}
