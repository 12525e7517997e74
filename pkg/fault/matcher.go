// Package fault matches live current vectors against a signature library
// and decides whether the machine deviates enough from every known-good
// signature to flag a probable fault.
package fault

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/voltaic-labs/sigraph/pkg/logging"
	"github.com/voltaic-labs/sigraph/pkg/signature"
	"github.com/voltaic-labs/sigraph/pkg/vector"
)

// DefaultThreshold is the residual score above which a match is flagged as
// a probable fault.
const DefaultThreshold = 5.0

// Matching errors.
var (
	ErrEmptyLibrary = errors.New("signature library is empty")
	// ErrNoComparable means no stored signature has the live vector's
	// dimension. Dimensions must match exactly; vectors are never truncated.
	ErrNoComparable = errors.New("no signature matches the live vector dimension")
)

// Comparison is one signature scored against the live vector.
type Comparison struct {
	SignatureID string  `json:"signature_id"`
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
}

// Report is the outcome of one diagnosis. Score is the best signature's
// metric value (a distance for euclidean, a similarity for cosine and dot
// product). The fault decision itself is metric-independent: it compares
// the largest absolute residual component against the threshold.
type Report struct {
	SignatureID    string        `json:"signature_id"`
	SignatureLabel string        `json:"signature_label"`
	Metric         vector.Metric `json:"metric"`
	Score          float64       `json:"score"`

	Residual      []float64 `json:"residual"`
	ResidualScore float64   `json:"residual_score"`
	MeanResidual  float64   `json:"mean_residual"`
	RMSResidual   float64   `json:"rms_residual"`

	Threshold     float64 `json:"threshold"`
	ProbableFault bool    `json:"probable_fault"`

	// Comparisons lists every dimension-compatible signature, best first.
	Comparisons []Comparison `json:"comparisons"`
}

// Matcher scores live vectors against a library.
type Matcher struct {
	logger logging.Logger
}

// NewMatcher creates a matcher. A nil logger disables logging.
func NewMatcher(logger logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Matcher{logger: logger}
}

// Match scores the live vector against every signature in the library and
// reports the best match. Signatures whose dimension differs from the live
// vector are skipped. A threshold of zero or below selects DefaultThreshold.
func (m *Matcher) Match(live []float64, lib *signature.Library, metric vector.Metric, threshold float64) (*Report, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	sigs := lib.List()
	if len(sigs) == 0 {
		return nil, ErrEmptyLibrary
	}

	comparisons := make([]Comparison, 0, len(sigs))
	byID := make(map[string]signature.Signature, len(sigs))
	for _, sig := range sigs {
		if sig.Dimension() != len(live) {
			continue
		}
		score, err := scoreAgainst(live, sig.Values, metric)
		if err != nil {
			return nil, fmt.Errorf("score signature %s: %w", sig.ID, err)
		}
		comparisons = append(comparisons, Comparison{
			SignatureID: sig.ID,
			Label:       sig.Label,
			Score:       score,
		})
		byID[sig.ID] = sig
	}
	if len(comparisons) == 0 {
		return nil, fmt.Errorf("%w: live dimension %d", ErrNoComparable, len(live))
	}

	// Euclidean is a distance (smaller is closer); cosine and dot product
	// are similarities (larger is closer).
	lower := metric == vector.MetricEuclidean
	sort.SliceStable(comparisons, func(i, j int) bool {
		if lower {
			return comparisons[i].Score < comparisons[j].Score
		}
		return comparisons[i].Score > comparisons[j].Score
	})

	best := byID[comparisons[0].SignatureID]
	residual, err := vector.Residual(live, best.Values)
	if err != nil {
		return nil, err
	}

	report := &Report{
		SignatureID:    best.ID,
		SignatureLabel: best.Label,
		Metric:         metric,
		Score:          comparisons[0].Score,
		Residual:       residual,
		ResidualScore:  vector.MaxAbs(residual),
		MeanResidual:   meanAbs(residual),
		RMSResidual:    rms(residual),
		Threshold:      threshold,
		Comparisons:    comparisons,
	}
	report.ProbableFault = report.ResidualScore > threshold

	m.logger.Info("diagnosis finished",
		logging.SignatureID(best.ID),
		logging.Metric(string(metric)),
		logging.Float64("residual_score", report.ResidualScore),
		logging.Bool("probable_fault", report.ProbableFault),
	)
	return report, nil
}

// scoreAgainst keeps similarities as similarities: euclidean reports a
// distance, cosine and dot product report the raw similarity value.
func scoreAgainst(live, sig []float64, metric vector.Metric) (float64, error) {
	switch metric {
	case vector.MetricCosine:
		return vector.CosineSimilarity(live, sig)
	case vector.MetricDot:
		return vector.DotProduct(live, sig)
	default:
		return vector.EuclideanDistance(live, sig)
	}
}

func meanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Abs(v)
	}
	return sum / float64(len(values))
}

func rms(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}
