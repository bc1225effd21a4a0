// Package insight defines the normalized analysis result produced from an
// uploaded report, and the validation and normalization applied to raw model
// output before it is accepted.
package insight

// MetricStatus classifies a key metric relative to its reference range.
type MetricStatus string

const (
	StatusNormal   MetricStatus = "normal"
	StatusElevated MetricStatus = "elevated"
	StatusLow      MetricStatus = "low"
	StatusCritical MetricStatus = "critical"
)

// TrendDirection classifies how a metric has moved over the reported period.
type TrendDirection string

const (
	DirectionImproving TrendDirection = "improving"
	DirectionDeclining TrendDirection = "declining"
	DirectionStable    TrendDirection = "stable"
)

// Placeholder values models emit when they have no real data. Output
// containing these is rejected as invalid rather than stored as insights.
const (
	PlaceholderMetricName  = "Unknown Metric"
	PlaceholderMetricValue = "N/A"
)

// KeyMetric is one biomarker extracted from a report.
type KeyMetric struct {
	Name           string       `json:"name"`
	Value          string       `json:"value"`
	Status         MetricStatus `json:"status"`
	Description    string       `json:"description"`
	ReferenceRange string       `json:"referenceRange,omitempty"`
}

// Trend describes how one metric has changed over time.
type Trend struct {
	Metric    string         `json:"metric"`
	Direction TrendDirection `json:"direction"`
	Change    string         `json:"change"`
	Period    string         `json:"period"`
}

// Insights is the normalized structured output of report analysis.
// After Normalize has run, every slice is non-nil (possibly empty).
type Insights struct {
	Summary         string      `json:"summary"`
	KeyMetrics      []KeyMetric `json:"keyMetrics"`
	Recommendations []string    `json:"recommendations"`
	RiskFactors     []string    `json:"riskFactors"`
	Trends          []Trend     `json:"trends"`
}
