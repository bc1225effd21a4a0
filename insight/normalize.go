package insight

// Defaults used by Normalize for optional trend fields.
const (
	defaultTrendChange = "No change"
	defaultTrendPeriod = "Recent"
)

// Normalize reshapes decoded model output into the fixed internal form.
// It is total and pure: it never fails, has no hidden randomness, and calling
// it twice yields identical output.
//
// Normalize is shape-only. It guarantees every slice is non-nil, coerces
// unrecognized enum values to their neutral members, and fills optional trend
// fields. It does not invent required content - missing summaries, metrics,
// recommendations, or risk factors are the strict validator's concern.
func Normalize(in Insights) Insights {
	out := Insights{
		Summary:         in.Summary,
		KeyMetrics:      make([]KeyMetric, 0, len(in.KeyMetrics)),
		Recommendations: make([]string, 0, len(in.Recommendations)),
		RiskFactors:     make([]string, 0, len(in.RiskFactors)),
		Trends:          make([]Trend, 0, len(in.Trends)),
	}

	for _, m := range in.KeyMetrics {
		m.Status = normalizeStatus(m.Status)
		out.KeyMetrics = append(out.KeyMetrics, m)
	}

	for _, r := range in.Recommendations {
		if r != "" {
			out.Recommendations = append(out.Recommendations, r)
		}
	}

	for _, r := range in.RiskFactors {
		if r != "" {
			out.RiskFactors = append(out.RiskFactors, r)
		}
	}

	for _, tr := range in.Trends {
		tr.Direction = normalizeDirection(tr.Direction)
		if tr.Change == "" {
			tr.Change = defaultTrendChange
		}
		if tr.Period == "" {
			tr.Period = defaultTrendPeriod
		}
		out.Trends = append(out.Trends, tr)
	}

	return out
}

func normalizeStatus(s MetricStatus) MetricStatus {
	switch s {
	case StatusNormal, StatusElevated, StatusLow, StatusCritical:
		return s
	default:
		return StatusNormal
	}
}

func normalizeDirection(d TrendDirection) TrendDirection {
	switch d {
	case DirectionImproving, DirectionDeclining, DirectionStable:
		return d
	default:
		return DirectionStable
	}
}
