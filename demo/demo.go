// Package demo produces sample platform results so the app can be explored
// without real reports or an API credential. Scores are randomized within
// the same bands a plausible report would show.
package demo

import (
	"fmt"
	"math/rand"

	"r42copilot/insight"
)

// CognitiveMetrics are the per-domain scores of a brain health report.
type CognitiveMetrics struct {
	Memory            int `json:"memory"`
	ProcessingSpeed   int `json:"processingSpeed"`
	Attention         int `json:"attention"`
	ExecutiveFunction int `json:"executiveFunction"`
	WorkingMemory     int `json:"workingMemory"`
	VisualSpatial     int `json:"visualSpatial"`
}

// BrainHealthMetrics summarize overall neural performance.
type BrainHealthMetrics struct {
	NeuralEfficiency     int `json:"neuralEfficiency"`
	CognitiveFlexibility int `json:"cognitiveFlexibility"`
	ReactionTime         int `json:"reactionTime"`
	PatternRecognition   int `json:"patternRecognition"`
}

// TrendPoint is one month of a score series.
type TrendPoint struct {
	Month string `json:"month"`
	Score int    `json:"score"`
}

// NeuroAgeData is a sample brain aging report.
type NeuroAgeData struct {
	Filename           string             `json:"filename"`
	CognitiveScore     int                `json:"cognitiveScore"`
	BrainAge           int                `json:"brainAge"`
	DataQuality        int                `json:"dataQuality"`
	CognitiveMetrics   CognitiveMetrics   `json:"cognitiveMetrics"`
	BrainHealthMetrics BrainHealthMetrics `json:"brainHealthMetrics"`
	CognitiveTrend     []TrendPoint       `json:"cognitiveTrend"`
	BrainAgeTrend      []TrendPoint       `json:"brainAgeTrend"`
}

// MetabolicMetrics score the main metabolic markers.
type MetabolicMetrics struct {
	Insulin       int `json:"insulin"`
	Glucose       int `json:"glucose"`
	HbA1c         int `json:"hba1c"`
	Triglycerides int `json:"triglycerides"`
}

// InflammationMetrics score the main inflammation markers.
type InflammationMetrics struct {
	CRP        int `json:"crp"`
	IL6        int `json:"il6"`
	TNF        int `json:"tnf"`
	Fibrinogen int `json:"fibrinogen"`
}

// OxidativeStressMetrics score the oxidative stress panel.
type OxidativeStressMetrics struct {
	MDA      int `json:"mda"`
	GSH      int `json:"gsh"`
	SOD      int `json:"sod"`
	Catalase int `json:"catalase"`
}

// MitochondrialMetrics score cellular energy production.
type MitochondrialMetrics struct {
	ATP       int `json:"atp"`
	CoQ10     int `json:"coq10"`
	Carnitine int `json:"carnitine"`
	NAD       int `json:"nad"`
}

// Finding is one narrative item of a sample report.
type Finding struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind,omitempty"`
}

// IolloData is a sample longevity panel report.
type IolloData struct {
	Filename               string                 `json:"filename"`
	MetabolicScore         int                    `json:"metabolicScore"`
	InflammationScore      int                    `json:"inflammationScore"`
	OxidativeStressScore   int                    `json:"oxidativeStressScore"`
	MitochondrialScore     int                    `json:"mitochondrialScore"`
	OverallScore           int                    `json:"overallScore"`
	MetabolicMetrics       MetabolicMetrics       `json:"metabolicMetrics"`
	InflammationMetrics    InflammationMetrics    `json:"inflammationMetrics"`
	OxidativeStressMetrics OxidativeStressMetrics `json:"oxidativeStressMetrics"`
	MitochondrialMetrics   MitochondrialMetrics   `json:"mitochondrialMetrics"`
	Trend                  []TrendPoint           `json:"trend"`
	Findings               []Finding              `json:"findings"`
	Recommendations        []Finding              `json:"recommendations"`
}

// Generator produces sample data from a seeded source so output is
// reproducible in tests.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with the given value.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// score returns a value in [base, base+spread].
func (g *Generator) score(base, spread int) int {
	return base + g.rng.Intn(spread+1)
}

var trendMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

func trend(scores []int) []TrendPoint {
	out := make([]TrendPoint, len(scores))
	for i, s := range scores {
		out[i] = TrendPoint{Month: trendMonths[i], Score: s}
	}
	return out
}

// NeuroAge builds a sample brain aging report for the given filename.
func (g *Generator) NeuroAge(filename string) NeuroAgeData {
	return NeuroAgeData{
		Filename:       filename,
		CognitiveScore: g.score(70, 30),
		BrainAge:       g.score(65, 15),
		DataQuality:    g.score(85, 15),
		CognitiveMetrics: CognitiveMetrics{
			Memory:            g.score(75, 25),
			ProcessingSpeed:   g.score(70, 30),
			Attention:         g.score(60, 40),
			ExecutiveFunction: g.score(80, 20),
			WorkingMemory:     g.score(65, 35),
			VisualSpatial:     g.score(70, 30),
		},
		BrainHealthMetrics: BrainHealthMetrics{
			NeuralEfficiency:     g.score(75, 25),
			CognitiveFlexibility: g.score(70, 30),
			ReactionTime:         g.score(60, 40),
			PatternRecognition:   g.score(80, 20),
		},
		CognitiveTrend: trend([]int{65, 68, 72, 75, 78, 82}),
		BrainAgeTrend:  trend([]int{70, 72, 69, 71, 74, 76}),
	}
}

// Iollo builds a sample longevity panel for the given filename.
func (g *Generator) Iollo(filename string) IolloData {
	return IolloData{
		Filename:             filename,
		MetabolicScore:       g.score(75, 25),
		InflammationScore:    g.score(60, 40),
		OxidativeStressScore: g.score(65, 35),
		MitochondrialScore:   g.score(70, 30),
		OverallScore:         g.score(70, 30),
		MetabolicMetrics: MetabolicMetrics{
			Insulin:       g.score(70, 30),
			Glucose:       g.score(75, 25),
			HbA1c:         g.score(80, 20),
			Triglycerides: g.score(65, 35),
		},
		InflammationMetrics: InflammationMetrics{
			CRP:        g.score(60, 40),
			IL6:        g.score(65, 35),
			TNF:        g.score(70, 30),
			Fibrinogen: g.score(75, 25),
		},
		OxidativeStressMetrics: OxidativeStressMetrics{
			MDA:      g.score(65, 35),
			GSH:      g.score(70, 30),
			SOD:      g.score(75, 25),
			Catalase: g.score(80, 20),
		},
		MitochondrialMetrics: MitochondrialMetrics{
			ATP:       g.score(70, 30),
			CoQ10:     g.score(75, 25),
			Carnitine: g.score(65, 35),
			NAD:       g.score(80, 20),
		},
		Trend: trend([]int{65, 68, 72, 75, 78, 82}),
		Findings: []Finding{
			{Title: "Good Metabolic Health", Description: "Your insulin sensitivity and glucose metabolism are within optimal ranges.", Kind: "positive"},
			{Title: "Elevated Inflammation", Description: "CRP levels are slightly elevated. Consider anti-inflammatory interventions.", Kind: "warning"},
			{Title: "Strong Mitochondrial Function", Description: "Your cellular energy production is functioning well.", Kind: "positive"},
		},
		Recommendations: []Finding{
			{Title: "Anti-inflammatory Diet", Description: "Increase omega-3 fatty acids and reduce processed foods to lower inflammation markers."},
			{Title: "Intermittent Fasting", Description: "Consider time-restricted feeding to improve metabolic flexibility."},
			{Title: "Exercise Protocol", Description: "Add high-intensity interval training to boost mitochondrial function."},
		},
	}
}

// NeuroAgeInsights renders a sample brain aging report in the insights
// shape so it flows through the normal presentation path.
func NeuroAgeInsights(d NeuroAgeData) *insight.Insights {
	return &insight.Insights{
		Summary: fmt.Sprintf("Cognitive performance score of %d with an estimated brain age of %d. Data quality for this assessment was %d%%.",
			d.CognitiveScore, d.BrainAge, d.DataQuality),
		KeyMetrics: []insight.KeyMetric{
			{Name: "Cognitive Score", Value: fmt.Sprintf("%d", d.CognitiveScore), Status: statusFor(d.CognitiveScore), Description: "Composite score across all cognitive domains"},
			{Name: "Brain Age", Value: fmt.Sprintf("%d years", d.BrainAge), Status: insight.StatusNormal, Description: "Estimated biological age of the brain"},
			{Name: "Memory", Value: fmt.Sprintf("%d", d.CognitiveMetrics.Memory), Status: statusFor(d.CognitiveMetrics.Memory), Description: "Short and long term recall performance"},
			{Name: "Processing Speed", Value: fmt.Sprintf("%d", d.CognitiveMetrics.ProcessingSpeed), Status: statusFor(d.CognitiveMetrics.ProcessingSpeed), Description: "Speed of information processing"},
		},
		Recommendations: []string{
			"Regular aerobic exercise supports processing speed and memory.",
			"Prioritize 7-9 hours of sleep for cognitive recovery.",
		},
		RiskFactors: []string{"Attention scores trail the other domains."},
		Trends: []insight.Trend{
			{Metric: "Cognitive Score", Direction: insight.DirectionImproving, Change: "Up 17 points over six months", Period: "Jan-Jun"},
		},
	}
}

// IolloInsights renders a sample longevity panel in the insights shape.
func IolloInsights(d IolloData) *insight.Insights {
	recommendations := make([]string, 0, len(d.Recommendations))
	for _, r := range d.Recommendations {
		recommendations = append(recommendations, r.Title+": "+r.Description)
	}
	riskFactors := []string{}
	for _, f := range d.Findings {
		if f.Kind == "warning" || f.Kind == "negative" {
			riskFactors = append(riskFactors, f.Description)
		}
	}
	if len(riskFactors) == 0 {
		riskFactors = append(riskFactors, "No significant risks identified in this panel.")
	}
	return &insight.Insights{
		Summary: fmt.Sprintf("Overall longevity score of %d. Metabolic health scored %d and inflammation %d.",
			d.OverallScore, d.MetabolicScore, d.InflammationScore),
		KeyMetrics: []insight.KeyMetric{
			{Name: "Overall Score", Value: fmt.Sprintf("%d", d.OverallScore), Status: statusFor(d.OverallScore), Description: "Composite longevity panel score"},
			{Name: "Metabolic Score", Value: fmt.Sprintf("%d", d.MetabolicScore), Status: statusFor(d.MetabolicScore), Description: "Insulin, glucose, HbA1c, and triglycerides"},
			{Name: "Inflammation Score", Value: fmt.Sprintf("%d", d.InflammationScore), Status: statusFor(d.InflammationScore), Description: "CRP, IL-6, TNF, and fibrinogen"},
			{Name: "Mitochondrial Score", Value: fmt.Sprintf("%d", d.MitochondrialScore), Status: statusFor(d.MitochondrialScore), Description: "ATP, CoQ10, carnitine, and NAD levels"},
		},
		Recommendations: recommendations,
		RiskFactors:     riskFactors,
		Trends: []insight.Trend{
			{Metric: "Overall Score", Direction: insight.DirectionImproving, Change: "Up 17 points over six months", Period: "Jan-Jun"},
		},
	}
}

func statusFor(score int) insight.MetricStatus {
	switch {
	case score >= 70:
		return insight.StatusNormal
	case score >= 50:
		return insight.StatusElevated
	default:
		return insight.StatusCritical
	}
}
