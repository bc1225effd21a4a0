package analysis

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Request carries one report's worth of material to analyze.
type Request struct {
	Content  string
	Platform string
	Filename string
}

// PlatformInfo describes one diagnostic platform so the model knows what
// kind of report it is reading.
type PlatformInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// defaultPlatforms covers the diagnostic providers the product ships with.
var defaultPlatforms = []PlatformInfo{
	{Name: "NeuroAge", Description: "Focuses on brain aging, cognitive biomarkers, and neurological health"},
	{Name: "Jona Health", Description: "Comprehensive health optimization and biomarker analysis"},
	{Name: "Iollo", Description: "Advanced longevity testing and biological age assessment"},
	{Name: "Function Health", Description: "Metabolic health and functional medicine"},
	{Name: "TokuEyes", Description: "Eye health and retinal biomarkers"},
}

// platformsFile is the YAML shape of an external platform catalog.
type platformsFile struct {
	Platforms []PlatformInfo `yaml:"platforms"`
}

// LoadPlatforms reads a platform catalog from a YAML file. An empty path
// returns the built-in catalog.
func LoadPlatforms(path string) ([]PlatformInfo, error) {
	if path == "" {
		return DefaultPlatforms(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platforms file: %w", err)
	}
	var pf platformsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse platforms file %s: %w", path, err)
	}
	if len(pf.Platforms) == 0 {
		return nil, fmt.Errorf("platforms file %s lists no platforms", path)
	}
	for i, p := range pf.Platforms {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("platforms file %s: entry %d has no name", path, i+1)
		}
	}
	return pf.Platforms, nil
}

// DefaultPlatforms returns a copy of the built-in platform catalog.
func DefaultPlatforms() []PlatformInfo {
	out := make([]PlatformInfo, len(defaultPlatforms))
	copy(out, defaultPlatforms)
	return out
}

// PlatformNames returns the catalog's platform names sorted alphabetically.
func PlatformNames(platforms []PlatformInfo) []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func platformContext(platforms []PlatformInfo) string {
	var sb strings.Builder
	for _, p := range platforms {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", p.Name, p.Description))
	}
	return strings.TrimRight(sb.String(), "\n")
}

const responseShape = `{
  "summary": "2-3 sentence summary based on actual PDF content",
  "keyMetrics": [
    {
      "name": "Exact metric name from PDF (e.g., 'CRP', 'HbA1c', 'Vitamin D')",
      "value": "Actual value from PDF (e.g., '0.8 mg/L', '5.2%', '32 ng/mL')",
      "status": "normal/elevated/low/critical based on actual values",
      "description": "What this metric means and its health implications"
    }
  ],
  "recommendations": [
    "Specific actionable recommendation based on actual findings"
  ],
  "riskFactors": [
    "Specific risk factor identified from actual data"
  ],
  "trends": [
    {
      "metric": "Metric name",
      "direction": "improving/declining/stable",
      "change": "Specific change description",
      "period": "Time period"
    }
  ]
}`

const retryResponseShape = `{
  "summary": "Brief summary of the actual findings from the PDF",
  "keyMetrics": [
    {
      "name": "CRP",
      "value": "0.8 mg/L",
      "status": "normal",
      "description": "C-reactive protein level indicating inflammation status"
    }
  ],
  "recommendations": [
    "Specific recommendation based on actual data"
  ],
  "riskFactors": [
    "Specific risk identified from the data"
  ],
  "trends": [
    {
      "metric": "CRP",
      "direction": "stable",
      "change": "No significant change",
      "period": "Recent"
    }
  ]
}`

// BuildPrompt renders the main analysis prompt for a report.
func BuildPrompt(req Request, platforms []PlatformInfo) string {
	return fmt.Sprintf(`You are an expert longevity and healthspan analyst. Your task is to analyze PDF reports from various longevity platforms and provide concise, actionable insights based on the actual content.

Platform Context:
%s

CRITICAL: You MUST return a JSON object with EXACTLY this structure:
%s

IMPORTANT RULES:
1. Extract ONLY real values, metrics, and findings from the provided PDF text
2. Do NOT generate placeholder or generic information
3. If a metric is not clearly stated in the PDF, do NOT include it
4. Use actual biomarker names and values from the PDF
5. Return ONLY the raw JSON object, no markdown, no code blocks, no additional text
6. Ensure the JSON is valid and properly formatted

Please analyze this %s report and provide insights in the specified JSON format:

Filename: %s
Platform: %s
PDF Content: %s

Focus on:
- Key biomarkers and their actual values from the report
- Healthspan implications based on the data
- Actionable lifestyle and supplement recommendations from the findings
- Risk assessment based on actual results
- Trend analysis if multiple measurements are available

Return only the JSON response, no additional text.`,
		platformContext(platforms), responseShape,
		req.Platform, req.Filename, req.Platform, req.Content)
}

// BuildRetryPrompt renders the stricter prompt used after a failed first
// attempt. It leads with the content and shows a concrete example response.
func BuildRetryPrompt(req Request) string {
	return fmt.Sprintf(`You are analyzing a %s health report. The PDF content is: %s

You MUST return ONLY a JSON object with this EXACT structure - no other text:

%s

IMPORTANT: Only include metrics that are actually mentioned in the PDF text. If you cannot find specific values, do not make them up.`,
		req.Platform, req.Content, retryResponseShape)
}
