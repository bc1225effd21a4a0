package insight

import (
	"strings"
	"testing"
)

func validInsights() Insights {
	return Normalize(Insights{
		Summary: "CRP and HbA1c are within normal ranges.",
		KeyMetrics: []KeyMetric{
			{Name: "CRP", Value: "0.8 mg/L", Status: StatusNormal, Description: "Inflammation marker"},
		},
		Recommendations: []string{"Maintain current exercise routine"},
		RiskFactors:     []string{"Family history of cardiovascular disease"},
	})
}

func TestValidateAcceptsCompleteInsights(t *testing.T) {
	if err := Validate(validInsights()); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateRejectsPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Insights)
	}{
		{
			name: "placeholder metric name",
			mutate: func(in *Insights) {
				in.KeyMetrics[0].Name = PlaceholderMetricName
			},
		},
		{
			name: "placeholder metric value",
			mutate: func(in *Insights) {
				in.KeyMetrics[0].Value = PlaceholderMetricValue
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInsights()
			tt.mutate(&in)

			err := Validate(in)
			if err == nil {
				t.Fatal("Validate() = nil, want placeholder rejection")
			}
			if !IsValidationError(err) {
				t.Errorf("error %v should be a ValidationError", err)
			}
		})
	}
}

func TestValidateRejectsMissingRequiredContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Insights)
		reason string
	}{
		{"missing summary", func(in *Insights) { in.Summary = "" }, "summary"},
		{"empty key metrics", func(in *Insights) { in.KeyMetrics = nil }, "key metrics"},
		{"metric missing description", func(in *Insights) { in.KeyMetrics[0].Description = "" }, "required fields"},
		{"empty recommendations", func(in *Insights) { in.Recommendations = nil }, "recommendations"},
		{"empty risk factors", func(in *Insights) { in.RiskFactors = nil }, "risk factors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInsights()
			tt.mutate(&in)

			err := Validate(in)
			if err == nil {
				t.Fatalf("Validate() = nil, want rejection for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("error %q should mention %q", err.Error(), tt.reason)
			}
		})
	}
}

func TestValidateRawSchema(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name:    "complete object passes",
			data:    `{"summary":"ok","keyMetrics":[{"name":"CRP","value":"0.8 mg/L","status":"normal","description":"d"}],"recommendations":["r"],"riskFactors":["f"],"trends":[]}`,
			wantErr: false,
		},
		{
			name:    "missing summary fails",
			data:    `{"keyMetrics":[]}`,
			wantErr: true,
		},
		{
			name:    "metric without value fails",
			data:    `{"summary":"ok","keyMetrics":[{"name":"CRP"}]}`,
			wantErr: true,
		},
		{
			name:    "summary with wrong type fails",
			data:    `{"summary":42,"keyMetrics":[]}`,
			wantErr: true,
		},
		{
			name:    "not JSON fails",
			data:    `this is prose`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRaw([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRaw() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("schema failure %v should be a ValidationError", err)
			}
		})
	}
}

func TestDecodeNormalizes(t *testing.T) {
	data := `{"summary":"ok","keyMetrics":[{"name":"CRP","value":"0.8","status":"bogus","description":"d"}]}`

	in, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if in.KeyMetrics[0].Status != StatusNormal {
		t.Errorf("Status = %q, want coerced to normal", in.KeyMetrics[0].Status)
	}
	if in.Recommendations == nil || in.Trends == nil {
		t.Error("Decode should return non-nil slices")
	}
}
