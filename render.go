package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"r42copilot/insight"
	"r42copilot/profile"
)

const timeFormat = "2006-01-02 15:04"

func statusColor(status insight.MetricStatus) *color.Color {
	switch status {
	case insight.StatusNormal:
		return color.New(color.FgGreen)
	case insight.StatusElevated, insight.StatusLow:
		return color.New(color.FgYellow)
	case insight.StatusCritical:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func directionColor(direction insight.TrendDirection) *color.Color {
	switch direction {
	case insight.DirectionImproving:
		return color.New(color.FgGreen)
	case insight.DirectionDeclining:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgHiBlack)
	}
}

func renderProfile(w io.Writer, p profile.UserProfile) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	header.Fprintln(w, p.FullName())
	if p.Email != "" {
		dim.Fprintf(w, "  %s\n", p.Email)
	}
	if p.Age != "" || p.Sex != "" {
		fmt.Fprintf(w, "  Age %s, %s\n", p.Age, p.Sex)
	}
	if p.Height != "" {
		fmt.Fprintf(w, "  Height %s, weight %s lbs\n", profile.FormatHeight(p.Height), p.Weight)
	}
	if p.HealthGoals != "" {
		fmt.Fprintf(w, "  Goals: %s\n", p.HealthGoals)
	}

	var platforms []string
	if p.Diagnostics.JonaHealth {
		platforms = append(platforms, "Jona Health")
	}
	if p.Diagnostics.NeuroAge {
		platforms = append(platforms, "NeuroAge")
	}
	if p.Diagnostics.Iollo {
		platforms = append(platforms, "Iollo")
	}
	if len(platforms) > 0 {
		fmt.Fprint(w, "  Platforms:")
		for _, name := range platforms {
			fmt.Fprintf(w, " %s", name)
		}
		fmt.Fprintln(w)
	}
}

func renderReportList(w io.Writer, reports []profile.UploadedReport) {
	if len(reports) == 0 {
		color.New(color.FgHiBlack).Fprintln(w, "No reports uploaded yet.")
		return
	}
	dim := color.New(color.FgHiBlack)
	for _, r := range reports {
		fmt.Fprintf(w, "%s  %-14s %s", r.UploadedAt.Local().Format(timeFormat), r.Platform, r.Filename)
		if r.Insights != nil {
			color.New(color.FgGreen).Fprint(w, "  [analyzed]")
		} else {
			dim.Fprint(w, "  [pending]")
		}
		dim.Fprintf(w, "  %s\n", r.ID)
	}
}

func renderInsights(w io.Writer, report profile.UploadedReport) {
	header := color.New(color.FgCyan, color.Bold)
	section := color.New(color.FgWhite, color.Bold)
	dim := color.New(color.FgHiBlack)

	header.Fprintf(w, "%s (%s)\n", report.Filename, report.Platform)
	dim.Fprintf(w, "Uploaded %s\n\n", report.UploadedAt.Local().Format(timeFormat))

	if report.Insights == nil {
		dim.Fprintln(w, "Not analyzed yet. Run the analyze command first.")
		return
	}
	ins := report.Insights

	section.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  %s\n\n", ins.Summary)

	section.Fprintln(w, "Key Metrics")
	for _, m := range ins.KeyMetrics {
		fmt.Fprintf(w, "  %-24s %-14s ", m.Name, m.Value)
		statusColor(m.Status).Fprintf(w, "%-10s", string(m.Status))
		fmt.Fprintln(w)
		if m.Description != "" {
			dim.Fprintf(w, "    %s\n", m.Description)
		}
		if m.ReferenceRange != "" {
			dim.Fprintf(w, "    reference: %s\n", m.ReferenceRange)
		}
	}
	fmt.Fprintln(w)

	section.Fprintln(w, "Recommendations")
	for _, r := range ins.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	fmt.Fprintln(w)

	section.Fprintln(w, "Risk Factors")
	for _, r := range ins.RiskFactors {
		color.New(color.FgYellow).Fprintf(w, "  ! %s\n", r)
	}

	if len(ins.Trends) > 0 {
		fmt.Fprintln(w)
		section.Fprintln(w, "Trends")
		for _, t := range ins.Trends {
			fmt.Fprintf(w, "  %-24s ", t.Metric)
			directionColor(t.Direction).Fprintf(w, "%-10s", string(t.Direction))
			fmt.Fprintf(w, " %s (%s)\n", t.Change, t.Period)
		}
	}
}
