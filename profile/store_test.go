package profile

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"r42copilot/insight"
	"r42copilot/localstore"
	"r42copilot/logging"
)

type discardSyncer struct{}

func (discardSyncer) Write(p []byte) (int, error) { return len(p), nil }
func (discardSyncer) Sync() error                 { return nil }

func testLogger() *logging.Logger {
	return logging.NewLoggerWithWriters(zapcore.InfoLevel, discardSyncer{}, discardSyncer{}, false)
}

func openKV(t *testing.T, quota int64) *localstore.Store {
	t.Helper()
	kv, err := localstore.Open(filepath.Join(t.TempDir(), "store.db"), quota)
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func newStore(t *testing.T, kv *localstore.Store) *Store {
	t.Helper()
	s, err := New(kv, testLogger())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func sampleProfile() UserProfile {
	return UserProfile{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Age:         "36",
		Sex:         "female",
		Height:      `5'7"`,
		Weight:      "130",
		HealthGoals: "longevity",
		Diagnostics: DiagnosticSelection{JonaHealth: true, NeuroAge: true},
	}
}

func sampleInsights() *insight.Insights {
	return &insight.Insights{
		Summary: "All markers look good.",
		KeyMetrics: []insight.KeyMetric{
			{Name: "CRP", Value: "0.8 mg/L", Status: insight.StatusNormal, Description: "Inflammation marker"},
		},
		Recommendations: []string{"Keep exercising"},
		RiskFactors:     []string{"None"},
	}
}

func TestProfileRoundTrip(t *testing.T) {
	kv := openKV(t, localstore.DefaultQuotaBytes)
	s := newStore(t, kv)

	s.SetProfile(sampleProfile())
	got := s.Profile()
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q, want ada@example.com", got.Email)
	}
	if !got.Diagnostics.NeuroAge {
		t.Error("expected NeuroAge selection to survive")
	}
	if s.UserName() != "Ada Lovelace" {
		t.Errorf("UserName = %q", s.UserName())
	}
}

func TestProfileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	kv, err := localstore.Open(path, localstore.DefaultQuotaBytes)
	if err != nil {
		t.Fatal(err)
	}
	s := newStore(t, kv)
	s.SetProfile(sampleProfile())
	s.AddReport(UploadedReport{Filename: "a.pdf", Platform: "Iollo", Content: "iron panel results"})
	kv.Close()

	kv2, err := localstore.Open(path, localstore.DefaultQuotaBytes)
	if err != nil {
		t.Fatal(err)
	}
	defer kv2.Close()
	s2 := newStore(t, kv2)

	if s2.Profile().FirstName != "Ada" {
		t.Errorf("FirstName after reopen = %q", s2.Profile().FirstName)
	}
	reports := s2.Reports()
	if len(reports) != 1 || reports[0].Filename != "a.pdf" {
		t.Fatalf("unexpected reports after reopen: %+v", reports)
	}
	if reports[0].Content == "" {
		t.Error("small report content should survive a roomy quota")
	}
}

func TestAddReportKeepsUploadOrder(t *testing.T) {
	kv := openKV(t, localstore.DefaultQuotaBytes)
	s := newStore(t, kv)

	now := time.Now().UTC()
	s.AddReport(UploadedReport{Filename: "a.pdf", Platform: "Iollo", UploadedAt: now})
	s.AddReport(UploadedReport{Filename: "b.pdf", Platform: "Iollo", UploadedAt: now})

	reports := s.Reports()
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Filename != "a.pdf" || reports[1].Filename != "b.pdf" {
		t.Errorf("upload order not preserved: %s, %s", reports[0].Filename, reports[1].Filename)
	}
	if reports[0].ID == "" || reports[0].ID == reports[1].ID {
		t.Error("expected distinct generated ids")
	}
}

func TestReportsLatestFirst(t *testing.T) {
	kv := openKV(t, localstore.DefaultQuotaBytes)
	s := newStore(t, kv)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.AddReport(UploadedReport{Filename: "old.pdf", Platform: "NeuroAge", UploadedAt: base})
	s.AddReport(UploadedReport{Filename: "new.pdf", Platform: "NeuroAge", UploadedAt: base.Add(48 * time.Hour)})
	s.AddReport(UploadedReport{Filename: "mid.pdf", Platform: "NeuroAge", UploadedAt: base.Add(24 * time.Hour)})

	got := s.ReportsLatestFirst()
	want := []string{"new.pdf", "mid.pdf", "old.pdf"}
	for i, name := range want {
		if got[i].Filename != name {
			t.Errorf("position %d = %s, want %s", i, got[i].Filename, name)
		}
	}
}

func TestLatestReportForPlatform(t *testing.T) {
	kv := openKV(t, localstore.DefaultQuotaBytes)
	s := newStore(t, kv)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.AddReport(UploadedReport{Filename: "jona-old.pdf", Platform: "Jona Health", UploadedAt: base})
	s.AddReport(UploadedReport{Filename: "jona-new.pdf", Platform: "Jona Health", UploadedAt: base.Add(time.Hour)})
	s.AddReport(UploadedReport{Filename: "iollo.pdf", Platform: "Iollo", UploadedAt: base.Add(2 * time.Hour)})

	latest, err := s.LatestReportForPlatform("Jona Health")
	if err != nil {
		t.Fatalf("LatestReportForPlatform returned error: %v", err)
	}
	if latest.Filename != "jona-new.pdf" {
		t.Errorf("latest = %s, want jona-new.pdf", latest.Filename)
	}

	if _, err := s.LatestReportForPlatform("TokuEyes"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound for empty platform, got %v", err)
	}
}

func TestUpdateInsights(t *testing.T) {
	kv := openKV(t, localstore.DefaultQuotaBytes)
	s := newStore(t, kv)

	id := s.AddReport(UploadedReport{Filename: "a.pdf", Platform: "Iollo"})
	if err := s.UpdateInsights(id, sampleInsights()); err != nil {
		t.Fatalf("UpdateInsights returned error: %v", err)
	}

	r, err := s.Report(id)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if r.Insights == nil || r.Insights.Summary != "All markers look good." {
		t.Errorf("unexpected insights: %+v", r.Insights)
	}

	if err := s.UpdateInsights("no-such-id", sampleInsights()); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestQuotaDegradationKeepsMemoryIntact(t *testing.T) {
	// Quota far too small for the full content but enough for a reduced
	// pass.
	kv := openKV(t, 1500)
	s := newStore(t, kv)

	content := strings.Repeat("biomarker data ", 400)
	id := s.AddReport(UploadedReport{Filename: "big.pdf", Platform: "Iollo", Content: content})
	if err := s.UpdateInsights(id, sampleInsights()); err != nil {
		t.Fatal(err)
	}

	if s.LastPersistLevel() == PersistCompressed {
		t.Errorf("expected a degraded persist level, got %s", s.LastPersistLevel())
	}

	// Memory copy keeps the full content regardless of what landed on disk.
	r, err := s.Report(id)
	if err != nil {
		t.Fatal(err)
	}
	if r.Content != content {
		t.Error("in-memory content should not be truncated by persistence")
	}
	if r.Insights == nil {
		t.Error("insights should be attached in memory")
	}
}

func TestDegradedBlobStillCarriesInsights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	kv, err := localstore.Open(path, 1500)
	if err != nil {
		t.Fatal(err)
	}
	s := newStore(t, kv)
	id := s.AddReport(UploadedReport{Filename: "big.pdf", Platform: "Iollo", Content: strings.Repeat("x", 5000)})
	if err := s.UpdateInsights(id, sampleInsights()); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	kv2, err := localstore.Open(path, 1500)
	if err != nil {
		t.Fatal(err)
	}
	defer kv2.Close()
	s2 := newStore(t, kv2)

	r, err := s2.Report(id)
	if err != nil {
		t.Fatalf("report missing after degraded save: %v", err)
	}
	if r.Insights == nil || r.Insights.Summary == "" {
		t.Error("insights should survive every degradation pass")
	}
	if len(r.Content) > 500 {
		t.Errorf("content should be reduced on disk, got %d chars", len(r.Content))
	}
}

func TestClear(t *testing.T) {
	kv := openKV(t, localstore.DefaultQuotaBytes)
	s := newStore(t, kv)

	s.SetProfile(sampleProfile())
	s.AddReport(UploadedReport{Filename: "a.pdf", Platform: "Iollo"})
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	if s.HasReports() {
		t.Error("expected no reports after Clear")
	}
	if s.Profile().FirstName != "" {
		t.Error("expected empty profile after Clear")
	}
	if _, err := kv.Get(StorageKey); !errors.Is(err, localstore.ErrNotFound) {
		t.Errorf("expected blob removed from disk, got %v", err)
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name     string
		profile  UserProfile
		expected string
	}{
		{name: "first and last", profile: UserProfile{FirstName: "Ada", LastName: "Lovelace"}, expected: "Ada Lovelace"},
		{name: "first only", profile: UserProfile{FirstName: "Ada"}, expected: "Ada"},
		{name: "empty", profile: UserProfile{}, expected: "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.FullName(); got != tt.expected {
				t.Errorf("FullName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
