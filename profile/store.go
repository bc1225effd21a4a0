package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"r42copilot/insight"
	"r42copilot/localstore"
	"r42copilot/logging"
)

// ErrReportNotFound is returned when a report id does not exist.
var ErrReportNotFound = errors.New("report not found")

// Store is the in-memory authority for the user's profile and reports,
// persisted through the local store after every mutation. Reads never touch
// disk after Load. Persistence failures degrade fidelity but never lose the
// in-memory state.
type Store struct {
	kv     *localstore.Store
	logger *logging.Logger

	mu        sync.Mutex
	blob      StoredBlob
	lastLevel PersistLevel
}

// New creates a store around an opened key-value store and loads any
// previously persisted data.
func New(kv *localstore.Store, logger *logging.Logger) (*Store, error) {
	s := &Store{
		kv:        kv,
		logger:    logger,
		blob:      StoredBlob{SchemaVersion: SchemaVersion},
		lastLevel: PersistMemoryOnly,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := s.kv.Get(StorageKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}

	var blob StoredBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		// A corrupt blob is dropped rather than bricking the app.
		s.logger.Error("stored user data is corrupt, starting fresh", zap.Error(err))
		return nil
	}
	if blob.SchemaVersion == 0 {
		blob.SchemaVersion = SchemaVersion
	}
	s.blob = blob
	s.lastLevel = PersistCompressed
	return nil
}

func (s *Store) persistLocked() {
	level, err := saveBlob(s.kv, s.blob, s.logger)
	s.lastLevel = level
	if err != nil {
		s.logger.Error("persistence failed, state kept in memory", zap.Error(err))
	}
}

// Profile returns the current user profile.
func (s *Store) Profile() UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blob.Profile
}

// SetProfile replaces the user profile and persists.
func (s *Store) SetProfile(p UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob.Profile = p
	s.persistLocked()
}

// UserName returns the display name from the profile.
func (s *Store) UserName() string {
	return s.Profile().FullName()
}

// AddReport appends a report and persists. A missing ID gets a generated
// one; a missing timestamp gets the current time. The stored report's ID is
// returned.
func (s *Store) AddReport(r UploadedReport) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.UploadedAt.IsZero() {
		r.UploadedAt = time.Now().UTC()
	}
	s.blob.Reports = append(s.blob.Reports, r)
	s.persistLocked()
	return r.ID
}

// UpdateInsights attaches analysis results to an existing report and
// persists.
func (s *Store) UpdateInsights(reportID string, ins *insight.Insights) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blob.Reports {
		if s.blob.Reports[i].ID == reportID {
			s.blob.Reports[i].Insights = ins
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
}

// Report returns one report by id.
func (s *Store) Report(reportID string) (UploadedReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.blob.Reports {
		if r.ID == reportID {
			return r, nil
		}
	}
	return UploadedReport{}, fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
}

// Reports returns all reports in upload order.
func (s *Store) Reports() []UploadedReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UploadedReport, len(s.blob.Reports))
	copy(out, s.blob.Reports)
	return out
}

// ReportsLatestFirst returns all reports sorted by upload time, newest
// first. Ties keep upload order.
func (s *Store) ReportsLatestFirst() []UploadedReport {
	out := s.Reports()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

// ReportsByPlatform returns the reports for one platform in upload order.
func (s *Store) ReportsByPlatform(platform string) []UploadedReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []UploadedReport
	for _, r := range s.blob.Reports {
		if r.Platform == platform {
			out = append(out, r)
		}
	}
	return out
}

// LatestReportForPlatform returns the platform's most recently uploaded
// report.
func (s *Store) LatestReportForPlatform(platform string) (UploadedReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best UploadedReport
	found := false
	for _, r := range s.blob.Reports {
		if r.Platform != platform {
			continue
		}
		if !found || r.UploadedAt.After(best.UploadedAt) {
			best = r
			found = true
		}
	}
	if !found {
		return UploadedReport{}, fmt.Errorf("%w: no reports for platform %s", ErrReportNotFound, platform)
	}
	return best, nil
}

// ReportCount returns the number of stored reports.
func (s *Store) ReportCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blob.Reports)
}

// HasReports reports whether anything has been uploaded.
func (s *Store) HasReports() bool {
	return s.ReportCount() > 0
}

// LastPersistLevel returns the degradation level of the most recent save.
func (s *Store) LastPersistLevel() PersistLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLevel
}

// Clear wipes the profile and all reports, in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = StoredBlob{SchemaVersion: SchemaVersion}
	s.lastLevel = PersistMemoryOnly
	if err := s.kv.Delete(StorageKey); err != nil && !errors.Is(err, localstore.ErrNotFound) {
		return fmt.Errorf("failed to clear user data: %w", err)
	}
	return nil
}
