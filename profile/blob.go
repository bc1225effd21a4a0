package profile

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"r42copilot/localstore"
	"r42copilot/logging"
)

// StorageKey is the single key the store writes under.
const StorageKey = "r42-user-data"

const (
	// Per-report content budget for the first persistence pass.
	compressContentChars = 1000
	// Per-report content budget for the reduced pass.
	ultraContentChars = 500
	// Blob ceiling for the content-bearing passes.
	maxBlobBytes = 1_000_000
	// Total store usage above which stale non-essential keys get cleared.
	totalHighWaterBytes = 4_000_000
	// A single blob over this mark is dropped before writing a new one.
	singleBlobClearBytes = 800_000
)

// PersistLevel names the degradation pass that last landed on disk.
type PersistLevel int

const (
	// PersistCompressed keeps report content truncated per report.
	PersistCompressed PersistLevel = iota
	// PersistUltra halves the per-report content budget.
	PersistUltra
	// PersistMetadata drops report content, keeping metadata and insights.
	PersistMetadata
	// PersistEssential keeps only name, email, and report metadata with
	// insights.
	PersistEssential
	// PersistMemoryOnly means no pass fit; state lives in memory only.
	PersistMemoryOnly
)

func (l PersistLevel) String() string {
	switch l {
	case PersistCompressed:
		return "compressed"
	case PersistUltra:
		return "ultra"
	case PersistMetadata:
		return "metadata"
	case PersistEssential:
		return "essential"
	case PersistMemoryOnly:
		return "memory-only"
	default:
		return fmt.Sprintf("PersistLevel(%d)", int(l))
	}
}

func truncatedReports(reports []UploadedReport, maxChars int) []UploadedReport {
	out := make([]UploadedReport, len(reports))
	copy(out, reports)
	for i := range out {
		if len(out[i].Content) > maxChars {
			out[i].Content = out[i].Content[:maxChars]
		}
	}
	return out
}

func contentlessReports(reports []UploadedReport) []UploadedReport {
	out := make([]UploadedReport, len(reports))
	copy(out, reports)
	for i := range out {
		out[i].Content = ""
	}
	return out
}

// encodeAtLevel renders the blob for one persistence pass. The content
// bearing passes refuse to produce blobs over maxBlobBytes so the caller
// steps down instead of hammering the store with hopeless writes.
func encodeAtLevel(blob StoredBlob, level PersistLevel) ([]byte, error) {
	switch level {
	case PersistCompressed:
		blob.Reports = truncatedReports(blob.Reports, compressContentChars)
	case PersistUltra:
		blob.Reports = truncatedReports(blob.Reports, ultraContentChars)
	case PersistMetadata:
		blob.Reports = contentlessReports(blob.Reports)
	case PersistEssential:
		blob = StoredBlob{
			SchemaVersion: blob.SchemaVersion,
			Profile: UserProfile{
				FirstName: blob.Profile.FirstName,
				LastName:  blob.Profile.LastName,
				Email:     blob.Profile.Email,
			},
			Reports: contentlessReports(blob.Reports),
		}
	default:
		return nil, fmt.Errorf("cannot encode at level %s", level)
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user data: %w", err)
	}
	if (level == PersistCompressed || level == PersistUltra) && len(data) > maxBlobBytes {
		return nil, fmt.Errorf("blob too large at level %s: %d bytes", level, len(data))
	}
	return data, nil
}

// housekeep drops stale data when the store is near its limits. Run before
// every save.
func housekeep(kv *localstore.Store, logger *logging.Logger) {
	total, err := kv.TotalSize()
	if err == nil && total > totalHighWaterBytes {
		keys, kerr := kv.Keys()
		if kerr == nil {
			for _, key := range keys {
				if key == StorageKey {
					continue
				}
				if derr := kv.Delete(key); derr != nil && !errors.Is(derr, localstore.ErrNotFound) {
					logger.Warn("failed to clear stale key", zap.String("key", key), zap.Error(derr))
				}
			}
			logger.Warn("store usage high, cleared non-essential keys", zap.Int64("total_bytes", total))
		}
	}

	size, err := kv.SizeOf(StorageKey)
	if err == nil && size > singleBlobClearBytes {
		if derr := kv.Delete(StorageKey); derr != nil && !errors.Is(derr, localstore.ErrNotFound) {
			logger.Warn("failed to clear oversized blob", zap.Error(derr))
		} else {
			logger.Warn("cleared oversized blob before save", zap.Int64("blob_bytes", size))
		}
	}
}

// saveBlob walks the degradation ladder until a pass fits the store's
// quota. It returns the level that landed, or PersistMemoryOnly with an
// error when even the essential pass did not fit.
func saveBlob(kv *localstore.Store, blob StoredBlob, logger *logging.Logger) (PersistLevel, error) {
	housekeep(kv, logger)

	levels := []PersistLevel{PersistCompressed, PersistUltra, PersistMetadata, PersistEssential}
	var lastErr error
	for _, level := range levels {
		data, err := encodeAtLevel(blob, level)
		if err != nil {
			lastErr = err
			continue
		}
		err = kv.Put(StorageKey, data)
		if err == nil {
			if level != PersistCompressed {
				logger.Warn("user data saved at reduced fidelity", zap.String("level", level.String()))
			}
			return level, nil
		}
		if errors.Is(err, localstore.ErrQuotaExceeded) {
			lastErr = err
			logger.Warn("quota exceeded, stepping down", zap.String("level", level.String()))
			continue
		}
		return PersistMemoryOnly, fmt.Errorf("failed to save user data: %w", err)
	}
	return PersistMemoryOnly, fmt.Errorf("user data kept in memory only: %w", lastErr)
}
