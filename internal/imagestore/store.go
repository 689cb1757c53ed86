package imagestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/aurinko-app/daycal/internal/errors"
	"github.com/aurinko-app/daycal/internal/logging"
)

const (
	metadataFileName = "metadata.json"
	imageFileExt     = ".img"
)

// Store is a persistent key-value store of ImageRecords with one binary
// blob per record. The in-memory map is the source of truth; every
// mutation is flushed to disk before returning.
type Store struct {
	dir     string
	mu      sync.RWMutex
	records map[string]ImageRecord
	logger  *slog.Logger
}

// New opens or creates a store in the given directory. A missing or
// corrupt metadata file degrades to an empty store rather than failing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Newf("failed to create cache directory %s: %w", dir, err).
			Component("imagestore").
			Category(errors.CategoryFileIO).
			Build()
	}

	s := &Store{
		dir:     dir,
		records: make(map[string]ImageRecord),
		logger:  logging.ForService("imagestore"),
	}
	s.load()
	return s, nil
}

// metadataPath is the serialized id-to-record map file.
func (s *Store) metadataPath() string {
	return filepath.Join(s.dir, metadataFileName)
}

// imagePath is the binary blob file for a record id.
func (s *Store) imagePath(id string) string {
	return filepath.Join(s.dir, id+imageFileExt)
}

// load reads the metadata file into memory. Decode failures are logged and
// leave the store empty; they never propagate.
func (s *Store) load() {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read metadata file, starting with empty store",
				"path", s.metadataPath(), "error", err)
		}
		return
	}

	var records map[string]ImageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Corrupt metadata file, starting with empty store",
			"path", s.metadataPath(), "error", err)
		return
	}

	s.records = records
	s.logger.Debug("Loaded image metadata", "count", len(records))
}

// persist writes the full metadata map to disk. Must be called with the
// write lock held.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	tmp := s.metadataPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Newf("failed to write metadata file: %w", err).
			Component("imagestore").
			Category(errors.CategoryFileIO).
			Context("path", tmp).
			Build()
	}
	if err := os.Rename(tmp, s.metadataPath()); err != nil {
		return errors.Newf("failed to replace metadata file: %w", err).
			Component("imagestore").
			Category(errors.CategoryFileIO).
			Build()
	}
	return nil
}

// Get returns the record for id, if present.
func (s *Store) Get(id string) (ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	return record, ok
}

// Put upserts a record and flushes the metadata map to disk.
func (s *Store) Put(record ImageRecord) error {
	if record.ID == "" {
		return errors.NewStd("record id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return s.persist()
}

// FindCandidates returns all non-expired records. It does no scoring;
// ranking candidates against an event is the similarity matcher's job.
func (s *Store) FindCandidates(titleQuery, locationQuery string) []ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]ImageRecord, 0, len(s.records))
	for id := range s.records {
		record := s.records[id]
		if record.IsExpired() {
			continue
		}
		candidates = append(candidates, record)
	}
	s.logger.Debug("Collected image candidates",
		"title_query", titleQuery,
		"location_query", locationQuery,
		"count", len(candidates))
	return candidates
}

// RandomRecord returns a uniformly chosen non-expired record for
// placeholder use.
func (s *Store) RandomRecord() (ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := make([]string, 0, len(s.records))
	for id := range s.records {
		record := s.records[id]
		if !record.IsExpired() {
			live = append(live, id)
		}
	}
	if len(live) == 0 {
		return ImageRecord{}, false
	}
	return s.records[live[rand.Intn(len(live))]], true
}

// PurgeExpired removes all expired records and their backing image bytes.
// Intended to run in the background, never on a resolution path. Returns
// the number of purged records.
func (s *Store) PurgeExpired() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged []string
	for id := range s.records {
		record := s.records[id]
		if record.IsExpired() {
			purged = append(purged, id)
		}
	}
	if len(purged) == 0 {
		return 0, nil
	}

	for _, id := range purged {
		delete(s.records, id)
		if err := os.Remove(s.imagePath(id)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove image bytes", "id", id, "error", err)
		}
	}

	if err := s.persist(); err != nil {
		return len(purged), err
	}

	s.logger.Info("Purged expired image records", "count", len(purged))
	return len(purged), nil
}

// SaveImageData writes the binary image bytes for a record id.
func (s *Store) SaveImageData(id string, data []byte) error {
	if err := os.WriteFile(s.imagePath(id), data, 0o644); err != nil {
		return errors.Newf("failed to write image bytes: %w", err).
			Component("imagestore").
			Category(errors.CategoryFileIO).
			Context("id", id).
			Build()
	}
	return nil
}

// ImageData reads the binary image bytes for a record id.
func (s *Store) ImageData(id string) ([]byte, error) {
	data, err := os.ReadFile(s.imagePath(id))
	if err != nil {
		return nil, errors.Newf("failed to read image bytes: %w", err).
			Component("imagestore").
			Category(errors.CategoryFileIO).
			Context("id", id).
			Build()
	}
	return data, nil
}

// Snapshot returns a copy of the full record map, for diagnostics.
func (s *Store) Snapshot() map[string]ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ImageRecord, len(s.records))
	maps.Copy(out, s.records)
	return out
}

// Len returns the number of records, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
