package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Storage keys, shared with the original mobile app.
const (
	keyClients        = "clienti"
	keyTreatments     = "trattamenti"
	keyPromotions     = "promozioni"
	keyTreatmentTypes = "tipi_trattamento"
	keySettings       = "impostazioni"
)

var (
	// ErrNotFound is returned by updates addressing a missing id.
	// Deletes of missing ids are idempotent and do not return it.
	ErrNotFound = errors.New("record not found")

	// ErrNameRequired and ErrDuplicateName are treatment type validation
	// failures, raised before any persistence attempt.
	ErrNameRequired  = errors.New("treatment type name is required")
	ErrDuplicateName = errors.New("a treatment type with this name already exists")
)

// Store owns the in-memory collections and writes every mutation through to
// the KV backing. Mutations stage the new collection value, persist it, and
// only then replace the in-memory state, so a failed write never leaves
// memory ahead of disk.
type Store struct {
	mu     sync.Mutex
	kv     KV
	logger *slog.Logger

	clients        []Client
	treatments     []Treatment
	promotions     []Promotion
	treatmentTypes []TreatmentType
	settings       Settings
	loaded         bool
}

// New wraps kv; call Load before use.
func New(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger, settings: DefaultSettings()}
}

// Open is the common path: open the SQLite backing at dbPath and load.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	kv, err := OpenKV(dbPath)
	if err != nil {
		return nil, err
	}
	s := New(kv, logger)
	if err := s.Load(); err != nil {
		kv.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// Load reads all five keys and replaces the in-memory state wholesale.
// Absent keys yield empty collections (default settings); a blob that fails
// to parse is logged and dropped rather than blocking startup.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := loadCollection[Client](s, keyClients)
	if err != nil {
		return err
	}
	treatments, err := loadCollection[Treatment](s, keyTreatments)
	if err != nil {
		return err
	}
	promotions, err := loadCollection[Promotion](s, keyPromotions)
	if err != nil {
		return err
	}
	types, err := loadCollection[TreatmentType](s, keyTreatmentTypes)
	if err != nil {
		return err
	}

	settings := DefaultSettings()
	raw, ok, err := s.kv.Get(keySettings)
	if err != nil {
		return fmt.Errorf("load %s: %w", keySettings, err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			s.logger.Warn("dropping unreadable settings", "key", keySettings, "err", err)
			settings = DefaultSettings()
		}
	}

	s.clients = clients
	s.treatments = treatments
	s.promotions = promotions
	s.treatmentTypes = types
	s.settings = settings
	s.loaded = true
	return nil
}

// Reload re-reads all keys, discarding in-memory state.
func (s *Store) Reload() error {
	return s.Load()
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// loadCollection reads one key fail-open: only storage errors propagate.
func loadCollection[T any](s *Store, key string) ([]T, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("dropping unreadable collection", "key", key, "err", err)
		return nil, nil
	}
	return records, nil
}

func (s *Store) save(key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// --- Snapshots: callers get copies, never the live slices. ---

func (s *Store) Clients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.clients)
}

func (s *Store) Treatments() []Treatment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.treatments)
}

func (s *Store) Promotions() []Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.promotions)
}

func (s *Store) TreatmentTypes() []TreatmentType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.treatmentTypes)
}

func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Snapshot returns the whole entity state for export.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Clients:        slices.Clone(s.clients),
		Treatments:     slices.Clone(s.treatments),
		Promotions:     slices.Clone(s.promotions),
		TreatmentTypes: slices.Clone(s.treatmentTypes),
	}
}

// ImportAll replaces the four entity collections with snap and persists every
// key. Destructive: nothing is merged. Settings are untouched.
func (s *Store) ImportAll(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(keyClients, snap.Clients); err != nil {
		return err
	}
	if err := s.save(keyTreatments, snap.Treatments); err != nil {
		return err
	}
	if err := s.save(keyPromotions, snap.Promotions); err != nil {
		return err
	}
	if err := s.save(keyTreatmentTypes, snap.TreatmentTypes); err != nil {
		return err
	}

	s.clients = slices.Clone(snap.Clients)
	s.treatments = slices.Clone(snap.Treatments)
	s.promotions = slices.Clone(snap.Promotions)
	s.treatmentTypes = slices.Clone(snap.TreatmentTypes)
	return nil
}

// --- Shared helpers ---

func newID() string {
	return uuid.NewString()
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NormalizeName is the trim+casefold form used for treatment type uniqueness
// and for matching treatments against type names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
