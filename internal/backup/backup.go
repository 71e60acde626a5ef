// Package backup reads and writes whole-store snapshot documents. The JSON
// shape (Italian top-level keys, exportDate, version) is shared with the
// original mobile app's backup files and must round-trip bit-exact.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mrossi/glowdesk/internal/store"
)

// Version tags every exported document.
const Version = "1.0"

// ErrInvalidBackup marks a document missing one of the four collections.
var ErrInvalidBackup = errors.New("invalid backup file")

// Document is the on-disk backup format.
type Document struct {
	Clients        []store.Client        `json:"clienti"`
	Treatments     []store.Treatment     `json:"trattamenti"`
	Promotions     []store.Promotion     `json:"promozioni"`
	TreatmentTypes []store.TreatmentType `json:"tipiTrattamento"`
	ExportDate     string                `json:"exportDate"`
	Version        string                `json:"version"`
}

// Filename builds the conventional backup name: backup_<context>_<date>.json.
func Filename(context string, now time.Time) string {
	return fmt.Sprintf("backup_%s_%s.json", context, now.UTC().Format("2006-01-02"))
}

// Marshal serializes snap as a backup document.
func Marshal(snap store.Snapshot, now time.Time) ([]byte, error) {
	doc := Document{
		Clients:        snap.Clients,
		Treatments:     snap.Treatments,
		Promotions:     snap.Promotions,
		TreatmentTypes: snap.TreatmentTypes,
		ExportDate:     now.UTC().Format(time.RFC3339),
		Version:        Version,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// Export writes snap to path as a backup document.
func Export(snap store.Snapshot, path string, now time.Time) error {
	data, err := Marshal(snap, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// Parse validates and decodes a backup document. All four collections must be
// present (empty arrays are fine); anything else is ErrInvalidBackup.
func Parse(data []byte) (store.Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	for _, key := range []string{"clienti", "trattamenti", "promozioni", "tipiTrattamento"} {
		if _, ok := probe[key]; !ok {
			return store.Snapshot{}, fmt.Errorf("%w: missing %q", ErrInvalidBackup, key)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return store.Snapshot{
		Clients:        doc.Clients,
		Treatments:     doc.Treatments,
		Promotions:     doc.Promotions,
		TreatmentTypes: doc.TreatmentTypes,
	}, nil
}

// Import reads and validates the backup document at path.
func Import(path string) (store.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read backup file: %w", err)
	}
	return Parse(data)
}
