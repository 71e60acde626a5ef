package backup

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrossi/glowdesk/internal/store"
)

func sampleSnapshot() store.Snapshot {
	return store.Snapshot{
		Clients: []store.Client{
			{ID: "c1", Name: "Maria Rossi", Phone: "3331234567", BirthDate: "1990-06-15", CreatedAt: "2026-01-01T10:00:00Z"},
		},
		Treatments: []store.Treatment{
			{ID: "t1", Name: "Manicure", ClientID: "c1", ClientName: "Maria Rossi", Date: "2026-02-01"},
		},
		Promotions: []store.Promotion{
			{ID: "p1", Name: "Estate", StartDate: "2026-06-01", EndDate: "2026-08-31"},
		},
		TreatmentTypes: []store.TreatmentType{
			{ID: "tt1", Name: "Manicure", DefaultDescription: "Base"},
		},
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
	got := Filename("centro_estetico", now)
	if got != "backup_centro_estetico_2026-08-30.json" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestMarshalShape(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	data, err := Marshal(sampleSnapshot(), now)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"clienti", "trattamenti", "promozioni", "tipiTrattamento", "exportDate", "version"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	if !strings.Contains(string(data), `"version": "1.0"`) {
		t.Error("expected version 1.0")
	}
	if !strings.Contains(string(data), `"2026-08-30T12:00:00Z"`) {
		t.Error("expected UTC RFC3339 export date")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename("test", time.Now()))
	snap := sampleSnapshot()

	if err := Export(snap, path, time.Now()); err != nil {
		t.Fatal(err)
	}
	got, err := Import(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Clients) != 1 || got.Clients[0].Name != "Maria Rossi" {
		t.Fatalf("clients did not round-trip: %+v", got.Clients)
	}
	if len(got.Treatments) != 1 || got.Treatments[0].ClientName != "Maria Rossi" {
		t.Fatalf("treatments did not round-trip: %+v", got.Treatments)
	}
	if len(got.Promotions) != 1 || len(got.TreatmentTypes) != 1 {
		t.Fatalf("collections did not round-trip: %+v", got)
	}
}

func TestParseRejectsMissingCollections(t *testing.T) {
	doc := `{"clienti": [], "trattamenti": [], "promozioni": []}`
	if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
}

func TestParseAcceptsEmptyCollections(t *testing.T) {
	doc := `{"clienti": [], "trattamenti": [], "promozioni": [], "tipiTrattamento": [], "exportDate": "2026-08-30T12:00:00Z", "version": "1.0"}`
	snap, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 0 || len(snap.Treatments) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestParseForeignAppBackup(t *testing.T) {
	// A document written by the mobile app, with fields this build ignores.
	doc := `{
  "clienti": [{"id": "c1", "nome": "Maria", "telefono": "333", "dataNascita": "1990-06-15", "autocura": "", "extra": 42}],
  "trattamenti": [{"id": "t1", "nome": "Manicure", "clienteId": "c1", "clienteNome": "Maria", "data": "2026-02-01"}],
  "promozioni": [{"id": "p1", "nome": "Estate", "dataInizio": "2026-06-01", "dataFine": "2026-08-31"}],
  "tipiTrattamento": [{"id": "tt1", "nome": "Manicure", "descrizioneDefault": "Base"}],
  "exportDate": "2026-08-30T12:00:00.000Z",
  "version": "1.0"
}`
	snap, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Clients[0].Name != "Maria" || snap.Treatments[0].ClientID != "c1" {
		t.Fatalf("Italian field names did not decode: %+v", snap)
	}
	if snap.TreatmentTypes[0].DefaultDescription != "Base" {
		t.Fatalf("unexpected type: %+v", snap.TreatmentTypes)
	}
}
