package notify

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/store"
)

type recordingNotifier struct {
	bodies []string
	sounds []bool
	failAt int // fail on the nth call, 0 = never
}

func (r *recordingNotifier) Notify(title, body string, sound bool) error {
	if r.failAt > 0 && len(r.bodies)+1 == r.failAt {
		return errors.New("delivery failed")
	}
	r.bodies = append(r.bodies, body)
	r.sounds = append(r.sounds, sound)
	return nil
}

func TestBirthdayRemindersCapped(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	clients := make([]store.Client, 100)
	for i := range clients {
		// Spread birthdays over upcoming days so ordering is deterministic.
		clients[i] = store.Client{
			ID:        fmt.Sprintf("c%03d", i),
			Name:      fmt.Sprintf("Client %d", i),
			BirthDate: now.AddDate(-30, 0, i+1).Format("2006-01-02"),
		}
	}

	got := BirthdayReminders(clients, now)
	if len(got) != MaxScheduled {
		t.Fatalf("expected %d reminders, got %d", MaxScheduled, len(got))
	}
	// The soonest birthdays survive the cap.
	if got[0].ClientID != "c000" || got[len(got)-1].ClientID != "c063" {
		t.Fatalf("unexpected batch bounds: first %s last %s", got[0].ClientID, got[len(got)-1].ClientID)
	}
	for _, r := range got {
		if r.Hour != derive.BirthdayHour {
			t.Fatalf("reminder not pinned to hour %d: %+v", derive.BirthdayHour, r)
		}
	}
}

func TestBirthdayRemindersSkipsInvalidDates(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	clients := []store.Client{
		{ID: "a", Name: "Ok", BirthDate: "1990-07-01"},
		{ID: "b", Name: "Bad", BirthDate: "xx"},
	}
	got := BirthdayReminders(clients, now)
	if len(got) != 1 || got[0].ClientID != "a" {
		t.Fatalf("unexpected reminders: %+v", got)
	}
}

func TestAnnounceBirthdays(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	clients := []store.Client{
		{ID: "a", Name: "Maria", BirthDate: "1990-06-15"},
		{ID: "b", Name: "Laura", BirthDate: "1985-01-01"},
		{ID: "c", Name: "Giulia", BirthDate: "2000-06-15"},
	}

	rec := &recordingNotifier{}
	n, err := AnnounceBirthdays(rec, clients, now, true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(rec.bodies) != 2 {
		t.Fatalf("expected 2 notifications, got %d", n)
	}
	if rec.bodies[0] != "Today is Maria's birthday!" {
		t.Fatalf("unexpected body %q", rec.bodies[0])
	}
	if !rec.sounds[0] {
		t.Fatal("sound flag must pass through")
	}
}

func TestAnnounceBirthdaysStopsOnError(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	clients := []store.Client{
		{ID: "a", Name: "Maria", BirthDate: "1990-06-15"},
		{ID: "b", Name: "Giulia", BirthDate: "2000-06-15"},
	}

	rec := &recordingNotifier{failAt: 2}
	n, err := AnnounceBirthdays(rec, clients, now, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 {
		t.Fatalf("expected 1 delivered before the failure, got %d", n)
	}
}

func TestAnnounceBirthdaysNone(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	rec := &recordingNotifier{}
	n, err := AnnounceBirthdays(rec, nil, now, false)
	if err != nil || n != 0 {
		t.Fatalf("expected 0, got %d %v", n, err)
	}
}
