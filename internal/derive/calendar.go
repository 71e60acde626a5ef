package derive

import (
	"slices"
	"time"

	"github.com/mrossi/glowdesk/internal/store"
)

// EventKind orders same-timestamp events within a day: treatments first, then
// promotions, then birthdays.
type EventKind int

const (
	EventTreatment EventKind = iota
	EventPromotion
	EventBirthday
)

// Event is one calendar entry projected from a record.
type Event struct {
	Kind  EventKind
	Time  time.Time
	Title string
	RefID string // id of the originating record
}

// DayKey is the map key format used by YearEvents.
const DayKey = "2006-01-02"

// YearEvents projects the collections onto the visible year as a day-keyed
// multimap. Each treatment contributes one event at its date; each promotion
// one event at its start and one at its end (a single event when they fall on
// the same day); each client one birthday event re-projected onto the visible
// year. Events sharing a day are ordered by time of day, ties broken by kind.
func YearEvents(year int, treatments []store.Treatment, promotions []store.Promotion, clients []store.Client) map[string][]Event {
	events := make(map[string][]Event)
	add := func(t time.Time, e Event) {
		if t.Year() != year {
			return
		}
		e.Time = t
		key := t.Format(DayKey)
		events[key] = append(events[key], e)
	}

	for _, tr := range treatments {
		d, ok := ParseDate(tr.Date)
		if !ok {
			continue
		}
		add(d, Event{Kind: EventTreatment, Title: tr.Name + " · " + tr.ClientName, RefID: tr.ID})
	}

	for _, p := range promotions {
		start, okStart := ParseDate(p.StartDate)
		end, okEnd := ParseDate(p.EndDate)
		if okStart && okEnd && sameDay(start, end) {
			add(start, Event{Kind: EventPromotion, Title: p.Name, RefID: p.ID})
			continue
		}
		if okStart {
			add(start, Event{Kind: EventPromotion, Title: p.Name + " starts", RefID: p.ID})
		}
		if okEnd {
			add(end, Event{Kind: EventPromotion, Title: p.Name + " ends", RefID: p.ID})
		}
	}

	for _, c := range clients {
		b, ok := ParseDate(c.BirthDate)
		if !ok {
			continue
		}
		d := time.Date(year, b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
		add(d, Event{Kind: EventBirthday, Title: c.Name + "'s birthday", RefID: c.ID})
	}

	for key := range events {
		slices.SortStableFunc(events[key], func(a, b Event) int {
			at := a.Time.Hour()*3600 + a.Time.Minute()*60 + a.Time.Second()
			bt := b.Time.Hour()*3600 + b.Time.Minute()*60 + b.Time.Second()
			if at != bt {
				return at - bt
			}
			return int(a.Kind) - int(b.Kind)
		})
	}
	return events
}

// IsPromotionExpired reports whether the promotion's end date is strictly
// before now. Unparseable end dates never count as expired.
func IsPromotionExpired(p store.Promotion, now time.Time) bool {
	end, ok := ParseDate(p.EndDate)
	return ok && end.Before(now)
}
