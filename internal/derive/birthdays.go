package derive

import (
	"math"
	"slices"
	"time"

	"github.com/mrossi/glowdesk/internal/store"
)

// BirthdayHour is the fixed hour of day a birthday occurrence is pinned to.
const BirthdayHour = 9

// BirthdaysToday returns the clients whose birth date falls on today's
// month and day. Unparseable birth dates are excluded.
func BirthdaysToday(clients []store.Client, now time.Time) []store.Client {
	var out []store.Client
	for _, c := range clients {
		b, ok := ParseDate(c.BirthDate)
		if !ok {
			continue
		}
		if b.Month() == now.Month() && b.Day() == now.Day() {
			out = append(out, c)
		}
	}
	return out
}

// UpcomingBirthday pairs a client with the next occurrence of their birthday.
type UpcomingBirthday struct {
	Client store.Client
	Next   time.Time
	Days   int // whole days until Next, never negative
}

// UpcomingBirthdays computes each client's next birthday occurrence at
// BirthdayHour (this year if not yet passed, otherwise next year) and returns
// them ascending by occurrence time. Clients without a valid birth date are
// skipped.
func UpcomingBirthdays(clients []store.Client, now time.Time) []UpcomingBirthday {
	var out []UpcomingBirthday
	for _, c := range clients {
		b, ok := ParseDate(c.BirthDate)
		if !ok {
			continue
		}
		next := time.Date(now.Year(), b.Month(), b.Day(), BirthdayHour, 0, 0, 0, now.Location())
		if next.Before(now) {
			next = time.Date(now.Year()+1, b.Month(), b.Day(), BirthdayHour, 0, 0, 0, now.Location())
		}
		days := int(math.Ceil(next.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0
		}
		out = append(out, UpcomingBirthday{Client: c, Next: next, Days: days})
	}
	slices.SortStableFunc(out, func(a, b UpcomingBirthday) int {
		return a.Next.Compare(b.Next)
	})
	return out
}

// ClientAge returns the client's age in whole years, or false for an
// unparseable birth date.
func ClientAge(c store.Client, now time.Time) (int, bool) {
	b, ok := ParseDate(c.BirthDate)
	if !ok {
		return 0, false
	}
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age, true
}
