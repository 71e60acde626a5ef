// Package notify computes the birthday reminder batch and delivers desktop
// notifications for same-day birthdays.
package notify

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/store"
)

// MaxScheduled caps the reminder batch; platform notification schedulers
// (iOS in the original app) refuse more than 64 pending entries.
const MaxScheduled = 64

// Reminder is one recurring birthday trigger handed to a scheduling backend.
type Reminder struct {
	ClientID   string
	ClientName string
	Month      time.Month
	Day        int
	Hour       int
}

// BirthdayReminders returns at most MaxScheduled reminders for the clients
// with the soonest upcoming birthdays, soonest first, pinned to
// derive.BirthdayHour.
func BirthdayReminders(clients []store.Client, now time.Time) []Reminder {
	upcoming := derive.UpcomingBirthdays(clients, now)
	if len(upcoming) > MaxScheduled {
		upcoming = upcoming[:MaxScheduled]
	}
	out := make([]Reminder, 0, len(upcoming))
	for _, u := range upcoming {
		out = append(out, Reminder{
			ClientID:   u.Client.ID,
			ClientName: u.Client.Name,
			Month:      u.Next.Month(),
			Day:        u.Next.Day(),
			Hour:       derive.BirthdayHour,
		})
	}
	return out
}

// Notifier delivers a single user-facing notification.
type Notifier interface {
	Notify(title, body string, sound bool) error
}

// Desktop sends notifications through the OS notification center.
type Desktop struct {
	AppIcon string
}

func (d Desktop) Notify(title, body string, sound bool) error {
	if sound {
		return beeep.Alert(title, body, d.AppIcon)
	}
	return beeep.Notify(title, body, d.AppIcon)
}

// AnnounceBirthdays fires one notification per client whose birthday is
// today and returns how many were delivered. Delivery is fire-and-forget;
// the first error aborts the rest.
func AnnounceBirthdays(n Notifier, clients []store.Client, now time.Time, sound bool) (int, error) {
	today := derive.BirthdaysToday(clients, now)
	for i, c := range today {
		body := fmt.Sprintf("Today is %s's birthday!", c.Name)
		if err := n.Notify("🎉 Birthday", body, sound); err != nil {
			return i, fmt.Errorf("notify %s: %w", c.Name, err)
		}
	}
	return len(today), nil
}
