package derive

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mrossi/glowdesk/internal/store"
)

// SortMode selects the client list ordering.
type SortMode int

const (
	SortByName SortMode = iota
	SortBySurname
	SortByLastTreatment
)

func (m SortMode) String() string {
	switch m {
	case SortBySurname:
		return "surname"
	case SortByLastTreatment:
		return "last visit"
	default:
		return "name"
	}
}

// SortClients returns a sorted copy of clients. Name and surname orderings
// use Italian collation; last-treatment ordering is most recent first, with
// treatment-less clients sorting as if their last visit were at time zero.
func SortClients(clients []store.Client, treatments []store.Treatment, mode SortMode) []store.Client {
	out := slices.Clone(clients)
	switch mode {
	case SortBySurname:
		coll := collate.New(language.Italian)
		slices.SortStableFunc(out, func(a, b store.Client) int {
			if r := coll.CompareString(Surname(a.Name), Surname(b.Name)); r != 0 {
				return r
			}
			return coll.CompareString(a.Name, b.Name)
		})
	case SortByLastTreatment:
		last := make(map[string]time.Time)
		for _, t := range treatments {
			if d, ok := ParseDate(t.Date); ok && d.After(last[t.ClientID]) {
				last[t.ClientID] = d
			}
		}
		slices.SortStableFunc(out, func(a, b store.Client) int {
			return last[b.ID].Compare(last[a.ID])
		})
	default:
		coll := collate.New(language.Italian)
		slices.SortStableFunc(out, func(a, b store.Client) int {
			return coll.CompareString(a.Name, b.Name)
		})
	}
	return out
}

// Surname is the last whitespace-delimited token of a full name.
func Surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// SearchClients filters clients by a case-insensitive match on name, phone or
// email. A blank query returns everything.
func SearchClients(clients []store.Client, query string) []store.Client {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(clients)
	}
	var out []store.Client
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Phone, query) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out
}
