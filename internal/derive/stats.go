package derive

import (
	"slices"

	"github.com/mrossi/glowdesk/internal/store"
)

// TreatmentCount is one row of the popularity ranking.
type TreatmentCount struct {
	Name  string
	Count int
}

// PopularTreatments groups treatments by name, counts occurrences and returns
// the top n descending. Equal counts keep the first-appearance order of the
// name in the collection.
func PopularTreatments(treatments []store.Treatment, n int) []TreatmentCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range treatments {
		if counts[t.Name] == 0 {
			order = append(order, t.Name)
		}
		counts[t.Name]++
	}

	out := make([]TreatmentCount, 0, len(order))
	for _, name := range order {
		out = append(out, TreatmentCount{Name: name, Count: counts[name]})
	}
	slices.SortStableFunc(out, func(a, b TreatmentCount) int {
		return b.Count - a.Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TreatmentsPerClient is the average number of treatments per client; an
// empty client list yields the total to avoid dividing by zero.
func TreatmentsPerClient(treatments []store.Treatment, clients []store.Client) float64 {
	div := len(clients)
	if div == 0 {
		div = 1
	}
	return float64(len(treatments)) / float64(div)
}
