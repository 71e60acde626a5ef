package store

import "time"

// Seed fills an empty-ish store with a demo dataset for trying the app out.
// Existing records are kept; treatment type names that would collide are
// skipped.
func (s *Store) Seed() error {
	types := []TreatmentType{
		{Name: "Pulizia Viso", DefaultDescription: "Trattamento di pulizia profonda del viso"},
		{Name: "Massaggio Rilassante", DefaultDescription: "Massaggio per rilassare corpo e mente"},
		{Name: "Manicure", DefaultDescription: "Trattamento per le mani"},
		{Name: "Pedicure", DefaultDescription: "Trattamento per i piedi"},
		{Name: "Epilazione", DefaultDescription: "Rimozione peli superflui"},
	}
	for _, tt := range types {
		if _, err := s.AddTreatmentType(tt); err != nil {
			if err == ErrDuplicateName {
				continue
			}
			return err
		}
	}

	clients := []Client{
		{
			Name:      "Maria Rossi",
			Email:     "maria.rossi@email.com",
			Phone:     "+39 333 1234567",
			BirthDate: "1985-03-15",
			Address:   "Via Roma 10, Milano",
			SelfCare:  "Pelle sensibile, preferisce prodotti naturali",
		},
		{
			Name:      "Laura Bianchi",
			Email:     "laura.bianchi@email.com",
			Phone:     "+39 345 9876543",
			BirthDate: "1990-07-22",
			Address:   "Corso Italia 25, Milano",
			SelfCare:  "Usa crema idratante quotidianamente",
		},
		{
			Name:      "Giulia Verdi",
			Email:     "giulia.verdi@email.com",
			Phone:     "+39 320 5550123",
			BirthDate: "1988-11-03",
			Address:   "Piazza Duomo 1, Milano",
			SelfCare:  "Allergica al nichel",
		},
	}
	added := make([]Client, 0, len(clients))
	for _, c := range clients {
		ac, err := s.AddClient(c)
		if err != nil {
			return err
		}
		added = append(added, ac)
	}

	now := time.Now()
	treatments := []Treatment{
		{
			Name:        "Pulizia Viso",
			Description: "Trattamento di pulizia profonda del viso",
			Date:        now.AddDate(0, 0, -10).Format(time.RFC3339),
			ClientID:    added[0].ID,
			ClientName:  added[0].Name,
		},
		{
			Name:        "Manicure",
			Description: "Trattamento per le mani",
			Date:        now.AddDate(0, -2, 0).Format(time.RFC3339),
			ClientID:    added[1].ID,
			ClientName:  added[1].Name,
		},
		{
			Name:        "Pulizia Viso",
			Description: "Trattamento di pulizia profonda del viso",
			Date:        now.AddDate(0, 0, -3).Format(time.RFC3339),
			ClientID:    added[2].ID,
			ClientName:  added[2].Name,
		},
	}
	for _, t := range treatments {
		if _, err := s.AddTreatment(t); err != nil {
			return err
		}
	}

	_, err := s.AddPromotion(Promotion{
		Name:        "Promo Primavera",
		Description: "Sconto 20% su tutti i trattamenti viso",
		StartDate:   now.Format("2006-01-02"),
		EndDate:     now.AddDate(0, 1, 0).Format("2006-01-02"),
	})
	return err
}
