package store

import "slices"

// AddTreatment appends t with a fresh id and creation stamp. The name is a
// free copy of a treatment type name; it is not required to reference an
// existing type.
func (s *Store) AddTreatment(t Treatment) (Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = newID()
	t.CreatedAt = nowStamp()

	next := append(slices.Clone(s.treatments), t)
	if err := s.save(keyTreatments, next); err != nil {
		return Treatment{}, err
	}
	s.treatments = next
	return t, nil
}

// UpdateTreatment applies the non-nil fields of patch to the treatment with id.
func (s *Store) UpdateTreatment(id string, patch TreatmentPatch) (Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.treatments, func(t Treatment) bool { return t.ID == id })
	if i < 0 {
		return Treatment{}, ErrNotFound
	}

	next := slices.Clone(s.treatments)
	t := next[i]
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.PhotoBefore != nil {
		t.PhotoBefore = *patch.PhotoBefore
	}
	if patch.PhotoAfter != nil {
		t.PhotoAfter = *patch.PhotoAfter
	}
	next[i] = t

	if err := s.save(keyTreatments, next); err != nil {
		return Treatment{}, err
	}
	s.treatments = next
	return t, nil
}

// DeleteTreatment removes the treatment with id; missing ids are a no-op.
func (s *Store) DeleteTreatment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.treatments), func(t Treatment) bool {
		return t.ID == id
	})
	if err := s.save(keyTreatments, next); err != nil {
		return err
	}
	s.treatments = next
	return nil
}

// TreatmentsForClient returns the treatments referencing clientID, in
// collection order.
func (s *Store) TreatmentsForClient(clientID string) []Treatment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Treatment
	for _, t := range s.treatments {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	return out
}
