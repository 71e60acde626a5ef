package store

import (
	"slices"
	"strings"
)

// AddTreatmentType appends a type after normalizing and validating its name.
// The stored name and default description are trimmed.
func (s *Store) AddTreatmentType(tt TreatmentType) (TreatmentType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	norm := NormalizeName(tt.Name)
	if norm == "" {
		return TreatmentType{}, ErrNameRequired
	}
	for _, other := range s.treatmentTypes {
		if NormalizeName(other.Name) == norm {
			return TreatmentType{}, ErrDuplicateName
		}
	}

	tt.ID = newID()
	tt.CreatedAt = nowStamp()
	tt.Name = trimmed(tt.Name)
	tt.DefaultDescription = trimmed(tt.DefaultDescription)

	next := append(slices.Clone(s.treatmentTypes), tt)
	if err := s.save(keyTreatmentTypes, next); err != nil {
		return TreatmentType{}, err
	}
	s.treatmentTypes = next
	return tt, nil
}

// UpdateTreatmentType applies patch to the type with id, enforcing name
// uniqueness against every other type. A rename is propagated to every
// treatment whose name matches the old normalized name, and both collections
// are persisted before the in-memory state changes.
func (s *Store) UpdateTreatmentType(id string, patch TreatmentTypePatch) (TreatmentType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.treatmentTypes, func(t TreatmentType) bool { return t.ID == id })
	if i < 0 {
		return TreatmentType{}, ErrNotFound
	}
	current := s.treatmentTypes[i]

	nextName := current.Name
	if patch.Name != nil {
		nextName = *patch.Name
	}
	nextName = trimmed(nextName)
	norm := NormalizeName(nextName)
	if norm == "" {
		return TreatmentType{}, ErrNameRequired
	}
	for _, other := range s.treatmentTypes {
		if other.ID != id && NormalizeName(other.Name) == norm {
			return TreatmentType{}, ErrDuplicateName
		}
	}

	oldNorm := NormalizeName(current.Name)

	nextTypes := slices.Clone(s.treatmentTypes)
	tt := nextTypes[i]
	tt.Name = nextName
	if patch.DefaultDescription != nil {
		tt.DefaultDescription = trimmed(*patch.DefaultDescription)
	}
	nextTypes[i] = tt

	nextTreatments := s.treatments
	renamed := oldNorm != norm
	if renamed {
		nextTreatments = slices.Clone(s.treatments)
		for j, tr := range nextTreatments {
			if NormalizeName(tr.Name) == oldNorm {
				tr.Name = nextName
				nextTreatments[j] = tr
			}
		}
	}

	if err := s.save(keyTreatmentTypes, nextTypes); err != nil {
		return TreatmentType{}, err
	}
	if renamed {
		if err := s.save(keyTreatments, nextTreatments); err != nil {
			return TreatmentType{}, err
		}
	}
	s.treatmentTypes = nextTypes
	s.treatments = nextTreatments
	return tt, nil
}

// DeleteTreatmentType removes the type with id; treatments keep their
// denormalized names. Missing ids are a no-op.
func (s *Store) DeleteTreatmentType(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.treatmentTypes), func(t TreatmentType) bool {
		return t.ID == id
	})
	if err := s.save(keyTreatmentTypes, next); err != nil {
		return err
	}
	s.treatmentTypes = next
	return nil
}

// trimmed strips surrounding whitespace; unlike NormalizeName it keeps case,
// since it produces the stored value rather than the comparison key.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}
