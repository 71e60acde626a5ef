package store

import "slices"

// AddPromotion appends p with a fresh id and creation stamp. Promotion names
// carry no uniqueness constraint.
func (s *Store) AddPromotion(p Promotion) (Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = newID()
	p.CreatedAt = nowStamp()

	next := append(slices.Clone(s.promotions), p)
	if err := s.save(keyPromotions, next); err != nil {
		return Promotion{}, err
	}
	s.promotions = next
	return p, nil
}

// UpdatePromotion applies the non-nil fields of patch to the promotion with id.
func (s *Store) UpdatePromotion(id string, patch PromotionPatch) (Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.promotions, func(p Promotion) bool { return p.ID == id })
	if i < 0 {
		return Promotion{}, ErrNotFound
	}

	next := slices.Clone(s.promotions)
	p := next[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Photo != nil {
		p.Photo = *patch.Photo
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	next[i] = p

	if err := s.save(keyPromotions, next); err != nil {
		return Promotion{}, err
	}
	s.promotions = next
	return p, nil
}

// DeletePromotion removes the promotion with id; missing ids are a no-op.
func (s *Store) DeletePromotion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.promotions), func(p Promotion) bool {
		return p.ID == id
	})
	if err := s.save(keyPromotions, next); err != nil {
		return err
	}
	s.promotions = next
	return nil
}
