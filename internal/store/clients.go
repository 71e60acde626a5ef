package store

import "slices"

// AddClient appends c with a fresh id and creation stamp and persists the
// collection. Field validation (name, phone) is the caller's concern.
func (s *Store) AddClient(c Client) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = newID()
	c.CreatedAt = nowStamp()

	next := append(slices.Clone(s.clients), c)
	if err := s.save(keyClients, next); err != nil {
		return Client{}, err
	}
	s.clients = next
	return c, nil
}

// UpdateClient applies the non-nil fields of patch to the client with id.
// Renaming a client does not touch the denormalized name on its treatments.
func (s *Store) UpdateClient(id string, patch ClientPatch) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.clients, func(c Client) bool { return c.ID == id })
	if i < 0 {
		return Client{}, ErrNotFound
	}

	next := slices.Clone(s.clients)
	c := next[i]
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.BirthDate != nil {
		c.BirthDate = *patch.BirthDate
	}
	if patch.Address != nil {
		c.Address = *patch.Address
	}
	if patch.Photo != nil {
		c.Photo = *patch.Photo
	}
	if patch.SelfCare != nil {
		c.SelfCare = *patch.SelfCare
	}
	next[i] = c

	if err := s.save(keyClients, next); err != nil {
		return Client{}, err
	}
	s.clients = next
	return c, nil
}

// DeleteClient removes the client and every treatment referencing it. Both
// collections are written before the in-memory state changes. Deleting a
// missing id is a no-op.
func (s *Store) DeleteClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextClients := slices.DeleteFunc(slices.Clone(s.clients), func(c Client) bool {
		return c.ID == id
	})
	nextTreatments := slices.DeleteFunc(slices.Clone(s.treatments), func(t Treatment) bool {
		return t.ClientID == id
	})

	if err := s.save(keyClients, nextClients); err != nil {
		return err
	}
	if err := s.save(keyTreatments, nextTreatments); err != nil {
		return err
	}
	s.clients = nextClients
	s.treatments = nextTreatments
	return nil
}

// GetClient returns the client with id, or ErrNotFound.
func (s *Store) GetClient(id string) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.clients, func(c Client) bool { return c.ID == id })
	if i < 0 {
		return Client{}, ErrNotFound
	}
	return s.clients[i], nil
}
