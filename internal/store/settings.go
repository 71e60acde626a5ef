package store

// UpdateSettings applies the non-nil fields of patch and persists the whole
// settings record.
func (s *Store) UpdateSettings(patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if patch.Sounds != nil {
		next.Sounds = *patch.Sounds
	}
	if patch.Vibration != nil {
		next.Vibration = *patch.Vibration
	}
	if patch.DarkTheme != nil {
		next.DarkTheme = *patch.DarkTheme
	}

	if err := s.save(keySettings, next); err != nil {
		return Settings{}, err
	}
	s.settings = next
	return next, nil
}
