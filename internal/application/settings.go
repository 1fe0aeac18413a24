package application

import (
	"context"
	"fmt"

	"github.com/whosinhq/whosin/internal/domain"
	"github.com/whosinhq/whosin/internal/ports"
)

// SettingsService mutates stored preferences with load-mutate-save
// round trips against the settings repository.
type SettingsService struct {
	repo ports.SettingsRepository
}

func NewSettingsService(repo ports.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// SetVisibility flips a person's presence in the hidden set: visible true
// removes the email, false adds it.
func (s *SettingsService) SetVisibility(ctx context.Context, email string, visible bool) (domain.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	hidden := make([]string, 0, len(settings.HiddenPeople)+1)
	for _, candidate := range settings.HiddenPeople {
		if candidate != email {
			hidden = append(hidden, candidate)
		}
	}
	if !visible {
		hidden = append(hidden, email)
	}
	settings.HiddenPeople = hidden

	if err := s.repo.Save(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) SetPreferredLocation(ctx context.Context, location domain.Location) (domain.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	settings.PreferredLocation = location

	if err := s.repo.Save(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}
