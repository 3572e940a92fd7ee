package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/abrezinsky/luckydraw/internal/errors"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// Setting keys
const (
	SettingBaseURL = "base_url"
)

// SettingsService handles application-wide runtime settings
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // No default - setting not yet configured
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the application base URL. Only absolute http(s) URLs are accepted.
func (s *SettingsService) SetBaseURL(ctx context.Context, baseURL string) error {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Validationf("invalid base URL %q", baseURL)
	}
	if err := s.repo.SetSetting(ctx, SettingBaseURL, baseURL); err != nil {
		return err
	}
	s.log.Info("Base URL set", "base_url", baseURL)
	return nil
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err == repository.ErrNotFound {
		return "", errors.NotFoundf("setting %q not found", key)
	}
	return value, err
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.Validation("setting key must not be empty")
	}
	return s.repo.SetSetting(ctx, key, value)
}

// AllSettings returns every stored setting
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]string, error) {
	return s.repo.ListSettings(ctx)
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL string
	Values  map[string]string
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	for k, v := range settings.Values {
		if k == SettingBaseURL {
			continue
		}
		if err := s.SetSetting(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
