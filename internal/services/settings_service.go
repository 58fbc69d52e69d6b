package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUnknownSetting      = errors.New("unknown setting key")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

// settingDefaults lists the known keys and the value reported before anyone
// writes them. The upload limit is read at startup, so changes to it apply on
// the next boot.
var settingDefaults = map[string]string{
	constants.SettingCompanyName: "Studio Arsitektur",
	constants.SettingMaxUploadMB: strconv.Itoa(constants.DefaultMaxUploadMB),
}

// SettingsService stores office-wide preferences.
type SettingsService struct {
	settingRepo repository.SettingRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingRepo repository.SettingRepository) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
	}
}

// All returns every known setting, filling defaults for unwritten keys.
func (s *SettingsService) All() (map[string]string, error) {
	stored, err := s.settingRepo.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	out := make(map[string]string, len(settingDefaults))
	for key, def := range settingDefaults {
		out[key] = def
	}
	for _, setting := range stored {
		if _, known := settingDefaults[setting.Key]; known {
			out[setting.Key] = setting.Value
		}
	}
	return out, nil
}

// Get reads one setting, falling back to its default.
func (s *SettingsService) Get(key string) (string, error) {
	def, known := settingDefaults[key]
	if !known {
		return "", ErrUnknownSetting
	}

	setting, err := s.settingRepo.Get(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return def, nil
		}
		return "", fmt.Errorf("failed to read setting: %w", err)
	}
	return setting.Value, nil
}

// Update writes one setting after validating its value.
func (s *SettingsService) Update(key, value string) error {
	if _, known := settingDefaults[key]; !known {
		return ErrUnknownSetting
	}
	if key == constants.SettingMaxUploadMB {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return ErrInvalidSettingValue
		}
	}

	if err := s.settingRepo.Set(&models.Setting{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}

// MaxUploadMB reads the stored upload limit, or zero when unset or invalid.
func (s *SettingsService) MaxUploadMB() int {
	setting, err := s.settingRepo.Get(constants.SettingMaxUploadMB)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
