package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/storage"
)

// ProfileService holds the biometric profile used by the goal assistant.
type ProfileService struct {
	mu      sync.RWMutex
	store   storage.Store
	logger  *zap.Logger
	profile models.Profile
}

// NewProfileService creates a service holding the default profile.
func NewProfileService(store storage.Store, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logging.OrNop(logger), profile: models.DefaultProfile}
}

// Load reads the saved profile. Unreadable or invalid profiles are reported
// as a *LoadError and the default is kept.
func (s *ProfileService) Load(ctx context.Context) error {
	profile, err := loadRecord(ctx, s.store, KeyProfile, func(raw string) (models.Profile, error) {
		p, err := models.ParseProfile(raw)
		if err != nil {
			return p, err
		}
		return p, p.Validate()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.profile = models.DefaultProfile
		return err
	}
	s.profile = profile
	return nil
}

// Get returns the current profile.
func (s *ProfileService) Get() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Save validates and stores profile. An invalid profile changes nothing and
// wraps ErrInvalidProfile.
func (s *ProfileService) Save(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if err := profile.Validate(); err != nil {
		return s.Get(), fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	err := saveRecord(ctx, s.store, KeyProfile, func() (string, error) {
		data, err := json.Marshal(profile)
		return string(data), err
	})
	if err != nil {
		s.logger.Error("failed to persist profile", zap.Error(err))
	}
	return profile, err
}
