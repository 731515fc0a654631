package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"confshare/internal/core/domain"
	"confshare/internal/core/jsonutil"
)

// ConfigurationService owns the store/fetch flows: values are always persisted
// as deterministic Salted__ containers and leave the service as readable,
// normalized JSON.
type ConfigurationService struct {
	repo        domain.ConfigurationRepository
	codec       domain.CipherCodec
	events      domain.EventBroadcaster
	storageSalt []byte
	logger      *slog.Logger
}

func NewConfigurationService(
	repo domain.ConfigurationRepository,
	codec domain.CipherCodec,
	events domain.EventBroadcaster,
	storageSalt []byte,
	logger *slog.Logger,
) *ConfigurationService {
	return &ConfigurationService{
		repo:        repo,
		codec:       codec,
		events:      events,
		storageSalt: storageSalt,
		logger:      logger,
	}
}

// Store persists a configuration and returns its key. A missing id gets a
// random UUID. Payloads that arrive already encrypted are decrypted and
// re-encrypted deterministically with their own salt, so re-storing an
// unchanged container is byte-identical; plain payloads use the service-wide
// storage salt.
func (s *ConfigurationService) Store(ctx context.Context, id, configuration string) (string, error) {
	key := id
	if key == "" {
		key = uuid.New().String()
	}

	value := configuration
	if s.codec.IsEncrypted(value) {
		s.logger.Info("Configuration arrived encrypted, re-encrypting deterministically", slog.String("id", key))

		salt, err := s.codec.ExtractSalt(value)
		if err != nil {
			return "", fmt.Errorf("%w: unreadable container salt: %v", domain.ErrInvalidPayload, err)
		}
		plaintext, err := s.codec.Decrypt(value)
		if err != nil {
			return "", fmt.Errorf("%w: undecryptable configuration: %v", domain.ErrInvalidPayload, err)
		}
		value, err = s.codec.EncryptDeterministic(plaintext, salt)
		if err != nil {
			return "", fmt.Errorf("failed to re-encrypt configuration: %w", err)
		}
	} else {
		var err error
		value, err = s.codec.EncryptDeterministic(value, s.storageSalt)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt configuration: %w", err)
		}
	}

	if err := s.repo.Save(ctx, &domain.Configuration{ID: key, Configuration: value}); err != nil {
		return "", err
	}

	s.events.Broadcast(domain.ConfigurationEvent{ID: key, Action: domain.ActionCreated, At: time.Now().UTC()})
	return key, nil
}

// Fetch returns one configuration decrypted and normalized for readable output.
func (s *ConfigurationService) Fetch(ctx context.Context, id string) (string, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	plaintext, err := s.codec.Decrypt(cfg.Configuration)
	if err != nil {
		s.logger.Error("Stored configuration failed to decrypt", slog.String("id", id), slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to decrypt stored configuration: %w", err)
	}

	normalized, _ := jsonutil.Normalize(plaintext)
	return normalized, nil
}

// FetchAll returns every configuration decrypted and normalized.
func (s *ConfigurationService) FetchAll(ctx context.Context) ([]domain.Configuration, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Configuration, 0, len(stored))
	for _, cfg := range stored {
		plaintext, err := s.codec.Decrypt(cfg.Configuration)
		if err != nil {
			s.logger.Error("Stored configuration failed to decrypt", slog.String("id", cfg.ID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to decrypt configuration %q: %w", cfg.ID, err)
		}
		normalized, _ := jsonutil.Normalize(plaintext)
		out = append(out, domain.Configuration{ID: cfg.ID, Configuration: normalized})
	}
	return out, nil
}

// FetchEncrypted returns the stored container untouched.
func (s *ConfigurationService) FetchEncrypted(ctx context.Context, id string) (*domain.Configuration, error) {
	return s.repo.GetByID(ctx, id)
}

// FetchAllEncrypted returns every stored container untouched.
func (s *ConfigurationService) FetchAllEncrypted(ctx context.Context) ([]domain.Configuration, error) {
	return s.repo.List(ctx)
}

// Update takes normalized JSON from the client, denormalizes it back into the
// storage format (outer document wrapped in quotes) and re-encrypts it with
// the service-wide salt.
func (s *ConfigurationService) Update(ctx context.Context, id, normalizedJSON string) error {
	denormalized, _ := jsonutil.Denormalize(normalizedJSON, true)

	value, err := s.codec.EncryptDeterministic(denormalized, s.storageSalt)
	if err != nil {
		return fmt.Errorf("failed to encrypt configuration: %w", err)
	}

	if err := s.repo.Update(ctx, &domain.Configuration{ID: id, Configuration: value}); err != nil {
		return err
	}

	s.events.Broadcast(domain.ConfigurationEvent{ID: id, Action: domain.ActionUpdated, At: time.Now().UTC()})
	return nil
}

// Delete removes a configuration.
func (s *ConfigurationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Broadcast(domain.ConfigurationEvent{ID: id, Action: domain.ActionDeleted, At: time.Now().UTC()})
	return nil
}
