package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kindra/application/commands"
	"kindra/application/ports"
	"kindra/domain/config"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

// AddConnectionHandler handles connection creation commands
type AddConnectionHandler struct {
	connectionRepo ports.ConnectionRepository
	cfg            *config.DomainConfig
	effects        sideEffects
	logger         *zap.Logger
}

// NewAddConnectionHandler creates a new add connection handler
func NewAddConnectionHandler(
	connectionRepo ports.ConnectionRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *AddConnectionHandler {
	return &AddConnectionHandler{
		connectionRepo: connectionRepo,
		cfg:            cfg,
		effects:        sideEffects{publisher: publisher, cache: cache, logger: logger},
		logger:         logger,
	}
}

// Handle executes the add connection command
func (h *AddConnectionHandler) Handle(ctx context.Context, cmd commands.AddConnectionCommand) error {
	connectionID, err := valueobjects.NewConnectionIDFromString(cmd.ConnectionID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	count, err := h.connectionRepo.CountByUser(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to count connections: %w", err)
	}
	if h.cfg.MaxConnectionsPerUser > 0 && count >= h.cfg.MaxConnectionsPerUser {
		return pkgerrors.ErrConnectionLimitExceeded(h.cfg.MaxConnectionsPerUser)
	}

	connection, err := entities.NewConnectionWithConfig(cmd.UserID, entities.ConnectionInput{
		ID:                connectionID,
		Name:              cmd.Name,
		RelationshipStage: cmd.RelationshipStage,
		ZodiacSign:        cmd.ZodiacSign,
		LoveLanguage:      cmd.LoveLanguage,
	}, h.cfg)
	if err != nil {
		return err
	}

	if err := h.connectionRepo.Save(ctx, connection); err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}

	h.effects.afterWrite(ctx, cmd.UserID, connection)

	h.logger.Info("Connection added",
		zap.String("connectionID", cmd.ConnectionID),
		zap.String("userID", cmd.UserID),
		zap.String("stage", string(connection.RelationshipStage())),
	)
	return nil
}

// UpdateProfileHandler upserts the user's profile
type UpdateProfileHandler struct {
	profileRepo ports.ProfileRepository
	cache       ports.Cache
	logger      *zap.Logger
}

// NewUpdateProfileHandler creates a new update profile handler
func NewUpdateProfileHandler(profileRepo ports.ProfileRepository, cache ports.Cache, logger *zap.Logger) *UpdateProfileHandler {
	return &UpdateProfileHandler{
		profileRepo: profileRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Handle executes the update profile command
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd commands.UpdateProfileCommand) error {
	profile, err := h.profileRepo.Get(ctx, cmd.UserID)
	switch {
	case pkgerrors.IsNotFound(err):
		if profile, err = entities.NewProfile(cmd.UserID); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("failed to get profile: %w", err)
	}

	if err := profile.Update(cmd.ZodiacSign, cmd.LoveLanguage); err != nil {
		return err
	}

	if err := h.profileRepo.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if h.cache != nil {
		h.cache.DeletePrefix(ctx, ports.UserCachePrefix(cmd.UserID))
	}

	h.logger.Info("Profile updated", zap.String("userID", cmd.UserID))
	return nil
}
