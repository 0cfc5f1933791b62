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

// LogMomentHandler handles moment logging commands
type LogMomentHandler struct {
	momentRepo     ports.MomentRepository
	connectionRepo ports.ConnectionRepository
	cfg            *config.DomainConfig
	effects        sideEffects
	logger         *zap.Logger
}

// NewLogMomentHandler creates a new log moment handler
func NewLogMomentHandler(
	momentRepo ports.MomentRepository,
	connectionRepo ports.ConnectionRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *LogMomentHandler {
	return &LogMomentHandler{
		momentRepo:     momentRepo,
		connectionRepo: connectionRepo,
		cfg:            cfg,
		effects:        sideEffects{publisher: publisher, cache: cache, logger: logger},
		logger:         logger,
	}
}

// Handle executes the log moment command
func (h *LogMomentHandler) Handle(ctx context.Context, cmd commands.LogMomentCommand) error {
	momentID, err := valueobjects.NewMomentIDFromString(cmd.MomentID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	connectionID, err := valueobjects.NewConnectionIDFromString(cmd.ConnectionID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	// Verify connection exists and belongs to user
	connection, err := h.connectionRepo.GetByID(ctx, connectionID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return pkgerrors.ErrConnectionNotFound(cmd.ConnectionID)
		}
		return fmt.Errorf("failed to get connection: %w", err)
	}
	if !connection.IsOwnedBy(cmd.UserID) {
		h.logger.Warn("Moment logged against another user's connection",
			zap.String("userID", cmd.UserID),
			zap.String("connectionID", cmd.ConnectionID),
		)
		return pkgerrors.ErrConnectionNotOwned(cmd.ConnectionID)
	}

	moment, err := entities.NewMomentWithConfig(cmd.UserID, entities.MomentInput{
		ID:                      momentID,
		ConnectionID:            connectionID,
		Emoji:                   cmd.Emoji,
		Tags:                    cmd.Tags,
		Content:                 cmd.Content,
		IsIntimate:              cmd.IsIntimate,
		RelatedToMenstrualCycle: cmd.RelatedToMenstrualCycle,
		CreatedAt:               cmd.CreatedAt,
	}, h.cfg)
	if err != nil {
		return err
	}

	if err := h.momentRepo.Save(ctx, moment); err != nil {
		return fmt.Errorf("failed to save moment: %w", err)
	}

	h.effects.afterWrite(ctx, cmd.UserID, moment)

	h.logger.Info("Moment logged",
		zap.String("momentID", cmd.MomentID),
		zap.String("userID", cmd.UserID),
		zap.String("polarity", string(moment.Polarity())),
	)
	return nil
}

// ResolveMomentHandler handles moment resolution commands
type ResolveMomentHandler struct {
	momentRepo ports.MomentRepository
	cfg        *config.DomainConfig
	effects    sideEffects
	logger     *zap.Logger
}

// NewResolveMomentHandler creates a new resolve moment handler
func NewResolveMomentHandler(
	momentRepo ports.MomentRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ResolveMomentHandler {
	return &ResolveMomentHandler{
		momentRepo: momentRepo,
		cfg:        cfg,
		effects:    sideEffects{publisher: publisher, cache: cache, logger: logger},
		logger:     logger,
	}
}

// Handle executes the resolve moment command
func (h *ResolveMomentHandler) Handle(ctx context.Context, cmd commands.ResolveMomentCommand) error {
	momentID, err := valueobjects.NewMomentIDFromString(cmd.MomentID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	moment, err := h.momentRepo.GetByID(ctx, cmd.UserID, momentID)
	if err != nil {
		return fmt.Errorf("failed to get moment: %w", err)
	}

	if err := moment.ResolveWithConfig(cmd.Notes, h.cfg); err != nil {
		return err
	}

	if err := h.momentRepo.Save(ctx, moment); err != nil {
		return fmt.Errorf("failed to save moment: %w", err)
	}

	h.effects.afterWrite(ctx, cmd.UserID, moment)

	h.logger.Info("Moment resolved",
		zap.String("momentID", cmd.MomentID),
		zap.String("userID", cmd.UserID),
	)
	return nil
}

// DeleteMomentHandler handles moment deletion commands
type DeleteMomentHandler struct {
	momentRepo ports.MomentRepository
	effects    sideEffects
	logger     *zap.Logger
}

// NewDeleteMomentHandler creates a new delete moment handler
func NewDeleteMomentHandler(
	momentRepo ports.MomentRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	logger *zap.Logger,
) *DeleteMomentHandler {
	return &DeleteMomentHandler{
		momentRepo: momentRepo,
		effects:    sideEffects{publisher: publisher, cache: cache, logger: logger},
		logger:     logger,
	}
}

// Handle executes the delete moment command
func (h *DeleteMomentHandler) Handle(ctx context.Context, cmd commands.DeleteMomentCommand) error {
	momentID, err := valueobjects.NewMomentIDFromString(cmd.MomentID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	// Verify moment exists and belongs to user
	moment, err := h.momentRepo.GetByID(ctx, cmd.UserID, momentID)
	if err != nil {
		return fmt.Errorf("failed to get moment: %w", err)
	}

	if err := h.momentRepo.Delete(ctx, cmd.UserID, momentID); err != nil {
		return fmt.Errorf("failed to delete moment: %w", err)
	}

	moment.MarkDeleted()
	h.effects.afterWrite(ctx, cmd.UserID, moment)

	h.logger.Info("Moment deleted",
		zap.String("momentID", cmd.MomentID),
		zap.String("userID", cmd.UserID),
	)
	return nil
}
