package commands

import (
	"time"

	"kindra/pkg/utils"
)

// LogMomentCommand represents the command to log a new moment
type LogMomentCommand struct {
	MomentID                string    `json:"moment_id" validate:"required,uuid"`
	UserID                  string    `json:"user_id" validate:"required"`
	ConnectionID            string    `json:"connection_id" validate:"required,uuid"`
	Emoji                   string    `json:"emoji" validate:"required,notblank,max=32"`
	Tags                    []string  `json:"tags" validate:"max=20,dive,max=50"`
	Content                 string    `json:"content" validate:"max=5000"`
	IsIntimate              bool      `json:"is_intimate"`
	RelatedToMenstrualCycle bool      `json:"related_to_menstrual_cycle"`
	CreatedAt               time.Time `json:"created_at"`
}

// Validate validates the command
func (cmd LogMomentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ResolveMomentCommand marks a moment as worked through
type ResolveMomentCommand struct {
	MomentID string `json:"moment_id" validate:"required,uuid"`
	UserID   string `json:"user_id" validate:"required"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// Validate validates the command
func (cmd ResolveMomentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteMomentCommand removes one of the user's moments
type DeleteMomentCommand struct {
	MomentID string `json:"moment_id" validate:"required,uuid"`
	UserID   string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteMomentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
