package commands

import "kindra/pkg/utils"

// AddConnectionCommand represents the command to add a person to track
type AddConnectionCommand struct {
	ConnectionID      string `json:"connection_id" validate:"required,uuid"`
	UserID            string `json:"user_id" validate:"required"`
	Name              string `json:"name" validate:"required,notblank,max=100"`
	RelationshipStage string `json:"relationship_stage" validate:"required"`
	ZodiacSign        string `json:"zodiac_sign"`
	LoveLanguage      string `json:"love_language"`
}

// Validate validates the command. Stage, sign and love language values are
// checked by the domain constructor.
func (cmd AddConnectionCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateProfileCommand upserts the user's own zodiac sign and love language
type UpdateProfileCommand struct {
	UserID       string `json:"user_id" validate:"required"`
	ZodiacSign   string `json:"zodiac_sign"`
	LoveLanguage string `json:"love_language"`
}

// Validate validates the command
func (cmd UpdateProfileCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
