package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// MomentID is a value object representing a unique moment identifier
// Value objects are immutable and have no identity beyond their value
type MomentID struct {
	value string
}

// NewMomentID creates a new random MomentID
func NewMomentID() MomentID {
	return MomentID{value: uuid.New().String()}
}

// NewMomentIDFromString creates a MomentID from an existing string
func NewMomentIDFromString(id string) (MomentID, error) {
	if err := parseUUID(id, "moment"); err != nil {
		return MomentID{}, err
	}
	return MomentID{value: id}, nil
}

// String returns the string representation of the MomentID
func (id MomentID) String() string {
	return id.value
}

// Equals checks if two MomentIDs are equal
func (id MomentID) Equals(other MomentID) bool {
	return id.value == other.value
}

// IsZero checks if the MomentID is the zero value
func (id MomentID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id MomentID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *MomentID) UnmarshalJSON(data []byte) error {
	value, err := unquoteID(data, "MomentID")
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

// ConnectionID identifies a tracked person the user logs moments about
type ConnectionID struct {
	value string
}

// NewConnectionID creates a new random ConnectionID
func NewConnectionID() ConnectionID {
	return ConnectionID{value: uuid.New().String()}
}

// NewConnectionIDFromString creates a ConnectionID from an existing string
func NewConnectionIDFromString(id string) (ConnectionID, error) {
	if err := parseUUID(id, "connection"); err != nil {
		return ConnectionID{}, err
	}
	return ConnectionID{value: id}, nil
}

// String returns the string representation of the ConnectionID
func (id ConnectionID) String() string {
	return id.value
}

// Equals checks if two ConnectionIDs are equal
func (id ConnectionID) Equals(other ConnectionID) bool {
	return id.value == other.value
}

// IsZero checks if the ConnectionID is the zero value
func (id ConnectionID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ConnectionID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ConnectionID) UnmarshalJSON(data []byte) error {
	value, err := unquoteID(data, "ConnectionID")
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

func parseUUID(id, kind string) error {
	if id == "" {
		return errors.New(kind + " ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(kind + " ID must be a valid UUID")
	}
	return nil
}

func unquoteID(data []byte, typeName string) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", errors.New(typeName + " must be a string")
	}
	return string(data[1 : len(data)-1]), nil
}
