package main

import (
	"encoding/json"
	"fmt"
	"os"

	"kindra/domain/core/entities"
	pkgerrors "kindra/pkg/errors"
)

// defaultUser owns exports that do not name a user
const defaultUser = "local"

// Export is a user's data as written by the export endpoint or by hand
type Export struct {
	Profile     entities.ProfileSnapshot      `json:"profile"`
	Connections []entities.ConnectionSnapshot `json:"connections"`
	Moments     []entities.MomentSnapshot     `json:"moments"`
}

// LoadExport reads and validates an export file
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}
	if err := export.normalize(); err != nil {
		return nil, err
	}
	return &export, nil
}

// normalize fills in the owner and checks every record through the entity
// constructors
func (e *Export) normalize() error {
	if e.Profile.UserID == "" {
		e.Profile.UserID = defaultUser
	}
	owner := e.Profile.UserID

	verrs := pkgerrors.NewValidationErrors()
	known := make(map[string]bool, len(e.Connections))
	for i := range e.Connections {
		c := &e.Connections[i]
		c.UserID = owner
		if _, err := entities.ReconstructConnection(*c); err != nil {
			verrs.Add(fmt.Sprintf("connections[%d]", i), err.Error())
			continue
		}
		known[c.ID] = true
	}

	for i := range e.Moments {
		m := &e.Moments[i]
		m.UserID = owner
		if _, err := entities.ReconstructMoment(*m); err != nil {
			verrs.Add(fmt.Sprintf("moments[%d]", i), err.Error())
			continue
		}
		if !known[m.ConnectionID] {
			verrs.Add(fmt.Sprintf("moments[%d]", i), "unknown connection "+m.ConnectionID)
		}
	}

	return verrs.OrNil()
}
