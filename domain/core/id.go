package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID       ID
	MetricKey   ID
	AnalysisKey ID
)

func (id RunID) String() string       { return ID(id).String() }
func (id MetricKey) String() string   { return ID(id).String() }
func (id AnalysisKey) String() string { return ID(id).String() }

// NewRunID creates a time-ordered run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseAnalysisKey parses a string into AnalysisKey
func ParseAnalysisKey(s string) (AnalysisKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("analysis key cannot be empty")
	}
	return AnalysisKey(s), nil
}
