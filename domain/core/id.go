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

// RequestID identifies one dashboard interaction in the logs
type RequestID ID

func (id RequestID) String() string { return ID(id).String() }

// NewRequestID creates a time-ordered request identifier
func NewRequestID() RequestID {
	return RequestID(NewID())
}

// ParseRequestID accepts a caller supplied request ID. Only UUIDs are
// accepted so that arbitrary header values never reach the logs.
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid request ID %q: %w", s, err)
	}
	return RequestID(parsed.String()), nil
}
