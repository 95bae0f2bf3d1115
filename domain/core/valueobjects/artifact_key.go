package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ArtifactKey is a value object identifying an artifact within a project.
// Value objects are immutable and have no identity beyond their value.
type ArtifactKey struct {
	value string
}

// NewArtifactKey creates a new random ArtifactKey
func NewArtifactKey() ArtifactKey {
	return ArtifactKey{value: uuid.New().String()}
}

// NewArtifactKeyFromString creates an ArtifactKey from an existing string
func NewArtifactKeyFromString(key string) (ArtifactKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return ArtifactKey{}, errors.New("artifact key cannot be empty")
	}
	if strings.ContainsAny(key, " \t\n") {
		return ArtifactKey{}, errors.New("artifact key cannot contain whitespace")
	}
	return ArtifactKey{value: key}, nil
}

// String returns the string representation of the ArtifactKey
func (k ArtifactKey) String() string {
	return k.value
}

// Equals checks if two ArtifactKeys are equal
func (k ArtifactKey) Equals(other ArtifactKey) bool {
	return k.value == other.value
}

// IsZero checks if the ArtifactKey is the zero value
func (k ArtifactKey) IsZero() bool {
	return k.value == ""
}

// MarshalJSON implements json.Marshaler
func (k ArtifactKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (k *ArtifactKey) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ArtifactKey must be a string")
	}
	k.value = string(data[1 : len(data)-1])
	return nil
}
