// Package commands defines the write-side operations of the engine
package commands

import (
	"encoding/json"

	"mythos-backend/domain/ops"
	"mythos-backend/pkg/utils"
	pkgerrors "mythos-backend/pkg/errors"
)

// CreateArtifactCommand creates a new artifact in a project
type CreateArtifactCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	Title     string `json:"title" validate:"required,min=1,max=300"`
	Kind      string `json:"kind" validate:"required"`
	Format    string `json:"format" validate:"omitempty,oneof=json markdown plain"`
	Content   string `json:"content"`
	CreatedBy string `json:"created_by" validate:"required"`
}

// Validate validates the command
func (c CreateArtifactCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ApplyOperationCommand applies a structural operation to an artifact
type ApplyOperationCommand struct {
	ProjectID string          `json:"project_id" validate:"required"`
	Key       string          `json:"key" validate:"required"`
	Operation json.RawMessage `json:"operation" validate:"required"`
}

// Validate validates the command and decodes the operation payload
func (c ApplyOperationCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	_, err := c.DecodeOperation()
	return err
}

// DecodeOperation unmarshals the raw operation payload
func (c ApplyOperationCommand) DecodeOperation() (ops.Operation, error) {
	var op ops.Operation
	if err := json.Unmarshal(c.Operation, &op); err != nil {
		return ops.Operation{}, pkgerrors.NewValidationError("malformed operation payload: " + err.Error())
	}
	return op, nil
}

// IterateArtifactCommand runs one AI refinement round on an artifact
type IterateArtifactCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	Key       string `json:"key" validate:"required"`
	Prompt    string `json:"prompt" validate:"required,min=1,max=10000"`
	Context   string `json:"context" validate:"max=50000"`
}

// Validate validates the command
func (c IterateArtifactCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RestoreVersionCommand re-points an artifact at an earlier version
type RestoreVersionCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	Key       string `json:"key" validate:"required"`
	VersionID string `json:"version_id" validate:"required"`
}

// Validate validates the command
func (c RestoreVersionCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// SaveArtifactCommand transitions an artifact from draft to saved
type SaveArtifactCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	Key       string `json:"key" validate:"required"`
}

// Validate validates the command
func (c SaveArtifactCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteArtifactCommand removes an artifact
type DeleteArtifactCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	Key       string `json:"key" validate:"required"`
}

// Validate validates the command
func (c DeleteArtifactCommand) Validate() error {
	return utils.ValidateStruct(c)
}
