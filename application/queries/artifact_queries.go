// Package queries defines the read-side operations of the engine
package queries

import "errors"

// GetArtifactQuery represents a query to get a single artifact
type GetArtifactQuery struct {
	ProjectID string
	Key       string
}

// Validate validates the GetArtifactQuery
func (q GetArtifactQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.Key == "" {
		return errors.New("artifact key is required")
	}
	return nil
}

// ArtifactResult represents a single artifact in query responses
type ArtifactResult struct {
	Key              string          `json:"key"`
	ProjectID        string          `json:"projectId"`
	Title            string          `json:"title"`
	Kind             string          `json:"kind"`
	Format           string          `json:"format"`
	Content          string          `json:"content"`
	Status           string          `json:"status"`
	Staleness        string          `json:"staleness"`
	CurrentVersionID string          `json:"currentVersionId"`
	VersionCount     int             `json:"versionCount"`
	Messages         []MessageResult `json:"messages,omitempty"`
	CreatedBy        string          `json:"createdBy"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}

// MessageResult is one transcript entry in query responses
type MessageResult struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ListArtifactsQuery represents a query for a project's artifacts
type ListArtifactsQuery struct {
	ProjectID string
	Limit     int
}

// Validate validates the ListArtifactsQuery
func (q ListArtifactsQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// ListArtifactsResult represents a page of artifacts
type ListArtifactsResult struct {
	Artifacts []ArtifactResult `json:"artifacts"`
	Count     int              `json:"count"`
}

// GetVersionsQuery represents a query for an artifact's version history
type GetVersionsQuery struct {
	ProjectID string
	Key       string
}

// Validate validates the GetVersionsQuery
func (q GetVersionsQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.Key == "" {
		return errors.New("artifact key is required")
	}
	return nil
}

// VersionResult is one history entry in query responses
type VersionResult struct {
	ID        string `json:"id"`
	Trigger   string `json:"trigger"`
	Timestamp string `json:"timestamp"`
	Current   bool   `json:"current"`
	Size      int    `json:"size"`
}

// GetVersionsResult represents an artifact's full history
type GetVersionsResult struct {
	Key      string          `json:"key"`
	Versions []VersionResult `json:"versions"`
}

// GetRecentQuery represents a query for the most-recently-used artifacts
type GetRecentQuery struct {
	ProjectID string
}

// Validate validates the GetRecentQuery
func (q GetRecentQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	return nil
}

// GetRecentResult lists recently used artifacts, newest first
type GetRecentResult struct {
	Artifacts []ArtifactResult `json:"artifacts"`
}

// GetSplitViewQuery represents a query for the current split-view pairing
type GetSplitViewQuery struct {
	ProjectID string
}

// Validate validates the GetSplitViewQuery
func (q GetSplitViewQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	return nil
}

// GetSplitViewResult holds both sides of the pairing, when one exists
type GetSplitViewResult struct {
	Active bool            `json:"active"`
	Left   *ArtifactResult `json:"left,omitempty"`
	Right  *ArtifactResult `json:"right,omitempty"`
}
