package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Artifact constraints
	MaxTitleLength   int
	MaxContentLength int
	MinTitleLength   int

	// Envelope constraints
	MaxTableRows     int
	MaxTableColumns  int
	MaxDiagramNodes  int
	MaxTimelineItems int
	MaxTextBlocks    int

	// Registry constraints
	MaxRecentArtifacts int

	// Iteration constraints
	MaxIterationMessages int
	IterationTimeout     time.Duration

	// Remote reconciliation
	RemoteOpTimeout time.Duration

	// Validation settings
	AllowEmptyContent bool
	AllowUnknownCellTypes bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTitleLength:   200,
		MaxContentLength: 500000,
		MinTitleLength:   1,

		MaxTableRows:     5000,
		MaxTableColumns:  100,
		MaxDiagramNodes:  2000,
		MaxTimelineItems: 2000,
		MaxTextBlocks:    1000,

		MaxRecentArtifacts: 10,

		MaxIterationMessages: 500,
		IterationTimeout:     90 * time.Second,

		RemoteOpTimeout: 10 * time.Second,

		AllowEmptyContent:     true,
		AllowUnknownCellTypes: false,
	}
}
