// Package di wires the application's dependency graph with google/wire
package di

import (
	"context"

	"go.uber.org/zap"

	"mythos-backend/application/commands/bus"
	cmdhandlers "mythos-backend/application/commands/handlers"
	"mythos-backend/application/ports"
	querybus "mythos-backend/application/queries/bus"
	qryhandlers "mythos-backend/application/queries/handlers"
	"mythos-backend/application/registry"
	appsync "mythos-backend/application/sync"
	"mythos-backend/infrastructure/config"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Repo           ports.ArtifactRepository
	VersionStore   ports.VersionStore
	Publisher      ports.EventPublisher
	Cache          ports.Cache
	Registry       *registry.Registry
	Coordinator    *appsync.Coordinator
	CreateHandler  *cmdhandlers.CreateArtifactHandler
	ApplyHandler   *cmdhandlers.ApplyOperationHandler
	IterateHandler *cmdhandlers.IterateArtifactHandler
	RestoreHandler *cmdhandlers.RestoreVersionHandler
	SaveHandler    *cmdhandlers.SaveArtifactHandler
	DeleteHandler  *cmdhandlers.DeleteArtifactHandler
	QueryHandler   *qryhandlers.ArtifactQueryHandler
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
}

// Shutdown flushes in-flight work and releases resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Coordinator != nil {
		if err := c.Coordinator.Shutdown(ctx); err != nil {
			return err
		}
	}
	if c.Registry != nil {
		c.Registry.Dispose()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return nil
}
