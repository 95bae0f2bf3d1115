package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/commands/bus"
	cmdhandlers "mythos-backend/application/commands/handlers"
	"mythos-backend/application/ports"
	"mythos-backend/application/queries"
	querybus "mythos-backend/application/queries/bus"
	qryhandlers "mythos-backend/application/queries/handlers"
	"mythos-backend/application/registry"
	appsync "mythos-backend/application/sync"
	domaincfg "mythos-backend/domain/config"
	"mythos-backend/domain/events"
	"mythos-backend/infrastructure/cache"
	"mythos-backend/infrastructure/config"
	"mythos-backend/infrastructure/messaging/eventbridge"
	dynamostore "mythos-backend/infrastructure/persistence/dynamodb"
	memorystore "mythos-backend/infrastructure/persistence/memory"
	"mythos-backend/infrastructure/remote"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig derives the domain constraints from app config
func ProvideDomainConfig(cfg *config.Config) *domaincfg.DomainConfig {
	dc := domaincfg.DefaultDomainConfig()
	if cfg.RemoteOpTimeout > 0 {
		dc.RemoteOpTimeout = cfg.RemoteOpTimeout
	}
	if cfg.IterationTimeout > 0 {
		dc.IterationTimeout = cfg.IterationTimeout
	}
	return dc
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCache creates the artifact read cache
func ProvideCache() ports.Cache {
	return cache.NewMemoryCache(30 * time.Second)
}

// ProvideVersionStore creates the version store for the configured backend
func ProvideVersionStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.VersionStore {
	if cfg.StorageBackend == "memory" {
		return memorystore.NewVersionStore()
	}
	return dynamostore.NewVersionStore(client, cfg.DynamoDBTable, logger)
}

// ProvideArtifactRepository creates the repository for the configured backend
func ProvideArtifactRepository(
	client *awsdynamodb.Client,
	versionStore ports.VersionStore,
	readCache ports.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) ports.ArtifactRepository {
	if cfg.StorageBackend == "memory" {
		return memorystore.NewArtifactRepository()
	}
	return dynamostore.NewArtifactRepository(client, cfg.DynamoDBTable, versionStore, readCache, logger)
}

// ProvideEventPublisher creates the domain event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.StorageBackend == "memory" {
		return nopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideRemoteAuthority creates the remote engine client, or nil when no
// engine is configured (local-only mode)
func ProvideRemoteAuthority(cfg *config.Config, logger *zap.Logger) ports.RemoteAuthority {
	if cfg.RemoteEngineURL == "" {
		return nil
	}
	return remote.NewAuthority(cfg.RemoteEngineURL, cfg.RemoteEngineAPIKey, cfg.RemoteOpTimeout, logger)
}

// ProvideAIIterator creates the generation engine client, or nil when no
// engine is configured
func ProvideAIIterator(cfg *config.Config, logger *zap.Logger) ports.AIIterator {
	if cfg.RemoteEngineURL == "" {
		return nil
	}
	return remote.NewIterator(cfg.RemoteEngineURL, cfg.RemoteEngineAPIKey, cfg.IterationTimeout, logger)
}

// ProvideRegistry creates the artifact working-set registry
func ProvideRegistry(dc *domaincfg.DomainConfig) *registry.Registry {
	return registry.New(dc)
}

// ProvideCoordinator creates the sync coordinator
func ProvideCoordinator(
	repo ports.ArtifactRepository,
	publisher ports.EventPublisher,
	authority ports.RemoteAuthority,
	iterator ports.AIIterator,
	dc *domaincfg.DomainConfig,
	logger *zap.Logger,
) *appsync.Coordinator {
	return appsync.NewCoordinator(repo, publisher, authority, iterator, dc, logger)
}

// ProvideCreateArtifactHandler creates the create handler
func ProvideCreateArtifactHandler(
	repo ports.ArtifactRepository,
	publisher ports.EventPublisher,
	reg *registry.Registry,
	logger *zap.Logger,
) *cmdhandlers.CreateArtifactHandler {
	return cmdhandlers.NewCreateArtifactHandler(repo, publisher, reg, logger)
}

// ProvideApplyOperationHandler creates the apply-operation handler
func ProvideApplyOperationHandler(coordinator *appsync.Coordinator, reg *registry.Registry, logger *zap.Logger) *cmdhandlers.ApplyOperationHandler {
	return cmdhandlers.NewApplyOperationHandler(coordinator, reg, logger)
}

// ProvideIterateArtifactHandler creates the iterate handler
func ProvideIterateArtifactHandler(coordinator *appsync.Coordinator, logger *zap.Logger) *cmdhandlers.IterateArtifactHandler {
	return cmdhandlers.NewIterateArtifactHandler(coordinator, logger)
}

// ProvideRestoreVersionHandler creates the restore handler
func ProvideRestoreVersionHandler(coordinator *appsync.Coordinator, reg *registry.Registry, logger *zap.Logger) *cmdhandlers.RestoreVersionHandler {
	return cmdhandlers.NewRestoreVersionHandler(coordinator, reg, logger)
}

// ProvideSaveArtifactHandler creates the save handler
func ProvideSaveArtifactHandler(coordinator *appsync.Coordinator, logger *zap.Logger) *cmdhandlers.SaveArtifactHandler {
	return cmdhandlers.NewSaveArtifactHandler(coordinator, logger)
}

// ProvideDeleteArtifactHandler creates the delete handler
func ProvideDeleteArtifactHandler(
	repo ports.ArtifactRepository,
	publisher ports.EventPublisher,
	reg *registry.Registry,
	logger *zap.Logger,
) *cmdhandlers.DeleteArtifactHandler {
	return cmdhandlers.NewDeleteArtifactHandler(repo, publisher, reg, logger)
}

// ProvideArtifactQueryHandler creates the read-side handler
func ProvideArtifactQueryHandler(repo ports.ArtifactRepository, reg *registry.Registry, logger *zap.Logger) *qryhandlers.ArtifactQueryHandler {
	return qryhandlers.NewArtifactQueryHandler(repo, reg, logger)
}

// ProvideCommandBus creates the command bus with simple commands registered.
// Commands whose handlers return data are dispatched directly by the HTTP
// layer; the bus serves the fire-and-forget ones.
func ProvideCommandBus(
	saveHandler *cmdhandlers.SaveArtifactHandler,
	deleteHandler *cmdhandlers.DeleteArtifactHandler,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger.Sugar()))

	saveAdapter := pipeline.Execute(bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.SaveArtifactCommand)
		if !ok {
			return fmt.Errorf("unexpected command type %T", cmd)
		}
		_, err := saveHandler.Handle(ctx, c)
		return err
	}))
	if err := commandBus.Register(commands.SaveArtifactCommand{}, saveAdapter); err != nil {
		return nil, err
	}

	deleteAdapter := pipeline.Execute(bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.DeleteArtifactCommand)
		if !ok {
			return fmt.Errorf("unexpected command type %T", cmd)
		}
		return deleteHandler.Handle(ctx, c)
	}))
	if err := commandBus.Register(commands.DeleteArtifactCommand{}, deleteAdapter); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates the query bus with all read queries registered
func ProvideQueryBus(queryHandler *qryhandlers.ArtifactQueryHandler) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	register := []struct {
		query   querybus.Query
		handler querybus.QueryHandlerFunc
	}{
		{queries.GetArtifactQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return queryHandler.GetArtifact(ctx, q.(queries.GetArtifactQuery))
		}},
		{queries.ListArtifactsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return queryHandler.ListArtifacts(ctx, q.(queries.ListArtifactsQuery))
		}},
		{queries.GetVersionsQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return queryHandler.GetVersions(ctx, q.(queries.GetVersionsQuery))
		}},
		{queries.GetRecentQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return queryHandler.GetRecent(ctx, q.(queries.GetRecentQuery))
		}},
		{queries.GetSplitViewQuery{}, func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return queryHandler.GetSplitView(ctx, q.(queries.GetSplitViewQuery))
		}},
	}
	for _, entry := range register {
		if err := queryBus.Register(entry.query, entry.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}

// nopPublisher discards events, used in local-only mode
type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, evts []events.DomainEvent) error {
	return nil
}
