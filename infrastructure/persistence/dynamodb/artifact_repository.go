// Package dynamodb implements the persistence ports on a single DynamoDB
// table. Artifacts live under PROJECT# partitions; version snapshots live in
// a per-artifact partition so history loads with one query.
package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mythos-backend/application/ports"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/versioning"
	pkgerrors "mythos-backend/pkg/errors"
)

// ArtifactRepository implements ports.ArtifactRepository using DynamoDB
type ArtifactRepository struct {
	client       *dynamodb.Client
	tableName    string
	versionStore ports.VersionStore
	cache        ports.Cache
	logger       *zap.Logger
}

// NewArtifactRepository creates a new ArtifactRepository. cache may be nil.
func NewArtifactRepository(client *dynamodb.Client, tableName string, versionStore ports.VersionStore, cache ports.Cache, logger *zap.Logger) *ArtifactRepository {
	return &ArtifactRepository{
		client:       client,
		tableName:    tableName,
		versionStore: versionStore,
		cache:        cache,
		logger:       logger,
	}
}

// cachedArtifact is the cache payload: the raw item plus its history, so a
// hit avoids both the GetItem and the version query
type cachedArtifact struct {
	Item     artifactItem         `json:"item"`
	Versions []versioning.Version `json:"versions"`
}

func cacheKey(projectID string, key valueobjects.ArtifactKey) string {
	return "artifact:" + projectID + ":" + key.String()
}

// artifactItem represents the DynamoDB item structure for an artifact
type artifactItem struct {
	PK               string `dynamodbav:"PK"`
	SK               string `dynamodbav:"SK"`
	EntityType       string `dynamodbav:"EntityType"`
	ArtifactKey      string `dynamodbav:"ArtifactKey"`
	ProjectID        string `dynamodbav:"ProjectID"`
	Title            string `dynamodbav:"Title"`
	Kind             string `dynamodbav:"Kind"`
	Format           string `dynamodbav:"Format"`
	Content          string `dynamodbav:"Content"`
	Status           string `dynamodbav:"Status"`
	Staleness        string `dynamodbav:"Staleness"`
	CurrentVersionID string `dynamodbav:"CurrentVersionID"`
	Messages         string `dynamodbav:"Messages,omitempty"`
	CreatedBy        string `dynamodbav:"CreatedBy"`
	CreatedAt        string `dynamodbav:"CreatedAt"`
	UpdatedAt        string `dynamodbav:"UpdatedAt"`
}

func artifactPK(projectID string) string {
	return fmt.Sprintf("PROJECT#%s", projectID)
}

func artifactSK(key valueobjects.ArtifactKey) string {
	return fmt.Sprintf("ARTIFACT#%s", key.String())
}

// Save persists the artifact record and its newly appended versions
func (r *ArtifactRepository) Save(ctx context.Context, artifact *entities.Artifact) error {
	messages, err := json.Marshal(artifact.Messages())
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	item := artifactItem{
		PK:               artifactPK(artifact.ProjectID()),
		SK:               artifactSK(artifact.Key()),
		EntityType:       "ARTIFACT",
		ArtifactKey:      artifact.Key().String(),
		ProjectID:        artifact.ProjectID(),
		Title:            artifact.Title(),
		Kind:             string(artifact.Kind()),
		Format:           string(artifact.Format()),
		Content:          artifact.Content(),
		Status:           string(artifact.Status()),
		Staleness:        string(artifact.Staleness()),
		CurrentVersionID: artifact.CurrentVersionID(),
		Messages:         string(messages),
		CreatedBy:        artifact.CreatedBy(),
		CreatedAt:        artifact.CreatedAt().Format(time.RFC3339),
		UpdatedAt:        artifact.UpdatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save artifact to DynamoDB",
			zap.Error(err),
			zap.String("artifactKey", artifact.Key().String()),
		)
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	// Only snapshots appended since the last save go out; everything
	// earlier is already stored and immutable
	for _, v := range artifact.History().UncommittedVersions() {
		if err := r.versionStore.Append(ctx, artifact.ProjectID(), artifact.Key(), v); err != nil {
			return fmt.Errorf("failed to persist version %s: %w", v.ID, err)
		}
	}
	artifact.History().MarkVersionsCommitted()

	if r.cache != nil {
		if err := r.cache.Delete(ctx, cacheKey(artifact.ProjectID(), artifact.Key())); err != nil {
			r.logger.Warn("failed to invalidate artifact cache",
				zap.String("artifactKey", artifact.Key().String()), zap.Error(err))
		}
	}

	return nil
}

// FindByKey retrieves an artifact with its full version history
func (r *ArtifactRepository) FindByKey(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (*entities.Artifact, error) {
	if r.cache != nil {
		if raw, ok, err := r.cache.Get(ctx, cacheKey(projectID, key)); err == nil && ok {
			var cached cachedArtifact
			if err := json.Unmarshal(raw, &cached); err == nil {
				if artifact, err := r.reconstruct(cached.Item, cached.Versions); err == nil {
					return artifact, nil
				}
			}
		}
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: artifactPK(projectID)},
			"SK": &types.AttributeValueMemberS{Value: artifactSK(key)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("artifact")
	}

	var item artifactItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}

	versions, err := r.versionStore.Load(ctx, projectID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load version history: %w", err)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(cachedArtifact{Item: item, Versions: versions}); err == nil {
			if err := r.cache.Set(ctx, cacheKey(projectID, key), raw); err != nil {
				r.logger.Debug("failed to cache artifact", zap.Error(err))
			}
		}
	}

	return r.reconstruct(item, versions)
}

// FindByProject retrieves a project's artifacts. Histories are seeded from
// the current content only; FindByKey loads the full history.
func (r *ArtifactRepository) FindByProject(ctx context.Context, projectID string, limit int) ([]*entities.Artifact, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: artifactPK(projectID)},
			":sk": &types.AttributeValueMemberS{Value: "ARTIFACT#"},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}

	artifacts := make([]*entities.Artifact, 0, len(result.Items))
	for _, raw := range result.Items {
		var item artifactItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("skipping unreadable artifact item", zap.Error(err))
			continue
		}
		artifact, err := r.reconstruct(item, nil)
		if err != nil {
			r.logger.Warn("skipping unreconstructable artifact",
				zap.String("artifactKey", item.ArtifactKey), zap.Error(err))
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// Delete removes the artifact record and its version snapshots
func (r *ArtifactRepository) Delete(ctx context.Context, projectID string, key valueobjects.ArtifactKey) error {
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: artifactPK(projectID)},
			"SK": &types.AttributeValueMemberS{Value: artifactSK(key)},
		},
	}); err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, cacheKey(projectID, key)); err != nil {
			r.logger.Warn("failed to invalidate artifact cache", zap.Error(err))
		}
	}
	return nil
}

// Exists reports whether the artifact record is present
func (r *ArtifactRepository) Exists(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (bool, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: artifactPK(projectID)},
			"SK": &types.AttributeValueMemberS{Value: artifactSK(key)},
		},
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to check artifact existence: %w", err)
	}
	return result.Item != nil, nil
}

func (r *ArtifactRepository) reconstruct(item artifactItem, versions []versioning.Version) (*entities.Artifact, error) {
	key, err := valueobjects.NewArtifactKeyFromString(item.ArtifactKey)
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid UpdatedAt: %w", err)
	}

	var history *versioning.History
	if len(versions) > 0 {
		history, err = versioning.ReconstructHistory(versions, item.CurrentVersionID)
		if err != nil {
			return nil, fmt.Errorf("invalid version history: %w", err)
		}
	} else {
		history = versioning.NewHistory(item.Content, updatedAt)
	}

	var messages []entities.IterationMessage
	if item.Messages != "" {
		if err := json.Unmarshal([]byte(item.Messages), &messages); err != nil {
			return nil, fmt.Errorf("invalid transcript: %w", err)
		}
	}

	return entities.ReconstructArtifact(
		key,
		item.ProjectID,
		item.Title,
		entities.ArtifactType(item.Kind),
		entities.ContentFormat(item.Format),
		item.Content,
		entities.ArtifactStatus(item.Status),
		entities.Staleness(item.Staleness),
		item.CreatedBy,
		createdAt,
		updatedAt,
		history,
		messages,
	)
}
