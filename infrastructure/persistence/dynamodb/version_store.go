package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/versioning"
)

// VersionStore persists version snapshots in a per-artifact partition,
// keyed so a single query returns the history in chronological order
type VersionStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewVersionStore creates a new VersionStore
func NewVersionStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *VersionStore {
	return &VersionStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// versionItem represents the DynamoDB item structure for a version snapshot
type versionItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	VersionID  string `dynamodbav:"VersionID"`
	Content    string `dynamodbav:"Content"`
	Trigger    string `dynamodbav:"Trigger"`
	Timestamp  string `dynamodbav:"Timestamp"`
}

func versionPK(projectID string, key valueobjects.ArtifactKey) string {
	return fmt.Sprintf("PROJECT#%s#ARTIFACT#%s", projectID, key.String())
}

// Append writes one snapshot. Snapshots are immutable; writing the same id
// twice is an idempotent overwrite.
func (s *VersionStore) Append(ctx context.Context, projectID string, key valueobjects.ArtifactKey, version versioning.Version) error {
	item := versionItem{
		PK:         versionPK(projectID, key),
		SK:         fmt.Sprintf("VERSION#%s#%s", version.Timestamp.UTC().Format(time.RFC3339Nano), version.ID),
		EntityType: "VERSION",
		VersionID:  version.ID,
		Content:    version.Content,
		Trigger:    string(version.Trigger),
		Timestamp:  version.Timestamp.Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal version: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("Failed to save version to DynamoDB",
			zap.Error(err),
			zap.String("versionID", version.ID),
		)
		return fmt.Errorf("failed to save version: %w", err)
	}
	return nil
}

// Load returns an artifact's snapshots in chronological order
func (s *VersionStore) Load(ctx context.Context, projectID string, key valueobjects.ArtifactKey) ([]versioning.Version, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: versionPK(projectID, key)},
			":sk": &types.AttributeValueMemberS{Value: "VERSION#"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	var versions []versioning.Version
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query versions: %w", err)
		}
		for _, raw := range page.Items {
			var item versionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal version: %w", err)
			}
			ts, err := time.Parse(time.RFC3339Nano, item.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("invalid version timestamp: %w", err)
			}
			versions = append(versions, versioning.Version{
				ID:        item.VersionID,
				Content:   item.Content,
				Timestamp: ts,
				Trigger:   versioning.Trigger(item.Trigger),
			})
		}
	}
	return versions, nil
}
