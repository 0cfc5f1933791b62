package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"kindra/application/ports"
)

// socketTTL bounds how long a socket record outlives a missed $disconnect
const socketTTL = 2 * time.Hour

// SocketStore keeps websocket connection ids in the connections table
type SocketStore struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewSocketStore creates a new SocketStore
func NewSocketStore(client API, tableName, indexName string, logger *zap.Logger) *SocketStore {
	return &SocketStore{client: client, tableName: tableName, indexName: indexName, logger: logger}
}

type socketItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"`
	GSI1SK       string `dynamodbav:"GSI1SK"`
	EntityType   string `dynamodbav:"EntityType"`
	ConnectionID string `dynamodbav:"connectionId"`
	UserID       string `dynamodbav:"userId"`
	ConnectedAt  string `dynamodbav:"ConnectedAt"`
	TTL          int64  `dynamodbav:"TTL"`
}

// Add registers a socket for a user
func (s *SocketStore) Add(ctx context.Context, socketID, userID string) error {
	now := time.Now().UTC()
	av, err := attributevalue.MarshalMap(socketItem{
		PK:           socketPK(socketID),
		SK:           "METADATA",
		GSI1PK:       userPK(userID),
		GSI1SK:       socketPK(socketID),
		EntityType:   entitySocket,
		ConnectionID: socketID,
		UserID:       userID,
		ConnectedAt:  formatTime(now),
		TTL:          now.Add(socketTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal socket: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to store socket %s: %w", socketID, err)
	}
	return nil
}

// Remove forgets a socket. Removing an unknown socket is not an error.
func (s *SocketStore) Remove(ctx context.Context, socketID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: socketPK(socketID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to remove socket %s: %w", socketID, err)
	}
	return nil
}

// ListByUser returns the user's open socket ids, sorted
func (s *SocketStore) ListByUser(ctx context.Context, userID string) ([]string, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("GSI1SK").BeginsWith("SOCKET#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build socket query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var ids []string
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sockets: %w", err)
		}
		for _, av := range page.Items {
			var item socketItem
			if err := attributevalue.UnmarshalMap(av, &item); err != nil {
				s.logger.Warn("Failed to unmarshal socket item", zap.Error(err))
				continue
			}
			ids = append(ids, item.ConnectionID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

var _ ports.SocketStore = (*SocketStore)(nil)
