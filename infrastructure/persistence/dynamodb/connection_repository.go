package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

// ConnectionRepository implements ports.ConnectionRepository using DynamoDB
type ConnectionRepository struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(client API, tableName, indexName string, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

type connectionItem struct {
	PK                string `dynamodbav:"PK"`
	SK                string `dynamodbav:"SK"`
	GSI1PK            string `dynamodbav:"GSI1PK"`
	GSI1SK            string `dynamodbav:"GSI1SK"`
	EntityType        string `dynamodbav:"EntityType"`
	ConnectionID      string `dynamodbav:"ConnectionID"`
	UserID            string `dynamodbav:"UserID"`
	Name              string `dynamodbav:"Name"`
	RelationshipStage string `dynamodbav:"RelationshipStage"`
	ZodiacSign        string `dynamodbav:"ZodiacSign,omitempty"`
	LoveLanguage      string `dynamodbav:"LoveLanguage,omitempty"`
	CreatedAt         string `dynamodbav:"CreatedAt"`
}

func toConnectionItem(c *entities.Connection) connectionItem {
	s := c.Snapshot()
	return connectionItem{
		PK:                userPK(s.UserID),
		SK:                connectionSK(s.ID),
		GSI1PK:            connectionGSI1PK(s.ID),
		GSI1SK:            userPK(s.UserID),
		EntityType:        entityConnection,
		ConnectionID:      s.ID,
		UserID:            s.UserID,
		Name:              s.Name,
		RelationshipStage: string(s.RelationshipStage),
		ZodiacSign:        string(s.ZodiacSign),
		LoveLanguage:      string(s.LoveLanguage),
		CreatedAt:         formatTime(s.CreatedAt),
	}
}

func (item connectionItem) toEntity() (*entities.Connection, error) {
	return entities.ReconstructConnection(entities.ConnectionSnapshot{
		ID:                item.ConnectionID,
		UserID:            item.UserID,
		Name:              item.Name,
		RelationshipStage: valueobjects.RelationshipStage(item.RelationshipStage),
		ZodiacSign:        valueobjects.ZodiacSign(item.ZodiacSign),
		LoveLanguage:      valueobjects.LoveLanguage(item.LoveLanguage),
		CreatedAt:         parseTime(item.CreatedAt),
	})
}

// Save persists a connection
func (r *ConnectionRepository) Save(ctx context.Context, connection *entities.Connection) error {
	av, err := attributevalue.MarshalMap(toConnectionItem(connection))
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save connection to DynamoDB",
			zap.String("connectionID", connection.ID().String()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("save connection", err)
	}
	return nil
}

// GetByID finds a connection through GSI1 regardless of owner
func (r *ConnectionRepository) GetByID(ctx context.Context, id valueobjects.ConnectionID) (*entities.Connection, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(connectionGSI1PK(id.String())))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection lookup: %w", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get connection", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.ErrConnectionNotFound(id.String())
	}

	var item connectionItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}
	return item.toEntity()
}

// ListByUser returns the user's connections in creation order
func (r *ConnectionRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Connection, error) {
	input, err := r.listInput(userID)
	if err != nil {
		return nil, err
	}

	var connections []*entities.Connection
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list connections", err)
		}
		for _, av := range page.Items {
			var item connectionItem
			if err := attributevalue.UnmarshalMap(av, &item); err != nil {
				r.logger.Warn("Failed to unmarshal connection item", zap.Error(err))
				continue
			}
			c, err := item.toEntity()
			if err != nil {
				r.logger.Warn("Skipping corrupt connection item",
					zap.String("connectionID", item.ConnectionID),
					zap.Error(err),
				)
				continue
			}
			connections = append(connections, c)
		}
	}

	sort.SliceStable(connections, func(i, j int) bool {
		return connections[i].CreatedAt().Before(connections[j].CreatedAt())
	})
	return connections, nil
}

// CountByUser counts the user's connections without reading them
func (r *ConnectionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	input, err := r.listInput(userID)
	if err != nil {
		return 0, err
	}
	input.Select = types.SelectCount

	total := 0
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, pkgerrors.NewDatabaseError("count connections", err)
		}
		total += int(page.Count)
	}
	return total, nil
}

func (r *ConnectionRepository) listInput(userID string) (*dynamodb.QueryInput, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("CONNECTION#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection query: %w", err)
	}
	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

var _ ports.ConnectionRepository = (*ConnectionRepository)(nil)
