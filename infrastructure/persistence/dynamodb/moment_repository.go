package dynamodb

import (
	"context"
	"fmt"
	"slices"

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

// MomentRepository implements ports.MomentRepository using DynamoDB.
// Moments sort by creation time under the user's partition.
type MomentRepository struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMomentRepository creates a new MomentRepository
func NewMomentRepository(client API, tableName, indexName string, logger *zap.Logger) *MomentRepository {
	return &MomentRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// momentItem represents the DynamoDB item structure for a moment
type momentItem struct {
	PK                      string   `dynamodbav:"PK"`
	SK                      string   `dynamodbav:"SK"`
	GSI1PK                  string   `dynamodbav:"GSI1PK"` // MOMENT#<id> for direct lookups
	GSI1SK                  string   `dynamodbav:"GSI1SK"` // USER#<uid>
	EntityType              string   `dynamodbav:"EntityType"`
	MomentID                string   `dynamodbav:"MomentID"`
	UserID                  string   `dynamodbav:"UserID"`
	ConnectionID            string   `dynamodbav:"ConnectionID"`
	Emoji                   string   `dynamodbav:"Emoji"`
	Tags                    []string `dynamodbav:"Tags,omitempty"`
	Content                 string   `dynamodbav:"Content"`
	IsIntimate              bool     `dynamodbav:"IsIntimate"`
	IsResolved              bool     `dynamodbav:"IsResolved"`
	ResolutionNotes         string   `dynamodbav:"ResolutionNotes,omitempty"`
	RelatedToMenstrualCycle bool     `dynamodbav:"RelatedToMenstrualCycle"`
	CreatedAt               string   `dynamodbav:"CreatedAt"`
}

func toMomentItem(m *entities.Moment) momentItem {
	s := m.Snapshot()
	return momentItem{
		PK:                      userPK(s.UserID),
		SK:                      momentSK(s.CreatedAt, s.ID),
		GSI1PK:                  momentGSI1PK(s.ID),
		GSI1SK:                  userPK(s.UserID),
		EntityType:              entityMoment,
		MomentID:                s.ID,
		UserID:                  s.UserID,
		ConnectionID:            s.ConnectionID,
		Emoji:                   s.Emoji,
		Tags:                    s.Tags,
		Content:                 s.Content,
		IsIntimate:              s.IsIntimate,
		IsResolved:              s.IsResolved,
		ResolutionNotes:         s.ResolutionNotes,
		RelatedToMenstrualCycle: s.RelatedToMenstrualCycle,
		CreatedAt:               formatTime(s.CreatedAt),
	}
}

func (item momentItem) toEntity() (*entities.Moment, error) {
	return entities.ReconstructMoment(entities.MomentSnapshot{
		ID:                      item.MomentID,
		UserID:                  item.UserID,
		ConnectionID:            item.ConnectionID,
		Emoji:                   item.Emoji,
		Tags:                    item.Tags,
		Content:                 item.Content,
		IsIntimate:              item.IsIntimate,
		IsResolved:              item.IsResolved,
		ResolutionNotes:         item.ResolutionNotes,
		RelatedToMenstrualCycle: item.RelatedToMenstrualCycle,
		CreatedAt:               parseTime(item.CreatedAt),
	})
}

// Save persists a moment to DynamoDB
func (r *MomentRepository) Save(ctx context.Context, moment *entities.Moment) error {
	av, err := attributevalue.MarshalMap(toMomentItem(moment))
	if err != nil {
		return fmt.Errorf("failed to marshal moment: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save moment to DynamoDB",
			zap.String("momentID", moment.ID().String()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("save moment", err)
	}
	return nil
}

// GetByID retrieves one of the user's moments through GSI1
func (r *MomentRepository) GetByID(ctx context.Context, userID string, id valueobjects.MomentID) (*entities.Moment, error) {
	item, err := r.getItem(ctx, userID, id.String())
	if err != nil {
		return nil, err
	}
	return item.toEntity()
}

func (r *MomentRepository) getItem(ctx context.Context, userID, momentID string) (*momentItem, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(momentGSI1PK(momentID))).
		And(expression.Key("GSI1SK").Equal(expression.Value(userPK(userID))))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build moment lookup: %w", err)
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
		return nil, pkgerrors.NewDatabaseError("get moment", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.ErrMomentNotFound(momentID)
	}

	var item momentItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moment: %w", err)
	}
	return &item, nil
}

// ListByUser returns the user's moments oldest first. With a limit the
// query reads newest first and stops once enough moments are collected.
func (r *MomentRepository) ListByUser(ctx context.Context, userID string, filter ports.MomentFilter) ([]*entities.Moment, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID)))
	if filter.Since.IsZero() {
		keyCond = keyCond.And(expression.Key("SK").BeginsWith("MOMENT#"))
	} else {
		keyCond = keyCond.And(expression.Key("SK").Between(
			expression.Value(momentSKLowerBound(filter.Since)),
			expression.Value(momentSKUpperBound),
		))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter.ConnectionID != "" {
		builder = builder.WithFilter(expression.Name("ConnectionID").Equal(expression.Value(filter.ConnectionID)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build moment query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list moments", err)
		}
		items = append(items, page.Items...)
		if filter.Limit > 0 && len(items) >= filter.Limit {
			items = items[:filter.Limit]
			break
		}
	}

	moments := make([]*entities.Moment, 0, len(items))
	for _, av := range items {
		var item momentItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			r.logger.Warn("Failed to unmarshal moment item", zap.Error(err))
			continue
		}
		m, err := item.toEntity()
		if err != nil {
			r.logger.Warn("Skipping corrupt moment item",
				zap.String("momentID", item.MomentID),
				zap.Error(err),
			)
			continue
		}
		moments = append(moments, m)
	}

	slices.Reverse(moments)
	return moments, nil
}

// Delete removes a moment. The sort key embeds the creation time, so the
// item is looked up first.
func (r *MomentRepository) Delete(ctx context.Context, userID string, id valueobjects.MomentID) error {
	item, err := r.getItem(ctx, userID, id.String())
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: item.PK},
			"SK": &types.AttributeValueMemberS{Value: item.SK},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return pkgerrors.ErrMomentNotFound(id.String())
		}
		return pkgerrors.NewDatabaseError("delete moment", err)
	}
	return nil
}

var _ ports.MomentRepository = (*MomentRepository)(nil)
