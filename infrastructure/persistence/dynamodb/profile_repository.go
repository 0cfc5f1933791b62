package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

const profileSK = "PROFILE"

// ProfileRepository stores one profile item per user
type ProfileRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(client API, tableName string, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{client: client, tableName: tableName, logger: logger}
}

type profileItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	UserID       string `dynamodbav:"UserID"`
	ZodiacSign   string `dynamodbav:"ZodiacSign,omitempty"`
	LoveLanguage string `dynamodbav:"LoveLanguage,omitempty"`
	UpdatedAt    string `dynamodbav:"UpdatedAt"`
}

// Get loads the user's profile
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}
	if len(result.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("profile")
	}

	var item profileItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return entities.ReconstructProfile(entities.ProfileSnapshot{
		UserID:       item.UserID,
		ZodiacSign:   valueobjects.ZodiacSign(item.ZodiacSign),
		LoveLanguage: valueobjects.LoveLanguage(item.LoveLanguage),
		UpdatedAt:    parseTime(item.UpdatedAt),
	}), nil
}

// Save overwrites the user's profile
func (r *ProfileRepository) Save(ctx context.Context, profile *entities.Profile) error {
	s := profile.Snapshot()
	av, err := attributevalue.MarshalMap(profileItem{
		PK:           userPK(s.UserID),
		SK:           profileSK,
		EntityType:   entityProfile,
		UserID:       s.UserID,
		ZodiacSign:   string(s.ZodiacSign),
		LoveLanguage: string(s.LoveLanguage),
		UpdatedAt:    formatTime(s.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save profile", zap.String("userID", s.UserID), zap.Error(err))
		return pkgerrors.NewDatabaseError("save profile", err)
	}
	return nil
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)
