package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ErrLockHeld is returned when another worker holds the lock
var ErrLockHeld = errors.New("lock already held")

// DistributedLock serializes work per resource using DynamoDB conditional
// writes. The insight refresher takes one lock per user so bursts of events
// for the same user collapse into a single recomputation.
type DistributedLock struct {
	client    API
	tableName string
	logger    *zap.Logger
	now       func() time.Time
}

type lockItem struct {
	PK         string `dynamodbav:"PK"` // LOCK#<resource>
	SK         string `dynamodbav:"SK"` // LOCK
	LockID     string `dynamodbav:"LockID"`
	Owner      string `dynamodbav:"Owner"`
	AcquiredAt string `dynamodbav:"AcquiredAt"`
	ExpiresAt  int64  `dynamodbav:"ExpiresAt"` // unix seconds, also the TTL attribute
}

// NewDistributedLock creates a new distributed lock instance
func NewDistributedLock(client API, tableName string, logger *zap.Logger) *DistributedLock {
	return &DistributedLock{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       time.Now,
	}
}

// RefreshLockResource names the per-user insight refresh lock
func RefreshLockResource(userID string) string {
	return "REFRESH#" + userID
}

func lockKey(resource string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "LOCK#" + resource},
		"SK": &types.AttributeValueMemberS{Value: "LOCK"},
	}
}

// Acquire takes the lock for resource. An expired lock is taken over.
// Returns ErrLockHeld when a live lock exists.
func (dl *DistributedLock) Acquire(ctx context.Context, resource, owner string, ttl time.Duration) (*Lock, error) {
	now := dl.now()
	lockID := fmt.Sprintf("%s_%d", owner, now.UnixNano())
	expiresAt := now.Add(ttl)

	av, err := attributevalue.MarshalMap(lockItem{
		PK:         "LOCK#" + resource,
		SK:         "LOCK",
		LockID:     lockID,
		Owner:      owner,
		AcquiredAt: formatTime(now),
		ExpiresAt:  expiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("PK")).
		Or(expression.Name("ExpiresAt").LessThan(expression.Value(now.Unix())))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock condition: %w", err)
	}

	_, err = dl.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(dl.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			dl.logger.Debug("Lock already held",
				zap.String("resource", resource),
				zap.String("owner", owner),
			)
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, resource)
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	dl.logger.Debug("Lock acquired",
		zap.String("resource", resource),
		zap.String("lockID", lockID),
		zap.Duration("ttl", ttl),
	)
	return &Lock{dl: dl, resource: resource, lockID: lockID, expiresAt: expiresAt}, nil
}

func (dl *DistributedLock) release(ctx context.Context, resource, lockID string) error {
	cond := expression.Name("LockID").Equal(expression.Value(lockID))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build release condition: %w", err)
	}

	_, err = dl.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(dl.tableName),
		Key:                       lockKey(resource),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			// Expired and taken over; nothing left to release
			dl.logger.Warn("Lock already released or taken over",
				zap.String("resource", resource),
				zap.String("lockID", lockID),
			)
			return nil
		}
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Lock is an acquired distributed lock
type Lock struct {
	dl        *DistributedLock
	resource  string
	lockID    string
	expiresAt time.Time
}

// Release releases the lock if this holder still owns it
func (l *Lock) Release(ctx context.Context) error {
	return l.dl.release(ctx, l.resource, l.lockID)
}

// IsExpired checks if the lock has expired
func (l *Lock) IsExpired() bool {
	return l.dl.now().After(l.expiresAt)
}
